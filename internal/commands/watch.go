package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/config"
	"github.com/pantau-dev/pantau/internal/notify"
	"github.com/pantau-dev/pantau/internal/schedule"
)

func newWatchCommand() *cobra.Command {
	var repoDir string
	var once bool
	var sendEmpty bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run insights on the configured schedule and send digests",
		Long: `Run insights on schedule.cron (evaluated in UTC+7) and deliver each
digest by email and Telegram when enabled in pantau.yaml. Runs until
interrupted. With --once, runs a single time and exits.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			senders, err := buildSenders(p.cfg)
			if err != nil {
				return err
			}
			w := &watcher{
				project: p,
				out:     cmd.OutOrStdout(),
				notifier: &notify.Notifier{
					Renderer:  notify.NewRenderer(),
					Senders:   senders,
					Logger:    p.log,
					SendEmpty: sendEmpty,
				},
			}

			ctx := cmd.Context()
			if once {
				return w.tick(ctx, time.Now())
			}
			return w.loop(ctx)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&once, "once", false, "run once now and exit")
	cmd.Flags().BoolVar(&sendEmpty, "send-empty", false, "send a digest even when there are no insights")

	return cmd
}

func buildSenders(cfg *config.Config) ([]notify.Sender, error) {
	var senders []notify.Sender
	if cfg.Email.Enabled {
		senders = append(senders, notify.NewEmailSender(cfg.Email))
	}
	tg, err := notify.DialTelegram(cfg.Telegram)
	if err != nil {
		return nil, err
	}
	if tg != nil {
		senders = append(senders, tg)
	}
	return senders, nil
}

type watcher struct {
	project  *project
	out      io.Writer
	notifier *notify.Notifier
}

// tick is one scheduled run: compute, log, print and deliver.
func (w *watcher) tick(ctx context.Context, at time.Time) error {
	p := w.project
	res := p.engine().Run(ctx, at)
	p.record(res)

	d := notify.NewDigest(p.cfg.Owner.Name, res)
	fmt.Fprintf(w.out, "[%s] %s: %d insights\n", d.Date.Format(time.DateTime), res.State(), len(res.Insights))
	return w.notifier.Notify(ctx, d)
}

func (w *watcher) loop(ctx context.Context) error {
	spec := w.project.cfg.Schedule.Cron
	next, err := schedule.Next(spec, time.Now())
	if err != nil {
		return err
	}

	s := schedule.New(w.tick, w.project.log)
	if err := s.Start(ctx, spec); err != nil {
		return err
	}
	defer s.Stop()

	fmt.Fprintf(w.out, "Watching %s (%s); next run %s. Press Ctrl+C to stop.\n",
		w.project.dir, spec, next.Format(time.DateTime))
	<-ctx.Done()
	return nil
}
