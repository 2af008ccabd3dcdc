package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/insight"
	"github.com/pantau-dev/pantau/internal/model"
	"github.com/pantau-dev/pantau/internal/notify"
)

type insightsOptions struct {
	repoDir string
	asJSON  bool
	at      string
	noLog   bool
}

func newInsightsCommand() *cobra.Command {
	var opts insightsOptions

	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Show the top spending insights for today",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := resolveNow(opts.at)
			if err != nil {
				return err
			}
			p, err := openProject(opts.repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()
			return runInsights(cmd.Context(), cmd.OutOrStdout(), p, now, opts)
		},
	}

	cmd.Flags().StringVar(&opts.repoDir, "repo", ".", "project directory")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print the result as JSON")
	cmd.Flags().StringVar(&opts.at, "at", "", "evaluate as of this day (YYYY-MM-DD, UTC+7)")
	cmd.Flags().BoolVar(&opts.noLog, "no-log", false, "do not append to logs/insight-log.csv")

	return cmd
}

// resolveNow returns the current time, or midday UTC+7 of the --at day.
func resolveNow(at string) (time.Time, error) {
	if at == "" {
		return calendar.In(time.Now()), nil
	}
	d, err := calendar.ParseDay(at)
	if err != nil {
		return time.Time{}, fmt.Errorf("--at: %w", err)
	}
	return d.Add(12 * time.Hour), nil
}

func runInsights(ctx context.Context, out io.Writer, p *project, now time.Time, opts insightsOptions) error {
	pending := p.engine().Start(ctx, now)
	p.log.Debug("run started", "state", pending.State().String())
	res, err := pending.Wait(ctx)
	if err != nil {
		return err
	}
	if !opts.noLog {
		p.record(res)
	}

	if opts.asJSON {
		return writeJSON(out, res)
	}
	_, err = io.WriteString(out, notify.RenderText(notify.NewDigest(p.cfg.Owner.Name, res)))
	return err
}

type resultJSON struct {
	RunID       string          `json:"run_id"`
	At          string          `json:"at"`
	State       string          `json:"state"`
	Insights    []model.Insight `json:"insights"`
	FailedFeeds []string        `json:"failed_feeds,omitempty"`
	Error       string          `json:"error,omitempty"`
}

func writeJSON(out io.Writer, res insight.Result) error {
	v := resultJSON{
		RunID:    res.RunID,
		At:       calendar.In(res.Now).Format(time.RFC3339),
		State:    res.State().String(),
		Insights: res.Insights,
	}
	for _, name := range res.Failed {
		v.FailedFeeds = append(v.FailedFeeds, string(name))
	}
	if res.Err != nil {
		v.Error = res.Err.Error()
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
