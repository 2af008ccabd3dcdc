package commands

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/runlog"
)

func newHistoryCommand() *cobra.Command {
	var repoDir string
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent insight runs from the run log",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			absDir, err := filepath.Abs(repoDir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			entries, err := runlog.Read(absDir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No runs recorded.")
				return nil
			}
			if limit > 0 && len(entries) > limit {
				entries = entries[len(entries)-limit:]
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tSTATE\tCOUNT\tFAILED\tINSIGHTS")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n",
					calendar.In(e.Timestamp).Format(time.DateTime),
					e.State,
					len(e.Insights),
					dash(strings.Join(e.FailedFeeds, ",")),
					dash(strings.Join(e.Insights, " ")),
				)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "number of runs to show (0 for all)")

	return cmd
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
