package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "pantau",
		Short:   "Personal spending insights from your own ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		newInitCommand(),
		newImportCommand(),
		newInsightsCommand(),
		newHistoryCommand(),
		newTxCommand(),
		newWatchCommand(),
	)

	return rootCmd
}
