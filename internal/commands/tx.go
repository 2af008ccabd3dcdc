package commands

import (
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/calendar"
	"github.com/pantau-dev/pantau/internal/insight"
)

func newTxCommand() *cobra.Command {
	txCmd := &cobra.Command{
		Use:   "tx",
		Short: "Ledger transaction operations",
	}
	txCmd.AddCommand(newTxListCommand(), newTxDeleteCommand())
	return txCmd
}

func newTxListCommand() *cobra.Command {
	var repoDir, month string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List live transactions for a month",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := calendar.StartOfMonth(time.Now())
			if month != "" {
				m, err := calendar.ParseMonth(month)
				if err != nil {
					return fmt.Errorf("--month: %w", err)
				}
				from = m
			}

			p, err := openProject(repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			txs, err := p.store.Transactions(cmd.Context(), from, calendar.StartOfNextMonth(from))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(txs) == 0 {
				fmt.Fprintf(out, "No transactions in %s.\n", calendar.MonthKey(from))
				return nil
			}

			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', tabwriter.AlignRight)
			fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tMERCHANT\tCATEGORY\t")
			for _, t := range txs {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t\n",
					t.ID, calendar.DayKey(t.Date), insight.Rupiah(t.Signed().InexactFloat64()),
					dash(t.Merchant), dash(t.Category))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")
	cmd.Flags().StringVar(&month, "month", "", "month to list (YYYY-MM, default current)")

	return cmd
}

func newTxDeleteCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Soft-delete a transaction so it no longer affects insights",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			txID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid transaction id %q", args[0])
			}

			p, err := openProject(repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()

			ctx := cmd.Context()
			if err := p.store.SoftDeleteTransaction(ctx, txID, time.Now()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted transaction %d\n", txID)

			if _, err := p.commit(ctx, fmt.Sprintf("tx: delete %d", txID)); err != nil {
				return fmt.Errorf("committing delete: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}
