package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/importer"
	"github.com/pantau-dev/pantau/internal/store"
)

func newImportCommand() *cobra.Command {
	var repoDir string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load CSV files from import/ into the ledger",
		Long: `Load every CSV in import/ into the ledger. The format comes from the
file name prefix: transactions-*.csv, budgets-*.csv, subscriptions*.csv
or goals*.csv. Each file is written in one transaction and then moved to
import/processed/.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := openProject(repoDir, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer p.Close()
			return runImport(cmd, p)
		},
	}

	cmd.Flags().StringVar(&repoDir, "repo", ".", "project directory")

	return cmd
}

func runImport(cmd *cobra.Command, p *project) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	files, err := importer.Scan(p.dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(out, "No files to import.")
		return nil
	}

	reg := importer.DefaultRegistry()
	imported, records := 0, 0
	for _, f := range files {
		if reg.Get(f.Format) == nil {
			p.log.Warn("skipping file with unknown format", "file", f.Name, "format", f.Format)
			continue
		}
		b, err := reg.ParseFile(f.Path, f.Format)
		if err != nil {
			return err
		}
		if err := p.store.WithTx(ctx, func(tx *store.Tx) error {
			return writeBatch(ctx, tx, b)
		}); err != nil {
			return fmt.Errorf("importing %s: %w", f.Name, err)
		}
		if err := importer.MarkProcessed(p.dir, f.Name); err != nil {
			return err
		}
		p.log.Info("imported file", "file", f.Name, "format", f.Format, "records", b.Len())
		fmt.Fprintf(out, "Imported %d records from %s\n", b.Len(), f.Name)
		imported++
		records += b.Len()
	}
	if imported == 0 {
		return nil
	}

	hash, err := p.commit(ctx, fmt.Sprintf("import: %d files, %d records", imported, records))
	if err != nil {
		return fmt.Errorf("committing import: %w", err)
	}
	if hash != "" {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
	return nil
}

func writeBatch(ctx context.Context, tx *store.Tx, b *importer.Batch) error {
	for _, t := range b.Transactions {
		if _, err := tx.AddTransaction(ctx, t); err != nil {
			return err
		}
	}
	for _, bud := range b.Budgets {
		if err := tx.UpsertBudget(ctx, bud); err != nil {
			return err
		}
	}
	for _, sub := range b.Subscriptions {
		if _, err := tx.AddSubscription(ctx, sub); err != nil {
			return err
		}
	}
	for _, g := range b.Goals {
		if err := tx.UpsertGoal(ctx, g); err != nil {
			return err
		}
	}
	return nil
}
