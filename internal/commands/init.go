package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pantau-dev/pantau/internal/config"
	"github.com/pantau-dev/pantau/internal/gitops"
	"github.com/pantau-dev/pantau/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var noGit bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Pantau project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd, absDir, name, !noGit)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "owner name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().BoolVar(&noGit, "no-git", false, "do not create a git repository")

	return cmd
}

func runInit(cmd *cobra.Command, dir, name string, useGit bool) error {
	out := cmd.OutOrStdout()

	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s already exists in %s", config.FileName, dir)
	}

	dirs := []string{
		"logs",
		"import",
		filepath.Join("import", "processed"),
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default(name)
	cfg.Git.AutoCommit = useGit
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return err
	}

	st, err := store.Open(filepath.Join(dir, cfg.Ledger.DBPath))
	if err != nil {
		return fmt.Errorf("creating ledger: %w", err)
	}
	if err := st.Close(); err != nil {
		return fmt.Errorf("closing ledger: %w", err)
	}

	// SQLite side files change on every open.
	gitignore := "*.db-wal\n*.db-shm\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "import", ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !useGit {
		fmt.Fprintf(out, "Initialized Pantau project at %s\n", dir)
		return nil
	}
	return initGit(cmd, out, dir, name, cfg)
}

func initGit(cmd *cobra.Command, out io.Writer, dir, name string, cfg *config.Config) error {
	ctx := cmd.Context()
	if err := gitops.Init(ctx, dir); err != nil {
		return err
	}
	hash, err := gitops.CommitAll(ctx, dir, "init: Initialize "+name, gitops.Author{
		Name:  cfg.Git.AuthorName,
		Email: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized Pantau project at %s (%s)\n", dir, hash)
	return nil
}
