package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/pantau-dev/pantau/internal/config"
	"github.com/pantau-dev/pantau/internal/gitops"
	"github.com/pantau-dev/pantau/internal/insight"
	"github.com/pantau-dev/pantau/internal/runlog"
	"github.com/pantau-dev/pantau/internal/store"
)

// project is an opened pantau directory.
type project struct {
	dir   string
	cfg   *config.Config
	log   *slog.Logger
	store *store.Store
}

func openProject(dir string, stderr io.Writer) (*project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolving path: %w", err)
	}
	cfg, err := config.Load(filepath.Join(absDir, config.FileName))
	if err != nil {
		return nil, err
	}
	level, _ := cfg.LogLevel()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dbPath := cfg.Ledger.DBPath
	if !filepath.IsAbs(dbPath) {
		dbPath = filepath.Join(absDir, dbPath)
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &project{dir: absDir, cfg: cfg, log: logger, store: st}, nil
}

func (p *project) Close() error {
	return p.store.Close()
}

func (p *project) engine() *insight.Engine {
	eng := insight.NewEngine(p.store, p.log)
	eng.Limit = p.cfg.Insights.Limit
	return eng
}

// record appends a run to the run log. A log write failure is reported but
// never hides the run's own result.
func (p *project) record(res insight.Result) {
	if err := runlog.Append(p.dir, []runlog.Entry{runlog.FromResult(res)}); err != nil {
		p.log.Error("writing run log", "run_id", res.RunID, "error", err)
	}
}

// commit records the worktree when auto commit is on. A clean tree is not an error.
func (p *project) commit(ctx context.Context, message string) (string, error) {
	if !p.cfg.Git.AutoCommit || !gitops.IsRepo(p.dir) {
		return "", nil
	}
	if err := p.store.Checkpoint(ctx); err != nil {
		return "", err
	}
	hash, err := gitops.CommitAll(ctx, p.dir, message, gitops.Author{
		Name:  p.cfg.Git.AuthorName,
		Email: p.cfg.Git.AuthorEmail,
	})
	if errors.Is(err, gitops.ErrNothingToCommit) {
		return "", nil
	}
	return hash, err
}
