// Package schedule runs a job on a cron spec evaluated in the UTC+7 calendar.
package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/pantau-dev/pantau/internal/calendar"
)

// Job is run on every tick. The time is the tick's scheduled time in UTC+7.
type Job func(ctx context.Context, at time.Time) error

// Parse validates a standard 5-field spec (or @daily style descriptor).
func Parse(spec string) (cron.Schedule, error) {
	s, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parsing cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Next returns the first activation of spec strictly after t, in UTC+7.
func Next(spec string, t time.Time) (time.Time, error) {
	s, err := Parse(spec)
	if err != nil {
		return time.Time{}, err
	}
	return s.Next(calendar.In(t)), nil
}

// Scheduler wraps a cron runner with a single job.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	job    Job
	logger *slog.Logger
}

// New creates a stopped scheduler.
func New(job Job, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{job: job, logger: logger}
}

// Start schedules the job. Ticks that fire after ctx is done are skipped.
// Overlapping ticks are skipped while a run is still going.
func (s *Scheduler) Start(ctx context.Context, spec string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cron != nil {
		return fmt.Errorf("scheduler already started")
	}
	sched, err := Parse(spec)
	if err != nil {
		return err
	}

	logger := cronLogger{s.logger}
	c := cron.New(
		cron.WithLocation(calendar.Zone),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)
	c.Schedule(sched, cron.FuncJob(func() {
		if ctx.Err() != nil {
			return
		}
		at := calendar.In(time.Now())
		if err := s.job(ctx, at); err != nil {
			s.logger.Error("scheduled run failed", "error", err)
		}
	}))
	s.cron = c
	c.Start()
	s.logger.Info("scheduler started", "spec", spec, "next", sched.Next(calendar.In(time.Now())).Format(time.RFC3339))
	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cron == nil {
		return
	}
	<-s.cron.Stop().Done()
	s.cron = nil
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{"error", err}, keysAndValues...)...)
}
