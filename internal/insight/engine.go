// Package insight turns feed rows into a small ranked set of spending insights.
package insight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/pantau-dev/pantau/internal/feed"
	"github.com/pantau-dev/pantau/internal/fields"
	"github.com/pantau-dev/pantau/internal/model"
)

// State is what a caller renders for a run.
type State int

const (
	// StateLoading means feeds are still in flight.
	StateLoading State = iota
	// StateReady means every feed answered.
	StateReady
	// StatePartial means at least one feed failed; insights come from the rest.
	StatePartial
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StatePartial:
		return "partial"
	}
	return "unknown"
}

// Result is the outcome of one run.
type Result struct {
	RunID    string
	Now      time.Time
	Insights []model.Insight
	// Failed lists the feeds that errored, in declaration order.
	Failed []feed.Name
	// Err is the first feed error in declaration order.
	Err error
}

// Partial reports whether any feed failed.
func (r Result) Partial() bool {
	return r.Err != nil
}

// State returns StatePartial or StateReady.
func (r Result) State() State {
	if r.Partial() {
		return StatePartial
	}
	return StateReady
}

type generator struct {
	name string
	run  func(feed.Result, time.Time) []model.Insight
}

// generators run in this order; it is also the final tie-break order.
var generators = []generator{
	{"merchant_trend", func(r feed.Result, now time.Time) []model.Insight {
		return MerchantTrend(r.Get(feed.MerchantWeekly), now)
	}},
	{"burn_rate", func(r feed.Result, now time.Time) []model.Insight {
		return BurnRate(r.Get(feed.Budgets), r.Get(feed.CashflowMonthly), now)
	}},
	{"good_day", func(r feed.Result, now time.Time) []model.Insight {
		return GoodDay(r.Get(feed.RecentExpenses), now)
	}},
	{"subscription_due", func(r feed.Result, now time.Time) []model.Insight {
		return SubscriptionDue(r.Get(feed.UpcomingSubscriptions), now)
	}},
	{"goal_milestones", func(r feed.Result, now time.Time) []model.Insight {
		return GoalMilestones(r.Get(feed.ActiveGoals), now)
	}},
	{"top_category", func(r feed.Result, now time.Time) []model.Insight {
		return TopCategory(r.Get(feed.CategoryWeekly), now)
	}},
	{"cashflow_sign", func(r feed.Result, now time.Time) []model.Insight {
		return CashflowSign(r.Get(feed.CashflowMonthly), now)
	}},
}

// Candidates runs every generator over fetched feeds and concatenates
// their output in generator order. A generator that panics contributes
// nothing; the others are unaffected.
func Candidates(res feed.Result, now time.Time) []model.Insight {
	out, _ := generate(res, now)
	return out
}

func generate(res feed.Result, now time.Time) ([]model.Insight, []error) {
	var (
		out  []model.Insight
		errs []error
	)
	for _, g := range generators {
		cands, err := runGenerator(g, res, now)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out = append(out, cands...)
	}
	return out, errs
}

func runGenerator(g generator, res feed.Result, now time.Time) (out []model.Insight, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = nil, fmt.Errorf("generator %s: panic: %v", g.name, r)
		}
	}()
	return g.run(res, now), nil
}

// Engine runs the fetch, generate and rank pipeline. It holds no state
// between runs and is safe for concurrent use.
type Engine struct {
	Source feed.Source
	// Limit caps the number of insights; DefaultLimit when zero.
	Limit  int
	Logger *slog.Logger
}

// NewEngine creates an Engine with the default limit.
func NewEngine(src feed.Source, logger *slog.Logger) *Engine {
	return &Engine{Source: src, Limit: DefaultLimit, Logger: logger}
}

// Run fetches every feed, generates candidates and ranks them. Feed errors
// never abort the run; they are returned in Result.
func (e *Engine) Run(ctx context.Context, now time.Time) Result {
	log := e.logger()
	runID := uuid.NewString()
	started := time.Now()

	fetched := feed.FetchAll(ctx, e.Source, feed.NewWindow(now), feed.All...)
	for _, name := range fetched.Failed {
		log.Warn("feed failed", "run_id", runID, "feed", string(name), "error", fetched.Errs[name])
	}

	cands, genErrs := generate(fetched, now)
	for _, err := range genErrs {
		log.Error("generator dropped", "run_id", runID, "error", err)
	}
	insights := Rank(cands, e.Limit)
	if insights == nil {
		insights = []model.Insight{}
	}

	res := Result{
		RunID:    runID,
		Now:      now,
		Insights: insights,
		Failed:   fetched.Failed,
		Err:      fetched.Err,
	}
	log.Info("insights computed",
		"run_id", runID,
		"state", res.State().String(),
		"candidates", len(cands),
		"insights", len(insights),
		"failed_feeds", len(fetched.Failed),
		"schema", fields.SchemaVersion,
		"duration", time.Since(started),
	)
	return res
}

func (e *Engine) logger() *slog.Logger {
	if e.Logger != nil {
		return e.Logger
	}
	return slog.Default()
}

// Pending is a run in flight.
type Pending struct {
	done chan struct{}
	res  Result
}

// Start begins a run in the background.
func (e *Engine) Start(ctx context.Context, now time.Time) *Pending {
	p := &Pending{done: make(chan struct{})}
	go func() {
		defer close(p.done)
		p.res = e.Run(ctx, now)
	}()
	return p
}

// Done is closed when the run settles.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// State returns StateLoading until the run settles, then the result's state.
func (p *Pending) State() State {
	select {
	case <-p.done:
		return p.res.State()
	default:
		return StateLoading
	}
}

// Wait blocks until the run settles or ctx is done.
func (p *Pending) Wait(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		return p.res, nil
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}
