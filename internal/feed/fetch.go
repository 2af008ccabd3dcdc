package feed

import (
	"context"
	"fmt"
	"sync"

	"github.com/pantau-dev/pantau/internal/fields"
)

// Result is the settled outcome of one FetchAll call.
type Result struct {
	// Rows holds every requested feed; failed feeds map to an empty slice.
	Rows map[Name][]fields.Row
	// Errs holds the error of each failed feed.
	Errs map[Name]error
	// Failed lists failed feeds in request order.
	Failed []Name
	// Err is the first error in request order, or nil.
	Err error
}

// Get returns the rows for name, never nil.
func (r Result) Get(name Name) []fields.Row {
	if rows := r.Rows[name]; rows != nil {
		return rows
	}
	return []fields.Row{}
}

type outcome struct {
	rows []fields.Row
	err  error
}

// FetchAll fetches every named feed concurrently and waits for all of them
// to settle. A failing feed never cancels or hides the others.
func FetchAll(ctx context.Context, src Source, w Window, names ...Name) Result {
	outcomes := make([]outcome, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i] = fetchOne(ctx, src, name, w)
		}()
	}
	wg.Wait()

	res := Result{
		Rows: make(map[Name][]fields.Row, len(names)),
		Errs: make(map[Name]error),
	}
	for i, name := range names {
		o := outcomes[i]
		if o.err != nil {
			res.Rows[name] = []fields.Row{}
			res.Errs[name] = o.err
			res.Failed = append(res.Failed, name)
			if res.Err == nil {
				res.Err = o.err
			}
			continue
		}
		if o.rows == nil {
			o.rows = []fields.Row{}
		}
		res.Rows[name] = o.rows
	}
	return res
}

func fetchOne(ctx context.Context, src Source, name Name, w Window) (o outcome) {
	defer func() {
		if r := recover(); r != nil {
			o = outcome{err: fmt.Errorf("feed %s: panic: %v", name, r)}
		}
	}()
	rows, err := src.Fetch(ctx, name, w)
	if err != nil {
		return outcome{err: fmt.Errorf("feed %s: %w", name, err)}
	}
	return outcome{rows: rows}
}
