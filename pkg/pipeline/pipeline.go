// Package pipeline runs a batch of records through a built rule table: a
// context pre-pass, dispatch (optionally on several workers) and the
// postponed hooks of every kind.
package pipeline

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/arthur-debert/gffrules/pkg/errors"
	"github.com/arthur-debert/gffrules/pkg/logging"
	"github.com/arthur-debert/gffrules/pkg/rules"
	"github.com/arthur-debert/gffrules/pkg/types"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configure a Runner
type Options struct {
	// Workers is the number of dispatch goroutines; 0 means GOMAXPROCS
	Workers int
}

// Summary counts what happened to a batch
type Summary struct {
	Records   int
	Matched   int
	Fallbacks int
	Valid     int
	Invalid   int
	Ignored   int
	Rewritten int
	Duration  time.Duration
}

// Runner processes batches against one dispatcher
type Runner struct {
	dispatcher *rules.Dispatcher
	workers    int
	logger     zerolog.Logger
}

// NewRunner returns a runner for d
func NewRunner(d *rules.Dispatcher, opts Options) *Runner {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	return &Runner{
		dispatcher: d,
		workers:    workers,
		logger:     logging.GetLogger("pipeline"),
	}
}

// Workers returns the dispatch concurrency
func (r *Runner) Workers() int { return r.workers }

// Run processes every record of batch. The first action error stops the
// dispatch and is returned; postponed hooks only run after a clean dispatch.
func (r *Runner) Run(ctx context.Context, batch *types.Batch) (Summary, error) {
	start := time.Now()
	done := logging.LogOperationStart(r.logger, "process batch")
	defer done()

	kinds := r.dispatcher.Kinds()
	fallback := r.dispatcher.Fallback()
	batch.NoConfig = !r.dispatcher.Table().Configured()

	for _, rec := range batch.Records {
		for _, k := range kinds {
			k.PrepareContext(rec)
		}
		fallback.PrepareContext(rec)
	}

	var matched, fallbacks int64
	if err := r.dispatch(ctx, batch.Records, &matched, &fallbacks); err != nil {
		return Summary{}, err
	}

	for _, k := range kinds {
		k.PreparePostponed(batch)
	}
	fallback.PreparePostponed(batch)

	for _, k := range kinds {
		if err := k.RunPostponed(batch); err != nil {
			return Summary{}, errors.Wrapf(err, errors.ErrActionApply, "postponed %s failed", k.Name())
		}
	}
	if err := fallback.RunPostponed(batch); err != nil {
		return Summary{}, errors.Wrapf(err, errors.ErrActionApply, "postponed %s failed", fallback.Name())
	}

	sum := summarize(batch.Records)
	sum.Matched = int(matched)
	sum.Fallbacks = int(fallbacks)
	sum.Duration = time.Since(start)

	r.logger.Info().
		Int("records", sum.Records).
		Int("matched", sum.Matched).
		Int("fallbacks", sum.Fallbacks).
		Int("workers", r.workers).
		Dur("duration", sum.Duration).
		Msg("Batch processed")
	return sum, nil
}

func (r *Runner) dispatch(ctx context.Context, records []*types.Record, matched, fallbacks *int64) error {
	g, ctx := errgroup.WithContext(ctx)
	next := make(chan *types.Record)

	g.Go(func() error {
		defer close(next)
		for _, rec := range records {
			if err := ctx.Err(); err != nil {
				return err
			}
			select {
			case next <- rec:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < r.workers; i++ {
		g.Go(func() error {
			for rec := range next {
				out, err := r.dispatcher.Process(rec)
				if err != nil {
					return errors.Wrapf(err, errors.ErrActionApply, "record at line %d", rec.Line).
						WithDetail("line", rec.Line)
				}
				if out.Fallback {
					atomic.AddInt64(fallbacks, 1)
				} else {
					atomic.AddInt64(matched, 1)
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func summarize(records []*types.Record) Summary {
	sum := Summary{Records: len(records)}
	for _, rec := range records {
		switch {
		case rec.Ignored():
			sum.Ignored++
		case rec.Invalid():
			sum.Invalid++
		case rec.Valid():
			sum.Valid++
		}
		if rec.Rewritten() {
			sum.Rewritten++
		}
	}
	return sum
}
