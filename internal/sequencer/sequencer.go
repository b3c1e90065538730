// Package sequencer runs batches of tracks through one propagation setup.
//
// Each track gets its own Options (and therefore its own action/aborter
// instances) and its own cache, so tracks can run on separate workers. A
// track that does not reach its target is logged and skipped, never fatal.
package sequencer

import (
	"context"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/dlai211/acts/internal/propagator"
	"github.com/dlai211/acts/internal/surface"
	"github.com/dlai211/acts/internal/track"
)

// OptionsFn builds fresh propagation options per track. Required because
// actions and aborters inside the lists are stateful.
type OptionsFn func() propagator.Options

// Summary counts batch outcomes.
type Summary struct {
	Tracks      int
	Succeeded   int
	Failed      int
	OutOfBudget int
}

type Sequencer struct {
	prop    *propagator.Propagator
	optsFn  OptionsFn
	workers int
	logger  *log.Logger
}

func New(prop *propagator.Propagator, optsFn OptionsFn, workers int, logger *log.Logger) *Sequencer {
	if workers < 1 {
		workers = 1
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Sequencer{prop: prop, optsFn: optsFn, workers: workers, logger: logger}
}

// Run propagates every start state without a target surface. Results keep
// the input order. Only configuration errors abort the batch.
func (s *Sequencer) Run(ctx context.Context, starts []track.Parameters) ([]*propagator.Result, Summary, error) {
	return s.run(ctx, starts, nil)
}

// RunTo propagates every start state toward the target surface. The target
// is shared read-only across workers and must not be mutated during the
// batch.
func (s *Sequencer) RunTo(ctx context.Context, starts []track.Parameters, target surface.Surface) ([]*propagator.Result, Summary, error) {
	return s.run(ctx, starts, target)
}

func (s *Sequencer) run(ctx context.Context, starts []track.Parameters, target surface.Surface) ([]*propagator.Result, Summary, error) {
	results := make([]*propagator.Result, len(starts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i := range starts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			opts := s.optsFn()
			var (
				res *propagator.Result
				err error
			)
			if target != nil {
				res, err = s.prop.PropagateTo(starts[i], target, opts)
			} else {
				res, err = s.prop.Propagate(starts[i], opts)
			}
			if err != nil {
				// configuration error, same for every track
				return err
			}
			results[i] = res

			if res.OK() {
				s.logger.Debug("track propagated",
					"track", i, "steps", res.Steps, "path", res.PathLength)
			} else {
				s.logger.Warn("track did not finish",
					"track", i, "status", res.Status, "steps", res.Steps)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, Summary{}, err
	}

	sum := Summary{Tracks: len(starts)}
	for _, res := range results {
		switch {
		case res.OK():
			sum.Succeeded++
		case res.Status == propagator.StatusInProgress:
			sum.OutOfBudget++
		default:
			sum.Failed++
		}
	}
	s.logger.Info("batch done",
		"tracks", sum.Tracks, "succeeded", sum.Succeeded,
		"failed", sum.Failed, "out_of_budget", sum.OutOfBudget)
	return results, sum, nil
}
