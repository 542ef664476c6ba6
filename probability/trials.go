package probability

import (
	"context"
	"runtime"

	"github.com/bcdannyboy/stocsim/models"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// TrialFunc runs one independent trial with its own generator.
type TrialFunc func(ctx context.Context, trial int, rng *rand.Rand) (float64, error)

// RunTrials runs fn for trials 0..trials-1 on at most workers goroutines.
// Trial i is seeded with seed+i, so results do not depend on scheduling.
// A workers value below 1 uses GOMAXPROCS.
func RunTrials(ctx context.Context, trials, workers int, seed uint64, fn TrialFunc) ([]float64, error) {
	if trials < 1 {
		return nil, models.Invalidf("number of trials must be at least 1, got %d", trials)
	}
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	results := make([]float64, trials)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := 0; i < trials; i++ {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			v, err := fn(gctx, i, models.NewRNG(seed+uint64(i)))
			if err != nil {
				return err
			}
			results[i] = v
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}
