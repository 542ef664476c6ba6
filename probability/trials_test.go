package probability_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/probability"
	"golang.org/x/exp/rand"
)

func TestRunTrialsIsIndependentOfWorkerCount(t *testing.T) {
	t.Parallel()

	fn := func(_ context.Context, _ int, rng *rand.Rand) (float64, error) {
		return rng.Float64(), nil
	}

	serial, err := probability.RunTrials(context.Background(), 16, 1, 42, fn)
	if err != nil {
		t.Fatalf("RunTrials error: %v", err)
	}
	parallel, err := probability.RunTrials(context.Background(), 16, 8, 42, fn)
	if err != nil {
		t.Fatalf("RunTrials error: %v", err)
	}

	for i := range serial {
		if serial[i] != parallel[i] {
			t.Fatalf("trial %d: %v vs %v", i, serial[i], parallel[i])
		}
		if want := models.NewRNG(42 + uint64(i)).Float64(); serial[i] != want {
			t.Fatalf("trial %d not seeded with seed+i", i)
		}
	}
}

func TestRunTrialsStopsOnError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	var calls atomic.Int32
	fn := func(_ context.Context, trial int, _ *rand.Rand) (float64, error) {
		calls.Add(1)
		if trial == 0 {
			return 0, boom
		}
		return 1, nil
	}

	if _, err := probability.RunTrials(context.Background(), 100, 1, 0, fn); !errors.Is(err, boom) {
		t.Fatalf("got %v, want boom", err)
	}
	if n := calls.Load(); n == 100 {
		t.Fatalf("all trials ran after the first failure")
	}
}

func TestRunTrialsHonoursCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := func(context.Context, int, *rand.Rand) (float64, error) { return 0, nil }
	if _, err := probability.RunTrials(ctx, 10, 2, 0, fn); !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v, want context.Canceled", err)
	}
	if _, err := probability.RunTrials(context.Background(), 0, 2, 0, fn); !errors.Is(err, models.ErrInvalidParameter) {
		t.Fatalf("zero trials: got %v", err)
	}
}
