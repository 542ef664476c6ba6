package pricing_test

import (
	"errors"
	"math"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/pricing"
	"gonum.org/v1/gonum/mat"
)

func TestLongstaffSchwartzHandcraftedPaths(t *testing.T) {
	t.Parallel()

	// Put with K=10 on three paths. At t=1 paths 0 and 1 are in the money and
	// the regression through (8, 4) and (9, 0) is exact: path 0 continues,
	// path 1 exercises for 1, path 2 is out of the money and carries 3.
	// At t=0 no path is strictly in the money.
	prices := mat.NewDense(3, 3, []float64{
		10, 8, 6,
		10, 9, 12,
		10, 11, 7,
	})

	res, err := pricing.LongstaffSchwartz(prices, 10, 0, 2, 1, pricing.Put)
	if err != nil {
		t.Fatalf("LongstaffSchwartz error: %v", err)
	}

	want := []float64{4, 1, 3}
	for i, w := range want {
		if math.Abs(res.Payoffs[i]-w) > 1e-9 {
			t.Fatalf("payoff[%d] = %v, want %v", i, res.Payoffs[i], w)
		}
	}
	if math.Abs(res.Price-8.0/3.0) > 1e-9 {
		t.Fatalf("price = %v, want %v", res.Price, 8.0/3.0)
	}
	if res.BackwardSteps != 2 || res.DegenerateSteps != 1 {
		t.Fatalf("steps = %d/%d, want 2/1", res.BackwardSteps, res.DegenerateSteps)
	}
}

func TestLongstaffSchwartzDiscounting(t *testing.T) {
	t.Parallel()

	prices := mat.NewDense(3, 3, []float64{
		10, 8, 6,
		10, 9, 12,
		10, 11, 7,
	})
	r, dt, horizon := 0.1, 1.0, 2.0

	res, err := pricing.LongstaffSchwartz(prices, 10, r, horizon, dt, pricing.Put)
	if err != nil {
		t.Fatalf("LongstaffSchwartz error: %v", err)
	}

	d := math.Exp(-r * dt)
	want := []float64{4 * d * d, 1 * d, 3 * d * d}
	mean := 0.0
	for i, w := range want {
		if math.Abs(res.Payoffs[i]-w) > 1e-9 {
			t.Fatalf("payoff[%d] = %v, want %v", i, res.Payoffs[i], w)
		}
		mean += w / 3
	}
	if wantPrice := math.Exp(-r*horizon) * mean; math.Abs(res.Price-wantPrice) > 1e-9 {
		t.Fatalf("price = %v, want %v", res.Price, wantPrice)
	}
}

func TestLongstaffSchwartzSingleInTheMoneyPathExercises(t *testing.T) {
	t.Parallel()

	// Only path 0 is in the money at t=1, so continuation is taken as zero
	// and the call exercises for its intrinsic value of 2.
	prices := mat.NewDense(2, 3, []float64{
		10, 12, 20,
		10, 9, 8,
	})

	res, err := pricing.LongstaffSchwartz(prices, 10, 0, 2, 1, pricing.Call)
	if err != nil {
		t.Fatalf("LongstaffSchwartz error: %v", err)
	}
	if res.Payoffs[0] != 2 || res.Payoffs[1] != 0 {
		t.Fatalf("payoffs = %v, want [2 0]", res.Payoffs)
	}
	if res.DegenerateSteps != 2 {
		t.Fatalf("degenerate steps = %d, want 2", res.DegenerateSteps)
	}
}

func TestPriceAmericanOptionStepCount(t *testing.T) {
	t.Parallel()

	res, err := pricing.PriceAmericanOption(100, 100, 0.05, 0.2, 1, 0.01, 200, 0.05, pricing.Put, models.NewRNG(1))
	if err != nil {
		t.Fatalf("PriceAmericanOption error: %v", err)
	}
	if res.BackwardSteps != 99 {
		t.Fatalf("backward steps = %d, want 99", res.BackwardSteps)
	}
	if len(res.Payoffs) != 200 {
		t.Fatalf("len(payoffs) = %d, want 200", len(res.Payoffs))
	}
	for i, p := range res.Payoffs {
		if p < 0 || math.IsNaN(p) {
			t.Fatalf("payoff[%d] = %v", i, p)
		}
	}
}

func TestPriceAmericanOptionDeepOutOfTheMoneyCall(t *testing.T) {
	t.Parallel()

	res, err := pricing.PriceAmericanOption(100, 1000, 0.05, 0.2, 1, 0.02, 2000, 0.05, pricing.Call, models.NewRNG(7))
	if err != nil {
		t.Fatalf("PriceAmericanOption error: %v", err)
	}
	if res.Price != 0 {
		t.Fatalf("price = %v, want 0", res.Price)
	}
	if res.DegenerateSteps != res.BackwardSteps || res.BackwardSteps != 49 {
		t.Fatalf("steps = %d/%d, want 49/49", res.DegenerateSteps, res.BackwardSteps)
	}
}

func TestAmericanPutDominatesEuropeanPut(t *testing.T) {
	t.Parallel()

	const (
		s0, k, r, sigma, horizon = 80.0, 100.0, 0.1, 0.2, 1.0
	)
	european, err := pricing.BlackScholesPrice(s0, k, horizon, r, sigma, pricing.Put)
	if err != nil {
		t.Fatal(err)
	}

	for seed := uint64(0); seed < 3; seed++ {
		res, err := pricing.PriceAmericanOption(s0, k, r, sigma, horizon, 0.02, 5000, r, pricing.Put, models.NewRNG(seed))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		if res.Price < european {
			t.Fatalf("seed %d: american %v < european %v", seed, res.Price, european)
		}
	}
}

func TestPriceAmericanOptionIsReproducible(t *testing.T) {
	t.Parallel()

	a, err := pricing.PriceAmericanOption(100, 95, 0.03, 0.25, 0.5, 0.05, 500, 0.03, pricing.Put, models.NewRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	b, err := pricing.PriceAmericanOption(100, 95, 0.03, 0.25, 0.5, 0.05, 500, 0.03, pricing.Put, models.NewRNG(99))
	if err != nil {
		t.Fatal(err)
	}
	if a.Price != b.Price {
		t.Fatalf("prices differ: %v vs %v", a.Price, b.Price)
	}
}

func TestPriceAmericanOptionRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		run  func() error
	}{
		{"zero strike", func() error {
			_, err := pricing.PriceAmericanOption(100, 0, 0.05, 0.2, 1, 0.1, 10, 0.05, pricing.Put, models.NewRNG(1))
			return err
		}},
		{"bad type", func() error {
			_, err := pricing.PriceAmericanOption(100, 100, 0.05, 0.2, 1, 0.1, 10, 0.05, 0, models.NewRNG(1))
			return err
		}},
		{"no simulations", func() error {
			_, err := pricing.PriceAmericanOption(100, 100, 0.05, 0.2, 1, 0.1, 0, 0.05, pricing.Call, models.NewRNG(1))
			return err
		}},
		{"step past horizon", func() error {
			_, err := pricing.PriceAmericanOption(100, 100, 0.05, 0.2, 1, 2, 10, 0.05, pricing.Call, models.NewRNG(1))
			return err
		}},
	}

	for _, tc := range cases {
		if err := tc.run(); !errors.Is(err, pricing.ErrInvalidParameter) {
			t.Fatalf("%s: got %v, want ErrInvalidParameter", tc.name, err)
		}
	}
}
