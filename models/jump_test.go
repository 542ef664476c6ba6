package models_test

import (
	"errors"
	"math"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
)

func TestJumpDiffusionsImplementPathSimulator(t *testing.T) {
	t.Parallel()

	sims := map[string]models.PathSimulator{
		"gbm":    models.NewGBM(0.05, 0.2),
		"heston": models.NewHestonModel(0.04, 0.05, 2, 0.04, 0.3, -0.7),
		"sabr":   models.NewSABRModel(0.04, 0.5, 0, 0.2),
		"merton": models.NewMertonJumpDiffusion(0.05, 0.2, 1.0, -0.05, 0.1),
		"kou":    models.NewKouJumpDiffusion(0.05, 0.2, 1.0, 0.4, 10, 5),
	}

	for name, sim := range sims {
		paths, err := sim.SimulatePaths(100, 1, 0.02, 30, models.NewRNG(4))
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		checkShape(t, name, paths.Prices, 30, 50)
		checkColumn(t, name, paths.Prices, 0, 100)
		checkNonNegative(t, name, paths.Prices)
	}
}

func TestMertonWithoutJumpsHasGBMMoments(t *testing.T) {
	t.Parallel()

	const (
		s0, drift, sigma = 100.0, 0.05, 0.2
		nPaths           = 20000
	)
	m := models.NewMertonJumpDiffusion(drift, sigma, 0, 0, 0)
	paths, err := m.SimulatePaths(s0, 1.0, 0.1, nPaths, models.NewRNG(21))
	if err != nil {
		t.Fatalf("SimulatePaths error: %v", err)
	}

	horizon := paths.Time.Last()
	mean := 0.0
	for _, s := range paths.Terminal() {
		mean += math.Log(s / s0)
	}
	mean /= nPaths

	want := (drift - 0.5*sigma*sigma) * horizon
	// standard error of the log-return mean is sigma*sqrt(horizon/nPaths) ~ 0.0013
	if !almostEqual(mean, want, 0.007) {
		t.Fatalf("mean log return %v, want %v", mean, want)
	}
}

func TestKouRejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		kou  *models.KouJumpDiffusion
	}{
		{"p above one", models.NewKouJumpDiffusion(0, 0.2, 1, 1.5, 10, 5)},
		{"zero eta1", models.NewKouJumpDiffusion(0, 0.2, 1, 0.5, 0, 5)},
		{"negative eta2", models.NewKouJumpDiffusion(0, 0.2, 1, 0.5, 10, -5)},
		{"negative lambda", models.NewKouJumpDiffusion(0, 0.2, -1, 0.5, 10, 5)},
	}

	for _, tc := range cases {
		if _, err := tc.kou.SimulatePaths(100, 1, 0.1, 5, models.NewRNG(1)); !errors.Is(err, models.ErrInvalidParameter) {
			t.Fatalf("%s: got %v, want ErrInvalidParameter", tc.name, err)
		}
	}
}
