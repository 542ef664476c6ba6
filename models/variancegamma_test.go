package models_test

import (
	"errors"
	"math"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
)

func TestVarianceGammaIsCompensated(t *testing.T) {
	t.Parallel()

	const (
		s0, drift = 100.0, 0.05
		nPaths    = 20000
	)
	vg := models.NewVarianceGamma(drift, 0.2, -0.1, 0.2)
	paths, err := vg.SimulatePaths(s0, 1, 0.1, nPaths, models.NewRNG(8))
	if err != nil {
		t.Fatalf("SimulatePaths error: %v", err)
	}
	checkShape(t, "prices", paths.Prices, nPaths, 10)
	checkColumn(t, "prices", paths.Prices, 0, s0)
	checkNonNegative(t, "prices", paths.Prices)

	mean := 0.0
	for _, s := range paths.Terminal() {
		mean += s / nPaths
	}
	// standard error of the mean is about 0.14
	if want := s0 * math.Exp(drift*paths.Time.Last()); !almostEqual(mean, want, 0.8) {
		t.Fatalf("mean terminal price %v, want %v", mean, want)
	}
}

func TestVarianceGammaRejectsInvalidParameters(t *testing.T) {
	t.Parallel()

	for name, vg := range map[string]*models.VarianceGamma{
		"zero nu":        models.NewVarianceGamma(0.05, 0.2, -0.1, 0),
		"negative sigma": models.NewVarianceGamma(0.05, -0.2, -0.1, 0.2),
		"no exp. moment": models.NewVarianceGamma(0.05, 0.2, 10, 1),
		"infinite drift": models.NewVarianceGamma(math.Inf(1), 0.2, -0.1, 0.2),
	} {
		if _, err := vg.SimulatePaths(100, 1, 0.1, 5, models.NewRNG(1)); !errors.Is(err, models.ErrInvalidParameter) {
			t.Fatalf("%s: got %v, want ErrInvalidParameter", name, err)
		}
	}
}
