package models

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/rand"
)

// ErrInvalidParameter is wrapped by every validation failure in the simulators
// and pricers so callers can test for it with errors.Is.
var ErrInvalidParameter = errors.New("invalid parameter")

// Invalidf returns an error wrapping ErrInvalidParameter.
func Invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// validateRun checks the arguments every path simulator shares.
func validateRun(s0, t, dt float64, nPaths int, rng *rand.Rand) error {
	if !isFinite(s0) || s0 <= 0 {
		return Invalidf("initial price must be positive, got %v", s0)
	}
	if err := validateHorizon(t, dt); err != nil {
		return err
	}
	if nPaths < 1 {
		return Invalidf("number of paths must be at least 1, got %d", nPaths)
	}
	if rng == nil {
		return Invalidf("random source is nil")
	}
	return nil
}

func validateCorrelation(rho float64) error {
	if !isFinite(rho) || rho < -1 || rho > 1 {
		return Invalidf("correlation must lie in [-1, 1], got %v", rho)
	}
	return nil
}

func validateNonNegative(name string, x float64) error {
	if !isFinite(x) || x < 0 {
		return Invalidf("%s must be non-negative, got %v", name, x)
	}
	return nil
}
