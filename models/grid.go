package models

import "math"

// gridEpsilon absorbs representation error in T/dt, e.g. 0.3/0.1 = 2.9999999999999996.
const gridEpsilon = 1e-9

// TimeGrid holds N uniformly spaced observation times starting at 0.
type TimeGrid []float64

// NewTimeGrid builds the grid 0, dt, 2dt, ... with N = floor(T/dt) points.
func NewTimeGrid(t, dt float64) (TimeGrid, error) {
	if err := validateHorizon(t, dt); err != nil {
		return nil, err
	}

	n := int(math.Floor(t/dt + gridEpsilon))
	grid := make(TimeGrid, n)
	for i := range grid {
		grid[i] = float64(i) * dt
	}
	return grid, nil
}

// Last returns the final observation time.
func (g TimeGrid) Last() float64 {
	if len(g) == 0 {
		return 0
	}
	return g[len(g)-1]
}

func validateHorizon(t, dt float64) error {
	if !isFinite(t) || t <= 0 {
		return Invalidf("time horizon must be positive, got %v", t)
	}
	if !isFinite(dt) || dt <= 0 {
		return Invalidf("time step must be positive, got %v", dt)
	}
	if dt > t {
		return Invalidf("time step %v exceeds horizon %v", dt, t)
	}
	return nil
}
