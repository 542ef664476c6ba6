package models_test

import (
	"errors"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
)

func TestNewTimeGrid(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		t, dt float64
		n     int
	}{
		{"unit", 1.0, 0.01, 100},
		{"floor", 1.0, 0.3, 3},
		{"representation error", 0.3, 0.1, 3},
		{"single point", 0.5, 0.5, 1},
		{"two years", 2.0, 0.01, 200},
	}

	for _, tc := range cases {
		grid, err := models.NewTimeGrid(tc.t, tc.dt)
		if err != nil {
			t.Fatalf("%s: unexpected error %v", tc.name, err)
		}
		if len(grid) != tc.n {
			t.Fatalf("%s: got %d points, want %d", tc.name, len(grid), tc.n)
		}
		if grid[0] != 0 {
			t.Fatalf("%s: first point %v, want 0", tc.name, grid[0])
		}
		for i := 1; i < len(grid); i++ {
			if grid[i] <= grid[i-1] {
				t.Fatalf("%s: grid not strictly increasing at %d", tc.name, i)
			}
			if !almostEqual(grid[i]-grid[i-1], tc.dt, 1e-12) {
				t.Fatalf("%s: step %v at %d, want %v", tc.name, grid[i]-grid[i-1], i, tc.dt)
			}
		}
	}
}

func TestNewTimeGridRejectsBadHorizon(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		t, dt float64
	}{
		{"zero horizon", 0, 0.1},
		{"negative horizon", -1, 0.1},
		{"zero step", 1, 0},
		{"negative step", 1, -0.01},
		{"step beyond horizon", 1, 1.5},
	}

	for _, tc := range cases {
		if _, err := models.NewTimeGrid(tc.t, tc.dt); !errors.Is(err, models.ErrInvalidParameter) {
			t.Fatalf("%s: got %v, want ErrInvalidParameter", tc.name, err)
		}
	}
}
