package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// GBM is geometric Brownian motion with constant drift and volatility.
type GBM struct {
	Mu    float64 // Drift
	Sigma float64 // Volatility
}

func NewGBM(mu, sigma float64) *GBM {
	return &GBM{
		Mu:    mu,
		Sigma: sigma,
	}
}

// SimulatePaths applies the exact lognormal step
// S_i = S_{i-1} * exp((Mu - Sigma^2/2)*dt + Sigma*sqrt(dt)*Z).
func (g *GBM) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	if err := validateRun(s0, t, dt, nPaths, rng); err != nil {
		return nil, err
	}
	if !isFinite(g.Mu) {
		return nil, Invalidf("drift must be finite, got %v", g.Mu)
	}
	if err := validateNonNegative("volatility", g.Sigma); err != nil {
		return nil, err
	}

	grid, err := NewTimeGrid(t, dt)
	if err != nil {
		return nil, err
	}

	prices := mat.NewDense(nPaths, len(grid), nil)
	s := filled(nPaths, s0)
	prices.SetCol(0, s)

	drift := (g.Mu - 0.5*g.Sigma*g.Sigma) * dt
	diffusion := g.Sigma * math.Sqrt(dt)
	z := make([]float64, nPaths)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, z)
		for j := range s {
			s[j] *= math.Exp(drift + diffusion*z[j])
		}
		prices.SetCol(i, s)
	}

	return &Paths{Time: grid, Prices: prices}, nil
}

// SimulateGBM simulates nPaths GBM trajectories starting at s0.
func SimulateGBM(s0, mu, sigma, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	return NewGBM(mu, sigma).SimulatePaths(s0, t, dt, nPaths, rng)
}
