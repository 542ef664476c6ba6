package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

type MertonJumpDiffusion struct {
	Drift  float64 // Drift of the diffusion part
	Sigma  float64 // Volatility
	Lambda float64 // Jump intensity
	Mu     float64 // Mean jump size
	Delta  float64 // Jump size volatility
}

func NewMertonJumpDiffusion(drift, sigma, lambda, mu, delta float64) *MertonJumpDiffusion {
	return &MertonJumpDiffusion{
		Drift:  drift,
		Sigma:  sigma,
		Lambda: lambda,
		Mu:     mu,
		Delta:  delta,
	}
}

func (m *MertonJumpDiffusion) validate() error {
	if !isFinite(m.Drift) || !isFinite(m.Mu) {
		return Invalidf("drift and mean jump size must be finite")
	}
	if err := validateNonNegative("volatility", m.Sigma); err != nil {
		return err
	}
	if err := validateNonNegative("jump intensity", m.Lambda); err != nil {
		return err
	}
	return validateNonNegative("jump size volatility", m.Delta)
}

// SimulatePaths applies the GBM step and, with probability Lambda*dt, a
// lognormal jump exp(Mu + Delta*y) in the same step.
func (m *MertonJumpDiffusion) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	if err := validateRun(s0, t, dt, nPaths, rng); err != nil {
		return nil, err
	}
	if err := m.validate(); err != nil {
		return nil, err
	}

	grid, err := NewTimeGrid(t, dt)
	if err != nil {
		return nil, err
	}

	prices := mat.NewDense(nPaths, len(grid), nil)
	s := filled(nPaths, s0)
	prices.SetCol(0, s)

	drift := (m.Drift - 0.5*m.Sigma*m.Sigma) * dt
	diffusion := m.Sigma * math.Sqrt(dt)
	jumpProb := m.Lambda * dt
	z := make([]float64, nPaths)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, z)
		for j := range s {
			step := drift + diffusion*z[j]
			if rng.Float64() < jumpProb {
				step += m.Mu + m.Delta*rng.NormFloat64()
			}
			s[j] *= math.Exp(step)
		}
		prices.SetCol(i, s)
	}

	return &Paths{Time: grid, Prices: prices}, nil
}
