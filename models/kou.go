package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// KouJumpDiffusion represents the Kou double-exponential jump diffusion model
type KouJumpDiffusion struct {
	Drift  float64 // Drift of the diffusion part
	Sigma  float64 // Volatility
	Lambda float64 // Jump intensity
	P      float64 // Probability of upward jump
	Eta1   float64 // Rate of upward jump
	Eta2   float64 // Rate of downward jump
}

// NewKouJumpDiffusion creates a new Kou jump diffusion model
func NewKouJumpDiffusion(drift, sigma, lambda, p, eta1, eta2 float64) *KouJumpDiffusion {
	return &KouJumpDiffusion{
		Drift:  drift,
		Sigma:  sigma,
		Lambda: lambda,
		P:      p,
		Eta1:   eta1,
		Eta2:   eta2,
	}
}

func (k *KouJumpDiffusion) validate() error {
	if !isFinite(k.Drift) {
		return Invalidf("drift must be finite, got %v", k.Drift)
	}
	if err := validateNonNegative("volatility", k.Sigma); err != nil {
		return err
	}
	if err := validateNonNegative("jump intensity", k.Lambda); err != nil {
		return err
	}
	if !isFinite(k.P) || k.P < 0 || k.P > 1 {
		return Invalidf("upward jump probability must lie in [0, 1], got %v", k.P)
	}
	if !(k.Eta1 > 0) || !(k.Eta2 > 0) {
		return Invalidf("jump rates must be positive, got eta1=%v eta2=%v", k.Eta1, k.Eta2)
	}
	return nil
}

// SimulatePaths simulates price paths using the Kou jump diffusion model
func (k *KouJumpDiffusion) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	if err := validateRun(s0, t, dt, nPaths, rng); err != nil {
		return nil, err
	}
	if err := k.validate(); err != nil {
		return nil, err
	}

	grid, err := NewTimeGrid(t, dt)
	if err != nil {
		return nil, err
	}

	prices := mat.NewDense(nPaths, len(grid), nil)
	s := filled(nPaths, s0)
	prices.SetCol(0, s)

	drift := (k.Drift - 0.5*k.Sigma*k.Sigma) * dt
	diffusion := k.Sigma * math.Sqrt(dt)
	jumpProb := k.Lambda * dt
	z := make([]float64, nPaths)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, z)
		for j := range s {
			step := drift + diffusion*z[j]
			if rng.Float64() < jumpProb {
				if rng.Float64() < k.P {
					step += rng.ExpFloat64() / k.Eta1
				} else {
					step -= rng.ExpFloat64() / k.Eta2
				}
			}
			s[j] *= math.Exp(step)
		}
		prices.SetCol(i, s)
	}

	return &Paths{Time: grid, Prices: prices}, nil
}
