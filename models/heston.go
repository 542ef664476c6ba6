package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

type HestonModel struct {
	V0    float64 // Initial variance
	Mu    float64 // Drift of the asset price
	Kappa float64 // Mean reversion speed of variance
	Theta float64 // Long-term variance
	Xi    float64 // Volatility of variance
	Rho   float64 // Correlation between asset returns and variance
}

func NewHestonModel(v0, mu, kappa, theta, xi, rho float64) *HestonModel {
	return &HestonModel{
		V0:    v0,
		Mu:    mu,
		Kappa: kappa,
		Theta: theta,
		Xi:    xi,
		Rho:   rho,
	}
}

func (h *HestonModel) validate() error {
	if err := validateNonNegative("initial variance", h.V0); err != nil {
		return err
	}
	if !isFinite(h.Mu) {
		return Invalidf("drift must be finite, got %v", h.Mu)
	}
	if err := validateNonNegative("mean reversion speed", h.Kappa); err != nil {
		return err
	}
	if err := validateNonNegative("long-term variance", h.Theta); err != nil {
		return err
	}
	if err := validateNonNegative("volatility of variance", h.Xi); err != nil {
		return err
	}
	return validateCorrelation(h.Rho)
}

// SimulatePaths runs a full-truncation Euler scheme on the variance and an
// exponential step on the price. Both updates at step i use the variance of
// step i-1, and the variance is floored at zero after every update.
func (h *HestonModel) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	if err := validateRun(s0, t, dt, nPaths, rng); err != nil {
		return nil, err
	}
	if err := h.validate(); err != nil {
		return nil, err
	}

	grid, err := NewTimeGrid(t, dt)
	if err != nil {
		return nil, err
	}

	prices := mat.NewDense(nPaths, len(grid), nil)
	variances := mat.NewDense(nPaths, len(grid), nil)

	s := filled(nPaths, s0)
	v := filled(nPaths, h.V0)
	prices.SetCol(0, s)
	variances.SetCol(0, v)

	z1 := make([]float64, nPaths)
	z2 := make([]float64, nPaths)
	orth := math.Sqrt(1 - h.Rho*h.Rho)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, z1)
		fillNormal(rng, z2)

		for j := range s {
			vPrev := v[j]
			w := h.Rho*z1[j] + orth*z2[j]

			v[j] = math.Max(vPrev+h.Kappa*(h.Theta-vPrev)*dt+h.Xi*math.Sqrt(vPrev*dt)*w, 0)
			s[j] *= math.Exp((h.Mu-0.5*vPrev)*dt + math.Sqrt(vPrev*dt)*z1[j])
		}

		prices.SetCol(i, s)
		variances.SetCol(i, v)
	}

	return &Paths{Time: grid, Prices: prices, Vols: variances}, nil
}

// SimulateHeston simulates nPaths Heston price and variance trajectories.
func SimulateHeston(s0, v0, mu, kappa, theta, xi, rho, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	return NewHestonModel(v0, mu, kappa, theta, xi, rho).SimulatePaths(s0, t, dt, nPaths, rng)
}
