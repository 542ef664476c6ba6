package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// SABRModel holds the stochastic alpha-beta-rho parameters. Alpha doubles as
// the initial volatility state.
type SABRModel struct {
	Alpha float64 // Initial volatility and price-exponent scale
	Beta  float64 // Power-law exponent on volatility, in [0, 1]
	Rho   float64 // Correlation between price and volatility increments
	Nu    float64 // Volatility of volatility
}

func NewSABRModel(alpha, beta, rho, nu float64) *SABRModel {
	return &SABRModel{
		Alpha: alpha,
		Beta:  beta,
		Rho:   rho,
		Nu:    nu,
	}
}

func (m *SABRModel) validate() error {
	if err := validateNonNegative("alpha", m.Alpha); err != nil {
		return err
	}
	if !isFinite(m.Beta) || m.Beta < 0 || m.Beta > 1 {
		return Invalidf("beta must lie in [0, 1], got %v", m.Beta)
	}
	if err := validateNonNegative("nu", m.Nu); err != nil {
		return err
	}
	return validateCorrelation(m.Rho)
}

// SimulatePaths evolves volatility as v + nu*v^beta*dW2 floored at zero, then
// moves the price by exp(alpha*sqrt(dt)*(v_i + dW1)) using the volatility just
// computed. The volatility level enters the exponent additively; this is not
// the textbook SABR diffusion and is kept as is so results stay comparable
// with earlier runs.
func (m *SABRModel) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
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
	vols := mat.NewDense(nPaths, len(grid), nil)

	s := filled(nPaths, s0)
	v := filled(nPaths, m.Alpha)
	prices.SetCol(0, s)
	vols.SetCol(0, v)

	sqrtDt := math.Sqrt(dt)
	orth := math.Sqrt(1 - m.Rho*m.Rho)
	dW1 := make([]float64, nPaths)
	dW2 := make([]float64, nPaths)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, dW1)
		fillNormal(rng, dW2)

		for j := range s {
			w1 := sqrtDt * dW1[j]
			w2 := m.Rho*w1 + orth*sqrtDt*dW2[j]

			v[j] = math.Max(v[j]+m.Nu*math.Pow(v[j], m.Beta)*w2, 0)
			s[j] *= math.Exp(m.Alpha * sqrtDt * (v[j] + w1))
		}

		prices.SetCol(i, s)
		vols.SetCol(i, v)
	}

	return &Paths{Time: grid, Prices: prices, Vols: vols}, nil
}

// SimulateSABR simulates nPaths SABR price and volatility trajectories.
func SimulateSABR(s0, alpha, beta, rho, nu, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	return NewSABRModel(alpha, beta, rho, nu).SimulatePaths(s0, t, dt, nPaths, rng)
}
