package models

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

// VarianceGamma is Brownian motion with drift Theta and volatility Sigma run
// on a gamma clock with variance rate Nu. Drift is the expected growth rate of
// the price; the compensator omega keeps E[S_t] = S0*exp(Drift*t).
type VarianceGamma struct {
	Drift float64
	Sigma float64
	Theta float64
	Nu    float64
}

func NewVarianceGamma(drift, sigma, theta, nu float64) *VarianceGamma {
	return &VarianceGamma{Drift: drift, Sigma: sigma, Theta: theta, Nu: nu}
}

func (vg *VarianceGamma) validate() error {
	if !isFinite(vg.Drift) || !isFinite(vg.Theta) {
		return Invalidf("drift and theta must be finite")
	}
	if err := validateNonNegative("volatility", vg.Sigma); err != nil {
		return err
	}
	if !isFinite(vg.Nu) || vg.Nu <= 0 {
		return Invalidf("gamma variance rate must be positive, got %v", vg.Nu)
	}
	if 1-vg.Theta*vg.Nu-0.5*vg.Sigma*vg.Sigma*vg.Nu <= 0 {
		return Invalidf("variance gamma parameters admit no finite exponential moment")
	}
	return nil
}

// omega is the per-unit-time compensator (1/nu) ln(1 - theta*nu - sigma^2*nu/2).
func (vg *VarianceGamma) omega() float64 {
	return math.Log(1-vg.Theta*vg.Nu-0.5*vg.Sigma*vg.Sigma*vg.Nu) / vg.Nu
}

// SimulatePaths draws a Gamma(dt/nu, nu) time change per step and applies
// S *= exp((Drift+omega)*dt + Theta*G + Sigma*sqrt(G)*Z).
func (vg *VarianceGamma) SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error) {
	if err := validateRun(s0, t, dt, nPaths, rng); err != nil {
		return nil, err
	}
	if err := vg.validate(); err != nil {
		return nil, err
	}

	grid, err := NewTimeGrid(t, dt)
	if err != nil {
		return nil, err
	}

	prices := mat.NewDense(nPaths, len(grid), nil)
	s := filled(nPaths, s0)
	prices.SetCol(0, s)

	clock := distuv.Gamma{Alpha: dt / vg.Nu, Beta: 1 / vg.Nu, Src: rng}
	drift := (vg.Drift + vg.omega()) * dt
	z := make([]float64, nPaths)

	for i := 1; i < len(grid); i++ {
		fillNormal(rng, z)
		for j := range s {
			g := clock.Rand()
			s[j] *= math.Exp(drift + vg.Theta*g + vg.Sigma*math.Sqrt(g)*z[j])
		}
		prices.SetCol(i, s)
	}

	return &Paths{Time: grid, Prices: prices}, nil
}
