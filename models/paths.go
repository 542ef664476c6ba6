package models

import (
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
)

// Paths is the output of a simulation run. Prices and Vols have one row per
// path and one column per point of Time.
type Paths struct {
	Time   TimeGrid
	Prices *mat.Dense
	Vols   *mat.Dense // variance (Heston) or volatility (SABR); nil otherwise
}

// PathSimulator produces a batch of trajectories over the grid implied by t and dt.
type PathSimulator interface {
	SimulatePaths(s0, t, dt float64, nPaths int, rng *rand.Rand) (*Paths, error)
}

// NewRNG returns a generator seeded deterministically from seed.
func NewRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// NumPaths returns the number of simulated trajectories.
func (p *Paths) NumPaths() int {
	r, _ := p.Prices.Dims()
	return r
}

// Terminal returns a copy of the last price column.
func (p *Paths) Terminal() []float64 {
	r, c := p.Prices.Dims()
	out := make([]float64, r)
	mat.Col(out, c-1, p.Prices)
	return out
}

// fillNormal draws len(dst) independent standard normal variates.
func fillNormal(rng *rand.Rand, dst []float64) {
	for i := range dst {
		dst[i] = rng.NormFloat64()
	}
}

func filled(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}
