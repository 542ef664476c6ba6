package models

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/optimize"
)

// minGARCHReturns is the shortest return series FitGARCH11 accepts.
const minGARCHReturns = 10

// GARCH11 is the variance recursion
// var[i] = Omega + Alpha*r[i-1]^2 + Beta*var[i-1].
type GARCH11 struct {
	Omega float64
	Alpha float64
	Beta  float64
}

func (g GARCH11) stationary() bool {
	return g.Omega > 0 && g.Alpha >= 0 && g.Beta >= 0 && g.Alpha+g.Beta < 1
}

// LogLikelihood is the Gaussian log-likelihood of returns, starting the
// recursion at the unconditional variance. It is -Inf outside the
// stationary region.
func (g GARCH11) LogLikelihood(returns []float64) float64 {
	if !g.stationary() {
		return math.Inf(-1)
	}
	variance := g.Omega / (1 - g.Alpha - g.Beta)
	logLik := 0.0
	for i := 1; i < len(returns); i++ {
		variance = g.Omega + g.Alpha*returns[i-1]*returns[i-1] + g.Beta*variance
		logLik += -0.5*math.Log(2*math.Pi) - 0.5*math.Log(variance) - 0.5*returns[i]*returns[i]/variance
	}
	return logLik
}

// ConditionalVolatility returns the annualized one-step-ahead volatility
// after filtering returns.
func (g GARCH11) ConditionalVolatility(returns []float64, periodsPerYear float64) float64 {
	variance := g.Omega / (1 - g.Alpha - g.Beta)
	for _, r := range returns {
		variance = g.Omega + g.Alpha*r*r + g.Beta*variance
	}
	return math.Sqrt(variance * periodsPerYear)
}

// FitGARCH11 maximizes the likelihood of returns with Nelder-Mead, starting
// from a persistence of 0.9 matched to the sample variance.
func FitGARCH11(returns []float64) (GARCH11, error) {
	if len(returns) < minGARCHReturns {
		return GARCH11{}, Invalidf("garch needs at least %d returns, got %d", minGARCHReturns, len(returns))
	}

	sampleVar := 0.0
	for _, r := range returns {
		if !isFinite(r) {
			return GARCH11{}, Invalidf("returns must be finite")
		}
		sampleVar += r * r
	}
	sampleVar /= float64(len(returns))
	if sampleVar == 0 {
		return GARCH11{}, Invalidf("returns have zero variance")
	}

	// Omega is optimized in units of the sample variance so the simplex has
	// comparable scale in every coordinate.
	unscale := func(x []float64) GARCH11 {
		return GARCH11{Omega: x[0] * sampleVar, Alpha: x[1], Beta: x[2]}
	}
	initial := GARCH11{Omega: 0.1 * sampleVar, Alpha: 0.1, Beta: 0.8}
	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			ll := unscale(x).LogLikelihood(returns)
			if math.IsInf(ll, -1) || math.IsNaN(ll) {
				return math.Inf(1)
			}
			return -ll
		},
	}

	result, err := optimize.Minimize(problem, []float64{0.1, initial.Alpha, initial.Beta}, nil, &optimize.NelderMead{})
	return bestFit(result, err, unscale, initial, returns)
}

// bestFit picks the optimizer's point when it is stationary and no worse
// than initial.
func bestFit(result *optimize.Result, err error, unscale func([]float64) GARCH11, initial GARCH11, returns []float64) (GARCH11, error) {
	if result == nil {
		if err == nil {
			err = errors.New("no result")
		}
		return GARCH11{}, fmt.Errorf("garch optimization failed: %w", err)
	}

	// Nelder-Mead may stop on an iteration limit; its best point is still usable.
	fit := unscale(result.X)
	if !fit.stationary() || fit.LogLikelihood(returns) < initial.LogLikelihood(returns) {
		return initial, nil
	}
	return fit, nil
}
