package pricing

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// fitPredict fits y = alpha + beta*x by ordinary least squares and returns
// the fitted values at x. A constant feature yields the intercept-only fit,
// mean(y), at every point.
func fitPredict(x, y []float64) []float64 {
	fitted := make([]float64, len(x))
	if floats.Min(x) == floats.Max(x) {
		m := stat.Mean(y, nil)
		for i := range fitted {
			fitted[i] = m
		}
		return fitted
	}

	alpha, beta := stat.LinearRegression(x, y, nil, false)
	for i, xi := range x {
		fitted[i] = alpha + beta*xi
	}
	return fitted
}
