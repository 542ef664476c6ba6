package pricing

import (
	"errors"
	"math"

	"github.com/bcdannyboy/stocsim/models"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	maxIterations = 100
	epsilon       = 1e-8
)

// ErrNoConvergence is returned when implied volatility cannot be found.
var ErrNoConvergence = errors.New("implied volatility did not converge")

// BlackScholesPrice returns the closed-form price of a European option.
// S, K, T and sigma must all be strictly positive.
func BlackScholesPrice(s, k, t, r, sigma float64, typ OptionType) (float64, error) {
	if err := validateBlackScholes(s, k, t, r, sigma, typ); err != nil {
		return 0, err
	}
	return blackScholes(s, k, t, r, sigma, typ), nil
}

func validateBlackScholes(s, k, t, r, sigma float64, typ OptionType) error {
	if err := typ.validate(); err != nil {
		return err
	}
	if !(s > 0) || math.IsInf(s, 0) {
		return models.Invalidf("spot must be positive, got %v", s)
	}
	if err := validateStrike(k); err != nil {
		return err
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return models.Invalidf("time to maturity must be positive, got %v", t)
	}
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return models.Invalidf("volatility must be positive, got %v", sigma)
	}
	return validateRate(r)
}

func blackScholes(s, k, t, r, sigma float64, typ OptionType) float64 {
	d1, d2 := d1d2(s, k, t, r, sigma)
	df := math.Exp(-r * t)
	if typ == Call {
		return s*distuv.UnitNormal.CDF(d1) - k*df*distuv.UnitNormal.CDF(d2)
	}
	return k*df*distuv.UnitNormal.CDF(-d2) - s*distuv.UnitNormal.CDF(-d1)
}

func d1d2(s, k, t, r, sigma float64) (float64, float64) {
	sqrtT := math.Sqrt(t)
	d1 := (math.Log(s/k) + (r+0.5*sigma*sigma)*t) / (sigma * sqrtT)
	return d1, d1 - sigma*sqrtT
}

// PriceSurface evaluates BlackScholesPrice on a maturity x strike grid.
// Row i holds maturities[i], column j holds strikes[j].
func PriceSurface(s, r, sigma float64, strikes, maturities []float64, typ OptionType) (*mat.Dense, error) {
	if len(strikes) == 0 || len(maturities) == 0 {
		return nil, models.Invalidf("surface needs at least one strike and one maturity")
	}
	surface := mat.NewDense(len(maturities), len(strikes), nil)
	for i, t := range maturities {
		for j, k := range strikes {
			p, err := BlackScholesPrice(s, k, t, r, sigma, typ)
			if err != nil {
				return nil, err
			}
			surface.Set(i, j, p)
		}
	}
	return surface, nil
}

// ImpliedVolatility inverts BlackScholesPrice with Newton's method on vega.
func ImpliedVolatility(price, s, k, t, r float64, typ OptionType) (float64, error) {
	if err := validateBlackScholes(s, k, t, r, 1, typ); err != nil {
		return 0, err
	}
	lower := typ.Payoff(s, k*math.Exp(-r*t))
	upper := s
	if typ == Put {
		upper = k * math.Exp(-r*t)
	}
	if !(price > lower) || !(price < upper) {
		return 0, models.Invalidf("price %v outside no-arbitrage bounds (%v, %v)", price, lower, upper)
	}

	// Newton on vega, falling back to bisection whenever a step leaves the bracket.
	lo, hi := 1e-6, 10.0
	sigma := 0.5
	for i := 0; i < maxIterations; i++ {
		diff := blackScholes(s, k, t, r, sigma, typ) - price
		if math.Abs(diff) < epsilon {
			return sigma, nil
		}
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		d1, _ := d1d2(s, k, t, r, sigma)
		vega := s * distuv.UnitNormal.Prob(d1) * math.Sqrt(t)
		next := sigma - diff/vega
		if vega < epsilon || !(next > lo && next < hi) {
			next = 0.5 * (lo + hi)
		}
		sigma = next
	}
	return 0, ErrNoConvergence
}
