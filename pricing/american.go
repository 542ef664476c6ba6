package pricing

import (
	"math"

	"github.com/bcdannyboy/stocsim/models"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// AmericanResult is the outcome of a Longstaff-Schwartz valuation.
type AmericanResult struct {
	Price float64
	// Payoffs holds the per-path value of the time-0 payoff column.
	Payoffs []float64
	// BackwardSteps counts iterations of the backward induction, N-1 for N grid points.
	BackwardSteps int
	// DegenerateSteps counts steps with fewer than two in-the-money paths,
	// where no regression is fitted and the continuation value is zero.
	DegenerateSteps int
}

// PriceAmericanOption simulates nSims GBM paths under drift mu and values the
// American option on them with LongstaffSchwartz. Pass mu = r for risk-neutral pricing.
func PriceAmericanOption(s0, k, mu, sigma, t, dt float64, nSims int, r float64, typ OptionType, rng *rand.Rand) (*AmericanResult, error) {
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if err := validateStrike(k); err != nil {
		return nil, err
	}
	if err := validateRate(r); err != nil {
		return nil, err
	}

	paths, err := models.SimulateGBM(s0, mu, sigma, t, dt, nSims, rng)
	if err != nil {
		return nil, err
	}
	return LongstaffSchwartz(paths.Prices, k, r, t, dt, typ)
}

// LongstaffSchwartz runs backward induction over a path matrix with one row
// per path and one column per grid point.
//
// At each step the paths with positive intrinsic value regress the discounted
// next-step value on spot. A path exercises when intrinsic value strictly
// exceeds the fitted continuation value, otherwise it carries the discounted
// next-step value. The price is exp(-r*t) times the mean of the time-0 column.
func LongstaffSchwartz(prices *mat.Dense, k, r, t, dt float64, typ OptionType) (*AmericanResult, error) {
	if prices == nil || prices.IsEmpty() {
		return nil, models.Invalidf("price matrix is empty")
	}
	if err := typ.validate(); err != nil {
		return nil, err
	}
	if err := validateStrike(k); err != nil {
		return nil, err
	}
	if err := validateRate(r); err != nil {
		return nil, err
	}
	if !(t > 0) || math.IsInf(t, 0) {
		return nil, models.Invalidf("time to maturity must be positive, got %v", t)
	}
	if !(dt > 0) || math.IsInf(dt, 0) {
		return nil, models.Invalidf("time step must be positive, got %v", dt)
	}

	nPaths, n := prices.Dims()
	discount := math.Exp(-r * dt)
	res := &AmericanResult{}

	spot := make([]float64, nPaths)
	next := make([]float64, nPaths)
	mat.Col(spot, n-1, prices)
	for j, s := range spot {
		next[j] = typ.Payoff(s, k)
	}

	current := make([]float64, nPaths)
	itm := make([]int, 0, nPaths)
	x := make([]float64, 0, nPaths)
	y := make([]float64, 0, nPaths)

	for i := n - 2; i >= 0; i-- {
		res.BackwardSteps++
		mat.Col(spot, i, prices)

		itm, x, y = itm[:0], x[:0], y[:0]
		for j, s := range spot {
			current[j] = discount * next[j]
			if typ.inTheMoney(s, k) {
				itm = append(itm, j)
				x = append(x, s)
				y = append(y, current[j])
			}
		}

		var continuation []float64
		if len(itm) < 2 {
			res.DegenerateSteps++
			continuation = make([]float64, len(itm))
		} else {
			continuation = fitPredict(x, y)
		}

		for m, j := range itm {
			if exercise := typ.Payoff(x[m], k); exercise > continuation[m] {
				current[j] = exercise
			}
		}
		next, current = current, next
	}

	res.Payoffs = next
	res.Price = math.Exp(-r*t) * stat.Mean(next, nil)
	return res, nil
}
