package pricing

import (
	"math"

	"github.com/bcdannyboy/stocsim/models"
	"gonum.org/v1/gonum/stat"
)

// MonteCarloEuropean prices a European option on the terminal column of
// paths, taking the last grid time as maturity. It returns the price and the
// per-path discounted payoffs.
func MonteCarloEuropean(paths *models.Paths, k, r float64, typ OptionType) (float64, []float64, error) {
	if paths == nil || paths.Prices == nil {
		return 0, nil, models.Invalidf("paths are empty")
	}
	if err := typ.validate(); err != nil {
		return 0, nil, err
	}
	if err := validateStrike(k); err != nil {
		return 0, nil, err
	}
	if err := validateRate(r); err != nil {
		return 0, nil, err
	}

	df := math.Exp(-r * paths.Time.Last())
	payoffs := paths.Terminal()
	for i, s := range payoffs {
		payoffs[i] = df * typ.Payoff(s, k)
	}
	return stat.Mean(payoffs, nil), payoffs, nil
}
