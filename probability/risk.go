package probability

import (
	"sort"

	"github.com/bcdannyboy/stocsim/models"
	"gonum.org/v1/gonum/stat"
)

// TerminalPnL returns S_T - S_0 for every simulated path.
func TerminalPnL(paths *models.Paths) []float64 {
	pnl := paths.Terminal()
	for i := range pnl {
		pnl[i] -= paths.Prices.At(i, 0)
	}
	return pnl
}

// ProfitProbability is the fraction of outcomes strictly above zero.
func ProfitProbability(pnl []float64) float64 {
	if len(pnl) == 0 {
		return 0
	}
	count := 0
	for _, v := range pnl {
		if v > 0 {
			count++
		}
	}
	return float64(count) / float64(len(pnl))
}

// ValueAtRisk returns the loss not exceeded with probability confidence.
// Losses are reported as positive numbers.
func ValueAtRisk(pnl []float64, confidence float64) (float64, error) {
	losses, err := sortedLosses(pnl, confidence)
	if err != nil {
		return 0, err
	}
	return stat.Quantile(confidence, stat.Empirical, losses, nil), nil
}

// ExpectedShortfall is the mean loss at or beyond the ValueAtRisk level.
func ExpectedShortfall(pnl []float64, confidence float64) (float64, error) {
	losses, err := sortedLosses(pnl, confidence)
	if err != nil {
		return 0, err
	}
	v := stat.Quantile(confidence, stat.Empirical, losses, nil)
	i := sort.SearchFloat64s(losses, v)
	return stat.Mean(losses[i:], nil), nil
}

func sortedLosses(pnl []float64, confidence float64) ([]float64, error) {
	if len(pnl) == 0 {
		return nil, models.Invalidf("no outcomes")
	}
	if !(confidence > 0 && confidence < 1) {
		return nil, models.Invalidf("confidence must lie in (0, 1), got %v", confidence)
	}
	losses := make([]float64, len(pnl))
	for i, v := range pnl {
		losses[i] = -v
	}
	sort.Float64s(losses)
	return losses, nil
}
