package models

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// TradingDaysPerYear annualizes daily statistics.
const TradingDaysPerYear = 252

// LogReturns returns ln(p[i]/p[i-1]) for consecutive prices.
func LogReturns(prices []float64) ([]float64, error) {
	if len(prices) < 2 {
		return nil, Invalidf("need at least 2 prices, got %d", len(prices))
	}
	for i, p := range prices {
		if !(p > 0) {
			return nil, Invalidf("prices must be positive, got %v at %d", p, i)
		}
	}
	returns := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns[i-1] = math.Log(prices[i] / prices[i-1])
	}
	return returns, nil
}

// EstimateDriftVolatility annualizes the mean and sample standard deviation of
// close-to-close log returns: mu = mean*periodsPerYear, sigma = std*sqrt(periodsPerYear).
func EstimateDriftVolatility(closes []float64, periodsPerYear float64) (mu, sigma float64, err error) {
	if !(periodsPerYear > 0) {
		return 0, 0, Invalidf("periods per year must be positive, got %v", periodsPerYear)
	}
	if len(closes) < 3 {
		return 0, 0, Invalidf("need at least 3 closes, got %d", len(closes))
	}

	returns, err := LogReturns(closes)
	if err != nil {
		return 0, 0, err
	}

	mean, std := stat.MeanStdDev(returns, nil)
	return mean * periodsPerYear, std * math.Sqrt(periodsPerYear), nil
}
