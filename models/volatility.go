package models

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// Bar is one period of open/high/low/close prices.
type Bar struct {
	Open  float64
	High  float64
	Low   float64
	Close float64
}

type VolatilityMethod int

const (
	CloseToClose VolatilityMethod = iota
	Parkinson
	GarmanKlass
	RogersSatchell
	YangZhang
	GARCH
)

var volatilityMethodNames = map[VolatilityMethod]string{
	CloseToClose:   "close",
	Parkinson:      "parkinson",
	GarmanKlass:    "garman-klass",
	RogersSatchell: "rogers-satchell",
	YangZhang:      "yang-zhang",
	GARCH:          "garch",
}

func (m VolatilityMethod) String() string {
	if name, ok := volatilityMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("VolatilityMethod(%d)", int(m))
}

// ParseVolatilityMethod accepts the names printed by String.
func ParseVolatilityMethod(s string) (VolatilityMethod, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range volatilityMethodNames {
		if s == name {
			return m, nil
		}
	}
	return 0, Invalidf("unknown volatility method %q", s)
}

// EstimateVolatility returns the annualized volatility of bars using method.
func EstimateVolatility(bars []Bar, method VolatilityMethod, periodsPerYear float64) (float64, error) {
	if !(periodsPerYear > 0) {
		return 0, Invalidf("periods per year must be positive, got %v", periodsPerYear)
	}
	if err := validateBars(bars); err != nil {
		return 0, err
	}

	var variance float64
	switch method {
	case CloseToClose:
		_, sigma, err := EstimateDriftVolatility(closes(bars), periodsPerYear)
		return sigma, err
	case GARCH:
		returns, err := LogReturns(closes(bars))
		if err != nil {
			return 0, err
		}
		g, err := FitGARCH11(returns)
		if err != nil {
			return 0, err
		}
		return g.ConditionalVolatility(returns, periodsPerYear), nil
	case Parkinson:
		variance = parkinsonVariance(bars)
	case GarmanKlass:
		variance = garmanKlassVariance(bars)
	case RogersSatchell:
		variance = rogersSatchellVariance(bars)
	case YangZhang:
		if len(bars) < 3 {
			return 0, Invalidf("yang-zhang needs at least 3 bars, got %d", len(bars))
		}
		variance = yangZhangVariance(bars)
	default:
		return 0, Invalidf("unknown volatility method %d", int(method))
	}

	return math.Sqrt(math.Max(variance, 0) * periodsPerYear), nil
}

func closes(bars []Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

func validateBars(bars []Bar) error {
	if len(bars) == 0 {
		return Invalidf("no bars")
	}
	for i, b := range bars {
		if !(b.Open > 0) || !(b.Close > 0) || !(b.Low > 0) || b.High < b.Low {
			return Invalidf("bar %d is malformed: %+v", i, b)
		}
	}
	return nil
}

func parkinsonVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		sum += hl * hl
	}
	return sum / (4 * float64(len(bars)) * math.Ln2)
}

func garmanKlassVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		hl := math.Log(b.High / b.Low)
		co := math.Log(b.Close / b.Open)
		sum += 0.5*hl*hl - (2*math.Ln2-1)*co*co
	}
	return sum / float64(len(bars))
}

func rogersSatchellVariance(bars []Bar) float64 {
	sum := 0.0
	for _, b := range bars {
		sum += math.Log(b.High/b.Close)*math.Log(b.High/b.Open) +
			math.Log(b.Low/b.Close)*math.Log(b.Low/b.Open)
	}
	return sum / float64(len(bars))
}

// yangZhangVariance combines overnight, open-to-close and Rogers-Satchell
// variances with the minimum-variance weight k.
func yangZhangVariance(bars []Bar) float64 {
	n := float64(len(bars))
	k := 0.34 / (1.34 + (n+1)/(n-1))

	overnight := make([]float64, len(bars)-1)
	for i := 1; i < len(bars); i++ {
		overnight[i-1] = math.Log(bars[i].Open / bars[i-1].Close)
	}
	openClose := make([]float64, len(bars))
	for i, b := range bars {
		openClose[i] = math.Log(b.Close / b.Open)
	}

	return stat.Variance(overnight, nil) + k*stat.Variance(openClose, nil) + (1-k)*rogersSatchellVariance(bars)
}
