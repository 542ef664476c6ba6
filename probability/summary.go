package probability

import (
	"math"
	"sort"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/xhhuango/json"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the distribution of a sample, typically discounted payoffs.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	StdErr float64 `json:"std_err"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P05    float64 `json:"p05"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
}

// MarshalJSON writes non-finite statistics, which overflowed paths produce,
// as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Count  int      `json:"count"`
		Mean   *float64 `json:"mean"`
		StdDev *float64 `json:"std_dev"`
		StdErr *float64 `json:"std_err"`
		Min    *float64 `json:"min"`
		Max    *float64 `json:"max"`
		P05    *float64 `json:"p05"`
		P50    *float64 `json:"p50"`
		P95    *float64 `json:"p95"`
	}{
		Count:  s.Count,
		Mean:   FiniteOrNil(s.Mean),
		StdDev: FiniteOrNil(s.StdDev),
		StdErr: FiniteOrNil(s.StdErr),
		Min:    FiniteOrNil(s.Min),
		Max:    FiniteOrNil(s.Max),
		P05:    FiniteOrNil(s.P05),
		P50:    FiniteOrNil(s.P50),
		P95:    FiniteOrNil(s.P95),
	})
}

// FiniteOrNil returns a pointer to v, or nil when v is NaN or infinite.
func FiniteOrNil(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

// Finite returns the finite entries of values and how many were dropped.
func Finite(values []float64) ([]float64, int) {
	out := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out, len(values) - len(out)
}

// Summarize computes moments and empirical quantiles of values.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, models.Invalidf("cannot summarize an empty sample")
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		P05:   stat.Quantile(0.05, stat.Empirical, sorted, nil),
		P50:   stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95:   stat.Quantile(0.95, stat.Empirical, sorted, nil),
	}
	if s.Count == 1 {
		s.Mean = sorted[0]
		return s, nil
	}

	s.Mean, s.StdDev = stat.MeanStdDev(sorted, nil)
	s.StdErr = stat.StdErr(s.StdDev, float64(s.Count))
	return s, nil
}

// Histogram is a binned sample. Bin i covers [Edges[i], Edges[i+1]).
// Dropped counts NaN and infinite values left out of the bins.
type Histogram struct {
	Edges   []float64 `json:"edges"`
	Counts  []float64 `json:"counts"`
	Dropped int       `json:"dropped,omitempty"`
}

// NewHistogram bins the finite values into the given number of equal-width
// bins spanning their range.
func NewHistogram(values []float64, bins int) (*Histogram, error) {
	if len(values) == 0 {
		return nil, models.Invalidf("cannot bin an empty sample")
	}
	if bins < 1 {
		return nil, models.Invalidf("number of bins must be at least 1, got %d", bins)
	}

	sorted, dropped := Finite(values)
	if len(sorted) == 0 {
		return nil, models.Invalidf("sample has no finite values")
	}
	sort.Float64s(sorted)

	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		hi = lo + 1
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	// stat.Histogram bins are half-open, so the upper edge must exceed the maximum.
	edges[bins] = math.Nextafter(hi, math.Inf(1))

	return &Histogram{
		Edges:   edges,
		Counts:  stat.Histogram(nil, edges, sorted, nil),
		Dropped: dropped,
	}, nil
}
