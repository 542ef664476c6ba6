package plots_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/plots"
	"github.com/bcdannyboy/stocsim/pricing"
)

func checkSaved(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	if info.Size() == 0 {
		t.Fatalf("%s is empty", path)
	}
}

func TestPathFanAndHistogram(t *testing.T) {
	t.Parallel()

	paths, err := models.SimulateHeston(100, 0.04, 0.05, 2, 0.04, 0.3, -0.7, 1, 0.02, 20, models.NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()

	fan, err := plots.PathFan(paths.Time, paths.Prices, 5, "Heston prices", "Price")
	if err != nil {
		t.Fatalf("PathFan error: %v", err)
	}
	out := filepath.Join(dir, "prices.png")
	if err := plots.Save(fan, out); err != nil {
		t.Fatal(err)
	}
	checkSaved(t, out)

	res, err := pricing.PriceAmericanOption(100, 100, 0.05, 0.2, 1, 0.05, 500, 0.05, pricing.Put, models.NewRNG(2))
	if err != nil {
		t.Fatal(err)
	}
	hist, err := plots.PayoffHistogram(res.Payoffs, 30, "American put payoffs")
	if err != nil {
		t.Fatalf("PayoffHistogram error: %v", err)
	}
	out = filepath.Join(dir, "payoffs.svg")
	if err := plots.Save(hist, out); err != nil {
		t.Fatal(err)
	}
	checkSaved(t, out)
}

func TestPayoffHistogramSkipsNonFiniteValues(t *testing.T) {
	t.Parallel()

	values := []float64{1, 2, math.Inf(1), 2.5, math.NaN(), 3}
	p, err := plots.PayoffHistogram(values, 4, "payoffs")
	if err != nil {
		t.Fatalf("PayoffHistogram error: %v", err)
	}
	out := filepath.Join(t.TempDir(), "payoffs.png")
	if err := plots.Save(p, out); err != nil {
		t.Fatal(err)
	}
	checkSaved(t, out)

	if _, err := plots.PayoffHistogram([]float64{math.Inf(1)}, 4, "payoffs"); err == nil {
		t.Fatal("expected an error with no finite values")
	}
}

func TestPriceSurfaceHeatMap(t *testing.T) {
	t.Parallel()

	strikes := []float64{80, 90, 100, 110, 120}
	maturities := []float64{0.25, 0.5, 1}
	surface, err := pricing.PriceSurface(100, 0.05, 0.2, strikes, maturities, pricing.Call)
	if err != nil {
		t.Fatal(err)
	}

	p, err := plots.PriceSurface(surface, strikes, maturities, "Black-Scholes call")
	if err != nil {
		t.Fatalf("PriceSurface error: %v", err)
	}
	out := filepath.Join(t.TempDir(), "surface.png")
	if err := plots.Save(p, out); err != nil {
		t.Fatal(err)
	}
	checkSaved(t, out)

	if _, err := plots.PriceSurface(surface, strikes[:2], maturities, ""); err == nil {
		t.Fatal("expected a dimension mismatch error")
	}
}

func TestPathFanRejectsMismatchedGrid(t *testing.T) {
	t.Parallel()

	paths, err := models.SimulateGBM(100, 0.05, 0.2, 1, 0.1, 3, models.NewRNG(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := plots.PathFan(paths.Time[:3], paths.Prices, 0, "", ""); err == nil {
		t.Fatal("expected an error")
	}
}
