// Package plots renders simulated paths, payoff distributions and price
// surfaces with gonum/plot.
package plots

import (
	"fmt"
	"image/color"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/probability"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// DefaultWidth and DefaultHeight size saved images.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 6 * vg.Inch
)

// PathFan draws the first maxPaths rows of m against the time grid.
// maxPaths <= 0 draws every row.
func PathFan(grid models.TimeGrid, m *mat.Dense, maxPaths int, title, ylabel string) (*plot.Plot, error) {
	if m == nil {
		return nil, fmt.Errorf("plots: no paths to draw")
	}
	rows, cols := m.Dims()
	if cols != len(grid) {
		return nil, fmt.Errorf("plots: %d columns for a grid of %d points", cols, len(grid))
	}
	if maxPaths <= 0 || maxPaths > rows {
		maxPaths = rows
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (years)"
	p.Y.Label.Text = ylabel
	p.Add(plotter.NewGrid())

	for i := 0; i < maxPaths; i++ {
		pts := make(plotter.XYs, cols)
		for j := range pts {
			pts[j].X = grid[j]
			pts[j].Y = m.At(i, j)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, err
		}
		line.LineStyle.Width = vg.Points(1)
		line.LineStyle.Color = plotutil.Color(i)
		p.Add(line)
	}
	return p, nil
}

// PayoffHistogram draws a normalized histogram of the finite values with the
// normal density of matching mean and standard deviation overlaid.
func PayoffHistogram(values []float64, bins int, title string) (*plot.Plot, error) {
	values, _ = probability.Finite(values)
	if len(values) == 0 {
		return nil, fmt.Errorf("plots: no finite values to draw")
	}

	v := make(plotter.Values, len(values))
	copy(v, values)

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Discounted payoff"
	p.Y.Label.Text = "Density"

	h, err := plotter.NewHist(v, bins)
	if err != nil {
		return nil, err
	}
	h.Normalize(1)
	h.LineStyle.Width = vg.Length(1)
	h.FillColor = plotutil.Color(6)
	p.Add(h)

	if len(values) > 1 {
		mean, std := stat.MeanStdDev(values, nil)
		if std > 0 {
			dist := distuv.Normal{Mu: mean, Sigma: std}
			norm := plotter.NewFunction(dist.Prob)
			norm.Color = color.RGBA{R: 255, A: 255}
			norm.Width = vg.Points(2)
			p.Add(norm)
		}
	}
	return p, nil
}

// surfaceGrid adapts a maturity x strike price matrix to plotter.GridXYZ.
type surfaceGrid struct {
	prices     *mat.Dense
	strikes    []float64
	maturities []float64
}

func (g surfaceGrid) Dims() (c, r int)   { return len(g.strikes), len(g.maturities) }
func (g surfaceGrid) Z(c, r int) float64 { return g.prices.At(r, c) }
func (g surfaceGrid) X(c int) float64    { return g.strikes[c] }
func (g surfaceGrid) Y(r int) float64    { return g.maturities[r] }

// PriceSurface renders a maturity x strike price matrix as a heat map.
func PriceSurface(prices *mat.Dense, strikes, maturities []float64, title string) (*plot.Plot, error) {
	if prices == nil {
		return nil, fmt.Errorf("plots: no surface to draw")
	}
	r, c := prices.Dims()
	if r != len(maturities) || c != len(strikes) {
		return nil, fmt.Errorf("plots: surface is %dx%d, axes are %dx%d", r, c, len(maturities), len(strikes))
	}
	if r < 2 || c < 2 {
		return nil, fmt.Errorf("plots: heat map needs at least two strikes and two maturities")
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Strike"
	p.Y.Label.Text = "Maturity (years)"
	p.Add(plotter.NewHeatMap(surfaceGrid{prices: prices, strikes: strikes, maturities: maturities}, palette.Heat(12, 1)))
	return p, nil
}

// Save writes p to path; the extension selects the format.
func Save(p *plot.Plot, path string) error {
	if err := p.Save(DefaultWidth, DefaultHeight, path); err != nil {
		return fmt.Errorf("plots: failed to save %s: %w", path, err)
	}
	return nil
}
