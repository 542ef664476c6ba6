package cli

import (
	"context"
	"math"

	"github.com/bcdannyboy/stocsim/config"
	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/plots"
	"github.com/bcdannyboy/stocsim/pricing"
	"github.com/bcdannyboy/stocsim/probability"
	"github.com/spf13/cobra"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"
	"go.uber.org/zap"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

const rateUsage = "continuously compounded risk-free rate (defaults to --risk-free-rate)"

// contractFlags are shared by the closed-form commands.
type contractFlags struct {
	spot, strike, maturity, rate, sigma float64
	optionType                          string
}

func (c *contractFlags) register(cmd *cobra.Command, withSigma bool) {
	f := cmd.Flags()
	f.Float64Var(&c.spot, "spot", 100, "spot price")
	f.Float64Var(&c.strike, "strike", 100, "strike price")
	f.Float64Var(&c.maturity, "maturity", 1, "time to maturity in years")
	f.Float64Var(&c.rate, "rate", config.DefaultConfig().RiskFreeRate, rateUsage)
	if withSigma {
		f.Float64Var(&c.sigma, "sigma", 0.2, "volatility")
	}
	f.StringVar(&c.optionType, "type", "call", "call or put")
}

type priceResult struct {
	Type     string  `json:"type"`
	Spot     float64 `json:"spot"`
	Strike   float64 `json:"strike"`
	Maturity float64 `json:"maturity"`
	Rate     float64 `json:"rate"`
	Sigma    float64 `json:"sigma"`
	Price    float64 `json:"price"`
}

func newBlackScholesCommand(a *app) *cobra.Command {
	var c contractFlags
	cmd := &cobra.Command{
		Use:   "bs",
		Short: "Black-Scholes price of a European option",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := pricing.ParseOptionType(c.optionType)
			if err != nil {
				return err
			}
			price, err := pricing.BlackScholesPrice(c.spot, c.strike, c.maturity, c.rate, c.sigma, typ)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), priceResult{
				Type: typ.String(), Spot: c.spot, Strike: c.strike, Maturity: c.maturity,
				Rate: c.rate, Sigma: c.sigma, Price: price,
			})
		},
	}
	c.register(cmd, true)
	return cmd
}

func newImpliedVolCommand(a *app) *cobra.Command {
	var (
		c     contractFlags
		price float64
	)
	cmd := &cobra.Command{
		Use:   "iv",
		Short: "Black-Scholes implied volatility of an option price",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := pricing.ParseOptionType(c.optionType)
			if err != nil {
				return err
			}
			sigma, err := pricing.ImpliedVolatility(price, c.spot, c.strike, c.maturity, c.rate, typ)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), priceResult{
				Type: typ.String(), Spot: c.spot, Strike: c.strike, Maturity: c.maturity,
				Rate: c.rate, Sigma: sigma, Price: price,
			})
		},
	}
	c.register(cmd, false)
	cmd.Flags().Float64Var(&price, "price", 10, "observed option price")
	return cmd
}

type surfaceResult struct {
	Type       string      `json:"type"`
	Strikes    []float64   `json:"strikes"`
	Maturities []float64   `json:"maturities"`
	Prices     [][]float64 `json:"prices"`
	Plot       string      `json:"plot,omitempty"`
}

func newSurfaceCommand(a *app) *cobra.Command {
	var (
		spot, rate, sigma   float64
		strikes, maturities []float64
		optionType          string
		plot                bool
	)
	cmd := &cobra.Command{
		Use:   "surface",
		Short: "Black-Scholes prices over a strike x maturity grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := pricing.ParseOptionType(optionType)
			if err != nil {
				return err
			}
			surface, err := pricing.PriceSurface(spot, rate, sigma, strikes, maturities, typ)
			if err != nil {
				return err
			}

			res := surfaceResult{Type: typ.String(), Strikes: strikes, Maturities: maturities, Prices: rows(surface)}
			if plot {
				p, err := plots.PriceSurface(surface, strikes, maturities, "Black-Scholes "+typ.String()+" prices")
				if err != nil {
					return err
				}
				if res.Plot, err = a.savePlot(p, "bs_surface_"+typ.String()+".png"); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), res)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&spot, "spot", 100, "spot price")
	f.Float64Var(&rate, "rate", config.DefaultConfig().RiskFreeRate, rateUsage)
	f.Float64Var(&sigma, "sigma", 0.2, "volatility")
	f.Float64SliceVar(&strikes, "strikes", []float64{80, 90, 100, 110, 120}, "strike axis")
	f.Float64SliceVar(&maturities, "maturities", []float64{0.25, 0.5, 1, 2}, "maturity axis in years")
	f.StringVar(&optionType, "type", "call", "call or put")
	f.BoolVar(&plot, "plot", false, "render the surface to PNG")
	return cmd
}

func rows(m *mat.Dense) [][]float64 {
	r, _ := m.Dims()
	out := make([][]float64, r)
	for i := range out {
		out[i] = mat.Row(nil, i, m)
	}
	return out
}

type americanResult struct {
	Type            string                 `json:"type"`
	Seed            uint64                 `json:"seed"`
	Paths           int                    `json:"paths"`
	Price           float64                `json:"price"`
	European        *float64               `json:"european_reference,omitempty"`
	BackwardSteps   int                    `json:"backward_steps"`
	DegenerateSteps int                    `json:"degenerate_steps"`
	Payoffs         probability.Summary    `json:"payoffs"`
	Histogram       *probability.Histogram `json:"histogram,omitempty"`
	Trials          *probability.Summary   `json:"trials,omitempty"`
	Plot            string                 `json:"plot,omitempty"`
}

func newAmericanCommand(a *app) *cobra.Command {
	var (
		s0, k, mu, sigma, t, dt, r float64
		nSims, trials, bins        int
		optionType                 string
		plot                       bool
	)
	cmd := &cobra.Command{
		Use:   "american",
		Short: "Longstaff-Schwartz price of an American option on GBM paths",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			typ, err := pricing.ParseOptionType(optionType)
			if err != nil {
				return err
			}
			if err := a.checkPaths(nSims); err != nil {
				return err
			}
			if !cmd.Flags().Changed("mu") {
				mu = r
			}

			log := a.log.With(zap.String("type", typ.String()), zap.Int("paths", nSims))
			log.Info("pricing american option", zap.Float64("s0", s0), zap.Float64("k", k), zap.Float64("mu", mu))

			res, err := pricing.PriceAmericanOption(s0, k, mu, sigma, t, dt, nSims, r, typ, a.rng())
			if err != nil {
				return err
			}
			if math.IsNaN(res.Price) || math.IsInf(res.Price, 0) {
				return models.Invalidf("price is not finite, simulated prices overflowed for mu=%v sigma=%v t=%v", mu, sigma, t)
			}
			if res.DegenerateSteps > 0 {
				log.Debug("steps without a regression", zap.Int("degenerate", res.DegenerateSteps), zap.Int("steps", res.BackwardSteps))
			}

			payoffs, err := probability.Summarize(res.Payoffs)
			if err != nil {
				return err
			}
			hist, err := probability.NewHistogram(res.Payoffs, bins)
			if err != nil {
				return err
			}
			out := americanResult{
				Type:            typ.String(),
				Seed:            a.seed,
				Paths:           nSims,
				Price:           res.Price,
				BackwardSteps:   res.BackwardSteps,
				DegenerateSteps: res.DegenerateSteps,
				Payoffs:         payoffs,
				Histogram:       hist,
			}
			if eu, err := pricing.BlackScholesPrice(s0, k, t, r, sigma, typ); err == nil {
				out.European = &eu
			} else {
				log.Debug("no closed-form reference", zap.Error(err))
			}

			if trials > 1 {
				prices, err := a.repeatAmerican(cmd.Context(), trials, func(rng *rand.Rand) (float64, error) {
					res, err := pricing.PriceAmericanOption(s0, k, mu, sigma, t, dt, nSims, r, typ, rng)
					if err != nil {
						return 0, err
					}
					return res.Price, nil
				})
				if err != nil {
					return err
				}
				summary, err := probability.Summarize(prices)
				if err != nil {
					return err
				}
				out.Trials = &summary
			}

			if plot {
				p, err := plots.PayoffHistogram(res.Payoffs, bins, "American "+typ.String()+" discounted payoffs")
				if err != nil {
					return err
				}
				if out.Plot, err = a.savePlot(p, "american_"+typ.String()+"_payoffs.png"); err != nil {
					return err
				}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		},
	}
	f := cmd.Flags()
	f.Float64Var(&s0, "s0", 100, "initial price")
	f.Float64Var(&k, "strike", 100, "strike price")
	f.Float64Var(&mu, "mu", config.DefaultConfig().RiskFreeRate, "drift of the simulated paths (defaults to --rate)")
	f.Float64Var(&sigma, "sigma", 0.2, "volatility")
	f.Float64Var(&t, "t", 1, "time to maturity in years")
	f.Float64Var(&dt, "dt", 1.0/models.TradingDaysPerYear, "exercise interval in years")
	f.Float64Var(&r, "rate", config.DefaultConfig().RiskFreeRate, rateUsage)
	f.IntVar(&nSims, "paths", 10000, "number of simulated paths")
	f.IntVar(&trials, "trials", 1, "independent repetitions for a price distribution")
	f.IntVar(&bins, "bins", 50, "payoff histogram bins")
	f.StringVar(&optionType, "type", "put", "call or put")
	f.BoolVar(&plot, "plot", false, "render the payoff histogram to PNG")
	return cmd
}

// repeatAmerican runs independent pricings seeded from the app seed with a progress bar.
func (a *app) repeatAmerican(ctx context.Context, trials int, price func(*rand.Rand) (float64, error)) ([]float64, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	p := mpb.NewWithContext(ctx, mpb.WithWidth(64), mpb.WithOutput(a.stderr))
	bar := p.AddBar(int64(trials),
		mpb.PrependDecorators(
			decor.Name("Trials"),
			decor.Percentage(decor.WCSyncSpace),
		),
		mpb.AppendDecorators(
			decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
		),
	)

	prices, err := probability.RunTrials(ctx, trials, a.cfg.Workers, a.seed+1, func(_ context.Context, _ int, rng *rand.Rand) (float64, error) {
		defer bar.Increment()
		return price(rng)
	})
	if err != nil {
		bar.Abort(false)
		p.Wait()
		return nil, err
	}
	p.Wait()

	a.log.Info("trials complete", zap.Int("trials", trials), zap.Float64("mean", stat.Mean(prices, nil)))
	return prices, nil
}
