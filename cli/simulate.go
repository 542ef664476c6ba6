package cli

import (
	"fmt"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/plots"
	"github.com/bcdannyboy/stocsim/probability"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type simulateResult struct {
	Model       string               `json:"model"`
	Seed        uint64               `json:"seed"`
	Paths       int                  `json:"paths"`
	GridPoints  int                  `json:"grid_points"`
	Horizon     float64              `json:"horizon"`
	Terminal    probability.Summary  `json:"terminal"`
	UpProb      float64              `json:"up_probability"`
	VaR95       *float64             `json:"var_95"`
	ES95        *float64             `json:"es_95"`
	TerminalVol *probability.Summary `json:"terminal_vol,omitempty"`
	Plots       []string             `json:"plots,omitempty"`
}

var simulateShort = map[string]string{
	"gbm":    "Simulate geometric Brownian motion paths",
	"heston": "Simulate Heston stochastic-volatility paths",
	"sabr":   "Simulate SABR stochastic-volatility paths",
	"merton": "Simulate Merton jump-diffusion paths",
	"kou":    "Simulate Kou double-exponential jump-diffusion paths",
	"vg":     "Simulate variance-gamma paths",
}

func newSimulateCommand(a *app, model string) *cobra.Command {
	var (
		s0, mu, sigma, t, dt float64
		nPaths, show         int
		plot                 bool

		v0, kappa, theta, xi, rho float64
		alpha, beta, nu           float64
		lambda, jumpMu, jumpDelta float64
		p, eta1, eta2             float64
		vgTheta, vgNu             float64
	)

	cmd := &cobra.Command{
		Use:   model,
		Short: simulateShort[model],
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.checkPaths(nPaths); err != nil {
				return err
			}

			var sim models.PathSimulator
			switch model {
			case "gbm":
				sim = models.NewGBM(mu, sigma)
			case "heston":
				sim = models.NewHestonModel(v0, mu, kappa, theta, xi, rho)
			case "sabr":
				sim = models.NewSABRModel(alpha, beta, rho, nu)
			case "merton":
				sim = models.NewMertonJumpDiffusion(mu, sigma, lambda, jumpMu, jumpDelta)
			case "kou":
				sim = models.NewKouJumpDiffusion(mu, sigma, lambda, p, eta1, eta2)
			case "vg":
				sim = models.NewVarianceGamma(mu, sigma, vgTheta, vgNu)
			default:
				return fmt.Errorf("unknown model %q", model)
			}

			a.log.Info("simulating paths", zap.String("model", model), zap.Int("paths", nPaths), zap.Float64("t", t), zap.Float64("dt", dt))
			paths, err := sim.SimulatePaths(s0, t, dt, nPaths, a.rng())
			if err != nil {
				return err
			}

			res, err := summarizePaths(model, a.seed, paths)
			if err != nil {
				return err
			}

			if plot {
				fan, err := plots.PathFan(paths.Time, paths.Prices, show, model+" price paths", "Price")
				if err != nil {
					return err
				}
				path, err := a.savePlot(fan, model+"_paths.png")
				if err != nil {
					return err
				}
				res.Plots = append(res.Plots, path)

				if paths.Vols != nil {
					label := "Volatility"
					if model == "heston" {
						label = "Variance"
					}
					fan, err := plots.PathFan(paths.Time, paths.Vols, show, model+" "+label+" paths", label)
					if err != nil {
						return err
					}
					path, err := a.savePlot(fan, model+"_vols.png")
					if err != nil {
						return err
					}
					res.Plots = append(res.Plots, path)
				}
			}

			return writeJSON(cmd.OutOrStdout(), res)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&s0, "s0", 100, "initial price")
	f.Float64Var(&t, "t", 1, "horizon in years")
	f.Float64Var(&dt, "dt", 1.0/models.TradingDaysPerYear, "time step in years")
	f.IntVar(&nPaths, "paths", 1000, "number of paths")
	f.BoolVar(&plot, "plot", false, "render the paths to PNG")
	f.IntVar(&show, "show", 5, "number of paths drawn when plotting (0 draws all)")

	if model != "sabr" {
		f.Float64Var(&mu, "mu", 0.05, "drift")
	}
	switch model {
	case "gbm", "merton", "kou", "vg":
		f.Float64Var(&sigma, "sigma", 0.2, "volatility")
	}
	switch model {
	case "heston":
		f.Float64Var(&v0, "v0", 0.04, "initial variance")
		f.Float64Var(&kappa, "kappa", 2, "mean-reversion speed")
		f.Float64Var(&theta, "theta", 0.04, "long-run variance")
		f.Float64Var(&xi, "xi", 0.3, "volatility of variance")
		f.Float64Var(&rho, "rho", -0.7, "price/variance correlation")
	case "sabr":
		f.Float64Var(&alpha, "alpha", 0.04, "initial volatility")
		f.Float64Var(&beta, "beta", 0.5, "CEV exponent in [0, 1]")
		f.Float64Var(&rho, "rho", 0, "price/volatility correlation")
		f.Float64Var(&nu, "nu", 0.2, "volatility of volatility")
	case "merton":
		f.Float64Var(&lambda, "lambda", 1, "jumps per year")
		f.Float64Var(&jumpMu, "jump-mu", -0.05, "mean log jump size")
		f.Float64Var(&jumpDelta, "jump-delta", 0.1, "log jump size volatility")
	case "kou":
		f.Float64Var(&lambda, "lambda", 1, "jumps per year")
		f.Float64Var(&p, "p", 0.4, "probability a jump is upward")
		f.Float64Var(&eta1, "eta1", 10, "rate of upward jumps")
		f.Float64Var(&eta2, "eta2", 5, "rate of downward jumps")
	case "vg":
		f.Float64Var(&vgTheta, "theta", -0.1, "drift of the time-changed Brownian motion")
		f.Float64Var(&vgNu, "nu", 0.2, "variance rate of the gamma clock")
	}
	return cmd
}

func summarizePaths(model string, seed uint64, paths *models.Paths) (*simulateResult, error) {
	terminal, err := probability.Summarize(paths.Terminal())
	if err != nil {
		return nil, err
	}
	pnl := probability.TerminalPnL(paths)
	v, err := probability.ValueAtRisk(pnl, 0.95)
	if err != nil {
		return nil, err
	}
	es, err := probability.ExpectedShortfall(pnl, 0.95)
	if err != nil {
		return nil, err
	}

	res := &simulateResult{
		Model:      model,
		Seed:       seed,
		Paths:      paths.NumPaths(),
		GridPoints: len(paths.Time),
		Horizon:    paths.Time.Last(),
		Terminal:   terminal,
		UpProb:     probability.ProfitProbability(pnl),
		VaR95:      probability.FiniteOrNil(v),
		ES95:       probability.FiniteOrNil(es),
	}
	if paths.Vols != nil {
		r, c := paths.Vols.Dims()
		last := make([]float64, r)
		for i := range last {
			last[i] = paths.Vols.At(i, c-1)
		}
		vol, err := probability.Summarize(last)
		if err != nil {
			return nil, err
		}
		res.TerminalVol = &vol
	}
	return res, nil
}
