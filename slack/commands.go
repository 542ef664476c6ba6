package simslack

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bcdannyboy/stocsim/models"
	"github.com/bcdannyboy/stocsim/pricing"
	"github.com/bcdannyboy/stocsim/probability"
	"github.com/bcdannyboy/stocsim/tradier"
	"golang.org/x/exp/rand"
)

var errUsage = errors.New("usage")

// QuoteSource fetches price history for /estimate.
type QuoteSource interface {
	GetQuotes(ctx context.Context, symbol string, start, end time.Time, interval string) (*tradier.QuoteHistory, error)
}

type Options struct {
	MaxPaths     int
	DefaultPaths int
	// Seed fixes every request's generator; 0 seeds from the clock.
	Seed   uint64
	Quotes QuoteSource
}

func (o Options) withDefaults() Options {
	if o.MaxPaths < 1 {
		o.MaxPaths = 200000
	}
	if o.DefaultPaths < 1 {
		o.DefaultPaths = 10000
	}
	if o.DefaultPaths > o.MaxPaths {
		o.DefaultPaths = o.MaxPaths
	}
	return o
}

func (o Options) rng() *rand.Rand {
	if o.Seed != 0 {
		return models.NewRNG(o.Seed)
	}
	return models.NewRNG(uint64(time.Now().UnixNano()))
}

// pathCount parses an optional trailing path count.
func (o Options) pathCount(args []string, at int) (int, error) {
	if len(args) <= at {
		return o.DefaultPaths, nil
	}
	n, err := strconv.Atoi(args[at])
	if err != nil {
		return 0, fmt.Errorf("%w: path count %q is not an integer", errUsage, args[at])
	}
	if n < 1 || n > o.MaxPaths {
		return 0, fmt.Errorf("%w: path count must lie in [1, %d]", errUsage, o.MaxPaths)
	}
	return n, nil
}

func parseFloats(args []string) ([]float64, error) {
	out := make([]float64, len(args))
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a number", errUsage, a)
		}
		out[i] = v
	}
	return out, nil
}

func usageError(usage string) error {
	return fmt.Errorf("%w: %s", errUsage, usage)
}

type BlackScholesHandler struct{}

func NewBlackScholesHandler() *BlackScholesHandler {
	return &BlackScholesHandler{}
}

func (h *BlackScholesHandler) Usage() string {
	return "/bs <spot> <strike> <maturity> <rate> <sigma> <call|put> - Black-Scholes price"
}

func (h *BlackScholesHandler) Respond(_ context.Context, args []string) (string, error) {
	if len(args) != 6 {
		return "", usageError(h.Usage())
	}
	v, err := parseFloats(args[:5])
	if err != nil {
		return "", err
	}
	typ, err := pricing.ParseOptionType(args[5])
	if err != nil {
		return "", err
	}
	price, err := pricing.BlackScholesPrice(v[0], v[1], v[2], v[3], v[4], typ)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Black-Scholes %s S=%g K=%g T=%g r=%g sigma=%g: *%.4f*", typ, v[0], v[1], v[2], v[3], v[4], price), nil
}

// AmericanHandler prices under the risk-neutral drift mu = r on a daily grid.
type AmericanHandler struct {
	opts Options
}

func NewAmericanHandler(opts Options) *AmericanHandler {
	return &AmericanHandler{opts: opts.withDefaults()}
}

func (h *AmericanHandler) Usage() string {
	return "/american <spot> <strike> <maturity> <rate> <sigma> <call|put> [paths] - Longstaff-Schwartz price"
}

func (h *AmericanHandler) Respond(_ context.Context, args []string) (string, error) {
	if len(args) != 6 && len(args) != 7 {
		return "", usageError(h.Usage())
	}
	v, err := parseFloats(args[:5])
	if err != nil {
		return "", err
	}
	typ, err := pricing.ParseOptionType(args[5])
	if err != nil {
		return "", err
	}
	n, err := h.opts.pathCount(args, 6)
	if err != nil {
		return "", err
	}

	s0, k, t, r, sigma := v[0], v[1], v[2], v[3], v[4]
	dt := 1.0 / models.TradingDaysPerYear
	if dt > t {
		dt = t
	}
	res, err := pricing.PriceAmericanOption(s0, k, r, sigma, t, dt, n, r, typ, h.opts.rng())
	if err != nil {
		return "", err
	}
	summary, err := probability.Summarize(res.Payoffs)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "American %s S=%g K=%g T=%g r=%g sigma=%g (%d paths): *%.4f*\n", typ, s0, k, t, r, sigma, n, res.Price)
	fmt.Fprintf(&b, "payoffs mean %.4f, std err %.4f, 5%%/50%%/95%% %.4f/%.4f/%.4f", summary.Mean, summary.StdErr, summary.P05, summary.P50, summary.P95)
	if eu, err := pricing.BlackScholesPrice(s0, k, t, r, sigma, typ); err == nil {
		fmt.Fprintf(&b, "\nEuropean reference %.4f", eu)
	} else {
		fmt.Fprintf(&b, "\nNo European reference: %v", err)
	}
	return b.String(), nil
}

type SimulateHandler struct {
	opts Options
}

func NewSimulateHandler(opts Options) *SimulateHandler {
	return &SimulateHandler{opts: opts.withDefaults()}
}

func (h *SimulateHandler) Usage() string {
	return "/simulate gbm <s0> <mu> <sigma> <T> [paths] | heston <s0> <v0> <mu> <kappa> <theta> <xi> <rho> <T> [paths] | sabr <s0> <alpha> <beta> <rho> <nu> <T> [paths] - terminal price distribution"
}

var simulateArity = map[string]int{"gbm": 4, "heston": 8, "sabr": 6}

func (h *SimulateHandler) Respond(_ context.Context, args []string) (string, error) {
	if len(args) == 0 {
		return "", usageError(h.Usage())
	}
	model := strings.ToLower(args[0])
	arity, ok := simulateArity[model]
	if !ok || (len(args) != arity+1 && len(args) != arity+2) {
		return "", usageError(h.Usage())
	}
	v, err := parseFloats(args[1 : arity+1])
	if err != nil {
		return "", err
	}
	n, err := h.opts.pathCount(args, arity+1)
	if err != nil {
		return "", err
	}

	t := v[arity-1]
	dt := 1.0 / models.TradingDaysPerYear
	if dt > t {
		dt = t
	}

	var paths *models.Paths
	switch model {
	case "gbm":
		paths, err = models.SimulateGBM(v[0], v[1], v[2], t, dt, n, h.opts.rng())
	case "heston":
		paths, err = models.SimulateHeston(v[0], v[1], v[2], v[3], v[4], v[5], v[6], t, dt, n, h.opts.rng())
	case "sabr":
		paths, err = models.SimulateSABR(v[0], v[1], v[2], v[3], v[4], t, dt, n, h.opts.rng())
	}
	if err != nil {
		return "", err
	}

	summary, err := probability.Summarize(paths.Terminal())
	if err != nil {
		return "", err
	}
	pnl := probability.TerminalPnL(paths)
	return fmt.Sprintf("%s terminal price at t=%.4f over %d paths: mean %.4f, std %.4f, 5%%/50%%/95%% %.4f/%.4f/%.4f, P(up) %.1f%%",
		model, paths.Time.Last(), n, summary.Mean, summary.StdDev, summary.P05, summary.P50, summary.P95,
		100*probability.ProfitProbability(pnl)), nil
}

type EstimateHandler struct {
	quotes QuoteSource
	now    func() time.Time
}

func NewEstimateHandler(quotes QuoteSource) *EstimateHandler {
	return &EstimateHandler{quotes: quotes, now: time.Now}
}

func (h *EstimateHandler) Usage() string {
	return "/estimate <symbol> [days] - annualized drift and volatility from daily closes"
}

func (h *EstimateHandler) Respond(ctx context.Context, args []string) (string, error) {
	if len(args) != 1 && len(args) != 2 {
		return "", usageError(h.Usage())
	}
	days := 365
	if len(args) == 2 {
		d, err := strconv.Atoi(args[1])
		if err != nil || d < 3 {
			return "", usageError(h.Usage())
		}
		days = d
	}

	symbol := strings.ToUpper(args[0])
	end := h.now()
	history, err := h.quotes.GetQuotes(ctx, symbol, end.AddDate(0, 0, -days), end, "daily")
	if err != nil {
		return "", err
	}
	mu, sigma, err := models.EstimateDriftVolatility(history.Closes(), models.TradingDaysPerYear)
	if err != nil {
		return "", err
	}
	yz, err := models.EstimateVolatility(history.Bars(), models.YangZhang, models.TradingDaysPerYear)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s over %d days: mu %.4f, sigma %.4f (Yang-Zhang %.4f)", symbol, days, mu, sigma, yz), nil
}
