// Package cli wires the simulators and pricers to a cobra command tree.
package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/bcdannyboy/stocsim/config"
	"github.com/bcdannyboy/stocsim/models"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/exp/rand"
)

// app carries the state resolved before any subcommand runs.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	log    *zap.Logger
	seed   uint64
	stderr io.Writer
}

func Execute() error {
	return NewRootCommand().Execute()
}

func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "stocsim",
		Short:         "Monte Carlo option pricing under GBM, Heston and SABR dynamics",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}

	def := config.DefaultConfig()
	flags := root.PersistentFlags()
	flags.Uint64(config.KeySeed, def.Seed, "random seed (0 seeds from the clock)")
	flags.Int(config.KeyWorkers, def.Workers, "worker goroutines for repeated trials (0 uses GOMAXPROCS)")
	flags.String(config.KeyLogLevel, def.LogLevel, "log level: debug, info, warn or error")
	flags.Bool(config.KeyDebug, def.Debug, "human-readable development logging")
	flags.String(config.KeyOutput, def.Output, "directory for rendered plots")
	flags.Int(config.KeyMaxPaths, def.MaxPaths, "upper bound on simulated paths per request")
	flags.Float64(config.KeyRiskFreeRate, def.RiskFreeRate, "default risk-free rate for pricing commands")
	flags.String("env-file", ".env", "dotenv file loaded before reading the environment")
	for _, key := range []string{config.KeySeed, config.KeyWorkers, config.KeyLogLevel, config.KeyDebug, config.KeyOutput, config.KeyMaxPaths, config.KeyRiskFreeRate} {
		_ = a.v.BindPFlag(key, flags.Lookup(key))
	}

	root.AddCommand(
		newSimulateCommand(a, "gbm"),
		newSimulateCommand(a, "heston"),
		newSimulateCommand(a, "sabr"),
		newSimulateCommand(a, "merton"),
		newSimulateCommand(a, "kou"),
		newSimulateCommand(a, "vg"),
		newBlackScholesCommand(a),
		newSurfaceCommand(a),
		newImpliedVolCommand(a),
		newAmericanCommand(a),
		newEstimateCommand(a),
		newSlackCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	envFile, _ := cmd.Flags().GetString("env-file")
	cfg, err := config.Load(a.v, envFile)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.stderr = cmd.ErrOrStderr()

	a.log, err = newLogger(cfg)
	if err != nil {
		return err
	}

	// Pricing commands take the configured rate unless --rate was given.
	if f := cmd.Flags().Lookup("rate"); f != nil && !f.Changed {
		if err := f.Value.Set(strconv.FormatFloat(cfg.RiskFreeRate, 'g', -1, 64)); err != nil {
			return err
		}
	}

	a.seed = cfg.Seed
	if a.seed == 0 {
		a.seed = uint64(time.Now().UnixNano())
	}
	a.log.Debug("configuration loaded",
		zap.Uint64("seed", a.seed),
		zap.Int("workers", cfg.Workers),
		zap.String("output", cfg.Output),
		zap.Float64("risk_free_rate", cfg.RiskFreeRate),
	)
	return nil
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(strings.ToLower(cfg.LogLevel))); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Debug {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func (a *app) rng() *rand.Rand {
	return models.NewRNG(a.seed)
}

func (a *app) checkPaths(n int) error {
	if n > a.cfg.MaxPaths {
		return models.Invalidf("%d paths exceeds the limit of %d", n, a.cfg.MaxPaths)
	}
	return nil
}
