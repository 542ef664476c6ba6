// Package config loads runtime settings from a .env file, the environment
// and command-line flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "STOCSIM"

// Keys shared by viper and the command-line flags.
const (
	KeySeed          = "seed"
	KeyWorkers       = "workers"
	KeyLogLevel      = "log-level"
	KeyDebug         = "debug"
	KeyOutput        = "output"
	KeyRiskFreeRate  = "risk-free-rate"
	KeyMaxPaths      = "max-paths"
	KeyTradierKey    = "tradier-key"
	KeySlackAppToken = "slack-app-token"
	KeySlackBotToken = "slack-bot-token"
)

type Config struct {
	Seed         uint64  // 0 draws a seed from the clock
	Workers      int     // 0 uses GOMAXPROCS
	LogLevel     string
	Debug        bool
	Output       string // directory for rendered plots
	RiskFreeRate float64
	MaxPaths     int // upper bound on paths per request

	TradierKey    string
	SlackAppToken string
	SlackBotToken string
}

func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Output:       ".",
		RiskFreeRate: 0.0379,
		MaxPaths:     200000,
	}
}

// Load reads envFile if it exists, then resolves every key from v, whose
// flags take precedence over STOCSIM_* variables and defaults. The API
// tokens also accept their bare names, e.g. TRADIER_KEY.
func Load(v *viper.Viper, envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	def := DefaultConfig()
	v.SetDefault(KeySeed, def.Seed)
	v.SetDefault(KeyWorkers, def.Workers)
	v.SetDefault(KeyLogLevel, def.LogLevel)
	v.SetDefault(KeyDebug, def.Debug)
	v.SetDefault(KeyOutput, def.Output)
	v.SetDefault(KeyRiskFreeRate, def.RiskFreeRate)
	v.SetDefault(KeyMaxPaths, def.MaxPaths)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for key, bare := range map[string]string{
		KeyTradierKey:    "TRADIER_KEY",
		KeySlackAppToken: "SLACK_APP_TOKEN",
		KeySlackBotToken: "SLACK_BOT_TOKEN",
	} {
		if err := v.BindEnv(key, EnvPrefix+"_"+bare, bare); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		Seed:          v.GetUint64(KeySeed),
		Workers:       v.GetInt(KeyWorkers),
		LogLevel:      v.GetString(KeyLogLevel),
		Debug:         v.GetBool(KeyDebug),
		Output:        v.GetString(KeyOutput),
		RiskFreeRate:  v.GetFloat64(KeyRiskFreeRate),
		MaxPaths:      v.GetInt(KeyMaxPaths),
		TradierKey:    v.GetString(KeyTradierKey),
		SlackAppToken: v.GetString(KeySlackAppToken),
		SlackBotToken: v.GetString(KeySlackBotToken),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}
	if c.MaxPaths < 1 {
		return fmt.Errorf("max-paths must be at least 1, got %d", c.MaxPaths)
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	return nil
}
