// Package config loads gekkopy settings from a YAML file, a .env file
// and GEKKOPY_ prefixed environment variables, in increasing order of
// precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Constants
const (
	EnvPrefix       = "GEKKOPY"
	DefaultFileName = "gekkopy"
)

// Config holds all runtime settings.
type Config struct {
	Serving  ServingConfig  `mapstructure:"serving"`
	Engine   EngineConfig   `mapstructure:"engine"`
	Log      LogConfig      `mapstructure:"log"`
	Backtest BacktestConfig `mapstructure:"backtest"`
}

// ServingConfig configures the strategy server.
type ServingConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// EngineConfig configures the connection to the trading engine.
type EngineConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `mapstructure:"level"`
}

// BacktestConfig provides defaults for the backtest and candle commands.
// CandleSize, From and To are kept as strings and parsed by the caller
// so the same values work as command line flags.
type BacktestConfig struct {
	Exchange   string         `mapstructure:"exchange"`
	Asset      string         `mapstructure:"asset"`
	Currency   string         `mapstructure:"currency"`
	CandleSize string         `mapstructure:"candle_size"`
	Strategy   string         `mapstructure:"strategy"`
	Params     map[string]any `mapstructure:"params"`
	From       string         `mapstructure:"from"`
	To         string         `mapstructure:"to"`
}

// Load reads the configuration. When path is empty it looks for
// gekkopy.yaml in the working directory and treats a missing file as
// all defaults. A non empty path must exist.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("serving.host", "localhost")
	v.SetDefault("serving.port", 2626)
	v.SetDefault("engine.base_url", "http://localhost:3000")
	v.SetDefault("engine.timeout", 30*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("backtest.candle_size", "60")
}

// LogLevel maps the configured level name to a slog level. Unknown
// names fall back to info.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
