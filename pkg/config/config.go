// Package config loads runtime settings from an optional YAML file and
// PARTSTOCK_ environment variables.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/vsinha/partstock/pkg/infrastructure/batch"
)

// EnvPrefix is prepended to every environment variable key
const EnvPrefix = "PARTSTOCK"

// Config holds all runtime configuration
type Config struct {
	DatabasePath string `mapstructure:"database_path"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // console | json

	PricePlaces int32 `mapstructure:"price_places"`

	BatchSize  int           `mapstructure:"batch_size"`
	BatchDelay time.Duration `mapstructure:"batch_delay"`

	ReceivingMaxAttempts int `mapstructure:"receiving_max_attempts"`
}

// Batch returns the bulk write settings
func (c *Config) Batch() batch.Config {
	return batch.Config{Size: c.BatchSize, Delay: c.BatchDelay}
}

// Load reads configuration. An empty path searches ./partstock.yaml and
// ./configs/partstock.yaml and tolerates neither existing; an explicit path
// must exist.
func Load(path string) (*Config, error) {
	v := viper.New()

	v.SetDefault("database_path", "partstock.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("price_places", 2)
	v.SetDefault("batch_size", 100)
	v.SetDefault("batch_delay", "50ms")
	v.SetDefault("receiving_max_attempts", 3)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("partstock")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the rest of the program cannot work with
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return errors.New("database_path cannot be empty")
	}
	if _, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	switch strings.ToLower(c.LogFormat) {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log_format %q (expected console or json)", c.LogFormat)
	}
	if c.PricePlaces < 0 {
		return fmt.Errorf("price_places cannot be negative, got %d", c.PricePlaces)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("batch_size must be positive, got %d", c.BatchSize)
	}
	if c.BatchDelay < 0 {
		return fmt.Errorf("batch_delay cannot be negative, got %s", c.BatchDelay)
	}
	if c.ReceivingMaxAttempts <= 0 {
		return fmt.Errorf("receiving_max_attempts must be positive, got %d", c.ReceivingMaxAttempts)
	}
	return nil
}

// SetupLogging configures the global zerolog logger
func (c *Config) SetupLogging(out io.Writer) {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if strings.ToLower(c.LogFormat) == "json" {
		log.Logger = zerolog.New(out).With().Timestamp().Logger()
		return
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339})
}
