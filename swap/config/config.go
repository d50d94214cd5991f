package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// PastCashflowPolicy decides how cashflows paid before the valuation date are valued.
type PastCashflowPolicy string

const (
	// ExcludePast gives past cashflows a zero discount factor and zero PV.
	// Their amount is still reported as FV.
	ExcludePast PastCashflowPolicy = "exclude"
	// IncludePast treats past cashflows as settled at par on the valuation date (DF 1).
	IncludePast PastCashflowPolicy = "include"
)

// Config holds valuation parameters.
type Config struct {
	// PastCashflows is the policy for cashflows paid strictly before the
	// valuation date. Cashflows paid on the valuation date are always valued
	// off the curve.
	PastCashflows PastCashflowPolicy `mapstructure:"past_cashflows" yaml:"past_cashflows"`

	// Workers bounds the goroutines used by parallel swap valuation.
	Workers int `mapstructure:"workers" yaml:"workers"`

	// MinDiscountFactor is the floor below which a curve's discount factor is
	// treated as an arithmetic failure rather than a number to multiply by.
	MinDiscountFactor float64 `mapstructure:"min_discount_factor" yaml:"min_discount_factor"`

	Log LogConfig `mapstructure:"log" yaml:"log"`
}

// LogConfig configures the zerolog logger.
type LogConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"` // debug, info, warn, error
	Pretty bool   `mapstructure:"pretty" yaml:"pretty"`
}

// DefaultConfig provides production-ready default values.
var DefaultConfig = Config{
	PastCashflows:     ExcludePast,
	Workers:           4,
	MinDiscountFactor: 1e-12,
	Log: LogConfig{
		Level: "info",
	},
}

const envPrefix = "SWAPLEG"

// Load reads configuration from defaults and SWAPLEG_* environment variables,
// e.g. SWAPLEG_PAST_CASHFLOWS=include, SWAPLEG_LOG_LEVEL=debug.
func Load() (Config, error) {
	v := newViper()
	return unmarshal(v)
}

// LoadFromFile reads configuration from a YAML, JSON or TOML file.
// Environment variables override file values.
func LoadFromFile(path string) (Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// setDefaults mirrors DefaultConfig so env-only overrides still unmarshal.
func setDefaults(v *viper.Viper) {
	v.SetDefault("past_cashflows", string(DefaultConfig.PastCashflows))
	v.SetDefault("workers", DefaultConfig.Workers)
	v.SetDefault("min_discount_factor", DefaultConfig.MinDiscountFactor)
	v.SetDefault("log.level", DefaultConfig.Log.Level)
	v.SetDefault("log.pretty", DefaultConfig.Log.Pretty)
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	switch c.PastCashflows {
	case ExcludePast, IncludePast:
	default:
		return fmt.Errorf("invalid past_cashflows policy %q (want %q or %q)", c.PastCashflows, ExcludePast, IncludePast)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}
	if c.MinDiscountFactor < 0 {
		return fmt.Errorf("min_discount_factor must not be negative, got %g", c.MinDiscountFactor)
	}
	return nil
}
