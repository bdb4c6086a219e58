package config

import (
	"errors"
	"fmt"
	"os"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/tally/internal/amount"
	"github.com/cleared-dev/tally/internal/logger"
)

// NoGrouping is the grouping_separator value that disables digit grouping.
const NoGrouping = "none"

// Config represents the top-level tally.yaml configuration.
type Config struct {
	Format   FormatConfig `yaml:"format"`
	Parse    ParseConfig  `yaml:"parse"`
	Git      GitConfig    `yaml:"git"`
	LogLevel string       `yaml:"log_level"`
}

// FormatConfig selects the separators used to render amounts.
type FormatConfig struct {
	DecimalSeparator  string `yaml:"decimal_separator"`
	GroupingSeparator string `yaml:"grouping_separator"` // "none" disables grouping
}

// ParseConfig controls how typed amounts are read.
type ParseConfig struct {
	DefaultCurrency  string `yaml:"default_currency"`
	AutoDecimalPlace bool   `yaml:"auto_decimal_place"`
	StrictCurrency   bool   `yaml:"strict_currency"`
}

// GitConfig names the author of commits made by "tally init --git".
type GitConfig struct {
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a tally.yaml file from disk. Keys missing from the file take
// their value from Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := mergo.Merge(&cfg, *Default()); err != nil {
		return nil, fmt.Errorf("applying config defaults: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &cfg, nil
}

// LoadOrDefault loads path, or returns Default when path is empty.
func LoadOrDefault(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	return Load(path)
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Format: FormatConfig{
			DecimalSeparator:  amount.DefaultFormatConfig.DecimalSeparator,
			GroupingSeparator: amount.DefaultFormatConfig.GroupingSeparator,
		},
		Parse: ParseConfig{
			DefaultCurrency: "USD",
		},
		Git: GitConfig{
			AuthorName:  "Tally",
			AuthorEmail: "tally@localhost",
		},
		LogLevel: "info",
	}
}

// Validate checks separators, the default currency code and the log level.
func (c *Config) Validate() error {
	var errs []error
	if err := c.FormatConfig().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("format: %w", err))
	}
	if code := c.Parse.DefaultCurrency; code != "" && !isCode(code) {
		errs = append(errs, fmt.Errorf("parse: invalid default currency %q", code))
	}
	if _, err := logger.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FormatConfig returns the separators to pass to amount.Format.
func (c *Config) FormatConfig() amount.FormatConfig {
	grouping := c.Format.GroupingSeparator
	if grouping == NoGrouping {
		grouping = ""
	}
	return amount.FormatConfig{
		DecimalSeparator:  c.Format.DecimalSeparator,
		GroupingSeparator: grouping,
	}
}

// ParseOptions returns the options to pass to amount.Parser.Parse.
func (c *Config) ParseOptions() amount.ParseOptions {
	return amount.ParseOptions{
		DefaultCurrency:  c.Parse.DefaultCurrency,
		AutoDecimalPlace: c.Parse.AutoDecimalPlace,
		StrictCurrency:   c.Parse.StrictCurrency,
	}
}

func isCode(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
