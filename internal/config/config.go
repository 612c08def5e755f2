// Package config handles loading and saving user configuration for senti.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/f3rmion/senti/internal/classifier"
	"github.com/f3rmion/senti/internal/sentiment"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Config holds all user configuration.
type Config struct {
	Endpoint       string `yaml:"endpoint"`
	RequestTimeout string `yaml:"request_timeout"` // Go duration, e.g. "30s"
	MinLength      int    `yaml:"min_length"`
	HistoryEnabled bool   `yaml:"history_enabled"`
	HistoryPath    string `yaml:"history_path"`
	LogFile        string `yaml:"log_file"`
	LogLevel       string `yaml:"log_level"` // debug, info, warn, error
}

// Default returns the configuration used when no file exists. Paths are
// relative to dir.
func Default(dir string) *Config {
	return &Config{
		Endpoint:       classifier.DefaultEndpoint,
		RequestTimeout: classifier.DefaultTimeout.String(),
		MinLength:      sentiment.MinLength,
		HistoryEnabled: true,
		HistoryPath:    filepath.Join(dir, "history.db"),
		LogFile:        filepath.Join(dir, "senti.log"),
		LogLevel:       "info",
	}
}

// Load reads dir/config.yaml over the defaults. A missing file is not an
// error.
func Load(dir string) (*Config, error) {
	cfg := Default(dir)

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes cfg to dir/config.yaml.
func Save(dir string, cfg *Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, FileName), out, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// Override applies values set through flags or SENTI_* environment
// variables.
func (c *Config) Override(v *viper.Viper) error {
	if v.IsSet("endpoint") {
		c.Endpoint = v.GetString("endpoint")
	}
	if v.IsSet("timeout") {
		c.RequestTimeout = v.GetString("timeout")
	}
	if v.IsSet("min_length") {
		c.MinLength = v.GetInt("min_length")
	}
	if v.IsSet("history") {
		c.HistoryEnabled = v.GetBool("history")
	}
	if v.IsSet("log_file") {
		c.LogFile = v.GetString("log_file")
	}
	if v.GetBool("verbose") {
		c.LogLevel = "debug"
	}
	return c.Validate()
}

// Validate checks values that cannot be repaired with a default.
func (c *Config) Validate() error {
	if c.MinLength < 1 {
		return fmt.Errorf("min_length must be at least 1, got %d", c.MinLength)
	}
	if _, err := c.Timeout(); err != nil {
		return err
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %q", c.LogLevel)
	}
	return nil
}

// Timeout parses RequestTimeout. An empty value means the client default.
func (c *Config) Timeout() (time.Duration, error) {
	if c.RequestTimeout == "" {
		return classifier.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.RequestTimeout)
	if err != nil {
		return 0, fmt.Errorf("parsing request_timeout: %w", err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("request_timeout must be positive, got %s", d)
	}
	return d, nil
}

// GetConfigDir returns the default configuration directory.
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "senti"), nil
}
