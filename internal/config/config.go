// Package config loads the CLI configuration.
//
// Configuration comes from a YAML file given with --config, or
// config.yaml inside the store directory. When neither exists the
// defaults below are used unchanged.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const FileName = "config.yaml"

type Config struct {
	// Host is the LINE API gateway, without a trailing slash.
	Host string `yaml:"host"`

	// AlbumVersion is the album API version used when a call does not pin one.
	AlbumVersion int `yaml:"album_version"`

	// Application is sent as x-line-application.
	Application string `yaml:"application"`

	UserAgent string `yaml:"user_agent"`

	// Language is sent as x-lal.
	Language string `yaml:"language"`

	// Timeout bounds each HTTP round trip, e.g. "30s".
	Timeout string `yaml:"timeout"`

	// LogLevel is a zerolog level name.
	LogLevel string `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		Host:         "https://legy.line-apps.com",
		AlbumVersion: 5,
		Application:  "ANDROID\t14.0.1\tAndroid OS\t13",
		UserAgent:    "Line/14.0.1",
		Language:     "ja_JP",
		Timeout:      "30s",
		LogLevel:     "warn",
	}
}

// LoadFile reads path over the defaults. A missing file is not an error
// unless required is set.
func LoadFile(path string, required bool) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !required {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Host == "" {
		errs = append(errs, fmt.Errorf("host is required"))
	}
	if c.AlbumVersion <= 0 {
		errs = append(errs, fmt.Errorf("album_version must be positive, got %d", c.AlbumVersion))
	}
	if d, err := time.ParseDuration(c.Timeout); err != nil {
		errs = append(errs, fmt.Errorf("timeout: %w", err))
	} else if d <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level: %w", err))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}

// TimeoutDuration returns Timeout parsed. Call Validate first.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// Level returns LogLevel parsed, falling back to warn.
func (c *Config) Level() zerolog.Level {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.WarnLevel
	}
	return level
}
