// Package config provides configuration management for the House Odds service.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. HOUSE_ODDS_SERVER_PORT.
const EnvPrefix = "HOUSE_ODDS"

// Load reads and parses the configuration from file and environment variables
// It expands environment variable placeholders in the YAML file (${VAR_NAME})
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

// setDefaults registers every key so AutomaticEnv can override it even when
// the file omits it.
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "house-odds")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.read_timeout_seconds", 10)
	v.SetDefault("server.write_timeout_seconds", 10)
	v.SetDefault("server.requests_per_second", 50.0)
	v.SetDefault("server.burst", 100)
	v.SetDefault("server.max_outcomes_per_request", 64)

	v.SetDefault("preview.margin_field", "house_margin")
	v.SetDefault("preview.smoothing_alpha", 6.0)

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.max_size", 10000)
	v.SetDefault("cache.sweep_schedule", "@every 1m")

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}
