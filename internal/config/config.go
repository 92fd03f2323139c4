// Package config provides configuration management for the House Odds service.
package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App     AppConfig     `mapstructure:"app" validate:"required"`
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Preview PreviewConfig `mapstructure:"preview" validate:"required"`
	Cache   CacheConfig   `mapstructure:"cache" validate:"required"`
	Metrics MetricsConfig `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// ServerConfig represents the HTTP surface configuration
type ServerConfig struct {
	Port                  int      `mapstructure:"port" validate:"required,min=1,max=65535"`
	AllowedOrigins        []string `mapstructure:"allowed_origins" validate:"required,min=1"`
	ReadTimeoutSeconds    int      `mapstructure:"read_timeout_seconds" validate:"required,gt=0"`
	WriteTimeoutSeconds   int      `mapstructure:"write_timeout_seconds" validate:"required,gt=0"`
	RequestsPerSecond     float64  `mapstructure:"requests_per_second" validate:"required,gt=0"`
	Burst                 int      `mapstructure:"burst" validate:"required,gt=0"`
	MaxOutcomesPerRequest int      `mapstructure:"max_outcomes_per_request" validate:"required,gt=0"`
}

// PreviewConfig represents odds preview configuration
type PreviewConfig struct {
	MarginField    string  `mapstructure:"margin_field" validate:"required"`
	SmoothingAlpha float64 `mapstructure:"smoothing_alpha" validate:"required,gt=0"`
}

// CacheConfig represents preview cache configuration
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	MaxSize    int  `mapstructure:"max_size" validate:"required,gt=0"`

	// SweepSchedule is a cron expression for evicting expired previews.
	SweepSchedule string `mapstructure:"sweep_schedule" validate:"required"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ListenAddress returns the HTTP listen address
func (c *Config) ListenAddress() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}

// CacheTTL returns the preview cache TTL
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Cache.TTLSeconds) * time.Second
}
