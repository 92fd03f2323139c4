// Package config provides configuration management for the House Odds service.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/robfig/cron/v3"

	"github.com/yourusername/house-odds/internal/builder"
)

// CustomValidator wraps the validator with custom validation rules
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator creates a new validator with custom validation functions
func NewValidator() *CustomValidator {
	v := validator.New()

	_ = v.RegisterValidation("environment", validateEnvironment)
	_ = v.RegisterValidation("loglevel", validateLogLevel)

	return &CustomValidator{validator: v}
}

// Validate validates the entire configuration
func Validate(cfg *Config) error {
	return NewValidator().Validate(cfg)
}

// Validate validates the configuration using registered validation rules
func (cv *CustomValidator) Validate(cfg *Config) error {
	if err := cv.validator.Struct(cfg); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return formatValidationErrors(validationErrors)
		}
		return fmt.Errorf("validation failed: %w", err)
	}

	return validateCrossField(cfg)
}

func validateEnvironment(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "development", "staging", "production":
		return true
	default:
		return false
	}
}

func validateLogLevel(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "debug", "info", "warn", "error":
		return true
	default:
		return false
	}
}

func validateCrossField(cfg *Config) error {
	if !strings.HasPrefix(cfg.Metrics.Path, "/") {
		return fmt.Errorf("metrics path must start with '/', got %q", cfg.Metrics.Path)
	}

	if strings.HasPrefix(cfg.Preview.MarginField, "outcomes[") {
		return fmt.Errorf("margin_field %q collides with outcome field names", cfg.Preview.MarginField)
	}

	if cfg.Preview.MarginField == builder.StakeField {
		return fmt.Errorf("margin_field %q collides with the stake field", cfg.Preview.MarginField)
	}

	if _, err := cron.ParseStandard(cfg.Cache.SweepSchedule); err != nil {
		return fmt.Errorf("invalid cache sweep_schedule %q: %w", cfg.Cache.SweepSchedule, err)
	}

	if float64(cfg.Server.Burst) < cfg.Server.RequestsPerSecond {
		return fmt.Errorf("burst (%d) cannot be lower than requests_per_second (%.2f)", cfg.Server.Burst, cfg.Server.RequestsPerSecond)
	}

	if cfg.IsProduction() {
		for _, origin := range cfg.Server.AllowedOrigins {
			if origin == "*" {
				return fmt.Errorf("production environment does not allow wildcard CORS origins")
			}
		}
	}

	return nil
}

func formatValidationErrors(validationErrors validator.ValidationErrors) error {
	var b strings.Builder
	for _, fieldError := range validationErrors {
		field := fieldError.StructField()
		tag := fieldError.Tag()

		switch tag {
		case "required":
			fmt.Fprintf(&b, "- Field '%s' is required\n", field)
		case "min", "max":
			fmt.Fprintf(&b, "- Field '%s' validation failed: %s constraint violated\n", field, tag)
		case "gt", "gte", "lt", "lte":
			fmt.Fprintf(&b, "- Field '%s' validation failed: numeric constraint %s violated\n", field, tag)
		case "environment":
			fmt.Fprintf(&b, "- Field '%s' must be one of: development, staging, production\n", field)
		case "loglevel":
			fmt.Fprintf(&b, "- Field '%s' must be one of: debug, info, warn, error\n", field)
		default:
			fmt.Fprintf(&b, "- Field '%s' failed validation: %s\n", field, tag)
		}
	}
	return fmt.Errorf("configuration validation failed:\n%s", b.String())
}
