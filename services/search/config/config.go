// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads searchtrace settings with priority env > file > defaults.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEARCHTRACE_"

var validate = validator.New()

// Config contains all searchtrace configuration.
//
// Thread Safety: Safe to read concurrently. Not safe to modify after creation.
type Config struct {
	// Logging contains log output settings.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Observability contains tracing and metrics settings.
	Observability ObservabilityConfig `json:"observability" yaml:"observability"`

	// Runner contains settings for batches of independent runs.
	Runner RunnerConfig `json:"runner" yaml:"runner"`

	// Climb contains hill-climbing defaults.
	Climb ClimbConfig `json:"climb" yaml:"climb"`
}

// LoggingConfig contains log output settings.
type LoggingConfig struct {
	Level string `json:"level" yaml:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `json:"json" yaml:"json"`
	Quiet bool   `json:"quiet" yaml:"quiet"`
}

// ObservabilityConfig contains tracing and metrics settings.
type ObservabilityConfig struct {
	TracingEnabled bool   `json:"tracing_enabled" yaml:"tracing_enabled"`
	MetricsEnabled bool   `json:"metrics_enabled" yaml:"metrics_enabled"`
	ServiceName    string `json:"service_name" yaml:"service_name" validate:"required"`
}

// RunnerConfig contains settings for batches of independent runs.
type RunnerConfig struct {
	// Parallelism bounds concurrent runs. Zero means one goroutine per run.
	Parallelism int `json:"parallelism" yaml:"parallelism" validate:"gte=0,lte=256"`
}

// ClimbConfig contains hill-climbing defaults used when a command does not
// override them.
type ClimbConfig struct {
	StepSize float64 `json:"step_size" yaml:"step_size" validate:"gt=0"`
	MaxSteps int     `json:"max_steps" yaml:"max_steps" validate:"gte=0"`
	Lower    float64 `json:"lower" yaml:"lower"`
	Upper    float64 `json:"upper" yaml:"upper" validate:"gtefield=Lower"`
	Restarts int     `json:"restarts" yaml:"restarts" validate:"gte=0,lte=10000"`
	Seed     uint64  `json:"seed" yaml:"seed"`
}

// Default returns the default configuration.
func Default() Config {
	return Config{
		Logging: LoggingConfig{
			Level: "info",
		},
		Observability: ObservabilityConfig{
			TracingEnabled: false,
			MetricsEnabled: false,
			ServiceName:    "searchtrace",
		},
		Runner: RunnerConfig{
			Parallelism: 4,
		},
		Climb: ClimbConfig{
			StepSize: 0.1,
			MaxSteps: 1000,
			Lower:    0,
			Upper:    10,
			Restarts: 0,
			Seed:     1,
		},
	}
}

// Load loads configuration with priority: env > file > defaults.
//
// Inputs:
//
//	path - Path to a YAML or JSON config file. Empty or missing means defaults.
//
// Outputs:
//
//	Config - Merged configuration.
//	error - Non-nil if the file is unreadable, malformed, or the result is invalid.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
	}

	if err := loadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("load config env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	// Try YAML first, then JSON
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jsonErr := json.Unmarshal(data, cfg); jsonErr != nil {
			return fmt.Errorf("parse config (tried YAML and JSON): YAML error: %v, JSON error: %w", err, jsonErr)
		}
	}
	return nil
}

// loadEnv applies SEARCHTRACE_* overrides. Unlike file values, a malformed
// override is an error rather than silently ignored.
func loadEnv(cfg *Config) error {
	var errs []error

	str := func(name string, dst *string) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			*dst = strings.TrimSpace(v)
		}
	}
	boolean := func(name string, dst *bool) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			b, err := strconv.ParseBool(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = b
		}
	}
	integer := func(name string, dst *int) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			i, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = i
		}
	}
	float := func(name string, dst *float64) {
		if v, ok := os.LookupEnv(EnvPrefix + name); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, name, err))
				return
			}
			*dst = f
		}
	}

	// Logging
	str("LOG_LEVEL", &cfg.Logging.Level)
	boolean("LOG_JSON", &cfg.Logging.JSON)
	boolean("LOG_QUIET", &cfg.Logging.Quiet)

	// Observability
	boolean("TRACING_ENABLED", &cfg.Observability.TracingEnabled)
	boolean("METRICS_ENABLED", &cfg.Observability.MetricsEnabled)
	str("SERVICE_NAME", &cfg.Observability.ServiceName)

	// Runner
	integer("PARALLELISM", &cfg.Runner.Parallelism)

	// Climb
	float("CLIMB_STEP_SIZE", &cfg.Climb.StepSize)
	integer("CLIMB_MAX_STEPS", &cfg.Climb.MaxSteps)
	float("CLIMB_LOWER", &cfg.Climb.Lower)
	float("CLIMB_UPPER", &cfg.Climb.Upper)
	integer("CLIMB_RESTARTS", &cfg.Climb.Restarts)
	if v, ok := os.LookupEnv(EnvPrefix + "CLIMB_SEED"); ok {
		seed, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sCLIMB_SEED: %w", EnvPrefix, err))
		} else {
			cfg.Climb.Seed = seed
		}
	}

	return errors.Join(errs...)
}

// Validate checks that the configuration is valid.
//
// Outputs:
//
//	error - Non-nil if configuration is invalid, naming every failing field.
func (c Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s", fe.Namespace(), fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Namespace(), fe.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
