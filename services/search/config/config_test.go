// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_NoFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(\"\") = %+v, want defaults", cfg)
	}

	cfg, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg != Default() {
		t.Errorf("missing file: got %+v, want defaults", cfg)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "searchtrace.yaml", `
logging:
  level: debug
  json: true
runner:
  parallelism: 2
climb:
  step_size: 0.05
  restarts: 10
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Logging.Level != "debug" || !cfg.Logging.JSON {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if cfg.Runner.Parallelism != 2 {
		t.Errorf("parallelism = %d, want 2", cfg.Runner.Parallelism)
	}
	if cfg.Climb.StepSize != 0.05 || cfg.Climb.Restarts != 10 {
		t.Errorf("climb = %+v", cfg.Climb)
	}
	if cfg.Climb.Upper != 10 {
		t.Errorf("unset fields should keep defaults, upper = %v", cfg.Climb.Upper)
	}
}

func TestLoad_JSONFallback(t *testing.T) {
	path := writeFile(t, "searchtrace.json", `{"runner": {"parallelism": 7}, "climb": {"step_size": 0.2}}`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runner.Parallelism != 7 || cfg.Climb.StepSize != 0.2 {
		t.Errorf("runner = %+v, climb = %+v", cfg.Runner, cfg.Climb)
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := writeFile(t, "bad.yaml", "runner: [\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "searchtrace.yaml", "runner:\n  parallelism: 2\n")
	t.Setenv("SEARCHTRACE_PARALLELISM", "9")
	t.Setenv("SEARCHTRACE_LOG_LEVEL", "warn")
	t.Setenv("SEARCHTRACE_TRACING_ENABLED", "true")
	t.Setenv("SEARCHTRACE_CLIMB_SEED", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Runner.Parallelism != 9 {
		t.Errorf("parallelism = %d, want 9", cfg.Runner.Parallelism)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("level = %q, want warn", cfg.Logging.Level)
	}
	if !cfg.Observability.TracingEnabled {
		t.Error("tracing should be enabled from env")
	}
	if cfg.Climb.Seed != 42 {
		t.Errorf("seed = %d, want 42", cfg.Climb.Seed)
	}
}

func TestLoad_BadEnv(t *testing.T) {
	t.Setenv("SEARCHTRACE_PARALLELISM", "lots")
	t.Setenv("SEARCHTRACE_METRICS_ENABLED", "maybe")

	_, err := Load("")
	if err == nil {
		t.Fatal("expected env error")
	}
	for _, want := range []string{"SEARCHTRACE_PARALLELISM", "SEARCHTRACE_METRICS_ENABLED"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, "Level"},
		{"empty service", func(c *Config) { c.Observability.ServiceName = "" }, "ServiceName"},
		{"negative parallelism", func(c *Config) { c.Runner.Parallelism = -1 }, "Parallelism"},
		{"zero step", func(c *Config) { c.Climb.StepSize = 0 }, "StepSize"},
		{"inverted bounds", func(c *Config) { c.Climb.Lower = 5; c.Climb.Upper = 1 }, "Upper"},
		{"negative restarts", func(c *Config) { c.Climb.Restarts = -3 }, "Restarts"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not name %s", err, tt.field)
			}
		})
	}
}
