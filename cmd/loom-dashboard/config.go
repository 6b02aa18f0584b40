// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the dashboard's YAML configuration. Every field is
// optional; absent fields keep their defaults, so an empty file and
// no file at all behave the same.
type Config struct {
	// Theme selects the built-in stylesheet: "dark", "light", or
	// "auto" (detect from the terminal background).
	Theme string `yaml:"theme"`

	// Styles is a JSONC stylesheet path overriding the built-in
	// theme. The --styles flag overrides this in turn.
	Styles string `yaml:"styles"`

	// TickInterval is the cadence of the app's tick events (caret
	// blink, toast expiry), as a Go duration string such as "250ms".
	TickInterval string `yaml:"tick_interval"`

	// Services seeds the services table.
	Services []ServiceConfig `yaml:"services"`
}

// ServiceConfig is one row of the services table.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	Region   string `yaml:"region"`
	State    string `yaml:"state"`
	Replicas int    `yaml:"replicas"`
}

// DefaultConfig returns the configuration used when no file is given:
// auto-detected theme, default tick cadence, and a small demo fleet.
func DefaultConfig() *Config {
	return &Config{
		Theme: "auto",
		Services: []ServiceConfig{
			{Name: "gateway", Region: "eu-west", State: "up", Replicas: 4},
			{Name: "billing", Region: "eu-west", State: "up", Replicas: 2},
			{Name: "search", Region: "us-east", State: "degraded", Replicas: 6},
			{Name: "ingest", Region: "us-east", State: "up", Replicas: 3},
			{Name: "notifier", Region: "ap-south", State: "down", Replicas: 0},
			{Name: "archive", Region: "eu-west", State: "up", Replicas: 1},
			{Name: "metrics", Region: "us-east", State: "up", Replicas: 2},
			{Name: "scheduler", Region: "ap-south", State: "up", Replicas: 1},
		},
	}
}

// LoadConfig reads path into the defaults and validates the result.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field values without side effects.
func (c *Config) Validate() error {
	switch c.Theme {
	case "", "auto", "dark", "light":
	default:
		return fmt.Errorf("unknown theme %q (want auto, dark, or light)", c.Theme)
	}
	if c.TickInterval != "" {
		interval, err := time.ParseDuration(c.TickInterval)
		if err != nil {
			return fmt.Errorf("invalid tick_interval %q: %w", c.TickInterval, err)
		}
		if interval <= 0 {
			return fmt.Errorf("tick_interval %q must be positive", c.TickInterval)
		}
	}
	for index, service := range c.Services {
		if service.Name == "" {
			return fmt.Errorf("services[%d]: name is required", index)
		}
		if service.Replicas < 0 {
			return fmt.Errorf("services[%d] %s: replicas must not be negative", index, service.Name)
		}
	}
	return nil
}

// tickInterval returns the parsed cadence, or zero when unset so the
// app's default applies. Validate has already checked the syntax.
func (c *Config) tickInterval() time.Duration {
	if c.TickInterval == "" {
		return 0
	}
	interval, err := time.ParseDuration(c.TickInterval)
	if err != nil {
		return 0
	}
	return interval
}
