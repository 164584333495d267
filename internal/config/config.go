// Feedstage - Mock Social Feed Experiment Platform
// Copyright 2026 Feedstage Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/feedstage/feedstage

// Package config loads layered application configuration: built-in
// defaults, then an optional YAML file, then FEEDSTAGE_* environment
// variables, each layer overriding the previous one.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Session  SessionConfig  `koanf:"session"`
	API      APIConfig      `koanf:"api"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // development or production
}

// DatabaseConfig holds Badger settings. InMemory is for tests and
// throwaway deployments; Path is ignored when it is set.
type DatabaseConfig struct {
	Path     string `koanf:"path"`
	InMemory bool   `koanf:"in_memory"`
}

// SessionConfig holds session engine settings.
type SessionConfig struct {
	// TickInterval between countdown decrements.
	TickInterval time.Duration `koanf:"tick_interval"`

	// SweepInterval between janitor passes over persisted timer state.
	SweepInterval time.Duration `koanf:"sweep_interval"`

	// SweepGrace is how far past its limit a timer may be before the
	// janitor removes it.
	SweepGrace time.Duration `koanf:"sweep_grace"`
}

// APIConfig holds HTTP API settings.
type APIConfig struct {
	RateLimit       int           `koanf:"rate_limit"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`
	CORSOrigins     []string      `koanf:"cors_origins"`

	// SeedDemoData populates an empty catalog with the demo study on
	// startup. Development convenience; off in production.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // json or console
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Environment, "production")
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %v", c.Server.Timeout)
	}
	switch strings.ToLower(c.Server.Environment) {
	case "development", "production":
	default:
		return fmt.Errorf("server.environment must be development or production, got %q", c.Server.Environment)
	}

	if !c.Database.InMemory && c.Database.Path == "" {
		return fmt.Errorf("database.path is required unless database.in_memory is set")
	}

	if c.Session.TickInterval <= 0 {
		return fmt.Errorf("session.tick_interval must be positive, got %v", c.Session.TickInterval)
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("session.sweep_interval must be positive, got %v", c.Session.SweepInterval)
	}
	if c.Session.SweepGrace < 0 {
		return fmt.Errorf("session.sweep_grace must not be negative, got %v", c.Session.SweepGrace)
	}

	if c.API.RateLimit < 1 {
		return fmt.Errorf("api.rate_limit must be at least 1, got %d", c.API.RateLimit)
	}
	if c.API.RateLimitWindow <= 0 {
		return fmt.Errorf("api.rate_limit_window must be positive, got %v", c.API.RateLimitWindow)
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q not recognized", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	if c.IsProduction() && c.API.SeedDemoData {
		return fmt.Errorf("api.seed_demo_data must not be enabled in production")
	}
	return nil
}
