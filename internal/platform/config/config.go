// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the memory service.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL + pgvector)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./migrations"`

	// Key-Value Cache (Redis) — proposal idempotency markers, shadow-log
	// sampling counters.
	RedisURL string `env:"REDIS_URL,required"`

	// Operator authentication, gating the emergency-bypass capability.
	SessionSecret  string `env:"SESSION_SECRET,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// Embedding Gateway
	EmbeddingProviderURL string `env:"EMBEDDING_PROVIDER_URL"`
	EmbeddingAPIKey      string `env:"EMBEDDING_API_KEY"`
	EmbeddingDimension   int    `env:"EMBEDDING_DIMENSION" envDefault:"1536"`

	// Access Control
	// RLSPhaseOverride forces every project's rollout phase to a fixed
	// value (pending/shadow/enforcing), bypassing the per-project table.
	// Empty means "use the per-project phase stored in Postgres."
	RLSPhaseOverride string `env:"RLS_PHASE_OVERRIDE"`

	// Working memory bound. Parsed from the environment but not passed to
	// any component: the remember tool's per-call capacity, else
	// constants.DefaultWorkingMemoryCapacity, is what applies.
	WorkingMemoryCapacity int `env:"WORKING_MEMORY_CAPACITY" envDefault:"200"`

	// OpsConfigPath points at the optional YAML file carrying operational
	// knobs not suited to flat environment variables (see [OpsConfig]).
	OpsConfigPath string `env:"OPS_CONFIG_PATH" envDefault:"./ops.yaml"`

	// Cross-Origin Resource Sharing, for the operator-facing admin surface.
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	switch cfg.RLSPhaseOverride {
	case "", "pending", "shadow", "enforcing":
	default:
		return nil, fmt.Errorf("config: RLS_PHASE_OVERRIDE must be one of pending/shadow/enforcing, got %q", cfg.RLSPhaseOverride)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins splits the comma-separated ExtraOrigins setting into the
// list of origin suffixes permitted by the CORS middleware outside of
// development mode.
func (c *Config) AllowedOrigins() []string {
	if c.ExtraOrigins == "" {
		return nil
	}
	parts := strings.Split(c.ExtraOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
