// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package recommend

import "fmt"

// Config contains all tuning parameters for the recommendation engine.
type Config struct {
	// Clusters is K, the number of user segments fit by the retrain batch.
	// The same K binds the model, the user-cluster map and the popularity
	// table of one generation.
	Clusters int `json:"clusters" koanf:"clusters"`

	// ReducerDim is the requested dimensionality of the dense category
	// embedding. The effective dimension is capped by category and user
	// counts at fit time.
	ReducerDim int `json:"reducer_dim" koanf:"reducer_dim"`

	// MaxIterations bounds the k-means refinement loop.
	MaxIterations int `json:"max_iterations" koanf:"max_iterations"`

	// Seed is the random seed for deterministic fits.
	// If zero, a fixed default seed is used.
	Seed int64 `json:"seed" koanf:"seed"`

	// Limits contains serving limits.
	Limits LimitsConfig `json:"limits" koanf:"limits"`
}

// LimitsConfig contains operational serving limits.
type LimitsConfig struct {
	// DefaultLimit is the ranking length used when a request carries none.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps the ranking length regardless of the request.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`
}

// DefaultConfig returns production defaults.
func DefaultConfig() *Config {
	return &Config{
		Clusters:      8,
		ReducerDim:    8,
		MaxIterations: 100,
		Seed:          42,
		Limits: LimitsConfig{
			DefaultLimit: 20,
			MaxLimit:     100,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if c.Clusters < 1 {
		return fmt.Errorf("clusters must be >= 1, got %d", c.Clusters)
	}
	if c.ReducerDim < 1 {
		return fmt.Errorf("reducer_dim must be >= 1, got %d", c.ReducerDim)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1, got %d", c.MaxIterations)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be >= 1, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit (%d) must be >= limits.default_limit (%d)",
			c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// EffectiveSeed returns the configured seed, or the fixed default when unset.
func (c *Config) EffectiveSeed() int64 {
	if c.Seed == 0 {
		return 42
	}
	return c.Seed
}

// ClampLimit applies the default and maximum ranking lengths to a requested
// limit.
func (l LimitsConfig) ClampLimit(limit int) int {
	if limit <= 0 {
		limit = l.DefaultLimit
	}
	if l.MaxLimit > 0 && limit > l.MaxLimit {
		limit = l.MaxLimit
	}
	return limit
}
