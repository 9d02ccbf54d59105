// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

// Package config loads roomrec configuration with layered precedence:
// built-in defaults, then an optional YAML file, then environment
// variables. Environment variables use the ROOMREC_ prefix with
// underscores mapping to nested keys (ROOMREC_ARTIFACTS_DIR ->
// artifacts.dir).
package config

import (
	"fmt"
	"time"

	"github.com/moimlab/roomrec/internal/logging"
	"github.com/moimlab/roomrec/internal/recommend"
	"github.com/moimlab/roomrec/internal/validation"
)

// Config is the root configuration for the roomrec process.
type Config struct {
	Artifacts ArtifactsConfig  `koanf:"artifacts" validate:"required"`
	Recommend recommend.Config `koanf:"recommend"`
	Jobs      JobsConfig       `koanf:"jobs"`
	Logging   logging.Config   `koanf:"logging"`
}

// ArtifactsConfig controls where model generations are stored on disk.
type ArtifactsConfig struct {
	// Dir is the root directory for artifact generations.
	Dir string `koanf:"dir" validate:"required"`

	// KeepGenerations is how many past generations Prune retains in
	// addition to the current one.
	KeepGenerations int `koanf:"keep_generations" validate:"min=0"`
}

// JobsConfig controls the background training pipeline.
type JobsConfig struct {
	// Enabled turns the periodic retrain pipeline on.
	Enabled bool `koanf:"enabled"`

	// Interval is the time between pipeline runs.
	Interval time.Duration `koanf:"interval" validate:"min=0"`

	// UsersFile is the JSON file of user profiles read by each run.
	UsersFile string `koanf:"users_file"`

	// ActionLogFile is the JSON file of join/click entries read by each run.
	ActionLogFile string `koanf:"action_log_file"`
}

// defaultConfig returns a Config with all defaults applied. These are
// layered first, then overridden by the config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Artifacts: ArtifactsConfig{
			Dir:             "/data/roomrec/artifacts",
			KeepGenerations: 3,
		},
		Recommend: *recommend.DefaultConfig(),
		Jobs: JobsConfig{
			Enabled:       false,
			Interval:      6 * time.Hour,
			UsersFile:     "",
			ActionLogFile: "",
		},
		Logging: logging.DefaultConfig(),
	}
}

// Validate checks the assembled configuration. Struct tags are enforced
// first, then cross-field rules that tags cannot express.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := c.Recommend.Validate(); err != nil {
		return fmt.Errorf("config: recommend: %w", err)
	}
	if c.Jobs.Enabled {
		if c.Jobs.UsersFile == "" {
			return fmt.Errorf("config: jobs.users_file is required when jobs are enabled")
		}
		if c.Jobs.Interval <= 0 {
			return fmt.Errorf("config: jobs.interval must be positive when jobs are enabled")
		}
	}
	return nil
}
