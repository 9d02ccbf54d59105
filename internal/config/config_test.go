// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package config

import (
	"testing"
	"time"

	"github.com/moimlab/roomrec/internal/recommend"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := defaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

func TestDefaultConfigCarriesRecommendDefaults(t *testing.T) {
	cfg := defaultConfig()
	want := recommend.DefaultConfig()
	if cfg.Recommend.Clusters != want.Clusters {
		t.Errorf("Recommend.Clusters = %d, want %d", cfg.Recommend.Clusters, want.Clusters)
	}
	if cfg.Recommend.ReducerDim != want.ReducerDim {
		t.Errorf("Recommend.ReducerDim = %d, want %d", cfg.Recommend.ReducerDim, want.ReducerDim)
	}
	if cfg.Recommend.Limits.DefaultLimit != want.Limits.DefaultLimit {
		t.Errorf("Recommend.Limits.DefaultLimit = %d, want %d",
			cfg.Recommend.Limits.DefaultLimit, want.Limits.DefaultLimit)
	}
}

func TestConfig_ValidateJobs(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{
			name:   "disabled jobs need no files",
			mutate: func(c *Config) { c.Jobs.Enabled = false },
		},
		{
			name: "enabled jobs require a users file",
			mutate: func(c *Config) {
				c.Jobs.Enabled = true
				c.Jobs.UsersFile = ""
			},
			wantErr: true,
		},
		{
			name: "enabled jobs require a positive interval",
			mutate: func(c *Config) {
				c.Jobs.Enabled = true
				c.Jobs.UsersFile = "/data/users.json"
				c.Jobs.Interval = 0
			},
			wantErr: true,
		},
		{
			name: "enabled jobs with files and interval",
			mutate: func(c *Config) {
				c.Jobs.Enabled = true
				c.Jobs.UsersFile = "/data/users.json"
				c.Jobs.Interval = time.Hour
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfig_ValidateArtifacts(t *testing.T) {
	cfg := defaultConfig()
	cfg.Artifacts.Dir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil with empty artifacts.dir")
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := []struct {
		env  string
		want string
	}{
		{env: "ROOMREC_ARTIFACTS_DIR", want: "artifacts.dir"},
		{env: "ROOMREC_JOBS_USERS_FILE", want: "jobs.users_file"},
		{env: "ROOMREC_JOBS_ACTION_LOG_FILE", want: "jobs.action_log_file"},
		{env: "ROOMREC_LOGGING_LEVEL", want: "logging.level"},
		{env: "ROOMREC_RECOMMEND_CLUSTERS", want: "recommend.clusters"},
		{env: "ROOMREC_RECOMMEND_MAX_ITERATIONS", want: "recommend.max_iterations"},
		{env: "ROOMREC_RECOMMEND_LIMITS_DEFAULT_LIMIT", want: "recommend.limits.default_limit"},
		{env: "ROOMREC_RECOMMEND_LIMITS_MAX_LIMIT", want: "recommend.limits.max_limit"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}
