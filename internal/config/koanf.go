// Roomrec - Clustering-Based Room Recommendation Engine
// Copyright 2026 Moim Labs
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/moimlab/roomrec

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/roomrec/config.yaml",
	"/etc/roomrec/config.yml",
}

// ConfigPathEnvVar overrides the config file search path when set.
const ConfigPathEnvVar = "ROOMREC_CONFIG_PATH"

// envPrefix is stripped from environment variables before mapping them
// to configuration keys.
const envPrefix = "ROOMREC_"

// Load builds the configuration from layered sources:
//  1. Built-in defaults
//  2. Optional YAML config file
//  3. ROOMREC_* environment variables (highest priority)
func Load() (*Config, error) {
	k := koanf.New(".")

	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// ROOMREC_ARTIFACTS_DIR -> artifacts.dir
	// ROOMREC_JOBS_ACTION_LOG_FILE -> jobs.action_log_file
	envProvider := env.Provider(envPrefix, ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// envTransformFunc maps an environment variable name to a koanf key.
// The first underscore separates the section from the field; the field
// keeps its remaining underscores (jobs.action_log_file, not
// jobs.action.log.file). The recommend.limits subsection is the one
// nested block in the tree and gets its own cut, so
// ROOMREC_RECOMMEND_LIMITS_DEFAULT_LIMIT -> recommend.limits.default_limit.
func envTransformFunc(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, envPrefix))
	section, field, found := strings.Cut(key, "_")
	if !found {
		return key
	}
	if section == "recommend" {
		if sub, rest, ok := strings.Cut(field, "_"); ok && sub == "limits" {
			return section + "." + sub + "." + rest
		}
	}
	return section + "." + field
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
