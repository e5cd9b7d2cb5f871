// Roomatch - Roommate Compatibility Matching Service
// Copyright 2026 The Roomatch Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/roomatch/roomatch

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
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/roomatch/config.yaml",
	"/etc/roomatch/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the configuration from three layers: struct defaults, an
// optional YAML file, and environment variables (highest priority).
// The result is validated before being returned.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

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

// envMappings translates flat environment variable names to koanf
// paths. Variables absent from this table are ignored, which keeps
// unrelated environment noise out of the config.
var envMappings = map[string]string{
	"server_host":             "server.host",
	"server_port":             "server.port",
	"server_read_timeout":     "server.read_timeout",
	"server_write_timeout":    "server.write_timeout",
	"server_shutdown_timeout": "server.shutdown_timeout",

	"database_path":             "database.path",
	"database_gc_interval":      "database.gc_interval",
	"database_gc_discard_ratio": "database.gc_discard_ratio",

	"jwt_secret":           "security.jwt_secret",
	"token_ttl":            "security.token_ttl",
	"allowed_email_domain": "security.allowed_email_domain",
	"admin_emails":         "security.admin_emails",
	"bcrypt_cost":          "security.bcrypt_cost",
	"cors_origins":         "security.cors_origins",
	"rate_limit_reqs":      "security.rate_limit_reqs",
	"rate_limit_window":    "security.rate_limit_window",
	"message_rate_limit":   "security.message_rate_limit",

	"match_weight_lifestyle":   "matching.weights.lifestyle",
	"match_weight_personality": "matching.weights.personality",
	"match_weight_extras":      "matching.weights.extras",
	"match_default_limit":      "matching.limits.default_limit",
	"match_max_limit":          "matching.limits.max_limit",
	"match_cache_ttl":          "matching.cache.ttl",
	"match_cache_max_entries":  "matching.cache.max_entries",
	"match_max_concurrency":    "matching.max_concurrency",

	"message_page_size": "api.message_page_size",
	"max_page_size":     "api.max_page_size",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// sliceFields are comma-separated in env vars and YAML scalars; koanf
// needs them re-split before unmarshaling into []string.
var sliceFields = []string{
	"security.admin_emails",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceFields {
		raw := k.Get(path)
		s, ok := raw.(string)
		if !ok {
			continue
		}
		parts := strings.Split(s, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				values = append(values, trimmed)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}
