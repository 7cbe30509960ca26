// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

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

// DefaultConfigPaths lists the paths searched for a config file in order of
// priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/harborwatch/config.yaml",
	"/etc/harborwatch/config.yml",
}

// ConfigPathEnvVar overrides the config file search path.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load builds the runtime configuration from three layers:
// struct defaults, an optional YAML file, then environment variables
// (highest priority).
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
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

// findConfigFile returns the first config file that exists, or "".
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

// sliceConfigPaths defines which config paths are parsed as
// comma-separated slices when supplied via environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for
// known slice fields. Env vars arrive as plain strings.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}

		// Already a slice (from YAML or defaults).
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}

		str, ok := val.(string)
		if !ok {
			continue
		}

		parts := strings.Split(str, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if err := k.Set(path, out); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return "" and are ignored, so unrelated process
// environment never leaks into the config tree.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// Feed
		"ais_api_key":                 "feed.api_key",
		"feed_api_key":                "feed.api_key",
		"ais_stream_url":              "feed.url",
		"feed_url":                    "feed.url",
		"feed_reconnect_delay":        "feed.reconnect_delay",
		"feed_reconnect_max_delay":    "feed.reconnect_max_delay",
		"feed_max_reconnect_attempts": "feed.max_reconnect_attempts",

		// Server
		"host":           "server.host",
		"http_host":      "server.host",
		"port":           "server.port",
		"http_port":      "server.port",
		"server_timeout": "server.timeout",
		"http_timeout":   "server.timeout",

		// Bounding box
		"bbox_min_lat":   "bounds.min_lat",
		"bbox_min_lon":   "bounds.min_lon",
		"bbox_max_lat":   "bounds.max_lat",
		"bbox_max_lon":   "bounds.max_lon",
		"bounds_min_lat": "bounds.min_lat",
		"bounds_min_lon": "bounds.min_lon",
		"bounds_max_lat": "bounds.max_lat",
		"bounds_max_lon": "bounds.max_lon",

		// Broadcast
		"broadcast_interval": "broadcast.interval",

		// Demo fleet
		"demo_fleet_size":    "demo.fleet_size",
		"demo_tick_interval": "demo.tick_interval",
		"demo_min_speed":     "demo.min_speed_kn",
		"demo_max_speed":     "demo.max_speed_kn",
		"demo_min_speed_kn":  "demo.min_speed_kn",
		"demo_max_speed_kn":  "demo.max_speed_kn",

		// Emissions tiers
		"emissions_high_tier_tonnes":     "emissions.high_tier_co2",
		"emissions_moderate_tier_tonnes": "emissions.moderate_tier_co2",
		"emissions_high_tier_co2":        "emissions.high_tier_co2",
		"emissions_moderate_tier_co2":    "emissions.moderate_tier_co2",

		// Vessel metadata
		"home_port":        "vessel.home_port",
		"vessel_home_port": "vessel.home_port",

		// Security
		"cors_origins":        "security.cors_origins",
		"rate_limit_per_min":  "security.rate_limit_per_min",
		"trust_proxy_headers": "security.trust_proxy_headers",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}

	// Ignore everything else.
	return ""
}
