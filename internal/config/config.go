// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package config loads and validates the Harborwatch runtime configuration
// from layered sources: struct defaults, an optional YAML file, then
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the root configuration for the harborwatch server.
type Config struct {
	Feed      FeedConfig      `koanf:"feed"`
	Server    ServerConfig    `koanf:"server"`
	Bounds    BoundsConfig    `koanf:"bounds"`
	Broadcast BroadcastConfig `koanf:"broadcast"`
	Demo      DemoConfig      `koanf:"demo"`
	Emissions EmissionsConfig `koanf:"emissions"`
	Vessel    VesselConfig    `koanf:"vessel"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// FeedConfig controls the AIS feed adapter. An empty APIKey selects demo
// mode at startup; a non-empty key selects the live stream.
type FeedConfig struct {
	APIKey string `koanf:"api_key"`
	URL    string `koanf:"url" validate:"required,url"`

	// ReconnectDelay is the initial backoff after a dropped connection.
	// The delay doubles per consecutive failure up to ReconnectMaxDelay.
	ReconnectDelay    time.Duration `koanf:"reconnect_delay" validate:"min=100ms"`
	ReconnectMaxDelay time.Duration `koanf:"reconnect_max_delay"`

	// MaxReconnectAttempts bounds consecutive failed connection attempts
	// before the adapter falls back to the demo fleet. 0 retries forever.
	MaxReconnectAttempts int `koanf:"max_reconnect_attempts" validate:"min=0"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host    string        `koanf:"host" validate:"required"`
	Port    int           `koanf:"port" validate:"min=1,max=65535"`
	Timeout time.Duration `koanf:"timeout" validate:"min=1s"`
}

// BoundsConfig is the geographic bounding box the deployment watches.
// Both the live feed subscription and the demo fleet are scoped to it.
type BoundsConfig struct {
	MinLat float64 `koanf:"min_lat" validate:"min=-90,max=90"`
	MinLon float64 `koanf:"min_lon" validate:"min=-180,max=180"`
	MaxLat float64 `koanf:"max_lat" validate:"min=-90,max=90"`
	MaxLon float64 `koanf:"max_lon" validate:"min=-180,max=180"`
}

// BroadcastConfig controls the subscriber push loop.
type BroadcastConfig struct {
	Interval time.Duration `koanf:"interval" validate:"min=100ms"`
}

// DemoConfig controls the synthetic fleet used when no feed credential is
// configured or the live feed is unreachable.
type DemoConfig struct {
	FleetSize    int           `koanf:"fleet_size" validate:"min=1,max=10000"`
	TickInterval time.Duration `koanf:"tick_interval" validate:"min=100ms"`
	MinSpeedKn   float64       `koanf:"min_speed_kn" validate:"min=0"`
	MaxSpeedKn   float64       `koanf:"max_speed_kn" validate:"min=0"`
}

// EmissionsConfig holds the tier cutoffs in CO2 tonnes/day.
type EmissionsConfig struct {
	HighTierCO2     float64 `koanf:"high_tier_co2" validate:"gt=0"`
	ModerateTierCO2 float64 `koanf:"moderate_tier_co2" validate:"gt=0"`
}

// VesselConfig holds per-deployment vessel metadata defaults.
type VesselConfig struct {
	HomePort string `koanf:"home_port"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	CORSOrigins       []string `koanf:"cors_origins"`
	RateLimitPerMin   int      `koanf:"rate_limit_per_min" validate:"min=1"`
	TrustProxyHeaders bool     `koanf:"trust_proxy_headers"`
}

// LoggingConfig mirrors logging.Config for the koanf layer.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. Defaults are
// applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			APIKey:               "",
			URL:                  "wss://stream.aisstream.io/v0/stream",
			ReconnectDelay:       5 * time.Second,
			ReconnectMaxDelay:    60 * time.Second,
			MaxReconnectAttempts: 10,
		},
		Server: ServerConfig{
			Host:    "0.0.0.0",
			Port:    8080,
			Timeout: 30 * time.Second,
		},
		// New York harbor approaches.
		Bounds: BoundsConfig{
			MinLat: 40.40,
			MinLon: -74.30,
			MaxLat: 40.95,
			MaxLon: -73.65,
		},
		Broadcast: BroadcastConfig{
			Interval: 5 * time.Second,
		},
		Demo: DemoConfig{
			FleetSize:    50,
			TickInterval: 2 * time.Second,
			MinSpeedKn:   2,
			MaxSpeedKn:   18,
		},
		Emissions: EmissionsConfig{
			HighTierCO2:     80,
			ModerateTierCO2: 10,
		},
		Vessel: VesselConfig{
			HomePort: "Port of New York / New Jersey",
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitPerMin:   300,
			TrustProxyHeaders: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Validate checks field constraints and cross-field invariants.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if c.Bounds.MinLat >= c.Bounds.MaxLat {
		return fmt.Errorf("bounds: min_lat %v must be below max_lat %v", c.Bounds.MinLat, c.Bounds.MaxLat)
	}
	if c.Bounds.MinLon >= c.Bounds.MaxLon {
		return fmt.Errorf("bounds: min_lon %v must be below max_lon %v", c.Bounds.MinLon, c.Bounds.MaxLon)
	}
	if c.Demo.MinSpeedKn > c.Demo.MaxSpeedKn {
		return fmt.Errorf("demo: min_speed_kn %v must not exceed max_speed_kn %v", c.Demo.MinSpeedKn, c.Demo.MaxSpeedKn)
	}
	if c.Emissions.ModerateTierCO2 >= c.Emissions.HighTierCO2 {
		return fmt.Errorf("emissions: moderate_tier_co2 %v must be below high_tier_co2 %v",
			c.Emissions.ModerateTierCO2, c.Emissions.HighTierCO2)
	}
	if c.Feed.ReconnectMaxDelay < c.Feed.ReconnectDelay {
		return fmt.Errorf("feed: reconnect_max_delay %v must be at least reconnect_delay %v",
			c.Feed.ReconnectMaxDelay, c.Feed.ReconnectDelay)
	}
	return nil
}

// LiveFeedEnabled reports whether a feed credential is configured.
func (c *Config) LiveFeedEnabled() bool {
	return c.Feed.APIKey != ""
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
