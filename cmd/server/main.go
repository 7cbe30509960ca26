// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Harborwatch ingests AIS vessel positions for a harbor bounding box, estimates
// per-vessel CO2 emissions, and serves a live map feed over HTTP and WebSocket.
// Without an AIS credential it runs a built-in demo fleet instead.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/harborwatch/internal/api"
	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/emissions"
	"github.com/tomtom215/harborwatch/internal/feed"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/models"
	"github.com/tomtom215/harborwatch/internal/registry"
	"github.com/tomtom215/harborwatch/internal/supervisor"
	"github.com/tomtom215/harborwatch/internal/supervisor/services"
	ws "github.com/tomtom215/harborwatch/internal/websocket"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		// Use default logger for config errors (config not yet available)
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Initialize zerolog with configuration
	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Harborwatch with supervisor tree")

	if cfg.LiveFeedEnabled() {
		logging.Info().
			Str("feed_url", cfg.Feed.URL).
			Str("home_port", cfg.Vessel.HomePort).
			Msg("Configuration loaded (live feed mode)")
	} else {
		logging.Info().
			Int("fleet_size", cfg.Demo.FleetSize).
			Str("home_port", cfg.Vessel.HomePort).
			Msg("Configuration loaded (demo mode, no AIS credential)")
	}

	// Emission estimator and vessel registry form the shared state that the
	// feed writes and the API and broadcaster read.
	estimator := emissions.NewEstimator(emissions.TierThresholds{
		High:     cfg.Emissions.HighTierCO2,
		Moderate: cfg.Emissions.ModerateTierCO2,
	})
	reg := registry.New(estimator, cfg.Vessel.HomePort)

	adapter := feed.NewAdapter(cfg, reg)

	snapshot := func() models.SubscriberMessage {
		return models.NewVesselUpdate(reg.All(), adapter.DemoMode())
	}
	wsHub := ws.NewHub(snapshot)
	broadcaster := ws.NewBroadcaster(wsHub, cfg.Broadcast.Interval, snapshot)

	handler := api.NewHandler(reg, adapter, wsHub, cfg)
	router := api.NewRouter(handler, api.NewChiMiddleware(cfg))

	server := &http.Server{
		Addr:         cfg.ListenAddr(),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Create structured logger for supervisor using our slog adapter
	// This bridges zerolog to slog for sutureslog compatibility
	slogLogger := logging.NewSlogLogger()

	tree, err := supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddFeedService(adapter)
	tree.AddMessagingService(services.NewWebSocketHubService(wsHub))
	tree.AddMessagingService(broadcaster)
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	// Setup signal handling
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	// Wait for supervisor to finish (either from signal or error)
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}

	// Wait for the error channel to close (supervisor finished)
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	// Report any services that failed to stop within timeout
	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
