// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package feed

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/metrics"
	"github.com/tomtom215/harborwatch/internal/registry"
)

// Adapter selects the feed strategy at startup: live when a credential is
// configured, demo otherwise. If the live feed exhausts its reconnect
// budget the adapter degrades to the demo fleet for the remainder of the
// process lifetime rather than failing.
//
// Adapter implements suture.Service.
type Adapter struct {
	cfg      *config.Config
	live     *LiveClient
	sim      *Simulator
	demoMode atomic.Bool
}

// NewAdapter wires the live client and simulator over a shared registry.
func NewAdapter(cfg *config.Config, reg *registry.Registry) *Adapter {
	return &Adapter{
		cfg:  cfg,
		live: NewLiveClient(cfg.Feed, cfg.Bounds, reg),
		sim:  NewSimulator(cfg.Demo, cfg.Bounds, reg),
	}
}

// DemoMode reports whether the synthetic fleet is active. Exposed on
// /health and in every broadcast frame.
func (a *Adapter) DemoMode() bool {
	return a.demoMode.Load()
}

// String implements suture.Service naming.
func (a *Adapter) String() string {
	return "feed-adapter"
}

// Serve runs the selected strategy until ctx is canceled.
func (a *Adapter) Serve(ctx context.Context) error {
	if !a.cfg.LiveFeedEnabled() {
		logging.Info().Msg("No AIS credential configured, starting demo fleet")
		return a.serveDemo(ctx)
	}

	a.setDemoMode(false)
	err := a.live.Run(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if errors.Is(err, ErrRetryBudgetExhausted) {
		logging.Error().
			Err(err).
			Msg("Live AIS feed unreachable, degrading to demo fleet")
		return a.serveDemo(ctx)
	}

	// Anything else is unexpected; let the supervisor restart us.
	return err
}

func (a *Adapter) serveDemo(ctx context.Context) error {
	a.setDemoMode(true)
	return a.sim.Run(ctx)
}

func (a *Adapter) setDemoMode(demo bool) {
	a.demoMode.Store(demo)
	metrics.SetDemoMode(demo)
}
