// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/models"
	"github.com/tomtom215/harborwatch/internal/registry"
	ws "github.com/tomtom215/harborwatch/internal/websocket"
)

// DemoModeReporter reports whether the vessel data source is the built-in
// simulator rather than the live AIS feed.
type DemoModeReporter interface {
	DemoMode() bool
}

// Handler contains dependencies for API handlers.
type Handler struct {
	registry  *registry.Registry
	feed      DemoModeReporter
	wsHub     *ws.Hub
	config    *config.Config
	startTime time.Time
}

// NewHandler creates a new API handler.
//
// Dependencies:
//   - reg: vessel registry for state queries
//   - feed: reports live vs demo data source for health and frames
//   - wsHub: WebSocket hub that subscribers attach to
//   - cfg: application configuration (used for WebSocket origin checks)
func NewHandler(reg *registry.Registry, feed DemoModeReporter, wsHub *ws.Hub, cfg *config.Config) *Handler {
	return &Handler{
		registry:  reg,
		feed:      feed,
		wsHub:     wsHub,
		config:    cfg,
		startTime: time.Now(),
	}
}

// Vessels handles GET /vessels and returns the current registry contents as
// a JSON array in first-seen order.
func (h *Handler) Vessels(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	vessels := h.registry.All()
	respondJSON(w, http.StatusOK, vessels)
}

// Health handles health check requests
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:      "ok",
		VesselCount: h.registry.Size(),
		DemoMode:    h.demoMode(),
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Ready once the registry and hub exist; the feed layer degrades to the
// simulator on its own, so feed connectivity never blocks readiness.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Method not allowed", nil)
		return
	}

	ready := h.registry != nil && h.wsHub != nil

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, map[string]interface{}{
		"status":      status,
		"vesselCount": h.registry.Size(),
		"demoMode":    h.demoMode(),
		"uptime":      time.Since(h.startTime).Seconds(),
	})
}

// WebSocket handles WebSocket subscriber connections. The hub pushes a full
// snapshot immediately after registration, then periodic vesselUpdate frames.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Ctx(r.Context()).Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}

func (h *Handler) demoMode() bool {
	return h.feed != nil && h.feed.DemoMode()
}

// getUpgrader creates a WebSocket upgrader with origin checking and a
// handshake timeout against slow clients.
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins.
// Requests without an Origin header come from non-browser clients (scripts,
// monitoring, map viewers) and are allowed; browser origins must match the
// configured CORS origins.
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	if h.config == nil {
		return true
	}

	for _, allowed := range h.config.Security.CORSOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}

	logging.Ctx(r.Context()).Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected: origin not allowed")
	return false
}
