// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package feed

import (
	"context"
	"errors"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gorilla/websocket"

	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/metrics"
	"github.com/tomtom215/harborwatch/internal/registry"
)

// readTimeout bounds a single blocking read. aisstream pushes position
// reports continuously for any non-trivial bounding box, so a silent
// minute means the connection is dead.
const readTimeout = 60 * time.Second

// ErrRetryBudgetExhausted is returned by Run when the configured number of
// consecutive failed connection attempts has been reached.
var ErrRetryBudgetExhausted = errors.New("feed reconnect budget exhausted")

// LiveClient maintains the outbound WebSocket connection to the AIS
// stream, merging every inbound report into the registry.
//
// Connection lifecycle: dial, subscribe, read until error, then retry
// with exponential backoff. Error and close paths share one policy: the
// backoff delay doubles per consecutive failure up to the configured
// ceiling, and resets after any session that delivered at least one
// message. A bounded attempt budget converts persistent failure into
// ErrRetryBudgetExhausted so the caller can fall back to the demo fleet.
type LiveClient struct {
	cfg    config.FeedConfig
	bounds config.BoundsConfig
	reg    *registry.Registry
	dialer *websocket.Dialer
}

// NewLiveClient creates a client for the configured stream endpoint.
func NewLiveClient(cfg config.FeedConfig, bounds config.BoundsConfig, reg *registry.Registry) *LiveClient {
	return &LiveClient{
		cfg:    cfg,
		bounds: bounds,
		reg:    reg,
		dialer: &websocket.Dialer{
			HandshakeTimeout:  10 * time.Second,
			EnableCompression: true,
		},
	}
}

// Run drives the connect/read/reconnect loop until ctx is canceled or the
// retry budget runs out.
func (c *LiveClient) Run(ctx context.Context) error {
	attempts := 0
	delay := c.cfg.ReconnectDelay

	for {
		received, err := c.runSession(ctx)
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if received {
			// The session was healthy before it dropped; start the
			// failure accounting fresh.
			attempts = 0
			delay = c.cfg.ReconnectDelay
		}

		attempts++
		metrics.FeedReconnectsTotal.Inc()
		logging.Warn().
			Err(err).
			Int("attempt", attempts).
			Dur("retry_in", delay).
			Msg("AIS feed connection lost")

		if c.cfg.MaxReconnectAttempts > 0 && attempts >= c.cfg.MaxReconnectAttempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrRetryBudgetExhausted, attempts, err)
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}

		delay *= 2
		if delay > c.cfg.ReconnectMaxDelay {
			delay = c.cfg.ReconnectMaxDelay
		}
	}
}

// runSession dials, subscribes, and reads until the connection fails.
// It reports whether at least one message was received.
func (c *LiveClient) runSession(ctx context.Context) (received bool, err error) {
	conn, resp, err := c.dialer.DialContext(ctx, c.cfg.URL, nil)
	if resp != nil {
		resp.Body.Close()
	}
	if err != nil {
		if resp != nil {
			return false, fmt.Errorf("dial feed (HTTP %d): %w", resp.StatusCode, err)
		}
		return false, fmt.Errorf("dial feed: %w", err)
	}
	defer conn.Close()

	metrics.SetFeedConnected(true)
	defer metrics.SetFeedConnected(false)

	if err := c.subscribe(conn); err != nil {
		return false, err
	}

	logging.Info().
		Str("url", c.cfg.URL).
		Msg("Connected to AIS stream")

	// Unblock the pending read when ctx is canceled.
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		if err := conn.SetReadDeadline(time.Now().Add(readTimeout)); err != nil {
			return received, fmt.Errorf("set read deadline: %w", err)
		}

		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return received, ctx.Err()
			}
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				return received, fmt.Errorf("feed closed: %w", err)
			}
			return received, fmt.Errorf("read feed: %w", err)
		}

		received = true
		c.apply(data)
	}
}

// subscribe sends the scoped subscription request.
func (c *LiveClient) subscribe(conn *websocket.Conn) error {
	sub := subscriptionRequest{
		APIKey: c.cfg.APIKey,
		BoundingBoxes: [][][]float64{{
			{c.bounds.MinLat, c.bounds.MinLon},
			{c.bounds.MaxLat, c.bounds.MaxLon},
		}},
		FilterMessageTypes: []string{kindPositionReport, kindShipStaticData},
	}

	data, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("marshal subscription: %w", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return fmt.Errorf("send subscription: %w", err)
	}
	return nil
}

// apply merges one raw frame into the registry. Malformed frames are
// dropped without affecting the connection.
func (c *LiveClient) apply(data []byte) {
	mmsi, patch, kind, err := decodeEnvelope(data)
	if err != nil {
		metrics.RecordFeedMessage(kind, resultDropped)
		logging.Debug().Err(err).Msg("Dropped feed message")
		return
	}

	c.reg.UpsertPartial(mmsi, patch)
	metrics.RecordFeedMessage(kind, resultMerged)
}
