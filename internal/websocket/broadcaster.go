// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package websocket

import (
	"context"
	"time"

	"github.com/tomtom215/harborwatch/internal/metrics"
)

// Broadcaster pushes the full fleet snapshot to every subscriber on a
// fixed interval. Full state every tick is a deliberate tradeoff over
// per-client diffing: the fleet is small and the frames compress well.
//
// Broadcaster implements suture.Service.
type Broadcaster struct {
	hub      *Hub
	interval time.Duration
	snapshot SnapshotFunc
}

// NewBroadcaster creates the periodic snapshot pusher.
func NewBroadcaster(hub *Hub, interval time.Duration, snapshot SnapshotFunc) *Broadcaster {
	return &Broadcaster{
		hub:      hub,
		interval: interval,
		snapshot: snapshot,
	}
}

// String implements suture.Service naming.
func (b *Broadcaster) String() string {
	return "snapshot-broadcaster"
}

// Serve ticks until ctx is canceled.
func (b *Broadcaster) Serve(ctx context.Context) error {
	ticker := time.NewTicker(b.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			start := time.Now()
			b.hub.Broadcast(b.snapshot())
			metrics.BroadcastsTotal.Inc()
			metrics.BroadcastDuration.Observe(time.Since(start).Seconds())
		}
	}
}
