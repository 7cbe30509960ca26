// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package models

// Subscriber message types.
const (
	MessageTypeVesselUpdate = "vesselUpdate"
	MessageTypePing         = "ping"
	MessageTypePong         = "pong"
)

// SubscriberMessage is the frame pushed to dashboard WebSocket clients.
// A vesselUpdate frame always carries the full fleet snapshot.
type SubscriberMessage struct {
	Type     string         `json:"type"`
	Vessels  []VesselRecord `json:"vessels,omitempty"`
	DemoMode bool           `json:"demoMode"`
}

// NewVesselUpdate builds a full-snapshot frame.
func NewVesselUpdate(vessels []VesselRecord, demoMode bool) SubscriberMessage {
	return SubscriberMessage{
		Type:     MessageTypeVesselUpdate,
		Vessels:  vessels,
		DemoMode: demoMode,
	}
}

// HealthStatus is the GET /health response body.
type HealthStatus struct {
	Status      string `json:"status"`
	VesselCount int    `json:"vesselCount"`
	DemoMode    bool   `json:"demoMode"`
}
