// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/models"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func testSnapshot() models.SubscriberMessage {
	return models.NewVesselUpdate([]models.VesselRecord{
		{MMSI: 367000001, Name: "Vessel 367000001"},
		{MMSI: 367000002, Name: "Vessel 367000002"},
	}, true)
}

// setupHub starts a hub and returns it with its cancel func.
func setupHub(t *testing.T, snapshot SnapshotFunc) (*Hub, context.CancelFunc) {
	t.Helper()

	hub := NewHub(snapshot)
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = hub.RunWithContext(ctx) }()
	t.Cleanup(cancel)
	return hub, cancel
}

func waitForClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.GetClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("expected %d clients, got %d", want, hub.GetClientCount())
}

func TestHubRegisterSendsSnapshot(t *testing.T) {
	hub, _ := setupHub(t, testSnapshot)

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	select {
	case frame := <-client.send:
		if frame.Type != models.MessageTypeVesselUpdate {
			t.Errorf("frame type = %s, want vesselUpdate", frame.Type)
		}
		if len(frame.Vessels) != 2 {
			t.Errorf("expected 2 vessels in snapshot, got %d", len(frame.Vessels))
		}
		if !frame.DemoMode {
			t.Error("expected demo flag in snapshot")
		}
	case <-time.After(time.Second):
		t.Fatal("expected immediate snapshot on register, before any broadcast tick")
	}
}

func TestHubRegisterWithoutSnapshotFunc(t *testing.T) {
	hub, _ := setupHub(t, nil)

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	select {
	case frame := <-client.send:
		t.Errorf("expected no frame without snapshot func, got %v", frame.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub, _ := setupHub(t, testSnapshot)

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register <- a
	hub.Register <- b
	waitForClients(t, hub, 2)

	// Drain the connect snapshots.
	<-a.send
	<-b.send

	frame := models.NewVesselUpdate([]models.VesselRecord{{MMSI: 9}}, false)
	hub.Broadcast(frame)

	for _, client := range []*Client{a, b} {
		select {
		case got := <-client.send:
			if len(got.Vessels) != 1 || got.Vessels[0].MMSI != 9 {
				t.Errorf("client %d: unexpected frame %+v", client.ID(), got)
			}
		case <-time.After(time.Second):
			t.Fatalf("client %d: no broadcast frame", client.ID())
		}
	}
}

func TestHubUnregister(t *testing.T) {
	hub, _ := setupHub(t, nil)

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	hub.Unregister <- client
	waitForClients(t, hub, 0)

	if _, ok := <-client.send; ok {
		t.Error("expected send channel closed after unregister")
	}
}

func TestHubDropsSlowClient(t *testing.T) {
	hub := NewHub(nil)

	slow := NewClient(hub, nil)
	hub.clients[slow] = true
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- models.SubscriberMessage{Type: models.MessageTypePing}
	}

	hub.broadcastToClients(testSnapshot())

	if hub.GetClientCount() != 0 {
		t.Errorf("expected slow client dropped, got %d clients", hub.GetClientCount())
	}
}

// TestDroppedClientPongIsNoOp covers the race between the hub dropping a
// slow client and that client's read loop answering a ping: the pong send
// must degrade to a no-op once the hub has closed the send channel, never
// panic the process.
func TestDroppedClientPongIsNoOp(t *testing.T) {
	hub := NewHub(nil)

	slow := NewClient(hub, nil)
	hub.clients[slow] = true
	for i := 0; i < cap(slow.send); i++ {
		slow.send <- models.SubscriberMessage{Type: models.MessageTypePing}
	}

	hub.broadcastToClients(testSnapshot())
	if hub.GetClientCount() != 0 {
		t.Fatalf("expected slow client dropped, got %d clients", hub.GetClientCount())
	}

	// The read loop's pong path after the drop.
	if slow.trySend(models.SubscriberMessage{Type: models.MessageTypePong}) {
		t.Error("expected pong send to report failure on a dropped client")
	}

	// Dropping via Unregister after the broadcast drop must also be safe.
	hub.removeClient(slow)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub(nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)

	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("hub did not stop on cancel")
	}

	if hub.GetClientCount() != 0 {
		t.Errorf("expected all clients closed, got %d", hub.GetClientCount())
	}
}

func TestBroadcasterTicks(t *testing.T) {
	hub, _ := setupHub(t, testSnapshot)

	client := NewClient(hub, nil)
	hub.Register <- client
	waitForClients(t, hub, 1)
	<-client.send // connect snapshot

	b := NewBroadcaster(hub, 20*time.Millisecond, testSnapshot)
	if b.String() != "snapshot-broadcaster" {
		t.Errorf("unexpected service name %q", b.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	go func() { _ = b.Serve(ctx) }()

	got := 0
	timeout := time.After(time.Second)
	for got < 3 {
		select {
		case frame := <-client.send:
			if frame.Type != models.MessageTypeVesselUpdate {
				t.Errorf("frame type = %s", frame.Type)
			}
			got++
		case <-timeout:
			t.Fatalf("expected at least 3 periodic snapshots, got %d", got)
		}
	}
}
