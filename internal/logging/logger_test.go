// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Level != "info" {
		t.Errorf("expected default level 'info', got '%s'", cfg.Level)
	}
	if cfg.Format != "json" {
		t.Errorf("expected default format 'json', got '%s'", cfg.Format)
	}
	if cfg.Caller {
		t.Error("expected default caller to be false")
	}
	if !cfg.Timestamp {
		t.Error("expected default timestamp to be true")
	}
}

func TestInit(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{
		Level:     "debug",
		Format:    "json",
		Timestamp: true,
		Output:    &buf,
	})

	Info().Msg("adapter started")

	output := buf.String()
	if !strings.Contains(output, "adapter started") {
		t.Errorf("expected output to contain message, got: %s", output)
	}
	if !strings.Contains(output, `"level":"info"`) {
		t.Errorf("expected output to contain level, got: %s", output)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected zerolog.Level
	}{
		{"trace", zerolog.TraceLevel},
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"panic", zerolog.PanicLevel},
		{"disabled", zerolog.Disabled},
		{"ERROR", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.expected {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestStructuredFields(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Output: &buf})

	Info().Int64("mmsi", 367123450).Float64("speed", 12.5).Msg("vessel updated")

	output := buf.String()
	if !strings.Contains(output, `"mmsi":367123450`) {
		t.Errorf("expected mmsi field, got: %s", output)
	}
	if !strings.Contains(output, `"speed":12.5`) {
		t.Errorf("expected speed field, got: %s", output)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "warn", Output: &buf})

	Debug().Msg("suppressed debug")
	Info().Msg("suppressed info")
	Warn().Msg("visible warn")

	output := buf.String()
	if strings.Contains(output, "suppressed") {
		t.Errorf("expected debug/info suppressed at warn level, got: %s", output)
	}
	if !strings.Contains(output, "visible warn") {
		t.Errorf("expected warn message, got: %s", output)
	}
}

func TestRequestIDContext(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Output: &buf})

	ctx := ContextWithRequestID(context.Background(), "req-42")
	if got := RequestIDFromContext(ctx); got != "req-42" {
		t.Fatalf("expected request ID round-trip, got %q", got)
	}

	Ctx(ctx).Info().Msg("with request id")
	if !strings.Contains(buf.String(), `"request_id":"req-42"`) {
		t.Errorf("expected request_id field, got: %s", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "info", Output: &buf})

	logger := WithComponent("feed")
	logger.Info().Msg("adapter started")

	if !strings.Contains(buf.String(), `"component":"feed"`) {
		t.Errorf("expected component field, got: %s", buf.String())
	}
}

func TestRequestIDFromEmptyContext(t *testing.T) {
	t.Parallel()

	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Errorf("expected empty request ID, got %q", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	t.Parallel()

	a := GenerateRequestID()
	b := GenerateRequestID()
	if a == b {
		t.Error("expected distinct request IDs")
	}
	if a == "" {
		t.Error("expected non-empty request ID")
	}
}

func TestNewTestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewTestLogger(&buf)
	logger.Info().Str("k", "v").Msg("captured")

	if !strings.Contains(buf.String(), "captured") {
		t.Errorf("expected captured output, got: %s", buf.String())
	}
}

func TestSlogAdapter(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "debug", Output: &buf})

	slogger := NewSlogLogger()
	slogger.Info("supervisor event", "service", "feed-adapter")

	output := buf.String()
	if !strings.Contains(output, "supervisor event") {
		t.Errorf("expected slog message routed through zerolog, got: %s", output)
	}
	if !strings.Contains(output, `"service":"feed-adapter"`) {
		t.Errorf("expected slog attr as zerolog field, got: %s", output)
	}
}

func TestSlogAdapterLevels(t *testing.T) {
	var buf bytes.Buffer

	Init(Config{Level: "warn", Output: &buf})

	slogger := NewSlogLogger()
	slogger.Info("quiet")
	slogger.Error("loud")

	output := buf.String()
	if strings.Contains(output, "quiet") {
		t.Errorf("expected info suppressed at warn level, got: %s", output)
	}
	if !strings.Contains(output, "loud") {
		t.Errorf("expected error message, got: %s", output)
	}
}
