// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package feed

import (
	"errors"
	"io"
	"testing"

	"github.com/tomtom215/harborwatch/internal/logging"
)

func init() {
	logging.Init(logging.Config{Level: "disabled", Output: io.Discard})
}

func TestDecodePositionReport(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"MessageType": "PositionReport",
		"Message": {"PositionReport": {
			"Latitude": 40.64, "Longitude": -74.07,
			"Sog": 11.5, "Cog": 187.0, "TrueHeading": 185
		}},
		"MetaData": {"MMSI": 367123450, "ShipName": "HARBOR QUEEN"}
	}`)

	mmsi, patch, kind, err := decodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if kind != kindPositionReport {
		t.Errorf("kind = %s, want PositionReport", kind)
	}
	if mmsi != 367123450 {
		t.Errorf("mmsi = %d, want 367123450", mmsi)
	}
	if *patch.Latitude != 40.64 || *patch.Longitude != -74.07 {
		t.Errorf("position = %v,%v", *patch.Latitude, *patch.Longitude)
	}
	if *patch.SpeedKnots != 11.5 {
		t.Errorf("speed = %v, want 11.5", *patch.SpeedKnots)
	}
	if *patch.Heading != 185 {
		t.Errorf("heading = %v, want true heading 185", *patch.Heading)
	}
	if *patch.Course != 187 {
		t.Errorf("course = %v, want 187", *patch.Course)
	}
	if patch.Name == nil || *patch.Name != "HARBOR QUEEN" {
		t.Errorf("expected metadata ship name applied, got %v", patch.Name)
	}
	if patch.TypeCode != nil {
		t.Error("position report must not set type code")
	}
}

func TestDecodeHeadingFallback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		trueHeading int
		cog         float64
		want        float64
	}{
		{"valid true heading", 90, 180, 90},
		{"unavailable falls back to cog", 511, 222.5, 222.5},
		{"zero true heading is valid", 0, 45, 0},
		{"unavailable and bad cog default zero", 511, 720, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			patch := positionPatch(&positionReport{
				TrueHeading: tt.trueHeading,
				Cog:         tt.cog,
			})
			if *patch.Heading != tt.want {
				t.Errorf("heading = %v, want %v", *patch.Heading, tt.want)
			}
		})
	}
}

func TestDecodeShipStaticData(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"MessageType": "ShipStaticData",
		"Message": {"ShipStaticData": {
			"Name": "EVER FORWARD", "Type": 71,
			"ImoNumber": 9850551, "CallSign": "3EKB4"
		}},
		"MetaData": {"MMSI": 354999000}
	}`)

	mmsi, patch, kind, err := decodeEnvelope(raw)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if kind != kindShipStaticData {
		t.Errorf("kind = %s, want ShipStaticData", kind)
	}
	if mmsi != 354999000 {
		t.Errorf("mmsi = %d", mmsi)
	}
	if *patch.TypeCode != 71 {
		t.Errorf("type = %d, want 71", *patch.TypeCode)
	}
	if *patch.Name != "EVER FORWARD" {
		t.Errorf("name = %q", *patch.Name)
	}
	if *patch.CallSign != "3EKB4" {
		t.Errorf("call sign = %q", *patch.CallSign)
	}
	if *patch.RegistryNumber != "9850551" {
		t.Errorf("registry number = %q", *patch.RegistryNumber)
	}
	if patch.Latitude != nil {
		t.Error("static data must not set position")
	}
}

func TestDecodeStaticDataDefaultsType(t *testing.T) {
	t.Parallel()

	// Absent and negative codes both mean the transponder never reported
	// a type; a stored non-positive code would suppress emission estimates
	// even though static data arrived.
	tests := []struct {
		name    string
		payload string
	}{
		{"absent type", `{"Name": "UNKNOWN TYPE"}`},
		{"negative type", `{"Name": "BAD TRANSPONDER", "Type": -1}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			raw := []byte(`{
				"MessageType": "ShipStaticData",
				"Message": {"ShipStaticData": ` + tt.payload + `},
				"MetaData": {"MMSI": 111111111}
			}`)

			_, patch, _, err := decodeEnvelope(raw)
			if err != nil {
				t.Fatalf("decode failed: %v", err)
			}
			if *patch.TypeCode != defaultTypeCode {
				t.Errorf("type = %d, want baseline %d", *patch.TypeCode, defaultTypeCode)
			}
		})
	}
}

func TestDecodeMissingMMSI(t *testing.T) {
	t.Parallel()

	raw := []byte(`{
		"MessageType": "PositionReport",
		"Message": {"PositionReport": {"Latitude": 40.0, "Longitude": -74.0}},
		"MetaData": {}
	}`)

	_, _, _, err := decodeEnvelope(raw)
	if !errors.Is(err, ErrNoVesselID) {
		t.Errorf("expected ErrNoVesselID, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"garbage", `{{{not json`},
		{"unknown kind", `{"MessageType":"AidsToNavigationReport","MetaData":{"MMSI":1}}`},
		{"position without payload", `{"MessageType":"PositionReport","MetaData":{"MMSI":1}}`},
		{"static without payload", `{"MessageType":"ShipStaticData","MetaData":{"MMSI":1}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if _, _, _, err := decodeEnvelope([]byte(tt.raw)); err == nil {
				t.Error("expected decode error")
			}
		})
	}
}
