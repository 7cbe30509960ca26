// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package feed ingests vessel state into the registry, either from the
// live aisstream.io WebSocket feed or from a synthetic demo fleet.
package feed

import (
	"errors"
	"fmt"
	"strconv"

	json "github.com/goccy/go-json"

	"github.com/tomtom215/harborwatch/internal/models"
)

// Message kinds consumed from the stream. Everything else is ignored at
// the subscription filter.
const (
	kindPositionReport = "PositionReport"
	kindShipStaticData = "ShipStaticData"
)

// Metric label values for feed message outcomes.
const (
	resultMerged  = "merged"
	resultDropped = "dropped"
	kindOther     = "other"
)

// AIS encodes "heading not available" as 511.
const headingUnavailable = 511

// defaultTypeCode stands in when a static report omits the ship type.
const defaultTypeCode = 70

// ErrNoVesselID marks an inbound message without a vessel identifier.
var ErrNoVesselID = errors.New("feed message has no vessel identifier")

// subscriptionRequest is the JSON frame sent on connect to scope the
// stream to a bounding box and the two message kinds we consume.
type subscriptionRequest struct {
	APIKey             string        `json:"APIKey"`
	BoundingBoxes      [][][]float64 `json:"BoundingBoxes"`
	FilterMessageTypes []string      `json:"FilterMessageTypes"`
}

// streamEnvelope is the outer shape of every pushed feed message.
type streamEnvelope struct {
	MessageType string `json:"MessageType"`
	Message     struct {
		PositionReport *positionReport `json:"PositionReport"`
		ShipStaticData *shipStaticData `json:"ShipStaticData"`
	} `json:"Message"`
	MetaData struct {
		MMSI     int64  `json:"MMSI"`
		ShipName string `json:"ShipName"`
	} `json:"MetaData"`
}

type positionReport struct {
	Latitude    float64 `json:"Latitude"`
	Longitude   float64 `json:"Longitude"`
	Sog         float64 `json:"Sog"`
	Cog         float64 `json:"Cog"`
	TrueHeading int     `json:"TrueHeading"`
}

type shipStaticData struct {
	Name      string `json:"Name"`
	Type      int    `json:"Type"`
	ImoNumber int64  `json:"ImoNumber"`
	CallSign  string `json:"CallSign"`
}

// decodeEnvelope parses one raw feed frame into a vessel patch. It returns
// the message kind for instrumentation even when the frame is dropped.
func decodeEnvelope(data []byte) (mmsi int64, patch models.VesselPatch, kind string, err error) {
	var env streamEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, models.VesselPatch{}, kindOther, fmt.Errorf("parse feed message: %w", err)
	}

	kind = kindOther
	switch env.MessageType {
	case kindPositionReport, kindShipStaticData:
		kind = env.MessageType
	}

	if env.MetaData.MMSI == 0 {
		return 0, models.VesselPatch{}, kind, ErrNoVesselID
	}
	mmsi = env.MetaData.MMSI

	switch env.MessageType {
	case kindPositionReport:
		pr := env.Message.PositionReport
		if pr == nil {
			return 0, models.VesselPatch{}, kind, fmt.Errorf("position report frame without payload")
		}
		patch = positionPatch(pr)
	case kindShipStaticData:
		sd := env.Message.ShipStaticData
		if sd == nil {
			return 0, models.VesselPatch{}, kind, fmt.Errorf("static data frame without payload")
		}
		patch = staticPatch(sd)
	default:
		return 0, models.VesselPatch{}, kind, fmt.Errorf("unhandled message kind %q", env.MessageType)
	}

	if name := env.MetaData.ShipName; name != "" && patch.Name == nil {
		patch.Name = models.Ptr(name)
	}

	return mmsi, patch, kind, nil
}

// positionPatch maps a position report to kinematic fields. True heading
// falls back to course over ground when unavailable, then to 0.
func positionPatch(pr *positionReport) models.VesselPatch {
	heading := float64(pr.TrueHeading)
	if pr.TrueHeading >= headingUnavailable || pr.TrueHeading < 0 {
		heading = pr.Cog
	}
	if heading < 0 || heading >= 360 {
		heading = 0
	}

	return models.VesselPatch{
		Latitude:   models.Ptr(pr.Latitude),
		Longitude:  models.Ptr(pr.Longitude),
		SpeedKnots: models.Ptr(pr.Sog),
		Heading:    models.Ptr(heading),
		Course:     models.Ptr(pr.Cog),
	}
}

// staticPatch maps a static data report to identity fields. Zero and
// negative type codes mean the transponder never reported one; both map
// to the general cargo default so the estimate pipeline still runs.
func staticPatch(sd *shipStaticData) models.VesselPatch {
	patch := models.VesselPatch{
		TypeCode: models.Ptr(sd.Type),
	}
	if sd.Type <= 0 {
		patch.TypeCode = models.Ptr(defaultTypeCode)
	}
	if sd.Name != "" {
		patch.Name = models.Ptr(sd.Name)
	}
	if sd.CallSign != "" {
		patch.CallSign = models.Ptr(sd.CallSign)
	}
	if sd.ImoNumber > 0 {
		patch.RegistryNumber = models.Ptr(strconv.FormatInt(sd.ImoNumber, 10))
	}
	return patch
}
