// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package models defines the vessel domain types shared across the feed,
// registry, API, and broadcast layers.
package models

import "time"

// EmissionTier classifies a vessel's estimated CO2 output.
type EmissionTier string

const (
	TierLow      EmissionTier = "LOW"
	TierModerate EmissionTier = "MODERATE"
	TierHigh     EmissionTier = "HIGH"
)

// Tier colors used by map clients. Hex values match the dashboard palette.
const (
	TierColorLow      = "#2ecc71"
	TierColorModerate = "#f39c12"
	TierColorHigh     = "#e74c3c"
)

// Color returns the display color for the tier.
func (t EmissionTier) Color() string {
	switch t {
	case TierHigh:
		return TierColorHigh
	case TierModerate:
		return TierColorModerate
	default:
		return TierColorLow
	}
}

// EmissionEstimate holds the derived emissions figures for a vessel.
// It is nil on a VesselRecord until the vessel's type code is known.
// Every intermediate quantity is exposed so the dashboard can render the
// full calculation trail.
type EmissionEstimate struct {
	EngineRatingKW float64 `json:"engineRatingKW"`
	LoadFactor     float64 `json:"loadFactor"`
	FuelType       string  `json:"fuelType"`
	SFCGramsPerKWh float64 `json:"sfcGramsPerKWh"`
	// EmissionFactor is kg CO2 emitted per kg of fuel burned.
	EmissionFactor         float64      `json:"emissionFactor"`
	FuelBurnedTonnesPerDay float64      `json:"fuelBurnedTonnesPerDay"`
	CO2TonnesPerDay        float64      `json:"co2TonnesPerDay"`
	Tier                   EmissionTier `json:"emissionTier"`
	TierColor              string       `json:"tierColor"`
}

// VesselRecord is the merged, current-state view of one vessel.
// The embedded EmissionEstimate is flattened into the JSON object when
// present and omitted entirely while the type code is still unknown.
type VesselRecord struct {
	MMSI     int64  `json:"id"`
	Name     string `json:"name"`
	TypeCode int    `json:"typeCode"`
	// RegistryNumber is the IMO number when static data has supplied one.
	RegistryNumber string  `json:"registryNumber,omitempty"`
	CallSign       string  `json:"callSign,omitempty"`
	HomePort       string  `json:"homePort,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	SpeedKnots     float64 `json:"speed"`
	Heading        float64 `json:"heading"`
	Course         float64 `json:"course"`

	*EmissionEstimate

	LastUpdated time.Time `json:"lastUpdated"`
}

// HasType reports whether static data has identified the vessel type.
// AIS uses type code 0 for "not available".
func (v *VesselRecord) HasType() bool {
	return v.TypeCode > 0
}

// Clone returns a deep copy of the record.
func (v *VesselRecord) Clone() VesselRecord {
	out := *v
	if v.EmissionEstimate != nil {
		est := *v.EmissionEstimate
		out.EmissionEstimate = &est
	}
	return out
}

// VesselPatch carries a partial update for one vessel. Nil fields are
// left untouched by the merge; a position report and a static data
// report each populate a disjoint subset.
type VesselPatch struct {
	Name           *string
	TypeCode       *int
	RegistryNumber *string
	CallSign       *string
	Latitude       *float64
	Longitude      *float64
	SpeedKnots     *float64
	Heading        *float64
	Course         *float64
}

// IsEmpty reports whether the patch sets no fields.
func (p *VesselPatch) IsEmpty() bool {
	return p.Name == nil && p.TypeCode == nil && p.RegistryNumber == nil &&
		p.CallSign == nil && p.Latitude == nil && p.Longitude == nil &&
		p.SpeedKnots == nil && p.Heading == nil && p.Course == nil
}

// Ptr returns a pointer to v. Convenience for building patches.
func Ptr[T any](v T) *T {
	return &v
}
