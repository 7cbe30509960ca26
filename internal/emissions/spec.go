// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package emissions estimates a vessel's fuel burn and CO2 output from its
// AIS ship type and current speed over ground.
package emissions

// VesselSpec is the assumed engine rating and design speed for a vessel
// class. The figures are representative fleet averages, not per-hull data.
type VesselSpec struct {
	Class         string
	RatedPowerKW  float64
	DesignSpeedKn float64
}

// Representative specs per AIS ship-type range.
var (
	specGeneralCargo = VesselSpec{Class: "general_cargo", RatedPowerKW: 8000, DesignSpeedKn: 14}
	specContainer    = VesselSpec{Class: "container", RatedPowerKW: 30000, DesignSpeedKn: 21}
	specTanker       = VesselSpec{Class: "tanker", RatedPowerKW: 12000, DesignSpeedKn: 15}
	specPassenger    = VesselSpec{Class: "passenger", RatedPowerKW: 35000, DesignSpeedKn: 20}
	specService      = VesselSpec{Class: "service", RatedPowerKW: 3000, DesignSpeedKn: 12}
	specFishing      = VesselSpec{Class: "fishing", RatedPowerKW: 1500, DesignSpeedKn: 10}
	specDefault      = VesselSpec{Class: "default", RatedPowerKW: 10000, DesignSpeedKn: 14}
)

// LookupSpec resolves an AIS ship-type code to its class spec. The mapping
// is total: any code outside the documented ranges, including negative
// values, resolves to the default spec.
func LookupSpec(typeCode int) VesselSpec {
	switch {
	case typeCode == 70:
		return specGeneralCargo
	case typeCode >= 71 && typeCode <= 79:
		return specContainer
	case typeCode >= 80 && typeCode <= 89:
		return specTanker
	case typeCode >= 60 && typeCode <= 69:
		return specPassenger
	case typeCode >= 50 && typeCode <= 59:
		return specService
	case typeCode == 30:
		return specFishing
	default:
		return specDefault
	}
}
