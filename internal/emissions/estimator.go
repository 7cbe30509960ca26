// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package emissions

import (
	"math"

	"github.com/tomtom215/harborwatch/internal/models"
)

// Estimator constants. All vessels are modelled as burning Heavy Fuel Oil.
const (
	FuelTypeHFO = "HFO"

	// SFCGramsPerKWh is the assumed specific fuel consumption.
	SFCGramsPerKWh = 195.0

	// HFOEmissionFactor is kg CO2 per kg of HFO burned.
	HFOEmissionFactor = 3.114

	// MinLoadFactor floors engine load to model hotel power draw at rest.
	MinLoadFactor = 0.05

	operatingHoursPerDay = 24.0
	gramsPerTonne        = 1e6
)

// TierThresholds are the CO2 tonnes/day cutoffs separating the three
// emission tiers. A value above High is HIGH, above Moderate is MODERATE,
// and anything at or below Moderate is LOW.
type TierThresholds struct {
	High     float64
	Moderate float64
}

// DefaultTierThresholds returns the canonical 80/10 t/day cutoffs.
func DefaultTierThresholds() TierThresholds {
	return TierThresholds{High: 80, Moderate: 10}
}

// Valid reports whether the thresholds form a usable partition.
func (t TierThresholds) Valid() bool {
	return t.Moderate > 0 && t.High > t.Moderate
}

// Estimator derives emissions breakdowns from type code and speed.
// Estimation is pure and deterministic; the only state is the tier cutoffs.
type Estimator struct {
	thresholds TierThresholds
}

// NewEstimator creates an estimator with the given tier cutoffs, replacing
// an invalid pair with the defaults.
func NewEstimator(thresholds TierThresholds) *Estimator {
	if !thresholds.Valid() {
		thresholds = DefaultTierThresholds()
	}
	return &Estimator{thresholds: thresholds}
}

// Thresholds returns the active tier cutoffs.
func (e *Estimator) Thresholds() TierThresholds {
	return e.thresholds
}

// Estimate computes the full emissions breakdown for a vessel of the given
// type travelling at the given speed. Negative speeds are clamped to zero
// before the cubic load relation, and speeds above the class design speed
// saturate the load factor at 1.0.
func (e *Estimator) Estimate(typeCode int, speedKnots float64) models.EmissionEstimate {
	spec := LookupSpec(typeCode)

	if speedKnots < 0 {
		speedKnots = 0
	}
	speedRatio := math.Min(speedKnots/spec.DesignSpeedKn, 1.0)

	// Propeller power scales with the cube of the speed ratio.
	loadFactor := math.Max(speedRatio*speedRatio*speedRatio, MinLoadFactor)

	fuelTonnesPerDay := spec.RatedPowerKW * loadFactor * SFCGramsPerKWh * operatingHoursPerDay / gramsPerTonne
	co2TonnesPerDay := fuelTonnesPerDay * HFOEmissionFactor

	tier := e.Classify(co2TonnesPerDay)

	return models.EmissionEstimate{
		EngineRatingKW:         spec.RatedPowerKW,
		LoadFactor:             loadFactor,
		FuelType:               FuelTypeHFO,
		SFCGramsPerKWh:         SFCGramsPerKWh,
		EmissionFactor:         HFOEmissionFactor,
		FuelBurnedTonnesPerDay: fuelTonnesPerDay,
		CO2TonnesPerDay:        co2TonnesPerDay,
		Tier:                   tier,
		TierColor:              tier.Color(),
	}
}

// Classify maps a CO2 tonnes/day figure to its emission tier.
func (e *Estimator) Classify(co2TonnesPerDay float64) models.EmissionTier {
	switch {
	case co2TonnesPerDay > e.thresholds.High:
		return models.TierHigh
	case co2TonnesPerDay > e.thresholds.Moderate:
		return models.TierModerate
	default:
		return models.TierLow
	}
}
