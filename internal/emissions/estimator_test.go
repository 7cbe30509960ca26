// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package emissions

import (
	"math"
	"testing"

	"github.com/tomtom215/harborwatch/internal/models"
)

func TestLookupSpec(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		typeCode int
		want     string
	}{
		{"general cargo exact", 70, "general_cargo"},
		{"container low", 71, "container"},
		{"container high", 79, "container"},
		{"tanker low", 80, "tanker"},
		{"tanker high", 89, "tanker"},
		{"passenger low", 60, "passenger"},
		{"passenger high", 69, "passenger"},
		{"service low", 50, "service"},
		{"service high", 59, "service"},
		{"fishing", 30, "fishing"},
		{"unknown zero", 0, "default"},
		{"unknown out of catalog", 999, "default"},
		{"unknown negative", -5, "default"},
		{"boundary below fishing", 29, "default"},
		{"boundary above tanker", 90, "default"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			spec := LookupSpec(tt.typeCode)
			if spec.Class != tt.want {
				t.Errorf("LookupSpec(%d).Class = %s, want %s", tt.typeCode, spec.Class, tt.want)
			}
			if spec.RatedPowerKW <= 0 || spec.DesignSpeedKn <= 0 {
				t.Errorf("LookupSpec(%d) returned non-positive figures: %+v", tt.typeCode, spec)
			}
		})
	}
}

func TestEstimateCargoAtDesignSpeed(t *testing.T) {
	t.Parallel()

	est := NewEstimator(DefaultTierThresholds())
	got := est.Estimate(70, 14)

	if got.EngineRatingKW != 8000 {
		t.Errorf("engine rating = %v, want 8000", got.EngineRatingKW)
	}
	if got.LoadFactor != 1.0 {
		t.Errorf("load factor = %v, want 1.0", got.LoadFactor)
	}

	wantFuel := 8000 * 1.0 * 195 * 24 / 1e6
	if math.Abs(got.FuelBurnedTonnesPerDay-wantFuel) > 1e-9 {
		t.Errorf("fuel = %v, want %v", got.FuelBurnedTonnesPerDay, wantFuel)
	}

	wantCO2 := wantFuel * 3.114
	if math.Abs(got.CO2TonnesPerDay-wantCO2) > 1e-9 {
		t.Errorf("co2 = %v, want %v", got.CO2TonnesPerDay, wantCO2)
	}
	if got.CO2TonnesPerDay < 116 || got.CO2TonnesPerDay > 117 {
		t.Errorf("co2 = %v, want ~116.6", got.CO2TonnesPerDay)
	}
	if got.Tier != models.TierHigh {
		t.Errorf("tier = %s, want HIGH", got.Tier)
	}
	if got.TierColor != models.TierColorHigh {
		t.Errorf("tier color = %s, want %s", got.TierColor, models.TierColorHigh)
	}
}

func TestEstimateUnknownTypeAtRest(t *testing.T) {
	t.Parallel()

	est := NewEstimator(DefaultTierThresholds())
	got := est.Estimate(999, 0)

	if got.EngineRatingKW != 10000 {
		t.Errorf("engine rating = %v, want default 10000", got.EngineRatingKW)
	}
	if got.LoadFactor != MinLoadFactor {
		t.Errorf("load factor = %v, want floor %v", got.LoadFactor, MinLoadFactor)
	}

	wantCO2 := 10000 * 0.05 * 195 * 24 / 1e6 * 3.114
	if math.Abs(got.CO2TonnesPerDay-wantCO2) > 1e-9 {
		t.Errorf("co2 = %v, want %v", got.CO2TonnesPerDay, wantCO2)
	}
	if got.CO2TonnesPerDay < 7.2 || got.CO2TonnesPerDay > 7.4 {
		t.Errorf("co2 = %v, want ~7.28", got.CO2TonnesPerDay)
	}
	if got.Tier != models.TierLow {
		t.Errorf("tier = %s, want LOW", got.Tier)
	}
}

func TestEstimateLoadFactorCurve(t *testing.T) {
	t.Parallel()

	est := NewEstimator(DefaultTierThresholds())

	tests := []struct {
		name  string
		speed float64
		want  float64
	}{
		{"at rest floors", 0, 0.05},
		{"slow floors", 2, 0.05},
		{"half design speed", 7, 0.125},
		{"design speed", 14, 1.0},
		{"over design speed clamps", 50, 1.0},
		{"negative clamps to rest", -3, 0.05},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := est.Estimate(70, tt.speed)
			if math.Abs(got.LoadFactor-tt.want) > 1e-9 {
				t.Errorf("loadFactor(speed=%v) = %v, want %v", tt.speed, got.LoadFactor, tt.want)
			}
		})
	}
}

func TestEstimateDeterministic(t *testing.T) {
	t.Parallel()

	est := NewEstimator(DefaultTierThresholds())
	a := est.Estimate(83, 11.3)
	b := est.Estimate(83, 11.3)
	if a != b {
		t.Errorf("expected identical breakdowns, got %+v vs %+v", a, b)
	}
}

func TestClassifyPartition(t *testing.T) {
	t.Parallel()

	est := NewEstimator(TierThresholds{High: 80, Moderate: 10})

	tests := []struct {
		co2  float64
		want models.EmissionTier
	}{
		{0, models.TierLow},
		{10, models.TierLow},
		{10.01, models.TierModerate},
		{80, models.TierModerate},
		{80.01, models.TierHigh},
		{500, models.TierHigh},
	}

	for _, tt := range tests {
		if got := est.Classify(tt.co2); got != tt.want {
			t.Errorf("Classify(%v) = %s, want %s", tt.co2, got, tt.want)
		}
	}
}

func TestNewEstimatorRejectsInvalidThresholds(t *testing.T) {
	t.Parallel()

	tests := []TierThresholds{
		{High: 10, Moderate: 80},
		{High: 0, Moderate: 0},
		{High: 50, Moderate: -1},
	}

	for _, th := range tests {
		est := NewEstimator(th)
		if est.Thresholds() != DefaultTierThresholds() {
			t.Errorf("expected defaults for invalid thresholds %+v, got %+v", th, est.Thresholds())
		}
	}
}
