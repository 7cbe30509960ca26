// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

package feed

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/tomtom215/harborwatch/internal/config"
	"github.com/tomtom215/harborwatch/internal/logging"
	"github.com/tomtom215/harborwatch/internal/models"
	"github.com/tomtom215/harborwatch/internal/registry"
)

// demoTypeCatalog is the pool of AIS ship types assigned to synthetic
// vessels. It spans every vessel class the estimator distinguishes.
var demoTypeCatalog = []int{30, 52, 60, 70, 71, 74, 80, 84}

// Synthetic MMSIs use the US maritime prefix range.
const demoMMSIBase = 367_000_000

// Speed perturbation: roughly one tick in ten nudges a vessel's speed by
// up to this many knots in either direction.
const (
	speedJitterProbability = 0.1
	speedJitterMaxKn       = 1.5
)

// Simulator synthesizes a bounded fleet and advances it on a fixed tick.
// All vessel state lives in the registry; the simulator only remembers
// which MMSIs it owns.
type Simulator struct {
	cfg    config.DemoConfig
	bounds config.BoundsConfig
	reg    *registry.Registry
	rng    *rand.Rand
	fleet  []int64
}

// NewSimulator creates an unseeded simulator.
func NewSimulator(cfg config.DemoConfig, bounds config.BoundsConfig, reg *registry.Registry) *Simulator {
	return &Simulator{
		cfg:    cfg,
		bounds: bounds,
		reg:    reg,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Seed registers the synthetic fleet: randomized identifiers, types from
// the catalog, positions inside the bounding box, speeds within the
// configured range, and random headings. Emissions are attached
// immediately since every synthetic vessel has a known type. Seeding is
// idempotent; a restart reuses the existing fleet.
func (s *Simulator) Seed() {
	if len(s.fleet) > 0 {
		return
	}

	seen := make(map[int64]struct{}, s.cfg.FleetSize)
	for len(s.fleet) < s.cfg.FleetSize {
		mmsi := demoMMSIBase + int64(s.rng.Intn(1_000_000))
		if _, dup := seen[mmsi]; dup {
			continue
		}
		seen[mmsi] = struct{}{}

		s.reg.UpsertPartial(mmsi, models.VesselPatch{
			TypeCode:   models.Ptr(demoTypeCatalog[s.rng.Intn(len(demoTypeCatalog))]),
			Latitude:   models.Ptr(s.uniform(s.bounds.MinLat, s.bounds.MaxLat)),
			Longitude:  models.Ptr(s.uniform(s.bounds.MinLon, s.bounds.MaxLon)),
			SpeedKnots: models.Ptr(s.uniform(s.cfg.MinSpeedKn, s.cfg.MaxSpeedKn)),
			Heading:    models.Ptr(float64(s.rng.Intn(360))),
		})
		s.fleet = append(s.fleet, mmsi)
	}

	logging.Info().
		Int("fleet_size", len(s.fleet)).
		Msg("Demo fleet seeded")
}

// Run seeds the fleet and advances it until ctx is canceled.
func (s *Simulator) Run(ctx context.Context) error {
	s.Seed()

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.Tick(s.cfg.TickInterval)
		}
	}
}

// Tick advances every vessel by the elapsed interval.
func (s *Simulator) Tick(elapsed time.Duration) {
	for _, mmsi := range s.fleet {
		rec, ok := s.reg.Get(mmsi)
		if !ok {
			continue
		}
		s.reg.UpsertPartial(mmsi, s.advance(&rec, elapsed))
	}
}

// advance computes the next kinematic patch for one vessel: dead-reckon
// along the heading on a flat-earth approximation, reflect the heading
// off any crossed bounding-box edge, and occasionally jitter the speed.
func (s *Simulator) advance(rec *models.VesselRecord, elapsed time.Duration) models.VesselPatch {
	distNm := rec.SpeedKnots * elapsed.Hours()
	headingRad := rec.Heading * math.Pi / 180

	// One nautical mile is one arc-minute of latitude.
	lat := rec.Latitude + distNm/60*math.Cos(headingRad)
	lon := rec.Longitude + distNm/60*math.Sin(headingRad)/math.Cos(rec.Latitude*math.Pi/180)
	heading := rec.Heading

	if lat > s.bounds.MaxLat || lat < s.bounds.MinLat {
		heading = 180 - heading
		lat = clamp(lat, s.bounds.MinLat, s.bounds.MaxLat)
	}
	if lon > s.bounds.MaxLon || lon < s.bounds.MinLon {
		heading = 360 - heading
		lon = clamp(lon, s.bounds.MinLon, s.bounds.MaxLon)
	}
	heading = math.Mod(heading+360, 360)

	patch := models.VesselPatch{
		Latitude:  models.Ptr(lat),
		Longitude: models.Ptr(lon),
		Heading:   models.Ptr(heading),
		Course:    models.Ptr(heading),
	}

	if s.rng.Float64() < speedJitterProbability {
		speed := rec.SpeedKnots + (s.rng.Float64()*2-1)*speedJitterMaxKn
		patch.SpeedKnots = models.Ptr(clamp(speed, s.cfg.MinSpeedKn, s.cfg.MaxSpeedKn))
	}

	return patch
}

// uniform samples uniformly from [lo, hi).
func (s *Simulator) uniform(lo, hi float64) float64 {
	return lo + s.rng.Float64()*(hi-lo)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
