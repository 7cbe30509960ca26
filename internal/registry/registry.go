// Harborwatch - Port Emissions Telemetry and Live Vessel Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/harborwatch

// Package registry holds the in-memory vessel state. It is the sole shared
// mutable store in the process: the feed adapter writes into it and the
// broadcaster and API read snapshots out of it.
package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/tomtom215/harborwatch/internal/emissions"
	"github.com/tomtom215/harborwatch/internal/metrics"
	"github.com/tomtom215/harborwatch/internal/models"
)

// Registry is a mutex-guarded map of vessel records keyed by MMSI.
// Records are created on first observation and live for the process
// lifetime; there is no eviction or expiry.
type Registry struct {
	mu        sync.RWMutex
	vessels   map[int64]*models.VesselRecord
	order     []int64
	estimator *emissions.Estimator
	homePort  string
	now       func() time.Time
}

// New creates an empty registry. All records are stamped with homePort.
func New(estimator *emissions.Estimator, homePort string) *Registry {
	return &Registry{
		vessels:   make(map[int64]*models.VesselRecord),
		estimator: estimator,
		homePort:  homePort,
		now:       time.Now,
	}
}

// SetClock overrides the timestamp source. Test hook.
func (r *Registry) SetClock(now func() time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// UpsertPartial merges a partial update into the record for id, creating a
// stub on first sight. Nil patch fields leave the existing values
// untouched. Once the vessel's type code is known the emissions breakdown
// is recomputed from the current speed on every merge, so a later position
// report refreshes the estimate too. Returns a copy of the merged record.
func (r *Registry) UpsertPartial(id int64, patch models.VesselPatch) models.VesselRecord {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.vessels[id]
	if !ok {
		rec = &models.VesselRecord{
			MMSI:     id,
			Name:     fmt.Sprintf("Vessel %d", id),
			HomePort: r.homePort,
		}
		r.vessels[id] = rec
		r.order = append(r.order, id)
		metrics.RegistryVessels.Set(float64(len(r.order)))
	}

	if patch.Name != nil && *patch.Name != "" {
		rec.Name = *patch.Name
	}
	if patch.TypeCode != nil {
		rec.TypeCode = *patch.TypeCode
	}
	if patch.RegistryNumber != nil {
		rec.RegistryNumber = *patch.RegistryNumber
	}
	if patch.CallSign != nil {
		rec.CallSign = *patch.CallSign
	}
	if patch.Latitude != nil {
		rec.Latitude = *patch.Latitude
	}
	if patch.Longitude != nil {
		rec.Longitude = *patch.Longitude
	}
	if patch.SpeedKnots != nil {
		rec.SpeedKnots = *patch.SpeedKnots
	}
	if patch.Heading != nil {
		rec.Heading = *patch.Heading
	}
	if patch.Course != nil {
		rec.Course = *patch.Course
	}

	if rec.HasType() {
		est := r.estimator.Estimate(rec.TypeCode, rec.SpeedKnots)
		rec.EmissionEstimate = &est
	}

	rec.LastUpdated = r.now()
	metrics.RegistryMergesTotal.Inc()

	return rec.Clone()
}

// Get returns a copy of the record for id.
func (r *Registry) Get(id int64) (models.VesselRecord, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.vessels[id]
	if !ok {
		return models.VesselRecord{}, false
	}
	return rec.Clone(), true
}

// All returns copies of every record in first-seen insertion order.
// Sorting by any other key is a presentation concern left to clients.
func (r *Registry) All() []models.VesselRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.VesselRecord, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.vessels[id].Clone())
	}
	return out
}

// Size returns the number of tracked vessels.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
