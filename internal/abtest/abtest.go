// Curbside - Real-Time Parking Discovery and Availability Prediction
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curbside

// Package abtest assigns users to ranking-algorithm variants and tracks
// impression/selection conversion per variant.
//
// Identified users are assigned by FNV-1a hash parity of their user id.
// The hash is explicit and unseeded so the same user lands on the same
// variant across requests and process restarts.
package abtest

import (
	"hash/fnv"
	"math/rand"
	"sync"

	"github.com/tomtom215/curbside/internal/models"
)

// Variant identifies a ranking algorithm under test.
type Variant string

const (
	VariantDistanceOnly Variant = "distance_only"
	VariantMLPowered    Variant = "ml_powered"
	VariantHybrid       Variant = "hybrid"
)

// Variants lists every variant reported in stats. Assignment only ever
// produces the first two; hybrid exists for manually pinned cohorts.
var Variants = []Variant{VariantDistanceOnly, VariantMLPowered, VariantHybrid}

type counters struct {
	impressions int64
	selections  int64
}

// Assigner maps users to variants and accumulates conversion counters.
// All methods are safe for concurrent use.
type Assigner struct {
	mu          sync.Mutex
	assignments map[string]Variant
	// conversions is keyed by user id, then variant.
	conversions map[string]map[Variant]*counters

	// randFn picks the anonymous-user variant; injectable for tests.
	randFn func(n int) int
}

// NewAssigner returns an empty Assigner.
func NewAssigner() *Assigner {
	return &Assigner{
		assignments: make(map[string]Variant),
		conversions: make(map[string]map[Variant]*counters),
		randFn:      rand.Intn,
	}
}

// Assign returns the variant for userID. Anonymous requests (empty id)
// get a uniform random pick between the two live variants on every call
// and are never cached. An identified user's first assignment is derived
// from a stable hash of the id and cached; later calls always return the
// cached value, so the assignment never changes for the process
// lifetime.
func (a *Assigner) Assign(userID string) Variant {
	if userID == "" {
		if a.randFn(2) == 0 {
			return VariantDistanceOnly
		}
		return VariantMLPowered
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if v, ok := a.assignments[userID]; ok {
		return v
	}

	v := variantForUser(userID)
	a.assignments[userID] = v
	return v
}

// variantForUser derives the deterministic assignment: even hash parity
// gets the ML ranker, odd gets distance-only.
func variantForUser(userID string) Variant {
	h := fnv.New64a()
	h.Write([]byte(userID)) //nolint:errcheck // fnv never fails
	if h.Sum64()%2 == 0 {
		return VariantMLPowered
	}
	return VariantDistanceOnly
}

// TrackRecommendation records that len(spotIDs) spots were shown to the
// user under the given variant. Anonymous users are not tracked.
func (a *Assigner) TrackRecommendation(userID string, variant Variant, spotIDs []string) {
	if userID == "" || len(spotIDs) == 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.countersFor(userID, variant).impressions += int64(len(spotIDs))
}

// TrackSelection records that the user picked one recommended spot.
func (a *Assigner) TrackSelection(userID string, variant Variant, spotID string) {
	if userID == "" {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	a.countersFor(userID, variant).selections++
}

// countersFor returns the counter cell for (user, variant), creating it
// if needed. Caller must hold mu.
func (a *Assigner) countersFor(userID string, variant Variant) *counters {
	byVariant, ok := a.conversions[userID]
	if !ok {
		byVariant = make(map[Variant]*counters)
		a.conversions[userID] = byVariant
	}
	c, ok := byVariant[variant]
	if !ok {
		c = &counters{}
		byVariant[variant] = c
	}
	return c
}

// ConversionRate returns total selections divided by total impressions
// for the variant across all users, or 0.0 with no impressions.
func (a *Assigner) ConversionRate(variant Variant) float64 {
	a.mu.Lock()
	defer a.mu.Unlock()

	var impressions, selections int64
	for _, byVariant := range a.conversions {
		if c, ok := byVariant[variant]; ok {
			impressions += c.impressions
			selections += c.selections
		}
	}

	if impressions == 0 {
		return 0.0
	}
	return float64(selections) / float64(impressions)
}

// Stats reports per-variant conversion metrics for every known variant.
func (a *Assigner) Stats() map[Variant]models.VariantStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := make(map[Variant]models.VariantStats, len(Variants))
	for _, v := range Variants {
		var impressions, selections int64
		for _, byVariant := range a.conversions {
			if c, ok := byVariant[v]; ok {
				impressions += c.impressions
				selections += c.selections
			}
		}
		s := models.VariantStats{Impressions: impressions, Selections: selections}
		if impressions > 0 {
			s.ConversionRate = float64(selections) / float64(impressions)
		}
		stats[v] = s
	}
	return stats
}
