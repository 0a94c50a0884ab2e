// Package privacy derives the displayed coordinate for a traveler from
// their true coordinate. The offset is pseudo-random but seeded from the
// traveler's identity, so their pin stays put between refreshes instead
// of teleporting, while the true position is never shown.
//
// This is obfuscation against casual observation, not a security
// control: anyone who knows the hash function and the identity can
// recover the offset.
package privacy

import (
	"math"

	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/identity"
)

// Jitterer displaces true coordinates by at most RadiusMeters.
type Jitterer struct {
	RadiusMeters float64
}

// NewJitterer returns a Jitterer with the configured maximum offset.
func NewJitterer(radiusMeters float64) *Jitterer {
	return &Jitterer{RadiusMeters: radiusMeters}
}

// Displace returns the display coordinate for id's true position.
// Deterministic: same identity, same true coordinate and same radius
// always produce the same output. The offset magnitude never exceeds
// the configured radius.
func (j *Jitterer) Displace(truth geo.Coordinate, id string) geo.Coordinate {
	return Jitter(truth, id, j.RadiusMeters)
}

// Jitter displaces truth by a bounded offset derived from id.
//
// The identity hash is split into two independent 32-bit seeds: the low
// word drives the bearing, the high word the distance. Distance takes a
// square root so the offsets are uniform over the disk area rather than
// bunched at the center.
func Jitter(truth geo.Coordinate, id string, radiusMeters float64) geo.Coordinate {
	if radiusMeters <= 0 {
		return truth.Clamp()
	}

	h := identity.Hash64(identity.Normalize(id))
	angleSeed := float64(uint32(h)) / float64(1<<32)
	distanceSeed := float64(uint32(h>>32)) / float64(1<<32)

	angle := angleSeed * 2 * math.Pi
	distance := math.Sqrt(distanceSeed) * radiusMeters

	east := math.Sin(angle) * distance
	north := math.Cos(angle) * distance

	out := geo.OffsetByMeters(truth, east, north)

	// The flat meters-per-degree conversion runs slightly long against
	// the great-circle check. Pull the point back inside the radius when
	// it overshoots so the bound holds exactly.
	if d := geo.DistanceMeters(truth, out); d > radiusMeters {
		scale := radiusMeters / d * 0.999
		out = geo.OffsetByMeters(truth, east*scale, north*scale)
	}

	return out
}
