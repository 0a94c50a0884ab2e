package proximity

import (
	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/profile"
)

// JitteredLocation is the only positional representation handed to the
// map renderer. It is recomputed on every refresh and never persisted.
type JitteredLocation struct {
	OwnerID           string         `json:"owner_id"`
	DisplayCoordinate geo.Coordinate `json:"display_coordinate"`
	AvatarURL         string         `json:"avatar_url,omitempty"`
}

// Result is one published nearby-traveler set: the profile list for the
// matching UI and the jittered pin list for the map, index-aligned by
// identity.
type Result struct {
	Travelers []profile.TravelerProfile `json:"travelers"`
	Locations []JitteredLocation        `json:"locations"`
}

// Empty returns the fail-soft result published when a refresh cannot
// complete.
func Empty() Result {
	return Result{
		Travelers: []profile.TravelerProfile{},
		Locations: []JitteredLocation{},
	}
}
