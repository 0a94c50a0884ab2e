// Package visibility removes blocked relationships from a candidate
// set. A block hides both parties from each other no matter which side
// issued it, so the filter unions the two directional queries.
//
// Every membership test runs on normalized identities. A normalization
// mismatch here does not crash anything — it silently puts a blocked
// user back on someone's map, which is why this package normalizes
// rather than trusting its callers to.
package visibility

import (
	"context"

	"github.com/wandermate/nearby/internal/block"
	"github.com/wandermate/nearby/internal/identity"
)

// VisibleCandidates returns the candidates the viewer is allowed to
// see, preserving input order. A candidate is removed when either party
// has blocked the other.
func VisibleCandidates(ctx context.Context, blocks block.Store, viewer string, candidates []string) ([]string, error) {
	viewer = identity.Normalize(viewer)

	blocked, err := blocks.BlockedBy(ctx, viewer)
	if err != nil {
		return nil, err
	}
	blockers, err := blocks.BlockerOf(ctx, viewer)
	if err != nil {
		return nil, err
	}

	visible := make([]string, 0, len(candidates))
	for _, candidate := range candidates {
		id := identity.Normalize(candidate)
		if _, gone := blocked[id]; gone {
			continue
		}
		if _, gone := blockers[id]; gone {
			continue
		}
		visible = append(visible, id)
	}

	return visible, nil
}
