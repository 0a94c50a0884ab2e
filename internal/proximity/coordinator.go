// Package proximity orchestrates one viewer's nearby-traveler queries:
// bounding-box candidate fetch, exact-distance re-check, block
// filtering, profile enrichment and jitter, published as an
// index-aligned Result.
//
// A coordinator holds at most one in-flight fetch. A newer coordinate
// always supersedes an older fetch: the old context is cancelled and
// its result, should it still arrive, is discarded against the
// generation token. A failed fetch publishes an empty result rather
// than an error; retry is the caller's move on the next coordinate
// update.
package proximity

import (
	"context"
	"sync"
	"time"

	"github.com/wandermate/nearby/internal/block"
	"github.com/wandermate/nearby/internal/geo"
	"github.com/wandermate/nearby/internal/identity"
	"github.com/wandermate/nearby/internal/location"
	"github.com/wandermate/nearby/internal/match"
	"github.com/wandermate/nearby/internal/privacy"
	"github.com/wandermate/nearby/internal/profile"
	"github.com/wandermate/nearby/internal/visibility"
	"github.com/wandermate/nearby/pkg/logger"
)

// Deps are the collaborators and knobs one coordinator runs on.
type Deps struct {
	Locations location.Store
	Profiles  profile.Store
	Blocks    block.Store
	Jitterer  *privacy.Jitterer

	// QueryRadiusMeters is the authoritative search radius.
	QueryRadiusMeters float64
	// FetchTimeout caps each collaborator round trip.
	FetchTimeout time.Duration

	Logger logger.Logger

	// OnPublish, when set, is called after every Ready transition with
	// the freshly published result. Called outside the coordinator lock.
	OnPublish func(Result)
}

// Coordinator owns the current result set for one viewer session.
type Coordinator struct {
	viewerID string
	deps     Deps

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	ready  Result
}

// NewCoordinator returns an idle coordinator for the viewer.
func NewCoordinator(viewerID string, deps Deps) *Coordinator {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	if deps.Jitterer == nil {
		deps.Jitterer = privacy.NewJitterer(0)
	}
	return &Coordinator{
		viewerID: identity.Normalize(viewerID),
		deps:     deps,
		ready:    Empty(),
	}
}

// Refresh starts a fetch for the new viewer coordinate, superseding any
// fetch still in flight. It returns immediately; the result lands via
// Snapshot and the OnPublish hook.
func (c *Coordinator) Refresh(center geo.Coordinate) {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
	}
	c.gen++
	gen := c.gen
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.mu.Unlock()

	go c.fetch(ctx, gen, center)
}

// Stop cancels any in-flight fetch.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Snapshot returns the last published result.
func (c *Coordinator) Snapshot() Result {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Filtered re-evaluates the given criteria over the already-published
// result. No fetch happens: criteria changes are a pure read over the
// Ready cache, keeping the two output lists aligned.
func (c *Coordinator) Filtered(criteria match.Criteria) Result {
	ready := c.Snapshot()
	if criteria.IsEmpty() {
		return ready
	}

	kept, indexes := match.Apply(ready.Travelers, criteria)
	locations := make([]JitteredLocation, len(indexes))
	for i, idx := range indexes {
		locations[i] = ready.Locations[idx]
	}
	return Result{Travelers: kept, Locations: locations}
}

// fetch runs one refresh to completion. Cancellation is cooperative:
// the context is checked before every collaborator call and once more
// against the generation token before publishing.
func (c *Coordinator) fetch(ctx context.Context, gen uint64, center geo.Coordinate) {
	result, err := c.assemble(ctx, center)
	if err != nil {
		if ctx.Err() != nil {
			// Superseded; the newer fetch owns the session now.
			return
		}
		c.deps.Logger.Warn("nearby refresh failed, publishing empty result",
			"viewer", c.viewerID, "error", err)
		result = Empty()
	}

	c.publish(gen, result)
}

func (c *Coordinator) assemble(ctx context.Context, center geo.Coordinate) (Result, error) {
	radius := c.deps.QueryRadiusMeters
	box := geo.BoundingBox(center, radius)

	// Candidate fetch: loose box pre-filter against the location store.
	records, err := c.collectRecords(ctx, box)
	if err != nil {
		return Result{}, err
	}

	// Exact-distance re-check discards box corners outside the true
	// radius, and the viewer never sees their own pin.
	coords := make(map[string]geo.Coordinate, len(records))
	candidates := make([]string, 0, len(records))
	for _, record := range records {
		id := identity.Normalize(record.OwnerID)
		if id == c.viewerID {
			continue
		}
		if geo.DistanceMeters(center, record.Coordinate) > radius {
			continue
		}
		coords[id] = record.Coordinate
		candidates = append(candidates, id)
	}

	visible, err := c.visibleCandidates(ctx, candidates)
	if err != nil {
		return Result{}, err
	}

	profiles, err := c.fetchProfiles(ctx, visible)
	if err != nil {
		return Result{}, err
	}

	result := Empty()
	for _, p := range profiles {
		coord, ok := coords[p.ID]
		if !ok {
			continue
		}
		result.Travelers = append(result.Travelers, p)
		result.Locations = append(result.Locations, JitteredLocation{
			OwnerID:           p.ID,
			DisplayCoordinate: c.deps.Jitterer.Displace(coord, p.ID),
			AvatarURL:         p.AvatarURL,
		})
	}

	return result, nil
}

func (c *Coordinator) collectRecords(ctx context.Context, box geo.Bounds) ([]location.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.deps.Locations.Query(fctx, box)
}

func (c *Coordinator) visibleCandidates(ctx context.Context, candidates []string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fctx, cancel := c.callContext(ctx)
	defer cancel()
	return visibility.VisibleCandidates(fctx, c.deps.Blocks, c.viewerID, candidates)
}

func (c *Coordinator) fetchProfiles(ctx context.Context, ids []string) ([]profile.TravelerProfile, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fctx, cancel := c.callContext(ctx)
	defer cancel()
	return c.deps.Profiles.FetchByIDs(fctx, ids)
}

func (c *Coordinator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.deps.FetchTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.deps.FetchTimeout)
}

// publish installs the result as Ready unless a newer generation has
// taken over, in which case the result is dropped on the floor.
func (c *Coordinator) publish(gen uint64, result Result) {
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return
	}
	c.ready = result
	onPublish := c.deps.OnPublish
	c.mu.Unlock()

	if onPublish != nil {
		onPublish(result)
	}
}
