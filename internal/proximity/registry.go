package proximity

import (
	"sync"

	"github.com/wandermate/nearby/internal/identity"
)

// Registry hands out one coordinator per viewer session.
type Registry struct {
	mu     sync.Mutex
	coords map[string]*Coordinator
	deps   Deps

	// onPublish receives the viewer id alongside each published result
	// so the push layer can route it to the right connections.
	onPublish func(viewerID string, result Result)
}

func NewRegistry(deps Deps, onPublish func(viewerID string, result Result)) *Registry {
	return &Registry{
		coords:    make(map[string]*Coordinator),
		deps:      deps,
		onPublish: onPublish,
	}
}

// Coordinator returns the viewer's coordinator, creating it on first use.
func (r *Registry) Coordinator(viewerID string) *Coordinator {
	viewerID = identity.Normalize(viewerID)

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.coords[viewerID]; ok {
		return c
	}

	deps := r.deps
	if r.onPublish != nil {
		id := viewerID
		deps.OnPublish = func(result Result) {
			r.onPublish(id, result)
		}
	}

	c := NewCoordinator(viewerID, deps)
	r.coords[viewerID] = c
	return c
}

// Drop stops and forgets the viewer's coordinator.
func (r *Registry) Drop(viewerID string) {
	viewerID = identity.Normalize(viewerID)

	r.mu.Lock()
	c, ok := r.coords[viewerID]
	delete(r.coords, viewerID)
	r.mu.Unlock()

	if ok {
		c.Stop()
	}
}

// StopAll cancels every in-flight fetch; used on shutdown.
func (r *Registry) StopAll() {
	r.mu.Lock()
	coords := make([]*Coordinator, 0, len(r.coords))
	for _, c := range r.coords {
		coords = append(coords, c)
	}
	r.mu.Unlock()

	for _, c := range coords {
		c.Stop()
	}
}
