// Package push streams freshly published proximity results to the
// viewer's connected map clients over websockets.
package push

import (
	"context"
	"sync"
	"time"

	"github.com/wandermate/nearby/internal/proximity"
	"github.com/wandermate/nearby/pkg/logger"
)

const (
	// FrameTypeResult carries a refreshed nearby-traveler set.
	FrameTypeResult = "proximity_result"
	FrameTypePing   = "ping"
	FrameTypePong   = "pong"
)

// Frame is the wire envelope sent to map clients.
type Frame struct {
	Type      string            `json:"type"`
	Result    *proximity.Result `json:"result,omitempty"`
	Timestamp int64             `json:"timestamp"`
}

type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	results    chan viewerResult
	ctx        context.Context
	log        logger.Logger
	mu         sync.RWMutex
}

type viewerResult struct {
	viewerID string
	result   proximity.Result
}

func NewHub(ctx context.Context, log logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		results:    make(chan viewerResult, 256),
		ctx:        ctx,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)
		case client := <-h.unregister:
			h.unregisterClient(client)
		case vr := <-h.results:
			h.route(vr)
		case <-h.ctx.Done():
			h.shutdown()
			return
		}
	}
}

// Publish hands a freshly published result to the hub for routing. Safe
// to call from the coordinator's publish path; it never blocks it.
func (h *Hub) Publish(viewerID string, result proximity.Result) {
	select {
	case h.results <- viewerResult{viewerID: viewerID, result: result}:
	default:
		h.log.Warn("push hub backlog full, dropping result", "viewer", viewerID)
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[client] = struct{}{}
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		h.log.Debug("map client disconnected", "conn", client.id, "viewer", client.viewerID)
	}
}

func (h *Hub) route(vr viewerResult) {
	frame := &Frame{
		Type:      FrameTypeResult,
		Result:    &vr.result,
		Timestamp: time.Now().Unix(),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		if client.viewerID != vr.viewerID {
			continue
		}
		select {
		case client.send <- frame:
		default:
			// Slow consumer; drop the connection rather than the hub.
			delete(h.clients, client)
			close(client.send)
		}
	}
}

func (h *Hub) shutdown() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]struct{})
}
