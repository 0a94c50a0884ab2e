package push

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wandermate/nearby/internal/identity"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// The CORS layer owns origin policy.
		return true
	},
}

type Handler struct {
	hub *Hub
}

func NewHandler(hub *Hub) *Handler {
	return &Handler{hub: hub}
}

// HandleWebSocket upgrades the connection and subscribes it to the
// viewer's published proximity results.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	viewerID := identity.Normalize(c.Query("viewer_id"))
	if viewerID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "viewer_id required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.hub.log.Error("failed to upgrade connection", "error", err)
		return
	}

	client := NewClient(h.hub, conn, uuid.New().String(), viewerID)
	h.hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
