package ws

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"gitlab.com/meshopt-cloud.net/internal/core/ports/primary"
)

// Handler upgrades browser connections and relays hub events to them
type Handler struct {
	hub    *Hub
	logger primary.Logger
}

func NewHandler(hub *Hub, logger primary.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// RegisterRoutes registers the websocket endpoint
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/ws", h.ServeWS)
}

// ServeWS upgrades the connection and streams push events. The optional
// "job" query parameter scopes delivery to one job.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	var jobFilter *uuid.UUID
	if raw := r.URL.Query().Get("job"); raw != "" {
		jobID, err := uuid.Parse(raw)
		if err != nil {
			http.Error(w, "Invalid job id", http.StatusBadRequest)
			return
		}
		jobFilter = &jobID
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// Single-user demo surface; any origin may subscribe
			return true
		},
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", "error", err)
		return
	}
	defer conn.Close()

	events, cancel := h.hub.Subscribe(jobFilter)
	defer cancel()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case event, ok := <-events:
				if !ok {
					return
				}
				if err := conn.SetWriteDeadline(time.Now().Add(10 * time.Second)); err != nil {
					return
				}
				if err := conn.WriteJSON(event); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
