package host

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/handlers"
	"github.com/JaimeStill/promptdj/pkg/routes"
)

// Handler streams hub events to HTTP clients.
type Handler struct {
	hub    *Hub
	logger *slog.Logger
}

// NewHandler creates a Handler for hub.
func NewHandler(hub *Hub, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger.With("handler", "events"),
	}
}

// Routes returns the route group for the event stream.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/events",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.Stream},
		},
	}
}

// Stream writes events as Server-Sent Events until the client disconnects.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, fmt.Errorf("streaming not supported"))
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	events, cancel := h.hub.Subscribe()
	defer cancel()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Name, event.Data); err != nil {
				h.logger.Debug("event stream write failed", "error", err)
				return
			}
			flusher.Flush()
		}
	}
}
