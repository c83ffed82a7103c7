package midi

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/handlers"
	"github.com/JaimeStill/promptdj/pkg/routes"
)

// Handler provides HTTP endpoints for MIDI device selection.
type Handler struct {
	router *Router
	logger *slog.Logger
}

// SelectRequest names the device to make active. An empty id clears the selection.
type SelectRequest struct {
	ID string `json:"id"`
}

// NewHandler creates a Handler for router.
func NewHandler(router *Router, logger *slog.Logger) *Handler {
	return &Handler{
		router: router,
		logger: logger.With("handler", "midi"),
	}
}

// Routes returns the route group for MIDI endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/midi",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/devices", Handler: h.Devices},
			{Method: "PUT", Pattern: "/active", Handler: h.SetActive},
		},
	}
}

// Devices returns MIDI availability, known inputs, and the active device.
func (h *Handler) Devices(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.router.Status())
}

// SetActive switches the active device.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.router.SetActiveDevice(req.ID); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.router.Status())
}
