package composition

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/handlers"
	"github.com/JaimeStill/promptdj/pkg/routes"
)

// Handler provides HTTP endpoints for live input and the visual summary.
type Handler struct {
	view   *View
	logger *slog.Logger
}

// WheelRequest carries a wheel delta. Negative deltas scroll up and raise the weight.
type WheelRequest struct {
	Delta float64 `json:"delta"`
}

// WheelResponse reports the weight after a wheel event.
type WheelResponse struct {
	ID     string  `json:"promptId"`
	Weight float64 `json:"weight"`
}

// BPMRequest sets the tempo.
type BPMRequest struct {
	BPM int `json:"bpm"`
}

// AudioLevelRequest carries the measured audio level.
type AudioLevelRequest struct {
	Level float64 `json:"level"`
}

// FilteredRequest replaces the moderated prompt texts.
type FilteredRequest struct {
	Texts []string `json:"texts"`
}

// ViewResponse is the summary together with the moderated texts.
type ViewResponse struct {
	Summary
	Filtered []string `json:"filtered"`
}

// NewHandler creates a Handler for view.
func NewHandler(view *View, logger *slog.Logger) *Handler {
	return &Handler{
		view:   view,
		logger: logger.With("handler", "composition"),
	}
}

// Routes returns the route groups for input and view endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/prompts",
				Routes: []routes.Route{
					{Method: "POST", Pattern: "/{id}/wheel", Handler: h.Wheel},
					{Method: "POST", Pattern: "/{id}/learn", Handler: h.Learn},
				},
			},
			{
				Prefix: "/view",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Get},
					{Method: "PUT", Pattern: "/bpm", Handler: h.SetBPM},
					{Method: "PUT", Pattern: "/audio-level", Handler: h.SetAudioLevel},
					{Method: "PUT", Pattern: "/filtered", Handler: h.SetFiltered},
				},
			},
		},
	}
}

// Wheel applies a wheel delta to a prompt.
func (h *Handler) Wheel(w http.ResponseWriter, r *http.Request) {
	var req WheelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	id := r.PathValue("id")
	value, err := h.view.Wheel(id, req.Delta)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, WheelResponse{ID: id, Weight: value})
}

// Learn arms MIDI learn for a prompt.
func (h *Handler) Learn(w http.ResponseWriter, r *http.Request) {
	if err := h.view.Learn(r.PathValue("id")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

// Get returns the latest summary.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, ViewResponse{
		Summary:  h.view.Summary(),
		Filtered: h.view.Filtered(),
	})
}

// SetBPM sets the tempo, clamped to range, and returns the applied value.
func (h *Handler) SetBPM(w http.ResponseWriter, r *http.Request) {
	var req BPMRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, BPMRequest{BPM: h.view.SetBPM(req.BPM)})
}

// SetAudioLevel feeds the audio level to the surfaces.
func (h *Handler) SetAudioLevel(w http.ResponseWriter, r *http.Request) {
	var req AudioLevelRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.view.SetAudioLevel(req.Level)
	w.WriteHeader(http.StatusNoContent)
}

// SetFiltered replaces the moderated prompt texts.
func (h *Handler) SetFiltered(w http.ResponseWriter, r *http.Request) {
	var req FilteredRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	h.view.SetFiltered(req.Texts)
	w.WriteHeader(http.StatusNoContent)
}
