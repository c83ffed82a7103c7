package prompts

import (
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/handlers"
	"github.com/JaimeStill/promptdj/pkg/routes"
)

// Handler provides HTTP endpoints for the prompt collection and presets.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// SaveRequest names the preset to save from the current collection.
type SaveRequest struct {
	Name string `json:"name"`
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "prompts"),
	}
}

// Routes returns the route groups for prompt and preset endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Children: []routes.Group{
			{
				Prefix: "/prompts",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.List},
					{Method: "GET", Pattern: "/{id}", Handler: h.Find},
					{Method: "PUT", Pattern: "/{id}", Handler: h.Edit},
				},
			},
			{
				Prefix: "/presets",
				Routes: []routes.Route{
					{Method: "GET", Pattern: "", Handler: h.Presets},
					{Method: "POST", Pattern: "", Handler: h.Save},
					{Method: "POST", Pattern: "/{name}/load", Handler: h.LoadPreset},
					{Method: "POST", Pattern: "/{name}/select", Handler: h.Select},
					{Method: "DELETE", Pattern: "/{name}", Handler: h.Delete},
				},
			},
		},
	}
}

// List returns the current collection as an ordered object keyed by prompt id.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Current())
}

// Find returns a single prompt by id.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	prompt, ok := h.sys.Current().Get(r.PathValue("id"))
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusNotFound, ErrUnknownPrompt)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Edit replaces the text, weight, and CC of a prompt. The path id wins over any
// id in the body.
func (h *Handler) Edit(w http.ResponseWriter, r *http.Request) {
	var edit Edit
	if err := handlers.DecodeJSON(r, &edit); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}
	edit.ID = r.PathValue("id")

	if err := h.sys.ApplyEdit(edit); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	prompt, _ := h.sys.Current().Get(edit.ID)
	handlers.RespondJSON(w, http.StatusOK, prompt)
}

// Presets returns the stored preset names and the current selection.
func (h *Handler) Presets(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.ListPresets())
}

// Save stores the current collection under the requested name. A blank name is
// accepted and ignored.
func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var req SaveRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if err := h.sys.SavePreset(r.Context(), req.Name); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, h.sys.ListPresets())
}

// LoadPreset replaces the collection with a stored preset and returns the new collection.
func (h *Handler) LoadPreset(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.LoadPreset(r.Context(), r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.Current())
}

// Select marks a stored preset as the picker selection without loading it.
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	h.sys.SelectPreset(r.PathValue("name"))
	handlers.RespondJSON(w, http.StatusOK, h.sys.ListPresets())
}

// Delete removes a stored preset.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sys.DeletePreset(r.Context(), r.PathValue("name")); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	handlers.RespondJSON(w, http.StatusOK, h.sys.ListPresets())
}
