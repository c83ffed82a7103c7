package api

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/promptdj/internal/composition"
	"github.com/JaimeStill/promptdj/internal/config"
	"github.com/JaimeStill/promptdj/pkg/openapi"
	"github.com/JaimeStill/promptdj/pkg/routes"
	"github.com/JaimeStill/promptdj/pkg/weight"
)

// SpecPath is where the API module serves its OpenAPI document.
const SpecPath = "/openapi.json"

type operationDoc struct {
	summary string
	status  int
	body    string
}

var operationDocs = map[string]operationDoc{
	"GET /prompts":                {summary: "Current prompt collection in display order"},
	"GET /prompts/{id}":           {summary: "Find one prompt"},
	"PUT /prompts/{id}":           {summary: "Replace text, weight, and cc of a prompt", body: "Edit"},
	"POST /prompts/{id}/wheel":    {summary: "Apply a scroll delta to a prompt's weight", body: "Wheel"},
	"POST /prompts/{id}/learn":    {summary: "Bind the next MIDI control change to a prompt", status: http.StatusAccepted},
	"GET /presets":                {summary: "Preset names and the selected preset"},
	"POST /presets":               {summary: "Save the current collection as a named preset", body: "SavePreset"},
	"POST /presets/{name}/load":   {summary: "Replace the collection with a saved preset"},
	"POST /presets/{name}/select": {summary: "Mark a preset as selected"},
	"DELETE /presets/{name}":      {summary: "Delete a preset"},
	"GET /view":                   {summary: "Composition summary of every layer"},
	"PUT /view/bpm":               {summary: "Set the tempo", body: "BPM"},
	"PUT /view/audio-level":       {summary: "Report the current audio level", status: http.StatusNoContent, body: "AudioLevel"},
	"PUT /view/filtered":          {summary: "Report prompt texts rejected by the engine", status: http.StatusNoContent, body: "Filtered"},
	"GET /midi/devices":           {summary: "MIDI availability, devices, and the active device"},
	"PUT /midi/active":            {summary: "Select the active MIDI input device", body: "SelectDevice"},
	"GET /events":                 {summary: "Server-sent prompts, error, bpm, and midi events"},
}

var bodySchemas = map[string]*openapi.Schema{
	"Edit": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"promptId": {Type: "string"},
			"text":     {Type: "string"},
			"weight":   openapi.Range("number", weight.Min, weight.Max),
			"cc":       openapi.Range("integer", 0, 127),
		},
	},
	"Wheel": {
		Type: "object",
		Properties: map[string]*openapi.Schema{
			"delta": {Type: "number", Description: "Scroll delta; negative scrolls up and raises the weight", Example: -120},
		},
		Required: []string{"delta"},
	},
	"SavePreset": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"name": {Type: "string"}},
		Required:   []string{"name"},
	},
	"BPM": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"bpm": openapi.Range("integer", composition.MinBPM, composition.MaxBPM)},
		Required:   []string{"bpm"},
	},
	"AudioLevel": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"level": {Type: "number", Minimum: new(float64)}},
		Required:   []string{"level"},
	},
	"Filtered": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"texts": {Type: "array", Items: &openapi.Schema{Type: "string"}}},
	},
	"SelectDevice": {
		Type:       "object",
		Properties: map[string]*openapi.Schema{"id": {Type: "string", Description: "Device id; empty clears the selection"}},
	},
}

// BuildSpec describes every route in groups, relative to the API base path.
func BuildSpec(cfg *config.Config, groups []routes.Group) *openapi.Spec {
	spec := openapi.NewSpec(cfg.API.OpenAPI.Title, cfg.Version)
	spec.SetDescription(cfg.API.OpenAPI.Description)
	spec.AddServer(cfg.API.BasePath)
	for _, server := range cfg.API.OpenAPI.Servers {
		spec.AddServer(server)
	}
	spec.Components.AddSchemas(bodySchemas)

	routes.Walk(groups, func(path string, route routes.Route) {
		spec.AddOperation(route.Method, path, describeRoute(route.Method, path))
	})
	return spec
}

func describeRoute(method, path string) *openapi.Operation {
	doc := operationDocs[method+" "+path]
	status := doc.status
	if status == 0 {
		status = http.StatusOK
	}

	op := &openapi.Operation{
		Summary: doc.summary,
		Tags:    []string{tag(path)},
		Responses: map[int]*openapi.Response{
			status: {Description: http.StatusText(status)},
		},
	}

	params := openapi.PathParams(path)
	for _, name := range params {
		op.Parameters = append(op.Parameters, openapi.PathParam(name, ""))
	}
	if len(params) > 0 {
		op.Responses[http.StatusNotFound] = openapi.ResponseRef("NotFound")
	}
	if doc.body != "" {
		op.RequestBody = openapi.RequestBodyJSON(doc.body, true)
		op.Responses[http.StatusBadRequest] = openapi.ResponseRef("BadRequest")
	}
	return op
}

func tag(path string) string {
	segment, _, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	return segment
}
