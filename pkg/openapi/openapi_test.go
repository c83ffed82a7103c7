package openapi_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"slices"
	"testing"

	"github.com/JaimeStill/promptdj/pkg/openapi"
)

func TestNewSpec(t *testing.T) {
	spec := openapi.NewSpec("Test API", "1.0.0")

	if spec.OpenAPI != "3.1.0" {
		t.Errorf("openapi version: got %s, want 3.1.0", spec.OpenAPI)
	}
	if spec.Info.Title != "Test API" || spec.Info.Version != "1.0.0" {
		t.Errorf("info: got %+v", spec.Info)
	}
	if spec.Components == nil || spec.Components.Schemas["Error"] == nil {
		t.Fatal("components should carry the Error schema")
	}
	for _, name := range []string{"BadRequest", "NotFound", "Unprocessable", "ServiceUnavailable"} {
		if spec.Components.Responses[name] == nil {
			t.Errorf("response %s missing", name)
		}
	}
}

func TestAddServerAndDescription(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddServer("/api")
	spec.SetDescription("A test API")

	if len(spec.Servers) != 1 || spec.Servers[0].URL != "/api" {
		t.Errorf("servers: got %+v", spec.Servers)
	}
	if spec.Info.Description != "A test API" {
		t.Errorf("description: got %s", spec.Info.Description)
	}
}

func TestAddOperation(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	get := &openapi.Operation{Summary: "get"}
	put := &openapi.Operation{Summary: "put"}

	spec.AddOperation("GET", "/prompts/{id}", get)
	spec.AddOperation("put", "/prompts/{id}", put)
	spec.AddOperation("PATCH", "/prompts/{id}", &openapi.Operation{Summary: "patch"})

	item := spec.Paths["/prompts/{id}"]
	if item == nil {
		t.Fatal("path item missing")
	}
	if item.Get != get || item.Put != put {
		t.Errorf("item = %+v", item)
	}
	if item.Post != nil || item.Delete != nil {
		t.Errorf("unexpected operations: %+v", item)
	}
}

func TestPathParams(t *testing.T) {
	tests := []struct {
		path string
		want []string
	}{
		{"/prompts", nil},
		{"/prompts/{id}", []string{"id"}},
		{"/presets/{name}/load", []string{"name"}},
		{"/a/{x}/b/{y}", []string{"x", "y"}},
		{"/files/{path...}", []string{"path"}},
		{"/{$}", nil},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := openapi.PathParams(tt.path); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("PathParams(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestHelpers(t *testing.T) {
	if ref := openapi.SchemaRef("Edit"); ref.Ref != "#/components/schemas/Edit" {
		t.Errorf("schema ref: got %s", ref.Ref)
	}
	if ref := openapi.ResponseRef("NotFound"); ref.Ref != "#/components/responses/NotFound" {
		t.Errorf("response ref: got %s", ref.Ref)
	}

	rb := openapi.RequestBodyJSON("Wheel", true)
	if !rb.Required || rb.Content["application/json"].Schema.Ref != "#/components/schemas/Wheel" {
		t.Errorf("request body: got %+v", rb)
	}

	r := openapi.Range("integer", 77, 211)
	if r.Type != "integer" || *r.Minimum != 77 || *r.Maximum != 211 {
		t.Errorf("range: got %+v", r)
	}

	p := openapi.PathParam("name", "Preset name")
	if p.In != "path" || !p.Required || p.Schema.Type != "string" {
		t.Errorf("path param: got %+v", p)
	}
}

func TestConfig(t *testing.T) {
	env := &openapi.ConfigEnv{
		Title:       "TEST_OPENAPI_TITLE",
		Description: "TEST_OPENAPI_DESC",
		Servers:     "TEST_OPENAPI_SERVERS",
	}

	t.Run("defaults", func(t *testing.T) {
		var cfg openapi.Config
		if err := cfg.Finalize(nil); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Title != "PromptDJ API" || cfg.Description == "" || len(cfg.Servers) != 0 {
			t.Errorf("defaults: got %+v", cfg)
		}
	})

	t.Run("env overrides", func(t *testing.T) {
		t.Setenv("TEST_OPENAPI_TITLE", "Booth")
		t.Setenv("TEST_OPENAPI_SERVERS", " http://booth.local:8080/api , ,/proxy/api")

		cfg := openapi.Config{Servers: []string{"http://old/api"}}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Title != "Booth" {
			t.Errorf("title: got %s", cfg.Title)
		}
		want := []string{"http://booth.local:8080/api", "/proxy/api"}
		if !slices.Equal(cfg.Servers, want) {
			t.Errorf("servers: got %v, want %v", cfg.Servers, want)
		}
	})

	t.Run("blank env keeps value", func(t *testing.T) {
		t.Setenv("TEST_OPENAPI_TITLE", "   ")

		cfg := openapi.Config{Title: "Stage"}
		if err := cfg.Finalize(env); err != nil {
			t.Fatalf("Finalize() error = %v", err)
		}
		if cfg.Title != "Stage" {
			t.Errorf("title: got %s, want Stage", cfg.Title)
		}
	})

	t.Run("relative server rejected", func(t *testing.T) {
		cfg := openapi.Config{Servers: []string{"booth.local/api"}}
		if err := cfg.Finalize(nil); err == nil {
			t.Error("expected error for relative server")
		}
	})

	t.Run("merge", func(t *testing.T) {
		cfg := openapi.Config{Title: "Booth", Servers: []string{"/api"}}
		cfg.Merge(&openapi.Config{Description: "overlay"})
		if cfg.Title != "Booth" || cfg.Description != "overlay" || !slices.Equal(cfg.Servers, []string{"/api"}) {
			t.Errorf("merge: got %+v", cfg)
		}

		cfg.Merge(&openapi.Config{Servers: []string{"http://lan:9000/api"}})
		if !slices.Equal(cfg.Servers, []string{"http://lan:9000/api"}) {
			t.Errorf("merge servers: got %v", cfg.Servers)
		}
	})
}

func TestServeSpec(t *testing.T) {
	spec := openapi.NewSpec("Test", "1.0.0")
	spec.AddOperation("GET", "/view", &openapi.Operation{
		Summary:   "view",
		Responses: map[int]*openapi.Response{http.StatusOK: {Description: "OK"}},
	})

	data, err := openapi.MarshalJSON(spec)
	if err != nil {
		t.Fatalf("MarshalJSON() error = %v", err)
	}

	rec := httptest.NewRecorder()
	openapi.ServeSpec(data)(rec, httptest.NewRequest("GET", "/openapi.json", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("status: got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("content type: got %s", ct)
	}

	var decoded map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
		t.Fatalf("body is not JSON: %v", err)
	}
	paths := decoded["paths"].(map[string]any)
	if _, ok := paths["/view"].(map[string]any)["get"]; !ok {
		t.Errorf("GET /view missing: %v", paths)
	}
}
