package routes_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/JaimeStill/promptdj/pkg/routes"
)

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body + ":" + r.PathValue("id")))
	}
}

func TestRegister(t *testing.T) {
	mux := http.NewServeMux()

	routes.Register(
		mux,
		routes.Group{
			Prefix: "/prompts",
			Routes: []routes.Route{
				{Method: "GET", Pattern: "", Handler: respond("list")},
				{Method: "GET", Pattern: "/{id}", Handler: respond("find")},
			},
		},
		routes.Group{
			Children: []routes.Group{
				{
					Prefix: "/prompts",
					Routes: []routes.Route{
						{Method: "POST", Pattern: "/{id}/wheel", Handler: respond("wheel")},
					},
				},
				{
					Prefix: "/view",
					Routes: []routes.Route{
						{Method: "PUT", Pattern: "/bpm", Handler: respond("bpm")},
					},
					Children: []routes.Group{
						{Prefix: "/nested", Routes: []routes.Route{{Method: "GET", Pattern: "", Handler: respond("nested")}}},
					},
				},
			},
		},
	)

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{"GET", "/prompts", http.StatusOK, "list:"},
		{"GET", "/prompts/prompt-1", http.StatusOK, "find:prompt-1"},
		{"POST", "/prompts/prompt-2/wheel", http.StatusOK, "wheel:prompt-2"},
		{"PUT", "/view/bpm", http.StatusOK, "bpm:"},
		{"GET", "/view/nested", http.StatusOK, "nested:"},
		{"DELETE", "/prompts/prompt-1", http.StatusMethodNotAllowed, ""},
		{"GET", "/missing", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))

			if rec.Code != tt.status {
				t.Errorf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.body != "" && rec.Body.String() != tt.body {
				t.Errorf("body: got %q, want %q", rec.Body.String(), tt.body)
			}
		})
	}
}

func TestWalk(t *testing.T) {
	groups := []routes.Group{
		{
			Children: []routes.Group{
				{Prefix: "/prompts", Routes: []routes.Route{{Method: "GET", Pattern: ""}}},
				{
					Prefix: "/presets",
					Routes: []routes.Route{{Method: "POST", Pattern: "/{name}/load"}},
					Children: []routes.Group{
						{Prefix: "/archive", Routes: []routes.Route{{Method: "DELETE", Pattern: "/{name}"}}},
					},
				},
			},
		},
		{Prefix: "/events", Routes: []routes.Route{{Method: "GET", Pattern: ""}}},
	}

	var got []string
	routes.Walk(groups, func(path string, route routes.Route) {
		got = append(got, route.Method+" "+path)
	})

	want := []string{
		"GET /prompts",
		"POST /presets/{name}/load",
		"DELETE /presets/archive/{name}",
		"GET /events",
	}
	if len(got) != len(want) {
		t.Fatalf("walked %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("route %d: got %s, want %s", i, got[i], want[i])
		}
	}
}
