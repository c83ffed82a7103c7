package handlers_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/promptdj/pkg/failure"
	"github.com/JaimeStill/promptdj/pkg/handlers"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRespondJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	handlers.RespondJSON(rec, http.StatusCreated, map[string]float64{"weight": 0.3})

	if rec.Code != http.StatusCreated {
		t.Errorf("status: got %d, want 201", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content-type: got %s, want application/json", ct)
	}

	var body map[string]float64
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["weight"] != 0.3 {
		t.Errorf("weight: got %v, want 0.3", body["weight"])
	}
}

func TestRespondError(t *testing.T) {
	sentinel := errors.New("midi access denied")

	tests := []struct {
		name      string
		err       error
		wantError string
		wantKind  string
	}{
		{
			name:      "plain error",
			err:       errors.New("invalid input"),
			wantError: "invalid input",
		},
		{
			name:      "tagged error",
			err:       failure.Environment(sentinel, "request midi access", "MIDI is unavailable."),
			wantError: "MIDI is unavailable.",
			wantKind:  string(failure.KindEnvironment),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handlers.RespondError(rec, discard(), http.StatusServiceUnavailable, tt.err)

			if rec.Code != http.StatusServiceUnavailable {
				t.Errorf("status: got %d, want 503", rec.Code)
			}

			var body handlers.ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantError {
				t.Errorf("error: got %q, want %q", body.Error, tt.wantError)
			}
			if body.Kind != tt.wantKind {
				t.Errorf("kind: got %q, want %q", body.Kind, tt.wantKind)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid body", `{"delta":3}`, false},
		{"truncated body", `{"delta":`, true},
		{"empty body", ``, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/wheel", strings.NewReader(tt.body))

			var v struct {
				Delta float64 `json:"delta"`
			}
			err := handlers.DecodeJSON(req, &v)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !failure.Is(err, failure.KindInput) {
					t.Errorf("error not tagged as input: %v", err)
				}
				return
			}
			if v.Delta != 3 {
				t.Errorf("delta = %v, want 3", v.Delta)
			}
		})
	}
}
