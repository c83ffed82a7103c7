// Package handlers provides JSON response helpers shared by HTTP handlers.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/failure"
)

// ErrorResponse is the body written by RespondError.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

// RespondJSON writes data as a JSON body with the given status.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// DecodeJSON decodes the request body into v. A body that does not decode is
// reported as malformed input.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return failure.Input(err, "decode request body", "The request body is not valid JSON for this operation.")
	}
	return nil
}

// RespondError logs err and writes its user-facing message. Tagged errors
// also report their kind.
func RespondError(w http.ResponseWriter, logger *slog.Logger, status int, err error) {
	logger.Error("handler error", "error", err, "status", status)

	resp := ErrorResponse{Error: err.Error()}
	if failure.Tagged(err) {
		kind, message := failure.Describe(err)
		resp = ErrorResponse{Error: message, Kind: string(kind)}
	}
	RespondJSON(w, status, resp)
}
