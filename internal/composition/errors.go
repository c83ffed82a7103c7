package composition

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/promptdj/internal/midi"
	"github.com/JaimeStill/promptdj/internal/prompts"
)

// MapHTTPStatus maps errors from view operations to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, prompts.ErrUnknownPrompt) {
		return prompts.MapHTTPStatus(err)
	}
	if errors.Is(err, midi.ErrUnavailable) || errors.Is(err, midi.ErrAccessDenied) {
		return midi.MapHTTPStatus(err)
	}
	return http.StatusInternalServerError
}
