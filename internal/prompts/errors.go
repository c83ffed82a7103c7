package prompts

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/promptdj/pkg/storage"
)

// Domain errors for prompt and preset operations.
var (
	ErrUnknownPrompt = errors.New("prompt not found")
	ErrCorruptPreset = errors.New("preset data is corrupt")
	ErrCorruptStore  = errors.New("stored presets are corrupt")
)

// MapHTTPStatus maps prompt domain errors to HTTP status codes. Anything
// else is classified by the preset store.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrUnknownPrompt) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrCorruptPreset) || errors.Is(err, ErrCorruptStore) {
		return http.StatusUnprocessableEntity
	}
	return storage.MapHTTPStatus(err)
}
