package midi

import (
	"errors"
	"net/http"
)

// Domain errors for MIDI operations.
var (
	ErrAccessDenied  = errors.New("midi access denied")
	ErrUnavailable   = errors.New("midi access has not been granted")
	ErrUnknownDevice = errors.New("midi device not found")
)

// MapHTTPStatus maps MIDI errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrAccessDenied) || errors.Is(err, ErrUnavailable) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrUnknownDevice) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
