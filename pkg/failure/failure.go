// Package failure tags errors that must reach a person with a kind and a
// readable message. Tagged errors still unwrap to their domain sentinels.
package failure

import (
	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

// Kinds of user-visible failure. None of them are fatal.
const (
	// KindEnvironment marks a capability the host refused or lacks, such as MIDI access.
	KindEnvironment ftag.Kind = ftag.PermissionDenied
	// KindCorrupt marks stored data that could not be decoded and was discarded.
	KindCorrupt ftag.Kind = "CORRUPT_DATA"
	// KindInput marks a malformed request body.
	KindInput ftag.Kind = ftag.InvalidArgument
)

// Environment wraps err as an environment failure with a message for the user.
func Environment(err error, internal, message string) error {
	return fault.Wrap(err, fmsg.WithDesc(internal, message), ftag.With(KindEnvironment))
}

// Corrupt wraps err as a data corruption failure with a message for the user.
func Corrupt(err error, internal, message string) error {
	return fault.Wrap(err, fmsg.WithDesc(internal, message), ftag.With(KindCorrupt))
}

// Input wraps err as malformed input with a message for the user.
func Input(err error, internal, message string) error {
	return fault.Wrap(err, fmsg.WithDesc(internal, message), ftag.With(KindInput))
}

// Describe returns the kind and user-facing message of err. Errors that were
// never tagged report ftag.Internal and their plain error text.
func Describe(err error) (ftag.Kind, string) {
	if err == nil {
		return ftag.None, ""
	}

	kind := ftag.Get(err)
	if kind == ftag.None {
		kind = ftag.Internal
	}

	message := fmsg.GetIssue(err)
	if message == "" {
		message = err.Error()
	}
	return kind, message
}

// Is reports whether err carries kind.
func Is(err error, kind ftag.Kind) bool {
	if err == nil {
		return false
	}
	return ftag.Get(err) == kind
}

// Tagged reports whether err carries any failure kind.
func Tagged(err error) bool {
	return err != nil && ftag.Get(err) != ftag.None
}
