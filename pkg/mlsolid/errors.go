// Package mlsolid is the Go client SDK for the mlsolid experiment
// tracking server: open a run inside an experiment, log metrics and stage
// artifacts while it executes, commit everything on close, and download
// artifacts or tagged models back to local storage.
package mlsolid

import (
	"github.com/zeddo123/mlsolid-go/internal/messages"
	"github.com/zeddo123/mlsolid-go/internal/serviceerrors"
)

// Every remote failure the SDK surfaces is classified from the server's
// reported status into exactly one of bad request, not found, or internal
// error. Local failures (an unreadable staged file, a destination path
// colliding with an existing file) are none of these; they are never
// reclassified.

// IsBadRequest returns true for invalid-argument and already-exists
// failures.
func IsBadRequest(err error) bool {
	return serviceerrors.KindOf(err) == messages.KindBadRequest
}

// IsNotFound returns true for not-found failures.
func IsNotFound(err error) bool {
	return serviceerrors.KindOf(err) == messages.KindNotFound
}

// IsInternal returns true for internal and otherwise unclassified remote
// failures.
func IsInternal(err error) bool {
	return serviceerrors.KindOf(err) == messages.KindInternal
}
