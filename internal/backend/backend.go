// Package backend defines the snapshot backend abstraction used by btrsnap.
// It provides the Backend interface that the gate, rotator and runner are
// written against, so all of them are testable with a fake.
package backend

import (
	"context"
	"time"
)

type Backend interface {
	// Create takes a snapshot of the subvolume at src and places it at dst.
	Create(ctx context.Context, src, dst string, readOnly bool) error
	// Delete removes the snapshot at path.
	Delete(ctx context.Context, path string) error
	// ModTime reports the modification time of path.
	ModTime(path string) (time.Time, error)
	// Generation reports the change-sequence counter of the subvolume at
	// path. Only called when the policy's staleness method needs it.
	Generation(path string) (uint64, error)
	// IsVolume reports whether path is a subvolume (or a snapshot of one).
	IsVolume(path string) bool
	// Touch advances the modification time of path to the current time.
	Touch(path string) error
	// MkdirAll creates the snapshot directory if it is missing.
	MkdirAll(path string) error
}
