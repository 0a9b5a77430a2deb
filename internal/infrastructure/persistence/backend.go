// Package persistence implements the Store: the sole owner of the persisted
// team snapshot. The Store is an explicit single-writer gate over a Backend
// that loads and saves the snapshot as one whole document - every mutation is
// a full read-modify-write with immediate write-through, atomic per call,
// with at-most-one-writer enforced by the Store's mutex rather than assumed.
package persistence

import (
	"context"
	"errors"
)

// ErrNoSnapshot is returned by Backend.Load when nothing has been stored yet.
// The Store treats it as an empty snapshot with default sections.
var ErrNoSnapshot = errors.New("persistence: no snapshot stored")

// Backend persists the team snapshot as a single document. Implementations
// bind to one storage identifier (file path, postgres URL, redis URL) at
// construction and must replace the whole document on Save - no partial
// writes.
type Backend interface {
	// Load reads the stored snapshot, or ErrNoSnapshot when empty.
	Load(ctx context.Context) (*RawSnapshot, error)

	// Save replaces the stored snapshot with the given document.
	Save(ctx context.Context, doc *RawSnapshot) error

	// Close releases any resources held by the backend.
	Close() error
}

// RawSnapshot is the serialized document a Backend stores.
type RawSnapshot struct {
	// Data is the JSON-encoded team snapshot.
	Data []byte
}
