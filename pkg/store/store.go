// Package store persists exported banners.
//
// A saved record carries the PNG artifact plus a compact metadata
// snapshot of the state it was composed from: titles, schedule and
// per-speaker asset flags, never the raw images. Backends cover
// in-process use (memory), CLI use (files) and server deployments
// (MongoDB).
package store

import (
	"context"
)

// Store is the persistence contract shared by all backends.
type Store interface {
	// Save persists a record. Saving an existing ID overwrites it.
	Save(ctx context.Context, rec Record) error

	// Get retrieves a record by ID, including the PNG artifact.
	// Returns a RECORD_NOT_FOUND error when the ID is unknown.
	Get(ctx context.Context, id string) (Record, error)

	// List returns all records newest first, without artifact bytes.
	List(ctx context.Context) ([]Record, error)

	// Delete removes a record. Returns a RECORD_NOT_FOUND error when
	// the ID is unknown.
	Delete(ctx context.Context, id string) error

	// Close releases backend resources.
	Close(ctx context.Context) error
}
