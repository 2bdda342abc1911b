// Package cache stores composed banner artifacts keyed by content.
//
// An artifact is fully determined by the state it was composed from
// and the pixel ratio, so re-exporting an unchanged banner can reuse
// the cached bytes instead of rasterizing again. Backends cover CLI
// usage (files), server usage (Redis) and disabled caching (null).
package cache

import (
	"context"
	"time"
)

// Cache is the artifact store contract shared by all backends.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was
	// present; expired entries read as absent.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A zero TTL stores it without expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys for composed artifacts.
type Keyer interface {
	// ArtifactKey identifies one rendered output by the hash of the
	// state it was composed from and the capture density.
	ArtifactKey(stateHash string, pixelRatio float64) string
}

// DefaultKeyer is the standard key scheme.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard key scheme.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// ArtifactKey generates a key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(stateHash string, pixelRatio float64) string {
	return hashKey("artifact", stateHash, pixelRatio)
}

// ScopedKeyer wraps a Keyer with a prefix so different sessions or
// users get separate cache namespaces.
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer that prepends prefix to every key.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// ArtifactKey generates a prefixed artifact key.
func (k *ScopedKeyer) ArtifactKey(stateHash string, pixelRatio float64) string {
	return k.prefix + k.inner.ArtifactKey(stateHash, pixelRatio)
}
