// Package export captures the mounted banner into a pixel-exact PNG.
//
// This package implements the complete locate → synchronize → capture
// → validate → persist pipeline used by the CLI, the studio and the
// HTTP API. Centralizing it keeps the capture semantics identical
// across entry points.
//
// # Architecture
//
// An export run walks a fixed set of phases:
//
//  1. Locate: find the capture surface by its registry anchor
//  2. Synchronize: wait for fonts and every referenced image, then
//     let the composition settle
//  3. Capture: rasterize at the requested pixel ratio with the
//     display transform held at identity
//  4. Validate: reject empty or wrongly sized artifacts
//  5. Persist: optional catalog save and file write, both best effort
//
// Only one export may run at a time; a second request while one is in
// flight fails immediately with EXPORT_IN_FLIGHT rather than queueing.
//
// # Usage
//
//	runner := export.NewRunner(export.Deps{
//	    Registry:  registry,
//	    Transform: transform,
//	    Fonts:     fonts,
//	    Assets:    loader,
//	}, logger)
//	result, err := runner.Execute(ctx, export.Options{OutputDir: "."})
package export

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/render"
	"github.com/vonderheiden/bannerforge/pkg/store"
)

// Defaults shared by CLI, studio and API.
const (
	// DefaultPixelRatio doubles the output density so exported text
	// and images stay sharp when platforms rescale them.
	DefaultPixelRatio = 2.0

	// DefaultFontTimeout bounds how long synchronization waits for
	// typefaces. On timeout the export proceeds with fallback faces
	// and records a warning.
	DefaultFontTimeout = 5 * time.Second

	// DefaultSettleDelay is the pause after all assets resolved,
	// giving the composition a stable frame before capture.
	DefaultSettleDelay = 1500 * time.Millisecond
)

// Phase names one step of an export run.
type Phase string

// The export phases, in order. Failed and Success both return the
// runner to Idle.
const (
	PhaseIdle          Phase = "idle"
	PhaseRequested     Phase = "requested"
	PhaseLocating      Phase = "locating"
	PhaseSynchronizing Phase = "synchronizing"
	PhaseCapturing     Phase = "capturing"
	PhaseValidating    Phase = "validating"
	PhasePersisting    Phase = "persisting"
	PhaseSuccess       Phase = "success"
	PhaseFailed        Phase = "failed"
)

// Options configures a single export run.
type Options struct {
	// Anchor locates the capture surface. Empty means the root banner.
	Anchor string `json:"anchor,omitempty"`

	// PixelRatio is the output density multiplier. Zero means the
	// default of 2.
	PixelRatio float64 `json:"pixel_ratio,omitempty"`

	// OutputDir receives the artifact file. Empty skips the file
	// write; the bytes are still returned in the result.
	OutputDir string `json:"output_dir,omitempty"`

	// Persist saves a catalog record after a successful capture.
	// Persistence failures degrade to a warning, never a failed
	// export.
	Persist bool `json:"persist,omitempty"`

	// Refresh bypasses the artifact cache read. The fresh artifact is
	// still written back to the cache.
	Refresh bool `json:"refresh,omitempty"`

	// CacheTTL bounds the artifact cache entry. Zero stores without
	// expiry.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// FontTimeout and SettleDelay override the synchronization
	// defaults. Zero means default; a negative SettleDelay skips the
	// settle pause (used by tests).
	FontTimeout time.Duration `json:"font_timeout,omitempty"`
	SettleDelay time.Duration `json:"settle_delay,omitempty"`

	// Logger for this run. Nil discards output.
	Logger *log.Logger `json:"-"`
}

// setDefaults applies the shared defaults. Idempotent.
func (o *Options) setDefaults() {
	if o.Anchor == "" {
		o.Anchor = render.RootAnchor
	}
	if o.PixelRatio <= 0 {
		o.PixelRatio = DefaultPixelRatio
	}
	if o.FontTimeout == 0 {
		o.FontTimeout = DefaultFontTimeout
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = DefaultSettleDelay
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Warning records a non-fatal problem encountered during an export:
// font sync timeouts, unloadable images, failed persistence.
type Warning struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// Result contains the outputs of an export run.
type Result struct {
	// Filename is the canonical artifact name.
	Filename string

	// Path is the written file location, empty when no OutputDir was
	// given.
	Path string

	// PNG holds the artifact bytes.
	PNG []byte

	// State is the metadata snapshot taken when the export was
	// requested.
	State banner.State

	// Record is the persisted catalog entry, nil unless Persist was
	// set and the save succeeded.
	Record *store.Record

	// Warnings lists the non-fatal problems of this run.
	Warnings []Warning

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks whether the artifact came from cache.
	CacheInfo CacheInfo
}

// Stats contains export execution statistics.
type Stats struct {
	Width       int
	Height      int
	SyncTime    time.Duration
	CaptureTime time.Duration
	TotalTime   time.Duration
}

// CacheInfo tracks cache usage for an export run.
type CacheInfo struct {
	ArtifactHit bool
}
