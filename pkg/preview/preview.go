// Package preview keeps the on-screen banner scaled to its container.
//
// The banner is always composed at its natural dimension; the preview
// applies a uniform display scale so it fits the available viewport.
// Export captures must not inherit that scale, so the transform
// supports an exclusive hold that forces identity and restores the
// previous value on release, whatever path the export takes out.
package preview

import (
	"io"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/errors"
)

// DefaultMargin leaves breathing room around the scaled banner.
const DefaultMargin = 0.85

// Transform is the display scale applied to the mounted banner. The
// scaler is the only steady-state writer; exports take an exclusive
// hold instead of writing directly.
type Transform struct {
	mu      sync.Mutex
	scale   float64
	held    bool
	pending float64 // latest scaler write while held
	dirty   bool
}

// NewTransform starts at identity.
func NewTransform() *Transform {
	return &Transform{scale: 1}
}

// Scale returns the currently applied display scale.
func (t *Transform) Scale() float64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.scale
}

// set applies a new display scale. While a hold is active the value is
// parked and applied on release, so the capture never sees it.
func (t *Transform) set(v float64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held {
		t.pending = v
		t.dirty = true
		return
	}
	t.scale = v
}

// Acquire forces the transform to identity and returns a hold that
// restores it. Only one hold can be active at a time.
func (t *Transform) Acquire() (*Hold, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.held {
		return nil, errors.New(errors.ErrCodeExportInFlight, "display transform already held")
	}
	h := &Hold{t: t, prev: t.scale}
	t.held = true
	t.scale = 1
	return h, nil
}

// Hold is an exclusive identity lease on the transform.
type Hold struct {
	t    *Transform
	prev float64
	once sync.Once
}

// Release restores the pre-hold scale, or the latest value the scaler
// produced while the hold was active. Safe to call more than once.
func (h *Hold) Release() {
	h.once.Do(func() {
		h.t.mu.Lock()
		defer h.t.mu.Unlock()
		h.t.held = false
		if h.t.dirty {
			h.t.scale = h.t.pending
			h.t.dirty = false
		} else {
			h.t.scale = h.prev
		}
	})
}

// Viewport is the measured size of the area the preview must fit.
type Viewport struct {
	Width  int
	Height int
}

// Scaler derives display scales from viewport measurements and writes
// them to the shared transform.
type Scaler struct {
	transform *Transform
	margin    float64
	logger    *log.Logger
}

// NewScaler wires a scaler to the transform. A nil logger discards
// output.
func NewScaler(t *Transform, logger *log.Logger) *Scaler {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Scaler{transform: t, margin: DefaultMargin, logger: logger}
}

// Fit computes the scale that fits the dimension inside the viewport,
// applies it to the transform, and returns it. An unmeasured viewport
// yields identity so the first paint is never blank. The banner is
// only ever scaled down.
func (s *Scaler) Fit(view Viewport, d banner.Dimension) float64 {
	scale := 1.0
	if view.Width > 0 && view.Height > 0 && d.Width > 0 && d.Height > 0 {
		sx := float64(view.Width) / float64(d.Width)
		sy := float64(view.Height) / float64(d.Height)
		scale = min(sx, sy) * s.margin
		if scale > 1 {
			scale = 1
		}
	}
	s.transform.set(scale)
	s.logger.Debug("preview scaled",
		"viewport_w", view.Width, "viewport_h", view.Height,
		"dimension", d.Label, "scale", scale)
	return scale
}
