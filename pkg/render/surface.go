package render

import (
	"context"
	"image"
	"sync"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// RootAnchor is the identity under which the composed banner registers
// itself. Exporters locate the surface by anchor rather than holding a
// direct reference, so a remounted preview transparently replaces the
// capture target.
const RootAnchor = "banner-root"

// Surface is a live capture target. It reports the state currently on
// display and can rasterize it at an arbitrary pixel ratio.
type Surface struct {
	anchor    string
	state     func() banner.State
	rasterize func(context.Context, banner.State, float64) (image.Image, error)
}

// NewSurface builds a surface from a state source and a rasterize
// function. Both are consulted on every capture, never cached.
func NewSurface(anchor string, state func() banner.State, rasterize func(context.Context, banner.State, float64) (image.Image, error)) *Surface {
	return &Surface{anchor: anchor, state: state, rasterize: rasterize}
}

// Anchor returns the registry key the surface is mounted under.
func (s *Surface) Anchor() string { return s.anchor }

// State returns the state currently on display.
func (s *Surface) State() banner.State { return s.state() }

// Rasterize renders the current state at the given pixel ratio.
func (s *Surface) Rasterize(ctx context.Context, pixelRatio float64) (image.Image, error) {
	return s.rasterize(ctx, s.state(), pixelRatio)
}

// Registry tracks mounted surfaces by anchor.
type Registry struct {
	mu       sync.RWMutex
	surfaces map[string]*Surface
}

// NewRegistry returns an empty surface registry.
func NewRegistry() *Registry {
	return &Registry{surfaces: make(map[string]*Surface)}
}

// Register mounts a surface, replacing any previous surface with the
// same anchor.
func (r *Registry) Register(s *Surface) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.surfaces[s.anchor] = s
}

// Lookup finds a mounted surface by anchor.
func (r *Registry) Lookup(anchor string) (*Surface, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.surfaces[anchor]
	return s, ok
}

// Remove unmounts the surface registered under anchor, if any.
func (r *Registry) Remove(anchor string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.surfaces, anchor)
}

// Mount registers a surface backed by the live store and this
// renderer under the root anchor.
func (r *Renderer) Mount(reg *Registry, store *banner.Store) *Surface {
	s := NewSurface(RootAnchor, store.Snapshot, r.Compose)
	reg.Register(s)
	return s
}
