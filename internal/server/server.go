// Package server exposes banner composition and export over HTTP.
//
// The API accepts a banner document, composes it server-side and
// returns the PNG artifact, alongside read endpoints for the fixed
// dimension and background registries and CRUD on the saved-banner
// catalog. Exports share the single-flight runner, so concurrent
// export requests beyond the first are rejected with 409.
package server

import (
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/cache"
	"github.com/vonderheiden/bannerforge/pkg/export"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
	"github.com/vonderheiden/bannerforge/pkg/preview"
	"github.com/vonderheiden/bannerforge/pkg/render"
	"github.com/vonderheiden/bannerforge/pkg/store"
)

// Deps are the collaborators the server needs. Fonts, Assets and
// Renderer are required; Cache and Catalog are optional.
type Deps struct {
	Fonts    *fonts.Library
	Assets   *assets.Loader
	Renderer *render.Renderer

	Cache   cache.Cache
	Catalog store.Store
}

// Server routes API requests to the compose/export pipeline.
type Server struct {
	router   chi.Router
	deps     Deps
	registry *render.Registry
	runner   *export.Runner
	logger   *log.Logger
}

// New assembles the HTTP server. A nil logger discards output.
func New(deps Deps, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		deps:     deps,
		registry: render.NewRegistry(),
		logger:   logger,
	}
	// The server has no interactive preview; the runner still goes
	// through a transform so capture semantics match the studio.
	s.runner = export.NewRunner(export.Deps{
		Registry:  s.registry,
		Transform: preview.NewTransform(),
		Fonts:     deps.Fonts,
		Assets:    deps.Assets,
		Cache:     deps.Cache,
		Store:     deps.Catalog,
	}, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dimensions", s.handleDimensions)
		r.Get("/backgrounds", s.handleBackgrounds)
		r.Post("/export", s.handleExport)
		r.Route("/banners", func(r chi.Router) {
			r.Get("/", s.handleListBanners)
			r.Get("/{id}", s.handleGetBanner)
			r.Get("/{id}/image", s.handleGetBannerImage)
			r.Delete("/{id}", s.handleDeleteBanner)
		})
	})
	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// mount installs a capture surface for one request's state. The
// export runner's single-flight gate serializes captures, so replacing
// the anchor per request is safe.
func (s *Server) mount(st banner.State) {
	s.registry.Register(render.NewSurface(render.RootAnchor,
		func() banner.State { return st },
		s.deps.Renderer.Compose))
}
