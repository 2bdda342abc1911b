package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/cache"
	"github.com/vonderheiden/bannerforge/pkg/export"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
	"github.com/vonderheiden/bannerforge/pkg/preview"
	"github.com/vonderheiden/bannerforge/pkg/render"
	"github.com/vonderheiden/bannerforge/pkg/store"
)

// workspaceOpts configures the composition workspace shared by the compose
// and studio commands.
type workspaceOpts struct {
	customFont string // extra font family to register alongside the built-ins
	noCache    bool   // skip the artifact cache entirely
	cacheDir   string // artifact cache directory; empty means the default
	catalogDir string // file catalog directory; empty disables persistence
}

// workspace bundles the composition stack for a single CLI invocation:
// font library, asset loader, renderer, state store, preview transform,
// artifact cache, optional catalog, and the export runner wired over them.
type workspace struct {
	Fonts    *fonts.Library
	Loader   *assets.Loader
	Renderer *render.Renderer
	Store    *banner.Store
	Registry *render.Registry
	Surface  *render.Surface

	Transform *preview.Transform
	Scaler    *preview.Scaler

	Cache   cache.Cache
	Catalog store.Store
	Runner  *export.Runner
}

// newWorkspace assembles a workspace around the given initial state.
// Close must be called to release the cache and catalog backends.
func newWorkspace(st banner.State, opts workspaceOpts, logger *log.Logger) (*workspace, error) {
	var fontOpts []fonts.Option
	if opts.customFont != "" {
		fontOpts = append(fontOpts, fonts.WithCustomFamily(opts.customFont))
	}
	lib, err := fonts.NewLibrary(logger, fontOpts...)
	if err != nil {
		return nil, fmt.Errorf("load fonts: %w", err)
	}

	loader := assets.NewLoader(nil, logger)
	renderer := render.NewRenderer(lib, loader, logger)

	bs := banner.NewStoreWithState(st, logger)
	registry := render.NewRegistry()
	surface := renderer.Mount(registry, bs)

	transform := preview.NewTransform()
	scaler := preview.NewScaler(transform, logger)

	artifactCache, err := openArtifactCache(opts)
	if err != nil {
		return nil, err
	}

	var catalog store.Store
	if opts.catalogDir != "" {
		catalog, err = store.NewFileStore(opts.catalogDir)
		if err != nil {
			artifactCache.Close()
			return nil, fmt.Errorf("open catalog: %w", err)
		}
	}

	runner := export.NewRunner(export.Deps{
		Registry:  registry,
		Transform: transform,
		Fonts:     lib,
		Assets:    loader,
		Cache:     artifactCache,
		Store:     catalog,
	}, logger)

	return &workspace{
		Fonts:     lib,
		Loader:    loader,
		Renderer:  renderer,
		Store:     bs,
		Registry:  registry,
		Surface:   surface,
		Transform: transform,
		Scaler:    scaler,
		Cache:     artifactCache,
		Catalog:   catalog,
		Runner:    runner,
	}, nil
}

// Close releases the cache and catalog backends.
func (w *workspace) Close(ctx context.Context) {
	if w.Cache != nil {
		_ = w.Cache.Close()
	}
	if w.Catalog != nil {
		_ = w.Catalog.Close(ctx)
	}
}

// openArtifactCache picks the cache backend from the workspace options.
func openArtifactCache(opts workspaceOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	dir := opts.cacheDir
	if dir == "" {
		var err error
		dir, err = cacheDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return c, nil
}

// cacheDir returns the default artifact cache directory under the user
// cache root (e.g., ~/.cache/bannerforge/artifacts on Linux).
func cacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "bannerforge", "artifacts"), nil
}
