package export

import (
	"bytes"
	"context"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/cache"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
	"github.com/vonderheiden/bannerforge/pkg/observability"
	"github.com/vonderheiden/bannerforge/pkg/preview"
	"github.com/vonderheiden/bannerforge/pkg/render"
	"github.com/vonderheiden/bannerforge/pkg/store"
)

// Deps are the collaborators an export runner captures through.
// Registry, Transform, Fonts and Assets are required; Cache, Keyer and
// Store are optional.
type Deps struct {
	Registry  *render.Registry
	Transform *preview.Transform
	Fonts     *fonts.Library
	Assets    *assets.Loader

	Cache cache.Cache
	Keyer cache.Keyer
	Store store.Store
}

// Runner executes export runs one at a time. It is stateless between
// runs except for the phase indicator, so one runner serves all entry
// points.
type Runner struct {
	deps   Deps
	logger *log.Logger

	mu       sync.Mutex
	inFlight bool
	phase    Phase
}

// NewRunner creates a runner. A nil cache disables artifact caching,
// a nil keyer selects the default key scheme, a nil store disables
// persistence.
func NewRunner(deps Deps, logger *log.Logger) *Runner {
	if deps.Cache == nil {
		deps.Cache = cache.NewNullCache()
	}
	if deps.Keyer == nil {
		deps.Keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{deps: deps, logger: logger, phase: PhaseIdle}
}

// Phase reports the current pipeline phase, for progress display.
func (r *Runner) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

func (r *Runner) setPhase(p Phase) {
	r.mu.Lock()
	r.phase = p
	r.mu.Unlock()
}

// acquire claims the single export slot.
func (r *Runner) acquire() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.inFlight {
		return errors.New(errors.ErrCodeExportInFlight, "an export is already running")
	}
	r.inFlight = true
	r.phase = PhaseRequested
	return nil
}

func (r *Runner) release() {
	r.mu.Lock()
	r.inFlight = false
	r.phase = PhaseIdle
	r.mu.Unlock()
}

// Execute runs the complete locate → synchronize → capture → validate
// → persist pipeline. A second call while one is running fails with
// EXPORT_IN_FLIGHT; nothing queues.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	opts.setDefaults()
	if err := r.acquire(); err != nil {
		return nil, err
	}
	defer r.release()

	start := time.Now()
	result, err := r.run(ctx, opts)
	elapsed := time.Since(start)

	label, size := "", 0
	if result != nil {
		label = string(result.State.Dimension.Label)
		size = len(result.PNG)
	}
	observability.Export().OnExportComplete(ctx, label, size, elapsed, err)

	if err != nil {
		r.setPhase(PhaseFailed)
		opts.Logger.Error("export failed", "error", err, "hint", errors.Guidance(err))
		return nil, err
	}
	result.Stats.TotalTime = elapsed
	r.setPhase(PhaseSuccess)
	opts.Logger.Info("export complete",
		"file", result.Filename,
		"bytes", len(result.PNG),
		"cache_hit", result.CacheInfo.ArtifactHit,
		"duration", result.Stats.TotalTime)
	return result, nil
}

func (r *Runner) run(ctx context.Context, opts Options) (*Result, error) {
	// Locate
	r.setPhase(PhaseLocating)
	var surface *render.Surface
	err := r.stage(ctx, "locate", func() error {
		s, ok := r.deps.Registry.Lookup(opts.Anchor)
		if !ok {
			return errors.New(errors.ErrCodeTargetMissing, "no banner mounted at %q", opts.Anchor)
		}
		surface = s
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The metadata snapshot is taken up front; the visual capture
	// naturally reflects whatever the surface paints at capture time.
	st := surface.State()
	d := st.Dimension
	if !d.Valid() {
		d = banner.DefaultDimension()
	}
	result := &Result{State: st}
	// Round the same way the renderer sizes its canvas so fractional
	// pixel ratios validate against the actual artifact.
	result.Stats.Width = int(math.Round(float64(d.Width) * opts.PixelRatio))
	result.Stats.Height = int(math.Round(float64(d.Height) * opts.PixelRatio))

	observability.Export().OnExportStart(ctx, string(d.Label), opts.PixelRatio)

	// Artifact cache consult
	key := r.deps.Keyer.ArtifactKey(cache.StateHash(st), opts.PixelRatio)
	if !opts.Refresh {
		if data, hit, err := r.deps.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCacheHit(ctx, "artifact")
			result.PNG = data
			result.CacheInfo.ArtifactHit = true
		} else {
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	if !result.CacheInfo.ArtifactHit {
		if err := r.capture(ctx, opts, surface, st, result); err != nil {
			return nil, err
		}
	}

	// Validate
	r.setPhase(PhaseValidating)
	err = r.stage(ctx, "validate", func() error {
		return validateArtifact(result.PNG, result.Stats.Width, result.Stats.Height)
	})
	if err != nil {
		return nil, err
	}

	// Write back to the cache after validation so a bad capture is
	// never served to a later run.
	if !result.CacheInfo.ArtifactHit {
		if err := r.deps.Cache.Set(ctx, key, result.PNG, opts.CacheTTL); err != nil {
			opts.Logger.Warn("artifact cache write failed", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "artifact", len(result.PNG))
		}
	}

	// Persist
	r.setPhase(PhasePersisting)
	result.Filename = Filename(d, st.Title, time.Now())
	err = r.stage(ctx, "persist", func() error {
		if opts.OutputDir != "" {
			path, err := writeArtifact(opts.OutputDir, result.Filename, result.PNG)
			if err != nil {
				return errors.Wrap(errors.ErrCodePersistenceFailed, err, "write artifact")
			}
			result.Path = path
		}
		// catalog save is best effort: the user already has the file
		if opts.Persist && r.deps.Store != nil {
			rec := store.NewRecord(st, result.PNG)
			if err := r.deps.Store.Save(ctx, rec); err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Code:    errors.ErrCodePersistenceFailed,
					Message: "banner exported but could not be saved to the catalog",
				})
				opts.Logger.Warn("catalog save failed", "error", err)
			} else {
				result.Record = &rec
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// capture runs synchronize and capture with the display transform held
// at identity. The hold is released on every path out, so the preview
// scale always comes back.
func (r *Runner) capture(ctx context.Context, opts Options, surface *render.Surface, st banner.State, result *Result) error {
	hold, err := r.deps.Transform.Acquire()
	if err != nil {
		return err
	}
	defer hold.Release()

	// Synchronize
	r.setPhase(PhaseSynchronizing)
	syncStart := time.Now()
	err = r.stage(ctx, "synchronize", func() error {
		fontCtx, cancel := context.WithTimeout(ctx, opts.FontTimeout)
		defer cancel()
		if err := r.deps.Fonts.WaitReady(fontCtx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			result.Warnings = append(result.Warnings, Warning{
				Code:    errors.ErrCodeSyncTimeout,
				Message: "fonts were still loading; fallback faces may appear",
			})
			opts.Logger.Warn("font sync timed out, continuing with fallback faces")
		}

		for _, res := range r.deps.Assets.Await(ctx, st.ImageRefs()) {
			if res.Err != nil {
				result.Warnings = append(result.Warnings, Warning{
					Code:    errors.ErrCodeImageLoad,
					Message: "image could not be loaded: " + res.Ref.Source,
				})
			}
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if opts.SettleDelay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(opts.SettleDelay):
			}
		}
		return nil
	})
	result.Stats.SyncTime = time.Since(syncStart)
	if err != nil {
		if ctx.Err() != nil {
			// A cancelled caller is not a sync timeout.
			return ctx.Err()
		}
		return errors.Wrap(errors.ErrCodeSyncTimeout, err, "synchronize")
	}

	// Capture
	r.setPhase(PhaseCapturing)
	captureStart := time.Now()
	err = r.stage(ctx, "capture", func() error {
		img, err := surface.Rasterize(ctx, opts.PixelRatio)
		if err != nil {
			return errors.Wrap(errors.ErrCodeCaptureFailed, err, "rasterize")
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return errors.Wrap(errors.ErrCodeCaptureFailed, err, "encode")
		}
		result.PNG = buf.Bytes()
		return nil
	})
	result.Stats.CaptureTime = time.Since(captureStart)
	return err
}

// stage wraps one pipeline phase with observability events.
func (r *Runner) stage(ctx context.Context, name string, fn func() error) error {
	observability.Export().OnStageStart(ctx, name)
	start := time.Now()
	err := fn()
	observability.Export().OnStageComplete(ctx, name, time.Since(start), err)
	return err
}

// validateArtifact rejects empty blobs and captures whose pixel size
// does not match the requested output exactly.
func validateArtifact(data []byte, wantW, wantH int) error {
	if len(data) == 0 {
		return errors.New(errors.ErrCodeEmptyArtifact, "export produced an empty file")
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(errors.ErrCodeEmptyArtifact, err, "artifact is not a readable PNG")
	}
	if cfg.Width != wantW || cfg.Height != wantH {
		return errors.New(errors.ErrCodeCaptureFailed,
			"artifact is %dx%d, expected %dx%d", cfg.Width, cfg.Height, wantW, wantH)
	}
	return nil
}

// writeArtifact writes the artifact into dir, creating it if needed.
func writeArtifact(dir, filename string, data []byte) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", err
	}
	return path, nil
}
