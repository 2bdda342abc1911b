package export

import (
	"bytes"
	"context"
	stderrors "errors"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/cache"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
	"github.com/vonderheiden/bannerforge/pkg/preview"
	"github.com/vonderheiden/bannerforge/pkg/render"
	storepkg "github.com/vonderheiden/bannerforge/pkg/store"
)

type testEnv struct {
	registry  *render.Registry
	transform *preview.Transform
	scaler    *preview.Scaler
	banner    *banner.Store
	catalog   *storepkg.MemoryStore
	runner    *Runner
}

func newTestEnv(t *testing.T, artifacts cache.Cache) *testEnv {
	t.Helper()
	lib, err := fonts.NewLibrary(nil)
	if err != nil {
		t.Fatalf("font library: %v", err)
	}
	loader := assets.NewLoader(nil, nil)
	renderer := render.NewRenderer(lib, loader, nil)

	env := &testEnv{
		registry:  render.NewRegistry(),
		transform: preview.NewTransform(),
		banner:    banner.NewStore(nil),
		catalog:   storepkg.NewMemoryStore(),
	}
	env.scaler = preview.NewScaler(env.transform, nil)
	renderer.Mount(env.registry, env.banner)
	env.runner = NewRunner(Deps{
		Registry:  env.registry,
		Transform: env.transform,
		Fonts:     lib,
		Assets:    loader,
		Cache:     artifacts,
		Store:     env.catalog,
	}, log.NewWithOptions(io.Discard, log.Options{}))
	return env
}

// fastOptions skips the settle pause so tests stay quick.
func fastOptions() Options {
	return Options{SettleDelay: -1}
}

func TestExecuteProducesExactPixelArtifact(t *testing.T) {
	env := newTestEnv(t, nil)
	dir := t.TempDir()
	opts := fastOptions()
	opts.OutputDir = dir

	// a shrunken preview must not leak into the export
	env.scaler.Fit(preview.Viewport{Width: 400, Height: 300}, env.banner.Snapshot().Dimension)

	res, err := env.runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 2400 || cfg.Height != 1254 {
		t.Errorf("artifact is %dx%d, want 2400x1254", cfg.Width, cfg.Height)
	}
	if res.Stats.Width != 2400 || res.Stats.Height != 1254 {
		t.Errorf("stats %dx%d", res.Stats.Width, res.Stats.Height)
	}
	if res.Path != filepath.Join(dir, res.Filename) {
		t.Errorf("path %q does not match filename %q", res.Path, res.Filename)
	}
	if _, err := os.Stat(res.Path); err != nil {
		t.Errorf("artifact file missing: %v", err)
	}
}

func TestExecuteRestoresDisplayScale(t *testing.T) {
	env := newTestEnv(t, nil)
	env.scaler.Fit(preview.Viewport{Width: 400, Height: 300}, env.banner.Snapshot().Dimension)
	before := env.transform.Scale()

	if _, err := env.runner.Execute(context.Background(), fastOptions()); err != nil {
		t.Fatal(err)
	}
	if got := env.transform.Scale(); got != before {
		t.Errorf("scale after export = %f, want %f", got, before)
	}
}

func TestExecuteRestoresScaleOnFailure(t *testing.T) {
	env := newTestEnv(t, nil)
	env.scaler.Fit(preview.Viewport{Width: 400, Height: 300}, env.banner.Snapshot().Dimension)
	before := env.transform.Scale()

	env.registry.Register(render.NewSurface(render.RootAnchor, env.banner.Snapshot,
		func(context.Context, banner.State, float64) (image.Image, error) {
			return nil, errors.New(errors.ErrCodeInternal, "boom")
		}))

	_, err := env.runner.Execute(context.Background(), fastOptions())
	if !errors.Is(err, errors.ErrCodeCaptureFailed) {
		t.Fatalf("err = %v, want CAPTURE_FAILED", err)
	}
	if got := env.transform.Scale(); got != before {
		t.Errorf("scale after failed export = %f, want %f", got, before)
	}
	if env.runner.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", env.runner.Phase())
	}
}

func TestExecuteTargetMissing(t *testing.T) {
	env := newTestEnv(t, nil)
	env.registry.Remove(render.RootAnchor)
	_, err := env.runner.Execute(context.Background(), fastOptions())
	if !errors.Is(err, errors.ErrCodeTargetMissing) {
		t.Errorf("err = %v, want TARGET_MISSING", err)
	}
}

func TestExecuteSingleFlight(t *testing.T) {
	env := newTestEnv(t, nil)

	started := make(chan struct{})
	unblock := make(chan struct{})
	var startOnce sync.Once
	env.registry.Register(render.NewSurface(render.RootAnchor, env.banner.Snapshot,
		func(ctx context.Context, st banner.State, ratio float64) (image.Image, error) {
			startOnce.Do(func() { close(started) })
			<-unblock
			return image.NewRGBA(image.Rect(0, 0, int(float64(st.Dimension.Width)*ratio), int(float64(st.Dimension.Height)*ratio))), nil
		}))

	done := make(chan error, 1)
	go func() {
		_, err := env.runner.Execute(context.Background(), fastOptions())
		done <- err
	}()
	<-started

	if _, err := env.runner.Execute(context.Background(), fastOptions()); !errors.Is(err, errors.ErrCodeExportInFlight) {
		t.Errorf("concurrent export err = %v, want EXPORT_IN_FLIGHT", err)
	}
	close(unblock)
	if err := <-done; err != nil {
		t.Fatalf("first export failed: %v", err)
	}

	// the slot is free again
	if _, err := env.runner.Execute(context.Background(), fastOptions()); err != nil {
		t.Errorf("export after completion failed: %v", err)
	}
}

func TestExecuteWarnsOnUnloadableImage(t *testing.T) {
	env := newTestEnv(t, nil)
	env.banner.UpdateSpeaker(0, banner.SpeakerPatch{
		Headshot:    &banner.ImageRef{Source: filepath.Join(t.TempDir(), "missing.png")},
		SetHeadshot: true,
	})

	res, err := env.runner.Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, w := range res.Warnings {
		if w.Code == errors.ErrCodeImageLoad {
			found = true
		}
	}
	if !found {
		t.Errorf("warnings = %+v, want IMAGE_LOAD entry", res.Warnings)
	}
	if len(res.PNG) == 0 {
		t.Error("artifact missing despite placeholder fallback")
	}
}

func TestExecuteArtifactCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	env := newTestEnv(t, fc)

	first, err := env.runner.Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if first.CacheInfo.ArtifactHit {
		t.Error("first export should miss the cache")
	}

	second, err := env.runner.Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheInfo.ArtifactHit {
		t.Error("second export should hit the cache")
	}
	if !bytes.Equal(first.PNG, second.PNG) {
		t.Error("cached artifact differs")
	}

	// editing the banner invalidates the key
	env.banner.UpdateField(banner.FieldTitle, "Changed Title")
	third, err := env.runner.Execute(context.Background(), fastOptions())
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheInfo.ArtifactHit {
		t.Error("state change should miss the cache")
	}
}

func TestExecutePersistsRecord(t *testing.T) {
	env := newTestEnv(t, nil)
	env.banner.UpdateField(banner.FieldTitle, "Persisted Banner")
	env.banner.UpdateSpeaker(0, banner.SpeakerPatch{
		Headshot:    &banner.ImageRef{Source: filepath.Join(t.TempDir(), "missing.png")},
		SetHeadshot: true,
	})

	opts := fastOptions()
	opts.Persist = true
	res, err := env.runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if res.Record == nil {
		t.Fatal("record not persisted")
	}
	list, err := env.catalog.List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].TitlePreview != "Persisted Banner" {
		t.Errorf("catalog = %+v", list)
	}
	if !list[0].Metadata.Speakers[0].HasHeadshot {
		t.Error("headshot flag not recorded")
	}
}

func TestExecuteHonorsContextCancellation(t *testing.T) {
	env := newTestEnv(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	opts := fastOptions()
	opts.SettleDelay = time.Minute
	_, err := env.runner.Execute(ctx, opts)
	if err == nil {
		t.Fatal("cancelled export should fail")
	}
	// A caller hanging up is not a sync timeout and must keep its identity.
	if !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if errors.Is(err, errors.ErrCodeSyncTimeout) {
		t.Errorf("cancellation misreported as %s", errors.ErrCodeSyncTimeout)
	}
	if env.runner.Phase() != PhaseIdle {
		t.Errorf("phase = %s, want idle", env.runner.Phase())
	}
}

func TestExecuteFractionalPixelRatio(t *testing.T) {
	env := newTestEnv(t, nil)
	opts := fastOptions()
	opts.OutputDir = t.TempDir()
	opts.PixelRatio = 1.5

	// 627 * 1.5 = 940.5, which the canvas rounds up to 941.
	res, err := env.runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(res.PNG))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width != 1800 || cfg.Height != 941 {
		t.Errorf("artifact is %dx%d, want 1800x941", cfg.Width, cfg.Height)
	}
	if res.Stats.Width != 1800 || res.Stats.Height != 941 {
		t.Errorf("stats %dx%d, want 1800x941", res.Stats.Width, res.Stats.Height)
	}
}

func TestValidateArtifact(t *testing.T) {
	if err := validateArtifact(nil, 10, 10); !errors.Is(err, errors.ErrCodeEmptyArtifact) {
		t.Errorf("empty artifact err = %v", err)
	}
	if err := validateArtifact([]byte("not a png"), 10, 10); !errors.Is(err, errors.ErrCodeEmptyArtifact) {
		t.Errorf("garbage artifact err = %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))); err != nil {
		t.Fatal(err)
	}
	if err := validateArtifact(buf.Bytes(), 10, 10); err != nil {
		t.Errorf("valid artifact rejected: %v", err)
	}
	if err := validateArtifact(buf.Bytes(), 20, 20); !errors.Is(err, errors.ErrCodeCaptureFailed) {
		t.Errorf("wrong-size artifact err = %v", err)
	}
}
