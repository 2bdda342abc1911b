// Package assets loads the images a banner references: speaker headshots,
// company logos, and background photos.
//
// References come from the intake widgets as local file paths or URLs; the
// core never validates file type or size (that is the widget's job) but
// must tolerate broken or absent references. Every load is bounded by a
// per-image timeout so one slow or dead source can never hang an export;
// a failed image resolves as an error result that the caller logs and
// replaces with a placeholder.
package assets

import (
	"bytes"
	"context"
	"image"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/httputil"
)

// DefaultImageTimeout bounds each individual image load.
const DefaultImageTimeout = 10 * time.Second

// Result is the outcome of one image load. Err is set when the source
// could not be fetched or decoded within its timeout.
type Result struct {
	Ref   banner.ImageRef
	Image image.Image
	Err   error
}

// Loader fetches and decodes images with per-image deadlines and a small
// in-memory cache keyed by source. Safe for concurrent use.
type Loader struct {
	mu     sync.Mutex
	cache  map[string]image.Image
	client *http.Client
	logger *log.Logger

	// Timeout bounds each individual image load. Zero means
	// DefaultImageTimeout.
	Timeout time.Duration
}

// NewLoader creates a Loader. A nil client uses http.DefaultClient; a nil
// logger discards output.
func NewLoader(client *http.Client, logger *log.Logger) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Loader{
		cache:  make(map[string]image.Image),
		client: client,
		logger: logger,
	}
}

func (l *Loader) timeout() time.Duration {
	if l.Timeout > 0 {
		return l.Timeout
	}
	return DefaultImageTimeout
}

// Load fetches and decodes one image reference, bounded by the per-image
// timeout. Results are cached by source string.
func (l *Loader) Load(ctx context.Context, ref banner.ImageRef) (image.Image, error) {
	l.mu.Lock()
	if img, ok := l.cache[ref.Source]; ok {
		l.mu.Unlock()
		return img, nil
	}
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, l.timeout())
	defer cancel()

	var img image.Image
	var err error
	if isRemote(ref.Source) {
		var data []byte
		data, err = httputil.FetchBytes(ctx, l.client, ref.Source, l.timeout())
		if err == nil {
			img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
		}
	} else {
		img, err = l.openLocal(ctx, ref.Source)
	}
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.cache[ref.Source] = img
	l.mu.Unlock()
	return img, nil
}

// openLocal reads a file-backed image, still honoring the deadline: the
// decode runs in a goroutine so a stalled filesystem (network mounts)
// cannot wedge the barrier.
func (l *Loader) openLocal(ctx context.Context, path string) (image.Image, error) {
	type decoded struct {
		img image.Image
		err error
	}
	ch := make(chan decoded, 1)
	go func() {
		img, err := imaging.Open(path, imaging.AutoOrientation(true))
		ch <- decoded{img, err}
	}()

	select {
	case d := <-ch:
		return d.img, d.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await loads every reference concurrently, each with its own bounded
// timeout, and returns one Result per reference in input order. It never
// returns an error itself: per-image failures are carried in the results
// so the caller can log them and continue with placeholders.
func (l *Loader) Await(ctx context.Context, refs []banner.ImageRef) []Result {
	results := make([]Result, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref banner.ImageRef) {
			defer wg.Done()
			img, err := l.Load(ctx, ref)
			results[i] = Result{Ref: ref, Image: img, Err: err}
		}(i, ref)
	}
	wg.Wait()

	for _, r := range results {
		if r.Err != nil {
			l.logger.Warn("image load failed, placeholder will be used", "source", r.Ref.Source, "err", r.Err)
		}
	}
	return results
}

// CoverCrop scales and center-crops img to exactly w x h, the visual
// equivalent of CSS object-fit: cover.
func CoverCrop(img image.Image, w, h int) image.Image {
	return imaging.Fill(img, w, h, imaging.Center, imaging.Lanczos)
}

// isRemote reports whether source is an http(s) URL rather than a path.
func isRemote(source string) bool {
	return strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://")
}
