// Package fonts provides the typefaces used for banner rendering.
//
// The built-in family is the Go font (golang.org/x/image/font/gofont),
// which ships embedded in the module so rendering works without any
// external files. A document may name a custom system family instead;
// resolving and reading that file happens in the background, and callers
// that need the final faces wait on [Library.WaitReady] with a bounded
// timeout. If the custom font is slow or missing, rendering proceeds with
// the built-in family rather than blocking an export.
package fonts

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/goregular"
)

// Weight selects a face weight.
type Weight int

// Available weights.
const (
	Regular Weight = iota
	Medium
	Bold
)

// faceKey identifies a cached face by weight and size.
type faceKey struct {
	weight Weight
	size   float64
}

// Library parses and caches font faces. Safe for concurrent use.
type Library struct {
	mu     sync.Mutex
	fonts  map[Weight]*truetype.Font
	custom *truetype.Font // replaces Regular/Medium/Bold when set
	faces  map[faceKey]font.Face

	ready  chan struct{}
	logger *log.Logger
}

// Option configures a Library.
type Option func(*options)

type options struct {
	customFamily string
}

// WithCustomFamily asks the library to resolve the named system font in
// the background and prefer it over the built-in family once loaded.
func WithCustomFamily(name string) Option {
	return func(o *options) { o.customFamily = name }
}

// NewLibrary parses the embedded Go fonts and, when a custom family is
// requested, starts resolving it in the background. A nil logger discards
// log output.
func NewLibrary(logger *log.Logger, opts ...Option) (*Library, error) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	l := &Library{
		fonts:  make(map[Weight]*truetype.Font, 3),
		faces:  make(map[faceKey]font.Face),
		ready:  make(chan struct{}),
		logger: logger,
	}

	for weight, data := range map[Weight][]byte{
		Regular: goregular.TTF,
		Medium:  gomedium.TTF,
		Bold:    gobold.TTF,
	} {
		f, err := truetype.Parse(data)
		if err != nil {
			return nil, err
		}
		l.fonts[weight] = f
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if o.customFamily == "" {
		close(l.ready)
		return l, nil
	}

	go l.loadCustom(o.customFamily)
	return l, nil
}

// loadCustom resolves a system font by family name. Failures keep the
// built-in family and are logged; the readiness channel closes either way.
func (l *Library) loadCustom(family string) {
	defer close(l.ready)

	path, err := findfont.Find(family)
	if err != nil {
		l.logger.Warn("custom font not found, using built-in family", "family", family, "err", err)
		return
	}
	data, err := os.ReadFile(path)
	if err != nil {
		l.logger.Warn("reading custom font failed, using built-in family", "path", path, "err", err)
		return
	}
	f, err := truetype.Parse(data)
	if err != nil {
		l.logger.Warn("parsing custom font failed, using built-in family", "path", path, "err", err)
		return
	}

	l.mu.Lock()
	l.custom = f
	l.faces = make(map[faceKey]font.Face) // drop faces built from the fallback family
	l.mu.Unlock()
	l.logger.Debug("custom font loaded", "family", family, "path", path)
}

// Ready returns a channel closed once font resolution has finished.
func (l *Library) Ready() <-chan struct{} {
	return l.ready
}

// WaitReady blocks until the fonts have settled or ctx expires. A context
// error means the caller should proceed with the built-in fallback faces.
func (l *Library) WaitReady(ctx context.Context) error {
	select {
	case <-l.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Face returns a cached face for the given weight and point size,
// reflecting whatever fonts are loaded right now.
func (l *Library) Face(weight Weight, size float64) font.Face {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := faceKey{weight: weight, size: size}
	if face, ok := l.faces[key]; ok {
		return face
	}

	f := l.fonts[weight]
	if l.custom != nil {
		f = l.custom
	}
	face := truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	l.faces[key] = face
	return face
}
