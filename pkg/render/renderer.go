package render

import (
	"context"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/disintegration/imaging"
	"github.com/fogleman/gg"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/colors"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
)

var (
	white     = color.RGBA{255, 255, 255, 255}
	softGray  = color.RGBA{209, 213, 219, 255} // muted role text
	black     = color.RGBA{0, 0, 0, 255}
	ringFaint = color.NRGBA{255, 255, 255, 26}
	fillFaint = color.NRGBA{255, 255, 255, 26}
	fillSoft  = color.NRGBA{255, 255, 255, 51}
)

// Renderer composes banner states into raster images. It is safe for
// concurrent use; faces and decoded assets are cached by the font
// library and the asset loader.
type Renderer struct {
	fonts  *fonts.Library
	loader *assets.Loader
	logger *log.Logger
}

// NewRenderer wires a renderer to its font library and asset loader.
// A nil logger discards output.
func NewRenderer(lib *fonts.Library, loader *assets.Loader, logger *log.Logger) *Renderer {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Renderer{fonts: lib, loader: loader, logger: logger}
}

// Compose rasterizes the state at its dimension multiplied by
// pixelRatio. A ratio of 2 produces the retina-density artifact; the
// preview path passes 1. Assets that fail to load fall back to initial
// placeholders and are logged, never surfaced as errors.
func (r *Renderer) Compose(ctx context.Context, st banner.State, pixelRatio float64) (image.Image, error) {
	if pixelRatio <= 0 {
		pixelRatio = 1
	}
	d := st.Dimension
	if !d.Valid() {
		d = banner.DefaultDimension()
	}
	accentHex, _ := colors.ValidateAccent(st.AccentColor)
	accent, err := colors.ParseHex(accentHex)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidColor, err, "accent color %q", st.AccentColor)
	}

	p := Layout(d, st.Variant, len([]rune(st.Title))).Scaled(pixelRatio)
	dc := gg.NewContext(int(math.Round(p.Width)), int(math.Round(p.Height)))
	c := &canvas{dc: dc, p: p, r: r, accent: accent, images: r.resolve(ctx, st)}

	c.paintBackground(st)
	switch st.Variant {
	case banner.VariantDuo:
		c.drawDuo(st)
	case banner.VariantPanel:
		c.drawPanel(st)
	default:
		c.drawSingle(st)
	}
	c.paintFooter(st)
	return dc.Image(), nil
}

// resolve loads every referenced image once. Failures degrade to
// placeholders during drawing.
func (r *Renderer) resolve(ctx context.Context, st banner.State) map[string]image.Image {
	out := make(map[string]image.Image)
	for _, ref := range st.ImageRefs() {
		if _, ok := out[ref.Source]; ok {
			continue
		}
		img, err := r.loader.Load(ctx, ref)
		if err != nil {
			r.logger.Warn("image unavailable, falling back to placeholder",
				"source", ref.Source, "error", err)
			continue
		}
		out[ref.Source] = img
	}
	return out
}

// canvas bundles the drawing context with the resolved geometry and
// assets for one composition.
type canvas struct {
	dc     *gg.Context
	p      Params
	r      *Renderer
	accent color.RGBA
	images map[string]image.Image
}

func (c *canvas) face(w fonts.Weight, size float64) {
	c.dc.SetFontFace(c.r.fonts.Face(w, size))
}

// drawTag draws the "WEBINAR" chip at the top-left corner and returns
// its height.
func (c *canvas) drawTag(text string, darkText bool) float64 {
	p := c.p
	c.face(fonts.Bold, p.TagSize)
	tw, _ := c.dc.MeasureString(text)
	padX, padY := 16*p.Unit, 6*p.Unit
	h := p.TagSize + 2*padY
	c.dc.SetColor(c.accent)
	c.dc.DrawRoundedRectangle(p.PadX, p.PadY, tw+2*padX, h, 6*p.Unit)
	c.dc.Fill()
	if darkText {
		c.dc.SetColor(black)
	} else {
		c.dc.SetColor(white)
	}
	c.dc.DrawStringAnchored(text, p.PadX+padX+tw/2, p.PadY+h/2, 0.5, 0.5)
	return h
}

// drawTitle wraps and draws the headline starting below y, shrinking
// the size until it fits maxTitleLines. Returns the baseline of the
// last line.
func (c *canvas) drawTitle(title string, y float64) float64 {
	title = orDefault(title, "Your Webinar Title Here")
	p := c.p
	size := p.TitleSize
	var lines []string
	for {
		c.face(fonts.Bold, size)
		lines = c.dc.WordWrap(title, p.TitleMaxWidth)
		if len(lines) <= maxTitleLines || size <= p.TitleSize*0.6 {
			break
		}
		size *= 0.92
	}
	if len(lines) > maxTitleLines {
		lines = lines[:maxTitleLines]
		lines[maxTitleLines-1] = truncateToWidth(c.dc, lines[maxTitleLines-1], p.TitleMaxWidth)
	}
	c.dc.SetColor(white)
	lh := size * titleLineHeight
	for _, line := range lines {
		y += lh
		c.dc.DrawString(line, p.PadX, y)
	}
	return y
}

// drawSchedule draws the date and time row with their icons at the
// given text baseline. Empty fields are skipped entirely.
func (c *canvas) drawSchedule(st banner.State, x, baseline float64) {
	p := c.p
	gap := 24 * p.Unit
	c.face(fonts.Bold, p.MetaSize)
	c.dc.SetColor(c.accent)
	if st.Date != "" {
		x = c.metaItem(c.drawCalendarIcon, FormatDate(st.Date), x, baseline) + gap
	}
	if st.Time != "" {
		c.metaItem(c.drawClockIcon, FormatClock(st.Time, st.Timezone, st.ShowTimezone), x, baseline)
	}
}

// metaItem draws one icon-plus-text pair and returns the x just past
// the text.
func (c *canvas) metaItem(icon func(cx, cy, r float64), text string, x, baseline float64) float64 {
	s := c.p.MetaSize
	icon(x+s*0.45, baseline-s*0.32, s*0.45)
	x += s * 1.25
	c.dc.DrawString(text, x, baseline)
	w, _ := c.dc.MeasureString(text)
	return x + w
}

func (c *canvas) drawCalendarIcon(cx, cy, r float64) {
	dc := c.dc
	dc.SetLineWidth(1.6 * c.p.Unit)
	dc.DrawRoundedRectangle(cx-r, cy-r*0.85, 2*r, 1.85*r, r*0.25)
	dc.Stroke()
	dc.DrawLine(cx-r, cy-r*0.3, cx+r, cy-r*0.3)
	dc.Stroke()
	// binder pins
	dc.DrawLine(cx-r*0.45, cy-r*1.1, cx-r*0.45, cy-r*0.6)
	dc.DrawLine(cx+r*0.45, cy-r*1.1, cx+r*0.45, cy-r*0.6)
	dc.Stroke()
}

func (c *canvas) drawClockIcon(cx, cy, r float64) {
	dc := c.dc
	dc.SetLineWidth(1.6 * c.p.Unit)
	dc.DrawCircle(cx, cy, r)
	dc.Stroke()
	dc.DrawLine(cx, cy, cx, cy-r*0.55)
	dc.DrawLine(cx, cy, cx+r*0.45, cy+r*0.2)
	dc.Stroke()
}

// drawPortrait draws a rounded-square headshot, or an initial block
// when the image is missing, with a faint ring on top.
func (c *canvas) drawPortrait(sp banner.Speaker, x, y, size, radius, ring float64) {
	dc := c.dc
	var img image.Image
	if sp.Headshot != nil {
		img = c.images[sp.Headshot.Source]
	}
	if img != nil {
		crop := assets.CoverCrop(img, int(size), int(size))
		dc.DrawRoundedRectangle(x, y, size, size, radius)
		dc.Clip()
		dc.DrawImage(crop, int(x), int(y))
		dc.ResetClip()
	} else {
		dc.SetColor(fillFaint)
		dc.DrawRoundedRectangle(x, y, size, size, radius)
		dc.Fill()
		dc.SetColor(white)
		c.face(fonts.Bold, c.p.InitialSize)
		dc.DrawStringAnchored(initialOf(sp.Name), x+size/2, y+size/2, 0.5, 0.5)
	}
	if ring > 0 {
		dc.SetColor(ringFaint)
		dc.SetLineWidth(ring)
		dc.DrawRoundedRectangle(x+ring/2, y+ring/2, size-ring, size-ring, radius)
		dc.Stroke()
	}
}

// drawAvatar draws a circular headshot centered at (cx, cy), or an
// initial disc when the image is missing, with a solid white ring.
func (c *canvas) drawAvatar(sp banner.Speaker, cx, cy, radius float64) {
	dc := c.dc
	var img image.Image
	if sp.Headshot != nil {
		img = c.images[sp.Headshot.Source]
	}
	if img != nil {
		d := int(2 * radius)
		crop := assets.CoverCrop(img, d, d)
		dc.DrawCircle(cx, cy, radius)
		dc.Clip()
		dc.DrawImage(crop, int(cx-radius), int(cy-radius))
		dc.ResetClip()
	} else {
		dc.SetColor(fillSoft)
		dc.DrawCircle(cx, cy, radius)
		dc.Fill()
		dc.SetColor(white)
		c.face(fonts.Bold, c.p.InitialSize)
		dc.DrawStringAnchored(initialOf(sp.Name), cx, cy, 0.5, 0.5)
	}
	dc.SetColor(white)
	dc.SetLineWidth(3 * c.p.Unit)
	dc.DrawCircle(cx, cy, radius)
	dc.Stroke()
}

// paintFooter fills the accent band below the content area with the
// register button on the left and the company marks on the right.
func (c *canvas) paintFooter(st banner.State) {
	p := c.p
	dc := c.dc
	y := p.BandHeight
	h := p.Height - y
	dc.SetColor(c.accent)
	dc.DrawRectangle(0, y, p.Width, h)
	dc.Fill()

	label := "REGISTER NOW"
	c.face(fonts.Bold, p.ButtonTextSize)
	tw, _ := dc.MeasureString(label)
	bw := tw + 2*p.ButtonPadX
	bh := p.ButtonTextSize + 2*p.ButtonPadY
	by := y + (h-bh)/2
	dc.SetColor(white)
	dc.DrawRoundedRectangle(p.PadX, by, bw, bh, 8*p.Unit)
	dc.Fill()
	dc.SetColor(c.accent)
	dc.DrawStringAnchored(label, p.PadX+bw/2, by+bh/2, 0.5, 0.5)

	// logos render as white marks against the accent, last speaker
	// closest to the edge
	x := p.Width - p.PadX
	speakers := st.VisibleSpeakers()
	for i := len(speakers) - 1; i >= 0; i-- {
		ref := speakers[i].Logo
		if ref == nil {
			continue
		}
		img, ok := c.images[ref.Source]
		if !ok {
			continue
		}
		mark := whiteMark(img, int(p.LogoHeight), int(p.LogoMaxWidth))
		b := mark.Bounds()
		x -= float64(b.Dx())
		dc.DrawImage(mark, int(x), int(y+(h-float64(b.Dy()))/2))
		x -= p.LogoGap
	}
}

// whiteMark scales a logo to the footer height and flattens it into a
// white silhouette, matching how dark logos are made legible on the
// accent band.
func whiteMark(img image.Image, h, maxW int) *image.NRGBA {
	fitted := imaging.Resize(img, 0, h, imaging.Lanczos)
	if fitted.Bounds().Dx() > maxW {
		fitted = imaging.Resize(img, maxW, 0, imaging.Lanczos)
	}
	b := fitted.Bounds()
	out := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for yy := 0; yy < b.Dy(); yy++ {
		for xx := 0; xx < b.Dx(); xx++ {
			_, _, _, a := fitted.At(b.Min.X+xx, b.Min.Y+yy).RGBA()
			out.SetNRGBA(xx, yy, color.NRGBA{255, 255, 255, uint8(a >> 8)})
		}
	}
	return out
}

// speakerAt returns the i-th visible speaker, or a zero speaker when
// the slot is not filled in yet.
func speakerAt(st banner.State, i int) banner.Speaker {
	vis := st.VisibleSpeakers()
	if i < len(vis) {
		return vis[i]
	}
	return banner.Speaker{}
}
