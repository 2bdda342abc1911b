package render

import (
	"image/color"
	"strings"

	"github.com/fogleman/gg"

	"github.com/vonderheiden/bannerforge/pkg/assets"
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/colors"
)

// paintBackground fills the content band according to the selected
// background. Photo backgrounds get a dark overlay so the copy stays
// legible; flat backgrounds get the subtle dot pattern instead.
func (c *canvas) paintBackground(st banner.State) {
	photo := false
	if st.BackgroundID == banner.BackgroundCustomID && st.CustomBackground != nil {
		cb := st.CustomBackground
		if cb.Image != nil {
			photo = c.paintPhoto(cb.Image.Source)
		}
		if !photo {
			c.fillBand(parseOr(cb.Color, "#1a1a1a"))
		}
	} else {
		bg, ok := banner.LookupBackground(st.BackgroundID)
		if !ok {
			bg = banner.DefaultBackground()
		}
		switch bg.Kind {
		case banner.BackgroundImage:
			photo = c.paintPhoto(bg.Value)
			if !photo {
				c.fillGradient("#1a1a1a", "#2d2d2d")
			}
		case banner.BackgroundGradient:
			from, to, found := strings.Cut(bg.Value, ",")
			if !found {
				to = from
			}
			c.fillGradient(from, to)
		default:
			c.fillBand(parseOr(bg.Value, "#1a1a1a"))
		}
	}

	if photo {
		// top-to-bottom darkening keeps white text readable over
		// arbitrary photos
		grad := gg.NewLinearGradient(0, 0, 0, c.p.BandHeight)
		grad.AddColorStop(0, color.NRGBA{0, 0, 0, 178})
		grad.AddColorStop(1, color.NRGBA{0, 0, 0, 153})
		c.dc.SetFillStyle(grad)
		c.dc.DrawRectangle(0, 0, c.p.Width, c.p.BandHeight)
		c.dc.Fill()
	} else {
		c.dotPattern()
	}
}

// paintPhoto cover-crops the referenced image over the band. Returns
// false when the image did not resolve so the caller can fall back.
func (c *canvas) paintPhoto(source string) bool {
	img, ok := c.images[source]
	if !ok {
		return false
	}
	crop := assets.CoverCrop(img, int(c.p.Width), int(c.p.BandHeight))
	c.dc.DrawImage(crop, 0, 0)
	return true
}

func (c *canvas) fillBand(col color.RGBA) {
	c.dc.SetColor(col)
	c.dc.DrawRectangle(0, 0, c.p.Width, c.p.BandHeight)
	c.dc.Fill()
}

// fillGradient paints a diagonal blend across the band.
func (c *canvas) fillGradient(fromHex, toHex string) {
	grad := gg.NewLinearGradient(0, 0, c.p.Width, c.p.BandHeight)
	grad.AddColorStop(0, parseOr(fromHex, "#1a1a1a"))
	grad.AddColorStop(1, parseOr(toHex, "#2d2d2d"))
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(0, 0, c.p.Width, c.p.BandHeight)
	c.dc.Fill()
}

// dotPattern overlays a faint dot grid on flat backgrounds.
func (c *canvas) dotPattern() {
	step := 40 * c.p.Unit
	c.dc.SetColor(color.NRGBA{255, 255, 255, 13})
	for y := 2 * c.p.Unit; y < c.p.BandHeight; y += step {
		for x := 2 * c.p.Unit; x < c.p.Width; x += step {
			c.dc.DrawCircle(x, y, c.p.Unit)
		}
	}
	c.dc.Fill()
}

func parseOr(hex, fallback string) color.RGBA {
	hex = strings.TrimSpace(hex)
	if col, err := colors.ParseHex(hex); err == nil {
		return col
	}
	col, _ := colors.ParseHex(fallback)
	return col
}
