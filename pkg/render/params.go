package render

import "github.com/vonderheiden/bannerforge/pkg/banner"

// Layout constants are expressed against the 1200px wide reference
// canvas and scaled from there, so every dimension keeps the same
// visual balance.
const (
	refWidth        = 1200
	maxTitleLines   = 3
	titleLineHeight = 1.15
)

// Params holds the resolved drawing geometry for one composition.
// Values are in canvas pixels; Scaled multiplies everything by the
// pixel ratio so variant code never deals with density itself.
type Params struct {
	Width  float64
	Height float64
	Unit   float64 // base scale factor, used for ad-hoc spacing

	BandHeight float64 // dark content band; the accent footer fills the rest
	PadX       float64
	PadY       float64

	TagSize       float64
	TitleSize     float64
	TitleMaxWidth float64
	MetaSize      float64
	NameSize      float64
	RoleSize      float64

	HeadshotSize float64
	InitialSize  float64

	ButtonTextSize float64
	ButtonPadX     float64
	ButtonPadY     float64
	LogoHeight     float64
	LogoMaxWidth   float64
	LogoGap        float64
}

// Layout derives drawing parameters for a dimension, variant and title
// length. Longer titles step the headline size down so the text block
// keeps room for the schedule row and the speakers.
func Layout(d banner.Dimension, v banner.Variant, titleLen int) Params {
	s := float64(d.Width) / refWidth
	p := Params{
		Width:  float64(d.Width),
		Height: float64(d.Height),
		Unit:   s,

		PadX: 64 * s,
		PadY: 48 * s,

		TagSize:  14 * s,
		MetaSize: 18 * s,

		ButtonTextSize: 18 * s,
		ButtonPadX:     40 * s,
		ButtonPadY:     16 * s,
		LogoHeight:     64 * s,
		LogoMaxWidth:   200 * s,
		LogoGap:        24 * s,
	}
	p.BandHeight = p.Height * bandFraction(d.Label)
	p.TitleSize = titleSize(v, titleLen) * s
	p.TitleMaxWidth = min(900*s, p.Width-2*p.PadX)

	switch v {
	case banner.VariantDuo:
		p.TagSize = 16 * s
		p.NameSize = 20 * s
		p.RoleSize = 14 * s
		p.HeadshotSize = 80 * s
		p.InitialSize = 32 * s
	case banner.VariantPanel:
		p.NameSize = 16 * s
		p.RoleSize = 12 * s
		p.HeadshotSize = 160 * s
		p.InitialSize = 50 * s
		p.LogoHeight = 48 * s
		p.LogoMaxWidth = 140 * s
	default:
		p.NameSize = 28 * s
		p.RoleSize = 20 * s
		p.HeadshotSize = 320 * s
		p.InitialSize = 100 * s
		// keep the headline clear of the portrait column
		p.TitleMaxWidth = min(p.TitleMaxWidth, p.Width-2*p.PadX-p.HeadshotSize-48*s)
	}
	return p
}

// Scaled returns a copy with every length multiplied by the pixel
// ratio.
func (p Params) Scaled(f float64) Params {
	p.Width *= f
	p.Height *= f
	p.Unit *= f
	p.BandHeight *= f
	p.PadX *= f
	p.PadY *= f
	p.TagSize *= f
	p.TitleSize *= f
	p.TitleMaxWidth *= f
	p.MetaSize *= f
	p.NameSize *= f
	p.RoleSize *= f
	p.HeadshotSize *= f
	p.InitialSize *= f
	p.ButtonTextSize *= f
	p.ButtonPadX *= f
	p.ButtonPadY *= f
	p.LogoHeight *= f
	p.LogoMaxWidth *= f
	p.LogoGap *= f
	return p
}

// bandFraction sets how much of the canvas the dark content band
// occupies. Taller shapes give the band proportionally more room so
// the footer does not balloon.
func bandFraction(l banner.DimensionLabel) float64 {
	switch l {
	case banner.LabelSquare:
		return 0.78
	case banner.LabelTall:
		return 0.74
	default:
		return 0.80
	}
}

// titleSize picks the headline tier for a variant by title length.
func titleSize(v banner.Variant, n int) float64 {
	switch v {
	case banner.VariantDuo:
		switch {
		case n > 80:
			return 36
		case n > 50:
			return 44
		default:
			return 52
		}
	case banner.VariantPanel:
		switch {
		case n > 60:
			return 38
		case n > 40:
			return 44
		default:
			return 52
		}
	default:
		switch {
		case n > 60:
			return 42
		case n > 40:
			return 48
		default:
			return 56
		}
	}
}
