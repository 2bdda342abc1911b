package render

import (
	"testing"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

func wideDim(t *testing.T) banner.Dimension {
	t.Helper()
	d, ok := banner.LookupDimension("wide")
	if !ok {
		t.Fatal("wide dimension missing")
	}
	return d
}

func TestLayoutTitleTiersShrinkWithLength(t *testing.T) {
	d := wideDim(t)
	for _, v := range []banner.Variant{banner.VariantSingle, banner.VariantDuo, banner.VariantPanel} {
		prev := Layout(d, v, 0).TitleSize
		for n := 10; n <= 120; n += 10 {
			size := Layout(d, v, n).TitleSize
			if size > prev {
				t.Errorf("%s: title size grew from %.1f to %.1f at length %d", v, prev, size, n)
			}
			prev = size
		}
	}
}

func TestLayoutBandLeavesFooterRoom(t *testing.T) {
	for _, d := range banner.Dimensions() {
		p := Layout(d, banner.VariantSingle, 20)
		if p.BandHeight <= 0 || p.BandHeight >= p.Height {
			t.Errorf("%s: band height %.1f out of range for height %.1f", d.Label, p.BandHeight, p.Height)
		}
		footer := p.Height - p.BandHeight
		if footer < 0.15*p.Height {
			t.Errorf("%s: footer %.1f too small", d.Label, footer)
		}
	}
}

func TestLayoutSingleClearsPortraitColumn(t *testing.T) {
	d := wideDim(t)
	p := Layout(d, banner.VariantSingle, 20)
	portraitLeft := p.Width - p.PadX - p.HeadshotSize
	if p.PadX+p.TitleMaxWidth >= portraitLeft {
		t.Errorf("title extends to %.1f, portrait starts at %.1f", p.PadX+p.TitleMaxWidth, portraitLeft)
	}
}

func TestLayoutScaled(t *testing.T) {
	d := wideDim(t)
	p := Layout(d, banner.VariantPanel, 20)
	q := p.Scaled(2)
	if q.Width != 2*p.Width || q.Height != 2*p.Height {
		t.Errorf("canvas not doubled: %+v", q)
	}
	if q.TitleSize != 2*p.TitleSize || q.HeadshotSize != 2*p.HeadshotSize || q.PadX != 2*p.PadX {
		t.Errorf("lengths not doubled: %+v", q)
	}
}

func TestLayoutScalesWithWidth(t *testing.T) {
	wide := wideDim(t)
	square, _ := banner.LookupDimension("square")
	pw := Layout(wide, banner.VariantSingle, 20)
	ps := Layout(square, banner.VariantSingle, 20)
	if ps.TitleSize >= pw.TitleSize {
		t.Errorf("square title %.1f should be below wide %.1f", ps.TitleSize, pw.TitleSize)
	}
	want := pw.PadX * float64(square.Width) / float64(wide.Width)
	if diff := ps.PadX - want; diff > 0.01 || diff < -0.01 {
		t.Errorf("square PadX = %.2f, want %.2f", ps.PadX, want)
	}
}
