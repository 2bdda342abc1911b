package render

import (
	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
)

// drawSingle lays out the one-speaker banner: headline and schedule on
// the left, a large rounded portrait on the right, name and role in
// the lower-left corner of the band.
func (c *canvas) drawSingle(st banner.State) {
	p := c.p
	sp := speakerAt(st, 0)

	y := p.PadY
	y += c.drawTag("WEBINAR", false) + 24*p.Unit
	y = c.drawTitle(st.Title, y)
	c.drawSchedule(st, p.PadX, y+28*p.Unit+p.MetaSize)

	hs := p.HeadshotSize
	hx := p.Width - p.PadX - hs
	hy := (p.BandHeight - hs) / 2
	c.drawPortrait(sp, hx, hy, hs, 16*p.Unit, 6*p.Unit)

	maxW := hx - p.PadX - 24*p.Unit
	base := p.BandHeight - p.PadY

	c.face(fonts.Regular, p.RoleSize)
	c.dc.SetColor(softGray)
	role := truncateToWidth(c.dc, orDefault(sp.Title, "Title & Company"), maxW)
	c.dc.DrawString(role, p.PadX, base)

	c.face(fonts.Bold, p.NameSize)
	c.dc.SetColor(white)
	name := truncateToWidth(c.dc, orDefault(sp.Name, "Speaker Name"), maxW)
	c.dc.DrawString(name, p.PadX, base-p.RoleSize-12*p.Unit)
}
