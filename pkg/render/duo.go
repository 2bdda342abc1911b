package render

import (
	"fmt"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
)

// drawDuo lays out the two-speaker banner: headline on top, schedule
// row and the two speakers side by side along the bottom of the band.
// This is the only variant that shows photo backgrounds edge to edge,
// so the chip uses dark text for contrast against bright accents.
func (c *canvas) drawDuo(st banner.State) {
	p := c.p

	y := p.PadY
	y += c.drawTag("Webinar", true) + 32*p.Unit
	c.drawTitle(st.Title, y)

	rowH := p.HeadshotSize
	rowTop := p.BandHeight - p.PadY - rowH
	c.drawSchedule(st, p.PadX, rowTop-24*p.Unit)

	x := p.PadX
	for i := 0; i < 2; i++ {
		x = c.drawDuoSpeaker(speakerAt(st, i), i, x, rowTop) + 48*p.Unit
	}
}

// drawDuoSpeaker draws one avatar with name and role to its right,
// returning the x where the entry ends.
func (c *canvas) drawDuoSpeaker(sp banner.Speaker, idx int, x, top float64) float64 {
	p := c.p
	r := p.HeadshotSize / 2
	c.drawAvatar(sp, x+r, top+r, r)

	tx := x + 2*r + 16*p.Unit
	maxW := 260 * p.Unit

	c.face(fonts.Bold, p.NameSize)
	c.dc.SetColor(white)
	name := truncateToWidth(c.dc, orDefault(sp.Name, fmt.Sprintf("Speaker %d", idx+1)), maxW)
	c.dc.DrawString(name, tx, top+r-6*p.Unit)
	nw, _ := c.dc.MeasureString(name)

	c.face(fonts.Regular, p.RoleSize)
	role := truncateToWidth(c.dc, orDefault(sp.Title, "Title & Company"), maxW)
	c.dc.DrawString(role, tx, top+r+p.RoleSize)
	rw, _ := c.dc.MeasureString(role)

	return tx + max(nw, rw)
}
