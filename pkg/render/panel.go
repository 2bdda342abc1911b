package render

import (
	"fmt"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/fonts"
)

// drawPanel lays out the three-speaker banner: headline and schedule
// on top, three centered portrait columns along the bottom of the
// band. Empty slots still render so the grid stays balanced.
func (c *canvas) drawPanel(st banner.State) {
	p := c.p

	y := p.PadY
	y += c.drawTag("WEBINAR", false) + 24*p.Unit
	y = c.drawTitle(st.Title, y)
	c.drawSchedule(st, p.PadX, y+24*p.Unit+p.MetaSize)

	cell := p.HeadshotSize
	gap := 48 * p.Unit
	x := (p.Width - 3*cell - 2*gap) / 2
	top := p.BandHeight - p.PadY - cell - p.NameSize*1.6 - p.RoleSize*1.6

	for i := 0; i < 3; i++ {
		sp := speakerAt(st, i)
		c.drawPortrait(sp, x, top, cell, 16*p.Unit, 4*p.Unit)

		cx := x + cell/2
		maxW := cell + gap*0.75
		ty := top + cell + 8*p.Unit + p.NameSize

		c.face(fonts.Bold, p.NameSize)
		c.dc.SetColor(white)
		name := truncateToWidth(c.dc, orDefault(sp.Name, fmt.Sprintf("Speaker %d", i+1)), maxW)
		c.dc.DrawStringAnchored(name, cx, ty, 0.5, 0)

		c.face(fonts.Regular, p.RoleSize)
		c.dc.SetColor(softGray)
		role := truncateToWidth(c.dc, orDefault(sp.Title, "Title & Company"), maxW)
		c.dc.DrawStringAnchored(role, cx, ty+p.RoleSize*1.5, 0.5, 0)

		x += cell + gap
	}
}
