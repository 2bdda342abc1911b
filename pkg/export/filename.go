package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// maxSlugLen bounds the title-derived filename fragment.
const maxSlugLen = 50

// Slugify turns a title into a filesystem-safe fragment: lowercased,
// runs of [a-z0-9] joined by single hyphens, at most maxSlugLen
// characters. Anything outside that set, accented letters included,
// acts as a separator. Titles with no usable characters slugify to "".
func Slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(title) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	slug := strings.Trim(b.String(), "-")
	if len(slug) > maxSlugLen {
		slug = strings.TrimRight(slug[:maxSlugLen], "-")
	}
	return slug
}

// Filename builds the canonical artifact name:
// banner-<w>x<h>[-<slug>]-<unix-ms>.png. The dimensions are the
// natural ones, not multiplied by pixel ratio, and the slug is
// omitted when the title yields none.
func Filename(d banner.Dimension, title string, ts time.Time) string {
	base := fmt.Sprintf("banner-%dx%d", d.Width, d.Height)
	if slug := Slugify(title); slug != "" {
		base += "-" + slug
	}
	return fmt.Sprintf("%s-%d.png", base, ts.UnixMilli())
}
