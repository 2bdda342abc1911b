package render

import (
	"strings"

	"github.com/fogleman/gg"
)

// truncateToWidth shortens s with a trailing ellipsis until it fits the
// given width under the context's current font face.
func truncateToWidth(dc *gg.Context, s string, maxW float64) string {
	if w, _ := dc.MeasureString(s); w <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[:len(r)-1]
		candidate := strings.TrimRight(string(r), " ") + "…"
		if w, _ := dc.MeasureString(candidate); w <= maxW {
			return candidate
		}
	}
	return "…"
}

// initialOf returns the uppercased first rune of a name, or "?" when
// the name is blank. Used for headshot placeholders.
func initialOf(name string) string {
	for _, r := range strings.TrimSpace(name) {
		return strings.ToUpper(string(r))
	}
	return "?"
}

// orDefault substitutes placeholder copy for empty form fields so a
// half-filled banner still previews as a complete design.
func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
