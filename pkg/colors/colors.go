// Package colors provides hex color parsing and manipulation for banner
// rendering: lighten/darken, luminance checks, and WCAG contrast ratios.
//
// The accent color a user picks is validated against a minimum contrast
// ratio so that accent-colored UI and text stays legible; malformed or
// low-contrast values fall back to the default blue.
package colors

import (
	"fmt"
	"image/color"
	"math"
	"regexp"
	"strconv"
)

// DefaultAccent is the fallback accent color (electric blue).
const DefaultAccent = "#3B82F6"

// minAccentContrast is the WCAG minimum for UI components against white.
const minAccentContrast = 3.0

var hexPattern = regexp.MustCompile(`^#?([0-9a-fA-F]{2})([0-9a-fA-F]{2})([0-9a-fA-F]{2})$`)

// ParseHex parses a "#RRGGBB" (or "RRGGBB") string into an RGBA color.
// The alpha channel is always fully opaque.
func ParseHex(s string) (color.RGBA, error) {
	m := hexPattern.FindStringSubmatch(s)
	if m == nil {
		return color.RGBA{}, fmt.Errorf("invalid hex color: %q", s)
	}
	r, _ := strconv.ParseUint(m[1], 16, 8)
	g, _ := strconv.ParseUint(m[2], 16, 8)
	b, _ := strconv.ParseUint(m[3], 16, 8)
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}, nil
}

// Hex formats an RGBA color as a lowercase "#rrggbb" string.
// The alpha channel is ignored.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// Lighten moves a hex color toward white by percent (0-100).
// Invalid input is returned unchanged.
func Lighten(hex string, percent float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	f := percent / 100
	c.R = uint8(math.Min(255, float64(c.R)+(255-float64(c.R))*f))
	c.G = uint8(math.Min(255, float64(c.G)+(255-float64(c.G))*f))
	c.B = uint8(math.Min(255, float64(c.B)+(255-float64(c.B))*f))
	return Hex(c)
}

// Darken moves a hex color toward black by percent (0-100).
// Invalid input is returned unchanged.
func Darken(hex string, percent float64) string {
	c, err := ParseHex(hex)
	if err != nil {
		return hex
	}
	f := 1 - percent/100
	c.R = uint8(math.Max(0, float64(c.R)*f))
	c.G = uint8(math.Max(0, float64(c.G)*f))
	c.B = uint8(math.Max(0, float64(c.B)*f))
	return Hex(c)
}

// IsLight reports whether a color reads as light (for picking contrasting
// text). Invalid input counts as light.
func IsLight(hex string) bool {
	c, err := ParseHex(hex)
	if err != nil {
		return true
	}
	luma := (0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)) / 255
	return luma > 0.5
}

// relativeLuminance computes the WCAG relative luminance of a color.
func relativeLuminance(c color.RGBA) float64 {
	lin := func(v uint8) float64 {
		s := float64(v) / 255
		if s <= 0.03928 {
			return s / 12.92
		}
		return math.Pow((s+0.055)/1.055, 2.4)
	}
	return 0.2126*lin(c.R) + 0.7152*lin(c.G) + 0.0722*lin(c.B)
}

// ContrastRatio computes the WCAG contrast ratio between two hex colors.
// Returns 1 (minimum contrast) when either color is invalid.
func ContrastRatio(hex1, hex2 string) float64 {
	c1, err1 := ParseHex(hex1)
	c2, err2 := ParseHex(hex2)
	if err1 != nil || err2 != nil {
		return 1
	}
	l1 := relativeLuminance(c1)
	l2 := relativeLuminance(c2)
	lighter := math.Max(l1, l2)
	darker := math.Min(l1, l2)
	return (lighter + 0.05) / (darker + 0.05)
}

// ValidateAccent returns hex if it is a well-formed color with at least 3:1
// contrast against white, and DefaultAccent otherwise. The bool result
// reports whether the input was accepted.
func ValidateAccent(hex string) (string, bool) {
	if _, err := ParseHex(hex); err != nil {
		return DefaultAccent, false
	}
	if ContrastRatio(hex, "#FFFFFF") < minAccentContrast {
		return DefaultAccent, false
	}
	return hex, true
}
