package export

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"How to Scale? A/B Testing!!", "how-to-scale-a-b-testing"},
		{"Simple Title", "simple-title"},
		{"  spaced   out  ", "spaced-out"},
		{"???", ""},
		{"", ""},
		{"MixedCASE123", "mixedcase123"},
		{"trailing punctuation...", "trailing-punctuation"},
		// non-ASCII letters separate rather than survive
		{"Café Sessions", "caf-sessions"},
		{"Über Scaling", "ber-scaling"},
		{"日本語", ""},
	}
	for _, tt := range tests {
		if got := Slugify(tt.in); got != tt.want {
			t.Errorf("Slugify(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSlugifyLengthBound(t *testing.T) {
	long := strings.Repeat("word ", 30)
	got := Slugify(long)
	if len([]rune(got)) > 50 {
		t.Errorf("slug too long: %d runes", len([]rune(got)))
	}
	if strings.HasSuffix(got, "-") {
		t.Errorf("truncated slug has trailing hyphen: %q", got)
	}
}

func TestFilename(t *testing.T) {
	d := banner.DefaultDimension()
	ts := time.UnixMilli(1700000000000)

	got := Filename(d, "Quarterly Review", ts)
	want := "banner-1200x627-quarterly-review-1700000000000.png"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}

	// the slug segment disappears entirely for unusable titles
	got = Filename(d, "???", ts)
	want = "banner-1200x627-1700000000000.png"
	if got != want {
		t.Errorf("Filename = %q, want %q", got, want)
	}
}

func TestFilenameUsesNaturalDimensions(t *testing.T) {
	square, _ := banner.LookupDimension("square")
	got := Filename(square, "", time.Now())
	if match, _ := regexp.MatchString(`^banner-1080x1080-\d+\.png$`, got); !match {
		t.Errorf("unexpected filename %q", got)
	}
}
