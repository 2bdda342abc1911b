package banner

// ImageRef points at an uploaded or remote image. The intake widgets own
// validation of file type and size; the core only carries the reference and
// tolerates nil at render and export time (placeholders are drawn instead).
type ImageRef struct {
	// Source is a local file path or an http(s) URL.
	Source string `json:"source" toml:"source"`
}

// Speaker holds one presenter's details. Headshot and Logo are optional;
// absent images render as deterministic placeholder discs.
type Speaker struct {
	Name     string    `json:"name" toml:"name"`
	Title    string    `json:"title" toml:"title"`
	Headshot *ImageRef `json:"headshot,omitempty" toml:"headshot,omitempty"`
	Logo     *ImageRef `json:"logo,omitempty" toml:"logo,omitempty"`
}

// Timezone is a display label for the schedule line.
type Timezone string

// Supported timezone labels.
const (
	TimezonePT  Timezone = "PT"
	TimezoneET  Timezone = "ET"
	TimezoneGMT Timezone = "GMT"
	TimezoneUTC Timezone = "UTC"
	TimezoneCET Timezone = "CET"
)

// Timezones lists the supported labels in display order.
var Timezones = []Timezone{TimezonePT, TimezoneET, TimezoneGMT, TimezoneUTC, TimezoneCET}

// Variant identifies one of the fixed layout strategies.
type Variant string

// The template variants, selected solely by speaker count.
const (
	VariantSingle Variant = "single"
	VariantDuo    Variant = "duo"
	VariantPanel  Variant = "panel"
)

// CustomBackground is a user-supplied background: either a solid color or
// an uploaded image. Exactly one of the fields is meaningful.
type CustomBackground struct {
	Color string    `json:"color,omitempty" toml:"color,omitempty"`
	Image *ImageRef `json:"image,omitempty" toml:"image,omitempty"`
}

// State is the banner aggregate. It is always handled as a value: the store
// owns the live copy and everything else receives snapshots.
type State struct {
	Title        string    `json:"title"`
	SpeakerCount int       `json:"speaker_count"`
	Speakers     []Speaker `json:"speakers"`

	Date         string   `json:"date,omitempty"` // ISO date (2006-01-02) or empty
	Time         string   `json:"time,omitempty"` // HH:MM or empty
	Timezone     Timezone `json:"timezone"`
	ShowTimezone bool     `json:"show_timezone"`

	Variant          Variant           `json:"template_variant"`
	AccentColor      string            `json:"accent_color"`
	BackgroundID     string            `json:"background_id"`
	CustomBackground *CustomBackground `json:"custom_background,omitempty"`

	Dimension Dimension `json:"dimension"`
}

// Field length limits, in runes. Matches what the form widgets enforce;
// kept here so documents and API input get the same trimming.
const (
	MaxTitleLen   = 100
	MaxNameLen    = 50
	MaxSpeakerLen = 50
)

// MaxSpeakers is the largest supported speaker count; each count maps to
// a layout variant via SelectVariant.
const MaxSpeakers = 3

// DefaultState returns the session-start state: one speaker, single
// variant, wide dimension, default accent and background.
func DefaultState() State {
	return State{
		SpeakerCount: 1,
		Speakers:     []Speaker{{}},
		Timezone:     TimezonePT,
		ShowTimezone: true,
		Variant:      VariantSingle,
		AccentColor:  defaultAccentColor,
		BackgroundID: DefaultBackground().ID,
		Dimension:    DefaultDimension(),
	}
}

// VisibleSpeakers returns the speakers that are displayed and exported:
// the first SpeakerCount entries. The stored list may be longer; reducing
// the count never discards entered data.
func (s State) VisibleSpeakers() []Speaker {
	n := s.SpeakerCount
	if n > len(s.Speakers) {
		n = len(s.Speakers)
	}
	out := make([]Speaker, n)
	copy(out, s.Speakers[:n])
	return out
}

// clone returns a deep copy of the state. ImageRefs are duplicated so a
// snapshot cannot alias the store's live copy.
func (s State) clone() State {
	out := s
	out.Speakers = make([]Speaker, len(s.Speakers))
	for i, sp := range s.Speakers {
		out.Speakers[i] = sp.clone()
	}
	if s.CustomBackground != nil {
		cb := *s.CustomBackground
		if cb.Image != nil {
			img := *cb.Image
			cb.Image = &img
		}
		out.CustomBackground = &cb
	}
	return out
}

func (sp Speaker) clone() Speaker {
	out := sp
	if sp.Headshot != nil {
		h := *sp.Headshot
		out.Headshot = &h
	}
	if sp.Logo != nil {
		l := *sp.Logo
		out.Logo = &l
	}
	return out
}

// ImageRefs returns every image reference the visible state carries:
// speaker headshots and logos, background image presets, and a custom
// background image. Used by the export barrier to wait for each image.
func (s State) ImageRefs() []ImageRef {
	var refs []ImageRef
	for _, sp := range s.VisibleSpeakers() {
		if sp.Headshot != nil {
			refs = append(refs, *sp.Headshot)
		}
		if sp.Logo != nil {
			refs = append(refs, *sp.Logo)
		}
	}
	if bg, ok := LookupBackground(s.BackgroundID); ok && bg.Kind == BackgroundImage {
		refs = append(refs, ImageRef{Source: bg.Value})
	}
	if s.CustomBackground != nil && s.CustomBackground.Image != nil {
		refs = append(refs, *s.CustomBackground.Image)
	}
	return refs
}

// truncateRunes limits s to n runes, preserving valid UTF-8.
func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// validTimezone reports whether tz is one of the supported labels.
func validTimezone(tz Timezone) bool {
	for _, t := range Timezones {
		if t == tz {
			return true
		}
	}
	return false
}
