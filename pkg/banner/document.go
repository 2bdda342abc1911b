package banner

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vonderheiden/bannerforge/pkg/colors"
	"github.com/vonderheiden/bannerforge/pkg/errors"
)

// Document is the on-disk banner description accepted by the compose
// command and the HTTP export endpoint. TOML for files, JSON for the API;
// both map onto the same struct.
type Document struct {
	Title        string            `json:"title" toml:"title"`
	Dimension    string            `json:"dimension,omitempty" toml:"dimension,omitempty"` // label, default "wide"
	Date         string            `json:"date,omitempty" toml:"date,omitempty"`
	Time         string            `json:"time,omitempty" toml:"time,omitempty"`
	Timezone     string            `json:"timezone,omitempty" toml:"timezone,omitempty"`
	ShowTimezone *bool             `json:"show_timezone,omitempty" toml:"show_timezone,omitempty"`
	AccentColor  string            `json:"accent_color,omitempty" toml:"accent_color,omitempty"`
	Background   string            `json:"background,omitempty" toml:"background,omitempty"` // preset id or "custom"
	Custom       *CustomBackground `json:"custom_background,omitempty" toml:"custom_background,omitempty"`
	Speakers     []DocumentSpeaker `json:"speakers" toml:"speakers"`
}

// DocumentSpeaker mirrors Speaker with plain string image sources.
type DocumentSpeaker struct {
	Name     string `json:"name" toml:"name"`
	Title    string `json:"title,omitempty" toml:"title,omitempty"`
	Headshot string `json:"headshot,omitempty" toml:"headshot,omitempty"`
	Logo     string `json:"logo,omitempty" toml:"logo,omitempty"`
}

// LoadDocument reads a banner document from a TOML or JSON file, chosen by
// extension (.toml/.json).
func LoadDocument(path string) (Document, error) {
	var doc Document
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		if _, err := toml.DecodeFile(path, &doc); err != nil {
			return doc, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing %s", path)
		}
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return doc, errors.Wrap(errors.ErrCodeInvalidDocument, err, "reading %s", path)
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return doc, errors.Wrap(errors.ErrCodeInvalidDocument, err, "parsing %s", path)
		}
	default:
		return doc, errors.New(errors.ErrCodeInvalidDocument, "unsupported document format %q (use .toml or .json)", ext)
	}
	return doc, nil
}

// DecodeDocument reads a JSON banner document from r. Used by the HTTP API.
func DecodeDocument(r io.Reader) (Document, error) {
	var doc Document
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return doc, errors.Wrap(errors.ErrCodeInvalidDocument, err, "decoding banner document")
	}
	return doc, nil
}

// ToState validates the document and produces a full banner state with
// defaults applied. Unknown dimension labels and speaker counts outside
// 1..3 are document errors; softer problems (bad accent color) fall back to
// defaults the same way the store's mutations do.
func (doc Document) ToState() (State, error) {
	state := DefaultState()

	state.Title = truncateRunes(doc.Title, MaxTitleLen)

	if doc.Dimension != "" {
		d, ok := LookupDimension(DimensionLabel(doc.Dimension))
		if !ok {
			return state, errors.New(errors.ErrCodeInvalidDimension, "unknown dimension label %q", doc.Dimension)
		}
		state.Dimension = d
	}

	if len(doc.Speakers) > 3 {
		return state, errors.New(errors.ErrCodeInvalidDocument, "at most 3 speakers supported, got %d", len(doc.Speakers))
	}
	if len(doc.Speakers) > 0 {
		state.Speakers = make([]Speaker, len(doc.Speakers))
		for i, ds := range doc.Speakers {
			sp := Speaker{
				Name:  truncateRunes(ds.Name, MaxNameLen),
				Title: truncateRunes(ds.Title, MaxSpeakerLen),
			}
			if ds.Headshot != "" {
				sp.Headshot = &ImageRef{Source: ds.Headshot}
			}
			if ds.Logo != "" {
				sp.Logo = &ImageRef{Source: ds.Logo}
			}
			state.Speakers[i] = sp
		}
		state.SpeakerCount = len(doc.Speakers)
	}
	state.Variant = SelectVariant(state.SpeakerCount)

	if !validDate(doc.Date) {
		return state, errors.New(errors.ErrCodeInvalidDocument, "invalid date %q (want YYYY-MM-DD)", doc.Date)
	}
	state.Date = doc.Date
	if !validClock(doc.Time) {
		return state, errors.New(errors.ErrCodeInvalidDocument, "invalid time %q (want HH:MM)", doc.Time)
	}
	state.Time = doc.Time

	if doc.Timezone != "" {
		tz := Timezone(doc.Timezone)
		if !validTimezone(tz) {
			return state, errors.New(errors.ErrCodeInvalidDocument, "unknown timezone label %q", doc.Timezone)
		}
		state.Timezone = tz
	}
	if doc.ShowTimezone != nil {
		state.ShowTimezone = *doc.ShowTimezone
	}

	if doc.AccentColor != "" {
		state.AccentColor, _ = colors.ValidateAccent(doc.AccentColor)
	}

	if doc.Background != "" {
		if doc.Background != BackgroundCustomID {
			if _, ok := LookupBackground(doc.Background); !ok {
				return state, errors.New(errors.ErrCodeInvalidBackground, "unknown background %q", doc.Background)
			}
		}
		state.BackgroundID = doc.Background
	}
	state.CustomBackground = doc.Custom

	return state, nil
}
