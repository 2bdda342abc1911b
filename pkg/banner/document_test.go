package banner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vonderheiden/bannerforge/pkg/errors"
)

func TestDocumentToStateDefaults(t *testing.T) {
	state, err := Document{Title: "Future of Dev Tools"}.ToState()
	if err != nil {
		t.Fatal(err)
	}
	if state.Dimension != DefaultDimension() {
		t.Errorf("dimension = %+v, want wide default", state.Dimension)
	}
	if state.SpeakerCount != 1 || state.Variant != VariantSingle {
		t.Errorf("count/variant = %d/%v", state.SpeakerCount, state.Variant)
	}
	if state.AccentColor == "" || state.BackgroundID == "" {
		t.Error("defaults not applied")
	}
}

func TestDocumentToStateVariant(t *testing.T) {
	doc := Document{
		Title: "Panel on Observability",
		Speakers: []DocumentSpeaker{
			{Name: "Ada"}, {Name: "Grace"}, {Name: "Edsger"},
		},
	}
	state, err := doc.ToState()
	if err != nil {
		t.Fatal(err)
	}
	if state.SpeakerCount != 3 || state.Variant != VariantPanel {
		t.Errorf("count/variant = %d/%v, want 3/panel", state.SpeakerCount, state.Variant)
	}
	if state.Speakers[0].Name != "Ada" {
		t.Errorf("speaker name = %q", state.Speakers[0].Name)
	}
}

func TestDocumentToStateErrors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		code errors.Code
	}{
		{"unknown dimension", Document{Dimension: "a4"}, errors.ErrCodeInvalidDimension},
		{"too many speakers", Document{Speakers: make([]DocumentSpeaker, 4)}, errors.ErrCodeInvalidDocument},
		{"bad date", Document{Date: "tomorrow"}, errors.ErrCodeInvalidDocument},
		{"bad time", Document{Time: "noon"}, errors.ErrCodeInvalidDocument},
		{"bad timezone", Document{Timezone: "MARS"}, errors.ErrCodeInvalidDocument},
		{"unknown background", Document{Background: "image-space"}, errors.ErrCodeInvalidBackground},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.doc.ToState()
			if err == nil {
				t.Fatal("want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestDocumentAliasDimension(t *testing.T) {
	state, err := Document{Dimension: "landscape"}.ToState()
	if err != nil {
		t.Fatal(err)
	}
	if state.Dimension.Label != LabelWide {
		t.Errorf("label = %v, want wide", state.Dimension.Label)
	}
}

func TestLoadDocumentTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "banner.toml")
	content := `
title = "How to Scale? A/B Testing!!"
dimension = "square"
date = "2026-09-18"
time = "10:00"
timezone = "CET"
accent_color = "#1e3a8a"

[[speakers]]
name = "Ada Lovelace"
title = "Chief Engineer"
headshot = "ada.png"

[[speakers]]
name = "Grace Hopper"
title = "Rear Admiral"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	doc, err := LoadDocument(path)
	if err != nil {
		t.Fatal(err)
	}
	state, err := doc.ToState()
	if err != nil {
		t.Fatal(err)
	}

	if state.Variant != VariantDuo {
		t.Errorf("variant = %v, want duo", state.Variant)
	}
	if state.Dimension.Label != LabelSquare {
		t.Errorf("dimension = %v, want square", state.Dimension.Label)
	}
	if state.Speakers[0].Headshot == nil || state.Speakers[0].Headshot.Source != "ada.png" {
		t.Errorf("headshot = %+v", state.Speakers[0].Headshot)
	}
	if state.Speakers[1].Headshot != nil {
		t.Error("speaker 2 should have no headshot ref")
	}
}

func TestLoadDocumentUnsupportedExtension(t *testing.T) {
	_, err := LoadDocument("banner.yaml")
	if !errors.Is(err, errors.ErrCodeInvalidDocument) {
		t.Errorf("err = %v, want INVALID_DOCUMENT", err)
	}
}

func TestDecodeDocument(t *testing.T) {
	doc, err := DecodeDocument(strings.NewReader(`{"title":"Launch Week","speakers":[{"name":"Ada"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Title != "Launch Week" || len(doc.Speakers) != 1 {
		t.Errorf("doc = %+v", doc)
	}

	if _, err := DecodeDocument(strings.NewReader(`{"titel":"typo"}`)); err == nil {
		t.Error("unknown fields should be rejected")
	}
}
