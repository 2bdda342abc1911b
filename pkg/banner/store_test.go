package banner

import (
	"testing"
)

func TestSelectVariant(t *testing.T) {
	tests := []struct {
		count int
		want  Variant
	}{
		{1, VariantSingle},
		{2, VariantDuo},
		{3, VariantPanel},
	}
	for _, tt := range tests {
		if got := SelectVariant(tt.count); got != tt.want {
			t.Errorf("SelectVariant(%d) = %v, want %v", tt.count, got, tt.want)
		}
	}
}

func TestUpdateSpeakerCountSetsVariant(t *testing.T) {
	for _, n := range []int{1, 2, 3} {
		s := NewStore(nil)
		s.UpdateSpeakerCount(n)
		got := s.Snapshot()
		if got.Variant != SelectVariant(n) {
			t.Errorf("count %d: variant = %v, want %v", n, got.Variant, SelectVariant(n))
		}
		if len(got.Speakers) < n {
			t.Errorf("count %d: speakers len = %d, want >= %d", n, len(got.Speakers), n)
		}
		if got.SpeakerCount != n {
			t.Errorf("count %d: SpeakerCount = %d", n, got.SpeakerCount)
		}
	}
}

func TestSpeakerCountRoundTripKeepsData(t *testing.T) {
	s := NewStore(nil)
	s.UpdateSpeakerCount(3)
	for i, name := range []string{"Ada", "Grace", "Edsger"} {
		n := name
		s.UpdateSpeaker(i, SpeakerPatch{Name: &n})
	}

	// Dropping the count must not discard stored speakers.
	s.UpdateSpeakerCount(1)
	if got := s.Snapshot(); len(got.Speakers) != 3 {
		t.Fatalf("after drop: speakers len = %d, want 3", len(got.Speakers))
	}

	s.UpdateSpeakerCount(3)
	got := s.Snapshot()
	for i, want := range []string{"Ada", "Grace", "Edsger"} {
		if got.Speakers[i].Name != want {
			t.Errorf("speaker %d name = %q, want %q", i, got.Speakers[i].Name, want)
		}
	}
}

func TestUpdateSpeakerCountOutOfRange(t *testing.T) {
	s := NewStore(nil)
	before := s.Snapshot()
	s.UpdateSpeakerCount(0)
	s.UpdateSpeakerCount(4)
	after := s.Snapshot()
	if after.SpeakerCount != before.SpeakerCount || after.Variant != before.Variant {
		t.Error("out-of-range count should be a no-op")
	}
}

func TestUpdateDimensionFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name string
		dim  Dimension
	}{
		{"missing width", Dimension{Height: 627, Label: LabelWide}},
		{"non-positive height", Dimension{Width: 1200, Height: -1, Label: LabelWide}},
		{"unknown label", Dimension{Width: 500, Height: 500, Label: "banner"}},
		{"mismatched extents", Dimension{Width: 100, Height: 100, Label: LabelSquare}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore(nil)
			square, _ := LookupDimension(LabelSquare)
			s.UpdateDimension(square)
			s.UpdateDimension(tt.dim)
			got := s.Snapshot().Dimension
			if got != DefaultDimension() {
				t.Errorf("dimension = %+v, want wide default", got)
			}
		})
	}
}

func TestUpdateDimensionValid(t *testing.T) {
	s := NewStore(nil)
	tall, ok := LookupDimension(LabelTall)
	if !ok {
		t.Fatal("tall dimension missing from registry")
	}
	s.UpdateDimension(tall)
	if got := s.Snapshot().Dimension; got != tall {
		t.Errorf("dimension = %+v, want %+v", got, tall)
	}
}

func TestLookupDimensionAliases(t *testing.T) {
	tests := []struct {
		label string
		want  DimensionLabel
	}{
		{"landscape", LabelWide},
		{"portrait", LabelTall},
		{"square", LabelSquare},
		{"wide", LabelWide},
	}
	for _, tt := range tests {
		d, ok := LookupDimension(DimensionLabel(tt.label))
		if !ok || d.Label != tt.want {
			t.Errorf("LookupDimension(%q) = (%v, %v), want label %v", tt.label, d.Label, ok, tt.want)
		}
	}
	if _, ok := LookupDimension("banner"); ok {
		t.Error("unknown label should not resolve")
	}
}

func TestUpdateFieldTitleTruncates(t *testing.T) {
	s := NewStore(nil)
	long := make([]rune, 150)
	for i := range long {
		long[i] = 'a'
	}
	s.UpdateField(FieldTitle, string(long))
	if got := s.Snapshot().Title; len([]rune(got)) != MaxTitleLen {
		t.Errorf("title length = %d, want %d", len([]rune(got)), MaxTitleLen)
	}
}

func TestUpdateFieldAccentColor(t *testing.T) {
	s := NewStore(nil)

	s.UpdateField(FieldAccentColor, "#1e3a8a")
	if got := s.Snapshot().AccentColor; got != "#1e3a8a" {
		t.Errorf("accent = %q, want #1e3a8a", got)
	}

	// Malformed colors fall back to the default rather than applying.
	s.UpdateField(FieldAccentColor, "chartreuse")
	if got := s.Snapshot().AccentColor; got != defaultAccentColor {
		t.Errorf("accent = %q, want default %q", got, defaultAccentColor)
	}
}

func TestUpdateFieldScheduleValidation(t *testing.T) {
	s := NewStore(nil)

	s.UpdateField(FieldDate, "2026-09-18")
	s.UpdateField(FieldTime, "14:30")
	got := s.Snapshot()
	if got.Date != "2026-09-18" || got.Time != "14:30" {
		t.Fatalf("schedule = %q %q", got.Date, got.Time)
	}

	s.UpdateField(FieldDate, "next tuesday")
	s.UpdateField(FieldTime, "2pm")
	got = s.Snapshot()
	if got.Date != "2026-09-18" || got.Time != "14:30" {
		t.Error("invalid schedule values should be ignored")
	}

	// Empty clears.
	s.UpdateField(FieldDate, "")
	if got := s.Snapshot().Date; got != "" {
		t.Errorf("date = %q, want empty", got)
	}
}

func TestUpdateSpeakerOutOfRangeIsNoop(t *testing.T) {
	s := NewStore(nil)
	name := "Ada"
	s.UpdateSpeaker(5, SpeakerPatch{Name: &name})
	s.UpdateSpeaker(-1, SpeakerPatch{Name: &name})
	if got := s.Snapshot().Speakers[0].Name; got != "" {
		t.Errorf("speaker 0 name = %q, want empty", got)
	}
}

func TestUpdateSpeakerPartialMerge(t *testing.T) {
	s := NewStore(nil)
	name := "Ada Lovelace"
	s.UpdateSpeaker(0, SpeakerPatch{Name: &name})
	s.UpdateSpeaker(0, SpeakerPatch{Headshot: &ImageRef{Source: "/tmp/ada.png"}, SetHeadshot: true})

	got := s.Snapshot().Speakers[0]
	if got.Name != name {
		t.Errorf("name = %q, want %q (patch must merge, not replace)", got.Name, name)
	}
	if got.Headshot == nil || got.Headshot.Source != "/tmp/ada.png" {
		t.Errorf("headshot = %+v", got.Headshot)
	}

	// Clearing the image via SetHeadshot with nil ref.
	s.UpdateSpeaker(0, SpeakerPatch{SetHeadshot: true})
	if got := s.Snapshot().Speakers[0].Headshot; got != nil {
		t.Errorf("headshot = %+v, want nil", got)
	}
}

func TestReset(t *testing.T) {
	s := NewStore(nil)
	s.UpdateField(FieldTitle, "Scaling Postgres")
	s.UpdateSpeakerCount(3)
	s.Reset()

	got := s.Snapshot()
	def := DefaultState()
	if got.Title != def.Title || got.SpeakerCount != def.SpeakerCount || got.Variant != def.Variant {
		t.Errorf("reset state = %+v", got)
	}
}

func TestSnapshotIsolation(t *testing.T) {
	s := NewStore(nil)
	name := "Ada"
	s.UpdateSpeaker(0, SpeakerPatch{Name: &name, Headshot: &ImageRef{Source: "a.png"}, SetHeadshot: true})

	snap := s.Snapshot()
	snap.Speakers[0].Name = "mutated"
	snap.Speakers[0].Headshot.Source = "mutated.png"

	got := s.Snapshot().Speakers[0]
	if got.Name != "Ada" || got.Headshot.Source != "a.png" {
		t.Error("mutating a snapshot must not affect the store")
	}
}

func TestVisibleSpeakers(t *testing.T) {
	s := NewStore(nil)
	s.UpdateSpeakerCount(3)
	s.UpdateSpeakerCount(1)
	state := s.Snapshot()
	if got := len(state.VisibleSpeakers()); got != 1 {
		t.Errorf("visible speakers = %d, want 1", got)
	}
	if got := len(state.Speakers); got != 3 {
		t.Errorf("stored speakers = %d, want 3", got)
	}
}

func TestImageRefs(t *testing.T) {
	s := NewStore(nil)
	s.UpdateSpeakerCount(2)
	s.UpdateSpeaker(0, SpeakerPatch{Headshot: &ImageRef{Source: "h0.png"}, SetHeadshot: true})
	s.UpdateSpeaker(1, SpeakerPatch{Logo: &ImageRef{Source: "l1.png"}, SetLogo: true})
	s.UpdateField(FieldBackground, "image-road-1")

	refs := s.Snapshot().ImageRefs()
	if len(refs) != 3 {
		t.Fatalf("refs = %d, want 3 (headshot, logo, background)", len(refs))
	}

	// A hidden speaker's images are not part of the export wait set.
	s.UpdateSpeakerCount(1)
	refs = s.Snapshot().ImageRefs()
	if len(refs) != 2 {
		t.Errorf("refs = %d, want 2 after hiding speaker 2", len(refs))
	}
}
