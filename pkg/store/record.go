package store

import (
	"time"

	"github.com/google/uuid"

	"github.com/vonderheiden/bannerforge/pkg/banner"
)

// AssetType tags every record this tool writes, so shared collections
// can hold other asset kinds alongside banners.
const AssetType = "webinar_banner"

// titlePreviewLen bounds the denormalized title used in listings.
const titlePreviewLen = 80

// SpeakerMeta is the persisted shape of one speaker: identity plus
// flags for which assets were present, never the images themselves.
type SpeakerMeta struct {
	Name        string `json:"name" bson:"name"`
	Title       string `json:"title" bson:"title"`
	HasHeadshot bool   `json:"has_headshot" bson:"has_headshot"`
	HasLogo     bool   `json:"has_logo" bson:"has_logo"`
}

// Metadata is the state snapshot stored next to the artifact.
type Metadata struct {
	Title        string        `json:"title" bson:"title"`
	Dimension    string        `json:"dimension" bson:"dimension"`
	Width        int           `json:"width" bson:"width"`
	Height       int           `json:"height" bson:"height"`
	Variant      string        `json:"variant" bson:"variant"`
	AccentColor  string        `json:"accent_color" bson:"accent_color"`
	BackgroundID string        `json:"background_id" bson:"background_id"`
	Date         string        `json:"date,omitempty" bson:"date,omitempty"`
	Time         string        `json:"time,omitempty" bson:"time,omitempty"`
	Timezone     string        `json:"timezone" bson:"timezone"`
	ShowTimezone bool          `json:"show_timezone" bson:"show_timezone"`
	Speakers     []SpeakerMeta `json:"speakers" bson:"speakers"`
}

// Record is one persisted export.
type Record struct {
	ID           string    `json:"id" bson:"_id"`
	AssetType    string    `json:"asset_type" bson:"asset_type"`
	TemplateID   string    `json:"template_id" bson:"template_id"`
	TitlePreview string    `json:"title_preview" bson:"title_preview"`
	Metadata     Metadata  `json:"metadata" bson:"metadata"`
	PNG          []byte    `json:"-" bson:"png,omitempty"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
}

// NewRecord snapshots a state into a persistable record carrying the
// artifact bytes.
func NewRecord(st banner.State, png []byte) Record {
	speakers := st.VisibleSpeakers()
	metas := make([]SpeakerMeta, len(speakers))
	for i, sp := range speakers {
		metas[i] = SpeakerMeta{
			Name:        sp.Name,
			Title:       sp.Title,
			HasHeadshot: sp.Headshot != nil,
			HasLogo:     sp.Logo != nil,
		}
	}
	preview := st.Title
	if r := []rune(preview); len(r) > titlePreviewLen {
		preview = string(r[:titlePreviewLen])
	}
	return Record{
		ID:           uuid.NewString(),
		AssetType:    AssetType,
		TemplateID:   string(st.Variant),
		TitlePreview: preview,
		Metadata: Metadata{
			Title:        st.Title,
			Dimension:    string(st.Dimension.Label),
			Width:        st.Dimension.Width,
			Height:       st.Dimension.Height,
			Variant:      string(st.Variant),
			AccentColor:  st.AccentColor,
			BackgroundID: st.BackgroundID,
			Date:         st.Date,
			Time:         st.Time,
			Timezone:     string(st.Timezone),
			ShowTimezone: st.ShowTimezone,
			Speakers:     metas,
		},
		PNG:       png,
		CreatedAt: time.Now().UTC(),
	}
}
