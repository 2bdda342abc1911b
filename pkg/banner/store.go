package banner

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/colors"
)

const defaultAccentColor = colors.DefaultAccent

// Field names a top-level State field for UpdateField.
type Field string

// Fields accepted by UpdateField. Speaker records and the dimension have
// dedicated operations and are not settable through UpdateField.
const (
	FieldTitle            Field = "title"
	FieldDate             Field = "date"
	FieldTime             Field = "time"
	FieldTimezone         Field = "timezone"
	FieldShowTimezone     Field = "show_timezone"
	FieldAccentColor      Field = "accent_color"
	FieldBackground       Field = "background_id"
	FieldCustomBackground Field = "custom_background"
)

// SpeakerPatch carries partial speaker fields for UpdateSpeaker. Nil
// pointer fields are left untouched; SetHeadshot/SetLogo distinguish
// "clear the image" from "leave it alone".
type SpeakerPatch struct {
	Name  *string
	Title *string

	Headshot    *ImageRef
	SetHeadshot bool

	Logo    *ImageRef
	SetLogo bool
}

// Store is the single source of truth for the banner state. All mutations
// are synchronous and install a new immutable snapshot under a mutex, so
// concurrent readers (preview, export, HTTP handlers) always observe a
// consistent aggregate.
type Store struct {
	mu     sync.Mutex
	state  State
	logger *log.Logger
}

// NewStore creates a store holding the default state. A nil logger
// discards log output.
func NewStore(logger *log.Logger) *Store {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Store{state: DefaultState(), logger: logger}
}

// NewStoreWithState creates a store seeded from an existing state, for
// loading saved documents. The variant is recomputed from the speaker
// count so a hand-edited document cannot put the two out of agreement.
func NewStoreWithState(state State, logger *log.Logger) *Store {
	s := NewStore(logger)
	state.Variant = SelectVariant(state.SpeakerCount)
	if len(state.Speakers) < state.SpeakerCount {
		for len(state.Speakers) < state.SpeakerCount {
			state.Speakers = append(state.Speakers, Speaker{})
		}
	}
	s.state = state.clone()
	return s
}

// Snapshot returns a read-only value copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// UpdateField replaces one top-level field. Unknown fields and invalid
// values are logged no-ops; the store is never left partially applied.
func (s *Store) UpdateField(field Field, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	switch field {
	case FieldTitle:
		v, ok := value.(string)
		if !ok {
			s.logger.Warn("ignoring non-string title", "field", field)
			return
		}
		next.Title = truncateRunes(v, MaxTitleLen)

	case FieldDate:
		v, ok := value.(string)
		if !ok || !validDate(v) {
			s.logger.Warn("ignoring invalid date", "value", value)
			return
		}
		next.Date = v

	case FieldTime:
		v, ok := value.(string)
		if !ok || !validClock(v) {
			s.logger.Warn("ignoring invalid time", "value", value)
			return
		}
		next.Time = v

	case FieldTimezone:
		v, ok := value.(Timezone)
		if !ok {
			if str, isStr := value.(string); isStr {
				v, ok = Timezone(str), true
			}
		}
		if !ok || !validTimezone(v) {
			s.logger.Warn("ignoring invalid timezone", "value", value)
			return
		}
		next.Timezone = v

	case FieldShowTimezone:
		v, ok := value.(bool)
		if !ok {
			s.logger.Warn("ignoring non-bool show_timezone", "value", value)
			return
		}
		next.ShowTimezone = v

	case FieldAccentColor:
		v, ok := value.(string)
		if !ok {
			s.logger.Warn("ignoring non-string accent color", "value", value)
			return
		}
		validated, accepted := colors.ValidateAccent(v)
		if !accepted {
			s.logger.Warn("accent color rejected, using default", "value", v, "default", validated)
		}
		next.AccentColor = validated

	case FieldBackground:
		v, ok := value.(string)
		if !ok {
			s.logger.Warn("ignoring non-string background id", "value", value)
			return
		}
		if v != BackgroundCustomID {
			if _, known := LookupBackground(v); !known {
				s.logger.Warn("unknown background id, keeping current", "value", v)
				return
			}
		}
		next.BackgroundID = v

	case FieldCustomBackground:
		switch v := value.(type) {
		case nil:
			next.CustomBackground = nil
		case *CustomBackground:
			next.CustomBackground = v
		case CustomBackground:
			next.CustomBackground = &v
		default:
			s.logger.Warn("ignoring invalid custom background", "value", value)
			return
		}

	default:
		s.logger.Warn("ignoring unknown field", "field", field)
		return
	}

	s.state = next
}

// UpdateSpeaker merges partial fields into the speaker at index i. An
// out-of-range index is a defensive no-op; the UI's fixed selector should
// make it unreachable.
func (s *Store) UpdateSpeaker(i int, patch SpeakerPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if i < 0 || i >= len(s.state.Speakers) {
		s.logger.Warn("speaker index out of range", "index", i, "len", len(s.state.Speakers))
		return
	}

	next := s.state.clone()
	sp := &next.Speakers[i]
	if patch.Name != nil {
		sp.Name = truncateRunes(*patch.Name, MaxNameLen)
	}
	if patch.Title != nil {
		sp.Title = truncateRunes(*patch.Title, MaxSpeakerLen)
	}
	if patch.SetHeadshot {
		sp.Headshot = patch.Headshot
	}
	if patch.SetLogo {
		sp.Logo = patch.Logo
	}
	s.state = next
}

// UpdateSpeakerCount sets the active speaker count and, atomically with it,
// the derived template variant. The stored speaker list only ever grows;
// dropping the count hides speakers without discarding their data.
func (s *Store) UpdateSpeakerCount(n int) {
	if n < 1 || n > MaxSpeakers {
		s.logger.Warn("speaker count out of range, ignoring", "count", n)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	for len(next.Speakers) < n {
		next.Speakers = append(next.Speakers, Speaker{})
	}
	next.SpeakerCount = n
	next.Variant = SelectVariant(n)
	s.state = next
}

// UpdateDimension applies d after validating it against the registry. An
// invalid dimension (non-positive extent or unknown label) is logged and
// replaced with the wide default rather than applied, defending against
// corrupted external input.
func (s *Store) UpdateDimension(d Dimension) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if !d.Valid() {
		s.logger.Warn("invalid dimension, falling back to wide default",
			"width", d.Width, "height", d.Height, "label", d.Label)
		next.Dimension = DefaultDimension()
	} else {
		next.Dimension = d
	}
	s.state = next
}

// Reset restores the full default state.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = DefaultState()
}

// validDate reports whether v is empty or an ISO calendar date.
func validDate(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", v)
	return err == nil
}

// validClock reports whether v is empty or a 24-hour HH:MM time.
func validClock(v string) bool {
	if v == "" {
		return true
	}
	_, err := time.Parse("15:04", v)
	return err == nil
}
