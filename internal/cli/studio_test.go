package cli

import (
	"io"
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/errors"
	"github.com/vonderheiden/bannerforge/pkg/export"
)

func newTestStudio(t *testing.T) *studioModel {
	t.Helper()
	logger := newLogger(io.Discard, log.ErrorLevel)
	ws, err := newWorkspace(banner.DefaultState(), workspaceOpts{noCache: true}, logger)
	if err != nil {
		t.Fatalf("newWorkspace() error: %v", err)
	}
	t.Cleanup(func() { ws.Close(testContext(t)) })

	opts := &studioOpts{output: t.TempDir()}
	return newStudioModel(testContext(t), ws, opts)
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestStudioRowsFollowSpeakerCount(t *testing.T) {
	m := newTestStudio(t)

	// Nine fixed rows plus name/role per speaker.
	if got := len(m.rows); got != 9+2 {
		t.Fatalf("default row count = %d, want %d", got, 11)
	}

	m.ws.Store.UpdateSpeakerCount(3)
	m.rebuildRows()
	if got := len(m.rows); got != 9+6 {
		t.Errorf("panel row count = %d, want %d", got, 15)
	}
}

func TestStudioEditTitle(t *testing.T) {
	m := newTestStudio(t)

	m.Update(keyMsg("enter"))
	if !m.editing {
		t.Fatal("enter on the title row should start editing")
	}
	for range m.input {
		m.Update(keyMsg("backspace"))
	}
	for _, r := range "Kafka Deep Dive" {
		if r == ' ' {
			m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	m.Update(keyMsg("enter"))

	if m.editing {
		t.Error("commit should leave editing mode")
	}
	if got := m.ws.Store.Snapshot().Title; got != "Kafka Deep Dive" {
		t.Errorf("title = %q, want %q", got, "Kafka Deep Dive")
	}
}

func TestStudioEditEscapeDiscards(t *testing.T) {
	m := newTestStudio(t)
	before := m.ws.Store.Snapshot().Title

	m.Update(keyMsg("enter"))
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("zzz")})
	m.Update(keyMsg("esc"))

	if got := m.ws.Store.Snapshot().Title; got != before {
		t.Errorf("title = %q, want unchanged %q", got, before)
	}
}

func TestStudioCycleDimension(t *testing.T) {
	m := newTestStudio(t)

	// Move the cursor to the dimension row.
	m.Update(keyMsg("down"))
	m.Update(keyMsg("right"))

	if got := m.ws.Store.Snapshot().Dimension.Label; got != banner.LabelSquare {
		t.Errorf("dimension = %q, want %q", got, banner.LabelSquare)
	}

	m.Update(keyMsg("left"))
	if got := m.ws.Store.Snapshot().Dimension.Label; got != banner.LabelWide {
		t.Errorf("dimension = %q, want %q after cycling back", got, banner.LabelWide)
	}
}

func TestStudioCycleSpeakersRebuildsRows(t *testing.T) {
	m := newTestStudio(t)

	// Speakers is the last fixed row.
	m.cursor = 8
	m.Update(keyMsg("right"))

	st := m.ws.Store.Snapshot()
	if st.SpeakerCount != 2 || st.Variant != banner.VariantDuo {
		t.Errorf("state = %d speakers %q, want 2 duo", st.SpeakerCount, st.Variant)
	}
	if got := len(m.rows); got != 9+4 {
		t.Errorf("row count = %d, want %d", got, 13)
	}
}

func TestStudioWindowSizeScalesPreview(t *testing.T) {
	m := newTestStudio(t)

	m.Update(tea.WindowSizeMsg{Width: 80, Height: 40})

	if m.scale <= 0 || m.scale > 1 {
		t.Errorf("scale = %v, want in (0, 1]", m.scale)
	}
	// 80 cells is far narrower than 1200px, so the preview must shrink.
	if m.scale == 1 {
		t.Error("narrow terminal should scale the preview down")
	}
	if got := m.ws.Transform.Scale(); got != m.scale {
		t.Errorf("transform scale = %v, want %v", got, m.scale)
	}
}

func TestStudioExport(t *testing.T) {
	m := newTestStudio(t)

	_, cmd := m.Update(keyMsg("x"))
	if cmd == nil {
		t.Fatal("x should return an export command")
	}
	msg := cmd()
	done, ok := msg.(exportDoneMsg)
	if !ok {
		t.Fatalf("export produced %T, want exportDoneMsg", msg)
	}
	if done.err != nil {
		t.Fatalf("export error: %v", done.err)
	}

	m.Update(done)
	if m.exporting {
		t.Error("exportDoneMsg should clear the exporting flag")
	}
	if !strings.Contains(m.status, done.result.Filename) {
		t.Errorf("status %q should mention the artifact", m.status)
	}

	entries, err := os.ReadDir(m.opts.output)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("got %d artifacts, want 1", len(entries))
	}
}

func TestStudioExportWarnings(t *testing.T) {
	m := newTestStudio(t)
	m.exporting = true

	done := exportDoneMsg{result: &export.Result{
		Filename: "banner-1200x627-1.png",
		Warnings: []export.Warning{{
			Code:    errors.ErrCodeImageLoad,
			Message: "headshot fetch failed",
		}},
	}}
	m.Update(done)

	if !strings.Contains(m.status, string(errors.ErrCodeImageLoad)) {
		t.Errorf("status %q should surface the warning code", m.status)
	}
}

func TestStudioViewRendersFields(t *testing.T) {
	m := newTestStudio(t)

	view := m.View()
	for _, want := range []string{"Banner Studio", "Title", "Dimension", "Speaker 1 name"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}
