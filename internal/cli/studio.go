package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/export"
	"github.com/vonderheiden/bannerforge/pkg/preview"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listEditStyle     = lipgloss.NewStyle().Foreground(colorYellow)
)

// Terminal cells are not square; assume a conventional cell footprint so
// the preview scale derived from the window size tracks pixels roughly.
const (
	cellWidthPx  = 8
	cellHeightPx = 16
	chromeRows   = 8 // header, help, and status rows around the field list
)

// studioOpts holds the command-line flags for the studio command.
type studioOpts struct {
	output   string // output directory for exported artifacts
	cacheDir string // artifact cache directory override
	noCache  bool   // disable the artifact cache
	save     bool   // persist catalog records on export
	catalog  string // catalog directory used when save is set
	font     string // custom font family to prefer
}

// newStudioCmd creates the studio command, an interactive terminal editor
// for banner documents with live preview scaling and on-demand export.
func newStudioCmd() *cobra.Command {
	opts := studioOpts{
		output:  ".",
		catalog: "banners",
	}

	cmd := &cobra.Command{
		Use:   "studio [document]",
		Short: "Edit a banner interactively and export on demand",
		Long: `Studio opens an interactive editor over a banner document (or a fresh
default banner). Fields are edited in place, enum fields cycle with the
arrow keys, and "x" exports the current state at 2x pixel ratio.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			return runStudio(cmd.Context(), path, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory for exported artifacts")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.save, "save", false, "persist catalog records on export")
	cmd.Flags().StringVar(&opts.catalog, "catalog", opts.catalog, "catalog directory (with --save)")
	cmd.Flags().StringVar(&opts.font, "font", "", "custom font family to prefer")

	return cmd
}

// runStudio loads the optional document and runs the editor program.
func runStudio(ctx context.Context, path string, opts *studioOpts) error {
	logger := loggerFromContext(ctx)

	st := banner.DefaultState()
	if path != "" {
		doc, err := banner.LoadDocument(path)
		if err != nil {
			return err
		}
		st, err = doc.ToState()
		if err != nil {
			return err
		}
	}

	wsOpts := workspaceOpts{
		customFont: opts.font,
		noCache:    opts.noCache,
		cacheDir:   opts.cacheDir,
	}
	if opts.save {
		wsOpts.catalogDir = opts.catalog
	}
	ws, err := newWorkspace(st, wsOpts, logger)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	model := newStudioModel(ctx, ws, opts)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err = p.Run()
	return err
}

// =============================================================================
// StudioModel - Interactive banner editing
// =============================================================================

// rowKind distinguishes how a field row is edited.
type rowKind int

const (
	rowText   rowKind = iota // free text, edited in place
	rowCycle                 // enum, cycled with left/right
	rowToggle                // boolean, flipped with left/right or enter
)

// studioRow is one editable line in the field list.
type studioRow struct {
	label string
	kind  rowKind

	value func(banner.State) string
	// set applies a committed text edit (rowText only).
	set func(string)
	// cycle advances the value by delta (rowCycle and rowToggle).
	cycle func(banner.State, int)
}

// exportDoneMsg reports a finished export back to the model.
type exportDoneMsg struct {
	result *export.Result
	err    error
}

// studioModel is the bubbletea model for the interactive editor.
type studioModel struct {
	ctx  context.Context
	ws   *workspace
	opts *studioOpts

	rows   []studioRow
	cursor int

	editing bool
	input   string

	termWidth  int
	termHeight int
	scale      float64

	exporting bool
	status    string
}

// newStudioModel builds the editor model over a workspace.
func newStudioModel(ctx context.Context, ws *workspace, opts *studioOpts) *studioModel {
	m := &studioModel{ctx: ctx, ws: ws, opts: opts, scale: 1}
	m.rebuildRows()
	return m
}

// rebuildRows regenerates the field list. Speaker rows depend on the
// current speaker count, so this runs after every count change.
func (m *studioModel) rebuildRows() {
	store := m.ws.Store

	rows := []studioRow{
		{
			label: "Title", kind: rowText,
			value: func(st banner.State) string { return st.Title },
			set:   func(v string) { store.UpdateField(banner.FieldTitle, v) },
		},
		{
			label: "Dimension", kind: rowCycle,
			value: func(st banner.State) string {
				return fmt.Sprintf("%s (%dx%d)", st.Dimension.Label, st.Dimension.Width, st.Dimension.Height)
			},
			cycle: func(st banner.State, delta int) {
				dims := banner.Dimensions()
				i := 0
				for j, d := range dims {
					if d.Label == st.Dimension.Label {
						i = j
					}
				}
				store.UpdateDimension(dims[wrap(i+delta, len(dims))])
			},
		},
		{
			label: "Date", kind: rowText,
			value: func(st banner.State) string { return st.Date },
			set:   func(v string) { store.UpdateField(banner.FieldDate, v) },
		},
		{
			label: "Time", kind: rowText,
			value: func(st banner.State) string { return st.Time },
			set:   func(v string) { store.UpdateField(banner.FieldTime, v) },
		},
		{
			label: "Timezone", kind: rowCycle,
			value: func(st banner.State) string { return string(st.Timezone) },
			cycle: func(st banner.State, delta int) {
				i := 0
				for j, tz := range banner.Timezones {
					if tz == st.Timezone {
						i = j
					}
				}
				store.UpdateField(banner.FieldTimezone, banner.Timezones[wrap(i+delta, len(banner.Timezones))])
			},
		},
		{
			label: "Show timezone", kind: rowToggle,
			value: func(st banner.State) string { return onOff(st.ShowTimezone) },
			cycle: func(st banner.State, delta int) {
				store.UpdateField(banner.FieldShowTimezone, !st.ShowTimezone)
			},
		},
		{
			label: "Accent color", kind: rowText,
			value: func(st banner.State) string { return st.AccentColor },
			set:   func(v string) { store.UpdateField(banner.FieldAccentColor, v) },
		},
		{
			label: "Background", kind: rowCycle,
			value: func(st banner.State) string { return st.BackgroundID },
			cycle: func(st banner.State, delta int) {
				ids := backgroundIDs()
				i := 0
				for j, id := range ids {
					if id == st.BackgroundID {
						i = j
					}
				}
				store.UpdateField(banner.FieldBackground, ids[wrap(i+delta, len(ids))])
			},
		},
		{
			label: "Speakers", kind: rowCycle,
			value: func(st banner.State) string {
				return fmt.Sprintf("%d (%s)", st.SpeakerCount, st.Variant)
			},
			cycle: func(st banner.State, delta int) {
				n := st.SpeakerCount + delta
				if n < 1 {
					n = banner.MaxSpeakers
				}
				if n > banner.MaxSpeakers {
					n = 1
				}
				store.UpdateSpeakerCount(n)
			},
		},
	}

	st := store.Snapshot()
	for i := 0; i < st.SpeakerCount; i++ {
		i := i
		rows = append(rows,
			studioRow{
				label: fmt.Sprintf("Speaker %d name", i+1), kind: rowText,
				value: func(st banner.State) string {
					return speakerField(st, i, func(sp banner.Speaker) string { return sp.Name })
				},
				set: func(v string) {
					store.UpdateSpeaker(i, banner.SpeakerPatch{Name: &v})
				},
			},
			studioRow{
				label: fmt.Sprintf("Speaker %d role", i+1), kind: rowText,
				value: func(st banner.State) string {
					return speakerField(st, i, func(sp banner.Speaker) string { return sp.Title })
				},
				set: func(v string) {
					store.UpdateSpeaker(i, banner.SpeakerPatch{Title: &v})
				},
			},
		)
	}

	m.rows = rows
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
}

func (m *studioModel) Init() tea.Cmd {
	return nil
}

func (m *studioModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.termWidth = msg.Width
		m.termHeight = msg.Height
		m.refit()
		return m, nil

	case exportDoneMsg:
		m.exporting = false
		if msg.err != nil {
			m.status = styleIconError.Render(iconError) + " " + msg.err.Error()
			return m, nil
		}
		m.status = styleIconSuccess.Render(iconSuccess) + " " + msg.result.Filename
		if msg.result.CacheInfo.ArtifactHit {
			m.status += " " + styleCached.Render(iconCached)
		}
		for _, w := range msg.result.Warnings {
			m.status += " " + styleIconWarning.Render(iconWarning) + " " + string(w.Code)
		}
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

// updateEditing handles keys while a text row is being edited.
func (m *studioModel) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.rows[m.cursor].set(m.input)
		m.editing = false
	case "esc":
		m.editing = false
	case "backspace":
		if len(m.input) > 0 {
			r := []rune(m.input)
			m.input = string(r[:len(r)-1])
		}
	default:
		switch msg.Type {
		case tea.KeySpace:
			m.input += " "
		case tea.KeyRunes:
			m.input += string(msg.Runes)
		}
	}
	return m, nil
}

// updateBrowsing handles keys while navigating the field list.
func (m *studioModel) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case "left", "h":
		m.cycleRow(-1)
	case "right", "l":
		m.cycleRow(1)
	case "enter", "e":
		row := m.rows[m.cursor]
		switch row.kind {
		case rowText:
			m.editing = true
			m.input = row.value(m.ws.Store.Snapshot())
		case rowToggle, rowCycle:
			m.cycleRow(1)
		}
	case "r":
		m.ws.Store.Reset()
		m.rebuildRows()
		m.refit()
		m.status = listDimStyle.Render("reset to defaults")
	case "x":
		if m.exporting {
			return m, nil
		}
		m.exporting = true
		m.status = styleIconSpinner.Render("…") + " " + listDimStyle.Render("exporting")
		return m, m.exportCmd()
	}
	return m, nil
}

// cycleRow advances an enum or toggle row and refreshes anything derived
// from the changed field.
func (m *studioModel) cycleRow(delta int) {
	row := m.rows[m.cursor]
	if row.cycle == nil {
		return
	}
	before := m.ws.Store.Snapshot()
	row.cycle(before, delta)
	after := m.ws.Store.Snapshot()
	if after.SpeakerCount != before.SpeakerCount {
		m.rebuildRows()
	}
	if after.Dimension.Label != before.Dimension.Label {
		m.refit()
	}
}

// refit recomputes the preview scale for the current terminal size and
// banner dimension.
func (m *studioModel) refit() {
	d := m.ws.Store.Snapshot().Dimension
	rows := m.termHeight - chromeRows - len(m.rows)
	if rows < 1 {
		rows = 1
	}
	m.scale = m.ws.Scaler.Fit(preview.Viewport{
		Width:  m.termWidth * cellWidthPx,
		Height: rows * cellHeightPx,
	}, d)
}

// exportCmd runs the export off the update loop.
func (m *studioModel) exportCmd() tea.Cmd {
	ctx := m.ctx
	ws := m.ws
	opts := m.opts
	return func() tea.Msg {
		result, err := ws.Runner.Execute(ctx, export.Options{
			PixelRatio:  export.DefaultPixelRatio,
			OutputDir:   opts.output,
			Persist:     opts.save,
			SettleDelay: -1,
		})
		return exportDoneMsg{result: result, err: err}
	}
}

func (m *studioModel) View() string {
	var b strings.Builder

	st := m.ws.Store.Snapshot()

	b.WriteString(StyleTitle.Render("Banner Studio"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ←/→ cycle  ⏎ edit  x export  r reset  q quit"))
	b.WriteString("\n\n")

	for i, row := range m.rows {
		cursor := "  "
		style := listNormalStyle
		if i == m.cursor {
			cursor = "▸ "
			style = listSelectedStyle
		}

		value := row.value(st)
		if m.editing && i == m.cursor {
			value = listEditStyle.Render(m.input + "█")
		} else if value == "" {
			value = listDimStyle.Render("—")
		}

		label := fmt.Sprintf("%-16s", row.label)
		b.WriteString(cursor + style.Render(label) + " " + value + "\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf(
		"preview %s at %s%% (%dx%d)",
		st.Dimension.Label,
		strconv.Itoa(int(m.scale*100)),
		int(float64(st.Dimension.Width)*m.scale),
		int(float64(st.Dimension.Height)*m.scale),
	)))
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// wrap folds i into [0, n).
func wrap(i, n int) int {
	return ((i % n) + n) % n
}

// onOff renders a boolean for the field list.
func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// speakerField reads one field of the i-th speaker, tolerating short
// slices during count transitions.
func speakerField(st banner.State, i int, get func(banner.Speaker) string) string {
	if i >= len(st.Speakers) {
		return ""
	}
	return get(st.Speakers[i])
}

// backgroundIDs lists the cyclable background IDs, presets first.
func backgroundIDs() []string {
	presets := banner.Backgrounds()
	ids := make([]string, 0, len(presets))
	for _, bg := range presets {
		ids = append(ids, bg.ID)
	}
	return ids
}
