// Package picker is the interactive session and mark list.
//
// The picker shows every tmux session with its search-root selection and the
// saved marks. Rows are mapped to sessions and marks through an explicit row
// table rebuilt on every change, so the cursor never depends on how many
// header lines precede an entry.
package picker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/timvw/tmux-marks/internal/model"
)

// Engine is the picker's view of the running engine.
type Engine interface {
	Refresh(ctx context.Context) error
	ListSessions() []model.Session
	ToggleSelection(id string) (bool, error)
	ListMarks() []model.Mark
	DeleteMark(index int) bool
	Jump(ctx context.Context, path string, line int) (model.Target, error)
}

// Picker runs the interactive UI.
type Picker struct {
	Engine Engine
	Theme  string
	// Redraw is how often marks added through the control socket are picked
	// up. 0 disables polling.
	Redraw time.Duration
}

type rowKind int

const (
	rowHeader rowKind = iota
	rowSession
	rowMark
	rowEmpty
)

// row is one rendered line. Session rows carry the session id, mark rows the
// mark and its 1-based position at the time the rows were built.
type row struct {
	kind    rowKind
	title   string
	session model.Session
	mark    model.Mark
	index   int
}

func (r row) selectable() bool {
	return r.kind == rowSession || r.kind == rowMark
}

// messages
type refreshMsg struct{ err error }

type jumpMsg struct {
	target model.Target
	err    error
}

type tickMsg struct{}

type pickerModel struct {
	engine Engine
	ctx    context.Context
	redraw time.Duration

	keys   keyMap
	help   help.Model
	styles styles

	rows   []row
	cursor int

	width  int
	height int

	refreshing bool
	message    string
	isErr      bool
}

// Run starts the UI and blocks until the user quits.
func (p *Picker) Run(ctx context.Context) error {
	m := newModel(ctx, p.Engine, p.Theme, p.Redraw)
	prog := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := prog.Run()
	return err
}

func newModel(ctx context.Context, engine Engine, theme string, redraw time.Duration) *pickerModel {
	m := &pickerModel{
		engine: engine,
		ctx:    ctx,
		redraw: redraw,
		keys:   defaultKeyMap(),
		help:   help.New(),
		styles: newStyles(ThemeByName(theme)),
	}
	m.rebuild()
	return m
}

func (m *pickerModel) Init() tea.Cmd {
	m.refreshing = true
	return tea.Batch(m.doRefresh(), m.scheduleTick())
}

func (m *pickerModel) doRefresh() tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		return refreshMsg{err: engine.Refresh(ctx)}
	}
}

func (m *pickerModel) doJump(mk model.Mark) tea.Cmd {
	engine, ctx := m.engine, m.ctx
	return func() tea.Msg {
		target, err := engine.Jump(ctx, mk.Path, mk.Line)
		return jumpMsg{target: target, err: err}
	}
}

// scheduleTick returns nil when polling is disabled.
func (m *pickerModel) scheduleTick() tea.Cmd {
	if m.redraw <= 0 {
		return nil
	}
	return tea.Tick(m.redraw, func(time.Time) tea.Msg {
		return tickMsg{}
	})
}

// rebuild regenerates the row table from the engine and keeps the cursor on
// the same session or mark when it still exists.
func (m *pickerModel) rebuild() {
	var keep row
	if cur, ok := m.current(); ok {
		keep = cur
	}

	m.rows = m.rows[:0]
	m.rows = append(m.rows, row{kind: rowHeader, title: "Sessions"})
	sessions := m.engine.ListSessions()
	if len(sessions) == 0 {
		m.rows = append(m.rows, row{kind: rowEmpty, title: "no sessions"})
	}
	for _, s := range sessions {
		m.rows = append(m.rows, row{kind: rowSession, session: s})
	}

	m.rows = append(m.rows, row{kind: rowHeader, title: "Marks"})
	marks := m.engine.ListMarks()
	if len(marks) == 0 {
		m.rows = append(m.rows, row{kind: rowEmpty, title: "no marks"})
	}
	for i, mk := range marks {
		m.rows = append(m.rows, row{kind: rowMark, mark: mk, index: i + 1})
	}

	m.cursor = m.locate(keep)
}

// locate finds the row matching keep, falling back to the nearest selectable
// row at or after the old cursor.
func (m *pickerModel) locate(keep row) int {
	for i, r := range m.rows {
		switch {
		case keep.kind == rowSession && r.kind == rowSession && r.session.ID == keep.session.ID:
			return i
		case keep.kind == rowMark && r.kind == rowMark && r.index == keep.index && r.mark == keep.mark:
			return i
		}
	}
	start := m.cursor
	if start >= len(m.rows) {
		start = len(m.rows) - 1
	}
	for i := start; i < len(m.rows); i++ {
		if m.rows[i].selectable() {
			return i
		}
	}
	for i := start; i >= 0; i-- {
		if m.rows[i].selectable() {
			return i
		}
	}
	return 0
}

// current returns the row under the cursor if it is selectable.
func (m *pickerModel) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	r := m.rows[m.cursor]
	return r, r.selectable()
}

func (m *pickerModel) move(delta int) {
	for i := m.cursor + delta; i >= 0 && i < len(m.rows); i += delta {
		if m.rows[i].selectable() {
			m.cursor = i
			return
		}
	}
}

func (m *pickerModel) setStatus(msg string, isErr bool) {
	m.message = msg
	m.isErr = isErr
}

func (m *pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case refreshMsg:
		m.refreshing = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Refresh failed: %v", msg.err), true)
		}
		m.rebuild()
		return m, nil

	case jumpMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("Jump failed: %v", msg.err), true)
		} else {
			m.setStatus("Jumped to "+msg.target.String(), false)
		}
		m.rebuild()
		return m, nil

	case tickMsg:
		m.rebuild()
		return m, m.scheduleTick()
	}
	return m, nil
}

func (m *pickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.move(-1)

	case key.Matches(msg, m.keys.Down):
		m.move(1)

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, m.doRefresh()

	case key.Matches(msg, m.keys.Toggle):
		r, ok := m.current()
		if !ok || r.kind != rowSession {
			return m, nil
		}
		selected, err := m.engine.ToggleSelection(r.session.ID)
		if err != nil {
			m.setStatus(err.Error(), true)
		} else if selected {
			m.setStatus(r.session.Name+" is a search root", false)
		} else {
			m.setStatus(r.session.Name+" is no longer a search root", false)
		}
		m.rebuild()

	case key.Matches(msg, m.keys.Jump):
		r, ok := m.current()
		if !ok || r.kind != rowMark {
			return m, nil
		}
		m.setStatus(fmt.Sprintf("Jumping to %s:%d...", r.mark.Name, r.mark.Line), false)
		return m, m.doJump(r.mark)

	case key.Matches(msg, m.keys.Delete):
		r, ok := m.current()
		if !ok || r.kind != rowMark {
			return m, nil
		}
		m.deleteMark(r)
	}
	return m, nil
}

// deleteMark removes r's mark unless the list changed under the picker since
// the rows were built.
func (m *pickerModel) deleteMark(r row) {
	marks := m.engine.ListMarks()
	if r.index > len(marks) || marks[r.index-1] != r.mark {
		m.setStatus("Marks changed, try again", true)
		m.rebuild()
		return
	}
	if !m.engine.DeleteMark(r.index) {
		m.setStatus(fmt.Sprintf("No mark at %d", r.index), true)
	} else {
		m.setStatus("Deleted "+r.mark.Name, false)
	}
	m.rebuild()
}

func (m *pickerModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.title.Render("tmux-marks"))
	if m.refreshing {
		b.WriteString("  ")
		b.WriteString(m.styles.busy.Render("refreshing..."))
	}
	b.WriteString("\n")

	for i, r := range m.rows {
		b.WriteString(m.renderRow(r, i == m.cursor))
		b.WriteString("\n")
	}

	if m.message != "" {
		b.WriteString("\n")
		if m.isErr {
			b.WriteString(m.styles.err.Render(m.message))
		} else {
			b.WriteString(m.styles.dim.Render(m.message))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *pickerModel) renderRow(r row, focused bool) string {
	var line string
	switch r.kind {
	case rowHeader:
		return m.styles.header.Render(r.title) + " " + m.styles.rule.Render(strings.Repeat("─", 8))
	case rowEmpty:
		return "  " + m.styles.dim.Render(r.title)
	case rowSession:
		line = m.sessionLine(r.session)
	case rowMark:
		line = fmt.Sprintf("%2d  %s:%d  %s", r.index, r.mark.Name, r.mark.Line, m.styles.dim.Render(r.mark.Path))
	}
	if focused {
		return m.styles.cursor.Render("▸ ") + line
	}
	return "  " + line
}

func (m *pickerModel) sessionLine(s model.Session) string {
	box := m.styles.off.Render("[ ]")
	name := m.styles.off.Render(s.Name)
	if s.Selected {
		box = m.styles.on.Render("[x]")
		name = m.styles.text.Render(s.Name)
	}
	parts := []string{box, name}
	if s.HasEditor {
		parts = append(parts, m.styles.editor.Render("editor"))
	}
	if s.Attached {
		parts = append(parts, m.styles.dim.Render("attached"))
	}
	return strings.Join(parts, " ")
}
