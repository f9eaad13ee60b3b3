package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alexanderramin/planboard/internal/board"
	"github.com/alexanderramin/planboard/internal/cli/formatter"
	"github.com/alexanderramin/planboard/internal/domain"
	"github.com/alexanderramin/planboard/internal/dragdrop"
	"github.com/alexanderramin/planboard/internal/export"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type boardMode int

const (
	boardModeNormal boardMode = iota
	boardModeMove
	boardModeLibrary
	boardModeConfirmDelete
	boardModeBudget
	boardModeAdd
)

const statusPollInterval = 200 * time.Millisecond

// statusTickMsg polls the save indicator.
type statusTickMsg struct{}

// libraryLoadedMsg carries the templates for the library picker.
type libraryLoadedMsg struct {
	items []*domain.LibraryTactic
	err   error
}

// reloadedMsg reports the end of a manual reload.
type reloadedMsg struct{ err error }

// boardModel is the interactive board. Moving a card is a keyboard drag:
// grab starts a drag session, every arrow key is a hover over a lane or a
// neighbouring card, and enter drops.
type boardModel struct {
	ctx   context.Context
	app   *App
	board *board.Board

	status domain.SyncStatus
	mode   boardMode
	col    int
	row    int

	library   []*domain.LibraryTactic
	libCursor int

	input   textinput.Model
	keys    boardKeyMap
	help    help.Model
	width   int
	height  int
	message string
	err     error
}

func newBoardModel(ctx context.Context, app *App) *boardModel {
	in := textinput.New()
	in.CharLimit = 120
	m := &boardModel{
		ctx:   ctx,
		app:   app,
		input: in,
		keys:  defaultBoardKeys(),
		help:  help.New(),
	}
	m.refresh()
	return m
}

func (m *boardModel) Init() tea.Cmd {
	return pollStatus()
}

func pollStatus() tea.Cmd {
	return tea.Tick(statusPollInterval, func(time.Time) tea.Msg { return statusTickMsg{} })
}

// refresh pulls a fresh snapshot and keeps the cursor on the dragged card.
func (m *boardModel) refresh() {
	m.board = m.app.Session.Board()
	m.status = m.app.Session.Status()
	if id := m.app.Session.DragPreviewID(); id != "" {
		m.focus(id)
	}
	m.clampCursor()
}

func (m *boardModel) focus(tacticID string) {
	laneID, idx, ok := m.board.Locate(tacticID)
	if !ok {
		return
	}
	for i, l := range m.board.Lanes {
		if l.ID == laneID {
			m.col, m.row = i, idx
			return
		}
	}
}

func (m *boardModel) clampCursor() {
	if m.board == nil || len(m.board.Lanes) == 0 {
		m.col, m.row = 0, 0
		return
	}
	m.col = max(0, min(m.col, len(m.board.Lanes)-1))
	n := len(m.board.Lanes[m.col].Tactics)
	m.row = max(0, min(m.row, n-1))
}

func (m *boardModel) currentLane() (domain.Lane, bool) {
	if m.board == nil || m.col >= len(m.board.Lanes) {
		return domain.Lane{}, false
	}
	return m.board.Lanes[m.col], true
}

func (m *boardModel) currentTactic() (domain.Tactic, bool) {
	lane, ok := m.currentLane()
	if !ok || m.row >= len(lane.Tactics) {
		return domain.Tactic{}, false
	}
	return lane.Tactics[m.row], true
}

func (m *boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case statusTickMsg:
		m.status = m.app.Session.Status()
		return m, pollStatus()

	case libraryLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.mode = boardModeNormal
			return m, nil
		}
		m.library = msg.items
		m.libCursor = 0
		m.mode = boardModeLibrary
		return m, nil

	case reloadedMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.message = "Reloaded"
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case boardModeMove:
			return m.updateMove(msg)
		case boardModeLibrary:
			return m.updateLibrary(msg)
		case boardModeConfirmDelete:
			return m.updateConfirmDelete(msg)
		case boardModeBudget, boardModeAdd:
			return m.updateInput(msg)
		default:
			return m.updateNormal(msg)
		}
	}
	return m, nil
}

func (m *boardModel) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.message = ""
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.col--
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Right):
		if m.board != nil && m.col < len(m.board.Lanes)-1 {
			m.col++
			m.clampCursor()
		}
	case key.Matches(msg, m.keys.Down):
		if lane, ok := m.currentLane(); ok && m.row < len(lane.Tactics)-1 {
			m.row++
		}
	case key.Matches(msg, m.keys.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, m.keys.Grab):
		t, ok := m.currentTactic()
		if ok && m.app.Session.BeginDrag(dragdrop.BoardItem{TacticID: t.ID}) {
			m.mode = boardModeMove
			m.refresh()
		}
	case key.Matches(msg, m.keys.Library):
		return m, m.loadLibrary()
	case key.Matches(msg, m.keys.Add):
		m.startInput(boardModeAdd, "Title: ", "")
		return m, textinput.Blink
	case key.Matches(msg, m.keys.Budget):
		if t, ok := m.currentTactic(); ok {
			m.startInput(boardModeBudget, "Budget $", strconv.FormatFloat(t.Budget, 'f', -1, 64))
			return m, textinput.Blink
		}
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.currentTactic(); ok {
			m.mode = boardModeConfirmDelete
		}
	case key.Matches(msg, m.keys.Reload):
		m.message = "Reloading…"
		return m, m.reload()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

// updateMove turns keys into drag hovers: a lane key hovers the neighbouring
// lane container (append), an up/down key hovers the neighbouring card.
func (m *boardModel) updateMove(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), msg.String() == "q":
		m.app.Session.CancelDrag()
		m.mode = boardModeNormal
		m.message = "Move cancelled"
	case key.Matches(msg, m.keys.Drop):
		m.drop()
	case key.Matches(msg, m.keys.Left):
		if m.col > 0 {
			m.app.Session.DragOver(dragdrop.LaneTarget(m.board.Lanes[m.col-1].ID))
		}
	case key.Matches(msg, m.keys.Right):
		if m.col < len(m.board.Lanes)-1 {
			m.app.Session.DragOver(dragdrop.LaneTarget(m.board.Lanes[m.col+1].ID))
		}
	case key.Matches(msg, m.keys.Up):
		if lane, ok := m.currentLane(); ok && m.row > 0 {
			m.app.Session.DragOver(dragdrop.CardTarget(lane.Tactics[m.row-1].ID))
		}
	case key.Matches(msg, m.keys.Down):
		if lane, ok := m.currentLane(); ok && m.row < len(lane.Tactics)-1 {
			m.app.Session.DragOver(dragdrop.CardTarget(lane.Tactics[m.row+1].ID))
		}
	}
	m.refresh()
	return m, nil
}

func (m *boardModel) drop() {
	c, ok := m.app.Session.EndDrag()
	m.mode = boardModeNormal
	m.refresh()
	if !ok {
		m.message = "No change"
		return
	}
	m.focus(c.Tactic.ID)
	switch c.Kind {
	case dragdrop.CommitInsert:
		m.message = fmt.Sprintf("Added %s", c.Tactic.Title)
	default:
		m.message = fmt.Sprintf("Moved %s", c.Tactic.Title)
	}
}

func (m *boardModel) updateLibrary(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), msg.String() == "q":
		m.mode = boardModeNormal
	case key.Matches(msg, m.keys.Down):
		if m.libCursor < len(m.library)-1 {
			m.libCursor++
		}
	case key.Matches(msg, m.keys.Up):
		if m.libCursor > 0 {
			m.libCursor--
		}
	case msg.String() == "enter":
		if m.libCursor >= len(m.library) {
			m.mode = boardModeNormal
			return m, nil
		}
		lane, ok := m.currentLane()
		tpl := *m.library[m.libCursor]
		if !ok || !m.app.Session.BeginDrag(dragdrop.LibraryItem{Template: tpl}) {
			m.mode = boardModeNormal
			return m, nil
		}
		// The template becomes a card as soon as it hovers the current lane.
		m.app.Session.DragOver(dragdrop.LaneTarget(lane.ID))
		m.mode = boardModeMove
		m.refresh()
	}
	return m, nil
}

func (m *boardModel) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y":
		if t, ok := m.currentTactic(); ok && m.app.Session.DeleteTactic(t.ID) {
			m.message = fmt.Sprintf("Deleted %s", t.Title)
		}
		m.mode = boardModeNormal
		m.refresh()
	case "n", "esc":
		m.mode = boardModeNormal
	}
	return m, nil
}

func (m *boardModel) startInput(mode boardMode, prompt, value string) {
	m.mode = mode
	m.input.Prompt = prompt
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.input.Focus()
}

func (m *boardModel) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.input.Blur()
		m.mode = boardModeNormal
		return m, nil
	case "enter":
		value := m.input.Value()
		m.input.Blur()
		mode := m.mode
		m.mode = boardModeNormal
		m.submitInput(mode, value)
		m.refresh()
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *boardModel) submitInput(mode boardMode, value string) {
	switch mode {
	case boardModeAdd:
		lane, ok := m.currentLane()
		if !ok {
			return
		}
		t, err := m.app.Session.AddTactic(lane.ID, value, 0, "")
		if err != nil {
			m.err = err
			return
		}
		m.refresh()
		m.focus(t.ID)
		m.message = fmt.Sprintf("Added %s", t.Title)
	case boardModeBudget:
		t, ok := m.currentTactic()
		if !ok {
			return
		}
		if updated, changed := m.app.Session.SetBudget(t.ID, value); changed {
			m.message = fmt.Sprintf("%s budget: %s", updated.Title, export.Money(updated.Budget))
		}
	}
}

func (m *boardModel) loadLibrary() tea.Cmd {
	ctx, lib := m.ctx, m.app.Library
	return func() tea.Msg {
		items, err := lib.List(ctx, "")
		return libraryLoadedMsg{items: items, err: err}
	}
}

func (m *boardModel) reload() tea.Cmd {
	ctx, session := m.ctx, m.app.Session
	return func() tea.Msg {
		return reloadedMsg{err: session.Reload(ctx)}
	}
}

// ── view ─────────────────────────────────────────────────────────────────────

const laneWidth = 30

var (
	laneStyle         = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(formatter.ColorDim).Padding(0, 1).Width(laneWidth)
	selectedLaneStyle = laneStyle.BorderForeground(formatter.ColorHeader)
	cardStyle         = lipgloss.NewStyle().PaddingLeft(1)
	selectedCardStyle = lipgloss.NewStyle().PaddingLeft(1).Background(lipgloss.Color("236")).Bold(true)
	draggedCardStyle  = lipgloss.NewStyle().PaddingLeft(1).Foreground(formatter.ColorYellow).Bold(true)
)

func (m *boardModel) View() string {
	if m.board == nil {
		return formatter.Dim("No board loaded.") + "\n"
	}
	var s strings.Builder

	s.WriteString(fmt.Sprintf("%s  %s  %s\n\n",
		formatter.StyleHeader.Render("PLANBOARD"),
		formatter.Bold("Total "+export.Money(m.board.GrandTotal())),
		formatter.SyncBadge(m.status),
	))

	dragged := m.app.Session.DragPreviewID()
	cols := make([]string, len(m.board.Lanes))
	for i, lane := range m.board.Lanes {
		cols[i] = m.renderLane(i, lane, dragged)
	}
	s.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, cols...))
	s.WriteString("\n")

	if m.mode == boardModeLibrary {
		s.WriteString(m.renderLibrary())
	}

	switch {
	case m.err != nil:
		s.WriteString(formatter.StyleRed.Render("Error: "+m.err.Error()) + "\n")
	case m.mode == boardModeConfirmDelete:
		t, _ := m.currentTactic()
		s.WriteString(formatter.StyleYellow.Render(fmt.Sprintf("Delete %q? (y/n)", t.Title)) + "\n")
	case m.mode == boardModeAdd || m.mode == boardModeBudget:
		s.WriteString(m.input.View() + "\n")
	case m.message != "":
		s.WriteString(formatter.StyleGreen.Render(m.message) + "\n")
	default:
		s.WriteString("\n")
	}

	if m.mode == boardModeMove {
		s.WriteString(m.help.View(dragHelp{m.keys}))
	} else {
		s.WriteString(m.help.View(normalHelp{m.keys}))
	}
	return s.String()
}

func (m *boardModel) renderLane(index int, lane domain.Lane, dragged string) string {
	var s strings.Builder
	s.WriteString(formatter.StyleHeader.Render(lane.Title))
	s.WriteString(" " + formatter.Dim(export.Money(m.board.LaneTotal(lane.ID))))
	s.WriteString("\n\n")

	if len(lane.Tactics) == 0 {
		s.WriteString(formatter.Dim("(empty)"))
	}
	inner := laneWidth - 4
	for j, t := range lane.Tactics {
		line := formatter.Truncate(t.Title, inner-12)
		amount := export.Money(t.Budget)
		pad := inner - lipgloss.Width(line) - lipgloss.Width(amount) - 1
		if pad < 1 {
			pad = 1
		}
		text := line + strings.Repeat(" ", pad) + amount

		style := cardStyle
		switch {
		case t.ID == dragged:
			style = draggedCardStyle
		case index == m.col && j == m.row:
			style = selectedCardStyle
		}
		s.WriteString(style.Render(text))
		s.WriteString("\n")
	}

	if index == m.col {
		return selectedLaneStyle.Render(s.String())
	}
	return laneStyle.Render(s.String())
}

func (m *boardModel) renderLibrary() string {
	var s strings.Builder
	s.WriteString(formatter.Header("Library") + "\n")
	if len(m.library) == 0 {
		s.WriteString(formatter.Dim("Library is empty.") + "\n")
	}
	for i, l := range m.library {
		cursor := "  "
		if i == m.libCursor {
			cursor = formatter.StyleHeader.Render("▸ ")
		}
		s.WriteString(fmt.Sprintf("%s%s %s %s\n", cursor, l.Title,
			formatter.CategoryBadge(l.Category), formatter.Dim(export.Money(l.DefaultBudget))))
	}
	s.WriteString(formatter.Dim("enter: drag into lane • esc: close") + "\n")
	return s.String()
}
