// Package tui implements the interactive terminal board.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

// focus is the part of the screen receiving keys.
type focus int

const (
	focusList focus = iota
	focusCreate
	focusEdit
)

// Key constants.
const (
	keyEsc   = "esc"
	keyDown  = "down"
	keyUp    = "up"
	keyEnter = "enter"
)

// Model is the top-level bubbletea model. Every backend call runs as a
// tea.Cmd; its result comes back as a message and is applied to the board
// in Update.
type Model struct {
	ctx   context.Context
	board *board.Board
	svc   service.Service
	nav   *board.Recorder

	focus     focus
	cursor    int
	create    form
	edit      form
	loggedOut bool
	width     int

	// fieldErr is the last error from writing a form field to the board.
	fieldErr string
}

// New creates a Model over b. svc must be the service b was created with
// and nav the navigator b reports to.
func New(ctx context.Context, b *board.Board, svc service.Service, nav *board.Recorder) *Model {
	m := &Model{
		ctx:    ctx,
		board:  b,
		svc:    svc,
		nav:    nav,
		create: newForm(),
		edit:   newForm(),
	}
	m.create.load(b.Draft())
	return m
}

// LoggedOut reports whether the user logged out from the board.
func (m *Model) LoggedOut() bool { return m.loggedOut }

// Init implements tea.Model. It loads the list.
func (m *Model) Init() tea.Cmd {
	return m.refresh()
}

// --- Messages ---

type tasksLoadedMsg struct {
	seq   uint64
	tasks []service.Task
	err   error
}

type createdMsg struct{ err error }

type updatedMsg struct {
	id  int64
	err error
}

type deletedMsg struct{ err error }

// --- Commands ---

func (m *Model) refresh() tea.Cmd {
	seq := m.board.BeginRefresh()
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		tasks, err := svc.ListTasks(ctx)
		return tasksLoadedMsg{seq: seq, tasks: tasks, err: err}
	}
}

func (m *Model) submitCreate() tea.Cmd {
	in, err := m.board.CreateRequest()
	if err != nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.CreateTask(ctx, in)
		return createdMsg{err: err}
	}
}

func (m *Model) submitEdit() tea.Cmd {
	id, t, err := m.board.UpdateRequest()
	if err != nil {
		return nil
	}
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		_, err := svc.UpdateTask(ctx, id, t)
		return updatedMsg{id: id, err: err}
	}
}

func (m *Model) deleteTask(id int64) tea.Cmd {
	ctx, svc := m.ctx, m.svc
	return func() tea.Msg {
		return deletedMsg{err: svc.DeleteTask(ctx, id)}
	}
}

// --- Update ---

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tasksLoadedMsg:
		m.board.FinishRefresh(msg.seq, msg.tasks, msg.err)
		m.clampCursor()
		return m.afterCall(nil)
	case createdMsg:
		if m.board.FinishCreate(msg.err) {
			m.create.load(m.board.Draft())
			if m.focus == focusCreate {
				m.focus = focusList
			}
			return m.afterCall(m.refresh())
		}
		return m.afterCall(nil)
	case updatedMsg:
		if m.board.FinishUpdate(msg.id, msg.err) {
			if _, editing := m.board.Edit().Editing(); m.focus == focusEdit && !editing {
				m.focus = focusList
			}
			return m.afterCall(m.refresh())
		}
		return m.afterCall(nil)
	case deletedMsg:
		if m.board.FinishDelete(msg.err) {
			return m.afterCall(m.refresh())
		}
		return m.afterCall(nil)
	}
	return m, nil
}

// afterCall quits when the last call sent the user to the login route.
func (m *Model) afterCall(next tea.Cmd) (tea.Model, tea.Cmd) {
	if m.nav.Route() == board.RouteLogin {
		return m, tea.Quit
	}
	return m, next
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, key.NewBinding(key.WithKeys("ctrl+c"))) {
		return m, tea.Quit
	}

	switch m.focus {
	case focusCreate:
		return m.handleCreateKey(msg)
	case focusEdit:
		return m.handleEditKey(msg)
	}
	return m.handleListKey(msg)
}

func (m *Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", keyEsc:
		return m, tea.Quit
	case "j", keyDown:
		m.cursor++
		m.clampCursor()
	case "k", keyUp:
		m.cursor--
		m.clampCursor()
	case "n":
		m.focus = focusCreate
		m.create.focus(board.FieldTitle)
	case "e", keyEnter:
		if t, ok := m.selected(); ok {
			if _, err := m.board.StartEdit(t.ID); err == nil {
				m.edit.load(m.board.Edit().Buffer().Fields)
				m.focus = focusEdit
			}
		}
	case "o":
		if _, editing := m.board.Edit().Editing(); editing {
			m.focus = focusEdit
		}
	case "d":
		if t, ok := m.selected(); ok {
			return m, m.deleteTask(t.ID)
		}
	case "r":
		return m, m.refresh()
	case "L":
		m.loggedOut = m.board.Logout() == nil
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) handleCreateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc, "ctrl+o":
		m.focus = focusList
		return m, nil
	case "tab", keyDown:
		m.create.next()
		return m, nil
	case "shift+tab", keyUp:
		m.create.prev()
		return m, nil
	case keyEnter:
		return m, m.submitCreate()
	}
	if field, value, changed := m.create.handleKey(msg); changed {
		m.setField(m.board.SetDraftField, field, value)
	}
	return m, nil
}

func (m *Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case keyEsc:
		m.board.CancelEdit()
		m.focus = focusList
		return m, nil
	case "ctrl+o":
		m.focus = focusList
		return m, nil
	case "tab", keyDown:
		m.edit.next()
		return m, nil
	case "shift+tab", keyUp:
		m.edit.prev()
		return m, nil
	case keyEnter:
		return m, m.submitEdit()
	}
	if field, value, changed := m.edit.handleKey(msg); changed {
		m.setField(m.board.SetEditField, field, value)
	}
	return m, nil
}

// setField writes one form field through set. A rejected value is shown
// under the form until the next accepted one.
func (m *Model) setField(set func(board.Field, string) error, field board.Field, value string) {
	if err := set(field, value); err != nil {
		m.fieldErr = err.Error()
		return
	}
	m.fieldErr = ""
}

func (m *Model) selected() (service.Task, bool) {
	tasks := m.board.Tasks()
	if m.cursor < 0 || m.cursor >= len(tasks) {
		return service.Task{}, false
	}
	return tasks[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.board.Tasks())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	headingStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)

	labelStyle       = lipgloss.NewStyle().Width(14).Foreground(lipgloss.Color("241"))
	activeLabelStyle = lipgloss.NewStyle().Width(14).Bold(true).Foreground(lipgloss.Color("62"))

	cursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("62")).Bold(true)

	dimStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2)

	badgeStyles = map[board.Badge]lipgloss.Style{
		board.BadgeSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		board.BadgeWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		board.BadgeNeutral: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
)

func badge(s service.Status) string {
	label := string(s)
	if label == "" {
		label = string(service.StatusPending)
	}
	return badgeStyles[board.BadgeFor(s)].Render(fmt.Sprintf("[%s]", label))
}

// --- View ---

// View implements tea.Model.
func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("TaskBoard"))
	b.WriteString("\n")
	if msg := m.board.Banner(); msg != "" {
		b.WriteString(errorStyle.Render(msg))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(m.viewRows())

	switch m.focus {
	case focusCreate:
		b.WriteString("\n")
		b.WriteString(m.create.view("New task"))
		b.WriteString("\n")
	case focusEdit:
		b.WriteString("\n")
		b.WriteString(m.edit.view(fmt.Sprintf("Edit task %d", m.board.Edit().Buffer().ID)))
		b.WriteString("\n")
	}
	if m.focus != focusList && m.fieldErr != "" {
		b.WriteString(errorStyle.Render(m.fieldErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(statusBarStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) viewRows() string {
	tasks := m.board.Tasks()
	if len(tasks) == 0 {
		return dimStyle.Render("No tasks yet. Press n to add one.") + "\n"
	}

	editing, _ := m.board.Edit().Editing()

	var b strings.Builder
	for i, t := range tasks {
		marker := "  "
		if i == m.cursor && m.focus == focusList {
			marker = cursorStyle.Render("> ")
		}
		line := fmt.Sprintf("%s%4d  %s  %s", marker, t.ID, badge(t.Status), t.Title)
		if due := board.FormatDueDate(t.DueDate); due != "" {
			line += dimStyle.Render("  due " + due)
		}
		if t.ID == editing {
			line += dimStyle.Render("  (editing)")
		}
		b.WriteString(line)
		b.WriteString("\n")
		if t.Description != "" {
			b.WriteString(dimStyle.Render("        " + t.Description))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *Model) helpLine() string {
	switch m.focus {
	case focusCreate:
		return "tab: next field  left/right: status  enter: create  esc: back"
	case focusEdit:
		return "tab: next field  left/right: status  enter: save  esc: cancel  ctrl+o: back"
	}
	return "j/k: move  n: new  e: edit  o: open edit  d: delete  r: refresh  L: logout  q: quit"
}
