package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

// form is the create or edit form: three text inputs and a status picker.
type form struct {
	inputs [board.FieldStatus]textinput.Model // title, description, due date
	status service.Status
	field  board.Field
}

func newForm() form {
	var f form
	placeholders := [board.FieldStatus]string{
		board.FieldTitle:       "Title",
		board.FieldDescription: "Description (optional)",
		board.FieldDueDate:     "YYYY-MM-DD (optional)",
	}
	limits := [board.FieldStatus]int{
		board.FieldTitle:       200,
		board.FieldDescription: 1000,
		board.FieldDueDate:     len(board.DateLayout),
	}
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = limits[i]
		ti.Width = 40
		ti.Prompt = ""
		ti.Cursor.SetMode(cursor.CursorStatic)
		f.inputs[i] = ti
	}
	f.status = service.StatusPending
	f.focus(board.FieldTitle)
	return f
}

// load copies v into the inputs and focuses the title.
func (f *form) load(v board.Fields) {
	for i := range f.inputs {
		f.inputs[i].SetValue(v.Get(board.Field(i)))
		f.inputs[i].CursorEnd()
	}
	f.status = v.Status
	f.focus(board.FieldTitle)
}

func (f *form) focus(field board.Field) {
	f.field = field
	for i := range f.inputs {
		if board.Field(i) == field {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *form) next() { f.focus((f.field + 1) % (board.FieldStatus + 1)) }

func (f *form) prev() { f.focus((f.field + board.FieldStatus) % (board.FieldStatus + 1)) }

// handleKey feeds msg to the focused field. It reports the field and its
// new value when the value changed.
func (f *form) handleKey(msg tea.KeyMsg) (board.Field, string, bool) {
	if f.field == board.FieldStatus {
		prev := f.status
		switch msg.String() {
		case "left", "h":
			f.status = f.status.Prev()
		case "right", "l", " ":
			f.status = f.status.Next()
		}
		return board.FieldStatus, string(f.status), f.status != prev
	}

	in := &f.inputs[f.field]
	before := in.Value()
	*in, _ = in.Update(msg)
	return f.field, in.Value(), in.Value() != before
}

func (f *form) view(heading string) string {
	labels := [board.FieldStatus + 1]string{"Title", "Description", "Due", "Status"}

	var b strings.Builder
	b.WriteString(headingStyle.Render(heading))
	b.WriteString("\n")
	for i := range labels {
		field := board.Field(i)
		label := labelStyle.Render(labels[i])
		if field == f.field {
			label = activeLabelStyle.Render(labels[i])
		}
		b.WriteString(label)
		if field == board.FieldStatus {
			b.WriteString("< " + badge(f.status) + " >")
		} else {
			b.WriteString(f.inputs[i].View())
		}
		b.WriteString("\n")
	}
	return dialogStyle.Render(strings.TrimRight(b.String(), "\n"))
}
