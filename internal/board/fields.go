package board

import (
	"fmt"
	"strings"
	"time"

	"taskboard/internal/service"
)

// DateLayout is the calendar date format of the due date field.
const DateLayout = "2006-01-02"

// Field names an editable task field.
type Field int

const (
	FieldTitle Field = iota
	FieldDescription
	FieldDueDate
	FieldStatus
)

func (f Field) String() string {
	switch f {
	case FieldTitle:
		return "title"
	case FieldDescription:
		return "description"
	case FieldDueDate:
		return "due date"
	case FieldStatus:
		return "status"
	}
	return fmt.Sprintf("Field(%d)", int(f))
}

// Fields holds form values as entered. DueDate is a calendar date in
// DateLayout, or "" for none.
type Fields struct {
	Title       string
	Description string
	DueDate     string
	Status      service.Status
}

// Draft is the state of the create form.
type Draft = Fields

// NewDraft returns the empty create form: no title, no description, no
// due date, status Pending.
func NewDraft() Draft {
	return Draft{Status: service.StatusPending}
}

// Set assigns value to field. Status values go through
// service.ParseStatus; the other fields take the value verbatim.
func (f *Fields) Set(field Field, value string) error {
	switch field {
	case FieldTitle:
		f.Title = value
	case FieldDescription:
		f.Description = value
	case FieldDueDate:
		f.DueDate = value
	case FieldStatus:
		st, err := service.ParseStatus(value)
		if err != nil {
			return err
		}
		f.Status = st
	default:
		return fmt.Errorf("unknown field: %v", field)
	}
	return nil
}

// Get returns the value of field as it would be displayed in the form.
func (f Fields) Get(field Field) string {
	switch field {
	case FieldTitle:
		return f.Title
	case FieldDescription:
		return f.Description
	case FieldDueDate:
		return f.DueDate
	case FieldStatus:
		return string(f.Status)
	}
	return ""
}

// Due converts the due date field to a timestamp at midnight UTC.
// An empty field yields nil.
func (f Fields) Due() (*time.Time, error) {
	return ParseDueDate(f.DueDate)
}

// ParseDueDate converts a calendar date to a timestamp at midnight UTC.
// An empty or blank date yields nil.
func ParseDueDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid due date: %s", s)
	}
	return &t, nil
}

// FormatDueDate renders a due timestamp as a calendar date, or "" for nil.
func FormatDueDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// Input builds the create payload.
func (f Fields) Input() (service.TaskInput, error) {
	due, err := f.Due()
	if err != nil {
		return service.TaskInput{}, err
	}
	return service.TaskInput{
		Title:       f.Title,
		Description: f.Description,
		Status:      f.Status,
		DueDate:     due,
	}, nil
}
