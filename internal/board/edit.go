package board

import "taskboard/internal/service"

// EditState is the state of an EditSession.
type EditState int

const (
	// EditIdle means no row is being edited.
	EditIdle EditState = iota
	// EditEditing means exactly one row is being edited.
	EditEditing
)

func (s EditState) String() string {
	if s == EditEditing {
		return "editing"
	}
	return "idle"
}

// EditBuffer is the working copy of the task being edited. ID and OwnerID
// are carried as received and sent back unchanged.
type EditBuffer struct {
	ID      int64
	OwnerID int64
	Fields
}

// Task builds the update body from the buffer.
func (b EditBuffer) Task() (service.Task, error) {
	due, err := b.Due()
	if err != nil {
		return service.Task{}, err
	}
	return service.Task{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		DueDate:     due,
		OwnerID:     b.OwnerID,
	}, nil
}

// EditSession is the per-view edit state machine:
//
//	Idle --Start(t)--> Editing(t.ID)
//	Editing(a) --Start(b)--> Editing(b)   a's buffer is dropped
//	Editing --Cancel--> Idle
//	Editing --Commit--> Idle
//
// The zero value is Idle.
type EditSession struct {
	state EditState
	buf   EditBuffer
}

// State returns the current state.
func (s *EditSession) State() EditState { return s.state }

// Editing reports whether a row is being edited, and which.
func (s *EditSession) Editing() (int64, bool) {
	return s.buf.ID, s.state == EditEditing
}

// Buffer returns a copy of the edit buffer. It is the zero value when Idle.
func (s *EditSession) Buffer() EditBuffer { return s.buf }

// Start begins editing t with a buffer copied from it. Any buffer already
// open is discarded without confirmation; replaced reports whether that
// happened.
func (s *EditSession) Start(t service.Task) (replaced bool) {
	replaced = s.state == EditEditing
	s.state = EditEditing
	s.buf = EditBuffer{
		ID:      t.ID,
		OwnerID: t.OwnerID,
		Fields: Fields{
			Title:       t.Title,
			Description: t.Description,
			DueDate:     FormatDueDate(t.DueDate),
			Status:      t.Status,
		},
	}
	return replaced
}

// Set changes one field of the buffer. It fails when Idle.
func (s *EditSession) Set(field Field, value string) error {
	if s.state != EditEditing {
		return ErrNotEditing
	}
	return s.buf.Set(field, value)
}

// Cancel drops the buffer and returns to Idle.
func (s *EditSession) Cancel() {
	s.state = EditIdle
	s.buf = EditBuffer{}
}

// Commit returns to Idle after a successful save of task id. If a newer
// edit of another task has started since, it is left alone.
func (s *EditSession) Commit(id int64) {
	if s.state == EditEditing && s.buf.ID == id {
		s.Cancel()
	}
}
