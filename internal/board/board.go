package board

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"taskboard/internal/logging"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

// Fallback banner messages, used when the server gives no message of its own.
const (
	MsgFetchFailed  = "Failed to fetch tasks"
	MsgCreateFailed = "Failed to create task"
	MsgUpdateFailed = "Failed to update task"
	MsgDeleteFailed = "Failed to delete task"
)

var (
	// ErrNotEditing is returned by edit operations when no row is being edited.
	ErrNotEditing = errors.New("no task is being edited")

	// ErrLoggedOut is returned by Mount when no session token is stored.
	ErrLoggedOut = errors.New("not logged in")
)

// Board is the TaskBoard view state. Create one with New.
type Board struct {
	svc   service.Service
	store session.Store
	nav   Navigator
	log   *slog.Logger

	tasks  []service.Task
	draft  Draft
	edit   EditSession
	banner string

	issued  uint64 // sequence number of the last refresh started
	applied uint64 // sequence number of the last refresh applied
}

// Option configures a Board.
type Option func(*Board)

// WithLogger sets the debug logger.
func WithLogger(log *slog.Logger) Option {
	return func(b *Board) { b.log = log }
}

// New creates a board over svc. The session token lives in store; route
// changes go to nav.
func New(svc service.Service, store session.Store, nav Navigator, opts ...Option) *Board {
	b := &Board{
		svc:   svc,
		store: store,
		nav:   nav,
		log:   logging.Discard(),
		draft: NewDraft(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tasks returns a copy of the task list as last fetched.
func (b *Board) Tasks() []service.Task {
	out := make([]service.Task, len(b.tasks))
	copy(out, b.tasks)
	return out
}

// Task returns the listed task with the given id.
func (b *Board) Task(id int64) (service.Task, bool) {
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Banner returns the current error message, or "".
func (b *Board) Banner() string { return b.banner }

// Draft returns the create form state.
func (b *Board) Draft() Draft { return b.draft }

// Edit returns the edit session.
func (b *Board) Edit() *EditSession { return &b.edit }

func (b *Board) setBanner(msg string) {
	b.banner = msg
	b.log.Debug("banner", "msg", msg)
}

// fail records a failed call: unauthorized errors navigate to the login
// route, everything else lands in the banner.
func (b *Board) fail(err error, fallback string) {
	if service.IsUnauthorized(err) {
		b.nav.Navigate(RouteLogin)
	}
	b.setBanner(service.Message(err, fallback))
}

// Guard checks for a stored session token. Without one it navigates to the
// login route and returns ErrLoggedOut; otherwise it shows the task route.
func (b *Board) Guard() error {
	if !session.HasToken(b.store) {
		b.nav.Navigate(RouteLogin)
		return ErrLoggedOut
	}
	b.nav.Navigate(RouteTasks)
	return nil
}

// Mount runs the session guard and loads the list. Without a stored token
// nothing is fetched.
func (b *Board) Mount(ctx context.Context) error {
	if err := b.Guard(); err != nil {
		return err
	}
	return b.Refresh(ctx)
}

// Logout clears the stored token and navigates to the login route. No API
// call is made; refreshes still in flight are dropped when they land.
func (b *Board) Logout() error {
	b.issued++
	b.applied = b.issued
	err := b.store.Clear()
	b.nav.Navigate(RouteLogin)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Refresh fetches the full list and replaces the local one.
func (b *Board) Refresh(ctx context.Context) error {
	seq := b.BeginRefresh()
	tasks, err := b.svc.ListTasks(ctx)
	b.FinishRefresh(seq, tasks, err)
	return err
}

// BeginRefresh starts a refresh and returns its sequence number.
func (b *Board) BeginRefresh() uint64 {
	b.issued++
	return b.issued
}

// FinishRefresh applies the result of refresh seq. It reports whether the
// result was applied; results older than the last applied refresh are
// dropped. Unauthorized errors navigate to the login route either way.
func (b *Board) FinishRefresh(seq uint64, tasks []service.Task, err error) bool {
	if err != nil && service.IsUnauthorized(err) {
		b.nav.Navigate(RouteLogin)
	}
	if seq <= b.applied {
		b.log.Debug("dropping stale refresh", "seq", seq, "applied", b.applied)
		return false
	}
	b.applied = seq
	if err != nil {
		b.setBanner(MsgFetchFailed)
		return true
	}
	b.tasks = tasks
	return true
}

// SetDraftField changes one field of the create form.
func (b *Board) SetDraftField(field Field, value string) error {
	return b.draft.Set(field, value)
}

// CreateRequest builds the create payload from the draft. An unparseable
// due date sets the banner and returns an error; nothing should be sent.
func (b *Board) CreateRequest() (service.TaskInput, error) {
	in, err := b.draft.Input()
	if err != nil {
		b.setBanner(err.Error())
		return service.TaskInput{}, err
	}
	return in, nil
}

// FinishCreate applies the result of a create call. On success the draft
// is reset and true is returned: the caller must refresh.
func (b *Board) FinishCreate(err error) bool {
	if err != nil {
		b.fail(err, MsgCreateFailed)
		return false
	}
	b.draft = NewDraft()
	return true
}

// Create submits the draft and refreshes on success.
func (b *Board) Create(ctx context.Context) error {
	in, err := b.CreateRequest()
	if err != nil {
		return err
	}
	_, err = b.svc.CreateTask(ctx, in)
	if !b.FinishCreate(err) {
		return err
	}
	return b.Refresh(ctx)
}

// StartEdit puts the listed task id in edit mode, dropping any other open
// edit. It reports whether an open edit was replaced.
func (b *Board) StartEdit(id int64) (replaced bool, err error) {
	t, ok := b.Task(id)
	if !ok {
		return false, fmt.Errorf("task not found: %d", id)
	}
	replaced = b.edit.Start(t)
	if replaced {
		b.log.Debug("edit replaced", "id", id)
	}
	return replaced, nil
}

// SetEditField changes one field of the edit buffer.
func (b *Board) SetEditField(field Field, value string) error {
	return b.edit.Set(field, value)
}

// CancelEdit drops the edit buffer.
func (b *Board) CancelEdit() {
	b.edit.Cancel()
}

// UpdateRequest builds the update body from the edit buffer. An
// unparseable due date sets the banner and returns an error.
func (b *Board) UpdateRequest() (int64, service.Task, error) {
	if b.edit.State() != EditEditing {
		return 0, service.Task{}, ErrNotEditing
	}
	buf := b.edit.Buffer()
	t, err := buf.Task()
	if err != nil {
		b.setBanner(err.Error())
		return 0, service.Task{}, err
	}
	return buf.ID, t, nil
}

// FinishUpdate applies the result of an update of task id. On success the
// session returns to Idle and true is returned: the caller must refresh.
// On failure the buffer stays as it was, ready for another try.
func (b *Board) FinishUpdate(id int64, err error) bool {
	if err != nil {
		b.fail(err, MsgUpdateFailed)
		return false
	}
	b.edit.Commit(id)
	return true
}

// SaveEdit sends the edit buffer and refreshes on success.
func (b *Board) SaveEdit(ctx context.Context) error {
	id, t, err := b.UpdateRequest()
	if err != nil {
		return err
	}
	_, err = b.svc.UpdateTask(ctx, id, t)
	if !b.FinishUpdate(id, err) {
		return err
	}
	return b.Refresh(ctx)
}

// FinishDelete applies the result of a delete call. On success it returns
// true: the caller must refresh. On failure the list is left as is.
func (b *Board) FinishDelete(err error) bool {
	if err != nil {
		b.fail(err, MsgDeleteFailed)
		return false
	}
	return true
}

// Delete removes task id at once and refreshes on success.
func (b *Board) Delete(ctx context.Context, id int64) error {
	err := b.svc.DeleteTask(ctx, id)
	if !b.FinishDelete(err) {
		return err
	}
	return b.Refresh(ctx)
}
