// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"net/http"
	"sync"

	"taskboard/internal/service"
)

// DefaultOwnerID is the owner assigned to tasks created through FakeService.
const DefaultOwnerID = 1

// ErrNotFound mirrors the backend's 404 for an unknown task.
var ErrNotFound = Rejected(http.StatusNotFound, "Task not found")

// Unauthorized returns the error a backend gives for an expired token.
func Unauthorized() error {
	return &service.APIError{Kind: service.KindUnauthorized, StatusCode: http.StatusUnauthorized, Detail: "Invalid token"}
}

// Rejected returns a 4xx error carrying detail.
func Rejected(code int, detail string) error {
	return &service.APIError{Kind: service.KindRejected, StatusCode: code, Detail: detail}
}

// Failed returns a 5xx error.
func Failed() error {
	return &service.APIError{Kind: service.KindFailed, StatusCode: http.StatusInternalServerError}
}

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Calls made, for assertions
	ListCalls int
	Created   []service.TaskInput
	Updated   []service.Task
	Deleted   []int64
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{nextID: 1}
}

// AddTask stores t as is and returns its ID. A zero ID is assigned.
func (f *FakeService) AddTask(t service.Task) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t.ID == 0 {
		t.ID = f.nextID
	}
	if t.ID >= f.nextID {
		f.nextID = t.ID + 1
	}
	if t.OwnerID == 0 {
		t.OwnerID = DefaultOwnerID
	}
	if t.Status == "" {
		t.Status = service.StatusPending
	}
	f.tasks = append(f.tasks, t)
	return t.ID
}

// Get returns the stored task with the given ID.
func (f *FakeService) Get(id int64) (service.Task, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.ListCalls++
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.Task, len(f.tasks))
	copy(result, f.tasks)
	return result, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	f.Created = append(f.Created, in)
	f.mu.Unlock()
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	id := f.AddTask(service.Task{
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		DueDate:     in.DueDate,
	})
	t, _ := f.Get(id)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id int64, t service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Updated = append(f.Updated, t)
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i, existing := range f.tasks {
		if existing.ID == id {
			t.ID = id
			t.OwnerID = existing.OwnerID
			f.tasks[i] = t
			return t, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// FakeAuthenticator is an in-memory service.Authenticator.
type FakeAuthenticator struct {
	mu    sync.Mutex
	users map[string]string // email -> password

	Token     string // access token handed out on login
	LoginErr  error
	SignupErr error

	Signups []string // emails registered through Signup
}

// NewFakeAuthenticator returns an authenticator that knows no users and
// hands out token on login.
func NewFakeAuthenticator(token string) *FakeAuthenticator {
	return &FakeAuthenticator{users: make(map[string]string), Token: token}
}

// AddUser registers a user directly.
func (a *FakeAuthenticator) AddUser(email, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.users[email] = password
}

// Login implements service.Authenticator.
func (a *FakeAuthenticator) Login(ctx context.Context, email, password string) (service.Credential, error) {
	if a.LoginErr != nil {
		return service.Credential{}, a.LoginErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if pw, ok := a.users[email]; !ok || pw != password {
		return service.Credential{}, &service.APIError{Kind: service.KindUnauthorized, StatusCode: http.StatusUnauthorized, Detail: "Invalid credentials"}
	}
	return service.Credential{AccessToken: a.Token, TokenType: "bearer"}, nil
}

// Signup implements service.Authenticator.
func (a *FakeAuthenticator) Signup(ctx context.Context, name, email, password string) error {
	if a.SignupErr != nil {
		return a.SignupErr
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.users[email]; ok {
		return Rejected(http.StatusBadRequest, "user already taken")
	}
	a.users[email] = password
	a.Signups = append(a.Signups, email)
	return nil
}
