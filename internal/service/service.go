// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// All task API calls go through this interface.
// Commands and the board never import the HTTP client directly.
type Service interface {
	// ListTasks returns every task of the current session in API order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it as stored.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask replaces the fields of task id with t.
	UpdateTask(ctx context.Context, id int64, t Task) (Task, error)

	// DeleteTask deletes task id.
	DeleteTask(ctx context.Context, id int64) error
}

// Authenticator exchanges user credentials with the backend.
// Neither call requires an existing session.
type Authenticator interface {
	// Login returns a credential for the given email and password.
	Login(ctx context.Context, email, password string) (Credential, error)

	// Signup registers a new user.
	Signup(ctx context.Context, name, email, password string) error
}
