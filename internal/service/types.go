// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"strings"
	"time"
)

// Status is the lifecycle state of a task as the backend spells it.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "In Progress"
	StatusCompleted  Status = "Completed"
)

// Statuses lists the known statuses in display order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// Next returns the status after s in display order, wrapping around.
// Unknown statuses advance to Pending.
func (s Status) Next() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+1)%len(Statuses)]
		}
	}
	return StatusPending
}

// Prev returns the status before s in display order, wrapping around.
// Unknown statuses move to Pending.
func (s Status) Prev() Status {
	for i, st := range Statuses {
		if st == s {
			return Statuses[(i+len(Statuses)-1)%len(Statuses)]
		}
	}
	return StatusPending
}

// ParseStatus parses a user-supplied status. Matching ignores case,
// surrounding whitespace, and the separator between "in" and "progress".
func ParseStatus(s string) (Status, error) {
	norm := strings.ToLower(strings.TrimSpace(s))
	norm = strings.NewReplacer("-", "", "_", "", " ", "").Replace(norm)
	switch norm {
	case "pending", "todo":
		return StatusPending, nil
	case "inprogress", "doing":
		return StatusInProgress, nil
	case "completed", "done":
		return StatusCompleted, nil
	}
	return "", fmt.Errorf("invalid status: %s", s)
}

// Task represents a single task record owned by the logged-in user.
type Task struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time // nil when no due date is set
	OwnerID     int64
}

// TaskInput is the payload for creating a task.
// The backend assigns the ID and owner.
type TaskInput struct {
	Title       string
	Description string
	Status      Status
	DueDate     *time.Time
}

// Credential is the bearer credential returned by a successful login.
type Credential struct {
	AccessToken string
	TokenType   string
}
