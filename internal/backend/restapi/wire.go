package restapi

import (
	"fmt"
	"time"

	"taskboard/internal/service"
)

// taskJSON is a task as the backend encodes it.
type taskJSON struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
	UserID      int64   `json:"user_id"`
}

type createJSON struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	DueDate     *string `json:"due_date"`
}

type loginJSON struct {
	Email    string `json:"Email"`
	Password string `json:"password"`
}

type signupJSON struct {
	Name     string `json:"name"`
	Email    string `json:"Email"`
	Password string `json:"password"`
}

type tokenJSON struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// timeLayouts are tried in order. The backend stores naive datetimes and
// echoes them without an offset; those are read as UTC.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp: %q", s)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func (tj taskJSON) toTask() (service.Task, error) {
	t := service.Task{
		ID:      tj.ID,
		Title:   tj.Title,
		Status:  service.Status(tj.Status),
		OwnerID: tj.UserID,
	}
	if tj.Description != nil {
		t.Description = *tj.Description
	}
	if tj.DueDate != nil && *tj.DueDate != "" {
		due, err := parseTime(*tj.DueDate)
		if err != nil {
			return service.Task{}, fmt.Errorf("task %d: %w", tj.ID, err)
		}
		t.DueDate = &due
	}
	return t, nil
}

func fromTask(t service.Task) taskJSON {
	desc := t.Description
	return taskJSON{
		ID:          t.ID,
		Title:       t.Title,
		Description: &desc,
		Status:      string(t.Status),
		DueDate:     formatTime(t.DueDate),
		UserID:      t.OwnerID,
	}
}
