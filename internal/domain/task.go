// Package domain contains the core entities and rules of focus: tasks and
// their ordering, calendar bucketing, and the focus-timer state machine.
// Nothing in this package performs I/O.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common domain errors.
var (
	ErrEmptyTaskTitle        = errors.New("task title cannot be empty")
	ErrTaskNotFound          = errors.New("task not found")
	ErrAmbiguousTaskID       = errors.New("task id prefix matches more than one task")
	ErrInvalidDurationConfig = errors.New("invalid duration config")
	ErrNotificationFailed    = errors.New("notification failed")
	ErrInvalidTimerMode      = errors.New("invalid timer mode")
	ErrInvalidMonth          = errors.New("invalid month")
)

// TaskStatus represents the current state of a task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusCompleted TaskStatus = "completed"
)

// Task represents a unit of work.
type Task struct {
	ID          string
	Title       string
	Description string
	Priority    Priority
	DueDate     *time.Time
	Status      TaskStatus
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
}

// NewTask creates a pending medium-priority task with the given title.
func NewTask(title string) (*Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, ErrEmptyTaskTitle
	}

	now := time.Now()
	return &Task{
		ID:        newID(),
		Title:     title,
		Priority:  PriorityMedium,
		Status:    StatusPending,
		Tags:      []string{},
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Complete marks the task as completed.
func (t *Task) Complete() {
	now := time.Now()
	t.Status = StatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
}

// Reopen moves a completed task back to pending.
func (t *Task) Reopen() {
	t.Status = StatusPending
	t.CompletedAt = nil
	t.UpdatedAt = time.Now()
}

// SetPriority stores a normalised priority.
func (t *Task) SetPriority(p Priority) {
	t.Priority = p.Normalize()
	t.UpdatedAt = time.Now()
}

// SetDueDate sets or clears (nil) the due date.
func (t *Task) SetDueDate(due *time.Time) {
	if due != nil {
		d := *due
		due = &d
	}
	t.DueDate = due
	t.UpdatedAt = time.Now()
}

// AddTag adds a tag to the task.
func (t *Task) AddTag(tag string) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return
	}
	for _, existing := range t.Tags {
		if existing == tag {
			return
		}
	}
	t.Tags = append(t.Tags, tag)
	t.UpdatedAt = time.Now()
}

// IsCompleted reports whether the task is done.
func (t *Task) IsCompleted() bool {
	return t.Status == StatusCompleted
}

// HasDueDate reports whether the task carries a due date.
func (t *Task) HasDueDate() bool {
	return t.DueDate != nil && !t.DueDate.IsZero()
}

// IsOverdue reports whether a pending task's due day is before now's day.
func (t *Task) IsOverdue(now time.Time) bool {
	if t.IsCompleted() || !t.HasDueDate() {
		return false
	}
	due := t.DueDate.In(now.Location())
	return DayKeyOf(due) < DayKeyOf(now)
}

// ParseDueDate accepts YYYY-MM-DD or RFC 3339 input in loc.
// An empty string means "no due date" and returns nil.
func ParseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DayKeyLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid due date %q: use YYYY-MM-DD", s)
	}
	return &t, nil
}
