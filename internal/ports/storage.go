// Package ports defines the interfaces between the focus core and its
// infrastructure. Driven ports are implemented by adapters; driving ports
// are implemented by services and called from the outside.
package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// TaskRepository defines the interface for task persistence.
// This is a driven port (implemented by adapters).
type TaskRepository interface {
	// Save persists a new task.
	Save(ctx context.Context, task *domain.Task) error

	// FindByID retrieves a task by its identifier or ID prefix.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// FindAll retrieves all tasks, optionally filtered by status.
	FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// FindDueBetween returns tasks whose due date lies in [from, to).
	FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error)

	// Search returns tasks whose title fuzzy-matches query, best match first.
	Search(ctx context.Context, query string) ([]*domain.Task, error)

	// Update modifies an existing task.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task.
	Delete(ctx context.Context, id string) error
}

// IntervalRepository stores completed timer intervals.
// This is a driven port (implemented by adapters).
type IntervalRepository interface {
	// Save appends a completed interval.
	Save(ctx context.Context, record *domain.IntervalRecord) error

	// FindRecent returns intervals completed since the given time, newest first.
	FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.IntervalRecord, error)

	// FindByTask returns the intervals linked to a task.
	FindByTask(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error)

	// GetDailyStats aggregates the intervals of date's calendar day.
	GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error)
}

// Storage is the combined repository interface.
type Storage interface {
	Tasks() TaskRepository
	Intervals() IntervalRepository
	Close() error
	Migrate() error
}
