package ports

import (
	"context"
	"errors"

	"github.com/xvierd/focus-cli/internal/domain"
)

// ErrTimerUnavailable is returned by MCP timer tools when the provider has
// no timer attached.
var ErrTimerUnavailable = errors.New("focus timer is not available")

// MCPHandler defines the interface for MCP server operations.
// This is a driving port (called by the application layer).
type MCPHandler interface {
	// Start begins serving MCP requests.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the server.
	Stop() error

	// IsRunning returns true if the server is active.
	IsRunning() bool
}

// MCPStateProvider provides tasks, the calendar and timer control to the
// MCP server. This is a driven port (implemented by the services layer).
type MCPStateProvider interface {
	// ListTasks returns tasks in display order, optionally filtered.
	ListTasks(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error)

	// CreateTask adds a task with optional priority and due date.
	CreateTask(ctx context.Context, title string, priority domain.Priority, due string) (*domain.Task, error)

	// CompleteTask marks a task as completed.
	CompleteTask(ctx context.Context, id string) (*domain.Task, error)

	// MonthCalendar returns the month's due tasks bucketed by day.
	MonthCalendar(ctx context.Context, month domain.YearMonth) (map[domain.DayKey][]*domain.Task, error)

	// Timer exposes the focus timer.
	Timer() FocusTimer

	// UpdateTimerSettings validates, persists and applies timer settings.
	UpdateTimerSettings(settings domain.TimerSettings) error

	// RecentIntervals returns recently completed intervals.
	RecentIntervals(ctx context.Context, limit int) ([]*domain.IntervalRecord, error)

	// TaskHistory returns the intervals spent on a task.
	TaskHistory(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error)
}
