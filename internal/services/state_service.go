package services

import (
	"context"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// StateService implements the MCPStateProvider interface on top of the
// task and history services and the focus timer.
type StateService struct {
	tasks    *TaskService
	history  *HistoryService
	timer    ports.FocusTimer
	settings *SettingsService
}

// NewStateService creates a new state service.
func NewStateService(tasks *TaskService, history *HistoryService, timer ports.FocusTimer) *StateService {
	return &StateService{tasks: tasks, history: history, timer: timer}
}

// SetSettingsService makes UpdateTimerSettings persist through settings.
func (s *StateService) SetSettingsService(settings *SettingsService) {
	s.settings = settings
}

// ListTasks implements ports.MCPStateProvider.
func (s *StateService) ListTasks(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	return s.tasks.ListTasks(ctx, ListTasksRequest{Status: status})
}

// CreateTask implements ports.MCPStateProvider.
func (s *StateService) CreateTask(ctx context.Context, title string, priority domain.Priority, due string) (*domain.Task, error) {
	return s.tasks.AddTask(ctx, AddTaskRequest{
		Title:    title,
		Priority: priority,
		Due:      due,
	})
}

// CompleteTask implements ports.MCPStateProvider.
func (s *StateService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.tasks.CompleteTask(ctx, id)
}

// MonthCalendar implements ports.MCPStateProvider.
func (s *StateService) MonthCalendar(ctx context.Context, month domain.YearMonth) (map[domain.DayKey][]*domain.Task, error) {
	return s.tasks.MonthCalendar(ctx, month)
}

// Timer implements ports.MCPStateProvider. It returns nil when no timer is
// attached.
func (s *StateService) Timer() ports.FocusTimer {
	return s.timer
}

// UpdateTimerSettings implements ports.MCPStateProvider.
func (s *StateService) UpdateTimerSettings(settings domain.TimerSettings) error {
	if s.settings != nil {
		return s.settings.Update(settings)
	}
	if s.timer == nil {
		return ports.ErrTimerUnavailable
	}
	return s.timer.UpdateSettings(settings)
}

// RecentIntervals implements ports.MCPStateProvider.
func (s *StateService) RecentIntervals(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.RecentIntervals(ctx, limit)
}

// TaskHistory implements ports.MCPStateProvider.
func (s *StateService) TaskHistory(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error) {
	if s.history == nil {
		return nil, nil
	}
	return s.history.TaskHistory(ctx, taskID)
}

// Ensure StateService implements MCPStateProvider.
var _ ports.MCPStateProvider = (*StateService)(nil)
