// Package services implements the application layer (use cases)
// following hexagonal architecture principles.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// TaskService handles task-related use cases.
type TaskService struct {
	storage ports.Storage
	loc     *time.Location
}

// NewTaskService creates a new task service.
func NewTaskService(storage ports.Storage) *TaskService {
	return &TaskService{storage: storage, loc: time.Local}
}

// SetLocation sets the time zone used to parse due dates and bucket the
// calendar.
func (s *TaskService) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// AddTaskRequest contains the data needed to create a new task.
type AddTaskRequest struct {
	Title       string
	Description string
	Priority    domain.Priority
	// Due is YYYY-MM-DD or RFC 3339; empty means no due date.
	Due  string
	Tags []string
}

// AddTask creates a new task.
func (s *TaskService) AddTask(ctx context.Context, req AddTaskRequest) (*domain.Task, error) {
	task, err := domain.NewTask(strings.TrimSpace(req.Title))
	if err != nil {
		return nil, fmt.Errorf("invalid task: %w", err)
	}

	due, err := domain.ParseDueDate(req.Due, s.loc)
	if err != nil {
		return nil, err
	}

	task.Description = req.Description
	task.SetPriority(req.Priority)
	task.SetDueDate(due)
	for _, tag := range req.Tags {
		task.AddTag(tag)
	}

	if err := s.storage.Tasks().Save(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to save task: %w", err)
	}

	return task, nil
}

// ListTasksRequest contains filters for listing tasks.
type ListTasksRequest struct {
	Status      *domain.TaskStatus
	OnlyPending bool
}

// ListTasks retrieves tasks matching the filters in display order:
// priority first, then due date.
func (s *TaskService) ListTasks(ctx context.Context, req ListTasksRequest) ([]*domain.Task, error) {
	status := req.Status
	if req.OnlyPending {
		pending := domain.StatusPending
		status = &pending
	}

	tasks, err := s.storage.Tasks().FindAll(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return domain.OrderTasks(tasks), nil
}

// MonthCalendar returns every day of month with the tasks due that day,
// each day in display order.
func (s *TaskService) MonthCalendar(ctx context.Context, month domain.YearMonth) (map[domain.DayKey][]*domain.Task, error) {
	if !month.Valid() {
		return map[domain.DayKey][]*domain.Task{}, nil
	}

	from := month.First(s.loc)
	to := month.Next().First(s.loc)
	tasks, err := s.storage.Tasks().FindDueBetween(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks for %s: %w", month, err)
	}
	return domain.BucketTasksByDayIn(tasks, month, s.loc), nil
}

// Location returns the time zone the service works in.
func (s *TaskService) Location() *time.Location {
	return s.loc
}

// GetTask retrieves a single task by ID or ID prefix.
func (s *TaskService) GetTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.storage.Tasks().FindByID(ctx, id)
}

// SearchTasks returns tasks whose title fuzzy-matches query.
func (s *TaskService) SearchTasks(ctx context.Context, query string) ([]*domain.Task, error) {
	if strings.TrimSpace(query) == "" {
		return s.ListTasks(ctx, ListTasksRequest{OnlyPending: true})
	}
	return s.storage.Tasks().Search(ctx, query)
}

// CompleteTask marks a task as completed.
func (s *TaskService) CompleteTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.modify(ctx, id, func(t *domain.Task) error {
		t.Complete()
		return nil
	})
}

// ReopenTask moves a completed task back to pending.
func (s *TaskService) ReopenTask(ctx context.Context, id string) (*domain.Task, error) {
	return s.modify(ctx, id, func(t *domain.Task) error {
		t.Reopen()
		return nil
	})
}

// SetPriority changes a task's priority. Unknown input becomes medium.
func (s *TaskService) SetPriority(ctx context.Context, id string, p domain.Priority) (*domain.Task, error) {
	return s.modify(ctx, id, func(t *domain.Task) error {
		t.SetPriority(p)
		return nil
	})
}

// SetDueDate reschedules a task. An empty due string clears the date.
func (s *TaskService) SetDueDate(ctx context.Context, id, due string) (*domain.Task, error) {
	parsed, err := domain.ParseDueDate(due, s.loc)
	if err != nil {
		return nil, err
	}
	return s.modify(ctx, id, func(t *domain.Task) error {
		t.SetDueDate(parsed)
		return nil
	})
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id string) error {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find task: %w", err)
	}
	return s.storage.Tasks().Delete(ctx, task.ID)
}

func (s *TaskService) modify(ctx context.Context, id string, fn func(*domain.Task) error) (*domain.Task, error) {
	task, err := s.storage.Tasks().FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if err := fn(task); err != nil {
		return nil, err
	}
	if err := s.storage.Tasks().Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return task, nil
}
