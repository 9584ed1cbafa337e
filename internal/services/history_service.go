package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// HistoryService records completed intervals and reports on them.
type HistoryService struct {
	storage     ports.Storage
	gitDetector ports.GitDetector
	logger      *slog.Logger
	workingDir  string
}

// NewHistoryService creates a new history service. gitDetector may be nil.
func NewHistoryService(storage ports.Storage, gitDetector ports.GitDetector, logger *slog.Logger) *HistoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HistoryService{
		storage:     storage,
		gitDetector: gitDetector,
		logger:      logger,
	}
}

// SetWorkingDir sets the directory used for git detection.
func (s *HistoryService) SetWorkingDir(dir string) {
	s.workingDir = dir
}

// Record stores a completed interval. notifyErr is the notification
// failure reported by the timer, if any.
func (s *HistoryService) Record(ctx context.Context, event ports.IntervalEvent, notifyErr error) (*domain.IntervalRecord, error) {
	record := domain.NewIntervalRecord(event.Completed, event.PlannedSeconds, event.Task)
	if !event.At.IsZero() {
		record.CompletedAt = event.At
	}
	record.Notified = notifyErr == nil

	if event.Completed == domain.ModePomodoro && s.gitDetector != nil && s.gitDetector.IsAvailable() {
		info, err := s.gitDetector.Detect(ctx, s.workingDir)
		if err == nil && info != nil {
			record.SetGitContext(info.Branch, info.Commit)
		}
	}

	if err := s.storage.Intervals().Save(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to save interval: %w", err)
	}
	return record, nil
}

// Attach records every interval the timer completes.
func (s *HistoryService) Attach(timer ports.FocusTimer) {
	timer.OnIntervalComplete(func(event ports.IntervalEvent, notifyErr error) {
		if _, err := s.Record(context.Background(), event, notifyErr); err != nil {
			s.logger.Error("failed to record interval", "mode", string(event.Completed), "error", err)
		}
	})
}

// RecentIntervals returns up to limit intervals from the last seven days.
func (s *HistoryService) RecentIntervals(ctx context.Context, limit int) ([]*domain.IntervalRecord, error) {
	since := time.Now().AddDate(0, 0, -7)
	records, err := s.storage.Intervals().FindRecent(ctx, since, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	return records, nil
}

// TaskHistory returns the intervals spent on a task.
func (s *HistoryService) TaskHistory(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error) {
	task, err := s.storage.Tasks().FindByID(ctx, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return s.storage.Intervals().FindByTask(ctx, task.ID)
}

// DailyStats aggregates the intervals of date's day.
func (s *HistoryService) DailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	stats, err := s.storage.Intervals().GetDailyStats(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to get daily stats: %w", err)
	}
	return stats, nil
}

// WeekStats returns daily stats for the seven days ending on date, oldest
// first.
func (s *HistoryService) WeekStats(ctx context.Context, date time.Time) ([]*domain.DailyStats, error) {
	start := domain.StartOfDay(date).AddDate(0, 0, -6)
	week := make([]*domain.DailyStats, 0, 7)
	for i := 0; i < 7; i++ {
		stats, err := s.DailyStats(ctx, start.AddDate(0, 0, i))
		if err != nil {
			return nil, err
		}
		week = append(week, stats)
	}
	return week, nil
}
