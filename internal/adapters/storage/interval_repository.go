package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const intervalColumns = `id, mode, planned_seconds, task_id, task_title, git_branch, git_commit, completed_at, notified`

// intervalRepository implements ports.IntervalRepository using SQLite.
type intervalRepository struct {
	db *sql.DB
}

// newIntervalRepository creates a new interval repository.
func newIntervalRepository(db *sql.DB) ports.IntervalRepository {
	return &intervalRepository{db: db}
}

// Save appends a completed interval.
func (r *intervalRepository) Save(ctx context.Context, record *domain.IntervalRecord) error {
	query := `INSERT INTO intervals (` + intervalColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		string(record.Mode),
		record.PlannedSeconds,
		record.TaskID,
		record.TaskTitle,
		record.GitBranch,
		record.GitCommit,
		record.CompletedAt.Unix(),
		record.Notified,
	)
	if err != nil {
		return fmt.Errorf("failed to save interval: %w", err)
	}
	return nil
}

// FindRecent returns intervals completed since the given time, newest first.
// A non-positive limit returns all of them.
func (r *intervalRepository) FindRecent(ctx context.Context, since time.Time, limit int) ([]*domain.IntervalRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	query := `
		SELECT ` + intervalColumns + `
		FROM intervals
		WHERE completed_at >= ?
		ORDER BY completed_at DESC
		LIMIT ?
	`

	rows, err := r.db.QueryContext(ctx, query, since.Unix(), limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanIntervals(rows)
}

// FindByTask returns the intervals linked to a task, oldest first.
func (r *intervalRepository) FindByTask(ctx context.Context, taskID string) ([]*domain.IntervalRecord, error) {
	query := `
		SELECT ` + intervalColumns + `
		FROM intervals
		WHERE task_id = ?
		ORDER BY completed_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to query task intervals: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanIntervals(rows)
}

// GetDailyStats returns aggregated statistics for a specific date.
func (r *intervalRepository) GetDailyStats(ctx context.Context, date time.Time) (*domain.DailyStats, error) {
	startOfDay := domain.StartOfDay(date)
	endOfDay := startOfDay.AddDate(0, 0, 1)

	query := `
		SELECT ` + intervalColumns + `
		FROM intervals
		WHERE completed_at >= ? AND completed_at < ?
	`

	rows, err := r.db.QueryContext(ctx, query, startOfDay.Unix(), endOfDay.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records, err := scanIntervals(rows)
	if err != nil {
		return nil, err
	}

	stats := &domain.DailyStats{Date: startOfDay}
	for _, rec := range records {
		stats.Add(rec)
	}
	return stats, nil
}

func scanIntervals(rows *sql.Rows) ([]*domain.IntervalRecord, error) {
	var records []*domain.IntervalRecord

	for rows.Next() {
		var rec domain.IntervalRecord
		var mode string
		var taskID, taskTitle, branch, commit sql.NullString
		var completedAt int64

		err := rows.Scan(
			&rec.ID,
			&mode,
			&rec.PlannedSeconds,
			&taskID,
			&taskTitle,
			&branch,
			&commit,
			&completedAt,
			&rec.Notified,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan interval: %w", err)
		}

		rec.Mode = domain.TimerMode(mode)
		if taskID.Valid {
			id := taskID.String
			rec.TaskID = &id
		}
		rec.TaskTitle = taskTitle.String
		rec.GitBranch = branch.String
		rec.GitCommit = commit.String
		rec.CompletedAt = time.Unix(completedAt, 0)

		records = append(records, &rec)
	}

	return records, rows.Err()
}
