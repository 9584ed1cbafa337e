package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

type stubGitDetector struct {
	info *ports.GitInfo
	err  error
}

func (s *stubGitDetector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	return s.info, s.err
}

func (s *stubGitDetector) IsAvailable() bool { return s.err == nil }

func TestHistoryService_Record(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	git := &stubGitDetector{info: &ports.GitInfo{Branch: "feature/cal", Commit: "deadbeefcafe"}}
	history := NewHistoryService(store, git, nil)

	task, err := NewTaskService(store).AddTask(ctx, AddTaskRequest{Title: "Calendar view"})
	require.NoError(t, err)

	t.Run("pomodoro carries task and git context", func(t *testing.T) {
		rec, err := history.Record(ctx, ports.IntervalEvent{
			Completed:      domain.ModePomodoro,
			Next:           domain.ModeShortBreak,
			PlannedSeconds: 25 * 60,
			Task:           task,
			At:             time.Now(),
		}, nil)
		require.NoError(t, err)

		assert.Equal(t, "feature/cal", rec.GitBranch)
		assert.Equal(t, "Calendar view", rec.TaskTitle)
		assert.True(t, rec.Notified)

		linked, err := history.TaskHistory(ctx, task.ID)
		require.NoError(t, err)
		assert.Len(t, linked, 1)
	})

	t.Run("breaks skip git and keep notify failures", func(t *testing.T) {
		rec, err := history.Record(ctx, ports.IntervalEvent{
			Completed:      domain.ModeShortBreak,
			PlannedSeconds: 5 * 60,
		}, errors.New("no display"))
		require.NoError(t, err)

		assert.Empty(t, rec.GitBranch)
		assert.False(t, rec.Notified)
	})

	stats, err := history.DailyStats(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Pomodoros)
	assert.Equal(t, 1, stats.ShortBreaks)
	assert.Equal(t, 25*time.Minute, stats.FocusTime)

	recent, err := history.RecentIntervals(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestHistoryService_GitFailureIsIgnored(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	git := &stubGitDetector{err: errors.New("not a repo")}
	history := NewHistoryService(store, git, nil)

	rec, err := history.Record(context.Background(), ports.IntervalEvent{
		Completed:      domain.ModePomodoro,
		PlannedSeconds: 60,
	}, nil)

	require.NoError(t, err)
	assert.Empty(t, rec.GitBranch)
}

func TestHistoryService_AttachRecordsTimerIntervals(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	history := NewHistoryService(store, nil, nil)
	timer := newManualController(t, minuteSettings())
	history.Attach(timer)

	timer.Start()
	tickN(timer, 60)

	recent, err := history.RecentIntervals(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, domain.ModePomodoro, recent[0].Mode)
	assert.Equal(t, 60, recent[0].PlannedSeconds)
}

func TestHistoryService_WeekStats(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	history := NewHistoryService(store, nil, nil)
	week, err := history.WeekStats(context.Background(), time.Now())

	require.NoError(t, err)
	require.Len(t, week, 7)
	assert.Equal(t, domain.StartOfDay(time.Now()), week[6].Date)
}
