package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func TestStateService(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tasks := newUTCTaskService(store)
	timer := newManualController(t, domain.DefaultTimerSettings())
	state := NewStateService(tasks, NewHistoryService(store, nil, nil), timer)

	created, err := state.CreateTask(ctx, "Ship release", domain.PriorityHigh, "2025-04-12")
	require.NoError(t, err)
	_, err = state.CreateTask(ctx, "Tidy desk", domain.Priority("whenever"), "")
	require.NoError(t, err)

	listed, err := state.ListTasks(ctx, nil)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	assert.Equal(t, created.ID, listed[0].ID)
	assert.Equal(t, domain.PriorityMedium, listed[1].Priority)

	cal, err := state.MonthCalendar(ctx, domain.YearMonth{Year: 2025, Month: time.April})
	require.NoError(t, err)
	assert.Len(t, cal["2025-04-12"], 1)

	done, err := state.CompleteTask(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, done.IsCompleted())

	require.NotNil(t, state.Timer())
	state.Timer().Toggle()
	assert.True(t, state.Timer().Snapshot().State.IsRunning)

	recent, err := state.RecentIntervals(ctx, 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestStateService_UpdateTimerSettings(t *testing.T) {
	store, cleanup := setupTestStorage(t)
	defer cleanup()

	timer := newManualController(t, domain.DefaultTimerSettings())
	state := NewStateService(newUTCTaskService(store), nil, timer)

	settings := domain.DefaultTimerSettings()
	settings.ShortBreakMinutes = 7
	require.NoError(t, state.UpdateTimerSettings(settings))
	assert.Equal(t, 7, timer.Snapshot().Settings.ShortBreakMinutes)

	settings.PomodoroMinutes = 0
	assert.ErrorIs(t, state.UpdateTimerSettings(settings), domain.ErrInvalidDurationConfig)

	persisted := &memorySettingsStore{settings: domain.DefaultTimerSettings()}
	state.SetSettingsService(NewSettingsService(persisted, timer))
	settings.PomodoroMinutes = 40
	require.NoError(t, state.UpdateTimerSettings(settings))
	assert.Equal(t, 40, persisted.settings.PomodoroMinutes)
	assert.Equal(t, 40, timer.Snapshot().Settings.PomodoroMinutes)

	noTimer := NewStateService(newUTCTaskService(store), nil, nil)
	assert.ErrorIs(t, noTimer.UpdateTimerSettings(settings), ports.ErrTimerUnavailable)
	history, err := noTimer.TaskHistory(context.Background(), "whatever")
	require.NoError(t, err)
	assert.Empty(t, history)
}
