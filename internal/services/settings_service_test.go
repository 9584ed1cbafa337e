package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xvierd/focus-cli/internal/domain"
)

type memorySettingsStore struct {
	settings domain.TimerSettings
	saves    int
	saveErr  error
}

func (m *memorySettingsStore) LoadTimerSettings() (domain.TimerSettings, error) {
	return m.settings, nil
}

func (m *memorySettingsStore) SaveTimerSettings(s domain.TimerSettings) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.settings = s
	return nil
}

func TestSettingsService_Update(t *testing.T) {
	store := &memorySettingsStore{settings: domain.DefaultTimerSettings()}
	timer := newManualController(t, domain.DefaultTimerSettings())
	service := NewSettingsService(store, timer)

	t.Run("valid settings are saved and applied", func(t *testing.T) {
		s := domain.DefaultTimerSettings()
		s.PomodoroMinutes = 30
		s.AutoStartPomodoros = true

		require.NoError(t, service.Update(s))

		assert.Equal(t, 1, store.saves)
		assert.Equal(t, s, store.settings)
		assert.Equal(t, s, timer.Snapshot().Settings)
		assert.Equal(t, 30*60, timer.Snapshot().State.SecondsRemaining)
	})

	t.Run("invalid settings change nothing", func(t *testing.T) {
		before := store.settings
		bad := before
		bad.LongBreakMinutes = 0

		err := service.Update(bad)

		assert.ErrorIs(t, err, domain.ErrInvalidDurationConfig)
		assert.Equal(t, 1, store.saves)
		assert.Equal(t, before, timer.Snapshot().Settings)
	})

	t.Run("save failure is reported", func(t *testing.T) {
		store.saveErr = errors.New("read-only file system")
		defer func() { store.saveErr = nil }()

		err := service.Update(domain.DefaultTimerSettings())

		assert.Error(t, err)
		assert.Equal(t, 30, timer.Snapshot().Settings.PomodoroMinutes)
	})
}

func TestSettingsService_Patch(t *testing.T) {
	store := &memorySettingsStore{settings: domain.DefaultTimerSettings()}
	service := NewSettingsService(store, nil)

	fifty := 50
	off := false
	got, err := service.Patch(SettingsPatch{PomodoroMinutes: &fifty, AutoStartBreaks: &off})
	require.NoError(t, err)

	assert.Equal(t, 50, got.PomodoroMinutes)
	assert.False(t, got.AutoStartBreaks)
	assert.Equal(t, 5, got.ShortBreakMinutes)
	assert.Equal(t, got, store.settings)

	zero := 0
	kept, err := service.Patch(SettingsPatch{ShortBreakMinutes: &zero})
	assert.ErrorIs(t, err, domain.ErrInvalidDurationConfig)
	assert.Equal(t, got, kept)
}
