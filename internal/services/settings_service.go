package services

import (
	"fmt"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// SettingsService validates, persists and applies timer settings.
type SettingsService struct {
	store ports.SettingsStore
	timer ports.FocusTimer
}

// NewSettingsService creates a settings service. timer may be nil when no
// timer is running in this process.
func NewSettingsService(store ports.SettingsStore, timer ports.FocusTimer) *SettingsService {
	return &SettingsService{store: store, timer: timer}
}

// Current returns the persisted settings.
func (s *SettingsService) Current() (domain.TimerSettings, error) {
	settings, err := s.store.LoadTimerSettings()
	if err != nil {
		return domain.TimerSettings{}, fmt.Errorf("failed to load timer settings: %w", err)
	}
	return settings, nil
}

// Update validates settings, saves them and hands them to the running
// timer. Invalid settings change nothing.
func (s *SettingsService) Update(settings domain.TimerSettings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	if err := s.store.SaveTimerSettings(settings); err != nil {
		return fmt.Errorf("failed to save timer settings: %w", err)
	}
	if s.timer != nil {
		return s.timer.UpdateSettings(settings)
	}
	return nil
}

// SettingsPatch holds optional changes to timer settings.
type SettingsPatch struct {
	PomodoroMinutes    *int
	ShortBreakMinutes  *int
	LongBreakMinutes   *int
	AutoStartBreaks    *bool
	AutoStartPomodoros *bool
}

// Apply returns base with the patch's set fields replaced.
func (p SettingsPatch) Apply(base domain.TimerSettings) domain.TimerSettings {
	if p.PomodoroMinutes != nil {
		base.PomodoroMinutes = *p.PomodoroMinutes
	}
	if p.ShortBreakMinutes != nil {
		base.ShortBreakMinutes = *p.ShortBreakMinutes
	}
	if p.LongBreakMinutes != nil {
		base.LongBreakMinutes = *p.LongBreakMinutes
	}
	if p.AutoStartBreaks != nil {
		base.AutoStartBreaks = *p.AutoStartBreaks
	}
	if p.AutoStartPomodoros != nil {
		base.AutoStartPomodoros = *p.AutoStartPomodoros
	}
	return base
}

// Patch applies a partial update on top of the persisted settings.
func (s *SettingsService) Patch(patch SettingsPatch) (domain.TimerSettings, error) {
	current, err := s.Current()
	if err != nil {
		return domain.TimerSettings{}, err
	}
	next := patch.Apply(current)
	if err := s.Update(next); err != nil {
		return current, err
	}
	return next, nil
}
