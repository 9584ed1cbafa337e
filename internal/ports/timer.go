package ports

import (
	"context"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
)

// Ticker delivers one-second ticks to the timer controller.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker for each run of the countdown.
type TickerFactory func(interval time.Duration) Ticker

// IntervalEvent is emitted when a countdown reaches zero.
type IntervalEvent struct {
	Completed   domain.TimerMode
	Next        domain.TimerMode
	Cycles      int
	AutoStarted bool
	// PlannedSeconds is the length of the interval that just completed.
	PlannedSeconds int
	Task           *domain.Task
	At             time.Time
}

// IntervalNotifier is the notification sink for completed intervals.
// This is a driven port (implemented by adapters).
type IntervalNotifier interface {
	NotifyIntervalComplete(ctx context.Context, event IntervalEvent) error
}

// SettingsStore loads and persists timer settings.
// This is a driven port (implemented by the config package).
type SettingsStore interface {
	LoadTimerSettings() (domain.TimerSettings, error)
	SaveTimerSettings(settings domain.TimerSettings) error
}

// TimerSnapshot is a read-only copy of the timer for display.
type TimerSnapshot struct {
	State    domain.TimerState
	Settings domain.TimerSettings
	Task     *domain.Task
	Progress float64
	// LastNotifyError is set when the most recent notification failed.
	LastNotifyError error
}

// Remaining returns the time left in the current interval.
func (s TimerSnapshot) Remaining() time.Duration {
	return s.State.Remaining()
}

// FocusTimer is the driving port for the focus timer.
// This is implemented by services.TimerController.
type FocusTimer interface {
	Toggle()
	Start()
	Pause()
	Reset()
	SwitchMode(mode domain.TimerMode)
	UpdateSettings(settings domain.TimerSettings) error
	SetTask(task *domain.Task)
	Snapshot() TimerSnapshot
	OnChange(fn func(TimerSnapshot))
	OnIntervalComplete(fn func(IntervalEvent, error))
	Close()
}
