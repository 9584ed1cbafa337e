// Package notification provides desktop notifications for completed
// focus intervals.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/gen2brain/beeep"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// Replaced in tests.
var (
	notifyFunc = func(title, message string) error {
		return beeep.Notify(title, message, "")
	}
	beepFunc = func() error {
		return beeep.Beep(beeep.DefaultFreq, beeep.DefaultDuration)
	}
)

// Notifier implements ports.IntervalNotifier with desktop notifications.
type Notifier struct {
	cfg config.NotificationConfig
}

// Ensure Notifier implements ports.IntervalNotifier.
var _ ports.IntervalNotifier = (*Notifier)(nil)

// New creates a new notifier with the given configuration.
func New(cfg config.NotificationConfig) *Notifier {
	return &Notifier{cfg: cfg}
}

// IsEnabled returns true if notifications are enabled.
func (n *Notifier) IsEnabled() bool {
	return n.cfg.Enabled
}

// NotifyIntervalComplete shows a notification and, when sound is on,
// beeps. Both are attempted; their errors are joined.
func (n *Notifier) NotifyIntervalComplete(ctx context.Context, event ports.IntervalEvent) error {
	if !n.cfg.Enabled {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	title, message := Message(event)

	var errs []error
	if err := notifyFunc(title, message); err != nil {
		errs = append(errs, fmt.Errorf("desktop notification: %w", err))
	}
	if n.cfg.Sound {
		if err := beepFunc(); err != nil {
			errs = append(errs, fmt.Errorf("beep: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Message builds the notification text for an event.
func Message(event ports.IntervalEvent) (title, message string) {
	var next string
	switch event.Next {
	case domain.ModeLongBreak:
		next = "Time for a long break."
	case domain.ModeShortBreak:
		next = "Time for a short break."
	default:
		next = "Ready to focus?"
	}
	if event.AutoStarted {
		next += fmt.Sprintf(" %s started.", event.Next.Label())
	}

	if event.Completed == domain.ModePomodoro {
		title = "🍅 Pomodoro Complete!"
		message = fmt.Sprintf("Pomodoro #%d done. %s", event.Cycles, next)
		if event.Task != nil {
			message = fmt.Sprintf("%q: pomodoro #%d done. %s", event.Task.Title, event.Cycles, next)
		}
		return title, message
	}

	return "☕ Break Over!", fmt.Sprintf("Your %s is complete. %s", event.Completed.Label(), next)
}
