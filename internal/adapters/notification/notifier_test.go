package notification

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

type calls struct {
	notify int
	beep   int
	title  string
}

func stubBeeep(t *testing.T, notifyErr, beepErr error) *calls {
	t.Helper()
	c := &calls{}
	origNotify, origBeep := notifyFunc, beepFunc
	notifyFunc = func(title, message string) error {
		c.notify++
		c.title = title
		return notifyErr
	}
	beepFunc = func() error {
		c.beep++
		return beepErr
	}
	t.Cleanup(func() { notifyFunc, beepFunc = origNotify, origBeep })
	return c
}

var pomodoroDone = ports.IntervalEvent{
	Completed: domain.ModePomodoro,
	Next:      domain.ModeShortBreak,
	Cycles:    1,
}

func TestNotifier_Disabled(t *testing.T) {
	c := stubBeeep(t, nil, nil)
	n := New(config.NotificationConfig{Enabled: false, Sound: true})

	if err := n.NotifyIntervalComplete(context.Background(), pomodoroDone); err != nil {
		t.Errorf("NotifyIntervalComplete() error = %v", err)
	}
	if c.notify != 0 || c.beep != 0 {
		t.Errorf("disabled notifier made %d notify and %d beep calls", c.notify, c.beep)
	}
}

func TestNotifier_SoundFollowsConfig(t *testing.T) {
	tests := []struct {
		sound    bool
		wantBeep int
	}{
		{true, 1},
		{false, 0},
	}

	for _, tt := range tests {
		c := stubBeeep(t, nil, nil)
		n := New(config.NotificationConfig{Enabled: true, Sound: tt.sound})

		if err := n.NotifyIntervalComplete(context.Background(), pomodoroDone); err != nil {
			t.Errorf("NotifyIntervalComplete() error = %v", err)
		}
		if c.notify != 1 {
			t.Errorf("notify calls = %d, want 1", c.notify)
		}
		if c.beep != tt.wantBeep {
			t.Errorf("sound=%v beep calls = %d, want %d", tt.sound, c.beep, tt.wantBeep)
		}
	}
}

func TestNotifier_ReportsFailures(t *testing.T) {
	notifyErr := errors.New("no notification daemon")
	c := stubBeeep(t, notifyErr, nil)
	n := New(config.NotificationConfig{Enabled: true, Sound: true})

	err := n.NotifyIntervalComplete(context.Background(), pomodoroDone)

	if !errors.Is(err, notifyErr) {
		t.Errorf("NotifyIntervalComplete() error = %v, want %v", err, notifyErr)
	}
	if c.beep != 1 {
		t.Error("beep should still be attempted when the notification fails")
	}
}

func TestNotifier_CancelledContext(t *testing.T) {
	stubBeeep(t, nil, nil)
	n := New(config.NotificationConfig{Enabled: true})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := n.NotifyIntervalComplete(ctx, pomodoroDone); !errors.Is(err, context.Canceled) {
		t.Errorf("NotifyIntervalComplete() error = %v, want context.Canceled", err)
	}
}

func TestMessage(t *testing.T) {
	task := &domain.Task{Title: "Write report"}

	title, msg := Message(ports.IntervalEvent{Completed: domain.ModePomodoro, Next: domain.ModeLongBreak, Cycles: 4, Task: task})
	if !strings.Contains(title, "Pomodoro") {
		t.Errorf("title = %q, want pomodoro title", title)
	}
	if !strings.Contains(msg, "Write report") || !strings.Contains(msg, "long break") {
		t.Errorf("message = %q, want task title and long break", msg)
	}

	title, msg = Message(ports.IntervalEvent{Completed: domain.ModeShortBreak, Next: domain.ModePomodoro, AutoStarted: true})
	if !strings.Contains(title, "Break") {
		t.Errorf("title = %q, want break title", title)
	}
	if !strings.Contains(msg, "Pomodoro started") {
		t.Errorf("message = %q, want auto-start note", msg)
	}
}
