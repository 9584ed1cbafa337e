package domain

import (
	"fmt"
	"time"
)

// TimerMode is one of the three focus-timer intervals.
type TimerMode string

const (
	ModePomodoro   TimerMode = "pomodoro"
	ModeShortBreak TimerMode = "short_break"
	ModeLongBreak  TimerMode = "long_break"
)

// TimerModes lists the modes in tab order.
var TimerModes = []TimerMode{ModePomodoro, ModeShortBreak, ModeLongBreak}

// PomodorosBeforeLongBreak is the cycle length: every fourth completed
// pomodoro is followed by a long break.
const PomodorosBeforeLongBreak = 4

// ParseTimerMode accepts the canonical names plus a few short forms.
func ParseTimerMode(s string) (TimerMode, error) {
	switch s {
	case "pomodoro", "work", "focus":
		return ModePomodoro, nil
	case "short_break", "short", "shortBreak":
		return ModeShortBreak, nil
	case "long_break", "long", "longBreak":
		return ModeLongBreak, nil
	}
	return "", fmt.Errorf("%w %q: must be one of pomodoro, short_break, long_break", ErrInvalidTimerMode, s)
}

// Label returns a human-readable label.
func (m TimerMode) Label() string {
	switch m {
	case ModePomodoro:
		return "Pomodoro"
	case ModeShortBreak:
		return "Short Break"
	case ModeLongBreak:
		return "Long Break"
	default:
		return "Unknown"
	}
}

// IsBreak reports whether the mode is a short or long break.
func (m TimerMode) IsBreak() bool {
	return m == ModeShortBreak || m == ModeLongBreak
}

// TimerSettings configures interval lengths and auto-start behaviour.
type TimerSettings struct {
	PomodoroMinutes    int
	ShortBreakMinutes  int
	LongBreakMinutes   int
	AutoStartBreaks    bool
	AutoStartPomodoros bool
}

// DefaultTimerSettings returns the standard 25/5/15 configuration.
func DefaultTimerSettings() TimerSettings {
	return TimerSettings{
		PomodoroMinutes:    25,
		ShortBreakMinutes:  5,
		LongBreakMinutes:   15,
		AutoStartBreaks:    true,
		AutoStartPomodoros: false,
	}
}

// MaxIntervalMinutes caps a single interval at one day.
const MaxIntervalMinutes = 24 * 60

// Validate rejects durations that are not positive or exceed a day.
func (s TimerSettings) Validate() error {
	checks := []struct {
		name  string
		value int
	}{
		{"pomodoro", s.PomodoroMinutes},
		{"short break", s.ShortBreakMinutes},
		{"long break", s.LongBreakMinutes},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return fmt.Errorf("%w: %s minutes must be positive, got %d", ErrInvalidDurationConfig, c.name, c.value)
		}
		if c.value > MaxIntervalMinutes {
			return fmt.Errorf("%w: %s minutes must be at most %d, got %d", ErrInvalidDurationConfig, c.name, MaxIntervalMinutes, c.value)
		}
	}
	return nil
}

// Seconds returns the configured length of mode in seconds.
func (s TimerSettings) Seconds(mode TimerMode) int {
	switch mode {
	case ModeShortBreak:
		return s.ShortBreakMinutes * 60
	case ModeLongBreak:
		return s.LongBreakMinutes * 60
	default:
		return s.PomodoroMinutes * 60
	}
}

// Duration returns the configured length of mode.
func (s TimerSettings) Duration(mode TimerMode) time.Duration {
	return time.Duration(s.Seconds(mode)) * time.Second
}

// NextBreak picks the break that follows a pomodoro, given how many
// pomodoros were completed before this one finished.
func NextBreak(completedBefore int) TimerMode {
	if completedBefore%PomodorosBeforeLongBreak == PomodorosBeforeLongBreak-1 {
		return ModeLongBreak
	}
	return ModeShortBreak
}

// TimerState is the focus-timer state machine. Its methods are the only
// transitions; they are pure and do no scheduling.
type TimerState struct {
	Mode                    TimerMode
	SecondsRemaining        int
	TotalSeconds            int
	IsRunning               bool
	CompletedPomodoroCycles int
}

// IntervalCompletion describes a zero crossing.
type IntervalCompletion struct {
	Completed TimerMode
	Next      TimerMode
	// Cycles is the completed pomodoro count after the transition.
	Cycles      int
	AutoStarted bool
}

// NewTimerState returns a stopped pomodoro at full length.
func NewTimerState(settings TimerSettings) TimerState {
	st := TimerState{}
	st.enter(ModePomodoro, settings, false)
	return st
}

func (st *TimerState) enter(mode TimerMode, settings TimerSettings, running bool) {
	st.Mode = mode
	st.TotalSeconds = settings.Seconds(mode)
	st.SecondsRemaining = st.TotalSeconds
	st.IsRunning = running
}

// Toggle starts a stopped timer or pauses a running one.
func (st *TimerState) Toggle() {
	st.IsRunning = !st.IsRunning
}

// Reset stops the timer and restores the current mode's full length.
// Mode and cycle count are kept.
func (st *TimerState) Reset(settings TimerSettings) {
	st.enter(st.Mode, settings, false)
}

// SwitchMode stops the timer and enters mode at full length.
// The cycle count is kept.
func (st *TimerState) SwitchMode(mode TimerMode, settings TimerSettings) {
	st.enter(mode, settings, false)
}

// Pristine reports whether the countdown is stopped and untouched.
func (st TimerState) Pristine() bool {
	return !st.IsRunning && st.SecondsRemaining == st.TotalSeconds
}

// ApplySettings re-seeds a pristine countdown with new durations. Running
// or partially elapsed countdowns keep their length; the new settings apply
// from the next mode entry.
func (st *TimerState) ApplySettings(settings TimerSettings) bool {
	if !st.Pristine() {
		return false
	}
	st.enter(st.Mode, settings, false)
	return true
}

// Tick advances a running timer by one second. When the countdown reaches
// zero the interval completes and the next mode is entered within the same
// call; the returned completion is non-nil exactly then.
func (st *TimerState) Tick(settings TimerSettings) *IntervalCompletion {
	if !st.IsRunning {
		return nil
	}
	if st.SecondsRemaining > 0 {
		st.SecondsRemaining--
	}
	if st.SecondsRemaining > 0 {
		return nil
	}
	return st.complete(settings)
}

func (st *TimerState) complete(settings TimerSettings) *IntervalCompletion {
	done := &IntervalCompletion{Completed: st.Mode}
	st.IsRunning = false

	if st.Mode == ModePomodoro {
		next := NextBreak(st.CompletedPomodoroCycles)
		st.CompletedPomodoroCycles++
		st.enter(next, settings, settings.AutoStartBreaks)
	} else {
		st.enter(ModePomodoro, settings, settings.AutoStartPomodoros)
	}

	done.Next = st.Mode
	done.Cycles = st.CompletedPomodoroCycles
	done.AutoStarted = st.IsRunning
	return done
}

// ProgressPercent returns how much of the current interval has elapsed,
// from 0 to 100.
func (st TimerState) ProgressPercent() float64 {
	if st.TotalSeconds <= 0 {
		return 0
	}
	p := 100 * (1 - float64(st.SecondsRemaining)/float64(st.TotalSeconds))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Remaining returns the time left as a duration.
func (st TimerState) Remaining() time.Duration {
	return time.Duration(st.SecondsRemaining) * time.Second
}
