package domain

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func oneMinuteSettings() TimerSettings {
	return TimerSettings{
		PomodoroMinutes:   1,
		ShortBreakMinutes: 1,
		LongBreakMinutes:  2,
		AutoStartBreaks:   true,
	}
}

// runOut ticks until the current interval completes.
func runOut(st *TimerState, s TimerSettings) *IntervalCompletion {
	for i := 0; i < 24*60*60; i++ {
		if done := st.Tick(s); done != nil {
			return done
		}
	}
	return nil
}

func TestDefaultTimerSettings(t *testing.T) {
	s := DefaultTimerSettings()

	assert.Equal(t, 25, s.PomodoroMinutes)
	assert.Equal(t, 5, s.ShortBreakMinutes)
	assert.Equal(t, 15, s.LongBreakMinutes)
	assert.True(t, s.AutoStartBreaks)
	assert.False(t, s.AutoStartPomodoros)
	assert.NoError(t, s.Validate())
}

func TestTimerSettings_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*TimerSettings)
	}{
		{"zero pomodoro", func(s *TimerSettings) { s.PomodoroMinutes = 0 }},
		{"negative short break", func(s *TimerSettings) { s.ShortBreakMinutes = -5 }},
		{"zero long break", func(s *TimerSettings) { s.LongBreakMinutes = 0 }},
		{"pomodoro longer than a day", func(s *TimerSettings) { s.PomodoroMinutes = MaxIntervalMinutes + 1 }},
		{"pomodoro overflowing seconds", func(s *TimerSettings) { s.PomodoroMinutes = math.MaxInt/60 + 1 }},
		{"huge long break", func(s *TimerSettings) { s.LongBreakMinutes = math.MaxInt }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultTimerSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidDurationConfig)
		})
	}

	s := DefaultTimerSettings()
	s.PomodoroMinutes = MaxIntervalMinutes
	assert.NoError(t, s.Validate(), "a full day is allowed")
}

func TestNewTimerState(t *testing.T) {
	st := NewTimerState(DefaultTimerSettings())

	assert.Equal(t, ModePomodoro, st.Mode)
	assert.Equal(t, 25*60, st.SecondsRemaining)
	assert.False(t, st.IsRunning)
	assert.Zero(t, st.CompletedPomodoroCycles)
	assert.Zero(t, st.ProgressPercent())
}

func TestTimerState_TickOnlyWhileRunning(t *testing.T) {
	s := DefaultTimerSettings()
	st := NewTimerState(s)

	assert.Nil(t, st.Tick(s))
	assert.Equal(t, 25*60, st.SecondsRemaining)

	st.Toggle()
	st.Tick(s)
	assert.Equal(t, 25*60-1, st.SecondsRemaining)
}

func TestTimerState_CountdownExactness(t *testing.T) {
	s := oneMinuteSettings()
	st := NewTimerState(s)
	st.Toggle()

	transitions := 0
	for i := 0; i < 60; i++ {
		if done := st.Tick(s); done != nil {
			transitions++
			assert.Equal(t, 59, i, "interval should complete on the 60th tick")
		}
	}

	assert.Equal(t, 1, transitions)
	assert.Equal(t, 1, st.CompletedPomodoroCycles)
	assert.Equal(t, ModeShortBreak, st.Mode)
	assert.True(t, st.IsRunning, "autoStartBreaks should start the break")
	assert.Equal(t, 60, st.SecondsRemaining)
}

func TestTimerState_CycleOfFour(t *testing.T) {
	s := oneMinuteSettings()
	s.AutoStartPomodoros = true
	st := NewTimerState(s)
	st.Toggle()

	for n := 1; n <= 8; n++ {
		t.Run(fmt.Sprintf("pomodoro %d", n), func(t *testing.T) {
			require.Equal(t, ModePomodoro, st.Mode)
			done := runOut(&st, s)
			require.NotNil(t, done)

			want := ModeShortBreak
			if n%4 == 0 {
				want = ModeLongBreak
			}
			assert.Equal(t, want, done.Next)
			assert.Equal(t, want, st.Mode)
			assert.Equal(t, n, st.CompletedPomodoroCycles)

			brk := runOut(&st, s)
			require.NotNil(t, brk)
			assert.Equal(t, ModePomodoro, brk.Next)
			assert.Equal(t, n, st.CompletedPomodoroCycles, "breaks do not count as cycles")
		})
	}
}

func TestTimerState_AutoStartFlags(t *testing.T) {
	s := oneMinuteSettings()
	s.AutoStartBreaks = false
	s.AutoStartPomodoros = false
	st := NewTimerState(s)
	st.Toggle()

	done := runOut(&st, s)
	require.NotNil(t, done)
	assert.False(t, done.AutoStarted)
	assert.False(t, st.IsRunning)
	assert.Equal(t, ModeShortBreak, st.Mode)
	assert.Equal(t, 60, st.SecondsRemaining)

	s.AutoStartPomodoros = true
	st.Toggle()
	done = runOut(&st, s)
	require.NotNil(t, done)
	assert.True(t, done.AutoStarted)
	assert.True(t, st.IsRunning)
	assert.Equal(t, ModePomodoro, st.Mode)
}

func TestTimerState_PauseResume(t *testing.T) {
	s := DefaultTimerSettings()
	st := NewTimerState(s)
	st.Toggle()
	for i := 0; i < 10; i++ {
		st.Tick(s)
	}

	st.Toggle()
	paused := st.SecondsRemaining
	st.Tick(s)
	st.Tick(s)
	assert.Equal(t, paused, st.SecondsRemaining)

	st.Toggle()
	st.Tick(s)
	assert.Equal(t, paused-1, st.SecondsRemaining)
}

func TestTimerState_ResetKeepsModeAndCycles(t *testing.T) {
	s := oneMinuteSettings()
	s.AutoStartBreaks = true
	st := NewTimerState(s)
	st.Toggle()
	runOut(&st, s)
	st.Tick(s)
	st.Tick(s)

	mode, cycles := st.Mode, st.CompletedPomodoroCycles
	st.Reset(s)

	assert.Equal(t, mode, st.Mode)
	assert.Equal(t, cycles, st.CompletedPomodoroCycles)
	assert.Equal(t, s.Seconds(mode), st.SecondsRemaining)
	assert.False(t, st.IsRunning)
}

func TestTimerState_SwitchMode(t *testing.T) {
	s := DefaultTimerSettings()
	st := NewTimerState(s)
	st.CompletedPomodoroCycles = 3
	st.Toggle()
	st.Tick(s)

	st.SwitchMode(ModeLongBreak, s)

	assert.Equal(t, ModeLongBreak, st.Mode)
	assert.Equal(t, 15*60, st.SecondsRemaining)
	assert.False(t, st.IsRunning)
	assert.Equal(t, 3, st.CompletedPomodoroCycles)
}

func TestTimerState_ApplySettings(t *testing.T) {
	s := DefaultTimerSettings()
	st := NewTimerState(s)

	changed := s
	changed.PomodoroMinutes = 50
	assert.True(t, st.ApplySettings(changed), "pristine countdown picks up new length")
	assert.Equal(t, 50*60, st.SecondsRemaining)

	st.Toggle()
	st.Tick(changed)
	remaining := st.SecondsRemaining

	shorter := changed
	shorter.PomodoroMinutes = 10
	assert.False(t, st.ApplySettings(shorter), "running countdown keeps its length")
	assert.Equal(t, remaining, st.SecondsRemaining)
	assert.Equal(t, 50*60, st.TotalSeconds)

	st.Reset(shorter)
	assert.Equal(t, 10*60, st.SecondsRemaining)
}

func TestTimerState_ProgressPercent(t *testing.T) {
	st := TimerState{Mode: ModePomodoro, TotalSeconds: 100, SecondsRemaining: 25}
	assert.InDelta(t, 75.0, st.ProgressPercent(), 0.001)

	st.SecondsRemaining = 100
	assert.InDelta(t, 0.0, st.ProgressPercent(), 0.001)

	st.TotalSeconds = 0
	assert.Zero(t, st.ProgressPercent())
}

func TestNextBreak(t *testing.T) {
	for before := 0; before < 12; before++ {
		want := ModeShortBreak
		if (before+1)%4 == 0 {
			want = ModeLongBreak
		}
		assert.Equal(t, want, NextBreak(before), "completed before = %d", before)
	}
}

func TestParseTimerMode(t *testing.T) {
	tests := []struct {
		input   string
		want    TimerMode
		wantErr bool
	}{
		{"pomodoro", ModePomodoro, false},
		{"work", ModePomodoro, false},
		{"short", ModeShortBreak, false},
		{"long_break", ModeLongBreak, false},
		{"nap", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimerMode(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimerMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimerMode_Label(t *testing.T) {
	assert.Equal(t, "Pomodoro", ModePomodoro.Label())
	assert.Equal(t, "Short Break", ModeShortBreak.Label())
	assert.Equal(t, "Long Break", ModeLongBreak.Label())
	assert.Equal(t, "Unknown", TimerMode("x").Label())
}
