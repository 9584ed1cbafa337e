package tui

import (
	"context"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// bridge forwards timer callbacks to a running program. Listeners fire
// synchronously, sometimes from inside Update, so messages are queued and
// delivered by a separate goroutine. A full queue drops the message.
type bridge struct {
	msgs chan tea.Msg
}

func newBridge() *bridge {
	return &bridge{msgs: make(chan tea.Msg, 64)}
}

func (b *bridge) send(msg tea.Msg) {
	select {
	case b.msgs <- msg:
	default:
	}
}

// attach registers the bridge on timer. The timer keeps its listeners for
// its lifetime, so one bridge serves one program.
func (b *bridge) attach(timer ports.FocusTimer) {
	timer.OnChange(func(s ports.TimerSnapshot) {
		b.send(snapshotMsg(s))
	})
	timer.OnIntervalComplete(func(ev ports.IntervalEvent, err error) {
		b.send(intervalDoneMsg{event: ev, err: err})
	})
}

func (b *bridge) forward(ctx context.Context, p *tea.Program) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-b.msgs:
			p.Send(msg)
		}
	}
}

func runProgram(ctx context.Context, timer ports.FocusTimer, model tea.Model, opts ...tea.ProgramOption) error {
	b := newBridge()
	b.attach(timer)

	p := tea.NewProgram(model, append(opts, tea.WithContext(ctx))...)

	fwdCtx, stop := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		b.forward(fwdCtx, p)
	}()
	defer wg.Wait()
	defer stop()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// RunTimer runs the fullscreen timer until the user quits or ctx ends.
func RunTimer(ctx context.Context, timer ports.FocusTimer, opts Options) error {
	return runProgram(ctx, timer, NewModel(timer, opts), tea.WithAltScreen())
}

// RunInline runs the compact inline timer.
func RunInline(ctx context.Context, timer ports.FocusTimer, theme *config.ThemeConfig) error {
	return runProgram(ctx, timer, NewInlineModel(timer, theme))
}

// StatusLine renders a one-line plain summary of a snapshot for
// non-interactive output.
func StatusLine(snap ports.TimerSnapshot) string {
	st := snap.State
	state := "paused"
	if st.IsRunning {
		state = "running"
	} else if st.Pristine() {
		state = "ready"
	}
	line := fmt.Sprintf("%s %s (%s) · %s", st.Mode.Label(), formatClock(st.SecondsRemaining), state, cycleLine(st.CompletedPomodoroCycles))
	if snap.Task != nil {
		line += fmt.Sprintf(" · %s", snap.Task.Title)
	}
	return line
}

// SettingsTable renders timer settings for display.
func SettingsTable(s domain.TimerSettings) string {
	return fmt.Sprintf(
		"pomodoro_minutes      %d\nshort_break_minutes   %d\nlong_break_minutes    %d\nauto_start_breaks     %t\nauto_start_pomodoros  %t",
		s.PomodoroMinutes, s.ShortBreakMinutes, s.LongBreakMinutes, s.AutoStartBreaks, s.AutoStartPomodoros,
	)
}
