package tui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// getTerminalWidth returns the current terminal width, defaulting to 80.
func getTerminalWidth() int {
	w, _, err := term.GetSize(os.Stdout.Fd())
	if err != nil || w < 40 {
		return 80
	}
	return w
}

// InlineModel is a compact timer drawn below the prompt instead of taking
// over the screen.
type InlineModel struct {
	timer     ports.FocusTimer
	snap      ports.TimerSnapshot
	progress  progress.Model
	width     int
	theme     config.ThemeConfig
	lastEvent *ports.IntervalEvent
}

// NewInlineModel creates an inline model driving timer.
func NewInlineModel(timer ports.FocusTimer, theme *config.ThemeConfig) InlineModel {
	resolved := resolveTheme(theme)
	w := getTerminalWidth()
	pbar := progress.New(progress.WithGradient(resolved.WorkGradientStart, resolved.WorkGradientEnd))
	pbar.Width = w - 36

	return InlineModel{
		timer:    timer,
		snap:     timer.Snapshot(),
		progress: pbar,
		width:    w,
		theme:    resolved,
	}
}

func (m InlineModel) Init() tea.Cmd {
	return nil
}

func (m InlineModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progress.Width = max(msg.Width-36, 10)
		return m, nil
	case snapshotMsg:
		m.snap = ports.TimerSnapshot(msg)
		return m, nil
	case intervalDoneMsg:
		event := msg.event
		m.lastEvent = &event
		return m, nil
	case tea.KeyMsg:
		m.lastEvent = nil
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case " ", "s":
			m.timer.Toggle()
		case "r":
			m.timer.Reset()
		case "1", "2", "3":
			m.timer.SwitchMode(domain.TimerModes[msg.String()[0]-'1'])
		case "tab":
			m.timer.SwitchMode(shiftMode(m.snap.State.Mode, 1))
		}
		m.snap = m.timer.Snapshot()
	}
	return m, nil
}

func (m InlineModel) View() string {
	st := m.snap.State

	color := lipgloss.Color(m.theme.ColorWork)
	gradStart, gradEnd := m.theme.WorkGradientStart, m.theme.WorkGradientEnd
	if st.Mode.IsBreak() {
		color = lipgloss.Color(m.theme.ColorBreak)
		gradStart, gradEnd = m.theme.BreakGradientStart, m.theme.BreakGradientEnd
	}
	clockColor := color
	if !st.IsRunning {
		clockColor = lipgloss.Color(m.theme.ColorPaused)
	}

	modeStyle := lipgloss.NewStyle().Bold(true).Foreground(color)
	clockStyle := lipgloss.NewStyle().Bold(true).Foreground(clockColor)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	bar := progress.New(progress.WithGradient(gradStart, gradEnd))
	bar.Width = m.progress.Width

	var b strings.Builder
	b.WriteString(fmt.Sprintf("  %s %s  %s  %s  %s\n",
		m.theme.IconApp,
		modeStyle.Render(fmt.Sprintf("%-11s", st.Mode.Label())),
		clockStyle.Render(formatClock(st.SecondsRemaining)),
		bar.ViewAs(m.snap.Progress/100),
		dimStyle.Render(fmt.Sprintf("#%d", st.CompletedPomodoroCycles)),
	))

	if m.snap.Task != nil {
		taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
		b.WriteString("  " + taskStyle.Render(m.theme.IconTask+" "+m.snap.Task.Title) + "\n")
	}
	if m.lastEvent != nil {
		b.WriteString("  " + modeStyle.Render(completionLine(*m.lastEvent)) + "\n")
	}
	if m.snap.LastNotifyError != nil {
		warn := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDue))
		b.WriteString("  " + warn.Render("⚠ "+notifyErrorText(m.snap.LastNotifyError)) + "\n")
	}

	action := "start"
	if st.IsRunning {
		action = "pause"
	}
	b.WriteString(dimStyle.Render(fmt.Sprintf("  space %s · r reset · 1-3 mode · q quit", action)) + "\n")
	return b.String()
}
