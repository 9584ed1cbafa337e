// Package tui provides the terminal user interface implementation
// using the Bubbletea framework.
package tui

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

// resolveTheme fills any empty string fields in the given ThemeConfig with defaults.
// If theme is nil, returns the full default theme.
func resolveTheme(theme *config.ThemeConfig) config.ThemeConfig {
	defaults := config.DefaultThemeConfig()
	if theme == nil {
		return defaults
	}
	resolved := *theme
	rv := reflect.ValueOf(&resolved).Elem()
	dv := reflect.ValueOf(defaults)
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if f.Kind() == reflect.String && f.String() == "" {
			f.SetString(dv.Field(i).String())
		}
	}
	return resolved
}

// Options configure the timer screens.
type Options struct {
	Theme       *config.ThemeConfig
	MondayFirst bool
	// Tasks lists the tasks offered by the [t]ask picker. Nil disables it.
	Tasks func() ([]*domain.Task, error)
	// Calendar loads months for the [c]alendar view. Nil disables it.
	Calendar MonthFetcher
}

// snapshotMsg delivers a timer change to the program.
type snapshotMsg ports.TimerSnapshot

// intervalDoneMsg delivers a completed interval to the program.
type intervalDoneMsg struct {
	event ports.IntervalEvent
	err   error
}

// tasksLoadedMsg carries the tasks for the picker.
type tasksLoadedMsg struct {
	tasks []*domain.Task
	err   error
}

// Model is the fullscreen focus timer.
type Model struct {
	timer    ports.FocusTimer
	snap     ports.TimerSnapshot
	opts     Options
	theme    config.ThemeConfig
	progress progress.Model
	width    int
	height   int
	now      func() time.Time

	// lastEvent is the most recent completed interval, shown until the
	// next key press.
	lastEvent *ports.IntervalEvent
	err       error

	picking      bool
	picker       pickerModel
	showCalendar bool
	calendar     CalendarModel
}

// NewModel creates a timer model driving timer.
func NewModel(timer ports.FocusTimer, opts Options) Model {
	theme := resolveTheme(opts.Theme)
	return Model{
		timer:    timer,
		snap:     timer.Snapshot(),
		opts:     opts,
		theme:    theme,
		progress: progress.New(progress.WithGradient(theme.WorkGradientStart, theme.WorkGradientEnd)),
		now:      time.Now,
	}
}

// Init initializes the TUI. Ticks come from the timer itself.
func (m Model) Init() tea.Cmd {
	return nil
}

// modeColor returns the theme color of a timer mode.
func (m Model) modeColor(mode domain.TimerMode) lipgloss.Color {
	if mode.IsBreak() {
		return lipgloss.Color(m.theme.ColorBreak)
	}
	return lipgloss.Color(m.theme.ColorWork)
}

// clockColor dims the clock while the timer is stopped.
func (m Model) clockColor() lipgloss.Color {
	if !m.snap.State.IsRunning {
		return lipgloss.Color(m.theme.ColorPaused)
	}
	return m.modeColor(m.snap.State.Mode)
}

// refresh pulls the snapshot right after a command so the view never
// lags behind a key press.
func (m *Model) refresh() {
	m.snap = m.timer.Snapshot()
}

func shiftMode(mode domain.TimerMode, step int) domain.TimerMode {
	n := len(domain.TimerModes)
	for i, candidate := range domain.TimerModes {
		if candidate == mode {
			return domain.TimerModes[((i+step)%n+n)%n]
		}
	}
	return domain.ModePomodoro
}

func (m Model) loadTasks() tea.Cmd {
	fetch := m.opts.Tasks
	return func() tea.Msg {
		tasks, err := fetch()
		return tasksLoadedMsg{tasks: tasks, err: err}
	}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(msg.Width-4, 60)
		return m, nil
	case snapshotMsg:
		m.snap = ports.TimerSnapshot(msg)
		return m, nil
	case intervalDoneMsg:
		event := msg.event
		m.lastEvent = &event
		return m, nil
	case tasksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.picker = newPickerModel("Focus on:", domain.OrderTasks(msg.tasks), m.theme)
		m.picking = true
		return m, m.picker.Init()
	}

	if m.picking {
		return m.updatePicker(msg)
	}
	if m.showCalendar {
		return m.updateCalendar(msg)
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	m.lastEvent = nil
	m.err = nil

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case " ", "s":
		m.timer.Toggle()
	case "r":
		m.timer.Reset()
	case "1", "2", "3":
		m.timer.SwitchMode(domain.TimerModes[key.String()[0]-'1'])
	case "tab":
		m.timer.SwitchMode(shiftMode(m.snap.State.Mode, 1))
	case "shift+tab":
		m.timer.SwitchMode(shiftMode(m.snap.State.Mode, -1))
	case "t":
		if m.opts.Tasks != nil {
			return m, m.loadTasks()
		}
	case "x":
		m.timer.SetTask(nil)
	case "c":
		if m.opts.Calendar != nil {
			m.calendar = NewCalendarModel(domain.YearMonthOf(m.now()), m.opts.Calendar, m.opts.MondayFirst, &m.theme)
			m.calendar.quitOnClose = false
			m.calendar.now = m.now
			m.showCalendar = true
			return m, m.calendar.Init()
		}
	}

	m.refresh()
	return m, nil
}

func (m Model) updatePicker(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.picker.Update(msg)
	m.picker = next.(pickerModel)

	switch {
	case m.picker.chosen:
		m.picking = false
		m.timer.SetTask(m.picker.Selected())
		m.refresh()
		return m, nil
	case m.picker.aborted:
		m.picking = false
		return m, nil
	}
	return m, cmd
}

func (m Model) updateCalendar(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.calendar.Update(msg)
	m.calendar = next.(CalendarModel)
	if m.calendar.closed {
		m.showCalendar = false
		return m, nil
	}
	return m, cmd
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var content string
	switch {
	case m.picking:
		content = m.picker.View()
	case m.showCalendar:
		content = m.calendar.View()
	default:
		content = m.viewTimer()
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m Model) viewTimer() string {
	st := m.snap.State
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle)).MarginBottom(1)

	sections := []string{
		titleStyle.Render(fmt.Sprintf("%s Focus", m.theme.IconApp)),
		m.viewTabs(),
		"",
		renderBigClock(formatClock(st.SecondsRemaining), m.clockColor(), m.width),
		"",
	}

	bar := m.progress
	if st.Mode.IsBreak() {
		bar = progress.New(progress.WithGradient(m.theme.BreakGradientStart, m.theme.BreakGradientEnd))
		bar.Width = m.progress.Width
	}
	sections = append(sections, bar.ViewAs(m.snap.Progress/100))

	status := "Paused"
	if st.IsRunning {
		status = "Running"
	} else if st.Pristine() {
		status = "Ready"
	}
	sections = append(sections, helpStyle.Render(fmt.Sprintf("%s · %s", status, cycleLine(st.CompletedPomodoroCycles))))

	if m.snap.Task != nil {
		taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorTask))
		sections = append(sections, "", taskStyle.Render(fmt.Sprintf("%s %s", m.theme.IconTask, m.snap.Task.Title)))
	}

	if m.lastEvent != nil {
		flash := lipgloss.NewStyle().Bold(true).Foreground(m.modeColor(m.lastEvent.Next))
		sections = append(sections, "", flash.Render(completionLine(*m.lastEvent)))
	}

	if banner := m.viewErrors(); banner != "" {
		sections = append(sections, "", banner)
	}

	sections = append(sections, "", helpStyle.Render(m.helpLine()))
	return lipgloss.JoinVertical(lipgloss.Center, sections...)
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(domain.TimerModes))
	for i, mode := range domain.TimerModes {
		label := fmt.Sprintf(" %d %s ", i+1, mode.Label())
		if mode == m.snap.State.Mode {
			tabs = append(tabs, lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FFFFFF")).
				Background(m.modeColor(mode)).
				Render(label))
		} else {
			tabs = append(tabs, lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp)).Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewErrors() string {
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDue))
	var lines []string
	if m.snap.LastNotifyError != nil {
		lines = append(lines, errStyle.Render("⚠ "+notifyErrorText(m.snap.LastNotifyError)))
	}
	if m.err != nil {
		lines = append(lines, errStyle.Render("Error: "+m.err.Error()))
	}
	return strings.Join(lines, "\n")
}

func (m Model) helpLine() string {
	action := "[space] start"
	if m.snap.State.IsRunning {
		action = "[space] pause"
	}
	parts := []string{action, "[r]eset", "[1-3]/tab mode"}
	if m.opts.Tasks != nil {
		parts = append(parts, "[t]ask")
	}
	if m.snap.Task != nil {
		parts = append(parts, "[x] clear task")
	}
	if m.opts.Calendar != nil {
		parts = append(parts, "[c]alendar")
	}
	parts = append(parts, "[q]uit")
	return strings.Join(parts, "  ")
}

// cycleLine describes progress toward the next long break.
func cycleLine(completed int) string {
	until := domain.PomodorosBeforeLongBreak - completed%domain.PomodorosBeforeLongBreak
	return fmt.Sprintf("#%d · %d until long break", completed, until)
}

// completionLine is the message shown after an interval ends.
func completionLine(ev ports.IntervalEvent) string {
	done := fmt.Sprintf("%s complete!", ev.Completed.Label())
	if ev.AutoStarted {
		return fmt.Sprintf("%s %s started.", done, ev.Next.Label())
	}
	return fmt.Sprintf("%s Next up: %s. Press space to start.", done, ev.Next.Label())
}

func notifyErrorText(err error) string {
	if errors.Is(err, domain.ErrNotificationFailed) {
		return err.Error()
	}
	return fmt.Sprintf("%v: %v", domain.ErrNotificationFailed, err)
}

// formatClock formats seconds as MM:SS.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
