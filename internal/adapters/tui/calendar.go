package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

// MonthFetcher loads the due tasks of a month bucketed by day.
type MonthFetcher func(month domain.YearMonth) (map[domain.DayKey][]*domain.Task, error)

// CalendarView is everything needed to draw one month.
type CalendarView struct {
	Month       domain.YearMonth
	Tasks       map[domain.DayKey][]*domain.Task
	Today       time.Time
	MondayFirst bool
}

const cellWidth = 4

var (
	sundayFirstHeader = []string{"Su", "Mo", "Tu", "We", "Th", "Fr", "Sa"}
	mondayFirstHeader = []string{"Mo", "Tu", "We", "Th", "Fr", "Sa", "Su"}
)

// leadingBlanks returns how many cells precede day 1 in the first week row.
func leadingBlanks(first time.Time, mondayFirst bool) int {
	wd := int(first.Weekday())
	if mondayFirst {
		return (wd + 6) % 7
	}
	return wd
}

// dayMarker summarises a day's tasks: • when any is pending, ✓ when all
// are done, blank when none are due.
func dayMarker(tasks []*domain.Task) string {
	if len(tasks) == 0 {
		return " "
	}
	for _, t := range tasks {
		if !t.IsCompleted() {
			return "•"
		}
	}
	return "✓"
}

// RenderMonth draws the month as a week grid. Days with due tasks carry a
// marker and today is highlighted.
func RenderMonth(v CalendarView, theme *config.ThemeConfig) string {
	th := resolveTheme(theme)
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(th.ColorTitle))
	headStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ColorHelp))
	dueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ColorDue)).Bold(true)
	todayStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color(th.ColorToday)).Bold(true)

	if !v.Month.Valid() {
		return headStyle.Render("invalid month")
	}

	loc := v.Today.Location()
	first := v.Month.First(loc)
	todayKey := domain.DayKeyOf(v.Today)

	var b strings.Builder
	title := first.Format("January 2006")
	width := 7 * cellWidth
	b.WriteString(titleStyle.Render(fmt.Sprintf("%*s", (width+len(title))/2, title)))
	b.WriteString("\n")

	header := sundayFirstHeader
	if v.MondayFirst {
		header = mondayFirstHeader
	}
	for _, h := range header {
		b.WriteString(headStyle.Render(fmt.Sprintf("%*s  ", cellWidth-2, h)))
	}
	b.WriteString("\n")

	col := leadingBlanks(first, v.MondayFirst)
	b.WriteString(strings.Repeat(" ", col*cellWidth))

	for _, key := range v.Month.Days() {
		day := key[len(key)-2:]
		if day[0] == '0' {
			day = " " + day[1:]
		}
		tasks := v.Tasks[key]
		marker := dayMarker(tasks)

		cell := string(day)
		switch {
		case key == todayKey:
			cell = todayStyle.Render(cell)
		case len(tasks) > 0:
			cell = dueStyle.Render(cell)
		}
		if marker != " " {
			marker = dueStyle.Render(marker)
		}
		b.WriteString(cell + marker + " ")

		col++
		if col == 7 {
			b.WriteString("\n")
			col = 0
		}
	}
	if col != 0 {
		b.WriteString("\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

// RenderDueList lists the month's due tasks day by day in display order.
func RenderDueList(v CalendarView, theme *config.ThemeConfig) string {
	th := resolveTheme(theme)
	dayStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ColorDue)).Bold(true)
	doneStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ColorHelp)).Strikethrough(true)
	taskStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(th.ColorTask))

	var lines []string
	for _, key := range domain.SortedDayKeys(v.Tasks) {
		tasks := v.Tasks[key]
		if len(tasks) == 0 {
			continue
		}
		day, err := key.Time(v.Today.Location())
		label := string(key)
		if err == nil {
			label = day.Format("Mon Jan 02")
		}
		lines = append(lines, dayStyle.Render(label))
		for _, t := range tasks {
			line := fmt.Sprintf("  %s %s  %s", priorityBadge(t.Priority), t.Title, domain.ShortID(t.ID))
			if t.IsCompleted() {
				lines = append(lines, doneStyle.Render(line))
			} else {
				lines = append(lines, taskStyle.Render(line))
			}
		}
	}
	if len(lines) == 0 {
		return taskStyle.Render("Nothing due this month.")
	}
	return strings.Join(lines, "\n")
}

func priorityBadge(p domain.Priority) string {
	switch p.Normalize() {
	case domain.PriorityHigh:
		return "[H]"
	case domain.PriorityLow:
		return "[L]"
	default:
		return "[M]"
	}
}

// monthLoadedMsg carries a fetched month.
type monthLoadedMsg struct {
	month domain.YearMonth
	tasks map[domain.DayKey][]*domain.Task
	err   error
}

// CalendarModel browses months of due tasks.
type CalendarModel struct {
	view  CalendarView
	fetch MonthFetcher
	err   error
	theme config.ThemeConfig
	now   func() time.Time

	// quitOnClose ends the program on q/esc; an embedded calendar only
	// reports closed.
	quitOnClose bool
	closed      bool
}

// NewCalendarModel creates a calendar showing month.
func NewCalendarModel(month domain.YearMonth, fetch MonthFetcher, mondayFirst bool, theme *config.ThemeConfig) CalendarModel {
	return CalendarModel{
		view: CalendarView{
			Month:       month,
			Today:       time.Now(),
			MondayFirst: mondayFirst,
		},
		fetch:       fetch,
		theme:       resolveTheme(theme),
		now:         time.Now,
		quitOnClose: true,
	}
}

func (m CalendarModel) load(month domain.YearMonth) tea.Cmd {
	fetch := m.fetch
	if fetch == nil {
		return nil
	}
	return func() tea.Msg {
		tasks, err := fetch(month)
		return monthLoadedMsg{month: month, tasks: tasks, err: err}
	}
}

// Init loads the initial month.
func (m CalendarModel) Init() tea.Cmd {
	return m.load(m.view.Month)
}

// Update handles navigation keys and loaded months.
func (m CalendarModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "left", "h", "p":
			m.view.Month = m.view.Month.Prev()
			m.view.Tasks = nil
			return m, m.load(m.view.Month)
		case "right", "l", "n":
			m.view.Month = m.view.Month.Next()
			m.view.Tasks = nil
			return m, m.load(m.view.Month)
		case "t":
			m.view.Month = domain.YearMonthOf(m.now())
			m.view.Tasks = nil
			return m, m.load(m.view.Month)
		case "q", "esc", "c", "ctrl+c":
			m.closed = true
			if m.quitOnClose {
				return m, tea.Quit
			}
		}
	case monthLoadedMsg:
		// Drop results for a month the user already left.
		if msg.month == m.view.Month {
			m.view.Tasks = msg.tasks
			m.err = msg.err
		}
	}
	return m, nil
}

// View renders the grid followed by the due list.
func (m CalendarModel) View() string {
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	errStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork))

	v := m.view
	v.Today = m.now()

	sections := []string{RenderMonth(v, &m.theme), ""}
	if m.err != nil {
		sections = append(sections, errStyle.Render("Error: "+m.err.Error()))
	} else {
		sections = append(sections, RenderDueList(v, &m.theme))
	}
	sections = append(sections, "", helpStyle.Render("←/→ month · [t]oday · [q]uit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RunCalendar runs the interactive month browser.
func RunCalendar(month domain.YearMonth, fetch MonthFetcher, mondayFirst bool, theme *config.ThemeConfig) error {
	p := tea.NewProgram(NewCalendarModel(month, fetch, mondayFirst, theme))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("failed to run calendar: %w", err)
	}
	return nil
}
