package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-cli/internal/config"
	"github.com/xvierd/focus-cli/internal/domain"
)

const pickerPageSize = 8

// PickerResult holds the outcome of a task picker interaction.
type PickerResult struct {
	Task    *domain.Task
	Aborted bool
}

// taskTitles adapts a task slice to fuzzy.Source.
type taskTitles []*domain.Task

func (t taskTitles) String(i int) string { return t[i].Title }
func (t taskTitles) Len() int            { return len(t) }

// pickerModel selects a task, narrowing the list by fuzzy title match as
// the user types.
type pickerModel struct {
	title    string
	tasks    []*domain.Task
	filtered []*domain.Task
	query    textinput.Model
	cursor   int
	chosen   bool
	aborted  bool
	theme    config.ThemeConfig
}

func newPickerModel(title string, tasks []*domain.Task, theme config.ThemeConfig) pickerModel {
	ti := textinput.New()
	ti.Placeholder = "type to filter"
	ti.CharLimit = 80
	ti.Width = 40
	ti.Focus()

	return pickerModel{
		title:    title,
		tasks:    tasks,
		filtered: tasks,
		query:    ti,
		theme:    theme,
	}
}

func (m pickerModel) Init() tea.Cmd { return textinput.Blink }

// filter keeps the display order for an empty query and best match first
// otherwise.
func (m *pickerModel) filter() {
	q := strings.TrimSpace(m.query.Value())
	if q == "" {
		m.filtered = m.tasks
	} else {
		matches := fuzzy.FindFrom(q, taskTitles(m.tasks))
		m.filtered = make([]*domain.Task, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, m.tasks[match.Index])
		}
	}
	if m.cursor >= len(m.filtered) {
		m.cursor = max(len(m.filtered)-1, 0)
	}
}

// Selected returns the task under the cursor, or nil.
func (m pickerModel) Selected() *domain.Task {
	if m.cursor < 0 || m.cursor >= len(m.filtered) {
		return nil
	}
	return m.filtered[m.cursor]
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "ctrl+p":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "down", "ctrl+n":
			if m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		case "enter":
			if m.Selected() != nil {
				m.chosen = true
				return m, tea.Quit
			}
			return m, nil
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.query, cmd = m.query.Update(msg)
	m.filter()
	return m, cmd
}

func (m pickerModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	activeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorWork)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))
	dueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorDue))

	b.WriteString("\n")
	b.WriteString(titleStyle.Render("  "+m.title) + " " + m.query.View() + "\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(dimStyle.Render("    no matching tasks") + "\n")
	}

	// Keep the cursor inside a fixed-size window.
	start := 0
	if m.cursor >= pickerPageSize {
		start = m.cursor - pickerPageSize + 1
	}
	end := min(start+pickerPageSize, len(m.filtered))

	for i := start; i < end; i++ {
		task := m.filtered[i]
		due := ""
		if task.DueDate != nil {
			due = dueStyle.Render(" due " + task.DueDate.Format("Jan 02"))
		}
		line := fmt.Sprintf("%s %s", priorityBadge(task.Priority), task.Title)
		if i == m.cursor {
			b.WriteString("  " + activeStyle.Render("▸ "+line) + due + "\n")
		} else {
			b.WriteString("    " + dimStyle.Render(line) + due + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render("  ↑/↓ navigate · enter select · esc cancel") + "\n")

	return b.String()
}

// RunTaskPicker launches the fuzzy task picker.
func RunTaskPicker(title string, tasks []*domain.Task, theme *config.ThemeConfig) PickerResult {
	p := tea.NewProgram(newPickerModel(title, tasks, resolveTheme(theme)))
	result, err := p.Run()
	if err != nil {
		return PickerResult{Aborted: true}
	}

	final := result.(pickerModel)
	if final.aborted || !final.chosen {
		return PickerResult{Aborted: true}
	}
	return PickerResult{Task: final.Selected()}
}

// --- Styled text prompt ---

// TextPromptResult holds the outcome of a text prompt.
type TextPromptResult struct {
	Value   string
	Aborted bool
}

type textPromptModel struct {
	title   string
	input   textinput.Model
	aborted bool
	theme   config.ThemeConfig
}

func (m textPromptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m textPromptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter":
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m textPromptModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(m.theme.ColorTitle))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.ColorHelp))

	return "\n" + titleStyle.Render("  "+m.title) + " " + m.input.View() + "\n\n" +
		dimStyle.Render("  enter confirm · esc cancel") + "\n"
}

// RunTextPrompt launches a styled single-line text prompt.
func RunTextPrompt(title, placeholder string, theme *config.ThemeConfig) TextPromptResult {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 120
	ti.Width = 50
	ti.Focus()

	p := tea.NewProgram(textPromptModel{title: title, input: ti, theme: resolveTheme(theme)})
	result, err := p.Run()
	if err != nil {
		return TextPromptResult{Aborted: true}
	}

	final := result.(textPromptModel)
	if final.aborted {
		return TextPromptResult{Aborted: true}
	}
	return TextPromptResult{Value: strings.TrimSpace(final.input.Value())}
}
