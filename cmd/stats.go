package cmd

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show a dashboard of the last seven days",
	Long:  `Display completed pomodoros and focus time for today and each of the last seven days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		now := time.Now().In(app.tasks.Location())

		week, err := app.history.WeekStats(ctx, now)
		if err != nil {
			return fmt.Errorf("failed to get stats: %w", err)
		}

		if jsonOutput {
			days := make([]map[string]interface{}, 0, len(week))
			for _, d := range week {
				days = append(days, map[string]interface{}{
					"date":               string(domain.DayKeyOf(d.Date)),
					"pomodoros":          d.Pomodoros,
					"short_breaks":       d.ShortBreaks,
					"long_breaks":        d.LongBreaks,
					"focus_time_minutes": int(d.FocusTime.Minutes()),
				})
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{"days": days})
		}

		fmt.Fprintln(cmd.OutOrStdout())
		renderDashboard(cmd.OutOrStdout(), week, app.config.Theme.ColorWork)
		return nil
	},
}

// renderDashboard prints a per-day bar chart of pomodoros. week is oldest
// first; the last entry is today.
func renderDashboard(w io.Writer, week []*domain.DailyStats, color string) {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	valueStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color))
	barColor := lipgloss.NewStyle().Foreground(lipgloss.Color(color))

	var total domain.DailyStats
	maxCount := 0
	for _, d := range week {
		total.Pomodoros += d.Pomodoros
		total.FocusTime += d.FocusTime
		if d.Pomodoros > maxCount {
			maxCount = d.Pomodoros
		}
	}

	label := "Last 7 days"
	if len(week) > 0 {
		label = fmt.Sprintf("Week ending %s", week[len(week)-1].Date.Format("Mon Jan 2"))
	}
	fmt.Fprintf(w, "  %s\n", titleStyle.Render(label))
	fmt.Fprintf(w, "  %s\n\n", dimStyle.Render(strings.Repeat("─", 40)))

	if len(week) > 0 {
		today := week[len(week)-1]
		fmt.Fprintf(w, "  Today: %s pomodoros, %s focus, %s breaks\n",
			valueStyle.Render(fmt.Sprintf("%d", today.Pomodoros)),
			valueStyle.Render(formatHours(today.FocusTime.Hours())),
			valueStyle.Render(fmt.Sprintf("%d", today.ShortBreaks+today.LongBreaks)),
		)
	}
	fmt.Fprintf(w, "  Total: %s pomodoros, %s focus\n\n",
		valueStyle.Render(fmt.Sprintf("%d", total.Pomodoros)),
		valueStyle.Render(formatHours(total.FocusTime.Hours())),
	)

	if total.Pomodoros == 0 {
		fmt.Fprintf(w, "  %s\n\n", dimStyle.Render("No completed pomodoros in this period."))
		return
	}

	maxBarWidth := 30
	for _, d := range week {
		barWidth := 0
		if maxCount > 0 {
			barWidth = int(math.Round(float64(d.Pomodoros) / float64(maxCount) * float64(maxBarWidth)))
		}
		if barWidth < 1 && d.Pomodoros > 0 {
			barWidth = 1
		}
		fmt.Fprintf(w, "  %s %s %d\n",
			dimStyle.Render(d.Date.Format("Mon 02")),
			barColor.Render(buildBar(barWidth)),
			d.Pomodoros,
		)
	}
	fmt.Fprintln(w)
}

// buildBar creates a horizontal bar using block characters.
func buildBar(width int) string {
	if width <= 0 {
		return ""
	}
	return strings.Repeat("█", width)
}

// formatHours formats a float hours value as "Xh Ym".
func formatHours(h float64) string {
	if h < 0.01 {
		return "0m"
	}
	hours := int(h)
	minutes := int(math.Round((h - float64(hours)) * 60))
	if minutes == 60 {
		hours++
		minutes = 0
	}
	if hours > 0 && minutes > 0 {
		return fmt.Sprintf("%dh %dm", hours, minutes)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dm", minutes)
}
