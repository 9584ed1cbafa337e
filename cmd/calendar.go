package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
)

var calendarInteractive bool

// calendarCmd shows the tasks due in a month.
var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Show a month calendar of due tasks",
	Long: `Show a month grid with markers on days that have tasks due, followed by
the tasks of each day ordered by priority. Defaults to the current month.
Use --interactive to browse months.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		loc := app.tasks.Location()

		month := domain.YearMonthOf(time.Now().In(loc))
		if len(args) == 1 {
			var err error
			if month, err = domain.ParseYearMonth(args[0]); err != nil {
				return err
			}
		}

		fetch := func(m domain.YearMonth) (map[domain.DayKey][]*domain.Task, error) {
			return app.tasks.MonthCalendar(ctx, m)
		}

		if calendarInteractive {
			return tui.RunCalendar(month, fetch, app.config.Calendar.MondayFirst(), &app.config.Theme)
		}

		buckets, err := fetch(month)
		if err != nil {
			return err
		}

		if jsonOutput {
			days := make(map[string]interface{}, len(buckets))
			for key, tasks := range buckets {
				list := make([]map[string]interface{}, 0, len(tasks))
				for _, task := range tasks {
					list = append(list, taskJSON(task))
				}
				days[string(key)] = list
			}
			return printJSON(cmd.OutOrStdout(), map[string]interface{}{
				"month": month.String(),
				"days":  days,
			})
		}

		view := tui.CalendarView{
			Month:       month,
			Tasks:       buckets,
			Today:       time.Now().In(loc),
			MondayFirst: app.config.Calendar.MondayFirst(),
		}
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderMonth(view, &app.config.Theme))
		fmt.Fprintln(cmd.OutOrStdout())
		fmt.Fprintln(cmd.OutOrStdout(), tui.RenderDueList(view, &app.config.Theme))
		return nil
	},
}

func init() {
	calendarCmd.Flags().BoolVarP(&calendarInteractive, "interactive", "i", false, "Browse months interactively")
}
