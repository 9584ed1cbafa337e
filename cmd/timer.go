package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
)

var (
	timerInline bool
	timerMode   string
	timerTask   string
)

// timerCmd opens the focus timer.
var timerCmd = &cobra.Command{
	Use:   "timer",
	Short: "Open the Pomodoro timer",
	Long: `Open the Pomodoro timer. Completed intervals are recorded in the
history together with the linked task and the current git branch.

Keys: space start/pause, r reset, 1-3 or tab switch mode, t pick a task,
c calendar, q quit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if timerMode != "" {
			mode, err := domain.ParseTimerMode(timerMode)
			if err != nil {
				return err
			}
			app.timer.SwitchMode(mode)
		}

		if timerTask != "" {
			task, err := app.tasks.GetTask(context.Background(), timerTask)
			if err != nil {
				return taskError(timerTask, err)
			}
			app.timer.SetTask(task)
		}

		if err := launchTimer(timerInline); err != nil {
			return fmt.Errorf("timer error: %w", err)
		}
		return nil
	},
}

func init() {
	timerCmd.Flags().BoolVarP(&timerInline, "inline", "i", false, "Compact inline timer (no fullscreen)")
	timerCmd.Flags().StringVarP(&timerMode, "mode", "m", "", "Start in mode: pomodoro, short_break or long_break")
	timerCmd.Flags().StringVarP(&timerTask, "task", "t", "", "Link the timer to a task ID")
}
