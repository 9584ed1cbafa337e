package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/tui"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

var (
	setPomodoro      int
	setShortBreak    int
	setLongBreak     int
	setAutoBreaks    bool
	setAutoPomodoros bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change timer settings",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show timer settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := app.settings.Current()
		if err != nil {
			return err
		}
		return printSettings(cmd.OutOrStdout(), settings)
	},
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Change timer settings",
	Long: `Change timer settings. Only the flags you pass are changed.
Durations are whole minutes and must be positive.`,
	Example: `  focus settings set --pomodoro 50 --short-break 10
  focus settings set --auto-breaks=false`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var patch services.SettingsPatch
		flags := cmd.Flags()
		if flags.Changed("pomodoro") {
			patch.PomodoroMinutes = &setPomodoro
		}
		if flags.Changed("short-break") {
			patch.ShortBreakMinutes = &setShortBreak
		}
		if flags.Changed("long-break") {
			patch.LongBreakMinutes = &setLongBreak
		}
		if flags.Changed("auto-breaks") {
			patch.AutoStartBreaks = &setAutoBreaks
		}
		if flags.Changed("auto-pomodoros") {
			patch.AutoStartPomodoros = &setAutoPomodoros
		}

		settings, err := app.settings.Patch(patch)
		if err != nil {
			return fmt.Errorf("failed to update settings: %w", err)
		}
		return printSettings(cmd.OutOrStdout(), settings)
	},
}

func init() {
	f := settingsSetCmd.Flags()
	f.IntVar(&setPomodoro, "pomodoro", 0, "Pomodoro length in minutes")
	f.IntVar(&setShortBreak, "short-break", 0, "Short break length in minutes")
	f.IntVar(&setLongBreak, "long-break", 0, "Long break length in minutes")
	f.BoolVar(&setAutoBreaks, "auto-breaks", false, "Start breaks automatically")
	f.BoolVar(&setAutoPomodoros, "auto-pomodoros", false, "Start pomodoros automatically after breaks")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
}

func printSettings(w io.Writer, s domain.TimerSettings) error {
	if jsonOutput {
		return printJSON(w, map[string]interface{}{
			"pomodoro_minutes":     s.PomodoroMinutes,
			"short_break_minutes":  s.ShortBreakMinutes,
			"long_break_minutes":   s.LongBreakMinutes,
			"auto_start_breaks":    s.AutoStartBreaks,
			"auto_start_pomodoros": s.AutoStartPomodoros,
		})
	}
	_, err := fmt.Fprintln(w, tui.SettingsTable(s))
	return err
}
