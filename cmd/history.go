package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/adapters/git"
	"github.com/xvierd/focus-cli/internal/domain"
)

var (
	historyLimit int
	historyTask  string
)

// historyCmd lists completed intervals.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show completed intervals",
	Long: `Show intervals completed in the last seven days, newest first.
Use --task to see every interval linked to one task.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		var (
			records []*domain.IntervalRecord
			err     error
		)
		if historyTask != "" {
			records, err = app.history.TaskHistory(ctx, historyTask)
			if err != nil {
				return taskError(historyTask, err)
			}
		} else {
			records, err = app.history.RecentIntervals(ctx, historyLimit)
			if err != nil {
				return err
			}
		}

		return printIntervals(cmd.OutOrStdout(), records)
	},
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of intervals")
	historyCmd.Flags().StringVarP(&historyTask, "task", "t", "", "Only intervals linked to this task ID")
}

func printIntervals(w io.Writer, records []*domain.IntervalRecord) error {
	if jsonOutput {
		list := make([]map[string]interface{}, 0, len(records))
		for _, r := range records {
			item := map[string]interface{}{
				"id":              r.ID,
				"mode":            string(r.Mode),
				"planned_seconds": r.PlannedSeconds,
				"completed_at":    r.CompletedAt.Format(timeLayout),
				"notified":        r.Notified,
				"task_title":      r.TaskTitle,
				"git_branch":      r.GitBranch,
				"git_commit":      r.GitCommit,
			}
			if r.TaskID != nil {
				item["task_id"] = *r.TaskID
			}
			list = append(list, item)
		}
		return printJSON(w, map[string]interface{}{"intervals": list, "count": len(list)})
	}

	if len(records) == 0 {
		fmt.Fprintln(w, "No completed intervals yet.")
		return nil
	}

	for _, r := range records {
		line := fmt.Sprintf("%s  %-11s %s", r.CompletedAt.Format("Jan 02 15:04"), r.Mode.Label(), formatMinutes(r.Planned()))
		if r.TaskTitle != "" {
			line += "  " + r.TaskTitle
		}
		if r.GitBranch != "" {
			line += fmt.Sprintf("  [%s@%s]", r.GitBranch, git.ShortCommit(r.GitCommit))
		}
		if !r.Notified {
			line += "  (notification failed)"
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
