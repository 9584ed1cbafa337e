package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/services"
)

const timeLayout = "2006-01-02T15:04:05"

var (
	listStatus string
	listAll    bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	Long: `List pending tasks ordered by priority, then due date.
Use --all to include completed tasks, or --status to filter.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()

		req := services.ListTasksRequest{
			OnlyPending: !listAll && listStatus == "",
		}
		if listStatus != "" {
			status := domain.TaskStatus(listStatus)
			if status != domain.StatusPending && status != domain.StatusCompleted {
				return fmt.Errorf("invalid status %q: use pending or completed", listStatus)
			}
			req.Status = &status
		}

		tasks, err := app.tasks.ListTasks(ctx, req)
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		return printTasks(cmd.OutOrStdout(), tasks)
	},
}

func init() {
	listCmd.Flags().StringVarP(&listStatus, "status", "s", "", "Filter by status (pending, completed)")
	listCmd.Flags().BoolVarP(&listAll, "all", "a", false, "List all tasks (default: pending only)")
}

func pendingOnly() services.ListTasksRequest {
	return services.ListTasksRequest{OnlyPending: true}
}

// printTasks writes tasks as a list, or as JSON with --json.
func printTasks(w io.Writer, tasks []*domain.Task) error {
	if jsonOutput {
		taskList := make([]map[string]interface{}, 0, len(tasks))
		for _, task := range tasks {
			taskList = append(taskList, taskJSON(task))
		}
		return printJSON(w, map[string]interface{}{
			"tasks": taskList,
			"count": len(taskList),
		})
	}

	if len(tasks) == 0 {
		fmt.Fprintln(w, "No tasks found.")
		return nil
	}

	fmt.Fprintf(w, "📋 Tasks (%d):\n\n", len(tasks))
	now := time.Now()
	for _, task := range tasks {
		fmt.Fprintln(w, taskLine(task, now))
		if len(task.Tags) > 0 {
			fmt.Fprintf(w, "   Tags: %s\n", strings.Join(task.Tags, ", "))
		}
	}
	return nil
}

// taskLine renders one task as "<icon> [P] title (due ...) (ID: abcd1234)".
func taskLine(task *domain.Task, now time.Time) string {
	line := fmt.Sprintf("%s %s %s", getStatusIcon(task.Status), priorityTag(task.Priority), task.Title)
	if task.DueDate != nil {
		due := fmt.Sprintf("due %s", domain.DayKeyOf(task.DueDate.In(now.Location())))
		if task.IsOverdue(now) {
			due = "overdue, " + due
		}
		line += fmt.Sprintf(" (%s)", due)
	}
	return line + fmt.Sprintf(" (ID: %s)", domain.ShortID(task.ID))
}

func priorityTag(p domain.Priority) string {
	switch p.Normalize() {
	case domain.PriorityHigh:
		return "[H]"
	case domain.PriorityLow:
		return "[L]"
	default:
		return "[M]"
	}
}

func getStatusIcon(status domain.TaskStatus) string {
	switch status {
	case domain.StatusPending:
		return "⏳"
	case domain.StatusCompleted:
		return "✅"
	default:
		return "❓"
	}
}

func taskJSON(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":          task.ID,
		"title":       task.Title,
		"description": task.Description,
		"priority":    string(task.Priority.Normalize()),
		"status":      string(task.Status),
		"tags":        task.Tags,
		"due":         nil,
		"created_at":  task.CreatedAt.Format(timeLayout),
	}
	if task.DueDate != nil {
		data["due"] = string(domain.DayKeyOf(*task.DueDate))
	}
	if task.CompletedAt != nil {
		data["completed_at"] = task.CompletedAt.Format(timeLayout)
	}
	return data
}
