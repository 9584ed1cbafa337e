// Package mcp provides the MCP (Model Context Protocol) server implementation.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const timeLayout = "2006-01-02T15:04:05"

// Server implements the MCP server using mark3labs/mcp-go.
type Server struct {
	server        *server.MCPServer
	stateProvider ports.MCPStateProvider
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewServer creates a new MCP server instance.
func NewServer(stateProvider ports.MCPStateProvider) *Server {
	s := &Server{
		stateProvider: stateProvider,
	}

	s.server = server.NewMCPServer(
		"focus",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithLogging(),
	)

	s.registerTools()

	return s
}

// registerTools registers all available MCP tools.
func (s *Server) registerTools() {
	// Tasks
	s.server.AddTool(
		mcp.NewTool(
			"list_tasks",
			mcp.WithDescription("List tasks ordered by priority, then due date"),
			mcp.WithString(
				"status",
				mcp.Description("Filter tasks by status"),
				mcp.Enum(string(domain.StatusPending), string(domain.StatusCompleted)),
			),
		),
		s.handleListTasks,
	)

	s.server.AddTool(
		mcp.NewTool(
			"create_task",
			mcp.WithDescription("Create a new task"),
			mcp.WithString(
				"title",
				mcp.Required(),
				mcp.Description("The title of the task"),
			),
			mcp.WithString(
				"priority",
				mcp.Description("high, medium or low (default: medium)"),
			),
			mcp.WithString(
				"due",
				mcp.Description("Optional due date as YYYY-MM-DD"),
			),
		),
		s.handleCreateTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"complete_task",
			mcp.WithDescription("Mark a task as completed"),
			mcp.WithString(
				"task_id",
				mcp.Required(),
				mcp.Description("The ID (or unique ID prefix) of the task to complete"),
			),
		),
		s.handleCompleteTask,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_calendar",
			mcp.WithDescription("Get the tasks due in a month, grouped by day"),
			mcp.WithString(
				"month",
				mcp.Description("Month as YYYY-MM (default: current month)"),
			),
		),
		s.handleGetCalendar,
	)

	// Timer
	s.server.AddTool(
		mcp.NewTool(
			"get_timer",
			mcp.WithDescription("Get the focus timer state: mode, remaining time, cycles and settings"),
		),
		s.handleGetTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"toggle_timer",
			mcp.WithDescription("Start the focus timer if stopped, pause it if running"),
		),
		s.handleToggleTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"reset_timer",
			mcp.WithDescription("Stop the timer and restore the current mode's full length"),
		),
		s.handleResetTimer,
	)

	s.server.AddTool(
		mcp.NewTool(
			"switch_timer_mode",
			mcp.WithDescription("Stop the timer and switch to another mode"),
			mcp.WithString(
				"mode",
				mcp.Required(),
				mcp.Description("The mode to switch to"),
				mcp.Enum(string(domain.ModePomodoro), string(domain.ModeShortBreak), string(domain.ModeLongBreak)),
			),
		),
		s.handleSwitchTimerMode,
	)

	s.server.AddTool(
		mcp.NewTool(
			"update_timer_settings",
			mcp.WithDescription("Change interval lengths or auto-start behaviour. Omitted fields keep their value."),
			mcp.WithNumber("pomodoro_minutes", mcp.Description("Pomodoro length in minutes")),
			mcp.WithNumber("short_break_minutes", mcp.Description("Short break length in minutes")),
			mcp.WithNumber("long_break_minutes", mcp.Description("Long break length in minutes")),
			mcp.WithBoolean("auto_start_breaks", mcp.Description("Start breaks automatically")),
			mcp.WithBoolean("auto_start_pomodoros", mcp.Description("Start pomodoros automatically after a break")),
		),
		s.handleUpdateTimerSettings,
	)

	// History
	s.server.AddTool(
		mcp.NewTool(
			"get_recent_intervals",
			mcp.WithDescription("List intervals completed in the last seven days"),
			mcp.WithNumber("limit", mcp.Description("Maximum number of intervals (default: 20)")),
		),
		s.handleGetRecentIntervals,
	)

	s.server.AddTool(
		mcp.NewTool(
			"get_task_history",
			mcp.WithDescription("Get the pomodoros spent on a specific task"),
			mcp.WithString(
				"task_id",
				mcp.Required(),
				mcp.Description("The ID of the task to get history for"),
			),
		),
		s.handleGetTaskHistory,
	)
}

// Start begins serving MCP requests via stdio.
func (s *Server) Start(ctx context.Context) error {
	s.ctx, s.cancel = context.WithCancel(ctx)

	return server.ServeStdio(s.server)
}

// Stop gracefully shuts down the server.
func (s *Server) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// IsRunning returns true if the server is active.
func (s *Server) IsRunning() bool {
	if s.ctx == nil {
		return false
	}
	return s.ctx.Err() == nil
}

// Ensure Server implements ports.MCPHandler.
var _ ports.MCPHandler = (*Server)(nil)

func taskJSON(task *domain.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":         task.ID,
		"title":      task.Title,
		"priority":   string(task.Priority.Normalize()),
		"status":     string(task.Status),
		"tags":       task.Tags,
		"created_at": task.CreatedAt.Format(timeLayout),
	}
	if task.Description != "" {
		data["description"] = task.Description
	}
	if task.DueDate != nil {
		data["due"] = string(domain.DayKeyOf(*task.DueDate))
	}
	if task.CompletedAt != nil {
		data["completed_at"] = task.CompletedAt.Format(timeLayout)
	}
	return data
}

func intervalJSON(r *domain.IntervalRecord) map[string]interface{} {
	data := map[string]interface{}{
		"id":              r.ID,
		"mode":            string(r.Mode),
		"planned_seconds": r.PlannedSeconds,
		"completed_at":    r.CompletedAt.Format(timeLayout),
		"notified":        r.Notified,
	}
	if r.TaskID != nil {
		data["task_id"] = *r.TaskID
		data["task_title"] = r.TaskTitle
	}
	if r.GitBranch != "" {
		data["git_branch"] = r.GitBranch
	}
	if r.GitCommit != "" {
		data["git_commit"] = r.GitCommit
	}
	return data
}

func timerJSON(snap ports.TimerSnapshot) map[string]interface{} {
	st := snap.State
	data := map[string]interface{}{
		"mode":                 string(st.Mode),
		"mode_label":           st.Mode.Label(),
		"is_running":           st.IsRunning,
		"seconds_remaining":    st.SecondsRemaining,
		"total_seconds":        st.TotalSeconds,
		"remaining":            FormatClock(st.SecondsRemaining),
		"progress":             snap.Progress,
		"completed_pomodoros":  st.CompletedPomodoroCycles,
		"pomodoros_until_long": domain.PomodorosBeforeLongBreak - st.CompletedPomodoroCycles%domain.PomodorosBeforeLongBreak,
		"settings": map[string]interface{}{
			"pomodoro_minutes":     snap.Settings.PomodoroMinutes,
			"short_break_minutes":  snap.Settings.ShortBreakMinutes,
			"long_break_minutes":   snap.Settings.LongBreakMinutes,
			"auto_start_breaks":    snap.Settings.AutoStartBreaks,
			"auto_start_pomodoros": snap.Settings.AutoStartPomodoros,
		},
		"task": nil,
	}
	if snap.Task != nil {
		data["task"] = map[string]interface{}{
			"id":    snap.Task.ID,
			"title": snap.Task.Title,
		}
	}
	if snap.LastNotifyError != nil {
		data["last_notify_error"] = snap.LastNotifyError.Error()
	}
	return data
}

// FormatClock renders seconds as MM:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

// handleListTasks handles the list_tasks tool.
func (s *Server) handleListTasks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var status *domain.TaskStatus
	if raw := request.GetString("status", ""); raw != "" {
		st := domain.TaskStatus(raw)
		if st != domain.StatusPending && st != domain.StatusCompleted {
			return mcp.NewToolResultError(fmt.Sprintf("unknown status %q", raw)), nil
		}
		status = &st
	}

	tasks, err := s.stateProvider.ListTasks(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	taskList := make([]map[string]interface{}, 0, len(tasks))
	for _, task := range tasks {
		taskList = append(taskList, taskJSON(task))
	}

	result := map[string]interface{}{
		"tasks":       taskList,
		"total_count": len(taskList),
	}
	if status != nil {
		result["filter_status"] = string(*status)
	}

	return jsonResult(result)
}

// handleCreateTask handles the create_task tool.
func (s *Server) handleCreateTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := request.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError("title is required: " + err.Error()), nil
	}

	priority := domain.ParsePriority(request.GetString("priority", ""))
	due := request.GetString("due", "")

	task, err := s.stateProvider.CreateTask(ctx, title, priority, due)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to create task: %v", err)), nil
	}

	return jsonResult(taskJSON(task))
}

// handleCompleteTask handles the complete_task tool.
func (s *Server) handleCompleteTask(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	task, err := s.stateProvider.CompleteTask(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to complete task: %v", err)), nil
	}

	return jsonResult(taskJSON(task))
}

// handleGetCalendar handles the get_calendar tool.
func (s *Server) handleGetCalendar(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	month := domain.YearMonthOf(time.Now())
	if raw := request.GetString("month", ""); raw != "" {
		parsed, err := domain.ParseYearMonth(raw)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		month = parsed
	}

	buckets, err := s.stateProvider.MonthCalendar(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar: %w", err)
	}

	// Only days with tasks are listed; the client knows the month length.
	days := make(map[string]interface{})
	total := 0
	for _, key := range domain.SortedDayKeys(buckets) {
		tasks := buckets[key]
		if len(tasks) == 0 {
			continue
		}
		list := make([]map[string]interface{}, 0, len(tasks))
		for _, task := range tasks {
			list = append(list, taskJSON(task))
		}
		days[string(key)] = list
		total += len(tasks)
	}

	return jsonResult(map[string]interface{}{
		"month":       month.String(),
		"days_in":     month.DaysIn(),
		"days":        days,
		"total_count": total,
	})
}

func (s *Server) timer() (ports.FocusTimer, *mcp.CallToolResult) {
	timer := s.stateProvider.Timer()
	if timer == nil {
		return nil, mcp.NewToolResultError(ports.ErrTimerUnavailable.Error())
	}
	return timer, nil
}

// handleGetTimer handles the get_timer tool.
func (s *Server) handleGetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer, errResult := s.timer()
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(timerJSON(timer.Snapshot()))
}

// handleToggleTimer handles the toggle_timer tool.
func (s *Server) handleToggleTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer, errResult := s.timer()
	if errResult != nil {
		return errResult, nil
	}
	timer.Toggle()
	return jsonResult(timerJSON(timer.Snapshot()))
}

// handleResetTimer handles the reset_timer tool.
func (s *Server) handleResetTimer(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer, errResult := s.timer()
	if errResult != nil {
		return errResult, nil
	}
	timer.Reset()
	return jsonResult(timerJSON(timer.Snapshot()))
}

// handleSwitchTimerMode handles the switch_timer_mode tool.
func (s *Server) handleSwitchTimerMode(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer, errResult := s.timer()
	if errResult != nil {
		return errResult, nil
	}

	raw, err := request.RequireString("mode")
	if err != nil {
		return mcp.NewToolResultError("mode is required: " + err.Error()), nil
	}
	mode, err := domain.ParseTimerMode(raw)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	timer.SwitchMode(mode)
	return jsonResult(timerJSON(timer.Snapshot()))
}

// handleUpdateTimerSettings handles the update_timer_settings tool.
func (s *Server) handleUpdateTimerSettings(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	timer, errResult := s.timer()
	if errResult != nil {
		return errResult, nil
	}

	settings := timer.Snapshot().Settings
	args := request.GetArguments()

	minutes := []struct {
		key    string
		target *int
	}{
		{"pomodoro_minutes", &settings.PomodoroMinutes},
		{"short_break_minutes", &settings.ShortBreakMinutes},
		{"long_break_minutes", &settings.LongBreakMinutes},
	}
	for _, m := range minutes {
		if _, ok := args[m.key]; !ok {
			continue
		}
		n, ok := intArg(args[m.key])
		if !ok {
			return mcp.NewToolResultError(m.key + " must be a whole number"), nil
		}
		*m.target = n
	}
	if _, ok := args["auto_start_breaks"]; ok {
		settings.AutoStartBreaks = request.GetBool("auto_start_breaks", settings.AutoStartBreaks)
	}
	if _, ok := args["auto_start_pomodoros"]; ok {
		settings.AutoStartPomodoros = request.GetBool("auto_start_pomodoros", settings.AutoStartPomodoros)
	}

	if err := s.stateProvider.UpdateTimerSettings(settings); err != nil {
		if errors.Is(err, domain.ErrInvalidDurationConfig) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("failed to update settings: %v", err)), nil
	}

	return jsonResult(timerJSON(timer.Snapshot()))
}

// intArg accepts JSON numbers and numeric strings.
func intArg(v interface{}) (int, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// handleGetRecentIntervals handles the get_recent_intervals tool.
func (s *Server) handleGetRecentIntervals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	limit := int(request.GetFloat("limit", 20))
	if limit <= 0 {
		limit = 20
	}

	records, err := s.stateProvider.RecentIntervals(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get recent intervals: %w", err)
	}

	list := make([]map[string]interface{}, 0, len(records))
	for _, r := range records {
		list = append(list, intervalJSON(r))
	}

	return jsonResult(map[string]interface{}{
		"intervals":   list,
		"total_count": len(list),
	})
}

// handleGetTaskHistory handles the get_task_history tool.
func (s *Server) handleGetTaskHistory(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	taskID, err := request.RequireString("task_id")
	if err != nil {
		return mcp.NewToolResultError("task_id is required: " + err.Error()), nil
	}

	records, err := s.stateProvider.TaskHistory(ctx, taskID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to get task history: %v", err)), nil
	}

	list := make([]map[string]interface{}, 0, len(records))
	var focus time.Duration
	for _, r := range records {
		list = append(list, intervalJSON(r))
		if r.Mode == domain.ModePomodoro {
			focus += r.Planned()
		}
	}

	return jsonResult(map[string]interface{}{
		"task_id":         taskID,
		"intervals":       list,
		"total_intervals": len(list),
		"total_focus":     focus.String(),
	})
}
