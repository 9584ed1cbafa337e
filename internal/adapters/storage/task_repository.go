package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

const taskColumns = `id, title, description, priority, due_at, status, tags, created_at, updated_at, completed_at`

// taskRepository implements ports.TaskRepository using SQLite.
type taskRepository struct {
	db *sql.DB
}

// newTaskRepository creates a new task repository.
func newTaskRepository(db *sql.DB) ports.TaskRepository {
	return &taskRepository{db: db}
}

// Save persists a task to storage.
func (r *taskRepository) Save(ctx context.Context, task *domain.Task) error {
	query := `
		INSERT INTO tasks (` + taskColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		string(task.Priority.Normalize()),
		unixOrNil(task.DueDate),
		string(task.Status),
		encodeTags(task.Tags),
		task.CreatedAt,
		task.UpdatedAt,
		task.CompletedAt,
	)
	if isUniqueConstraintError(err) {
		return fmt.Errorf("task %s already exists: %w", task.ID, err)
	}
	if err != nil {
		return fmt.Errorf("failed to save task: %w", err)
	}

	return nil
}

// FindByID retrieves a task by its identifier. A unique prefix of the
// identifier is accepted as well, so short IDs from listings work.
func (r *taskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}

	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = ?`
	task, err := scanTask(r.db.QueryRowContext(ctx, query, id))
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	query = `SELECT ` + taskColumns + ` FROM tasks WHERE id LIKE ? LIMIT 2`
	rows, err := r.db.QueryContext(ctx, query, stripWildcards(id)+"%")
	if err != nil {
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	defer func() { _ = rows.Close() }()

	matches, err := scanTasks(rows)
	if err != nil {
		return nil, err
	}
	switch len(matches) {
	case 0:
		return nil, domain.ErrTaskNotFound
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrAmbiguousTaskID, id)
	}
}

// FindAll retrieves all tasks, optionally filtered by status.
func (r *taskRepository) FindAll(ctx context.Context, status *domain.TaskStatus) ([]*domain.Task, error) {
	var query string
	var args []interface{}

	if status != nil {
		query = `SELECT ` + taskColumns + ` FROM tasks WHERE status = ? ORDER BY created_at ASC`
		args = append(args, string(*status))
	} else {
		query = `SELECT ` + taskColumns + ` FROM tasks ORDER BY created_at ASC`
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// FindDueBetween returns tasks due in [from, to).
func (r *taskRepository) FindDueBetween(ctx context.Context, from, to time.Time) ([]*domain.Task, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE due_at IS NOT NULL AND due_at >= ? AND due_at < ?
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, from.Unix(), to.Unix())
	if err != nil {
		return nil, fmt.Errorf("failed to query due tasks: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTasks(rows)
}

// Search does a fuzzy search for tasks by title, best match first.
func (r *taskRepository) Search(ctx context.Context, query string) ([]*domain.Task, error) {
	tasks, err := r.FindAll(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks for fuzzy search: %w", err)
	}

	titles := make([]string, len(tasks))
	for i, task := range tasks {
		titles[i] = task.Title
	}

	var result []*domain.Task
	for _, match := range fuzzy.Find(query, titles) {
		if match.Score > 0 {
			result = append(result, tasks[match.Index])
		}
	}

	return result, nil
}

// Delete removes a task from storage.
func (r *taskRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

// Update modifies an existing task.
func (r *taskRepository) Update(ctx context.Context, task *domain.Task) error {
	query := `
		UPDATE tasks
		SET title = ?, description = ?, priority = ?, due_at = ?, status = ?, tags = ?, updated_at = ?, completed_at = ?
		WHERE id = ?
	`

	task.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		task.Title,
		task.Description,
		string(task.Priority.Normalize()),
		unixOrNil(task.DueDate),
		string(task.Status),
		encodeTags(task.Tags),
		task.UpdatedAt,
		task.CompletedAt,
		task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return domain.ErrTaskNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanTask(row rowScanner) (*domain.Task, error) {
	var task domain.Task
	var description, tagsStr sql.NullString
	var priority string
	var dueAt sql.NullInt64
	var completedAt sql.NullTime

	err := row.Scan(
		&task.ID,
		&task.Title,
		&description,
		&priority,
		&dueAt,
		&task.Status,
		&tagsStr,
		&task.CreatedAt,
		&task.UpdatedAt,
		&completedAt,
	)
	if err != nil {
		return nil, err
	}

	task.Description = description.String
	task.Priority = domain.Priority(priority).Normalize()
	if dueAt.Valid {
		due := time.Unix(dueAt.Int64, 0)
		task.DueDate = &due
	}
	if completedAt.Valid {
		task.CompletedAt = &completedAt.Time
	}

	task.Tags = decodeTags(tagsStr.String)

	return &task, nil
}

// encodeTags stores tags as a JSON array so tags may contain commas.
func encodeTags(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return ""
	}
	return string(data)
}

// decodeTags reads the JSON array written by encodeTags. Rows written as a
// comma-separated list are still understood.
func decodeTags(s string) []string {
	// Empty slice, not nil, so tasks marshal "tags": [].
	tags := []string{}
	if s == "" {
		return tags
	}
	if strings.HasPrefix(s, "[") && json.Unmarshal([]byte(s), &tags) == nil {
		return tags
	}
	return strings.Split(s, ",")
}

// scanTasks scans multiple task rows.
func scanTasks(rows *sql.Rows) ([]*domain.Task, error) {
	var tasks []*domain.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, task)
	}

	return tasks, rows.Err()
}

func unixOrNil(t *time.Time) interface{} {
	if t == nil || t.IsZero() {
		return nil
	}
	return t.Unix()
}

func stripWildcards(s string) string {
	r := strings.NewReplacer(`%`, ``, `_`, ``)
	return r.Replace(s)
}
