package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/xvierd/focus-cli/internal/domain"
	"github.com/xvierd/focus-cli/internal/ports"
)

func newTestStorage(t *testing.T) ports.Storage {
	t.Helper()
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = storage.Close() })
	return storage
}

func TestNewMemory(t *testing.T) {
	storage, err := NewMemory()
	if err != nil {
		t.Fatalf("NewMemory() error = %v", err)
	}
	defer func() { _ = storage.Close() }()

	if storage == nil {
		t.Error("NewMemory() returned nil storage")
	}
	if err := storage.Migrate(); err != nil {
		t.Errorf("Migrate() should be idempotent, got %v", err)
	}
}

func TestTaskRepository_SaveAndFind(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	t.Run("round trips priority, due date and tags", func(t *testing.T) {
		task, _ := domain.NewTask("Find Me")
		task.SetPriority(domain.PriorityHigh)
		due := time.Date(2025, 4, 20, 9, 0, 0, 0, time.UTC)
		task.SetDueDate(&due)
		task.AddTag("work")
		task.AddTag("q2")

		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.Title != task.Title {
			t.Errorf("Found task title = %v, want %v", found.Title, task.Title)
		}
		if found.Priority != domain.PriorityHigh {
			t.Errorf("Found task priority = %v, want high", found.Priority)
		}
		if found.DueDate == nil || !found.DueDate.Equal(due) {
			t.Errorf("Found task due = %v, want %v", found.DueDate, due)
		}
		if len(found.Tags) != 2 {
			t.Errorf("Found task tags = %v, want 2 tags", found.Tags)
		}
	})

	t.Run("tags containing commas", func(t *testing.T) {
		task, _ := domain.NewTask("Comma tags")
		task.AddTag("a,b")
		task.AddTag("c")
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if len(found.Tags) != 2 || found.Tags[0] != "a,b" || found.Tags[1] != "c" {
			t.Errorf("Found task tags = %q, want [a,b c]", found.Tags)
		}

		found.AddTag("d, e")
		if err := repo.Update(ctx, found); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		again, _ := repo.FindByID(ctx, task.ID)
		if len(again.Tags) != 3 || again.Tags[2] != "d, e" {
			t.Errorf("Updated task tags = %q, want [a,b c d, e]", again.Tags)
		}
	})

	t.Run("task without due date", func(t *testing.T) {
		task, _ := domain.NewTask("Someday")
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.DueDate != nil {
			t.Errorf("Found task due = %v, want nil", found.DueDate)
		}
		if found.Priority != domain.PriorityMedium {
			t.Errorf("Found task priority = %v, want medium", found.Priority)
		}
	})

	t.Run("find by id prefix", func(t *testing.T) {
		task, _ := domain.NewTask("Prefixed")
		task.ID = "zzzz-prefix-test"
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}

		found, err := repo.FindByID(ctx, "zzzz")
		if err != nil {
			t.Fatalf("FindByID() error = %v", err)
		}
		if found.ID != task.ID {
			t.Errorf("FindByID() returned %v, want %v", found.ID, task.ID)
		}
	})

	t.Run("ambiguous prefix", func(t *testing.T) {
		a, _ := domain.NewTask("A")
		a.ID = "yyyy-1"
		b, _ := domain.NewTask("B")
		b.ID = "yyyy-2"
		_ = repo.Save(ctx, a)
		_ = repo.Save(ctx, b)

		_, err := repo.FindByID(ctx, "yyyy")
		if !errors.Is(err, domain.ErrAmbiguousTaskID) {
			t.Errorf("FindByID() error = %v, want ErrAmbiguousTaskID", err)
		}
	})

	t.Run("find non-existent", func(t *testing.T) {
		_, err := repo.FindByID(ctx, "non-existent-id")
		if !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("FindByID() error = %v, want ErrTaskNotFound", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		task, _ := domain.NewTask("Twice")
		if err := repo.Save(ctx, task); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
		if err := repo.Save(ctx, task); err == nil {
			t.Error("Save() should fail for a duplicate id")
		}
	})
}

func TestTaskRepository_FindAll(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task1, _ := domain.NewTask("Task 1")
	task2, _ := domain.NewTask("Task 2")
	task3, _ := domain.NewTask("Task 3")
	task3.Complete()

	_ = repo.Save(ctx, task1)
	_ = repo.Save(ctx, task2)
	_ = repo.Save(ctx, task3)

	t.Run("find all without filter", func(t *testing.T) {
		tasks, err := repo.FindAll(ctx, nil)
		if err != nil {
			t.Errorf("FindAll() error = %v", err)
		}
		if len(tasks) != 3 {
			t.Errorf("FindAll() returned %d tasks, want 3", len(tasks))
		}
	})

	t.Run("find with status filter", func(t *testing.T) {
		status := domain.StatusCompleted
		tasks, err := repo.FindAll(ctx, &status)
		if err != nil {
			t.Errorf("FindAll() error = %v", err)
		}
		if len(tasks) != 1 {
			t.Errorf("FindAll() returned %d tasks, want 1", len(tasks))
		}
		if len(tasks) == 1 && tasks[0].CompletedAt == nil {
			t.Error("completed task should keep completed_at")
		}
	})
}

func TestTaskRepository_FindDueBetween(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	april := time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)
	may := april.AddDate(0, 1, 0)

	dates := map[string]time.Time{
		"first":  april,
		"middle": time.Date(2025, 4, 15, 12, 0, 0, 0, time.UTC),
		"last":   may.Add(-time.Second),
		"may":    may,
		"march":  april.Add(-time.Second),
	}
	for title, due := range dates {
		task, _ := domain.NewTask(title)
		due := due
		task.SetDueDate(&due)
		_ = repo.Save(ctx, task)
	}
	undated, _ := domain.NewTask("undated")
	_ = repo.Save(ctx, undated)

	tasks, err := repo.FindDueBetween(ctx, april, may)
	if err != nil {
		t.Fatalf("FindDueBetween() error = %v", err)
	}

	got := map[string]bool{}
	for _, task := range tasks {
		got[task.Title] = true
	}
	for _, want := range []string{"first", "middle", "last"} {
		if !got[want] {
			t.Errorf("FindDueBetween() missing %q", want)
		}
	}
	if len(tasks) != 3 {
		t.Errorf("FindDueBetween() returned %d tasks, want 3", len(tasks))
	}
}

func TestTaskRepository_Search(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	for _, title := range []string{"Write quarterly report", "Buy groceries", "Review report draft"} {
		task, _ := domain.NewTask(title)
		_ = repo.Save(ctx, task)
	}

	tasks, err := repo.Search(ctx, "report")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(tasks) != 2 {
		t.Errorf("Search() returned %d tasks, want 2", len(tasks))
	}
	for _, task := range tasks {
		if task.Title == "Buy groceries" {
			t.Error("Search() should not match 'Buy groceries'")
		}
	}
}

func TestTaskRepository_Update(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("Original Title")
	if err := repo.Save(ctx, task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	task.Title = "Updated Title"
	task.SetPriority(domain.PriorityLow)
	task.Complete()

	if err := repo.Update(ctx, task); err != nil {
		t.Errorf("Update() error = %v", err)
	}

	found, _ := repo.FindByID(ctx, task.ID)
	if found.Title != "Updated Title" {
		t.Errorf("Update() title = %v, want 'Updated Title'", found.Title)
	}
	if found.Status != domain.StatusCompleted {
		t.Errorf("Update() status = %v, want completed", found.Status)
	}
	if found.Priority != domain.PriorityLow {
		t.Errorf("Update() priority = %v, want low", found.Priority)
	}

	t.Run("clearing the due date", func(t *testing.T) {
		due := time.Now()
		found.SetDueDate(&due)
		_ = repo.Update(ctx, found)
		found.SetDueDate(nil)
		_ = repo.Update(ctx, found)

		again, _ := repo.FindByID(ctx, task.ID)
		if again.DueDate != nil {
			t.Errorf("DueDate = %v, want nil", again.DueDate)
		}
	})

	t.Run("update missing task", func(t *testing.T) {
		ghost, _ := domain.NewTask("Ghost")
		if err := repo.Update(ctx, ghost); !errors.Is(err, domain.ErrTaskNotFound) {
			t.Errorf("Update() error = %v, want ErrTaskNotFound", err)
		}
	})
}

func TestTaskRepository_Delete(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Tasks()

	task, _ := domain.NewTask("To Delete")
	if err := repo.Save(ctx, task); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if err := repo.Delete(ctx, task.ID); err != nil {
		t.Errorf("Delete() error = %v", err)
	}

	_, err := repo.FindByID(ctx, task.ID)
	if !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("FindByID() after delete error = %v, want ErrTaskNotFound", err)
	}

	if err := repo.Delete(ctx, task.ID); !errors.Is(err, domain.ErrTaskNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrTaskNotFound", err)
	}
}

func TestIntervalRepository_SaveAndFind(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Intervals()

	task, _ := domain.NewTask("Linked")
	_ = storage.Tasks().Save(ctx, task)

	work := domain.NewIntervalRecord(domain.ModePomodoro, 25*60, task)
	work.SetGitContext("main", "abc1234")
	if err := repo.Save(ctx, work); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	rest := domain.NewIntervalRecord(domain.ModeShortBreak, 5*60, nil)
	rest.Notified = false
	rest.CompletedAt = work.CompletedAt.Add(time.Second)
	if err := repo.Save(ctx, rest); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	t.Run("find recent newest first", func(t *testing.T) {
		records, err := repo.FindRecent(ctx, time.Now().Add(-time.Hour), 10)
		if err != nil {
			t.Fatalf("FindRecent() error = %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("FindRecent() returned %d records, want 2", len(records))
		}
		if records[0].Mode != domain.ModeShortBreak {
			t.Errorf("records[0].Mode = %v, want short_break", records[0].Mode)
		}
		if records[0].Notified {
			t.Error("records[0].Notified should be false")
		}
		if records[1].GitBranch != "main" || records[1].TaskTitle != "Linked" {
			t.Errorf("records[1] = %+v, want git branch and task title", records[1])
		}
	})

	t.Run("limit", func(t *testing.T) {
		records, _ := repo.FindRecent(ctx, time.Now().Add(-time.Hour), 1)
		if len(records) != 1 {
			t.Errorf("FindRecent() returned %d records, want 1", len(records))
		}
	})

	t.Run("find by task", func(t *testing.T) {
		records, err := repo.FindByTask(ctx, task.ID)
		if err != nil {
			t.Fatalf("FindByTask() error = %v", err)
		}
		if len(records) != 1 || records[0].ID != work.ID {
			t.Errorf("FindByTask() = %v, want the work interval", records)
		}
	})

	t.Run("deleting the task keeps its intervals", func(t *testing.T) {
		if err := storage.Tasks().Delete(ctx, task.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		records, _ := repo.FindRecent(ctx, time.Now().Add(-time.Hour), 0)
		if len(records) != 2 {
			t.Errorf("FindRecent() returned %d records, want 2", len(records))
		}
	})
}

func TestIntervalRepository_GetDailyStats(t *testing.T) {
	storage := newTestStorage(t)
	ctx := context.Background()
	repo := storage.Intervals()

	for _, mode := range []domain.TimerMode{domain.ModePomodoro, domain.ModePomodoro, domain.ModeShortBreak, domain.ModeLongBreak} {
		rec := domain.NewIntervalRecord(mode, 25*60, nil)
		if err := repo.Save(ctx, rec); err != nil {
			t.Fatalf("Save() error = %v", err)
		}
	}
	old := domain.NewIntervalRecord(domain.ModePomodoro, 25*60, nil)
	old.CompletedAt = time.Now().AddDate(0, 0, -2)
	_ = repo.Save(ctx, old)

	stats, err := repo.GetDailyStats(ctx, time.Now())
	if err != nil {
		t.Fatalf("GetDailyStats() error = %v", err)
	}
	if stats.Pomodoros != 2 {
		t.Errorf("Pomodoros = %d, want 2", stats.Pomodoros)
	}
	if stats.ShortBreaks != 1 || stats.LongBreaks != 1 {
		t.Errorf("breaks = %d/%d, want 1/1", stats.ShortBreaks, stats.LongBreaks)
	}
	if stats.FocusTime != 50*time.Minute {
		t.Errorf("FocusTime = %v, want 50m", stats.FocusTime)
	}
}

func TestDecodeTags(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{}},
		{`["work","a,b"]`, []string{"work", "a,b"}},
		{"work,q2", []string{"work", "q2"}},
	}
	for _, tt := range tests {
		got := decodeTags(tt.in)
		if len(got) != len(tt.want) {
			t.Errorf("decodeTags(%q) = %q, want %q", tt.in, got, tt.want)
			continue
		}
		for i := range got {
			if got[i] != tt.want[i] {
				t.Errorf("decodeTags(%q) = %q, want %q", tt.in, got, tt.want)
			}
		}
	}
	if encodeTags(nil) != "" {
		t.Errorf("encodeTags(nil) = %q, want empty", encodeTags(nil))
	}
}
