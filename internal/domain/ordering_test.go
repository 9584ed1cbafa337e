package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func taskAt(id string, p Priority, due *time.Time) *Task {
	return &Task{ID: id, Title: "task " + id, Priority: p, DueDate: due, Status: StatusPending}
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 9, 0, 0, 0, time.Local)
	return &t
}

func ids(tasks []*Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func TestOrderTasks_Example(t *testing.T) {
	tasks := []*Task{
		taskAt("1", PriorityLow, nil),
		taskAt("2", PriorityHigh, date(2025, 4, 20)),
		taskAt("3", PriorityHigh, date(2025, 4, 10)),
	}

	got := OrderTasks(tasks)

	assert.Equal(t, []string{"2", "3", "1"}, ids(got))
}

func TestOrderTasks_LaterDueDateFirstWithinPriority(t *testing.T) {
	tasks := []*Task{
		taskAt("early", PriorityMedium, date(2025, 4, 1)),
		taskAt("late", PriorityMedium, date(2025, 4, 30)),
		taskAt("mid", PriorityMedium, date(2025, 4, 15)),
	}

	assert.Equal(t, []string{"late", "mid", "early"}, ids(OrderTasks(tasks)))
}

func TestOrderTasks_PriorityDominatesDueDate(t *testing.T) {
	tasks := []*Task{
		taskAt("low-dated", PriorityLow, date(2030, 1, 1)),
		taskAt("high-undated", PriorityHigh, nil),
		taskAt("medium-dated", PriorityMedium, date(2020, 1, 1)),
	}

	assert.Equal(t, []string{"high-undated", "medium-dated", "low-dated"}, ids(OrderTasks(tasks)))
}

func TestOrderTasks_DatedBeforeUndated(t *testing.T) {
	tasks := []*Task{
		taskAt("a", PriorityLow, nil),
		taskAt("b", PriorityLow, date(2025, 4, 2)),
		taskAt("c", PriorityLow, nil),
	}

	assert.Equal(t, []string{"b", "a", "c"}, ids(OrderTasks(tasks)))
}

func TestOrderTasks_StableForTies(t *testing.T) {
	same := date(2025, 4, 2)
	tasks := []*Task{
		taskAt("u1", PriorityMedium, nil),
		taskAt("d1", PriorityMedium, same),
		taskAt("u2", PriorityMedium, nil),
		taskAt("d2", PriorityMedium, same),
		taskAt("u3", PriorityMedium, nil),
	}

	assert.Equal(t, []string{"d1", "d2", "u1", "u2", "u3"}, ids(OrderTasks(tasks)))
}

func TestOrderTasks_UnknownPriorityIsMedium(t *testing.T) {
	tasks := []*Task{
		taskAt("low", PriorityLow, nil),
		taskAt("odd", Priority("someday"), nil),
		taskAt("blank", Priority(""), nil),
		taskAt("high", PriorityHigh, nil),
	}

	assert.Equal(t, []string{"high", "odd", "blank", "low"}, ids(OrderTasks(tasks)))
}

func TestOrderTasks_DoesNotMutateInput(t *testing.T) {
	tasks := []*Task{
		taskAt("1", PriorityLow, nil),
		taskAt("2", PriorityHigh, nil),
	}

	got := OrderTasks(tasks)

	require.Len(t, got, 2)
	assert.Equal(t, []string{"1", "2"}, ids(tasks))
	assert.Equal(t, []string{"2", "1"}, ids(got))
}

func TestOrderTasks_Empty(t *testing.T) {
	assert.Empty(t, OrderTasks(nil))
	assert.Empty(t, OrderTasks([]*Task{}))
}
