package domain

import "sort"

// OrderTasks returns a new slice holding tasks ordered for display.
//
// Priority ascends by rank (high first). Within one priority, tasks with a
// due date come before tasks without one, and two dated tasks are ordered
// by due date descending, so the later date comes first. That tie-break is
// the established user-visible order and must not be flipped. Remaining
// ties keep their input order. The input slice is not modified.
func OrderTasks(tasks []*Task) []*Task {
	ordered := make([]*Task, len(tasks))
	copy(ordered, tasks)

	sort.SliceStable(ordered, func(i, j int) bool {
		return lessTask(ordered[i], ordered[j])
	})
	return ordered
}

// lessTask reports whether a sorts strictly before b.
func lessTask(a, b *Task) bool {
	ra, rb := a.Priority.Rank(), b.Priority.Rank()
	if ra != rb {
		return ra < rb
	}

	aDue, bDue := a.HasDueDate(), b.HasDueDate()
	switch {
	case aDue && bDue:
		return a.DueDate.After(*b.DueDate)
	case aDue != bDue:
		return aDue
	default:
		return false
	}
}
