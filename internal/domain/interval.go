package domain

import "time"

// IntervalRecord is the log entry written when an interval completes.
type IntervalRecord struct {
	ID             string
	Mode           TimerMode
	PlannedSeconds int
	TaskID         *string
	TaskTitle      string
	GitBranch      string
	GitCommit      string
	CompletedAt    time.Time
	// Notified is false when the notification sink reported a failure.
	Notified bool
}

// NewIntervalRecord creates a record for a just-completed interval.
func NewIntervalRecord(mode TimerMode, plannedSeconds int, task *Task) *IntervalRecord {
	rec := &IntervalRecord{
		ID:             newID(),
		Mode:           mode,
		PlannedSeconds: plannedSeconds,
		CompletedAt:    time.Now(),
		Notified:       true,
	}
	if task != nil {
		id := task.ID
		rec.TaskID = &id
		rec.TaskTitle = task.Title
	}
	return rec
}

// SetGitContext stores git information for the record.
func (r *IntervalRecord) SetGitContext(branch, commit string) {
	r.GitBranch = branch
	r.GitCommit = commit
}

// Planned returns the planned length of the interval.
func (r *IntervalRecord) Planned() time.Duration {
	return time.Duration(r.PlannedSeconds) * time.Second
}

// DailyStats aggregates completed intervals for a day.
type DailyStats struct {
	Date        time.Time
	Pomodoros   int
	ShortBreaks int
	LongBreaks  int
	FocusTime   time.Duration
}

// Add folds a record into the stats.
func (s *DailyStats) Add(r *IntervalRecord) {
	switch r.Mode {
	case ModePomodoro:
		s.Pomodoros++
		s.FocusTime += r.Planned()
	case ModeShortBreak:
		s.ShortBreaks++
	case ModeLongBreak:
		s.LongBreaks++
	}
}

// StartOfDay returns midnight of t's day in t's location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
