package domain

import (
	"fmt"
	"sort"
	"time"
)

// DayKeyLayout is the time layout of a DayKey.
const DayKeyLayout = "2006-01-02"

// DayKey identifies a calendar day as YYYY-MM-DD. Keys sort chronologically
// as plain strings.
type DayKey string

// DayKeyOf returns the key of the calendar day t falls on in t's location.
func DayKeyOf(t time.Time) DayKey {
	return DayKey(t.Format(DayKeyLayout))
}

// Time parses the key back into midnight of that day in loc.
func (k DayKey) Time(loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	return time.ParseInLocation(DayKeyLayout, string(k), loc)
}

// YearMonth is a displayed calendar month.
type YearMonth struct {
	Year  int
	Month time.Month
}

// YearMonthOf returns the month containing t.
func YearMonthOf(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth parses YYYY-MM.
func ParseYearMonth(s string) (YearMonth, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w %q: use YYYY-MM", ErrInvalidMonth, s)
	}
	return YearMonthOf(t), nil
}

// Valid reports whether the month number is 1..12.
func (ym YearMonth) Valid() bool {
	return ym.Month >= time.January && ym.Month <= time.December
}

// String formats the month as YYYY-MM.
func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// First returns midnight on the first day of the month in loc.
func (ym YearMonth) First(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(ym.Year, ym.Month, 1, 0, 0, 0, 0, loc)
}

// DaysIn returns the number of days in the month, 0 for an invalid month.
func (ym YearMonth) DaysIn() int {
	if !ym.Valid() {
		return 0
	}
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Days enumerates every day of the month, first to last.
func (ym YearMonth) Days() []DayKey {
	n := ym.DaysIn()
	days := make([]DayKey, 0, n)
	for d := 1; d <= n; d++ {
		days = append(days, DayKey(fmt.Sprintf("%04d-%02d-%02d", ym.Year, int(ym.Month), d)))
	}
	return days
}

// Contains reports whether day falls inside the month.
func (ym YearMonth) Contains(t time.Time) bool {
	return t.Year() == ym.Year && t.Month() == ym.Month
}

// Next returns the following month.
func (ym YearMonth) Next() YearMonth {
	return YearMonthOf(time.Date(ym.Year, ym.Month+1, 1, 0, 0, 0, 0, time.UTC))
}

// Prev returns the preceding month.
func (ym YearMonth) Prev() YearMonth {
	return YearMonthOf(time.Date(ym.Year, ym.Month-1, 1, 0, 0, 0, 0, time.UTC))
}

// BucketTasksByDay groups tasks due in month by local calendar day.
func BucketTasksByDay(tasks []*Task, month YearMonth) map[DayKey][]*Task {
	return BucketTasksByDayIn(tasks, month, time.Local)
}

// BucketTasksByDayIn groups tasks due in month by calendar day in loc.
//
// Every day of the month is present in the result, with an empty slice when
// nothing is due. Tasks without a due date or due outside the month are left
// out. Each non-empty day is ordered with OrderTasks. An invalid month yields
// an empty map.
func BucketTasksByDayIn(tasks []*Task, month YearMonth, loc *time.Location) map[DayKey][]*Task {
	if loc == nil {
		loc = time.Local
	}

	days := month.Days()
	buckets := make(map[DayKey][]*Task, len(days))
	for _, day := range days {
		buckets[day] = []*Task{}
	}
	if len(days) == 0 {
		return buckets
	}

	for _, task := range tasks {
		if task == nil || !task.HasDueDate() {
			continue
		}
		due := task.DueDate.In(loc)
		if !month.Contains(due) {
			continue
		}
		key := DayKeyOf(due)
		buckets[key] = append(buckets[key], task)
	}

	for day, bucket := range buckets {
		if len(bucket) > 1 {
			buckets[day] = OrderTasks(bucket)
		}
	}
	return buckets
}

// SortedDayKeys returns the keys of buckets in chronological order.
func SortedDayKeys(buckets map[DayKey][]*Task) []DayKey {
	keys := make([]DayKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
