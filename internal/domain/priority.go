package domain

import "strings"

// Priority ranks how urgently a task should be handled.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the levels from most to least urgent.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority maps user input onto a priority level.
// Anything unrecognised, including the empty string, becomes PriorityMedium.
func ParsePriority(s string) Priority {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "high", "h", "1":
		return PriorityHigh
	case "low", "l", "3":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// Normalize returns p if it is a known level, PriorityMedium otherwise.
func (p Priority) Normalize() Priority {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return p
	default:
		return PriorityMedium
	}
}

// Rank orders priorities ascending: high=0, medium=1, low=2.
func (p Priority) Rank() int {
	switch p.Normalize() {
	case PriorityHigh:
		return 0
	case PriorityLow:
		return 2
	default:
		return 1
	}
}

// Label returns a human-readable label.
func (p Priority) Label() string {
	switch p.Normalize() {
	case PriorityHigh:
		return "High"
	case PriorityLow:
		return "Low"
	default:
		return "Medium"
	}
}
