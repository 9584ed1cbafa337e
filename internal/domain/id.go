package domain

import "github.com/google/uuid"

// newID returns a random identifier for tasks and interval records.
func newID() string {
	return uuid.NewString()
}

// ShortID trims an identifier for display.
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
