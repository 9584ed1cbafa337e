package ports

import (
	"context"
)

// GitInfo holds the repository context recorded alongside intervals.
type GitInfo struct {
	Branch     string
	Commit     string
	IsClean    bool
	Repository string
}

// GitDetector defines the interface for git context detection.
// This is a driven port (implemented by adapters).
type GitDetector interface {
	// Detect scans workingDir for a git repository.
	Detect(ctx context.Context, workingDir string) (*GitInfo, error)

	// IsAvailable reports whether detection can run at all.
	IsAvailable() bool
}
