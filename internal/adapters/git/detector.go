// Package git records which branch and commit a focus interval was spent on.
package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/xvierd/focus-cli/internal/ports"
)

// ErrNotRepository is returned when no repository encloses the directory.
var ErrNotRepository = errors.New("not inside a git repository")

// Detector implements the ports.GitDetector interface using go-git.
type Detector struct {
	workingDir string
}

// NewDetector creates a detector rooted at the process working directory.
func NewDetector() *Detector {
	return &Detector{}
}

// NewDetectorAt creates a detector that looks from dir when Detect is
// called without one.
func NewDetectorAt(dir string) *Detector {
	return &Detector{workingDir: dir}
}

// Ensure Detector implements ports.GitDetector.
var _ ports.GitDetector = (*Detector)(nil)

// Detect opens the repository enclosing workingDir and reads HEAD.
func (d *Detector) Detect(ctx context.Context, workingDir string) (*ports.GitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	repo, err := d.open(workingDir)
	if err != nil {
		return nil, err
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	branch := head.Name().Short()
	if !head.Name().IsBranch() {
		branch = "HEAD detached"
	}

	info := &ports.GitInfo{
		Branch:  branch,
		Commit:  head.Hash().String(),
		IsClean: true,
	}

	if remotes, err := repo.Remotes(); err == nil && len(remotes) > 0 {
		if urls := remotes[0].Config().URLs; len(urls) > 0 {
			info.Repository = repoName(urls[0])
		}
	}

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.IsClean = status.IsClean()
		}
	}

	return info, nil
}

// IsAvailable reports whether the default directory is inside a repository.
func (d *Detector) IsAvailable() bool {
	_, err := d.open("")
	return err == nil
}

func (d *Detector) open(dir string) (*git.Repository, error) {
	if dir == "" {
		dir = d.workingDir
	}
	if dir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = cwd
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return nil, ErrNotRepository
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return repo, nil
}

// repoName turns a remote URL into owner/name.
func repoName(url string) string {
	url = strings.TrimSuffix(url, ".git")
	if strings.HasPrefix(url, "git@") {
		if i := strings.LastIndex(url, ":"); i >= 0 {
			return url[i+1:]
		}
	}

	parts := strings.Split(url, "/")
	if len(parts) >= 2 {
		return parts[len(parts)-2] + "/" + parts[len(parts)-1]
	}
	return url
}

// ShortCommit returns the abbreviated form of a commit hash.
func ShortCommit(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
