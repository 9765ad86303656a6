// Package git provides access to git operations via shell commands.
package git

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner executes git commands via shell.
type Runner struct{}

// NewRunner creates a new git runner.
func NewRunner() *Runner {
	return &Runner{}
}

// Log returns commit hashes from the repository at repoPath, limited to n commits.
func (r *Runner) Log(ctx context.Context, repoPath string, limit int) ([]string, error) {
	args := []string{"-C", repoPath, "log", "--format=%H", fmt.Sprintf("-n%d", limit)}
	output, err := run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("git log failed: %w", err)
	}

	var hashes []string
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if line != "" {
			hashes = append(hashes, line)
		}
	}
	return hashes, nil
}

// Show returns the diff for a specific commit hash.
func (r *Runner) Show(ctx context.Context, repoPath string, hash string) (string, error) {
	args := []string{"-C", repoPath, "show", "--format=", hash}
	output, err := run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("git show failed: %w", err)
	}
	return output, nil
}

// ShowFile returns the full content of path as of rev.
func (r *Runner) ShowFile(ctx context.Context, repoPath, rev, path string) (string, error) {
	args := []string{"-C", repoPath, "show", rev + ":" + path}
	output, err := run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("git show %s:%s failed: %w", rev, path, err)
	}
	return output, nil
}

func run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return "", fmt.Errorf("%s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return "", err
	}
	return string(output), nil
}
