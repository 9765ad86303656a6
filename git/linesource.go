package git

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/fwojciec/diffexpand"
)

// Compile-time interface verification.
var _ diffexpand.LineSource = (*FileSource)(nil)

// FileSource serves file lines from a git revision, typically the pre-image
// side of a diff (for a commit diff, the commit's first parent). File content
// is fetched once per path and cached for the life of the source; expansion
// issues many small range reads against the same files.
type FileSource struct {
	runner   *Runner
	repoPath string
	rev      string

	mu    sync.Mutex
	cache map[string][]string
}

// NewFileSource creates a FileSource reading path contents at rev in the
// repository at repoPath.
func NewFileSource(runner *Runner, repoPath, rev string) *FileSource {
	return &FileSource{
		runner:   runner,
		repoPath: repoPath,
		rev:      rev,
		cache:    make(map[string][]string),
	}
}

// Lines returns the 1-based inclusive line range [startLine, endLine] of the
// file at path as of the source's revision. A range running past end of file
// yields fewer lines; an unknown path is an error.
func (s *FileSource) Lines(ctx context.Context, path string, startLine, endLine int) ([]string, error) {
	if startLine < 1 || endLine < startLine {
		return nil, fmt.Errorf("invalid line range %d-%d", startLine, endLine)
	}

	all, err := s.fileLines(ctx, path)
	if err != nil {
		return nil, err
	}

	if startLine > len(all) {
		return nil, nil
	}
	if endLine > len(all) {
		endLine = len(all)
	}
	out := make([]string, endLine-startLine+1)
	copy(out, all[startLine-1:endLine])
	return out, nil
}

func (s *FileSource) fileLines(ctx context.Context, path string) ([]string, error) {
	s.mu.Lock()
	cached, ok := s.cache[path]
	s.mu.Unlock()
	if ok {
		return cached, nil
	}

	content, err := s.runner.ShowFile(ctx, s.repoPath, s.rev, path)
	if err != nil {
		return nil, err
	}
	lines := splitLines(content)

	s.mu.Lock()
	s.cache[path] = lines
	s.mu.Unlock()
	return lines, nil
}

// splitLines splits file content into lines without trailing newlines. A
// trailing newline does not produce a phantom empty last line.
func splitLines(content string) []string {
	if content == "" {
		return nil
	}
	content = strings.TrimSuffix(content, "\n")
	return strings.Split(content, "\n")
}
