// Package diffexpand provides the hunk range model and context-expansion
// engine for a two-sided diff viewer.
package diffexpand

import (
	"context"
	"io"
	"io/fs"
)

// Defaults for context expansion. The request size and per-request cap match
// the behavior users expect from progressive diff viewers; the ceiling bounds
// how much context a single hunk edge can accumulate.
const (
	// DefaultContextLines is the number of lines requested per expansion
	// when the caller does not specify a count.
	DefaultContextLines = 10

	// MaxRequestLines caps a single expansion request.
	MaxRequestLines = 100

	// DefaultExpansionCeiling is the cumulative number of lines a hunk may
	// pull in one direction before expansion is disabled for that edge.
	DefaultExpansionCeiling = 50
)

// Diff represents a complete diff containing one or more file changes.
type Diff struct {
	Files []FileDiff
}

// FileDiff represents changes to a single file.
type FileDiff struct {
	OldPath   string      // "a/file.go" or empty for new files
	NewPath   string      // "b/file.go" or empty for deleted files
	Operation FileOp      // Added, Deleted, Modified, Renamed, Copied
	IsBinary  bool        // Binary files have no hunks
	OldMode   fs.FileMode // 0 if unchanged
	NewMode   fs.FileMode // For permission changes
	Hunks     []Hunk      // Ordered by ascending OldStart, never overlapping
}

// Path returns the canonical path for the file: the new path when present,
// otherwise the old path (deletions).
func (f FileDiff) Path() string {
	if f.NewPath != "" {
		return f.NewPath
	}
	return f.OldPath
}

// Stats returns the number of added and deleted lines in the file.
func (f FileDiff) Stats() (added, deleted int) {
	for _, hunk := range f.Hunks {
		for _, line := range hunk.Lines {
			switch line.Type {
			case LineAdded:
				added++
			case LineDeleted:
				deleted++
			}
		}
	}
	return added, deleted
}

// FileOp represents the type of operation performed on a file.
type FileOp int

// File operation types.
const (
	FileModified FileOp = iota
	FileAdded
	FileDeleted
	FileRenamed
	FileCopied
)

// HunkID is a stable opaque identity for a hunk. Positional indices shift
// whenever a merge removes a hunk, so everything that outlives a single
// operation (expansion records, in-flight fetches) references hunks by ID.
type HunkID int

// Hunk represents a contiguous block of changes within a file. It covers
// [OldStart, OldStart+OldCount) in the old file version and
// [NewStart, NewStart+NewCount) in the new one.
type Hunk struct {
	ID       HunkID
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Section  string // Optional section header, display only
	Lines    []Line
}

// OldEnd returns the last old-side line covered by the hunk.
func (h Hunk) OldEnd() int { return h.OldStart + h.OldCount - 1 }

// NewEnd returns the last new-side line covered by the hunk.
func (h Hunk) NewEnd() int { return h.NewStart + h.NewCount - 1 }

// Line represents a single line within a hunk. A line may project onto only
// the old side (deletion), only the new side (addition), or both (context).
type Line struct {
	Type       LineType
	Content    string // Line text without the trailing newline
	OldLineNum int    // 0 if the line has no old-side projection
	NewLineNum int    // 0 if the line has no new-side projection
	NoNewline  bool   // "\ No newline at end of file" marker
}

// LineType represents the type of a diff line.
type LineType int

// Line types.
const (
	LineContext LineType = iota
	LineAdded
	LineDeleted
)

// Direction identifies which edge of a hunk an expansion targets.
type Direction int

// Expansion directions.
const (
	Before Direction = iota
	After
)

// String returns "before" or "after".
func (d Direction) String() string {
	if d == Before {
		return "before"
	}
	return "after"
}

// LineSource serves raw file lines for a path and an absolute 1-based
// inclusive line range. Implementations must return exactly
// endLine-startLine+1 lines when the range is fully inside the file, fewer
// when the range runs past end of file, and an error for an invalid path.
// response[i] is line startLine+i; no gaps, no reordering.
//
// Expansion only ever requests unchanged context, where the old and new file
// versions agree line for line, so a source serving either image is valid as
// long as it is consistent in unchanged regions.
type LineSource interface {
	Lines(ctx context.Context, path string, startLine, endLine int) ([]string, error)
}

// Parser parses unified diff content into the domain model.
type Parser interface {
	Parse(r io.Reader) (*Diff, error)
}

// Viewer presents a controller's diff to the user and drives expansion
// through the controller's snapshot and request methods.
type Viewer interface {
	View(ctx context.Context, ctrl *Controller) error
}

// Clipboard copies content to the system clipboard.
type Clipboard interface {
	Copy(content string) error
}

// Segment represents a portion of text within a line for word-level diffing.
// Used to highlight specific changed words/characters within modified lines.
type Segment struct {
	Text    string // The text content of this segment
	Changed bool   // True if this segment differs between old/new versions
}

// WordDiffer computes word-level differences between two strings.
type WordDiffer interface {
	// Diff returns segments for both the old and new strings,
	// marking which portions changed between them.
	Diff(old, new string) (oldSegs, newSegs []Segment)
}
