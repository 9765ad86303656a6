// Package worddiff computes intra-line differences for paired old/new lines
// using sergi/go-diff.
package worddiff

import (
	"github.com/fwojciec/diffexpand"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// Compile-time interface verification.
var _ diffexpand.WordDiffer = (*Differ)(nil)

// Differ computes character-level diffs between two strings and cleans them
// up to word-ish boundaries for readable highlighting.
type Differ struct {
	dmp *diffmatchpatch.DiffMatchPatch
}

// NewDiffer creates a new Differ.
func NewDiffer() *Differ {
	return &Differ{dmp: diffmatchpatch.New()}
}

// Diff returns segments for both the old and new strings, marking which
// portions changed between them. Unchanged text appears in both segment
// lists; deletions only in the old, insertions only in the new.
func (d *Differ) Diff(old, new string) (oldSegs, newSegs []diffexpand.Segment) {
	if old == new {
		if old == "" {
			return nil, nil
		}
		seg := []diffexpand.Segment{{Text: old}}
		return seg, seg
	}

	diffs := d.dmp.DiffMain(old, new, false)
	diffs = d.dmp.DiffCleanupSemantic(diffs)

	for _, df := range diffs {
		if df.Text == "" {
			continue
		}
		switch df.Type {
		case diffmatchpatch.DiffEqual:
			oldSegs = append(oldSegs, diffexpand.Segment{Text: df.Text})
			newSegs = append(newSegs, diffexpand.Segment{Text: df.Text})
		case diffmatchpatch.DiffDelete:
			oldSegs = append(oldSegs, diffexpand.Segment{Text: df.Text, Changed: true})
		case diffmatchpatch.DiffInsert:
			newSegs = append(newSegs, diffexpand.Segment{Text: df.Text, Changed: true})
		}
	}
	return oldSegs, newSegs
}
