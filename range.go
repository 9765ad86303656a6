package diffexpand

import "fmt"

// LineRange is an absolute, 1-based, inclusive range of old-side line
// numbers. The new-side numbering of an expansion is derived from the hunk
// edge's old→new delta, since expansion only pulls unchanged context.
type LineRange struct {
	Start int
	End   int
}

// Len returns the number of lines in the range.
func (r LineRange) Len() int { return r.End - r.Start + 1 }

// String formats the range as "[start,end]".
func (r LineRange) String() string { return fmt.Sprintf("[%d,%d]", r.Start, r.End) }

// RequestRange computes the old-side line range to fetch for expanding hunk
// h in direction dir by up to desired lines. neighbor is the adjacent hunk on
// that side, or nil if there is none; the range never includes lines a
// neighbor already owns, and never goes below line 1.
//
// The second return value is false when no lines can be requested: the hunk
// is at the file start, or flush against its neighbor. That is a normal
// boundary outcome, not an error.
func RequestRange(h Hunk, neighbor *Hunk, dir Direction, desired int) (LineRange, bool) {
	if desired <= 0 {
		return LineRange{}, false
	}

	switch dir {
	case Before:
		end := h.OldStart - 1
		if end < 1 {
			return LineRange{}, false
		}
		start := end - desired + 1
		if start < 1 {
			start = 1
		}
		if neighbor != nil {
			if floor := neighbor.OldEnd() + 1; start < floor {
				start = floor
			}
		}
		if start > end {
			return LineRange{}, false
		}
		return LineRange{Start: start, End: end}, true

	case After:
		start := h.OldEnd() + 1
		if start < 1 {
			// Hunks for added files have no old-side extent to expand from.
			return LineRange{}, false
		}
		end := start + desired - 1
		if neighbor != nil {
			if ceil := neighbor.OldStart - 1; end > ceil {
				end = ceil
			}
		}
		if start > end {
			return LineRange{}, false
		}
		return LineRange{Start: start, End: end}, true
	}

	return LineRange{}, false
}
