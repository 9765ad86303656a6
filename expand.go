package diffexpand

// applyExpansion splices fetched context lines into one edge of h. rng is
// the old-side range the contents correspond to: contents[i] is old-side
// line rng.Start+i, and the new-side number is derived from the edge's
// old→new delta. For Before the lines are prepended and both starts
// decrease; for After they are appended and only the counts grow.
//
// The caller must have validated the response against rng (see the
// controller); applyExpansion assumes len(contents) <= rng.Len() and that
// rng abuts the hunk edge.
func applyExpansion(h *Hunk, dir Direction, contents []string, rng LineRange) {
	if len(contents) == 0 {
		return
	}

	var delta int
	if dir == Before {
		delta = h.NewStart - h.OldStart
	} else {
		delta = h.NewEnd() - h.OldEnd()
	}

	lines := make([]Line, len(contents))
	for i, content := range contents {
		old := rng.Start + i
		lines[i] = Line{
			Type:       LineContext,
			Content:    content,
			OldLineNum: old,
			NewLineNum: old + delta,
		}
	}

	n := len(lines)
	if dir == Before {
		h.Lines = append(lines, h.Lines...)
		h.OldStart -= n
		h.NewStart -= n
	} else {
		h.Lines = append(h.Lines, lines...)
	}
	h.OldCount += n
	h.NewCount += n
}
