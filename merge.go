package diffexpand

// sectionSeparator joins the section headers of two merged hunks when both
// are present.
const sectionSeparator = " / "

// tryMerge checks the hunk at index i against its neighbor on side dir and,
// when their ranges touch or overlap on both the old and the new side (gap
// <= 1), fuses the two into one. The earlier hunk always survives; the later
// one is removed from the slice.
//
// A gap of exactly 1 means a single bridging line was never fetched; one
// empty-content context line is synthesized so no line number is skipped. A
// gap of 0 or less requires deduplication: lines from the later hunk whose
// old- or new-side numbers are already covered are dropped.
//
// Exactly one merge happens per call. Returns the updated slice, the index
// of the surviving hunk, the ID of the absorbed hunk, and whether a merge
// occurred. Callers that want full convergence invoke tryMerge again on the
// surviving index.
func tryMerge(hunks []Hunk, i int, dir Direction) (out []Hunk, survivor int, absorbed HunkID, merged bool) {
	var ai, bi int
	switch dir {
	case After:
		ai, bi = i, i+1
	case Before:
		ai, bi = i-1, i
	}
	if ai < 0 || bi >= len(hunks) {
		return hunks, i, 0, false
	}

	a, b := hunks[ai], hunks[bi]
	oldGap := b.OldStart - a.OldEnd() - 1
	newGap := b.NewStart - a.NewEnd() - 1
	if oldGap > 1 || newGap > 1 {
		return hunks, i, 0, false
	}

	m := Hunk{
		ID:       a.ID,
		OldStart: a.OldStart,
		NewStart: a.NewStart,
		Section:  mergeSections(a.Section, b.Section),
	}

	// Counts are recomputed from the merged extents rather than summed so
	// they stay correct under overlap.
	oldEnd := max(a.OldEnd(), b.OldEnd())
	newEnd := max(a.NewEnd(), b.NewEnd())
	m.OldCount = oldEnd - m.OldStart + 1
	m.NewCount = newEnd - m.NewStart + 1

	m.Lines = make([]Line, 0, len(a.Lines)+len(b.Lines)+1)
	m.Lines = append(m.Lines, a.Lines...)
	if oldGap == 1 && newGap == 1 {
		m.Lines = append(m.Lines, Line{
			Type:       LineContext,
			OldLineNum: a.OldEnd() + 1,
			NewLineNum: a.NewEnd() + 1,
		})
	}

	// Highest line numbers already present on each side; b's lines at or
	// below these are duplicates of lines a already owns.
	lastOld, lastNew := 0, 0
	for _, ln := range m.Lines {
		if ln.OldLineNum > lastOld {
			lastOld = ln.OldLineNum
		}
		if ln.NewLineNum > lastNew {
			lastNew = ln.NewLineNum
		}
	}
	for _, ln := range b.Lines {
		if ln.OldLineNum != 0 && ln.OldLineNum <= lastOld {
			continue
		}
		if ln.NewLineNum != 0 && ln.NewLineNum <= lastNew {
			continue
		}
		m.Lines = append(m.Lines, ln)
	}

	out = append(hunks[:ai], append([]Hunk{m}, hunks[bi+1:]...)...)
	return out, ai, b.ID, true
}

// mergeSections combines two section headers, keeping the non-empty one or
// joining both with a separator.
func mergeSections(a, b string) string {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case a == b:
		return a
	default:
		return a + sectionSeparator + b
	}
}
