package diffexpand

import "fmt"

// ValidationReason identifies why a hunk list is invalid.
type ValidationReason string

// Validation error reasons.
const (
	ErrUnorderedHunks   ValidationReason = "unordered_hunks"
	ErrOverlappingHunks ValidationReason = "overlapping_hunks"
	ErrNegativeRange    ValidationReason = "negative_range"
	ErrEdgeMismatch     ValidationReason = "edge_mismatch"
)

// ValidationError describes a single consistency failure in a file's hunks.
type ValidationError struct {
	Path      string           // File the hunk belongs to
	HunkIndex int              // Position of the offending hunk
	Reason    ValidationReason // Why the hunk list is invalid
	Detail    string           // Human-readable specifics
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("file %q hunk %d: %s: %s", e.Path, e.HunkIndex, e.Reason, e.Detail)
}

// ValidateFileDiff checks that a file's hunks are sorted, non-overlapping on
// both sides, and that each hunk's line list is consistent with its declared
// ranges. Returns nil if the file is valid.
//
// The controller runs this on construction and relies on it after merges:
// silent range corruption manifests later as scrambled line numbers with no
// attributable cause.
func ValidateFileDiff(f FileDiff) []ValidationError {
	path := f.Path()
	var errs []ValidationError

	for i, h := range f.Hunks {
		if h.OldCount < 0 || h.NewCount < 0 || h.OldStart < 0 || h.NewStart < 0 {
			errs = append(errs, ValidationError{
				Path:      path,
				HunkIndex: i,
				Reason:    ErrNegativeRange,
				Detail: fmt.Sprintf("ranges -%d,%d +%d,%d",
					h.OldStart, h.OldCount, h.NewStart, h.NewCount),
			})
			continue
		}

		if err := validateEdges(path, i, h); err != nil {
			errs = append(errs, *err)
		}

		if i == 0 {
			continue
		}
		prev := f.Hunks[i-1]
		if h.OldStart < prev.OldStart || h.NewStart < prev.NewStart {
			errs = append(errs, ValidationError{
				Path:      path,
				HunkIndex: i,
				Reason:    ErrUnorderedHunks,
				Detail: fmt.Sprintf("starts -%d +%d before predecessor's -%d +%d",
					h.OldStart, h.NewStart, prev.OldStart, prev.NewStart),
			})
			continue
		}
		if prev.OldStart+prev.OldCount > h.OldStart || prev.NewStart+prev.NewCount > h.NewStart {
			errs = append(errs, ValidationError{
				Path:      path,
				HunkIndex: i,
				Reason:    ErrOverlappingHunks,
				Detail: fmt.Sprintf("predecessor ends at -%d +%d, hunk starts at -%d +%d",
					prev.OldEnd(), prev.NewEnd(), h.OldStart, h.NewStart),
			})
		}
	}

	return errs
}

// validateEdges checks that the first and last line projections of a hunk
// match its declared starts and ends.
func validateEdges(path string, i int, h Hunk) *ValidationError {
	firstOld, lastOld := 0, 0
	firstNew, lastNew := 0, 0
	for _, ln := range h.Lines {
		if ln.OldLineNum != 0 {
			if firstOld == 0 {
				firstOld = ln.OldLineNum
			}
			lastOld = ln.OldLineNum
		}
		if ln.NewLineNum != 0 {
			if firstNew == 0 {
				firstNew = ln.NewLineNum
			}
			lastNew = ln.NewLineNum
		}
	}

	mismatch := func(side string, gotFirst, gotLast, wantFirst, wantLast int) *ValidationError {
		return &ValidationError{
			Path:      path,
			HunkIndex: i,
			Reason:    ErrEdgeMismatch,
			Detail: fmt.Sprintf("%s-side lines span %d-%d, declared range %d-%d",
				side, gotFirst, gotLast, wantFirst, wantLast),
		}
	}

	if h.OldCount > 0 && firstOld != 0 {
		if firstOld != h.OldStart || lastOld != h.OldEnd() {
			return mismatch("old", firstOld, lastOld, h.OldStart, h.OldEnd())
		}
	}
	if h.NewCount > 0 && firstNew != 0 {
		if firstNew != h.NewStart || lastNew != h.NewEnd() {
			return mismatch("new", firstNew, lastNew, h.NewStart, h.NewEnd())
		}
	}
	return nil
}
