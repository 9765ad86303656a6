package diffexpand

// expansionKey identifies one expandable hunk edge.
type expansionKey struct {
	path string
	hunk HunkID
	dir  Direction
}

// expansionRecord tracks cumulative expansion and in-flight state for one
// hunk edge. Records are created lazily on first use.
type expansionRecord struct {
	expanded int
	loading  bool
}

// tracker guards hunk edges against duplicate concurrent requests and
// enforces the cumulative expansion ceiling. It is not safe for concurrent
// use on its own; the controller's lock serializes access.
type tracker struct {
	ceiling int
	records map[expansionKey]*expansionRecord
}

func newTracker(ceiling int) *tracker {
	return &tracker{
		ceiling: ceiling,
		records: make(map[expansionKey]*expansionRecord),
	}
}

func (t *tracker) record(key expansionKey) *expansionRecord {
	r, ok := t.records[key]
	if !ok {
		r = &expansionRecord{}
		t.records[key] = r
	}
	return r
}

// begin marks the edge as loading. It returns false, and marks nothing, when
// a request is already in flight or the ceiling has been reached; the caller
// must not issue a fetch in that case.
func (t *tracker) begin(key expansionKey) bool {
	r := t.record(key)
	if r.loading || r.expanded >= t.ceiling {
		return false
	}
	r.loading = true
	return true
}

// complete adds linesAdded to the cumulative counter and clears the loading
// flag.
func (t *tracker) complete(key expansionKey, linesAdded int) {
	r := t.record(key)
	r.expanded += linesAdded
	r.loading = false
}

// fail clears the loading flag without touching the counter, leaving the
// edge available for retry.
func (t *tracker) fail(key expansionKey) {
	if r, ok := t.records[key]; ok {
		r.loading = false
	}
}

// expandedCount returns the cumulative number of lines pulled for the edge.
func (t *tracker) expandedCount(key expansionKey) int {
	if r, ok := t.records[key]; ok {
		return r.expanded
	}
	return 0
}

// isLoading reports whether a request is in flight for the edge.
func (t *tracker) isLoading(key expansionKey) bool {
	if r, ok := t.records[key]; ok {
		return r.loading
	}
	return false
}

// atCeiling reports whether the edge has reached the expansion ceiling.
func (t *tracker) atCeiling(key expansionKey) bool {
	return t.expandedCount(key) >= t.ceiling
}

// discard drops both directional records for a hunk. Called when a merge
// absorbs the hunk: its before/after semantics no longer correspond to any
// boundary. The survivor's own records are left untouched.
func (t *tracker) discard(path string, id HunkID) {
	delete(t.records, expansionKey{path: path, hunk: id, dir: Before})
	delete(t.records, expansionKey{path: path, hunk: id, dir: After})
}
