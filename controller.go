package diffexpand

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Sentinel errors for lookups against a controller.
var (
	ErrUnknownFile = errors.New("diffexpand: unknown file")
	ErrUnknownHunk = errors.New("diffexpand: unknown hunk")
)

// expandConcurrency bounds parallel fetches in ExpandAll.
const expandConcurrency = 4

// ContractError reports a line-source response that violates the positional
// correspondence contract (more lines than requested, or a short read where
// the range is known to be inside the file). The engine refuses to apply
// such a response rather than corrupt the hunk's line numbering.
type ContractError struct {
	Path      string
	Hunk      HunkID
	Direction Direction
	Requested LineRange
	Got       int
	Reason    string
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("diffexpand: %s expansion of %s hunk %d: requested %s, got %d lines: %s",
		e.Direction, e.Path, e.Hunk, e.Requested, e.Got, e.Reason)
}

// ExpandResult describes the outcome of a completed expansion request. A
// zero result with a nil error means the request was refused without a
// fetch: the edge was loading, at its ceiling, or already exhausted.
type ExpandResult struct {
	LinesAdded int  // Context lines spliced into the hunk
	Merged     bool // Whether the expansion fused the hunk with a neighbor
	Stale      bool // Completion arrived for a hunk that no longer exists
}

// fileState holds the mutable per-file expansion state owned by a
// controller.
type fileState struct {
	file       FileDiff
	atEOF      map[HunkID]bool   // After-expansion permanently exhausted
	mergedInto map[HunkID]HunkID // Absorbed hunk → survivor
}

// find resolves id through any merges it was absorbed by and returns the
// surviving ID and its current index.
func (s *fileState) find(id HunkID) (HunkID, int, bool) {
	for range s.mergedInto {
		next, ok := s.mergedInto[id]
		if !ok {
			break
		}
		id = next
	}
	for i := range s.file.Hunks {
		if s.file.Hunks[i].ID == id {
			return id, i, true
		}
	}
	return 0, 0, false
}

// Controller owns the hunks and expansion state for one open diff. All
// state lives on the controller; there is no ambient global lookup. A
// single controller is safe for concurrent use: expansions on different
// hunks proceed in parallel, with fetches running outside the lock.
type Controller struct {
	mu      sync.Mutex
	source  LineSource
	tracker *tracker
	files   map[string]*fileState
	order   []string

	contextLines int
	maxRequest   int
	ceiling      int
}

// Option configures a Controller.
type Option func(*Controller)

// WithContextLines sets the default number of lines requested per expansion.
func WithContextLines(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.contextLines = n
		}
	}
}

// WithMaxRequestLines sets the per-request line cap.
func WithMaxRequestLines(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.maxRequest = n
		}
	}
}

// WithExpansionCeiling sets the cumulative per-direction expansion ceiling.
func WithExpansionCeiling(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.ceiling = n
		}
	}
}

// NewController creates a controller over diff, fetching context lines from
// source. The diff is deep-copied and validated; every hunk is assigned a
// stable ID. Returns an error if any file's hunks are unordered,
// overlapping, or internally inconsistent.
func NewController(diff *Diff, source LineSource, opts ...Option) (*Controller, error) {
	if source == nil {
		return nil, errors.New("diffexpand: line source is required")
	}

	c := &Controller{
		source:       source,
		files:        make(map[string]*fileState),
		contextLines: DefaultContextLines,
		maxRequest:   MaxRequestLines,
		ceiling:      DefaultExpansionCeiling,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.tracker = newTracker(c.ceiling)

	nextID := HunkID(1)
	for _, f := range diff.Files {
		if errs := ValidateFileDiff(f); len(errs) > 0 {
			return nil, errs[0]
		}
		path := f.Path()
		if path == "" {
			continue // Malformed entry with no usable path
		}
		if _, ok := c.files[path]; ok {
			return nil, fmt.Errorf("diffexpand: duplicate path %q in diff", path)
		}

		clone := f
		clone.Hunks = copyHunks(f.Hunks)
		for i := range clone.Hunks {
			clone.Hunks[i].ID = nextID
			nextID++
		}
		c.files[path] = &fileState{
			file:       clone,
			atEOF:      make(map[HunkID]bool),
			mergedInto: make(map[HunkID]HunkID),
		}
		c.order = append(c.order, path)
	}

	return c, nil
}

// ContextLines returns the default number of lines requested per expansion.
func (c *Controller) ContextLines() int { return c.contextLines }

// Paths returns the file paths in the controller in diff order.
func (c *Controller) Paths() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Snapshot returns a deep copy of the current hunks for path, so a caller
// never observes partially updated counts or line lists.
func (c *Controller) Snapshot(path string) ([]Hunk, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.files[path]
	if !ok {
		return nil, false
	}
	return copyHunks(s.file.Hunks), true
}

// Diff returns a deep copy of the whole diff in its current state, for
// rendering.
func (c *Controller) Diff() *Diff {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := &Diff{Files: make([]FileDiff, 0, len(c.order))}
	for _, path := range c.order {
		f := c.files[path].file
		f.Hunks = copyHunks(f.Hunks)
		out.Files = append(out.Files, f)
	}
	return out
}

// CanExpand reports whether expansion is still offered for the given hunk
// edge: false at the file start, at the cumulative ceiling, past a recorded
// end of file, or when the hunk is flush against its neighbor.
func (c *Controller) CanExpand(path string, id HunkID, dir Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.files[path]
	if !ok {
		return false
	}
	_, idx, ok := s.find(id)
	if !ok {
		return false
	}
	return c.canExpandLocked(path, s, idx, dir)
}

// IsLoading reports whether an expansion request is in flight for the given
// hunk edge.
func (c *Controller) IsLoading(path string, id HunkID, dir Direction) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	s, ok := c.files[path]
	if !ok {
		return false
	}
	rid, _, ok := s.find(id)
	if !ok {
		return false
	}
	return c.tracker.isLoading(expansionKey{path: path, hunk: rid, dir: dir})
}

// RequestExpansion expands the given hunk edge by up to desired context
// lines (DefaultContextLines when desired <= 0, capped at the per-request
// maximum). It fetches from the line source, splices the result into the
// hunk, and merges with the neighbor on that side if their ranges now touch
// or overlap.
//
// A zero result with nil error means no fetch was issued; repeated calls on
// an exhausted edge are no-ops. Transport failures leave all state untouched
// apart from clearing the loading flag, so the edge remains available for
// retry.
func (c *Controller) RequestExpansion(ctx context.Context, path string, id HunkID, dir Direction, desired int) (ExpandResult, error) {
	if desired <= 0 {
		desired = c.contextLines
	}
	if desired > c.maxRequest {
		desired = c.maxRequest
	}

	c.mu.Lock()
	s, ok := c.files[path]
	if !ok {
		c.mu.Unlock()
		return ExpandResult{}, fmt.Errorf("%w: %q", ErrUnknownFile, path)
	}
	rid, idx, ok := s.find(id)
	if !ok {
		c.mu.Unlock()
		return ExpandResult{}, fmt.Errorf("%w: %q hunk %d", ErrUnknownHunk, path, id)
	}
	if !c.canExpandLocked(path, s, idx, dir) {
		c.mu.Unlock()
		return ExpandResult{}, nil
	}
	rng, ok := RequestRange(s.file.Hunks[idx], c.neighborLocked(s, idx, dir), dir, desired)
	if !ok {
		c.mu.Unlock()
		return ExpandResult{}, nil
	}
	key := expansionKey{path: path, hunk: rid, dir: dir}
	if !c.tracker.begin(key) {
		c.mu.Unlock()
		return ExpandResult{}, nil
	}
	c.mu.Unlock()

	// The fetch runs outside the lock; the loading flag is the mutual
	// exclusion for this edge.
	contents, err := c.source.Lines(ctx, path, rng.Start, rng.End)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.tracker.fail(key)
		return ExpandResult{}, fmt.Errorf("fetch %s %s: %w", path, rng, err)
	}
	return c.applyLocked(s, key, dir, rng, contents)
}

// ExpandAll expands every hunk edge in the diff by up to desired lines,
// with bounded parallelism. Edges that cannot expand are skipped; the first
// fetch or contract error aborts the remaining work.
func (c *Controller) ExpandAll(ctx context.Context, desired int) error {
	type target struct {
		path string
		id   HunkID
		dir  Direction
	}

	c.mu.Lock()
	var targets []target
	for _, path := range c.order {
		for i := range c.files[path].file.Hunks {
			id := c.files[path].file.Hunks[i].ID
			targets = append(targets,
				target{path: path, id: id, dir: Before},
				target{path: path, id: id, dir: After})
		}
	}
	c.mu.Unlock()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(expandConcurrency)
	for _, t := range targets {
		g.Go(func() error {
			_, err := c.RequestExpansion(ctx, t.path, t.id, t.dir, desired)
			return err
		})
	}
	return g.Wait()
}

// canExpandLocked is the visibility predicate. Callers hold c.mu.
func (c *Controller) canExpandLocked(path string, s *fileState, idx int, dir Direction) bool {
	h := s.file.Hunks[idx]
	if dir == Before && h.OldStart <= 1 {
		return false
	}
	if dir == After && s.atEOF[h.ID] {
		return false
	}
	if c.tracker.atCeiling(expansionKey{path: path, hunk: h.ID, dir: dir}) {
		return false
	}
	_, ok := RequestRange(h, c.neighborLocked(s, idx, dir), dir, 1)
	return ok
}

// neighborLocked returns the adjacent hunk on the dir side of idx, or nil.
// Callers hold c.mu.
func (c *Controller) neighborLocked(s *fileState, idx int, dir Direction) *Hunk {
	if dir == Before {
		if idx == 0 {
			return nil
		}
		return &s.file.Hunks[idx-1]
	}
	if idx+1 >= len(s.file.Hunks) {
		return nil
	}
	return &s.file.Hunks[idx+1]
}

// applyLocked validates a fetched response, splices it into the target
// hunk, and runs merge convergence on the expansion side. Callers hold
// c.mu. The target is re-resolved by ID: the hunk may have been merged away
// while the fetch was in flight, in which case the response is re-targeted
// to the survivor when the range still abuts its edge, and discarded as
// stale otherwise.
func (c *Controller) applyLocked(s *fileState, key expansionKey, dir Direction, rng LineRange, contents []string) (ExpandResult, error) {
	cur, idx, ok := s.find(key.hunk)
	if !ok {
		c.tracker.fail(key)
		return ExpandResult{Stale: true}, nil
	}

	// The target's edge may have moved while the fetch was in flight: the
	// hunk merged away, or it survived a merge and absorbed the very lines
	// the fetch covers. The response only applies while the fetched range
	// still abuts the resolved hunk's current edge.
	edge := s.file.Hunks[idx]
	abuts := (dir == Before && rng.End == edge.OldStart-1) ||
		(dir == After && rng.Start == edge.OldEnd()+1)
	if !abuts {
		c.tracker.fail(key)
		return ExpandResult{Stale: true}, nil
	}
	if cur != key.hunk {
		// Re-target to the merge survivor. The survivor's own edge state
		// governs from here: refuse the credit when that edge is at its
		// ceiling or has its own fetch in flight.
		retarget := expansionKey{path: key.path, hunk: cur, dir: dir}
		if c.tracker.atCeiling(retarget) || c.tracker.isLoading(retarget) {
			c.tracker.fail(key)
			return ExpandResult{Stale: true}, nil
		}
		c.tracker.fail(key)
		key = retarget
	}

	h := &s.file.Hunks[idx]
	if len(contents) > rng.Len() {
		c.tracker.fail(key)
		return ExpandResult{}, &ContractError{
			Path: key.path, Hunk: cur, Direction: dir,
			Requested: rng, Got: len(contents),
			Reason: "more lines than requested",
		}
	}
	if len(contents) < rng.Len() {
		if dir == Before {
			// Lines before the hunk start must exist; a short read here is
			// a numbering inconsistency, not a valid end-of-file.
			c.tracker.fail(key)
			return ExpandResult{}, &ContractError{
				Path: key.path, Hunk: cur, Direction: dir,
				Requested: rng, Got: len(contents),
				Reason: "short read before hunk start",
			}
		}
		// Short read going forward means the file ended; no further after
		// expansion for this hunk.
		s.atEOF[cur] = true
	}

	applyExpansion(h, dir, contents, rng)
	res := ExpandResult{LinesAdded: len(contents)}

	// Expanding after can only merge with the next hunk, before with the
	// previous. Iterate until no merge occurs.
	for {
		hunks, surv, absorbed, merged := tryMerge(s.file.Hunks, idx, dir)
		if !merged {
			break
		}
		s.file.Hunks = hunks
		idx = surv
		survID := s.file.Hunks[surv].ID
		s.mergedInto[absorbed] = survID
		if s.atEOF[absorbed] {
			// The survivor's after edge is now the absorbed hunk's old
			// edge, which had already hit end of file.
			s.atEOF[survID] = true
		}
		delete(s.atEOF, absorbed)
		c.tracker.discard(key.path, absorbed)
		res.Merged = true
	}

	// A before-merge absorbs the hunk the expansion targeted; its records
	// are gone and the survivor's own counters stay untouched.
	if _, _, alive := s.find(key.hunk); alive && s.file.Hunks[idx].ID == key.hunk {
		c.tracker.complete(key, res.LinesAdded)
	}
	return res, nil
}

// copyHunks deep-copies a hunk slice including line lists.
func copyHunks(hunks []Hunk) []Hunk {
	if hunks == nil {
		return nil
	}
	out := make([]Hunk, len(hunks))
	copy(out, hunks)
	for i := range out {
		out[i].Lines = append([]Line(nil), hunks[i].Lines...)
	}
	return out
}
