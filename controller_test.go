package diffexpand_test

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fwojciec/diffexpand"
	"github.com/fwojciec/diffexpand/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fileSource serves synthetic "line N" content for a file with total lines,
// with a short read past end of file. calls counts issued fetches.
func fileSource(total int, calls *atomic.Int64) *mock.LineSource {
	return &mock.LineSource{
		LinesFn: func(_ context.Context, _ string, start, end int) ([]string, error) {
			if calls != nil {
				calls.Add(1)
			}
			if start < 1 || end < start {
				return nil, fmt.Errorf("invalid range %d-%d", start, end)
			}
			var lines []string
			for i := start; i <= end && i <= total; i++ {
				lines = append(lines, fmt.Sprintf("line %d", i))
			}
			return lines, nil
		},
	}
}

// modifiedFile wraps hunks in a FileDiff for a modified file.
func modifiedFile(path string, hunks ...diffexpand.Hunk) diffexpand.FileDiff {
	return diffexpand.FileDiff{
		OldPath:   path,
		NewPath:   path,
		Operation: diffexpand.FileModified,
		Hunks:     hunks,
	}
}

func newTestController(t *testing.T, src diffexpand.LineSource, hunks ...diffexpand.Hunk) *diffexpand.Controller {
	t.Helper()
	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{modifiedFile("main.go", hunks...)}}
	ctrl, err := diffexpand.NewController(diff, src)
	require.NoError(t, err)
	return ctrl
}

func TestNewController_RequiresLineSource(t *testing.T) {
	t.Parallel()

	_, err := diffexpand.NewController(&diffexpand.Diff{}, nil)

	assert.Error(t, err)
}

func TestNewController_RejectsOverlappingHunks(t *testing.T) {
	t.Parallel()

	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{modifiedFile("main.go",
		contextHunk(10, 10, 10),
		contextHunk(15, 15, 5),
	)}}

	_, err := diffexpand.NewController(diff, fileSource(100, nil))

	var verr diffexpand.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, diffexpand.ErrOverlappingHunks, verr.Reason)
}

func TestController_ExpandBefore(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, fileSource(100, nil), contextHunk(10, 10, 5))
	hunks, ok := ctrl.Snapshot("main.go")
	require.True(t, ok)
	id := hunks[0].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 5)

	require.NoError(t, err)
	assert.Equal(t, 5, res.LinesAdded)
	assert.False(t, res.Merged)

	hunks, _ = ctrl.Snapshot("main.go")
	h := hunks[0]
	assert.Equal(t, 5, h.OldStart)
	assert.Equal(t, 10, h.OldCount)
	assert.Equal(t, 5, h.NewStart)
	assert.Equal(t, 10, h.NewCount)
	assert.Equal(t, "line 5", h.Lines[0].Content)
	assert.Equal(t, 5, h.Lines[0].OldLineNum)
	assert.Equal(t, 5, h.Lines[0].NewLineNum)
}

func TestController_ExpandAfter(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, fileSource(100, nil), contextHunk(10, 10, 5)) // ends at 14
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.After, 10)

	require.NoError(t, err)
	assert.Equal(t, 10, res.LinesAdded)

	hunks, _ = ctrl.Snapshot("main.go")
	h := hunks[0]
	assert.Equal(t, 10, h.OldStart, "after expansion leaves the start alone")
	assert.Equal(t, 15, h.OldCount)
	assert.Equal(t, 24, h.OldEnd())
	assert.Equal(t, "line 24", h.Lines[len(h.Lines)-1].Content)
}

func TestController_ExpandBeforePreservesNewSideDrift(t *testing.T) {
	t.Parallel()

	// Old and new sides drift apart above this hunk: old 20 maps to new 25.
	ctrl := newTestController(t, fileSource(100, nil), contextHunk(20, 25, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	_, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 3)

	require.NoError(t, err)
	hunks, _ = ctrl.Snapshot("main.go")
	h := hunks[0]
	assert.Equal(t, 17, h.OldStart)
	assert.Equal(t, 22, h.NewStart)
	assert.Equal(t, 17, h.Lines[0].OldLineNum)
	assert.Equal(t, 22, h.Lines[0].NewLineNum, "new-side numbering derived from the edge offset")
}

func TestController_ExhaustionIsIdempotent(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	ctrl := newTestController(t, fileSource(100, &calls), contextHunk(1, 1, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	assert.False(t, ctrl.CanExpand("main.go", id, diffexpand.Before),
		"a hunk starting at line 1 has nothing before it")

	before, _ := ctrl.Snapshot("main.go")
	for i := 0; i < 3; i++ {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 10)
		require.NoError(t, err)
		assert.Zero(t, res)
	}
	after, _ := ctrl.Snapshot("main.go")

	assert.Equal(t, before, after, "refused expansions must not change any hunk field")
	assert.Zero(t, calls.Load(), "refused expansions must not issue fetches")
}

func TestController_NeighborClampAndMergeOnTouch(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	src := fileSource(100, &calls)
	a := contextHunk(10, 10, 11) // old 10-20
	b := contextHunk(25, 25, 6)  // old 25-30
	ctrl := newTestController(t, src, a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA := hunks[0].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 10)

	require.NoError(t, err)
	assert.Equal(t, 4, res.LinesAdded, "only [21,24] may be requested; the neighbor owns 25+")
	assert.True(t, res.Merged, "gap closed to zero, hunks must fuse")

	hunks, _ = ctrl.Snapshot("main.go")
	require.Len(t, hunks, 1)
	m := hunks[0]
	assert.Equal(t, idA, m.ID)
	assert.Equal(t, 10, m.OldStart)
	assert.Equal(t, 30, m.OldEnd())
	assert.Len(t, m.Lines, 21)

	seen := make(map[int]bool)
	for _, ln := range m.Lines {
		assert.False(t, seen[ln.OldLineNum], "duplicate old line %d", ln.OldLineNum)
		seen[ln.OldLineNum] = true
	}
}

func TestController_MergeWithBridgingGap(t *testing.T) {
	t.Parallel()

	a := contextHunk(10, 10, 11) // old 10-20
	b := contextHunk(25, 25, 6)  // old 25-30
	ctrl := newTestController(t, fileSource(100, nil), a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA := hunks[0].ID

	// Expand by 3: [21,23], leaving a gap of exactly 1 before b.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 3)

	require.NoError(t, err)
	assert.Equal(t, 3, res.LinesAdded)
	assert.True(t, res.Merged)

	hunks, _ = ctrl.Snapshot("main.go")
	require.Len(t, hunks, 1)
	m := hunks[0]
	assert.Equal(t, 21, m.OldCount)
	require.Len(t, m.Lines, 21)

	// Old-side numbering must be contiguous from 10 through 30, with the
	// synthesized bridge at 24.
	for i, ln := range m.Lines {
		assert.Equal(t, 10+i, ln.OldLineNum)
	}
	assert.Equal(t, "", m.Lines[14].Content)
}

func TestController_MergeBeforeDirection(t *testing.T) {
	t.Parallel()

	a := contextHunk(10, 10, 5) // old 10-14
	b := contextHunk(20, 20, 5) // old 20-24
	ctrl := newTestController(t, fileSource(100, nil), a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA, idB := hunks[0].ID, hunks[1].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idB, diffexpand.Before, 10)

	require.NoError(t, err)
	assert.Equal(t, 5, res.LinesAdded, "clamped to [15,19]")
	assert.True(t, res.Merged)

	hunks, _ = ctrl.Snapshot("main.go")
	require.Len(t, hunks, 1)
	assert.Equal(t, idA, hunks[0].ID, "the earlier hunk survives a before-merge")
	assert.Equal(t, 10, hunks[0].OldStart)
	assert.Equal(t, 24, hunks[0].OldEnd())

	// The absorbed hunk's ID resolves to the survivor for future requests.
	assert.True(t, ctrl.CanExpand("main.go", idB, diffexpand.After))
}

func TestController_ExpansionCeiling(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{modifiedFile("main.go", contextHunk(200, 200, 5))}}
	ctrl, err := diffexpand.NewController(diff, fileSource(500, &calls),
		diffexpand.WithExpansionCeiling(50))
	require.NoError(t, err)
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	for i := 0; i < 5; i++ {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 10)
		require.NoError(t, err)
		assert.Equal(t, 10, res.LinesAdded)
	}

	assert.False(t, ctrl.CanExpand("main.go", id, diffexpand.Before),
		"50 cumulative lines reached; boundary conditions alone would still allow more")
	assert.True(t, ctrl.CanExpand("main.go", id, diffexpand.After),
		"the ceiling is per direction")

	fetched := calls.Load()
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 10)
	require.NoError(t, err)
	assert.Zero(t, res)
	assert.Equal(t, fetched, calls.Load())
}

func TestController_ShortReadLatchesEndOfFile(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	// File has 20 lines; hunk ends at 15.
	ctrl := newTestController(t, fileSource(20, &calls), contextHunk(10, 10, 6))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.After, 10)

	require.NoError(t, err)
	assert.Equal(t, 5, res.LinesAdded, "only lines 16-20 exist")

	hunks, _ = ctrl.Snapshot("main.go")
	assert.Equal(t, 20, hunks[0].OldEnd())

	assert.False(t, ctrl.CanExpand("main.go", id, diffexpand.After),
		"a short read permanently disables after expansion")

	fetched := calls.Load()
	res, err = ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.After, 10)
	require.NoError(t, err)
	assert.Zero(t, res)
	assert.Equal(t, fetched, calls.Load())
}

func TestController_TransportFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	fail := errors.New("boom")
	var failing atomic.Bool
	failing.Store(true)
	good := fileSource(100, nil)
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			if failing.Load() {
				return nil, fail
			}
			return good.Lines(ctx, path, start, end)
		},
	}

	ctrl := newTestController(t, src, contextHunk(10, 10, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID
	before, _ := ctrl.Snapshot("main.go")

	_, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 5)

	require.ErrorIs(t, err, fail)
	after, _ := ctrl.Snapshot("main.go")
	assert.Equal(t, before, after, "no partial lines applied on failure")
	assert.False(t, ctrl.IsLoading("main.go", id, diffexpand.Before))
	assert.True(t, ctrl.CanExpand("main.go", id, diffexpand.Before),
		"the expand affordance remains available for retry")

	// Retry succeeds once the source recovers.
	failing.Store(false)
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.LinesAdded)
}

func TestController_ContractViolationRefused(t *testing.T) {
	t.Parallel()

	src := &mock.LineSource{
		LinesFn: func(_ context.Context, _ string, start, end int) ([]string, error) {
			lines := make([]string, end-start+2) // one more than requested
			return lines, nil
		},
	}
	ctrl := newTestController(t, src, contextHunk(10, 10, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID
	before, _ := ctrl.Snapshot("main.go")

	_, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 5)

	var cerr *diffexpand.ContractError
	require.ErrorAs(t, err, &cerr)
	after, _ := ctrl.Snapshot("main.go")
	assert.Equal(t, before, after, "a corrupting response must not be applied")
}

func TestController_ShortReadBeforeIsContractViolation(t *testing.T) {
	t.Parallel()

	src := &mock.LineSource{
		LinesFn: func(_ context.Context, _ string, start, end int) ([]string, error) {
			return []string{"only one"}, nil
		},
	}
	ctrl := newTestController(t, src, contextHunk(10, 10, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	_, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 5)

	var cerr *diffexpand.ContractError
	require.ErrorAs(t, err, &cerr, "lines before the hunk start must exist")
}

func TestController_StaleCompletionDiscarded(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	good := fileSource(100, nil)
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			if start == 21 && end == 30 {
				close(started)
				<-release
			}
			return good.Lines(ctx, path, start, end)
		},
	}

	a := contextHunk(5, 5, 6)   // old 5-10
	b := contextHunk(15, 15, 6) // old 15-20
	ctrl := newTestController(t, src, a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA, idB := hunks[0].ID, hunks[1].ID

	// Slow fetch: expand after on b, which will block on [21,30].
	done := make(chan diffexpand.ExpandResult, 1)
	go func() {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", idB, diffexpand.After, 10)
		if err != nil {
			panic(err)
		}
		done <- res
	}()
	<-started
	assert.True(t, ctrl.IsLoading("main.go", idB, diffexpand.After))

	// Meanwhile expanding after on a closes the gap and merges b away.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 10)
	require.NoError(t, err)
	assert.True(t, res.Merged)

	// And the survivor grows past the blocked request's range start.
	res, err = ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, res.LinesAdded)
	snapshotBefore, _ := ctrl.Snapshot("main.go")

	close(release)
	select {
	case late := <-done:
		assert.True(t, late.Stale, "the late completion no longer has a target")
		assert.Zero(t, late.LinesAdded)
	case <-time.After(5 * time.Second):
		t.Fatal("stale completion never resolved")
	}

	snapshotAfter, _ := ctrl.Snapshot("main.go")
	assert.Equal(t, snapshotBefore, snapshotAfter, "a discarded completion must not corrupt the surviving hunk")
}

func TestController_StaleCompletionRetargetsSurvivor(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	good := fileSource(100, nil)
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			if start == 21 {
				close(started)
				<-release
			}
			return good.Lines(ctx, path, start, end)
		},
	}

	a := contextHunk(5, 5, 6)   // old 5-10
	b := contextHunk(15, 15, 6) // old 15-20
	ctrl := newTestController(t, src, a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA, idB := hunks[0].ID, hunks[1].ID

	done := make(chan diffexpand.ExpandResult, 1)
	go func() {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", idB, diffexpand.After, 10)
		if err != nil {
			panic(err)
		}
		done <- res
	}()
	<-started

	// Merge b into a while b's after-fetch is in flight. The survivor's
	// after edge lands exactly where the fetched range begins.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 10)
	require.NoError(t, err)
	assert.True(t, res.Merged)

	close(release)
	select {
	case late := <-done:
		assert.False(t, late.Stale)
		assert.Equal(t, 10, late.LinesAdded, "the completion re-targets the merge survivor")
	case <-time.After(5 * time.Second):
		t.Fatal("completion never resolved")
	}

	hunks, _ = ctrl.Snapshot("main.go")
	require.Len(t, hunks, 1)
	assert.Equal(t, idA, hunks[0].ID)
	assert.Equal(t, 30, hunks[0].OldEnd())
}

func TestController_StaleCompletionWhenTargetAbsorbsNeighbor(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	good := fileSource(100, nil)
	// Both requests below resolve to the same [21,24] range; block only the
	// first fetch so the second one completes and triggers the merge.
	var firstFetch atomic.Bool
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			if start == 21 && end == 24 && firstFetch.CompareAndSwap(false, true) {
				close(started)
				<-release
			}
			return good.Lines(ctx, path, start, end)
		},
	}

	a := contextHunk(10, 10, 11) // old 10-20
	b := contextHunk(25, 25, 10) // old 25-34
	ctrl := newTestController(t, src, a, b)
	hunks, _ := ctrl.Snapshot("main.go")
	idA, idB := hunks[0].ID, hunks[1].ID

	// Slow fetch: expand after on a, blocked on [21,24].
	done := make(chan diffexpand.ExpandResult, 1)
	go func() {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 10)
		if err != nil {
			panic(err)
		}
		done <- res
	}()
	<-started

	// Meanwhile b expands before, closing the gap and merging itself into
	// a. The target of the blocked fetch survives the merge, but its after
	// edge is now b's old end and the fetched range sits inside the hunk.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idB, diffexpand.Before, 20)
	require.NoError(t, err)
	assert.True(t, res.Merged)
	snapshotBefore, _ := ctrl.Snapshot("main.go")

	close(release)
	select {
	case late := <-done:
		assert.True(t, late.Stale, "the fetched range is interior to the grown hunk")
		assert.Zero(t, late.LinesAdded)
	case <-time.After(5 * time.Second):
		t.Fatal("stale completion never resolved")
	}

	snapshotAfter, _ := ctrl.Snapshot("main.go")
	assert.Equal(t, snapshotBefore, snapshotAfter, "an interior completion must not splice into the hunk")
	require.Len(t, snapshotAfter, 1)
	assert.Equal(t, idA, snapshotAfter[0].ID)
	assert.Equal(t, 34, snapshotAfter[0].OldEnd())
	assert.Empty(t, diffexpand.ValidateFileDiff(modifiedFile("main.go", snapshotAfter...)))
}

func TestController_RetargetRespectsSurvivorCeiling(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	good := fileSource(100, nil)
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			if start == 21 {
				close(started)
				<-release
			}
			return good.Lines(ctx, path, start, end)
		},
	}

	a := contextHunk(5, 5, 6)   // old 5-10
	b := contextHunk(15, 15, 6) // old 15-20
	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{modifiedFile("main.go", a, b)}}
	ctrl, err := diffexpand.NewController(diff, src, diffexpand.WithExpansionCeiling(4))
	require.NoError(t, err)
	hunks, _ := ctrl.Snapshot("main.go")
	idA, idB := hunks[0].ID, hunks[1].ID

	done := make(chan diffexpand.ExpandResult, 1)
	go func() {
		res, err := ctrl.RequestExpansion(context.Background(), "main.go", idB, diffexpand.After, 10)
		if err != nil {
			panic(err)
		}
		done <- res
	}()
	<-started

	// The merge exhausts the survivor's after-edge ceiling: the clamped
	// [11,14] fetch credits all 4 allowed lines.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", idA, diffexpand.After, 10)
	require.NoError(t, err)
	assert.True(t, res.Merged)
	assert.False(t, ctrl.CanExpand("main.go", idA, diffexpand.After))

	close(release)
	select {
	case late := <-done:
		assert.True(t, late.Stale, "a re-target may not credit past the survivor's ceiling")
		assert.Zero(t, late.LinesAdded)
	case <-time.After(5 * time.Second):
		t.Fatal("completion never resolved")
	}

	hunks, _ = ctrl.Snapshot("main.go")
	require.Len(t, hunks, 1)
	assert.Equal(t, 20, hunks[0].OldEnd(), "the refused completion leaves the survivor untouched")
	assert.False(t, ctrl.CanExpand("main.go", idA, diffexpand.After))
}

func TestController_DuplicateRequestSuppressed(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	release := make(chan struct{})
	var calls atomic.Int64
	good := fileSource(100, nil)
	src := &mock.LineSource{
		LinesFn: func(ctx context.Context, path string, start, end int) ([]string, error) {
			calls.Add(1)
			close(started)
			<-release
			return good.Lines(ctx, path, start, end)
		},
	}

	ctrl := newTestController(t, src, contextHunk(50, 50, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 10)
		if err != nil {
			panic(err)
		}
	}()
	<-started

	// Same edge, request already in flight: refused without a fetch.
	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 10)
	require.NoError(t, err)
	assert.Zero(t, res)
	assert.Equal(t, int64(1), calls.Load())

	close(release)
	<-done
}

func TestController_SnapshotIsIsolated(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, fileSource(100, nil), contextHunk(10, 10, 5))

	hunks, ok := ctrl.Snapshot("main.go")
	require.True(t, ok)
	hunks[0].OldStart = 999
	hunks[0].Lines[0].Content = "mutated"

	fresh, _ := ctrl.Snapshot("main.go")
	assert.Equal(t, 10, fresh[0].OldStart)
	assert.Equal(t, "line 10", fresh[0].Lines[0].Content)
}

func TestController_UnknownFileAndHunk(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, fileSource(100, nil), contextHunk(10, 10, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	_, err := ctrl.RequestExpansion(context.Background(), "missing.go", id, diffexpand.Before, 5)
	assert.ErrorIs(t, err, diffexpand.ErrUnknownFile)

	_, err = ctrl.RequestExpansion(context.Background(), "main.go", diffexpand.HunkID(999), diffexpand.Before, 5)
	assert.ErrorIs(t, err, diffexpand.ErrUnknownHunk)

	assert.False(t, ctrl.CanExpand("missing.go", id, diffexpand.Before))
	assert.False(t, ctrl.IsLoading("missing.go", id, diffexpand.Before))
}

func TestController_ExpandAll(t *testing.T) {
	t.Parallel()

	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{
		modifiedFile("a.go", contextHunk(20, 20, 5), contextHunk(60, 60, 5)),
		modifiedFile("b.go", contextHunk(40, 40, 5)),
	}}
	ctrl, err := diffexpand.NewController(diff, fileSource(100, nil))
	require.NoError(t, err)

	require.NoError(t, ctrl.ExpandAll(context.Background(), 5))

	hunksA, _ := ctrl.Snapshot("a.go")
	require.Len(t, hunksA, 2)
	assert.Equal(t, 15, hunksA[0].OldStart)
	assert.Equal(t, 29, hunksA[0].OldEnd())
	assert.Equal(t, 55, hunksA[1].OldStart)
	assert.Equal(t, 69, hunksA[1].OldEnd())

	hunksB, _ := ctrl.Snapshot("b.go")
	require.Len(t, hunksB, 1)
	assert.Equal(t, 35, hunksB[0].OldStart)
	assert.Equal(t, 49, hunksB[0].OldEnd())
}

func TestController_DefaultDesiredCount(t *testing.T) {
	t.Parallel()

	ctrl := newTestController(t, fileSource(100, nil), contextHunk(50, 50, 5))
	hunks, _ := ctrl.Snapshot("main.go")
	id := hunks[0].ID

	res, err := ctrl.RequestExpansion(context.Background(), "main.go", id, diffexpand.Before, 0)

	require.NoError(t, err)
	assert.Equal(t, diffexpand.DefaultContextLines, res.LinesAdded)
}

func TestController_Paths(t *testing.T) {
	t.Parallel()

	diff := &diffexpand.Diff{Files: []diffexpand.FileDiff{
		modifiedFile("z.go", contextHunk(10, 10, 3)),
		modifiedFile("a.go", contextHunk(10, 10, 3)),
	}}
	ctrl, err := diffexpand.NewController(diff, fileSource(100, nil))
	require.NoError(t, err)

	assert.Equal(t, []string{"z.go", "a.go"}, ctrl.Paths(), "diff order is preserved")
}
