package archive

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/matryer/is"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/solver"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(filepath.Join(t.TempDir(), "solves.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func oneMoveGrid(t *testing.T) *puzzle.Puzzle {
	t.Helper()
	p, err := puzzle.FromGrid(3, 3, []uint8{1, 2, 3, 4, 5, 0, 7, 8, 6})
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func strategy(t *testing.T, alg, arg string) solver.Strategy {
	t.Helper()
	s, err := solver.ParseStrategy(alg, arg)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func result(path string, visited uint64) *solver.Result {
	dirs, err := puzzle.ParsePath(path)
	if err != nil {
		panic(err)
	}
	return &solver.Result{
		Found:           true,
		Path:            dirs,
		VisitedStates:   visited,
		ProcessedStates: visited,
		MaxDepth:        len(dirs),
		Elapsed:         3 * time.Millisecond,
	}
}

func TestGridKeyStable(t *testing.T) {
	is := is.New(t)
	p := oneMoveGrid(t)
	q := oneMoveGrid(t)
	is.Equal(GridKey(p), GridKey(q))
	is.Equal(len(GridKey(p)), 16)

	solved := puzzle.New(3, 3)
	is.True(GridKey(p) != GridKey(solved)) // different grids, different keys
}

func TestRecordAndLookup(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)
	p := oneMoveGrid(t)
	strat := strategy(t, "bfs", "UDLR")

	err := a.Record(p, strat, result("D", 2))
	is.NoErr(err)

	e, err := a.Lookup(p, strat)
	is.NoErr(err)
	is.Equal(e.GridKey, GridKey(p))
	is.Equal(e.Width, 3)
	is.Equal(e.Height, 3)
	is.Equal(e.Strategy, "bfs/UDLR")
	is.True(e.Found)
	is.Equal(e.Path, "D")
	is.Equal(e.Visited, uint64(2))
	is.Equal(e.MaxDepth, 1)
	is.Equal(e.ElapsedMs, 3.0)
}

func TestLookupMissing(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)

	_, err := a.Lookup(oneMoveGrid(t), strategy(t, "bfs", "UDLR"))
	is.Equal(err, ErrNotFound)
}

func TestRecordReplacesSameStrategy(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)
	p := oneMoveGrid(t)
	strat := strategy(t, "dfs", "UDLR")

	is.NoErr(a.Record(p, strat, result("ULDR", 40)))
	is.NoErr(a.Record(p, strat, result("D", 7)))

	e, err := a.Lookup(p, strat)
	is.NoErr(err)
	is.Equal(e.Path, "D")
	is.Equal(e.Visited, uint64(7))

	entries, err := a.Recent(10)
	is.NoErr(err)
	is.Equal(len(entries), 1) // one row per grid and strategy
}

func TestBestPicksShortestPath(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)
	p := oneMoveGrid(t)

	is.NoErr(a.Record(p, strategy(t, "dfs", "ULDR"), result("ULLDDRRULD", 900)))
	is.NoErr(a.Record(p, strategy(t, "astr", "manh"), result("D", 2)))

	failed := &solver.Result{Found: false, VisitedStates: 181440}
	is.NoErr(a.Record(p, strategy(t, "bfs", "RLUD"), failed))

	e, err := a.Best(p)
	is.NoErr(err)
	is.Equal(e.Strategy, "astr/manh")
	is.Equal(e.Path, "D")
}

func TestBestIgnoresUnsolved(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)
	p := oneMoveGrid(t)

	failed := &solver.Result{Found: false, VisitedStates: 181440}
	is.NoErr(a.Record(p, strategy(t, "bfs", "UDLR"), failed))

	_, err := a.Best(p)
	is.Equal(err, ErrNotFound)
}

func TestRecentLimits(t *testing.T) {
	is := is.New(t)
	a := openTemp(t)
	p := oneMoveGrid(t)

	is.NoErr(a.Record(p, strategy(t, "bfs", "UDLR"), result("D", 2)))
	is.NoErr(a.Record(p, strategy(t, "dfs", "UDLR"), result("D", 3)))
	is.NoErr(a.Record(p, strategy(t, "astr", "manh"), result("D", 2)))

	entries, err := a.Recent(2)
	is.NoErr(err)
	is.Equal(len(entries), 2)

	entries, err = a.Recent(10)
	is.NoErr(err)
	is.Equal(len(entries), 3)
}
