package solver

import (
	"testing"

	"github.com/matryer/is"

	"github.com/pzielasko/taquin/puzzle"
)

func TestUpsertContract(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(3, 3)
	p := puzzle.New(3, 3)

	// first visit: insert and admit
	is.True(r.Upsert(p, 42, 5))
	is.Equal(r.Visited(), uint64(1))

	// equal depth: discard
	is.True(!r.Upsert(p, 42, 5))
	is.Equal(r.Visited(), uint64(1))

	// longer path: discard
	is.True(!r.Upsert(p, 42, 9))

	// strictly shorter path: replace and re-admit, count unchanged
	is.True(r.Upsert(p, 42, 3))
	is.Equal(r.Visited(), uint64(1))
	is.Equal(r.Replaced(), uint64(1))

	d, ok := r.DepthOf(p, 42)
	is.True(ok)
	is.Equal(d, 3)
}

func TestRegistryKeepsShortestDepth(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(3, 3)
	p := puzzle.New(3, 3)

	depths := []int{7, 9, 4, 4, 6, 2, 3}
	best := depths[0]
	r.Upsert(p, 1, depths[0])
	for _, d := range depths[1:] {
		admitted := r.Upsert(p, 1, d)
		is.Equal(admitted, d < best)
		if d < best {
			best = d
		}
		stored, ok := r.DepthOf(p, 1)
		is.True(ok)
		is.Equal(stored, best)
	}
	// still a single distinct grid
	is.Equal(r.Visited(), uint64(1))
}

func TestHashCollisionCannotMergeGrids(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(2, 2)

	a := puzzle.New(2, 2)
	b, ok := a.Move(puzzle.Up)
	is.True(ok)

	// force both grids into the same bucket
	is.True(r.Upsert(a, 99, 0))
	is.True(r.Upsert(b, 99, 1))
	is.Equal(r.Visited(), uint64(2))
	is.Equal(r.Collisions(), uint64(1))

	da, ok := r.DepthOf(a, 99)
	is.True(ok)
	is.Equal(da, 0)
	db, ok := r.DepthOf(b, 99)
	is.True(ok)
	is.Equal(db, 1)
}

func TestRegistryReset(t *testing.T) {
	is := is.New(t)
	r := NewRegistry(2, 2)
	r.Upsert(puzzle.New(2, 2), 7, 0)
	is.Equal(r.Visited(), uint64(1))

	r.Reset(DefaultMemFraction, 2, 2)
	is.Equal(r.Visited(), uint64(0))
	_, ok := r.DepthOf(puzzle.New(2, 2), 7)
	is.True(!ok)
}
