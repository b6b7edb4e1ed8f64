package zobrist

import (
	"testing"

	"github.com/matryer/is"

	"github.com/pzielasko/taquin/puzzle"
)

func TestIncrementalMatchesRecompute(t *testing.T) {
	is := is.New(t)
	var z Zobrist
	z.Initialize(3, 3)

	cur := puzzle.New(3, 3)
	key := z.Hash(cur)

	for _, dir := range []puzzle.Direction{puzzle.Up, puzzle.Left, puzzle.Down, puzzle.Right} {
		blank := cur.BlankIndex()
		tgt, ok := cur.MoveTarget(dir)
		is.True(ok)
		tile := cur.Cells()[tgt]

		next, ok := cur.Move(dir)
		is.True(ok)
		key = z.MoveTile(key, tile, tgt, blank)
		is.Equal(key, z.Hash(next))
		cur = next
	}
}

func TestTranspositionsCollide(t *testing.T) {
	is := is.New(t)
	var z Zobrist
	z.Initialize(2, 2)

	start := puzzle.New(2, 2)
	key := z.Hash(start)

	// each circuit of the 2x2 grid rotates the three tiles one step, so
	// three circuits restore the start position
	cur := start
	for i := 0; i < 3; i++ {
		for _, dir := range []puzzle.Direction{puzzle.Up, puzzle.Left, puzzle.Down, puzzle.Right} {
			next, ok := cur.Move(dir)
			is.True(ok)
			cur = next
		}
	}
	is.True(cur.Equal(start))
	is.Equal(z.Hash(cur), key)
}

func TestDistinctGridsDistinctKeys(t *testing.T) {
	is := is.New(t)
	var z Zobrist
	z.Initialize(3, 3)

	a := puzzle.New(3, 3)
	b, ok := a.Move(puzzle.Up)
	is.True(ok)
	is.True(z.Hash(a) != z.Hash(b))
}
