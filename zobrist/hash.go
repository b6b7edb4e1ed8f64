package zobrist

import (
	"lukechampine.com/frand"

	"github.com/pzielasko/taquin/puzzle"
)

const bignum = 1<<63 - 2

// generate a zobrist hash for a tile grid.
// https://en.wikipedia.org/wiki/Zobrist_hashing
type Zobrist struct {
	posTable [][]uint64
	cells    int
}

func (z *Zobrist) Initialize(width, height int) {
	z.cells = width * height
	z.posTable = make([][]uint64, z.cells)
	for i := 0; i < z.cells; i++ {
		z.posTable[i] = make([]uint64, z.cells)
		for j := 0; j < z.cells; j++ {
			z.posTable[i][j] = frand.Uint64n(bignum) + 1
		}
	}
}

// Hash computes a grid's key from scratch. The blank is skipped; its
// position is implied by every other tile's, so hashing it would add
// nothing.
func (z *Zobrist) Hash(p *puzzle.Puzzle) uint64 {
	key := uint64(0)
	for i, tile := range p.Cells() {
		if tile == 0 {
			continue
		}
		key ^= z.posTable[i][tile]
	}
	return key
}

// MoveTile updates a key for a single slide: the tile leaves `from` and
// lands on `to` (the cell the blank vacated). Two XORs instead of a full
// grid rescan.
func (z *Zobrist) MoveTile(key uint64, tile uint8, from, to int) uint64 {
	key ^= z.posTable[from][tile]
	key ^= z.posTable[to][tile]
	return key
}
