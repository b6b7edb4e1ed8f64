// Package puzzle contains the sliding-tile grid representation: tile
// placement, the goal test, legal blank moves and the distance heuristics
// the informed search ranks states with.
package puzzle

import (
	"errors"
	"fmt"
	"strings"
)

// MaxCells bounds width*height so that every tile label fits in a uint8.
const MaxCells = 256

// A Puzzle is a single configuration of the game: a fixed-size grid of
// numbered tiles with one blank cell (label 0), stored row-major. It is a
// value snapshot; Move returns fresh copies and never mutates the receiver.
type Puzzle struct {
	width  int
	height int
	cells  []uint8
	// row-major index of the blank, maintained across moves so move
	// generation does not rescan the grid.
	blank int
}

// New returns the solved puzzle of the given dimensions: tiles ascending
// row-major with the blank in the last cell.
func New(width, height int) *Puzzle {
	cells := make([]uint8, width*height)
	for i := 0; i < len(cells)-1; i++ {
		cells[i] = uint8(i + 1)
	}
	return &Puzzle{
		width:  width,
		height: height,
		cells:  cells,
		blank:  len(cells) - 1,
	}
}

// FromGrid builds a puzzle from row-major cell values, validating the
// structural invariant: exactly one blank, all other labels a permutation
// of 1..width*height-1.
func FromGrid(width, height int, cells []uint8) (*Puzzle, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("dimensions %dx%d out of range", width, height)
	}
	if width*height > MaxCells {
		return nil, fmt.Errorf("%dx%d has more than %d cells", width, height, MaxCells)
	}
	if len(cells) != width*height {
		return nil, fmt.Errorf("got %d cells, want %d", len(cells), width*height)
	}
	p := &Puzzle{
		width:  width,
		height: height,
		cells:  append([]uint8(nil), cells...),
		blank:  -1,
	}
	if err := p.validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// validate checks the tile invariant and caches the blank index.
func (p *Puzzle) validate() error {
	blank, err := checkCells(p.width, p.height, p.cells)
	if err != nil {
		return err
	}
	if blank == -1 {
		return errors.New("grid has no blank cell")
	}
	p.blank = blank
	return nil
}

// checkCells verifies the label invariant every constructor shares: each
// label below width*height, no label twice. It returns the blank index,
// -1 when the grid has none.
func checkCells(width, height int, cells []uint8) (int, error) {
	n := width * height
	var seen [MaxCells]bool
	blank := -1
	for i, c := range cells {
		if int(c) >= n {
			return -1, fmt.Errorf("cell value %d out of range for a %dx%d grid", c, width, height)
		}
		if seen[c] {
			return -1, fmt.Errorf("cell value %d appears more than once", c)
		}
		seen[c] = true
		if c == 0 {
			blank = i
		}
	}
	return blank, nil
}

// HasBlank reports whether the grid contains a blank cell. Solvers check
// this precondition before searching rather than failing mid-expansion.
func (p *Puzzle) HasBlank() bool {
	return p.blank >= 0 && p.blank < len(p.cells) && p.cells[p.blank] == 0
}

func (p *Puzzle) Width() int  { return p.width }
func (p *Puzzle) Height() int { return p.height }

// Cells returns the row-major tile labels. Callers must not modify the
// returned slice.
func (p *Puzzle) Cells() []uint8 { return p.cells }

// Cell returns the label at column x, row y.
func (p *Puzzle) Cell(x, y int) uint8 { return p.cells[y*p.width+x] }

// Blank returns the blank's column and row.
func (p *Puzzle) Blank() (x, y int) {
	return p.blank % p.width, p.blank / p.width
}

// Copy returns an independent snapshot of the grid.
func (p *Puzzle) Copy() *Puzzle {
	return &Puzzle{
		width:  p.width,
		height: p.height,
		cells:  append([]uint8(nil), p.cells...),
		blank:  p.blank,
	}
}

// Equal reports whether two puzzles hold identical grids. Dimensions are
// part of the comparison; move history is not a property of the grid.
func (p *Puzzle) Equal(o *Puzzle) bool {
	if p.width != o.width || p.height != o.height {
		return false
	}
	for i := range p.cells {
		if p.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// IsSolved reports whether the grid is the canonical goal: tiles ascending
// row-major with the blank last. The blank position is checked first since
// it is the cheapest discriminator.
func (p *Puzzle) IsSolved() bool {
	last := len(p.cells) - 1
	if p.blank != last {
		return false
	}
	for i := 0; i < last; i++ {
		if p.cells[i] != uint8(i+1) {
			return false
		}
	}
	return true
}

// GoalPosition returns the column and row a label occupies in the solved
// grid. The blank's goal is the last cell. Positions are derived from the
// configured dimensions, so any grid size works.
func (p *Puzzle) GoalPosition(value uint8) (x, y int) {
	if value == 0 {
		return p.width - 1, p.height - 1
	}
	return int(value-1) % p.width, int(value-1) / p.width
}

// Move slides a tile into the blank: the blank travels in the given
// direction and swaps with the tile there. It returns false when the move
// would take the blank off the grid; that is an expected outcome, not an
// error. On success the returned puzzle is a fresh copy.
func (p *Puzzle) Move(dir Direction) (*Puzzle, bool) {
	x, y := p.Blank()
	switch dir {
	case Up:
		y--
	case Down:
		y++
	case Left:
		x--
	case Right:
		x++
	}
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return nil, false
	}
	next := p.Copy()
	target := y*p.width + x
	next.cells[next.blank] = next.cells[target]
	next.cells[target] = 0
	next.blank = target
	return next, true
}

// MoveTarget returns the row-major index the blank would occupy after the
// move, without applying it. The second return mirrors Move's legality.
func (p *Puzzle) MoveTarget(dir Direction) (int, bool) {
	x, y := p.Blank()
	switch dir {
	case Up:
		y--
	case Down:
		y++
	case Left:
		x--
	case Right:
		x++
	}
	if x < 0 || x >= p.width || y < 0 || y >= p.height {
		return 0, false
	}
	return y*p.width + x, true
}

// BlankIndex returns the row-major index of the blank cell.
func (p *Puzzle) BlankIndex() int { return p.blank }

func (p *Puzzle) String() string {
	var sb strings.Builder
	for y := 0; y < p.height; y++ {
		for x := 0; x < p.width; x++ {
			fmt.Fprintf(&sb, "%3d ", p.Cell(x, y))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
