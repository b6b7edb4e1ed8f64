// Package solver implements the sliding-tile search engine: three
// interchangeable frontier strategies over a shared move generator and a
// visited registry that deduplicates grids by content.
package solver

import (
	"github.com/pzielasko/taquin/puzzle"
)

// A State is one node of the search graph: a grid snapshot, the move
// history that produced it, its zobrist key, and the rank informed search
// orders by. History is provenance only; identity is the grid.
type State struct {
	grid    *puzzle.Puzzle
	history []puzzle.Direction
	key     uint64
	// g+h, fixed at construction for informed search, zero otherwise
	rank int
}

// Depth returns the number of moves taken to reach this state.
func (s *State) Depth() int { return len(s.history) }

// Grid returns the state's grid snapshot.
func (s *State) Grid() *puzzle.Puzzle { return s.grid }

// Path returns the move history. Callers must not modify it.
func (s *State) Path() []puzzle.Direction { return s.history }

// child applies one legal move and returns the successor with its own
// copied history and an incrementally updated key. The second return is
// false when the move leaves the grid.
func (s *State) child(dir puzzle.Direction, z keyUpdater) (*State, bool) {
	tgt, ok := s.grid.MoveTarget(dir)
	if !ok {
		return nil, false
	}
	tile := s.grid.Cells()[tgt]
	next, _ := s.grid.Move(dir)

	hist := make([]puzzle.Direction, len(s.history)+1)
	copy(hist, s.history)
	hist[len(s.history)] = dir

	return &State{
		grid:    next,
		history: hist,
		key:     z.MoveTile(s.key, tile, tgt, s.grid.BlankIndex()),
	}, true
}

// lastMove returns the most recent move and whether one exists.
func (s *State) lastMove() (puzzle.Direction, bool) {
	if len(s.history) == 0 {
		return 0, false
	}
	return s.history[len(s.history)-1], true
}

// keyUpdater is the slice of the zobrist hasher the move generator needs.
type keyUpdater interface {
	MoveTile(key uint64, tile uint8, from, to int) uint64
}
