package solver

import (
	"errors"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pzielasko/taquin/puzzle"
	"github.com/pzielasko/taquin/zobrist"
)

// DefaultMaxDepth bounds depth-first descent into the cyclic move graph.
const DefaultMaxDepth = 20

var (
	// ErrNoBlank means the start grid has no blank cell to slide tiles
	// into. It is checked before any search begins.
	ErrNoBlank = errors.New("grid has no blank cell")
	// ErrAborted is returned when an external watchdog calls Abort on a
	// running solve.
	ErrAborted = errors.New("solve aborted")
)

// A Result packages one completed solve. Exhaustion without a solution is
// a normal outcome: Found is false and Path is nil.
type Result struct {
	Found           bool
	Path            []puzzle.Direction
	VisitedStates   uint64
	ProcessedStates uint64
	MaxDepth        int
	Elapsed         time.Duration
}

// Solver runs one strategy over one start grid. A solve call is
// synchronous and runs to completion or exhaustion; callers needing
// bounded run time watch ProcessedStates from another goroutine and call
// Abort.
type Solver struct {
	start    *puzzle.Puzzle
	strategy Strategy
	maxDepth int

	memFraction float64
	zobrist     *zobrist.Zobrist
	registry    *Registry

	processed atomic.Uint64
	aborted   atomic.Bool
	solving   atomic.Bool
	maxSeen   int
}

// Init prepares the solver for a start grid and strategy. The blank
// precondition is validated here, never discovered mid-search.
func (s *Solver) Init(p *puzzle.Puzzle, strat Strategy) error {
	if p == nil || !p.HasBlank() {
		return ErrNoBlank
	}
	s.start = p
	s.strategy = strat
	s.maxDepth = DefaultMaxDepth
	s.memFraction = DefaultMemFraction
	s.zobrist = &zobrist.Zobrist{}
	s.zobrist.Initialize(p.Width(), p.Height())
	s.registry = NewRegistry(p.Width(), p.Height())
	return nil
}

// SetMaxDepth changes the depth bound applied to depth-first search.
func (s *Solver) SetMaxDepth(d int) {
	s.maxDepth = d
}

// SetMemFraction changes the share of system memory the registry sizes
// itself from on the next solve.
func (s *Solver) SetMemFraction(f float64) {
	s.memFraction = f
}

// Registry exposes the visited registry for inspection after a solve.
func (s *Solver) Registry() *Registry { return s.registry }

// ProcessedStates reports live progress; safe to read from a watchdog
// goroutine while Solve runs.
func (s *Solver) ProcessedStates() uint64 { return s.processed.Load() }

// Abort makes a running Solve return ErrAborted at its next iteration.
func (s *Solver) Abort() { s.aborted.Store(true) }

// IsSolving reports whether a Solve call is currently running.
func (s *Solver) IsSolving() bool { return s.solving.Load() }

// Solve runs the configured strategy to completion and packages the
// outcome. It fails only on the blank precondition or an external abort.
func (s *Solver) Solve() (*Result, error) {
	if s.start == nil || !s.start.HasBlank() {
		return nil, ErrNoBlank
	}
	s.registry.Reset(s.memFraction, s.start.Width(), s.start.Height())
	s.processed.Store(0)
	s.aborted.Store(false)
	s.solving.Store(true)
	defer s.solving.Store(false)
	s.maxSeen = 0
	started := time.Now()

	var (
		goal *State
		err  error
	)
	if s.strategy.Alg == AStar {
		goal, err = s.searchBest()
	} else {
		goal, err = s.searchQueue()
	}
	if err != nil {
		return nil, err
	}

	res := &Result{
		VisitedStates:   s.registry.Visited(),
		ProcessedStates: s.processed.Load(),
		MaxDepth:        s.maxSeen,
		Elapsed:         time.Since(started),
	}
	if goal != nil {
		res.Found = true
		res.Path = goal.history
	}
	log.Debug().Str("strategy", s.strategy.String()).
		Bool("found", res.Found).
		Int("path-length", len(res.Path)).
		Uint64("visited-states", res.VisitedStates).
		Uint64("processed-states", res.ProcessedStates).
		Int("max-depth", res.MaxDepth).
		Uint64("registry-hits", s.registry.Hits()).
		Uint64("registry-replaced", s.registry.Replaced()).
		Uint64("zobrist-collisions", s.registry.Collisions()).
		Dur("elapsed", res.Elapsed).
		Msg("search-done")
	return res, nil
}

// searchQueue drives the uninformed strategies over a shared deque:
// breadth-first pops the front, depth-first pops the back under the depth
// bound.
func (s *Solver) searchQueue() (*State, error) {
	dfs := s.strategy.Alg == DFS
	order := s.strategy.Order
	if dfs {
		// reversed so the first-listed direction comes off the stack first
		order = [4]puzzle.Direction{order[3], order[2], order[1], order[0]}
	}

	start := &State{grid: s.start, key: s.zobrist.Hash(s.start)}
	s.registry.Upsert(start.grid, start.key, 0)

	var frontier Deque
	frontier.PushBack(start)

	for frontier.Len() > 0 {
		if s.aborted.Load() {
			return nil, ErrAborted
		}
		var cur *State
		if dfs {
			cur, _ = frontier.PopBack()
		} else {
			cur, _ = frontier.PopFront()
		}
		s.processed.Add(1)
		if d := cur.Depth(); d > s.maxSeen {
			s.maxSeen = d
		}
		if cur.grid.IsSolved() {
			return cur, nil
		}
		// at the depth bound: prune without expanding; the pop above
		// still counted it as processed
		if dfs && cur.Depth() >= s.maxDepth {
			continue
		}
		for _, next := range s.expand(cur, order, true, false) {
			if s.registry.Upsert(next.grid, next.key, next.Depth()) {
				frontier.PushBack(next)
			}
		}
	}
	return nil, nil
}

// searchBest drives informed search: a priority frontier popping the
// lowest g+h first. With an admissible heuristic the first popped
// solution is optimal.
func (s *Solver) searchBest() (*State, error) {
	start := &State{grid: s.start, key: s.zobrist.Hash(s.start)}
	start.rank = s.strategy.Heuristic.Estimate(s.start)
	s.registry.Upsert(start.grid, start.key, 0)

	var frontier PQueue
	frontier.Push(start)

	for frontier.Len() > 0 {
		if s.aborted.Load() {
			return nil, ErrAborted
		}
		cur, _ := frontier.Pop()
		s.processed.Add(1)
		if d := cur.Depth(); d > s.maxSeen {
			s.maxSeen = d
		}
		if cur.grid.IsSolved() {
			return cur, nil
		}
		for _, next := range s.expand(cur, s.strategy.Order, false, true) {
			if s.registry.Upsert(next.grid, next.key, next.Depth()) {
				frontier.Push(next)
			}
		}
	}
	return nil, nil
}

// expand generates the legal successors of a state in the given order.
// skipReverse drops the exact inverse of the last move; the uninformed
// strategies use it, informed search needs no restriction since a
// reversal's higher g dominates it out of the frontier. Informed
// successors get their rank fixed at construction.
func (s *Solver) expand(cur *State, order [4]puzzle.Direction, skipReverse, informed bool) []*State {
	last, hasLast := cur.lastMove()
	succ := make([]*State, 0, 4)
	for _, dir := range order {
		if skipReverse && hasLast && dir.Opposite() == last {
			continue
		}
		st, ok := cur.child(dir, s.zobrist)
		if !ok {
			continue
		}
		if informed {
			st.rank = st.Depth() + s.strategy.Heuristic.Estimate(st.grid)
		}
		succ = append(succ, st)
	}
	return succ
}
