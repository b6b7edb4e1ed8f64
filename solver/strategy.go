package solver

import (
	"fmt"

	"github.com/pzielasko/taquin/puzzle"
)

// Algorithm selects the frontier discipline.
type Algorithm uint8

const (
	BFS Algorithm = iota
	DFS
	AStar
)

func (a Algorithm) String() string {
	switch a {
	case BFS:
		return "bfs"
	case DFS:
		return "dfs"
	case AStar:
		return "astr"
	}
	return "unknown"
}

// A Strategy pairs an algorithm with its parameter: a move order for the
// uninformed strategies, a heuristic for informed search.
type Strategy struct {
	Alg       Algorithm
	Order     [4]puzzle.Direction
	Heuristic puzzle.Heuristic
}

// ParseStrategy builds a strategy from the two command-line tokens: an
// algorithm tag (bfs, dfs, astr) and either a 4-permutation of UDLR or a
// heuristic tag (hamm, manh).
func ParseStrategy(alg, arg string) (Strategy, error) {
	switch alg {
	case "bfs", "dfs":
		order, err := puzzle.ParseOrder(arg)
		if err != nil {
			return Strategy{}, err
		}
		a := BFS
		if alg == "dfs" {
			a = DFS
		}
		return Strategy{Alg: a, Order: order}, nil
	case "astr":
		h, err := puzzle.ParseHeuristic(arg)
		if err != nil {
			return Strategy{}, err
		}
		// expansion order does not affect informed search; use the
		// canonical one
		return Strategy{Alg: AStar, Order: puzzle.Directions, Heuristic: h}, nil
	}
	return Strategy{}, fmt.Errorf("unknown algorithm %q, expected bfs, dfs or astr", alg)
}

func (s Strategy) String() string {
	if s.Alg == AStar {
		return s.Alg.String() + "/" + s.Heuristic.String()
	}
	return s.Alg.String() + "/" + puzzle.PathString(s.Order[:])
}
