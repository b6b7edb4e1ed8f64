package puzzle

import "fmt"

// A Heuristic names an admissible distance estimate used to rank states
// in informed search.
type Heuristic uint8

const (
	// HeuristicNone tags uninformed strategies; its estimate is always 0.
	HeuristicNone Heuristic = iota
	// HeuristicHamming counts misplaced tiles.
	HeuristicHamming
	// HeuristicManhattan sums per-tile taxicab distances to goal.
	HeuristicManhattan
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicHamming:
		return "hamm"
	case HeuristicManhattan:
		return "manh"
	default:
		return "none"
	}
}

// ParseHeuristic maps the command-line heuristic tags to their metric.
func ParseHeuristic(s string) (Heuristic, error) {
	switch s {
	case "hamm":
		return HeuristicHamming, nil
	case "manh":
		return HeuristicManhattan, nil
	}
	return HeuristicNone, fmt.Errorf("unknown heuristic %q, expected hamm or manh", s)
}

// Estimate applies the metric to a grid.
func (h Heuristic) Estimate(p *Puzzle) int {
	switch h {
	case HeuristicHamming:
		return p.Hamming()
	case HeuristicManhattan:
		return p.Manhattan()
	default:
		return 0
	}
}

// Hamming returns the number of non-blank tiles not on their goal cell.
// The blank is never counted, which keeps the estimate admissible: a
// misplaced blank alone never needs an extra move.
func (p *Puzzle) Hamming() int {
	misplaced := 0
	for i, c := range p.cells {
		if c == 0 {
			continue
		}
		if int(c) != i+1 {
			misplaced++
		}
	}
	return misplaced
}

// Manhattan returns the sum over non-blank tiles of horizontal plus
// vertical distance from the tile's cell to its goal cell.
func (p *Puzzle) Manhattan() int {
	total := 0
	for i, c := range p.cells {
		if c == 0 {
			continue
		}
		gx, gy := p.GoalPosition(c)
		x, y := i%p.width, i/p.width
		dx := x - gx
		if dx < 0 {
			dx = -dx
		}
		dy := y - gy
		if dy < 0 {
			dy = -dy
		}
		total += dx + dy
	}
	return total
}
