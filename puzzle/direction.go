package puzzle

import (
	"fmt"
	"strings"
)

// A Direction names one of the four legal blank moves. The direction is
// where the blank travels; equivalently, the neighbouring tile slides into
// the blank from that side. Up/Down and Left/Right are mutual inverses.
type Direction uint8

const (
	Up Direction = iota
	Down
	Left
	Right
)

// Directions lists all four moves in canonical order.
var Directions = [4]Direction{Up, Down, Left, Right}

func (d Direction) String() string {
	switch d {
	case Up:
		return "Up"
	case Down:
		return "Down"
	case Left:
		return "Left"
	case Right:
		return "Right"
	}
	return "Unknown"
}

// Letter returns the single-letter code used in order strings and reports.
func (d Direction) Letter() byte {
	switch d {
	case Up:
		return 'U'
	case Down:
		return 'D'
	case Left:
		return 'L'
	case Right:
		return 'R'
	}
	return '?'
}

// Opposite returns the move that undoes this one.
func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	}
	return Left
}

// ParseDirection maps a single-letter code (case-insensitive) to a move.
func ParseDirection(c byte) (Direction, error) {
	switch c {
	case 'U', 'u':
		return Up, nil
	case 'D', 'd':
		return Down, nil
	case 'L', 'l':
		return Left, nil
	case 'R', 'r':
		return Right, nil
	}
	return Up, fmt.Errorf("%q is not a direction; use U, D, L or R", string(c))
}

// ParseOrder parses a neighbourhood order argument such as "LUDR". The
// string must be a permutation of all four direction letters; search
// strategies rely on every move appearing exactly once.
func ParseOrder(s string) ([4]Direction, error) {
	var order [4]Direction
	if len(s) != 4 {
		return order, fmt.Errorf("order %q must contain exactly four of U, D, L, R", s)
	}
	var seen [4]bool
	for i := 0; i < 4; i++ {
		d, err := ParseDirection(s[i])
		if err != nil {
			return order, fmt.Errorf("order %q: %w", s, err)
		}
		if seen[d] {
			return order, fmt.Errorf("order %q repeats direction %v", s, d)
		}
		seen[d] = true
		order[i] = d
	}
	return order, nil
}

// ParsePath parses a whole move-letter sequence, e.g. "LULDR".
func ParsePath(s string) ([]Direction, error) {
	path := make([]Direction, 0, len(s))
	for i := 0; i < len(s); i++ {
		d, err := ParseDirection(s[i])
		if err != nil {
			return nil, err
		}
		path = append(path, d)
	}
	return path, nil
}

// PathString renders a move sequence as its letter string, e.g. "LULDR".
func PathString(path []Direction) string {
	var sb strings.Builder
	sb.Grow(len(path))
	for _, d := range path {
		sb.WriteByte(d.Letter())
	}
	return sb.String()
}
