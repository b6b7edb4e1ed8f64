package puzzle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Loading a puzzle description distinguishes three failure classes so a
// caller can report them separately. Wrapped details ride along via %w.
var (
	ErrNotFound = errors.New("puzzle file not found")
	ErrEmpty    = errors.New("puzzle file is empty")
	ErrCorrupt  = errors.New("puzzle file is corrupt")
)

// FromFile loads a puzzle description. The first line holds the height and
// width; the rest of the file holds height*width whitespace-separated cell
// values, row-major, with 0 marking the blank.
func FromFile(path string) (*Puzzle, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads a puzzle description from a reader. Input may carry a byte
// order mark; UTF-16 text is decoded transparently. Cell syntax, the cell
// count and the label invariant are all enforced here under ErrCorrupt.
func Parse(r io.Reader) (*Puzzle, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
	scanner := bufio.NewScanner(decoded)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return nil, ErrEmpty
	}
	fields := strings.Fields(scanner.Text())
	if len(fields) < 2 {
		return nil, fmt.Errorf("%w: first line must hold height and width", ErrCorrupt)
	}
	height, err := strconv.Atoi(fields[0])
	if err != nil {
		return nil, fmt.Errorf("%w: bad height %q", ErrCorrupt, fields[0])
	}
	width, err := strconv.Atoi(fields[1])
	if err != nil {
		return nil, fmt.Errorf("%w: bad width %q", ErrCorrupt, fields[1])
	}
	if width < 1 || height < 1 || width*height > MaxCells {
		return nil, fmt.Errorf("%w: %dx%d grid out of range", ErrCorrupt, width, height)
	}

	n := width * height
	cells := make([]uint8, 0, n)
	for scanner.Scan() {
		for _, tok := range strings.Fields(scanner.Text()) {
			// 8-bit parse also rejects values no cell can hold.
			v, err := strconv.ParseUint(tok, 10, 8)
			if err != nil {
				return nil, fmt.Errorf("%w: bad cell value %q", ErrCorrupt, tok)
			}
			if len(cells) == n {
				return nil, fmt.Errorf("%w: more than %d cells", ErrCorrupt, n)
			}
			cells = append(cells, uint8(v))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	if len(cells) != n {
		return nil, fmt.Errorf("%w: got %d cells, want %d", ErrCorrupt, len(cells), n)
	}

	blank, err := checkCells(width, height, cells)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return &Puzzle{width: width, height: height, cells: cells, blank: blank}, nil
}
