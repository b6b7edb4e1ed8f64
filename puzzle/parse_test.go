package puzzle

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/matryer/is"
)

func TestFromFile(t *testing.T) {
	is := is.New(t)
	p, err := FromFile("testdata/3x3_one_move.txt")
	is.NoErr(err)
	is.Equal(p.Width(), 3)
	is.Equal(p.Height(), 3)
	is.Equal(p.Cell(2, 1), uint8(0))
	is.Equal(p.Cell(2, 2), uint8(6))
	is.True(p.HasBlank())
}

func TestFromFileNotFound(t *testing.T) {
	is := is.New(t)
	_, err := FromFile("testdata/does_not_exist.txt")
	is.True(errors.Is(err, ErrNotFound))
}

func TestFromFileEmpty(t *testing.T) {
	is := is.New(t)
	_, err := FromFile("testdata/empty.txt")
	is.True(errors.Is(err, ErrEmpty))
}

func TestParseEmptyVersusBlankLine(t *testing.T) {
	is := is.New(t)
	_, err := Parse(strings.NewReader(""))
	is.True(errors.Is(err, ErrEmpty))

	// a present-but-blank first line is corrupt, not empty
	_, err = Parse(strings.NewReader("\n"))
	is.True(errors.Is(err, ErrCorrupt))
}

func TestParseCorrupt(t *testing.T) {
	is := is.New(t)
	cases := []string{
		"3\n1 2 3\n",         // missing width
		"x 3\n1 2 3\n",       // unparseable height
		"3 y\n1 2 3\n",       // unparseable width
		"0 3\n",              // zero dimension
		"20 20\n",            // more cells than a uint8 can label
		"2 2\n1 2\n3 oops\n", // unparseable cell token
		"2 2\n1 2\n3\n",      // too few cells
		"2 2\n1 2\n3 0 4\n",  // too many cells
		"2 2\n1 2\n3 999\n",  // cell value past 8 bits
		"2 2\n0 2\n3 9\n",    // label outside the grid
		"2 2\n0 2\n2 3\n",    // duplicate label
	}
	for _, in := range cases {
		_, err := Parse(strings.NewReader(in))
		is.True(errors.Is(err, ErrCorrupt)) // in
	}
}

func TestParseGridWithoutBlank(t *testing.T) {
	is := is.New(t)
	// a full grid of distinct in-range labels always holds the 0, so a
	// blankless description cannot satisfy the label invariant
	_, err := Parse(strings.NewReader("2 2\n1 2\n3 4\n"))
	is.True(errors.Is(err, ErrCorrupt))
}

func TestFromFileMultiDigitLabels(t *testing.T) {
	is := is.New(t)
	p, err := FromFile("testdata/4x4_solved.txt")
	is.NoErr(err)
	is.True(p.IsSolved())
	is.Equal(p.Cell(2, 3), uint8(15))
}

func TestFromFileDoesNotCheckSolvability(t *testing.T) {
	is := is.New(t)
	// parsing accepts any tile permutation; whether a path to the goal
	// exists is the search's concern
	p, err := FromFile("testdata/3x3_unsolvable.txt")
	is.NoErr(err)
	is.True(p.HasBlank())
	is.True(!p.IsSolved())
}

func TestParseStripsByteOrderMark(t *testing.T) {
	is := is.New(t)
	p, err := Parse(strings.NewReader("\uFEFF2 2\n1 2\n3 0\n"))
	is.NoErr(err)
	is.True(p.IsSolved())
}

func TestParseUTF16(t *testing.T) {
	is := is.New(t)
	var buf bytes.Buffer
	buf.Write([]byte{0xff, 0xfe}) // UTF-16LE byte order mark
	for _, r := range "2 2\n1 2\n3 0\n" {
		buf.WriteByte(byte(r))
		buf.WriteByte(0)
	}
	p, err := Parse(&buf)
	is.NoErr(err)
	is.True(p.IsSolved())
}

func TestParseSingleLineCells(t *testing.T) {
	is := is.New(t)
	// cell values are a whitespace token stream; line breaks are not
	// significant past the first line
	p, err := Parse(strings.NewReader("3 3\n1 2 3 4 5 6 7 8 0\n"))
	is.NoErr(err)
	is.True(p.IsSolved())
}
