package puzzle

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseOrder(t *testing.T) {
	is := is.New(t)
	order, err := ParseOrder("RDUL")
	is.NoErr(err)
	is.Equal(order, [4]Direction{Right, Down, Up, Left})

	// single-letter codes are case-insensitive
	order, err = ParseOrder("ludr")
	is.NoErr(err)
	is.Equal(order, [4]Direction{Left, Up, Down, Right})
}

func TestParseOrderRejectsNonPermutations(t *testing.T) {
	is := is.New(t)
	for _, s := range []string{"", "RDU", "RDULD", "RRDU", "XDUL", "RDUU"} {
		_, err := ParseOrder(s)
		is.True(err != nil) // s is not a permutation of UDLR
	}
}

func TestOpposite(t *testing.T) {
	is := is.New(t)
	is.Equal(Up.Opposite(), Down)
	is.Equal(Down.Opposite(), Up)
	is.Equal(Left.Opposite(), Right)
	is.Equal(Right.Opposite(), Left)
}

func TestPathRoundTrip(t *testing.T) {
	is := is.New(t)
	path := []Direction{Down, Right, Right, Up}
	is.Equal(PathString(path), "DRRU")

	parsed, err := ParsePath("DRRU")
	is.NoErr(err)
	is.Equal(parsed, path)

	_, err = ParsePath("DRQ")
	is.True(err != nil)
}
