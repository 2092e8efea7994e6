package entropy

import (
	"math"

	"github.com/pkg/errors"
)

// Symbol represents a symbol in an arbitrary alphabet.  Negative symbols are
// not valid.
type Symbol int32

// MaxSymbol is the maximum valid symbol.
const MaxSymbol = Symbol(math.MaxInt32)

// InvalidSymbol is returned by some functions to clearly indicate that no
// symbol is being returned.
const InvalidSymbol = Symbol(-1)

// checkSymbol returns ErrUnknownSymbol unless s belongs to an alphabet of
// the given size.
func checkSymbol(s Symbol, alphabetSize int) error {
	if s < 0 || int64(s) >= int64(alphabetSize) {
		return errors.Wrapf(ErrUnknownSymbol, "symbol %d, alphabet size %d", s, alphabetSize)
	}
	return nil
}
