package entropy

import (
	"github.com/pkg/errors"
)

// Errors reported by the coders.  Each is the root cause of every failure of
// its kind; callers can test with errors.Is or github.com/pkg/errors.Cause.
var (
	// ErrInvalidDistribution indicates a probability table with negative
	// values or values that do not sum to 1.
	ErrInvalidDistribution = errors.New("entropy: invalid probability distribution")

	// ErrUnknownSymbol indicates a symbol outside the alphabet of the
	// table or tree in use.
	ErrUnknownSymbol = errors.New("entropy: symbol outside alphabet")

	// ErrTruncatedStream indicates that the input ran out before the
	// expected number of symbols had been decoded.
	ErrTruncatedStream = errors.New("entropy: truncated bit stream")

	// ErrCorruptTree indicates a malformed code tree, such as an internal
	// node with exactly one child.
	ErrCorruptTree = errors.New("entropy: corrupt code tree")

	// ErrArithmeticOverflow indicates that the arithmetic coder's
	// frequency scale cannot represent the distribution at the chosen
	// precision.
	ErrArithmeticOverflow = errors.New("entropy: arithmetic coder overflow")

	// ErrZeroProbability indicates an attempt to encode a symbol whose
	// coded probability is zero.
	ErrZeroProbability = errors.New("entropy: symbol has zero coded probability")
)
