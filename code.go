package entropy

import (
	"fmt"
	"strconv"
)

// maxBitsPerCode bounds the length of any single code, since Code stores its
// bits in a uint32.
const maxBitsPerCode = 32

// Code represents a sequence of bits.
type Code struct {
	// Size holds the number of valid bits.
	Size byte

	// Bits holds the actual values of the bits.  The most significant
	// valid bit of Bits is the first bit, which is also the order in
	// which bits appear on the wire.
	Bits uint32
}

// MakeCode is a convenience function that constructs a Code.
func MakeCode(size byte, bits uint32) Code {
	return Code{Size: size, Bits: bits}
}

// Append returns the Code obtained by appending one more bit.
func (hc Code) Append(bit byte) Code {
	return MakeCode(hc.Size+1, hc.Bits<<1|uint32(bit&1))
}

// String returns the string representation of this Code.
func (hc Code) String() string {
	if hc.Size == 0 {
		return "\"\""
	}
	format := "%0" + strconv.FormatUint(uint64(hc.Size), 10) + "b"
	return strconv.Quote(fmt.Sprintf(format, hc.Bits))
}

var _ fmt.Stringer = Code{}
