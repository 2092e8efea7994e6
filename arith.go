package entropy

import (
	"bytes"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

const (
	// arithBits is the precision of the interval bounds.
	arithBits = 32

	arithStateMax uint64 = 1<<arithBits - 1
	arithHalf     uint64 = 1 << (arithBits - 1)
	arithQuarter  uint64 = 1 << (arithBits - 2)

	// arithScaleBits fixes the total of the integer frequency table.  The
	// total must stay at or below arithQuarter, or a narrowed interval
	// could round a nonzero frequency down to an empty sub-range.
	arithScaleBits = 16
	arithScale     = 1 << arithScaleBits
)

// freqTable holds a Dist scaled to integer frequencies summing to
// arithScale, as cumulative boundaries: symbol s owns [cum[s], cum[s+1]).
// Every symbol with nonzero probability keeps a frequency of at least 1.
type freqTable struct {
	cum []uint64
}

func newFreqTable(d *Dist) (*freqTable, error) {
	m := d.Len()
	if m > arithScale {
		return nil, errors.Wrapf(ErrArithmeticOverflow, "%d symbols cannot share a frequency total of %d", m, arithScale)
	}

	freqs := make([]uint64, m)
	var sum uint64
	maxSym := 0
	for s := 0; s < m; s++ {
		p := d.P(Symbol(s))
		if p == 0 {
			continue
		}
		f := uint64(p*arithScale + 0.5)
		if f == 0 {
			// quantum: coded symbols keep a nonzero range
			f = 1
		}
		freqs[s] = f
		sum += f
		if f > freqs[maxSym] {
			maxSym = s
		}
	}
	if sum == 0 {
		return nil, errors.Wrap(ErrInvalidDistribution, "all probabilities are zero")
	}

	// fold the rounding residue into the most probable symbol
	delta := int64(arithScale) - int64(sum)
	if int64(freqs[maxSym])+delta <= 0 {
		return nil, errors.Wrapf(ErrArithmeticOverflow, "frequency scale %d too small for this distribution", arithScale)
	}
	freqs[maxSym] = uint64(int64(freqs[maxSym]) + delta)

	cum := make([]uint64, m+1)
	for s := 0; s < m; s++ {
		cum[s+1] = cum[s] + freqs[s]
	}
	return &freqTable{cum: cum}, nil
}

func (ft *freqTable) numSymbols() int {
	return len(ft.cum) - 1
}

func (ft *freqTable) total() uint64 {
	return ft.cum[len(ft.cum)-1]
}

// find returns the symbol whose cumulative range contains target.  Ties on
// equal boundaries resolve past zero-width ranges, so a symbol with zero
// frequency is never returned.
func (ft *freqTable) find(target uint64) Symbol {
	lo, hi := 0, len(ft.cum)-1
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if ft.cum[mid] <= target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Symbol(lo)
}

// ArithmeticEncoder narrows a fixed-precision interval [low, high] over the
// distribution's cumulative frequency table, one symbol at a time.  Bits
// are emitted whenever the top bits of low and high agree; when the bounds
// straddle the midpoint without agreeing, the decision is deferred by
// counting pending bits, which prevents the interval from collapsing under
// finite precision.
type ArithmeticEncoder struct {
	w       *bitWriter
	ft      *freqTable
	low     uint64
	high    uint64
	pending int
}

// NewArithmeticEncoder returns an encoder for d that writes packed bytes to
// w.  The decoder must be constructed from the same distribution.
func NewArithmeticEncoder(w io.Writer, d *Dist) (*ArithmeticEncoder, error) {
	ft, err := newFreqTable(d)
	if err != nil {
		return nil, err
	}
	return &ArithmeticEncoder{w: newBitWriter(w), ft: ft, high: arithStateMax}, nil
}

// WriteSymbol narrows the interval to the sub-range of s and emits any bits
// that become unambiguous.
func (e *ArithmeticEncoder) WriteSymbol(s Symbol) error {
	if err := checkSymbol(s, e.ft.numSymbols()); err != nil {
		return err
	}
	symLow, symHigh := e.ft.cum[s], e.ft.cum[s+1]
	if symLow == symHigh {
		return errors.Wrapf(ErrZeroProbability, "symbol %d", s)
	}

	total := e.ft.total()
	span := e.high - e.low + 1
	e.high = e.low + span*symHigh/total - 1
	e.low = e.low + span*symLow/total

	for {
		if e.high < arithHalf {
			if err := e.emit(0); err != nil {
				return err
			}
		} else if e.low >= arithHalf {
			if err := e.emit(1); err != nil {
				return err
			}
			e.low -= arithHalf
			e.high -= arithHalf
		} else if e.low >= arithQuarter && e.high < 3*arithQuarter {
			e.pending++
			e.low -= arithQuarter
			e.high -= arithQuarter
		} else {
			break
		}
		e.low = (e.low << 1) & arithStateMax
		e.high = ((e.high << 1) & arithStateMax) | 1
	}
	return nil
}

// emit writes bit followed by the deferred complementary bits, if any.
func (e *ArithmeticEncoder) emit(bit byte) error {
	if err := e.w.WriteBit(bit); err != nil {
		return err
	}
	for e.pending > 0 {
		if err := e.w.WriteBit(bit ^ 1); err != nil {
			return err
		}
		e.pending--
	}
	return nil
}

// Close emits enough bits to disambiguate the final interval and zero-pads
// the last byte.  The encoder must not be used afterwards.
func (e *ArithmeticEncoder) Close() error {
	e.pending++
	if e.low < arithQuarter {
		if err := e.emit(0); err != nil {
			return err
		}
	} else {
		if err := e.emit(1); err != nil {
			return err
		}
	}
	return e.w.Flush()
}

// ArithmeticDecoder mirrors the encoder's interval evolution, tracking the
// running code value read from the input in lockstep with the encoder's
// emission points.  The byte stream carries no terminator; the caller must
// stop after the number of symbols originally encoded.
type ArithmeticDecoder struct {
	r     *bitReader
	ft    *freqTable
	low   uint64
	high  uint64
	value uint64
	err   error
}

// NewArithmeticDecoder returns a decoder for d that reads packed bytes from
// r, priming the running code value with the first arithBits bits.  A
// stream shorter than that is zero-extended, mirroring the encoder's final
// padding.
func NewArithmeticDecoder(r io.Reader, d *Dist) (*ArithmeticDecoder, error) {
	ft, err := newFreqTable(d)
	if err != nil {
		return nil, err
	}
	dec := &ArithmeticDecoder{r: newBitReader(r), ft: ft, high: arithStateMax}
	for i := 0; i < arithBits; i++ {
		dec.value = dec.value<<1 | uint64(dec.nextBit())
	}
	if dec.err != nil {
		return nil, dec.err
	}
	return dec, nil
}

// nextBit returns the next stream bit, or 0 once the stream is exhausted;
// the encoder's trailing padding is all zeros.  Genuine read failures are
// latched in d.err.
func (d *ArithmeticDecoder) nextBit() byte {
	bit, err := d.r.ReadBit()
	if err != nil {
		if errors.Cause(err) != io.EOF {
			d.err = err
		}
		return 0
	}
	return bit
}

// ReadSymbol decodes and returns the next symbol.
func (d *ArithmeticDecoder) ReadSymbol() (Symbol, error) {
	total := d.ft.total()
	span := d.high - d.low + 1
	target := ((d.value-d.low+1)*total - 1) / span
	s := d.ft.find(target)
	symLow, symHigh := d.ft.cum[s], d.ft.cum[s+1]

	d.high = d.low + span*symHigh/total - 1
	d.low = d.low + span*symLow/total

	for {
		if d.high < arithHalf {
			// top bits agree on 0
		} else if d.low >= arithHalf {
			d.low -= arithHalf
			d.high -= arithHalf
			d.value -= arithHalf
		} else if d.low >= arithQuarter && d.high < 3*arithQuarter {
			d.low -= arithQuarter
			d.high -= arithQuarter
			d.value -= arithQuarter
		} else {
			break
		}
		d.low = (d.low << 1) & arithStateMax
		d.high = ((d.high << 1) & arithStateMax) | 1
		d.value = ((d.value << 1) & arithStateMax) | uint64(d.nextBit())
	}
	if d.err != nil {
		return InvalidSymbol, d.err
	}
	return s, nil
}

// ArithmeticEncode encodes syms under d and returns the packed byte
// buffer.
func ArithmeticEncode(d *Dist, syms []Symbol) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := NewArithmeticEncoder(&buf, d)
	if err != nil {
		return nil, err
	}
	for _, s := range syms {
		if err := enc.WriteSymbol(s); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ArithmeticDecode decodes count symbols from data under d, which must be
// the distribution the data was encoded with.
func ArithmeticDecode(d *Dist, data []byte, count int) ([]Symbol, error) {
	assert.Assertf(count >= 0, "negative symbol count %d", count)
	dec, err := NewArithmeticDecoder(bytes.NewReader(data), d)
	if err != nil {
		return nil, err
	}
	out := make([]Symbol, 0, count)
	for i := 0; i < count; i++ {
		s, err := dec.ReadSymbol()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}
