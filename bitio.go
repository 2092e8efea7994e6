package entropy

import (
	"io"

	"github.com/pkg/errors"
)

// bitWriter packs bits into bytes, most significant bit first, and writes
// each completed byte to the underlying writer.
type bitWriter struct {
	w   io.Writer
	acc byte
	n   int
}

func newBitWriter(w io.Writer) *bitWriter {
	return &bitWriter{w: w}
}

func (bw *bitWriter) WriteBit(bit byte) error {
	bw.acc = bw.acc<<1 | (bit & 1)
	bw.n++
	if bw.n == 8 {
		if _, err := bw.w.Write([]byte{bw.acc}); err != nil {
			return errors.WithStack(err)
		}
		bw.acc = 0
		bw.n = 0
	}
	return nil
}

// WriteCode writes the valid bits of hc in wire order.
func (bw *bitWriter) WriteCode(hc Code) error {
	return bw.WriteBits(hc.Bits, int(hc.Size))
}

// WriteBits writes the n least significant bits of value, most significant
// of the n first.
func (bw *bitWriter) WriteBits(value uint32, n int) error {
	for i := n - 1; i >= 0; i-- {
		if err := bw.WriteBit(byte(value >> uint(i))); err != nil {
			return err
		}
	}
	return nil
}

// Flush zero-pads the final partial byte, if any, and writes it out.
func (bw *bitWriter) Flush() error {
	if bw.n == 0 {
		return nil
	}
	bw.acc <<= uint(8 - bw.n)
	if _, err := bw.w.Write([]byte{bw.acc}); err != nil {
		return errors.WithStack(err)
	}
	bw.acc = 0
	bw.n = 0
	return nil
}

// bitReader unpacks bits from bytes read from the underlying reader, most
// significant bit first.  Running out of bytes surfaces as io.EOF; callers
// translate that into their own error taxonomy.
type bitReader struct {
	r   io.Reader
	acc byte
	n   int
}

func newBitReader(r io.Reader) *bitReader {
	return &bitReader{r: r}
}

func (br *bitReader) ReadBit() (byte, error) {
	if br.n == 0 {
		var buf [1]byte
		if _, err := io.ReadFull(br.r, buf[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				return 0, io.EOF
			}
			return 0, errors.WithStack(err)
		}
		br.acc = buf[0]
		br.n = 8
	}
	br.n--
	return (br.acc >> uint(br.n)) & 1, nil
}

// ReadBits reads n bits and returns them with the first bit in the most
// significant of the n positions.
func (br *bitReader) ReadBits(n int) (uint32, error) {
	var value uint32
	for i := 0; i < n; i++ {
		bit, err := br.ReadBit()
		if err != nil {
			return 0, err
		}
		value = value<<1 | uint32(bit)
	}
	return value, nil
}
