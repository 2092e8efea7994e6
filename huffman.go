package entropy

import (
	"bytes"
	"io"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// HuffmanEncoder writes symbols to an underlying writer as the
// concatenation of their codes, packed most significant bit first.  Close
// must be called to flush the zero-padded final byte.
type HuffmanEncoder struct {
	w     *bitWriter
	table *CodeTable
}

// NewHuffmanEncoder returns an encoder that writes codes from table to w.
func NewHuffmanEncoder(w io.Writer, table *CodeTable) *HuffmanEncoder {
	return &HuffmanEncoder{w: newBitWriter(w), table: table}
}

// WriteSymbol appends the code for s to the output stream.
func (e *HuffmanEncoder) WriteSymbol(s Symbol) error {
	hc := e.table.Code(s)
	if hc.Size == 0 {
		return errors.Wrapf(ErrUnknownSymbol, "symbol %d has no code", s)
	}
	return e.w.WriteCode(hc)
}

// Close flushes the final partial byte.  The number of padding bits is not
// recorded in the stream; decoding relies on the caller-supplied symbol
// count instead.
func (e *HuffmanEncoder) Close() error {
	return e.w.Flush()
}

// HuffmanDecoder reads symbols from an underlying reader by walking the
// code tree: from the root, each 0 bit descends left and each 1 bit
// descends right, and reaching a leaf emits its symbol.  The bit stream
// alone cannot distinguish trailing padding from real codes, so the caller
// must stop after the number of symbols originally encoded.
type HuffmanDecoder struct {
	r    *bitReader
	root *Node
}

// NewHuffmanDecoder returns a decoder that reads from r using the given
// tree, which must be the tree the stream was encoded with.
func NewHuffmanDecoder(r io.Reader, root *Node) *HuffmanDecoder {
	return &HuffmanDecoder{r: newBitReader(r), root: root}
}

// ReadSymbol decodes and returns the next symbol.
func (d *HuffmanDecoder) ReadSymbol() (Symbol, error) {
	n := d.root
	if n == nil {
		return InvalidSymbol, errors.Wrap(ErrCorruptTree, "empty tree")
	}
	if n.IsLeaf() {
		// single-symbol alphabet: each symbol occupies one bit
		if _, err := d.r.ReadBit(); err != nil {
			return InvalidSymbol, errors.Wrap(ErrTruncatedStream, "bit stream ended mid-code")
		}
		return n.Symbol, nil
	}
	for !n.IsLeaf() {
		if n.Left == nil || n.Right == nil {
			return InvalidSymbol, errors.Wrap(ErrCorruptTree, "internal node with exactly one child")
		}
		bit, err := d.r.ReadBit()
		if err != nil {
			return InvalidSymbol, errors.Wrap(ErrTruncatedStream, "bit stream ended mid-code")
		}
		if bit == 0 {
			n = n.Left
		} else {
			n = n.Right
		}
	}
	return n.Symbol, nil
}

// HuffmanEncode encodes syms with table and returns the packed byte
// buffer.
func HuffmanEncode(table *CodeTable, syms []Symbol) ([]byte, error) {
	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf, table)
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

// HuffmanDecode decodes count symbols from data using the tree the data
// was encoded with.
func HuffmanDecode(root *Node, data []byte, count int) ([]Symbol, error) {
	assert.Assertf(count >= 0, "negative symbol count %d", count)
	dec := NewHuffmanDecoder(bytes.NewReader(data), root)
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
