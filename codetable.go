package entropy

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// CodeTable maps each symbol of the alphabet to its prefix-free code.  A
// CodeTable is immutable once built and safe for concurrent use.
type CodeTable struct {
	codes   []Code
	minSize byte
	maxSize byte
}

// NewCodeTable derives the code table from a tree built by BuildTree.  It
// walks the tree depth-first, appending the bit 0 on each descent into a
// left child and 1 into a right child, and records the accumulated path on
// reaching each leaf.  A single-leaf tree is assigned the one-bit code "0".
//
// The table is prefix-free by construction, and under BuildTree's tie-break
// no symbol receives a strictly longer code than a less probable one.
func NewCodeTable(root *Node) (*CodeTable, error) {
	if root == nil {
		return nil, errors.Wrap(ErrCorruptTree, "empty tree")
	}
	t := &CodeTable{}
	if root.IsLeaf() {
		if err := t.record(root.Symbol, MakeCode(1, 0)); err != nil {
			return nil, err
		}
		return t, nil
	}
	if err := t.walk(root, Code{}); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *CodeTable) walk(n *Node, path Code) error {
	if n.IsLeaf() {
		return t.record(n.Symbol, path)
	}
	if n.Left == nil || n.Right == nil {
		return errors.Wrap(ErrCorruptTree, "internal node with exactly one child")
	}
	if path.Size >= maxBitsPerCode {
		return errors.Wrapf(ErrCorruptTree, "code longer than %d bits", maxBitsPerCode)
	}
	if err := t.walk(n.Left, path.Append(0)); err != nil {
		return err
	}
	return t.walk(n.Right, path.Append(1))
}

func (t *CodeTable) record(s Symbol, hc Code) error {
	if s < 0 {
		return errors.Wrapf(ErrCorruptTree, "leaf carries invalid symbol %d", s)
	}
	if int(s) >= len(t.codes) {
		grown := make([]Code, int(s)+1)
		copy(grown, t.codes)
		t.codes = grown
	}
	if t.codes[s].Size != 0 {
		return errors.Wrapf(ErrCorruptTree, "symbol %d appears on two leaves", s)
	}
	t.codes[s] = hc
	if t.minSize == 0 || hc.Size < t.minSize {
		t.minSize = hc.Size
	}
	if hc.Size > t.maxSize {
		t.maxSize = hc.Size
	}
	return nil
}

// Code returns the code assigned to symbol s.  The zero Code (Size 0) is
// returned for symbols outside the table's domain.
func (t *CodeTable) Code(s Symbol) Code {
	if s < 0 || int(s) >= len(t.codes) {
		return Code{}
	}
	return t.codes[s]
}

// MinSize is the bit length of the shortest assigned code.
func (t *CodeTable) MinSize() byte {
	return t.minSize
}

// MaxSize is the bit length of the longest assigned code.
func (t *CodeTable) MaxSize() byte {
	return t.maxSize
}

// MaxSymbol is the last Symbol in the table's alphabet.
//
// (The first Symbol in the table's alphabet is always 0.)
//
func (t *CodeTable) MaxSymbol() Symbol {
	return Symbol(len(t.codes)) - 1
}

// Dump writes a programmer-readable debugging dump of the CodeTable's
// contents to the given writer.
func (t *CodeTable) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("CodeTable{\n")
	fmt.Fprintf(&buf, "\tMinSize() = %d\n", t.minSize)
	fmt.Fprintf(&buf, "\tMaxSize() = %d\n", t.maxSize)
	numSymbols := Symbol(len(t.codes))
	for symbol := Symbol(0); symbol < numSymbols; symbol++ {
		hc := t.codes[symbol]
		if hc.Size == 0 {
			fmt.Fprintf(&buf, "\tCode(%d) = nil\n", symbol)
		} else {
			fmt.Fprintf(&buf, "\tCode(%d) = %s\n", symbol, hc)
		}
	}
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

// AvgCodeLen returns the expected code length of t under d, in bits per
// symbol.
func AvgCodeLen(d *Dist, t *CodeTable) float64 {
	var bits float64
	for s := Symbol(0); int(s) < d.Len(); s++ {
		bits += d.P(s) * float64(t.Code(s).Size)
	}
	return bits
}
