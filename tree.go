package entropy

import (
	"bytes"
	"container/heap"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Node is one node of a Huffman code tree.  A Node with no children is a
// leaf and carries a Symbol; an internal Node carries InvalidSymbol and owns
// both of its children exclusively.  Prob holds the probability mass of the
// whole subtree.
type Node struct {
	Symbol Symbol
	Prob   float64
	Left   *Node
	Right  *Node
}

// IsLeaf reports whether n has no children.
func (n *Node) IsLeaf() bool {
	return n.Left == nil && n.Right == nil
}

// BuildTree constructs an optimal prefix-code tree for d by repeatedly
// merging the two least probable entries of a working set initialized with
// one leaf per symbol.  Ties are broken deterministically: leaves sort by
// original symbol index, lower index first, and merged entries sort after
// all leaves in creation order.  The first entry popped from each pair
// becomes the left child.  The same distribution therefore always yields
// the same tree.
func BuildTree(d *Dist) *Node {
	m := d.Len()
	h := nodeHeap{list: make([]heapEntry, 0, m)}
	for s := Symbol(0); int(s) < m; s++ {
		h.list = append(h.list, heapEntry{
			node:  &Node{Symbol: s, Prob: d.P(s)},
			order: int32(s),
		})
	}
	h.Init()

	order := int32(m)
	for h.Len() > 1 {
		a := heap.Pop(&h).(heapEntry)
		b := heap.Pop(&h).(heapEntry)
		parent := &Node{
			Symbol: InvalidSymbol,
			Prob:   a.node.Prob + b.node.Prob,
			Left:   a.node,
			Right:  b.node,
		}
		heap.Push(&h, heapEntry{node: parent, order: order})
		order++
	}
	return heap.Pop(&h).(heapEntry).node
}

// Dump writes a programmer-readable debugging dump of the tree to the given
// writer.  Each line shows the path from the root (0 = left, 1 = right),
// the node kind, and the subtree probability.
func (n *Node) Dump(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.WriteString("Tree{\n")
	n.dump(&buf, Code{})
	buf.WriteString("}\n")
	return buf.WriteTo(w)
}

func (n *Node) dump(buf *bytes.Buffer, path Code) {
	if n.IsLeaf() {
		fmt.Fprintf(buf, "\t%s = Leaf(%d) p=%g\n", path, n.Symbol, n.Prob)
		return
	}
	fmt.Fprintf(buf, "\t%s = Internal p=%g\n", path, n.Prob)
	if n.Left != nil {
		n.Left.dump(buf, path.Append(0))
	}
	if n.Right != nil {
		n.Right.dump(buf, path.Append(1))
	}
}

// MarshalBinary encodes the shape of the tree and its leaf symbols so that
// the exact tree used at encode time can be persisted alongside the coded
// stream.  The form is preorder: an internal node is the bit 1 followed by
// both children, a leaf is the bit 0 followed by its symbol in 32 bits.
// Probabilities are not preserved.
func (n *Node) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	bw := newBitWriter(&buf)
	if err := n.marshal(bw); err != nil {
		return nil, err
	}
	if err := bw.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (n *Node) marshal(bw *bitWriter) error {
	if n.IsLeaf() {
		if n.Symbol < 0 {
			return errors.Wrapf(ErrCorruptTree, "leaf carries invalid symbol %d", n.Symbol)
		}
		if err := bw.WriteBit(0); err != nil {
			return err
		}
		return bw.WriteBits(uint32(n.Symbol), 32)
	}
	if n.Left == nil || n.Right == nil {
		return errors.Wrap(ErrCorruptTree, "internal node with exactly one child")
	}
	if err := bw.WriteBit(1); err != nil {
		return err
	}
	if err := n.Left.marshal(bw); err != nil {
		return err
	}
	return n.Right.marshal(bw)
}

// UnmarshalTree reconstructs a tree written by MarshalBinary.  The result
// carries zero probabilities; it is sufficient for decoding.
func UnmarshalTree(data []byte) (*Node, error) {
	return unmarshalNode(newBitReader(bytes.NewReader(data)))
}

func unmarshalNode(br *bitReader) (*Node, error) {
	bit, err := br.ReadBit()
	if err != nil {
		return nil, errors.Wrap(ErrTruncatedStream, "tree form ends mid-node")
	}
	if bit == 0 {
		value, err := br.ReadBits(32)
		if err != nil {
			return nil, errors.Wrap(ErrTruncatedStream, "tree form ends mid-symbol")
		}
		if value > uint32(MaxSymbol) {
			return nil, errors.Wrapf(ErrCorruptTree, "symbol %d out of range", value)
		}
		return &Node{Symbol: Symbol(value)}, nil
	}
	left, err := unmarshalNode(br)
	if err != nil {
		return nil, err
	}
	right, err := unmarshalNode(br)
	if err != nil {
		return nil, err
	}
	return &Node{Symbol: InvalidSymbol, Left: left, Right: right}, nil
}

// type heapEntry + type nodeHeap {{{

type heapEntry struct {
	node  *Node
	order int32
}

type nodeHeap struct {
	list []heapEntry
}

func (h *nodeHeap) Init() {
	heap.Init(h)
}

func (h *nodeHeap) Len() int {
	return len(h.list)
}

func (h *nodeHeap) Swap(i, j int) {
	h.list[i], h.list[j] = h.list[j], h.list[i]
}

func (h *nodeHeap) Less(i, j int) bool {
	a, b := h.list[i], h.list[j]
	if a.node.Prob != b.node.Prob {
		return a.node.Prob < b.node.Prob
	}
	return a.order < b.order
}

func (h *nodeHeap) Push(x interface{}) {
	h.list = append(h.list, x.(heapEntry))
}

func (h *nodeHeap) Pop() interface{} {
	last := len(h.list) - 1
	x := h.list[last]
	h.list = h.list[:last]
	return x
}

var _ heap.Interface = (*nodeHeap)(nil)

// }}}
