package entropy

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/pkg/errors"
)

// Two symbols with h = [0.1, 0.9]: both get one-bit codes, the lower index
// popping first and taking the left branch, so the encoding of
// [0, 0, 0, 1, 0] is the five bits 00010 packed MSB-first into one byte.
func TestHuffman_TwoSymbolScenario(t *testing.T) {
	d := mustDist(t, []float64{0.1, 0.9})
	root := BuildTree(d)
	table, err := NewCodeTable(root)
	if err != nil {
		t.Fatalf("NewCodeTable failed: %v", err)
	}

	if hc := table.Code(0); hc != MakeCode(1, 0) {
		t.Errorf("wrong code for symbol 0: expect \"0\", actual %s", hc)
	}
	if hc := table.Code(1); hc != MakeCode(1, 1) {
		t.Errorf("wrong code for symbol 1: expect \"1\", actual %s", hc)
	}

	syms := []Symbol{0, 0, 0, 1, 0}
	encoded, err := HuffmanEncode(table, syms)
	if err != nil {
		t.Fatalf("HuffmanEncode failed: %v", err)
	}
	expectBytes := []byte{0x10}
	if !bytes.Equal(expectBytes, encoded) {
		t.Errorf("wrong encoding:\n\texpect: %#v\n\tactual: %#v", expectBytes, encoded)
	}

	decoded, err := HuffmanDecode(root, encoded, len(syms))
	if err != nil {
		t.Fatalf("HuffmanDecode failed: %v", err)
	}
	if !symbolsEqual(syms, decoded) {
		t.Errorf("wrong round trip:\n\texpect: %v\n\tactual: %v", syms, decoded)
	}
}

func TestHuffman_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for trial := 0; trial < 50; trial++ {
		m := 2 + rng.Intn(40)
		d := randomDist(rng, m)
		root := BuildTree(d)
		table, err := NewCodeTable(root)
		if err != nil {
			t.Fatalf("trial %d: NewCodeTable failed: %v", trial, err)
		}

		syms := make([]Symbol, 1+rng.Intn(200))
		for i := range syms {
			syms[i] = Symbol(rng.Intn(m))
		}

		encoded, err := HuffmanEncode(table, syms)
		if err != nil {
			t.Fatalf("trial %d: HuffmanEncode failed: %v", trial, err)
		}
		decoded, err := HuffmanDecode(root, encoded, len(syms))
		if err != nil {
			t.Fatalf("trial %d: HuffmanDecode failed: %v", trial, err)
		}
		if !symbolsEqual(syms, decoded) {
			t.Fatalf("trial %d: wrong round trip:\n\texpect: %v\n\tactual: %v", trial, syms, decoded)
		}
	}
}

func TestHuffman_SingleSymbol(t *testing.T) {
	d := mustDist(t, []float64{1})
	root := BuildTree(d)
	table, err := NewCodeTable(root)
	if err != nil {
		t.Fatalf("NewCodeTable failed: %v", err)
	}

	syms := []Symbol{0, 0, 0}
	encoded, err := HuffmanEncode(table, syms)
	if err != nil {
		t.Fatalf("HuffmanEncode failed: %v", err)
	}
	if len(encoded) != 1 {
		t.Errorf("wrong encoded length: expect 1 byte, actual %d", len(encoded))
	}
	decoded, err := HuffmanDecode(root, encoded, len(syms))
	if err != nil {
		t.Fatalf("HuffmanDecode failed: %v", err)
	}
	if !symbolsEqual(syms, decoded) {
		t.Errorf("wrong round trip:\n\texpect: %v\n\tactual: %v", syms, decoded)
	}
}

func TestHuffman_UnknownSymbol(t *testing.T) {
	table, err := NewCodeTable(BuildTree(mustDist(t, []float64{0.5, 0.5})))
	if err != nil {
		t.Fatalf("NewCodeTable failed: %v", err)
	}
	_, err = HuffmanEncode(table, []Symbol{0, 5})
	if err == nil {
		t.Fatalf("HuffmanEncode succeeded, expected error")
	}
	if errors.Cause(err) != ErrUnknownSymbol {
		t.Errorf("wrong cause: expect %v, actual %v", ErrUnknownSymbol, err)
	}
}

func TestHuffman_TruncatedStream(t *testing.T) {
	d := mustDist(t, []float64{0.1, 0.15, 0.4, 0.15, 0.2})
	root := BuildTree(d)
	table, err := NewCodeTable(root)
	if err != nil {
		t.Fatalf("NewCodeTable failed: %v", err)
	}

	syms := []Symbol{0, 1, 2, 3, 4, 0, 1, 2}
	encoded, err := HuffmanEncode(table, syms)
	if err != nil {
		t.Fatalf("HuffmanEncode failed: %v", err)
	}

	_, err = HuffmanDecode(root, encoded[:len(encoded)-1], len(syms))
	if err == nil {
		t.Fatalf("HuffmanDecode of truncated data succeeded, expected error")
	}
	if errors.Cause(err) != ErrTruncatedStream {
		t.Errorf("wrong cause: expect %v, actual %v", ErrTruncatedStream, err)
	}

	_, err = HuffmanDecode(root, nil, 1)
	if errors.Cause(err) != ErrTruncatedStream {
		t.Errorf("wrong cause for empty input: expect %v, actual %v", ErrTruncatedStream, err)
	}
}

func TestHuffmanDecoder_Streaming(t *testing.T) {
	d := mustDist(t, []float64{0.1, 0.15, 0.4, 0.15, 0.2})
	root := BuildTree(d)
	table, err := NewCodeTable(root)
	if err != nil {
		t.Fatalf("NewCodeTable failed: %v", err)
	}

	syms := []Symbol{2, 2, 0, 4, 1, 3, 2}
	var buf bytes.Buffer
	enc := NewHuffmanEncoder(&buf, table)
	for _, s := range syms {
		if err := enc.WriteSymbol(s); err != nil {
			t.Fatalf("WriteSymbol(%d) failed: %v", s, err)
		}
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	dec := NewHuffmanDecoder(&buf, root)
	for i, expect := range syms {
		actual, err := dec.ReadSymbol()
		if err != nil {
			t.Fatalf("ReadSymbol %d failed: %v", i, err)
		}
		if actual != expect {
			t.Errorf("wrong symbol %d: expect %d, actual %d", i, expect, actual)
		}
	}
}
