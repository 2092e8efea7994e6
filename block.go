package entropy

import (
	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

// blockAlphabetMax caps the size of an extended alphabet.  Beyond this the
// joint probability table no longer fits comfortably in memory.
const blockAlphabetMax = 1 << 24

// extSize returns m**q, rejecting alphabets larger than blockAlphabetMax.
func extSize(m, q int) (int, error) {
	size := 1
	for i := 0; i < q; i++ {
		if size > blockAlphabetMax/m {
			return 0, errors.Wrapf(ErrInvalidDistribution, "extended alphabet %d**%d exceeds %d symbols", m, q, blockAlphabetMax)
		}
		size *= m
	}
	return size, nil
}

// Extend returns the distribution induced on blocks of q consecutive
// symbols, assuming consecutive symbols are independent: the probability of
// block symbol j = s_0 + s_1*m + ... + s_(q-1)*m**(q-1) is the product of
// the base probabilities of its digits.  The table is built by q-1 pairwise
// products, one digit position at a time.
//
// Grouping symbols amortizes the rounding loss of integer code lengths
// across the block, so Huffman coding over the extended alphabet approaches
// the entropy of the base distribution as q grows, at the cost of a table
// of m**q entries.
func (d *Dist) Extend(q int) (*Dist, error) {
	assert.Assertf(q >= 1, "block size %d < 1", q)
	m := d.Len()
	if _, err := extSize(m, q); err != nil {
		return nil, err
	}

	probs := make([]float64, m)
	copy(probs, d.probs)
	for i := 1; i < q; i++ {
		next := make([]float64, len(probs)*m)
		for s := 0; s < m; s++ {
			ps := d.probs[s]
			base := s * len(probs)
			for j, pj := range probs {
				next[base+j] = ps * pj
			}
		}
		probs = next
	}

	// the products of a validated table still sum to 1
	return &Dist{probs: probs}, nil
}

// PackBlocks re-codes syms over the extended alphabet of m-ary blocks of
// length q, mapping each group of q consecutive symbols to the single
// integer sum s_k*m**k.  A final incomplete group is padded with symbol 0;
// callers must retain the original sequence length and truncate after
// UnpackBlocks, since the padding decodes as ordinary symbols.
func PackBlocks(syms []Symbol, m, q int) ([]Symbol, error) {
	assert.Assertf(m >= 1, "alphabet size %d < 1", m)
	assert.Assertf(q >= 1, "block size %d < 1", q)
	if _, err := extSize(m, q); err != nil {
		return nil, err
	}

	out := make([]Symbol, 0, (len(syms)+q-1)/q)
	for base := 0; base < len(syms); base += q {
		var packed int64
		weight := int64(1)
		for k := 0; k < q; k++ {
			var s Symbol
			if base+k < len(syms) {
				s = syms[base+k]
			}
			if err := checkSymbol(s, m); err != nil {
				return nil, err
			}
			packed += int64(s) * weight
			weight *= int64(m)
		}
		out = append(out, Symbol(packed))
	}
	return out, nil
}

// UnpackBlocks reverses PackBlocks, emitting exactly count base symbols.
// count is the original sequence length; any padding beyond it is
// discarded.
func UnpackBlocks(packed []Symbol, m, q, count int) ([]Symbol, error) {
	assert.Assertf(m >= 1, "alphabet size %d < 1", m)
	assert.Assertf(q >= 1, "block size %d < 1", q)
	assert.Assertf(count >= 0, "negative symbol count %d", count)
	mq, err := extSize(m, q)
	if err != nil {
		return nil, err
	}
	if count > len(packed)*q {
		return nil, errors.Wrapf(ErrTruncatedStream, "%d blocks of %d symbols cannot hold %d symbols", len(packed), q, count)
	}

	out := make([]Symbol, 0, len(packed)*q)
	for _, p := range packed {
		if err := checkSymbol(p, mq); err != nil {
			return nil, err
		}
		v := int(p)
		for k := 0; k < q; k++ {
			out = append(out, Symbol(v%m))
			v /= m
		}
	}
	return out[:count], nil
}
