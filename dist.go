package entropy

import (
	"math"

	"github.com/chronos-tachyon/assert"
	"github.com/pkg/errors"
)

const (
	// distTolerance is the slack allowed when checking that probabilities
	// sum to 1.
	distTolerance = 1e-9

	// minLogArg is substituted for vanishing probabilities when taking
	// logarithms.  It never participates in normalization.
	minLogArg = 1e-20
)

// Dist is an immutable probability distribution over the alphabet
// 0 .. Len()-1.  A Dist is safe for concurrent use once constructed.
type Dist struct {
	probs []float64
}

// NewDist validates probs and returns the distribution it describes.  The
// values must be non-negative and sum to 1 within a small tolerance.
func NewDist(probs []float64) (*Dist, error) {
	if len(probs) == 0 {
		return nil, errors.Wrap(ErrInvalidDistribution, "no symbols")
	}
	if len(probs) > int(MaxSymbol) {
		return nil, errors.Wrapf(ErrInvalidDistribution, "%d symbols, max %d", len(probs), int(MaxSymbol))
	}

	var sum float64
	for s, p := range probs {
		if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
			return nil, errors.Wrapf(ErrInvalidDistribution, "probability %g for symbol %d", p, s)
		}
		sum += p
	}
	if math.Abs(sum-1) > distTolerance {
		return nil, errors.Wrapf(ErrInvalidDistribution, "probabilities sum to %v", sum)
	}

	d := &Dist{probs: make([]float64, len(probs))}
	copy(d.probs, probs)
	return d, nil
}

// Len returns the alphabet size.
func (d *Dist) Len() int {
	return len(d.probs)
}

// P returns the probability of symbol s.
func (d *Dist) P(s Symbol) float64 {
	assert.Assertf(s >= 0 && int(s) < len(d.probs), "symbol %d outside alphabet of size %d", s, len(d.probs))
	return d.probs[s]
}

// Probs returns a copy of the probability values.
func (d *Dist) Probs() []float64 {
	out := make([]float64, len(d.probs))
	copy(out, d.probs)
	return out
}

// Entropy returns the Shannon entropy of the distribution in bits per
// symbol.  Zero probabilities contribute nothing.
func (d *Dist) Entropy() float64 {
	var h float64
	for _, p := range d.probs {
		if p > 0 {
			h -= p * math.Log2(math.Max(p, minLogArg))
		}
	}
	return h
}
