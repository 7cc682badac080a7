package gosymsum

import (
	"fmt"
	"sync"

	"github.com/njchilds90/gosymsum/exact"
)

// harmonics holds, per order m, the prefix sums H(0,m), H(1,m), ...
var harmonics = struct {
	sync.Mutex
	cache map[int64][]exact.Rational
}{cache: map[int64][]exact.Rational{}}

// Harmonic returns the n-th harmonic number Hₙ = Σ_{i=1}^{n} 1/i.
func Harmonic(n int64) exact.Rational { return HarmonicOrder(n, 1) }

// HarmonicOrder returns the generalized harmonic number H(n,m) = Σ_{i=1}^{n} 1/i^m.
// Both n and m must be non-negative.
func HarmonicOrder(n, m int64) exact.Rational {
	switch {
	case n < 0:
		panic(fmt.Errorf("gosymsum: harmonic(%d, %d): negative n: %w", n, m, ErrInvalidRange))
	case m < 0:
		panic(fmt.Errorf("gosymsum: harmonic(%d, %d): negative order: %w", n, m, ErrInvalidRange))
	case n == 0:
		return exact.Zero
	case m == 0:
		return exact.Int(n)
	}

	harmonics.Lock()
	defer harmonics.Unlock()
	seq := harmonics.cache[m]
	if seq == nil {
		seq = []exact.Rational{exact.Zero}
	}
	for i := int64(len(seq)); i <= n; i++ {
		term := exact.Int(i).Pow(m).Inverse()
		seq = append(seq, seq[i-1].Add(term).(exact.Rational))
	}
	harmonics.cache[m] = seq
	return seq[n]
}
