package gosymsum

import (
	"fmt"
	"sync"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Bernoulli numbers and polynomials
// ============================================================

// bernoulliNumbers memoizes Bₙ for even n. Entries are grouped by n mod 6
// and each residue class is filled contiguously up to highest[n%6].
var bernoulliNumbers = struct {
	sync.Mutex
	cache   map[int64]exact.Rational
	highest map[int64]int64
}{
	cache: map[int64]exact.Rational{
		0: exact.One,
		2: exact.NewRational(1, 6),
		4: exact.NewRational(-1, 30),
	},
	highest: map[int64]int64{0: 0, 2: 2, 4: 4},
}

// Bernoulli returns the Bernoulli number Bₙ when x is nil, and the Bernoulli
// polynomial Bₙ(x) = Σₖ C(n,k)·Bₖ·x^(n-k) otherwise. B₁ is -1/2.
func Bernoulli(n int64, x Symbolic) Symbolic {
	if n < 0 {
		panic(fmt.Errorf("gosymsum: bernoulli(%d): negative index: %w", n, ErrInvalidRange))
	}
	if x == nil {
		return Const{BernoulliNumber(n)}
	}
	switch n {
	case 0:
		return One
	case 1:
		return Sub(x, Const{exact.Half})
	}
	terms := make([]Symbolic, 0, n+1)
	for k := int64(0); k <= n; k++ {
		b := BernoulliNumber(k)
		if b.IsZero() {
			continue
		}
		coeff := Const{exact.Int(exact.Binomial(n, k)).Mul(b)}
		if k == n {
			terms = append(terms, coeff)
			continue
		}
		terms = append(terms, ProductOf(coeff, PowInt(x, n-k)))
	}
	return SumOf(terms...)
}

// BernoulliNumber returns Bₙ as an exact rational.
func BernoulliNumber(n int64) exact.Rational {
	switch {
	case n < 0:
		panic(fmt.Errorf("gosymsum: bernoulli(%d): negative index: %w", n, ErrInvalidRange))
	case n == 1:
		return exact.NewRational(-1, 2)
	case n%2 == 1:
		return exact.Zero
	}
	residue := n % 6

	bernoulliNumbers.Lock()
	highest := bernoulliNumbers.highest[residue]
	if n <= highest {
		v := bernoulliNumbers.cache[n]
		bernoulliNumbers.Unlock()
		return v
	}
	bernoulliNumbers.Unlock()

	log().Debug("bernoulli cache miss", "n", n, "from", highest+6)
	var b exact.Rational
	for i := highest + 6; i <= n; i += 6 {
		b = bernoulliRecurrence(i)
		bernoulliNumbers.Lock()
		bernoulliNumbers.cache[i] = b
		if i > bernoulliNumbers.highest[residue] {
			bernoulliNumbers.highest[residue] = i
		}
		bernoulliNumbers.Unlock()
	}
	return b
}

// bernoulliRecurrence computes Bₙ = -1/(n+1) · Σ_{k<n} C(n+1,k)·Bₖ from the
// cached lower numbers. It never consults the cache entry for n itself.
func bernoulliRecurrence(n int64) exact.Rational {
	var acc exact.Number = exact.Zero
	for k := int64(0); k < n; k++ {
		bk := BernoulliNumber(k)
		if bk.IsZero() {
			continue
		}
		acc = acc.Add(exact.Int(exact.Binomial(n+1, k)).Mul(bk))
	}
	return acc.Div(exact.Int(-(n + 1))).(exact.Rational)
}
