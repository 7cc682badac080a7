package exact

import (
	"fmt"
	"sync"
)

// GCD returns the greatest common divisor of |a| and |b|; GCD(0, 0) == 0.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

type binomialKey struct{ n, k int64 }

var binomials = struct {
	sync.Mutex
	cache map[binomialKey]int64
}{cache: map[binomialKey]int64{}}

// Binomial returns C(n, k), memoized process-wide. Out-of-range k yields 0.
// Values that do not fit in int64 panic with ErrOverflow.
func Binomial(n, k int64) int64 {
	if n < 0 {
		panic(fmt.Errorf("exact: binomial(%d, %d): negative n", n, k))
	}
	if k < 0 || k > n {
		return 0
	}
	key := binomialKey{n, k}

	binomials.Lock()
	v, ok := binomials.cache[key]
	binomials.Unlock()
	if ok {
		return v
	}

	v = binomialUncached(n, k)

	binomials.Lock()
	binomials.cache[key] = v
	binomials.Unlock()
	return v
}

func binomialUncached(n, k int64) int64 {
	switch {
	case k == 0 || k == n:
		return 1
	case k == 1 || k == n-1:
		return n
	case k > n/2:
		return Binomial(n, n-k)
	}
	// C(n, k) = C(n-1, k-1) * n / k
	return NewRational(Binomial(n-1, k-1), k).Mul(Int(n)).WholePart()
}
