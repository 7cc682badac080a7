// Package exact implements the number tower behind gosymsum: exact rationals
// over int64 in lowest terms, plus a float64 fallback.
//
// Mixed arithmetic always widens to Float; a Float never narrows back to a
// Rational. Rational arithmetic is exact: a result whose numerator or
// denominator does not fit in int64 panics with an error wrapping ErrOverflow
// instead of wrapping around.
package exact

import (
	"errors"
	"fmt"
)

var (
	// ErrDivisionByZero reports a zero denominator or an inverse of zero.
	ErrDivisionByZero = errors.New("division by zero")
	// ErrOverflow reports a rational result that does not fit in int64.
	ErrOverflow = errors.New("integer overflow")
)

// Number is either a Rational or a Float. Every operation is defined
// pairwise over the two variants.
type Number interface {
	Add(other Number) Number
	Sub(other Number) Number
	Mul(other Number) Number
	Div(other Number) Number
	Neg() Number
	Inverse() Number
	Pow(power int64) Number

	// Cmp returns -1, 0 or +1.
	Cmp(other Number) int
	CmpInt(other int64) int
	Sign() int

	IsZero() bool
	IsOne() bool
	IsWhole() bool
	WholePart() int64
	FractionalPart() Number
	Float64() float64

	// Key is a canonical string that distinguishes variants: Rational(1)
	// and Float(1) have different keys.
	Key() string
	String() string

	number()
}

// Equal reports whether a and b are the same variant with the same value.
func Equal(a, b Number) bool { return a.Key() == b.Key() }

// powBySquaring computes base^e for e >= 0.
func powBySquaring(base Number, e int64) Number {
	var result Number = One
	for e > 0 {
		if e&1 == 1 {
			result = result.Mul(base)
		}
		e >>= 1
		if e > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

func divisionByZero(format string, args ...any) error {
	return fmt.Errorf("exact: "+format+": %w", append(args, ErrDivisionByZero)...)
}
