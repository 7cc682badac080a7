package exact

import (
	"fmt"
	"math/big"
)

// Rational is an exact fraction num/den with den > 0 and gcd(|num|, den) == 1.
// The zero value is 0.
type Rational struct {
	num int64
	den int64
}

var (
	Zero = Rational{0, 1}
	One  = Rational{1, 1}
	Half = Rational{1, 2}
)

// NewRational reduces num/den to lowest terms. It panics with
// ErrDivisionByZero when den is zero.
func NewRational(num, den int64) Rational {
	if den == 0 {
		panic(divisionByZero("rational %d/0", num))
	}
	if small(num) && small(den) {
		return normalize(num, den)
	}
	return fromBig(new(big.Rat).SetFrac(big.NewInt(num), big.NewInt(den)))
}

// Int returns n/1.
func Int(n int64) Rational { return Rational{num: n, den: 1} }

func (r Rational) Num() int64 { return r.num }
func (r Rational) Den() int64 { return r.d() }

func (r Rational) d() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

func (r Rational) number() {}

// ============================================================
// Arithmetic
// ============================================================

func (r Rational) Add(other Number) Number {
	switch o := other.(type) {
	case Rational:
		return r.add(o)
	case Float:
		return Float(r.Float64()).Add(o)
	}
	panic(unknownNumber(other))
}

func (r Rational) Sub(other Number) Number {
	switch o := other.(type) {
	case Rational:
		return r.add(o.neg())
	case Float:
		return Float(r.Float64()).Sub(o)
	}
	panic(unknownNumber(other))
}

func (r Rational) Mul(other Number) Number {
	switch o := other.(type) {
	case Rational:
		return r.mul(o)
	case Float:
		return Float(r.Float64()).Mul(o)
	}
	panic(unknownNumber(other))
}

func (r Rational) Div(other Number) Number {
	switch o := other.(type) {
	case Rational:
		return r.mul(o.inverse())
	case Float:
		return Float(r.Float64()).Div(o)
	}
	panic(unknownNumber(other))
}

func (r Rational) Neg() Number     { return r.neg() }
func (r Rational) Inverse() Number { return r.inverse() }

// Pow raises r to an integer power by repeated squaring. A negative power
// inverts the result, so 0^-n panics with ErrDivisionByZero.
func (r Rational) Pow(power int64) Number {
	if power < 0 {
		return powBySquaring(r, -power).Inverse()
	}
	return powBySquaring(r, power)
}

func (r Rational) add(o Rational) Rational {
	if small(r.num) && small(r.d()) && small(o.num) && small(o.d()) {
		return normalize(r.num*o.d()+o.num*r.d(), r.d()*o.d())
	}
	return fromBig(new(big.Rat).Add(r.rat(), o.rat()))
}

func (r Rational) mul(o Rational) Rational {
	if small(r.num) && small(r.d()) && small(o.num) && small(o.d()) {
		return normalize(r.num*o.num, r.d()*o.d())
	}
	return fromBig(new(big.Rat).Mul(r.rat(), o.rat()))
}

func (r Rational) neg() Rational {
	if r.num == minInt64 {
		panic(fmt.Errorf("exact: negate %s: %w", r, ErrOverflow))
	}
	return Rational{num: -r.num, den: r.d()}
}

func (r Rational) inverse() Rational {
	if r.num == 0 {
		panic(divisionByZero("inverse of 0"))
	}
	if r.num < 0 {
		return Rational{num: -r.d(), den: -r.num}
	}
	return Rational{num: r.d(), den: r.num}
}

// ============================================================
// Comparison and extraction
// ============================================================

func (r Rational) Cmp(other Number) int {
	switch o := other.(type) {
	case Rational:
		if small(r.num) && small(r.d()) && small(o.num) && small(o.d()) {
			return cmpInt64(r.num*o.d(), o.num*r.d())
		}
		return r.rat().Cmp(o.rat())
	case Float:
		return Float(r.Float64()).Cmp(o)
	}
	panic(unknownNumber(other))
}

func (r Rational) CmpInt(other int64) int { return r.Cmp(Int(other)) }
func (r Rational) Sign() int              { return cmpInt64(r.num, 0) }
func (r Rational) IsZero() bool           { return r.num == 0 }
func (r Rational) IsOne() bool            { return r.num == 1 && r.d() == 1 }
func (r Rational) IsWhole() bool          { return r.d() == 1 }
func (r Rational) Float64() float64       { return float64(r.num) / float64(r.d()) }

// WholePart truncates toward zero.
func (r Rational) WholePart() int64 { return r.num / r.d() }

// FractionalPart is r - WholePart(r); it carries the sign of r.
func (r Rational) FractionalPart() Number { return normalize(r.num%r.d(), r.d()) }

func (r Rational) String() string {
	if r.d() == 1 {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.d())
}

func (r Rational) Key() string { return "q" + r.String() }

// ============================================================
// Helpers
// ============================================================

const (
	minInt64   = -1 << 63
	smallLimit = 1 << 31
)

// small reports whether v is safe to multiply with another small value and
// add two such products without overflowing int64.
func small(v int64) bool { return v > -smallLimit && v < smallLimit }

func (r Rational) rat() *big.Rat {
	return new(big.Rat).SetFrac(big.NewInt(r.num), big.NewInt(r.d()))
}

func normalize(num, den int64) Rational {
	if den < 0 {
		num, den = -num, -den
	}
	g := GCD(num, den)
	if g == 0 {
		return Zero
	}
	return Rational{num: num / g, den: den / g}
}

func fromBig(x *big.Rat) Rational {
	if !x.Num().IsInt64() || !x.Denom().IsInt64() {
		panic(fmt.Errorf("exact: %s does not fit in int64: %w", x.RatString(), ErrOverflow))
	}
	return Rational{num: x.Num().Int64(), den: x.Denom().Int64()}
}

func cmpInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func unknownNumber(n Number) error {
	return fmt.Errorf("exact: unsupported number %T", n)
}
