package exact

import (
	"math"
	"strconv"
	"strings"
)

// Float is the inexact fallback of the tower. Any arithmetic involving a
// Float produces a Float.
type Float float64

func (f Float) number() {}

func (f Float) Add(other Number) Number { return f + Float(other.Float64()) }
func (f Float) Sub(other Number) Number { return f - Float(other.Float64()) }
func (f Float) Mul(other Number) Number { return f * Float(other.Float64()) }
func (f Float) Div(other Number) Number { return f / Float(other.Float64()) }
func (f Float) Neg() Number             { return -f }
func (f Float) Inverse() Number         { return 1 / f }

func (f Float) Pow(power int64) Number {
	return Float(math.Pow(float64(f), float64(power)))
}

func (f Float) Cmp(other Number) int {
	o := other.Float64()
	switch {
	case float64(f) < o:
		return -1
	case float64(f) > o:
		return 1
	}
	return 0
}

func (f Float) CmpInt(other int64) int { return f.Cmp(Float(other)) }

func (f Float) Sign() int {
	switch {
	case f < 0:
		return -1
	case f > 0:
		return 1
	}
	return 0
}

func (f Float) IsZero() bool { return f == 0 }
func (f Float) IsOne() bool  { return f == 1 }

// IsWhole is always false: a Float is never treated as an exact integer.
func (f Float) IsWhole() bool { return false }

func (f Float) WholePart() int64       { return int64(math.Trunc(float64(f))) }
func (f Float) FractionalPart() Number { return f - Float(math.Trunc(float64(f))) }
func (f Float) Float64() float64       { return float64(f) }

// String always renders a decimal point (or exponent) so floats stay
// distinguishable from rationals in printed output.
func (f Float) String() string {
	s := strconv.FormatFloat(float64(f), 'g', -1, 64)
	if strings.ContainsAny(s, ".eEIN") {
		return s
	}
	return s + ".0"
}

func (f Float) Key() string { return "f" + strconv.FormatFloat(float64(f), 'g', -1, 64) }
