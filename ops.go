package gosymsum

import (
	"fmt"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Arithmetic
// ============================================================

func Add(a, b Symbolic) Symbolic { return SumOf(a, b) }
func Sub(a, b Symbolic) Symbolic { return SumOf(a, Neg(b)) }
func Mul(a, b Symbolic) Symbolic { return ProductOf(a, b) }
func Neg(a Symbolic) Symbolic    { return ProductOf(a, N(-1)) }

// Div returns a · b⁻¹. Dividing by a literal zero panics with
// ErrDivisionByZero.
func Div(a, b Symbolic) Symbolic { return ProductOf(a, PowInt(b, -1)) }

// Literal is a plain Go value accepted wherever a Const is.
type Literal interface {
	int | int64 | exact.Rational | exact.Float
}

// Lit converts a Go literal into a Const.
func Lit[T Literal](v T) Const {
	switch x := any(v).(type) {
	case int:
		return N(int64(x))
	case int64:
		return N(x)
	case exact.Rational:
		return Const{x}
	case exact.Float:
		return Const{x}
	}
	panic(fmt.Sprintf("gosymsum: unsupported literal %T", v))
}

func AddLit[T Literal](a Symbolic, v T) Symbolic { return SumOf(a, Lit(v)) }
func SubLit[T Literal](a Symbolic, v T) Symbolic { return SumOf(a, Const{Lit(v).val().Neg()}) }
func MulLit[T Literal](a Symbolic, v T) Symbolic { return ProductOf(a, Lit(v)) }
func DivLit[T Literal](a Symbolic, v T) Symbolic { return ProductOf(a, Const{Lit(v).val().Inverse()}) }
