package gosymsum_test

import (
	"bytes"
	"log/slog"
	"testing"

	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/njchilds90/gosymsum/exact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Symbolic = gosymsum.Symbolic

var (
	x = gosymsum.S("x")
	y = gosymsum.S("y")
	z = gosymsum.S("z")
	n = gosymsum.S("n")
	m = gosymsum.S("m")
	k = gosymsum.S("k")
)

func f(args ...Symbolic) Symbolic { return gosymsum.ApplyOf("f", args...) }

func assertSym(t *testing.T, want, got Symbolic) {
	t.Helper()
	assert.True(t, gosymsum.Equal(want, got), "want %s, got %s", want, got)
}

func requireEngineError(t *testing.T, target error, fn func() Symbolic) {
	t.Helper()
	_, err := gosymsum.Try(fn)
	require.Error(t, err)
	assert.ErrorIs(t, err, target)
}

// ============================================================
// Const tests
// ============================================================

func TestConst_String(t *testing.T) {
	assert.Equal(t, "42", gosymsum.N(42).String())
	assert.Equal(t, "1/3", gosymsum.F(1, 3).String())
	assert.Equal(t, "-1/2", gosymsum.F(1, -2).String())
	assert.Equal(t, "2.0", gosymsum.NFloat(2).String())
}

func TestConst_LaTeX(t *testing.T) {
	assert.Equal(t, `\frac{2}{5}`, gosymsum.F(2, 5).LaTeX())
	assert.Equal(t, `-\frac{1}{2}`, gosymsum.F(-1, 2).LaTeX())
	assert.Equal(t, "7", gosymsum.N(7).LaTeX())
}

func TestConst_ZeroValue(t *testing.T) {
	var c gosymsum.Const
	assert.Equal(t, "0", c.String())
	assertSym(t, gosymsum.Zero, c)
}

func TestConst_FloatIsDistinctFromRational(t *testing.T) {
	assert.False(t, gosymsum.Equal(gosymsum.N(1), gosymsum.NFloat(1)))
	assertSym(t, gosymsum.NFloat(0.75), gosymsum.Add(gosymsum.F(1, 2), gosymsum.NFloat(0.25)))
}

// ============================================================
// Var tests
// ============================================================

func TestVar_Subst(t *testing.T) {
	assertSym(t, gosymsum.N(3), gosymsum.SubstVar(x, x, gosymsum.N(3)))
	assertSym(t, x, gosymsum.SubstVar(x, y, gosymsum.N(3)))
}

func TestFreshVar_Distinct(t *testing.T) {
	a, b := gosymsum.FreshVar(), gosymsum.FreshVar()
	assert.NotEqual(t, a, b)
	assert.False(t, gosymsum.Equal(a, b))

	_, err := gosymsum.Parse(a.Name)
	assert.ErrorIs(t, err, gosymsum.ErrSyntax)
}

// ============================================================
// Sum / Product canonical form
// ============================================================

func TestSum_CollectsLikeTerms(t *testing.T) {
	got := gosymsum.Add(x, x)
	assert.Equal(t, "2*x", got.String())
	assertSym(t, gosymsum.Zero, gosymsum.Sub(x, x))
	assertSym(t, gosymsum.Add(x, y), gosymsum.Add(y, x))
}

func TestSum_SingleTermCollapse(t *testing.T) {
	got := gosymsum.SumOf(x, gosymsum.Zero)
	assert.IsType(t, gosymsum.Var{}, got)
	assert.IsType(t, gosymsum.Const{}, gosymsum.SumOf())

	got = gosymsum.SubLit(gosymsum.AddLit(x, 1), 1)
	assert.IsType(t, gosymsum.Var{}, got)
	assertSym(t, x, got)
}

func TestSum_OrderIndependent(t *testing.T) {
	left := gosymsum.Add(gosymsum.AddLit(x, 2), y)
	right := gosymsum.Add(gosymsum.AddLit(y, 2), x)
	assertSym(t, left, right)
	assertSym(t, gosymsum.Mul(x, gosymsum.N(2)), gosymsum.Add(x, x))
}

func TestSum_ScalingBackToUnitCollapses(t *testing.T) {
	cases := []struct {
		name string
		got  Symbolic
	}{
		{"double negation", gosymsum.Neg(gosymsum.Neg(x))},
		{"times three over three", gosymsum.DivLit(gosymsum.MulLit(x, 3), 3)},
		{"twice x halved", gosymsum.Mul(gosymsum.MulLit(x, 2), gosymsum.F(1, 2))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.IsType(t, gosymsum.Var{}, tc.got)
			assertSym(t, x, tc.got)
			assertSym(t, tc.got, tc.got.Simplify())
		})
	}

	halved := gosymsum.DivLit(gosymsum.PowOf(gosymsum.N(2), gosymsum.AddLit(n, 1)), 2)
	assertSym(t, gosymsum.PowOf(gosymsum.N(2), n), halved)
	assertSym(t, halved, halved.Simplify())
}

func TestSum_Rendering(t *testing.T) {
	assert.Equal(t, "x - 0.5", gosymsum.SubLit(x, exact.Float(0.5)).String())
	assert.Equal(t, "-x + y", gosymsum.Sub(y, x).String())
	assert.Equal(t, "x + y - 3", gosymsum.SubLit(gosymsum.Add(x, y), 3).String())
}

func TestProduct_CollapseToScaledTerm(t *testing.T) {
	scaled := gosymsum.Mul(gosymsum.N(3), x)
	assert.IsType(t, &gosymsum.Sum{}, scaled)
	assert.Equal(t, "3*x", scaled.String())

	square := gosymsum.Mul(x, x)
	assert.IsType(t, &gosymsum.Product{}, square)
	assert.Equal(t, "x^2", square.String())

	assertSym(t, gosymsum.Zero, gosymsum.Mul(x, gosymsum.Zero))
	assertSym(t, x, gosymsum.Mul(gosymsum.One, x))
}

func TestProduct_ConstFolding(t *testing.T) {
	root2 := gosymsum.PowOf(gosymsum.N(2), gosymsum.F(1, 2))
	assert.Equal(t, "2^(1/2)", root2.String())
	assertSym(t, gosymsum.N(2), gosymsum.Mul(root2, root2))
}

func TestExpand_Square(t *testing.T) {
	got := gosymsum.PowInt(gosymsum.AddLit(x, 1), 2)
	assert.Equal(t, "x^2 + 2*x + 1", got.String())
}

func TestExpand_DifferenceOfSquares(t *testing.T) {
	got := gosymsum.Mul(gosymsum.Add(x, y), gosymsum.Sub(x, y))
	assert.Equal(t, "x^2 - y^2", got.String())
}

func TestExpand_ScaledTermPower(t *testing.T) {
	twoX := gosymsum.MulLit(x, 2)
	assert.Equal(t, "4*x^2", gosymsum.PowInt(twoX, 2).String())
	assert.Equal(t, "2^(1/2)*x^(1/2)", gosymsum.PowNum(twoX, exact.Half).String())
}

func TestEqual_Canonical(t *testing.T) {
	left := gosymsum.Mul(gosymsum.AddLit(x, 1), y)
	right := gosymsum.Add(gosymsum.Mul(x, y), y)
	assertSym(t, left, right)
	assertSym(t, gosymsum.Mul(x, y), gosymsum.Mul(y, x))
	assert.False(t, gosymsum.Equal(x, y))
}

func TestSimplify_Idempotent(t *testing.T) {
	exprs := []Symbolic{
		gosymsum.PowInt(gosymsum.AddLit(x, 1), 3),
		gosymsum.Div(gosymsum.MulLit(x, 3), y),
		gosymsum.PowOf(gosymsum.N(2), gosymsum.AddLit(n, 1)),
		gosymsum.RowSumOf(gosymsum.S("i"), gosymsum.One, n, f(gosymsum.S("i"))),
		gosymsum.PowNum(gosymsum.AddLit(x, 1), exact.NewRational(3, 2)),
	}
	for _, e := range exprs {
		once := e.Simplify()
		assertSym(t, e, once)
		assertSym(t, once, once.Simplify())
	}
}

// ============================================================
// Pow tests
// ============================================================

func TestPow_Rules(t *testing.T) {
	assertSym(t, gosymsum.One, gosymsum.PowInt(x, 0))
	assertSym(t, x, gosymsum.PowInt(x, 1))
	assertSym(t, gosymsum.N(1024), gosymsum.PowInt(gosymsum.N(2), 10))
	assertSym(t, gosymsum.N(4), gosymsum.PowInt(gosymsum.F(1, 2), -2))
	assert.Equal(t, "x^(-1)", gosymsum.PowInt(x, -1).String())
	assertSym(t, gosymsum.PowInt(x, -1), gosymsum.Div(gosymsum.One, x))
	assertSym(t, gosymsum.PowInt(x, 6), gosymsum.PowInt(gosymsum.PowInt(x, 2), 3))
}

func TestPow_ZeroToTheZeroPanics(t *testing.T) {
	requireEngineError(t, gosymsum.ErrDivisionByZero, func() Symbolic { return gosymsum.PowInt(gosymsum.Zero, 0) })
	requireEngineError(t, gosymsum.ErrDivisionByZero, func() Symbolic { return gosymsum.Div(x, gosymsum.Zero) })
}

func TestPow_SumNegativeExponent(t *testing.T) {
	got := gosymsum.PowInt(gosymsum.AddLit(x, 1), -2)
	assert.Equal(t, "pow(x + 1, -1)^2", got.String())
}

func TestPow_SumLargeExponentStaysOpaque(t *testing.T) {
	got := gosymsum.PowInt(gosymsum.AddLit(x, 1), 101)
	assert.IsType(t, &gosymsum.Pow{}, got)
	assert.Equal(t, "pow(x + 1, 101)", got.String())
}

func TestPow_SumRationalExponent(t *testing.T) {
	got := gosymsum.PowNum(gosymsum.AddLit(x, 1), exact.NewRational(3, 2))
	assert.Equal(t, "pow(x + 1, 1/2)^3", got.String())
}

func TestPow_SumExponentDistributes(t *testing.T) {
	got := gosymsum.PowOf(gosymsum.N(2), gosymsum.AddLit(n, 1))
	assertSym(t, gosymsum.Mul(gosymsum.N(2), gosymsum.PowOf(gosymsum.N(2), n)), got)
	assert.Equal(t, "2*pow(2, n)", got.String())
}

// ============================================================
// Apply family tests
// ============================================================

func TestShifts(t *testing.T) {
	assertSym(t, gosymsum.N(12), gosymsum.Shl(gosymsum.N(3), gosymsum.N(2)))
	assertSym(t, gosymsum.N(-4), gosymsum.Shr(gosymsum.N(-8), gosymsum.N(1)))
	assert.Equal(t, "shl(x, 1)", gosymsum.Shl(x, gosymsum.One).String())
	assert.IsType(t, &gosymsum.ShiftLeft{}, gosymsum.Shl(gosymsum.One, gosymsum.N(63)))
}

func TestFactorial(t *testing.T) {
	assertSym(t, gosymsum.N(120), gosymsum.FactorialOf(gosymsum.N(5)))
	assertSym(t, gosymsum.One, gosymsum.FactorialOf(gosymsum.Zero))
	assert.IsType(t, &gosymsum.Factorial{}, gosymsum.FactorialOf(gosymsum.N(21)))
	assert.Equal(t, "factorial(x)", gosymsum.FactorialOf(x).String())
}

func TestApply_ReservedNamesDispatch(t *testing.T) {
	assert.Equal(t, "f(x)", f(x).String())
	assertSym(t, gosymsum.PowInt(x, 2), gosymsum.ApplyOf("pow", x, gosymsum.N(2)))
	assertSym(t, gosymsum.N(24), gosymsum.ApplyOf("factorial", gosymsum.N(4)))
	requireEngineError(t, gosymsum.ErrArityMismatch, func() Symbolic { return gosymsum.ApplyOf("pow", x) })
}

func TestRebuild_ArityMismatch(t *testing.T) {
	a, ok := f(x, y).(*gosymsum.Apply)
	require.True(t, ok)
	assertSym(t, f(y, x), a.Rebuild([]Symbolic{y, x}))
	requireEngineError(t, gosymsum.ErrArityMismatch, func() Symbolic { return a.Rebuild([]Symbolic{x}) })
}

func TestTry_PropagatesForeignPanics(t *testing.T) {
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = gosymsum.Try(func() Symbolic { panic("boom") })
	})
}

// ============================================================
// Literal helpers, traversal, rendering
// ============================================================

func TestLiteralHelpers(t *testing.T) {
	assertSym(t, gosymsum.Add(x, gosymsum.N(2)), gosymsum.AddLit(x, 2))
	assert.Equal(t, "1/2*x", gosymsum.MulLit(x, exact.Half).String())
	assertSym(t, gosymsum.Mul(x, gosymsum.F(1, 4)), gosymsum.DivLit(x, int64(4)))
	assertSym(t, gosymsum.Sub(x, gosymsum.N(1)), gosymsum.SubLit(x, 1))
}

func TestVars(t *testing.T) {
	e := gosymsum.Add(gosymsum.Mul(x, y), f(n))
	assert.Equal(t, []gosymsum.Var{n, x, y}, gosymsum.SortedVars(e))
	assert.True(t, gosymsum.ContainsVar(e, n))
	assert.False(t, gosymsum.ContainsVar(e, z))
	assert.Empty(t, gosymsum.Vars(gosymsum.N(3)))
}

func TestTransform(t *testing.T) {
	e := gosymsum.Add(gosymsum.MulLit(x, 2), f(y))
	got := gosymsum.Transform(e, func(s Symbolic) Symbolic {
		if gosymsum.Equal(s, x) {
			return z
		}
		return s
	})
	assertSym(t, gosymsum.Add(gosymsum.MulLit(z, 2), f(y)), got)
}

func TestLaTeX(t *testing.T) {
	assert.Equal(t, "x^{2} + 1", gosymsum.AddLit(gosymsum.PowInt(x, 2), 1).LaTeX())
	assert.Equal(t, `\frac{1}{2} x`, gosymsum.DivLit(x, 2).LaTeX())
	assert.Equal(t, `\operatorname{f}\left(x\right)`, f(x).LaTeX())
}

func TestSetLogger_TracesUnresolvedReductions(t *testing.T) {
	var buf bytes.Buffer
	gosymsum.SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { gosymsum.SetLogger(nil) })

	i := gosymsum.S("i")
	gosymsum.RowSumOf(i, gosymsum.One, n, f(i))
	assert.Contains(t, buf.String(), "row sum left unresolved")
}
