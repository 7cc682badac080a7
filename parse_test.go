package gosymsum_test

import (
	"testing"

	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================
// Parser tests
// ============================================================

func TestParse(t *testing.T) {
	cases := []struct {
		src  string
		want Symbolic
	}{
		{"x^2 + 2*x + 1", gosymsum.PowInt(gosymsum.AddLit(x, 1), 2)},
		{"sum(i, 1, n, i)", triangular(n)},
		{"RowSum(i, 1, n, i)", triangular(n)},
		{"prod(k, 1, 5, k)", gosymsum.N(120)},
		{"2^-1", gosymsum.F(1, 2)},
		{"2^3^2", gosymsum.N(512)},
		{"-x^2", gosymsum.Neg(gosymsum.PowInt(x, 2))},
		{"5!", gosymsum.N(120)},
		{"n!", gosymsum.FactorialOf(n)},
		{"1 << 4", gosymsum.N(16)},
		{"256 >> 2 + 1", gosymsum.N(32)},
		{"f(x, y)", f(x, y)},
		{"bernoulli(2)", gosymsum.F(1, 6)},
		{"bernoulli(2, x)", gosymsum.Bernoulli(2, x)},
		{"harmonic(4)", gosymsum.F(25, 12)},
		{"harmonic(3, 2)", gosymsum.F(49, 36)},
		{"binomial(5, 2)", gosymsum.N(10)},
		{"(x + y) * (x - y)", gosymsum.Sub(gosymsum.PowInt(x, 2), gosymsum.PowInt(y, 2))},
	}
	for _, tc := range cases {
		got, err := gosymsum.Parse(tc.src)
		require.NoError(t, err, tc.src)
		assertSym(t, tc.want, got)
	}
}

func TestParse_Float(t *testing.T) {
	got, err := gosymsum.Parse("0.5 * x")
	require.NoError(t, err)
	assert.Equal(t, "0.5*x", got.String())
}

func TestParse_RoundTripsString(t *testing.T) {
	exprs := []Symbolic{
		triangular(n),
		gosymsum.SubLit(x, 3),
		gosymsum.PowInt(gosymsum.AddLit(x, 1), -2),
		gosymsum.RowSumOf(i, gosymsum.One, n, f(i)),
		gosymsum.RowProductOf(i, gosymsum.One, n, f(i)),
		gosymsum.PowNum(gosymsum.MulLit(x, 2), gosymsum.F(1, 2).Value),
		gosymsum.Neg(gosymsum.DivLit(gosymsum.PowInt(y, 3), 4)),
		gosymsum.FactorialOf(gosymsum.AddLit(n, 2)),
		gosymsum.Shl(x, y),
	}
	for _, e := range exprs {
		back, err := gosymsum.Parse(e.String())
		require.NoError(t, err, e.String())
		assertSym(t, e, back)
	}
}

func TestParse_Errors(t *testing.T) {
	syntax := []string{"1 +", "(x", "sum(1, 1, n, i)", "sum(i, 1, n)", "99999999999999999999", "x $ y", "bernoulli(x)"}
	for _, src := range syntax {
		_, err := gosymsum.Parse(src)
		assert.ErrorIs(t, err, gosymsum.ErrSyntax, src)
	}

	_, err := gosymsum.Parse("1/0")
	assert.ErrorIs(t, err, gosymsum.ErrDivisionByZero)

	_, err = gosymsum.Parse("sum(i, 5, 1, i)")
	assert.ErrorIs(t, err, gosymsum.ErrInvalidRange)
}

func TestMustParse_Panics(t *testing.T) {
	assert.Panics(t, func() { gosymsum.MustParse("1 +") })
	assertSym(t, x, gosymsum.MustParse("x"))
}
