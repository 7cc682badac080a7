package exact_test

import (
	"math"
	"testing"

	"github.com/njchilds90/gosymsum/exact"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func q(n, d int64) exact.Rational { return exact.NewRational(n, d) }

// ============================================================
// Rational tests
// ============================================================

func TestRational_Reduction(t *testing.T) {
	assert.Equal(t, q(1, 2), exact.Int(1).Div(exact.Int(2)))
	assert.Equal(t, q(1, 4), exact.Int(4).Div(exact.Int(16)))
	assert.Equal(t, q(6, 9), q(2, 3))
	assert.Equal(t, q(-24, 36), exact.Int(6).Div(exact.Int(-9)))

	r := q(8, -256)
	assert.Equal(t, int64(-1), r.Num())
	assert.Equal(t, int64(32), r.Den())
}

func TestRational_InvariantHolds(t *testing.T) {
	for n := int64(-30); n <= 30; n++ {
		for d := int64(-30); d <= 30; d++ {
			if d == 0 {
				continue
			}
			r := q(n, d)
			require.Positive(t, r.Den(), "%d/%d", n, d)
			require.Equal(t, int64(1), exact.GCD(r.Num(), r.Den()), "%d/%d", n, d)
		}
	}
}

func TestRational_ZeroDenominatorPanics(t *testing.T) {
	assert.PanicsWithError(t, "exact: rational 1/0: division by zero", func() { q(1, 0) })
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, exact.ErrDivisionByZero)
	}()
	exact.Zero.Inverse()
}

func TestRational_Comparison(t *testing.T) {
	assert.Equal(t, -1, q(1, 2).Cmp(q(3, 4)))
	assert.Equal(t, 1, q(10, 18).Cmp(q(10, 19)))
	assert.Equal(t, 0, q(2, 4).Cmp(exact.Half))
	assert.Equal(t, -1, exact.Half.CmpInt(1))
}

func TestRational_Inverse(t *testing.T) {
	assert.Equal(t, exact.Int(2), exact.Half.Inverse())
	assert.Equal(t, q(3, -4), q(4, -3).Inverse())
}

func TestRational_Arithmetic(t *testing.T) {
	half := exact.Half
	assert.Equal(t, q(-1, 2), half.Neg())
	assert.Equal(t, q(-1, 2), exact.Zero.Sub(half))
	assert.Equal(t, exact.One, half.Add(half))
	assert.Equal(t, exact.One, half.Mul(exact.Int(2)))
	assert.Equal(t, exact.One, half.Div(half))
	assert.Equal(t, q(1, 4), half.Div(exact.Int(2)))
	assert.Equal(t, q(1, 4), half.Mul(half))
	assert.Equal(t, q(1, -4), half.Neg().Mul(half))
	assert.Equal(t, q(3, 2), half.Add(exact.Int(1)))
	assert.Equal(t, exact.Zero, half.Sub(half))
	assert.Equal(t, q(-1, 2), half.Sub(exact.Int(1)))
	assert.Equal(t, q(1, 32), q(7, 256).Add(q(1, 256)))

	assert.Equal(t, q(1, 4), half.Pow(2))
	assert.Equal(t, q(1, 8), half.Pow(3))
	assert.Equal(t, exact.Int(8), half.Pow(-3))
	assert.Equal(t, exact.One, half.Pow(0))
	assert.Equal(t, half, half.Pow(1))
	assert.Equal(t, exact.Int(2), half.Pow(-1))
}

func TestRational_Misc(t *testing.T) {
	half := exact.Half
	assert.True(t, half.Mul(exact.Int(4)).IsWhole())
	assert.True(t, half.Mul(exact.Int(-4)).IsWhole())
	assert.False(t, half.Mul(exact.Int(3)).IsWhole())
	assert.True(t, q(1, 4).Add(q(3, 4)).IsWhole())

	assert.Equal(t, int64(4), exact.Int(4).WholePart())
	assert.Equal(t, int64(2), half.Mul(exact.Int(5)).WholePart())
	assert.Equal(t, exact.Zero, half.Mul(exact.Int(4)).FractionalPart())
	assert.Equal(t, half, half.Mul(exact.Int(5)).FractionalPart())

	assert.Equal(t, 0.5, half.Float64())
	assert.Equal(t, -1.0, exact.One.Neg().Float64())
}

func TestRational_MapKey(t *testing.T) {
	m := map[exact.Rational]int{}
	m[exact.Half] = 1
	m[q(4, 8)] = 2
	m[q(-4, 8)] = 3
	assert.Equal(t, map[exact.Rational]int{exact.Half: 2, q(-1, 2): 3}, m)
}

func TestRational_String(t *testing.T) {
	got := []string{exact.Half.String(), q(3, -4).String(), exact.Int(2).String(), exact.Zero.String()}
	assert.Equal(t, []string{"1/2", "-3/4", "2", "0"}, got)
	assert.Equal(t, "0", exact.Rational{}.String())
}

func TestRational_LargeValuesStayExact(t *testing.T) {
	big := q(math.MaxInt64-1, 3)
	assert.Equal(t, q(math.MaxInt64-1, 6), big.Div(exact.Int(2)))
	assert.Equal(t, 0, big.Sub(big).Sign())
}

func TestRational_OverflowPanics(t *testing.T) {
	defer func() {
		err, ok := recover().(error)
		require.True(t, ok)
		assert.ErrorIs(t, err, exact.ErrOverflow)
	}()
	exact.Int(math.MaxInt64).Add(exact.One)
}

// ============================================================
// Float tests
// ============================================================

func TestFloat_Smoke(t *testing.T) {
	pi := exact.Float(math.Pi)
	assert.Equal(t, exact.Number(pi), pi.Div(exact.Float(1.0)))
	assert.Equal(t, exact.Number(pi), pi.Mul(exact.Int(1)))
	assert.Equal(t, exact.Number(pi), pi.Mul(exact.One))
}

func TestFloat_Comparison(t *testing.T) {
	assert.Equal(t, -1, exact.Float(0.1234).Cmp(exact.Float(0.234)))
	assert.Equal(t, -1, exact.Float(0.1).Cmp(q(1, 9)))
	assert.Equal(t, 1, exact.Float(0.1).Cmp(q(1, 11)))
}

func TestFloat_MixedWidens(t *testing.T) {
	assert.IsType(t, exact.Float(0), exact.Half.Add(exact.Float(0.25)))
	assert.IsType(t, exact.Float(0), exact.Float(2).Mul(exact.Int(2)))
	assert.Equal(t, exact.Number(exact.Float(0.75)), exact.Half.Add(exact.Float(0.25)))
	assert.False(t, exact.Float(2).IsWhole())
	assert.NotEqual(t, exact.Float(1).Key(), exact.One.Key())
}

func TestFloat_Arithmetic(t *testing.T) {
	for _, v := range []float64{0.125, 0.3, 0.77, 1.5} {
		f := exact.Float(v)
		assert.Equal(t, exact.Number(exact.Float(-v)), f.Neg())
		assert.Equal(t, exact.Number(exact.Float(2*v)), f.Add(f))
		assert.Equal(t, exact.Number(exact.Float(1)), f.Div(f))
		assert.Equal(t, exact.Number(exact.Float(v*v)), f.Mul(f))
		assert.Equal(t, exact.Number(exact.Float(math.Pow(v, 3))), f.Pow(3))
		assert.Equal(t, exact.Number(exact.Float(math.Pow(v, -3))), f.Pow(-3))
		assert.Equal(t, exact.Number(exact.Float(1)), f.Pow(0))
		assert.Equal(t, f.Inverse(), f.Pow(-1))
	}
	assert.Equal(t, exact.Number(exact.Float(0.5)), exact.Float(2).Inverse())
	assert.Equal(t, "2.0", exact.Float(2).String())
	assert.Equal(t, "0.5", exact.Float(0.5).String())
}

// ============================================================
// Arithmetic helper tests
// ============================================================

func TestGCD(t *testing.T) {
	assert.Equal(t, int64(1), exact.GCD(1, 1))
	assert.Equal(t, int64(3), exact.GCD(12, 9))
	assert.Equal(t, int64(3), exact.GCD(9, 12))
	assert.Equal(t, int64(7), exact.GCD(49, 7))
	assert.Equal(t, int64(4), exact.GCD(-8, 12))
}

func TestBinomial_PascalTriangle(t *testing.T) {
	var triangle [][]int64
	for n := int64(0); n <= 9; n++ {
		var row []int64
		for k := int64(0); k <= n; k++ {
			row = append(row, exact.Binomial(n, k))
		}
		triangle = append(triangle, row)
	}
	assert.Equal(t, [][]int64{
		{1},
		{1, 1},
		{1, 2, 1},
		{1, 3, 3, 1},
		{1, 4, 6, 4, 1},
		{1, 5, 10, 10, 5, 1},
		{1, 6, 15, 20, 15, 6, 1},
		{1, 7, 21, 35, 35, 21, 7, 1},
		{1, 8, 28, 56, 70, 56, 28, 8, 1},
		{1, 9, 36, 84, 126, 126, 84, 36, 9, 1},
	}, triangle)
}

func TestBinomial_OutOfRange(t *testing.T) {
	assert.Equal(t, int64(0), exact.Binomial(4, 5))
	assert.Equal(t, int64(0), exact.Binomial(4, -1))
	assert.Equal(t, int64(937845656300), exact.Binomial(50, 14))
}
