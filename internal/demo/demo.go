// Package demo prints a guided tour of the gosymsum engine. It backs both
// examples/main.go and the "gosymsum demo" command.
package demo

import (
	"fmt"
	"io"

	gosymsum "github.com/njchilds90/gosymsum"
	"github.com/njchilds90/gosymsum/exact"
)

type printer struct{ w io.Writer }

func (p printer) section(title string) {
	fmt.Fprintf(p.w, "\n═══ %s ═══\n", title)
}

func (p printer) show(label string, s gosymsum.Symbolic) {
	fmt.Fprintf(p.w, "%-28s = %s\n", label, s)
}

// Run writes the tour to w.
func Run(w io.Writer) {
	p := printer{w}
	x, n, i := gosymsum.S("x"), gosymsum.S("n"), gosymsum.S("i")

	// ── Canonical forms ───────────────────────────────────────
	p.section("Canonical forms")
	p.show("x + x + x + 2", gosymsum.SumOf(x, x, x, gosymsum.N(2)))
	p.show("(x + 1)^2", gosymsum.PowInt(gosymsum.AddLit(x, 1), 2))
	p.show("(1/3)*x + (5/6)*x", gosymsum.Add(gosymsum.MulLit(x, exact.NewRational(1, 3)), gosymsum.MulLit(x, exact.NewRational(5, 6))))
	p.show("x * 0.5", gosymsum.MulLit(x, exact.Float(0.5)))
	p.show("(2x)^(1/2)", gosymsum.PowNum(gosymsum.MulLit(x, 2), exact.Half))

	// ── Closed-form sums ──────────────────────────────────────
	p.section("Closed-form sums")
	for power := int64(0); power <= 3; power++ {
		label := fmt.Sprintf("sum(i, 1, n, i^%d)", power)
		p.show(label, gosymsum.RowSumOf(i, gosymsum.One, n, gosymsum.PowInt(i, power)))
	}
	p.show("sum(i, 1, n, 3*i + x)", gosymsum.RowSumOf(i, gosymsum.One, n, gosymsum.Add(gosymsum.MulLit(i, 3), x)))
	p.show("sum(i, 2, 10, 1/i)", gosymsum.RowSumOf(i, gosymsum.N(2), gosymsum.N(10), gosymsum.PowInt(i, -1)))
	p.show("sum(i, 1, n, f(i))", gosymsum.RowSumOf(i, gosymsum.One, n, gosymsum.ApplyOf("f", i)))

	// ── Closed-form products ──────────────────────────────────
	p.section("Closed-form products")
	p.show("prod(i, 1, n, i)", gosymsum.RowProductOf(i, gosymsum.One, n, i))
	p.show("prod(i, 1, n, 2*i)", gosymsum.RowProductOf(i, gosymsum.One, n, gosymsum.MulLit(i, 2)))
	p.show("prod(i, 1, n, i + 2)", gosymsum.RowProductOf(i, gosymsum.One, n, gosymsum.AddLit(i, 2)))
	p.show("prod(i, 1, 5, i)", gosymsum.RowProductOf(i, gosymsum.One, gosymsum.N(5), i))

	// ── Verification by finite difference ─────────────────────
	p.section("Finite difference check")
	closed := gosymsum.RowSumOf(i, gosymsum.One, n, gosymsum.PowInt(i, 4))
	p.show("S(n) = sum(i, 1, n, i^4)", closed)
	p.show("S(n) - S(n-1)", gosymsum.FiniteDifference(closed, n))

	// ── Generators ────────────────────────────────────────────
	p.section("Bernoulli and harmonic numbers")
	for k := int64(0); k <= 6; k += 2 {
		p.show(fmt.Sprintf("B(%d)", k), gosymsum.Bernoulli(k, nil))
	}
	p.show("B(3, x)", gosymsum.Bernoulli(3, x))
	p.show("H(10)", gosymsum.NewConst(gosymsum.Harmonic(10)))
	p.show("H(3, 2)", gosymsum.NewConst(gosymsum.HarmonicOrder(3, 2)))
	p.show("C(10, 3)", gosymsum.N(exact.Binomial(10, 3)))

	// ── Rendering ─────────────────────────────────────────────
	p.section("LaTeX and JSON")
	sq := gosymsum.RowSumOf(i, gosymsum.One, n, gosymsum.PowInt(i, 2))
	fmt.Fprintln(w, "LaTeX:", sq.LaTeX())
	data, err := gosymsum.ToJSON(gosymsum.PowInt(gosymsum.AddLit(x, 1), 2))
	if err == nil {
		fmt.Fprintln(w, "JSON: ", data)
	}

	// ── Errors ────────────────────────────────────────────────
	p.section("Errors")
	_, err = gosymsum.Try(func() gosymsum.Symbolic {
		return gosymsum.RowSumOf(i, gosymsum.N(5), gosymsum.One, i)
	})
	fmt.Fprintln(w, "sum(i, 5, 1, i) :", err)
	_, err = gosymsum.Parse("1/0")
	fmt.Fprintln(w, "parse 1/0       :", err)
}
