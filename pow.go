package gosymsum

import (
	"fmt"
	"math"

	"github.com/njchilds90/gosymsum/exact"
)

// expandLimit bounds the integer powers of a Sum that are multiplied out.
const expandLimit = 100

// ============================================================
// Pow — opaque power node
// ============================================================

// Pow is a power that the canonical form cannot absorb: a Sum raised to a
// non-integer or out-of-range exponent, or any base raised to a symbolic
// exponent.
type Pow struct {
	base, exponent Symbolic
	k              string
}

func newPow(base, exponent Symbolic) *Pow {
	p := &Pow{base: base, exponent: exponent}
	p.k = applicationKey(p.Function(), p.Args())
	return p
}

func (p *Pow) Base() Symbolic     { return p.base }
func (p *Pow) Exponent() Symbolic { return p.exponent }
func (p *Pow) Function() string   { return "pow" }
func (p *Pow) Args() []Symbolic   { return []Symbolic{p.base, p.exponent} }

func (p *Pow) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 2 {
		panic(arityMismatch(p.Function(), 2, len(args)))
	}
	return PowOf(args[0], args[1])
}

func (p *Pow) Simplify() Symbolic { return PowOf(p.base.Simplify(), p.exponent.Simplify()) }
func (p *Pow) Subst(substitution map[Var]Symbolic) Symbolic {
	return PowOf(p.base.Subst(substitution), p.exponent.Subst(substitution))
}
func (p *Pow) Equal(other Symbolic) bool         { return p.k == other.key() }
func (p *Pow) key() string                       { return p.k }
func (p *Pow) asSum() *Sum                       { return atomAsSum(p) }
func (p *Pow) asProduct() *Product               { return atomAsProduct(p) }
func (p *Pow) collectVars(into map[Var]struct{}) { collectArgs(p.Args(), into) }
func (p *Pow) isAtom()                           {}

func (p *Pow) String() string { return fmt.Sprintf("pow(%s, %s)", p.base, p.exponent) }
func (p *Pow) LaTeX() string {
	return fmt.Sprintf(`\left(%s\right)^{%s}`, p.base.LaTeX(), p.exponent.LaTeX())
}

// ============================================================
// Power algebra
// ============================================================

// PowOf raises base to an arbitrary exponent. A Sum exponent distributes
// over its summands: b^(c + Σ kᵢtᵢ) = b^c · Π b^(kᵢtᵢ).
func PowOf(base, exponent Symbolic) Symbolic {
	switch e := exponent.(type) {
	case Const:
		return PowNum(base, e.val())
	case *Sum:
		if isZero(base) || isOne(base) || len(e.terms) == 1 && e.constant.IsZero() {
			return powOpaque(base, e)
		}
		var factors []Symbolic
		if !e.constant.IsZero() {
			factors = append(factors, PowNum(base, e.constant))
		}
		for _, t := range sortedParts(e.terms) {
			single := simplifySum(exact.Zero, map[string]part[Term]{t.base.key(): t})
			factors = append(factors, PowOf(base, single))
		}
		return ProductOf(factors...)
	}
	return powOpaque(base, exponent)
}

func powOpaque(base, exponent Symbolic) Symbolic {
	if isOne(base) {
		return One
	}
	return newPow(base, exponent)
}

// PowNum raises base to a numeric exponent.
func PowNum(base Symbolic, exponent exact.Number) Symbolic {
	switch e := exponent.(type) {
	case exact.Rational:
		if e.IsWhole() {
			return PowInt(base, e.WholePart())
		}
		return powRational(base, e)
	case exact.Float:
		if c, ok := base.(Const); ok {
			if e.IsZero() && c.val().IsZero() {
				panic(zeroToTheZero())
			}
			return NFloat(math.Pow(c.Float64(), float64(e)))
		}
		return powOpaque(base, Const{e})
	}
	panic(fmt.Sprintf("gosymsum: unknown number %T", exponent))
}

// PowInt raises base to an integer power. Sums are expanded for
// 0 < power <= 100; larger magnitudes stay opaque.
func PowInt(base Symbolic, power int64) Symbolic {
	if power == 0 {
		if isZero(base) {
			panic(zeroToTheZero())
		}
		return One
	}
	if power == 1 {
		return base
	}
	switch b := base.(type) {
	case Const:
		return Const{b.val().Pow(power)}
	case *Product:
		acc := newParts[Atom]()
		for _, f := range b.factors {
			acc.set(f.base, f.value.Mul(exact.Int(power)))
		}
		return simplifyProduct(b.constant.Pow(power), acc.data)
	case *Sum:
		if p, ok := b.scaledTerm(); ok {
			return PowInt(p, power)
		}
		switch {
		case power > 0 && power <= expandLimit:
			var result Symbolic = b
			for i := int64(1); i < power; i++ {
				result = ProductOf(result, b)
			}
			return result
		case power > expandLimit || power < -expandLimit:
			return newPow(b, N(power))
		}
		return PowInt(newPow(b, N(-1)), -power)
	case Atom:
		return newProduct(exact.One, map[string]part[Atom]{b.key(): {base: b, value: exact.Int(power)}})
	}
	panic(fmt.Sprintf("gosymsum: unexpected base %T", base))
}

func powRational(base Symbolic, q exact.Rational) Symbolic {
	switch b := base.(type) {
	case Const:
		switch {
		case b.val().IsZero() && q.Sign() > 0:
			return Zero
		case b.val().IsZero():
			panic(fmt.Errorf("gosymsum: 0^(%s): %w", q, ErrDivisionByZero))
		case b.val().IsOne():
			return One
		}
		return newProduct(exact.One, map[string]part[Atom]{b.key(): {base: b, value: q}})
	case *Product:
		acc := newParts[Atom]()
		for _, f := range b.factors {
			acc.set(f.base, f.value.Mul(q))
		}
		if !b.constant.IsOne() {
			acc.add(Const{b.constant}, q)
		}
		return simplifyProduct(exact.One, acc.data)
	case *Sum:
		if p, ok := b.scaledTerm(); ok {
			return powRational(p, q)
		}
		num := q.Num()
		if num == 1 || num == -1 {
			return newPow(b, Const{q})
		}
		if num < 0 {
			num = -num
		}
		return PowInt(newPow(b, Const{q.Div(exact.Int(num))}), num)
	case Atom:
		return newProduct(exact.One, map[string]part[Atom]{b.key(): {base: b, value: q}})
	}
	panic(fmt.Sprintf("gosymsum: unexpected base %T", base))
}

func zeroToTheZero() error {
	return fmt.Errorf("gosymsum: 0^0: %w", ErrDivisionByZero)
}
