package gosymsum

import (
	"fmt"
	"strings"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Product — constant · Π factor^exp
// ============================================================

// Product is the canonical multiplicative node. Its factors are atoms with
// nonzero exponents; a Const factor only survives with a non-whole exponent.
type Product struct {
	constant exact.Number
	factors  map[string]part[Atom]
	k        string
}

// Factor is one base^exponent entry of a Product.
type Factor struct {
	Base     Atom
	Exponent exact.Number
}

func newProduct(constant exact.Number, factors map[string]part[Atom]) *Product {
	return &Product{constant: constant, factors: factors, k: productKey(constant, factors)}
}

func productKey(constant exact.Number, factors map[string]part[Atom]) string {
	return partsKey("P", constant, factors)
}

// ProductOf multiplies operands and returns the canonical result. Sums are
// distributed over last so that the non-Sum operands are gathered first.
func ProductOf(operands ...Symbolic) Symbolic {
	switch len(operands) {
	case 0:
		return One
	case 1:
		return operands[0]
	}
	var sums []*Sum
	var constant exact.Number = exact.One
	acc := newParts[Atom]()
	for _, op := range operands {
		switch v := op.(type) {
		case *Sum:
			sums = append(sums, v)
		case Term:
			p := v.asProduct()
			constant = constant.Mul(p.constant)
			for _, f := range p.factors {
				acc.add(f.base, f.value)
			}
		default:
			panic(fmt.Sprintf("gosymsum: unexpected operand %T", op))
		}
	}
	result := simplifyProduct(constant, acc.data)
	for _, s := range sums {
		result = s.timesImpl(result)
	}
	return result
}

func simplifyProduct(constant exact.Number, factors map[string]part[Atom]) Symbolic {
	for k, f := range factors {
		c, ok := f.base.(Const)
		if !ok {
			continue
		}
		if e, whole := f.value.(exact.Rational); whole && e.IsWhole() {
			constant = constant.Mul(c.val().Pow(e.WholePart()))
			delete(factors, k)
		}
	}
	switch {
	case constant.IsZero():
		return Zero
	case len(factors) == 0:
		return Const{constant}
	case len(factors) == 1:
		for k, f := range factors {
			if !f.value.IsOne() {
				break
			}
			if constant.IsOne() {
				return f.base
			}
			return newSum(exact.Zero, map[string]part[Term]{k: {base: f.base, value: constant}})
		}
	}
	return newProduct(constant, factors)
}

func (p *Product) Constant() exact.Number { return p.constant }

// Factors returns the factors ordered canonically.
func (p *Product) Factors() []Factor {
	sorted := sortedParts(p.factors)
	out := make([]Factor, len(sorted))
	for i, f := range sorted {
		out[i] = Factor{Base: f.base, Exponent: f.value}
	}
	return out
}

func (p *Product) Simplify() Symbolic {
	operands := []Symbolic{Const{p.constant}}
	for _, f := range sortedParts(p.factors) {
		operands = append(operands, PowNum(f.base.Simplify(), f.value))
	}
	return ProductOf(operands...)
}

func (p *Product) Subst(substitution map[Var]Symbolic) Symbolic {
	operands := []Symbolic{Const{p.constant}}
	for _, f := range sortedParts(p.factors) {
		operands = append(operands, PowNum(f.base.Subst(substitution), f.value))
	}
	return ProductOf(operands...)
}

func (p *Product) Equal(other Symbolic) bool { return p.k == other.key() }
func (p *Product) key() string               { return p.k }
func (p *Product) asProduct() *Product       { return p }

// asSum strips the constant into the coefficient of a constant-free Product.
func (p *Product) asSum() *Sum {
	base := simplifyProduct(exact.One, clone(p.factors)).(Term)
	terms := map[string]part[Term]{base.key(): {base: base, value: p.constant}}
	return newSum(exact.Zero, terms)
}

func (p *Product) collectVars(into map[Var]struct{}) {
	for _, f := range p.factors {
		f.base.collectVars(into)
	}
}

func (p *Product) String() string {
	var b strings.Builder
	switch {
	case p.constant.IsOne():
	case p.constant.Neg().IsOne():
		b.WriteString("-")
	default:
		b.WriteString(p.constant.String())
		b.WriteString("*")
	}
	for i, f := range sortedParts(p.factors) {
		if i > 0 {
			b.WriteString("*")
		}
		b.WriteString(factorBase(f.base))
		if f.value.IsOne() {
			continue
		}
		if r, ok := f.value.(exact.Rational); ok && r.IsWhole() && r.Sign() > 0 {
			b.WriteString("^" + r.String())
		} else {
			b.WriteString("^(" + f.value.String() + ")")
		}
	}
	return b.String()
}

func (p *Product) LaTeX() string {
	var parts []string
	switch {
	case p.constant.IsOne():
	case p.constant.Neg().IsOne():
		parts = append(parts, "-")
	default:
		parts = append(parts, Const{p.constant}.LaTeX())
	}
	for _, f := range sortedParts(p.factors) {
		base := f.base.LaTeX()
		if c, ok := f.base.(Const); ok && c.val().Sign() < 0 {
			base = `\left(` + base + `\right)`
		}
		if f.value.IsOne() {
			parts = append(parts, base)
			continue
		}
		parts = append(parts, fmt.Sprintf("%s^{%s}", base, Const{f.value}.LaTeX()))
	}
	return strings.Join(parts, " ")
}

// factorBase parenthesizes constants that would otherwise misparse.
func factorBase(a Atom) string {
	if c, ok := a.(Const); ok {
		if r, isRat := c.val().(exact.Rational); !isRat || !r.IsWhole() || r.Sign() < 0 {
			return "(" + c.String() + ")"
		}
	}
	return a.String()
}

func clone[T Symbolic](m map[string]part[T]) map[string]part[T] {
	out := make(map[string]part[T], len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
