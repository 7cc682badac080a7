package gosymsum

import (
	"strings"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Sum — constant + Σ coeff·term
// ============================================================

// Sum is the canonical additive node. Coefficients are never zero; a Sum
// always has at least one term, and a single-term Sum has either a nonzero
// constant or a Product-free base with coefficient other than 1.
type Sum struct {
	constant exact.Number
	terms    map[string]part[Term]
	k        string
}

// SumTerm is one summand of a Sum.
type SumTerm struct {
	Base  Term
	Coeff exact.Number
}

func newSum(constant exact.Number, terms map[string]part[Term]) *Sum {
	return &Sum{constant: constant, terms: terms, k: sumKey(constant, terms)}
}

func sumKey(constant exact.Number, terms map[string]part[Term]) string {
	return partsKey("S", constant, terms)
}

// SumOf adds operands and returns the canonical result.
func SumOf(operands ...Symbolic) Symbolic {
	switch len(operands) {
	case 0:
		return Zero
	case 1:
		return operands[0]
	}
	var constant exact.Number = exact.Zero
	acc := newParts[Term]()
	for _, op := range operands {
		s := op.asSum()
		constant = constant.Add(s.constant)
		for _, t := range s.terms {
			acc.add(t.base, t.value)
		}
	}
	return simplifySum(constant, acc.data)
}

func simplifySum(constant exact.Number, terms map[string]part[Term]) Symbolic {
	switch {
	case len(terms) == 0:
		return Const{constant}
	case len(terms) == 1 && constant.IsZero():
		for _, t := range terms {
			return ProductOf(t.base, Const{t.value})
		}
	}
	return newSum(constant, terms)
}

func (s *Sum) Constant() exact.Number { return s.constant }

// Terms returns the summands ordered canonically.
func (s *Sum) Terms() []SumTerm {
	sorted := sortedParts(s.terms)
	out := make([]SumTerm, len(sorted))
	for i, t := range sorted {
		out[i] = SumTerm{Base: t.base, Coeff: t.value}
	}
	return out
}

// Coeff returns the coefficient of base, or zero if it is absent.
func (s *Sum) Coeff(base Term) exact.Number {
	return parts[Term]{data: s.terms}.get(base)
}

func (s *Sum) Simplify() Symbolic {
	operands := []Symbolic{Const{s.constant}}
	for _, t := range sortedParts(s.terms) {
		operands = append(operands, ProductOf(t.base.Simplify(), Const{t.value}))
	}
	return SumOf(operands...)
}

func (s *Sum) Subst(substitution map[Var]Symbolic) Symbolic {
	operands := []Symbolic{Const{s.constant}}
	for _, t := range sortedParts(s.terms) {
		operands = append(operands, ProductOf(t.base.Subst(substitution), Const{t.value}))
	}
	return SumOf(operands...)
}

func (s *Sum) Equal(other Symbolic) bool { return s.k == other.key() }
func (s *Sum) key() string               { return s.k }
func (s *Sum) asSum() *Sum               { return s }

func (s *Sum) collectVars(into map[Var]struct{}) {
	for _, t := range s.terms {
		t.base.collectVars(into)
	}
}

// timesImpl distributes factor over every summand. The operands it builds
// never contain a Sum, so ProductOf does not re-enter it.
func (s *Sum) timesImpl(factor Symbolic) Symbolic {
	switch f := factor.(type) {
	case Const:
		switch {
		case f.val().IsZero():
			return Zero
		case f.val().IsOne():
			return s
		}
		terms := make(map[string]part[Term], len(s.terms))
		for k, t := range s.terms {
			terms[k] = part[Term]{base: t.base, value: t.value.Mul(f.val())}
		}
		return simplifySum(s.constant.Mul(f.val()), terms)
	case *Sum:
		left, right := s.summands(), f.summands()
		operands := make([]Symbolic, 0, len(left)*len(right))
		for _, a := range left {
			for _, b := range right {
				operands = append(operands, ProductOf(a.base, b.base, Const{a.value.Mul(b.value)}))
			}
		}
		return SumOf(operands...)
	}
	operands := make([]Symbolic, 0, len(s.terms)+1)
	operands = append(operands, ProductOf(factor, Const{s.constant}))
	for _, t := range sortedParts(s.terms) {
		operands = append(operands, ProductOf(t.base, factor, Const{t.value}))
	}
	return SumOf(operands...)
}

// summands lists the terms followed by the constant as a One-based entry.
func (s *Sum) summands() []part[Term] {
	out := sortedParts(s.terms)
	if !s.constant.IsZero() {
		out = append(out, part[Term]{base: One, value: s.constant})
	}
	return out
}

// scaledTerm views a one-term Sum c·t as the Product it collapsed from.
func (s *Sum) scaledTerm() (*Product, bool) {
	if len(s.terms) != 1 || !s.constant.IsZero() {
		return nil, false
	}
	for _, t := range s.terms {
		p := t.base.asProduct()
		return newProduct(p.constant.Mul(t.value), p.factors), true
	}
	return nil, false
}

func (s *Sum) String() string {
	return s.render(Symbolic.String, func(c exact.Number) string { return c.String() }, "*")
}

func (s *Sum) LaTeX() string {
	return s.render(Symbolic.LaTeX, func(c exact.Number) string { return Const{c}.LaTeX() }, " ")
}

func (s *Sum) render(term func(Symbolic) string, number func(exact.Number) string, times string) string {
	var b strings.Builder
	write := func(first, negative bool, text string) {
		switch {
		case first && negative:
			b.WriteString("-")
		case negative:
			b.WriteString(" - ")
		case !first:
			b.WriteString(" + ")
		}
		b.WriteString(text)
	}
	for i, t := range sortedParts(s.terms) {
		coeff := t.value
		negative := coeff.Sign() < 0
		if negative {
			coeff = coeff.Neg()
		}
		text := term(t.base)
		if !coeff.IsOne() {
			text = number(coeff) + times + text
		}
		write(i == 0, negative, text)
	}
	if !s.constant.IsZero() {
		c := s.constant
		negative := c.Sign() < 0
		if negative {
			c = c.Neg()
		}
		write(false, negative, number(c))
	}
	return b.String()
}
