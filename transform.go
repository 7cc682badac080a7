package gosymsum

import (
	"sort"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Substitution and traversal
// ============================================================

// Subst replaces free occurrences of the variables in substitution. Bound
// reduction indices are never replaced.
func Subst(s Symbolic, substitution map[Var]Symbolic) Symbolic {
	return s.Subst(substitution)
}

// SubstVar replaces a single variable.
func SubstVar(s Symbolic, v Var, value Symbolic) Symbolic {
	return s.Subst(map[Var]Symbolic{v: value})
}

// Vars returns the free variables of s.
func Vars(s Symbolic) map[Var]struct{} {
	into := map[Var]struct{}{}
	s.collectVars(into)
	return into
}

// SortedVars returns the free variables of s ordered by name.
func SortedVars(s Symbolic) []Var {
	vars := Vars(s)
	out := make([]Var, 0, len(vars))
	for v := range vars {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ContainsVar reports whether v occurs free in s.
func ContainsVar(s Symbolic, v Var) bool {
	_, ok := Vars(s)[v]
	return ok
}

// Transform applies f to every direct child of s and rebuilds s through its
// canonical constructor. Summand and factor bases count as children; the
// numeric coefficients and exponents do not.
func Transform(s Symbolic, f func(Symbolic) Symbolic) Symbolic {
	switch v := s.(type) {
	case Const, Var:
		return s
	case Application:
		return v.Rebuild(mapArgs(v.Args(), f))
	case *Sum:
		operands := []Symbolic{Const{v.constant}}
		for _, t := range sortedParts(v.terms) {
			operands = append(operands, ProductOf(f(t.base), Const{t.value}))
		}
		return SumOf(operands...)
	case *Product:
		operands := []Symbolic{Const{v.constant}}
		for _, p := range sortedParts(v.factors) {
			operands = append(operands, PowNum(f(p.base), p.value))
		}
		return ProductOf(operands...)
	}
	return s
}

// FiniteDifference returns g(x) - g(x-1). It is the inverse of an
// indefinite RowSum over x and is used to check closed forms.
func FiniteDifference(g Symbolic, x Var) Symbolic {
	return Sub(g, g.Subst(map[Var]Symbolic{x: AddLit(x, -1)}))
}

// bindIndex prepares substitution into the body of a reduction over index.
// The index itself is dropped from the map; if any replacement mentions the
// index, the index is renamed to a fresh variable first so that it is not
// captured.
func bindIndex(index Var, body Symbolic, substitution map[Var]Symbolic) (Var, Symbolic, map[Var]Symbolic) {
	inner := make(map[Var]Symbolic, len(substitution))
	capture := false
	free := Vars(body)
	for k, v := range substitution {
		if k == index {
			continue
		}
		inner[k] = v
		if _, used := free[k]; used && ContainsVar(v, index) {
			capture = true
		}
	}
	if capture {
		fresh := FreshVar()
		body = body.Subst(map[Var]Symbolic{index: fresh})
		index = fresh
	}
	return index, body, inner
}

// literalCount validates a literal reduction range and returns its length.
func literalCount(function string, rng Const) int64 {
	n, ok := wholeNumber(rng.val())
	if !ok || n < 0 {
		panic(invalidRange(function, rng))
	}
	return n
}

// numberOf returns the numeric value of s if it is a literal.
func numberOf(s Symbolic) (exact.Number, bool) {
	c, ok := s.(Const)
	if !ok {
		return nil, false
	}
	return c.val(), true
}
