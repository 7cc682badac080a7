package gosymsum

import (
	"fmt"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// RowProduct — Π_{index=lower}^{upper} body
// ============================================================

// RowProduct is a product the engine could not resolve. The index is bound
// in body.
type RowProduct struct {
	index              Var
	lower, upper, body Symbolic
	k                  string
}

func newRowProduct(index Var, lower, upper, body Symbolic) *RowProduct {
	r := &RowProduct{index: index, lower: lower, upper: upper, body: body}
	r.k = applicationKey(r.Function(), r.Args())
	return r
}

// RowProductOf returns Π_{index=lower}^{upper} body in closed form where one
// is known, and an unresolved RowProduct otherwise.
func RowProductOf(index Var, lower, upper, body Symbolic) Symbolic {
	switch {
	case isZero(body):
		return Zero
	case isOne(body):
		return One
	}
	rng := SumOf(upper, Neg(lower), One)
	if r := resolveRowProduct(index, lower, upper, rng, body); r != nil {
		return r
	}
	log().Debug("row product left unresolved", "index", index.Name, "body", body.String())
	return newRowProduct(index, lower, upper, body)
}

// RowProductFn multiplies body over a fresh index.
func RowProductFn(lower, upper Symbolic, body func(index Var) Symbolic) Symbolic {
	index := FreshVar()
	return RowProductOf(index, lower, upper, body(index))
}

func resolveRowProduct(index Var, lower, upper, rng, body Symbolic) Symbolic {
	c, literal := rng.(Const)
	if literal {
		literalCount("RowProduct", c)
	}
	if !ContainsVar(body, index) {
		return PowOf(body, rng)
	}
	if p, ok := body.(*Product); ok {
		if r := distributeRowProduct(index, lower, upper, rng, p.constant, p.factors); r != nil {
			return r
		}
	}
	if s, ok := body.(*Sum); ok && len(s.terms) == 1 && s.constant.IsZero() {
		// c·t collapses to a one-term Sum; it is still a product.
		for _, t := range s.terms {
			if r := distributeRowProduct(index, lower, upper, rng, t.value, productOfTerm(t.base)); r != nil {
				return r
			}
		}
	}
	if body.Equal(index) && !belowOne(lower) {
		return Div(FactorialOf(upper), FactorialOf(AddLit(lower, -1)))
	}
	if s, ok := body.(*Sum); ok {
		if shift, ok := unitShift(s, index); ok && !belowOne(Add(lower, shift)) {
			return Div(FactorialOf(Add(upper, shift)), FactorialOf(Add(lower, SubLit(shift, 1))))
		}
	}
	if literal && c.val().CmpInt(unrollLimit) < 0 {
		count := literalCount("RowProduct", c)
		operands := make([]Symbolic, 0, count)
		for i := int64(0); i < count; i++ {
			operands = append(operands, body.Subst(map[Var]Symbolic{index: AddLit(lower, i)}))
		}
		return ProductOf(operands...)
	}
	return nil
}

// distributeRowProduct uses Π c·Πf^e = c^range · Π (Π f)^e and gives up
// as soon as one factor cannot be resolved.
func distributeRowProduct(index Var, lower, upper, rng Symbolic, constant exact.Number, factors map[string]part[Atom]) Symbolic {
	operands := []Symbolic{PowOf(Const{constant}, rng)}
	for _, f := range sortedParts(factors) {
		sub := resolveRowProduct(index, lower, upper, rng, f.base)
		if sub == nil {
			return nil
		}
		operands = append(operands, PowNum(sub, f.value))
	}
	return ProductOf(operands...)
}

func productOfTerm(t Term) map[string]part[Atom] {
	return t.asProduct().factors
}

// unitShift matches body = index + k with k free of index and returns k.
func unitShift(s *Sum, index Var) (Symbolic, bool) {
	t, ok := s.terms[index.key()]
	if !ok || !t.value.IsOne() {
		return nil, false
	}
	rest := clone(s.terms)
	delete(rest, index.key())
	for _, r := range rest {
		if ContainsVar(r.base, index) {
			return nil, false
		}
	}
	return simplifySum(s.constant, rest), true
}

// belowOne reports whether s is a literal smaller than 1, where the
// factorial telescoping does not apply.
func belowOne(s Symbolic) bool {
	n, ok := numberOf(s)
	return ok && n.CmpInt(1) < 0
}

func (r *RowProduct) Index() Var      { return r.index }
func (r *RowProduct) Lower() Symbolic { return r.lower }
func (r *RowProduct) Upper() Symbolic { return r.upper }
func (r *RowProduct) Body() Symbolic  { return r.body }

func (r *RowProduct) Function() string { return "RowProduct" }
func (r *RowProduct) Args() []Symbolic { return []Symbolic{r.index, r.lower, r.upper, r.body} }

// Rebuild panics with ErrArityMismatch unless args has four entries and
// keeps the same index.
func (r *RowProduct) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 4 {
		panic(arityMismatch(r.Function(), 4, len(args)))
	}
	if !args[0].Equal(r.index) {
		panic(fmt.Errorf("gosymsum: RowProduct index %s replaced by %s: %w", r.index, args[0], ErrArityMismatch))
	}
	return RowProductOf(r.index, args[1], args[2], args[3])
}

func (r *RowProduct) Simplify() Symbolic {
	return RowProductOf(r.index, r.lower.Simplify(), r.upper.Simplify(), r.body.Simplify())
}

func (r *RowProduct) Subst(substitution map[Var]Symbolic) Symbolic {
	index, body, inner := bindIndex(r.index, r.body, substitution)
	return RowProductOf(index, r.lower.Subst(substitution), r.upper.Subst(substitution), body.Subst(inner))
}

func (r *RowProduct) Equal(other Symbolic) bool { return r.k == other.key() }
func (r *RowProduct) key() string               { return r.k }
func (r *RowProduct) asSum() *Sum               { return atomAsSum(r) }
func (r *RowProduct) asProduct() *Product       { return atomAsProduct(r) }
func (r *RowProduct) isAtom()                   {}
func (r *RowProduct) String() string            { return renderCall(r.Function(), r.Args()) }

func (r *RowProduct) collectVars(into map[Var]struct{}) {
	collectBound(r.index, r.lower, r.upper, r.body, into)
}

func (r *RowProduct) LaTeX() string {
	return fmt.Sprintf(`\prod_{%s=%s}^{%s} \left(%s\right)`, r.index.LaTeX(), r.lower.LaTeX(), r.upper.LaTeX(), r.body.LaTeX())
}
