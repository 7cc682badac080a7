package gosymsum

import (
	"errors"
	"fmt"

	"github.com/njchilds90/gosymsum/exact"
)

// unrollLimit is the length below which a literal range is expanded term by
// term instead of solved in closed form.
const unrollLimit = 100

// ============================================================
// RowSum — Σ_{index=lower}^{upper} body
// ============================================================

// RowSum is a sum the engine could not resolve. The index is bound in body.
type RowSum struct {
	index              Var
	lower, upper, body Symbolic
	k                  string
}

func newRowSum(index Var, lower, upper, body Symbolic) *RowSum {
	r := &RowSum{index: index, lower: lower, upper: upper, body: body}
	r.k = applicationKey(r.Function(), r.Args())
	return r
}

// RowSumOf returns Σ_{index=lower}^{upper} body in closed form where one is
// known, and an unresolved RowSum otherwise. A literal range that is
// negative or not whole panics with ErrInvalidRange.
func RowSumOf(index Var, lower, upper, body Symbolic) Symbolic {
	if isZero(body) {
		return Zero
	}
	rng := SumOf(upper, Neg(lower), One)
	if c, ok := rng.(Const); ok {
		if count := literalCount("RowSum", c); count < unrollLimit {
			operands := make([]Symbolic, 0, count)
			for i := int64(0); i < count; i++ {
				operands = append(operands, body.Subst(map[Var]Symbolic{index: AddLit(lower, i)}))
			}
			return SumOf(operands...)
		}
	}
	if r := resolveRowSum(index, lower, upper, rng, body); r != nil {
		return r
	}
	log().Debug("row sum left unresolved", "index", index.Name, "body", body.String())
	return newRowSum(index, lower, upper, body)
}

// RowSumFn sums body over a fresh index.
func RowSumFn(lower, upper Symbolic, body func(index Var) Symbolic) Symbolic {
	index := FreshVar()
	return RowSumOf(index, lower, upper, body(index))
}

// resolveRowSum returns nil when no closed form applies to body.
func resolveRowSum(index Var, lower, upper, rng, body Symbolic) Symbolic {
	if s, ok := body.(*Sum); ok {
		operands := []Symbolic{ProductOf(Const{s.constant}, rng)}
		for _, t := range sortedParts(s.terms) {
			sub := resolveRowSum(index, lower, upper, rng, t.base)
			if sub == nil {
				sub = newRowSum(index, lower, upper, t.base)
			}
			operands = append(operands, ProductOf(Const{t.value}, sub))
		}
		return SumOf(operands...)
	}
	if body.Equal(index) {
		return powRowSum(index, lower, upper, 1)
	}
	if !ContainsVar(body, index) {
		return ProductOf(body, rng)
	}
	p, ok := body.(*Product)
	if !ok {
		return nil
	}
	if len(p.factors) == 1 {
		for _, f := range p.factors {
			power, whole := wholeNumber(f.value)
			if !whole || !f.base.Equal(index) {
				return nil
			}
			sub := powRowSum(index, lower, upper, power)
			if sub == nil {
				return nil
			}
			return ProductOf(sub, Const{p.constant})
		}
	}
	free, bound := newParts[Atom](), newParts[Atom]()
	for _, f := range p.factors {
		if ContainsVar(f.base, index) {
			bound.set(f.base, f.value)
		} else {
			free.set(f.base, f.value)
		}
	}
	if len(free.data) == 0 {
		return nil
	}
	left := simplifyProduct(p.constant, free.data)
	right := simplifyProduct(exact.One, bound.data)
	sub := resolveRowSum(index, lower, upper, rng, right)
	if sub == nil {
		sub = newRowSum(index, lower, upper, right)
	}
	return ProductOf(left, sub)
}

// powRowSum sums index^power. Non-negative powers use Faulhaber's formula
// through Bernoulli polynomials; negative powers over literal bounds use
// generalized harmonic numbers.
func powRowSum(index Var, lower, upper Symbolic, power int64) Symbolic {
	if power >= 0 {
		next := power + 1
		diff := Sub(Bernoulli(next, AddLit(upper, 1)), Bernoulli(next, lower))
		return DivLit(diff, next)
	}
	lo, okLo := numberOf(lower)
	hi, okHi := numberOf(upper)
	if !okLo || !okHi || lo.CmpInt(1) <= 0 || hi.Sign() < 0 {
		return nil
	}
	a, wholeLo := wholeNumber(lo)
	b, wholeHi := wholeNumber(hi)
	if !wholeLo || !wholeHi {
		return nil
	}
	return harmonicDifference(a, b, -power)
}

// harmonicDifference returns H(upper,m) - H(lower-1,m), or nil when the
// exact value does not fit the rational representation.
func harmonicDifference(lower, upper, m int64) (result Symbolic) {
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(error)
			if !ok || !errors.Is(err, ErrOverflow) {
				panic(r)
			}
			log().Debug("harmonic closed form overflows", "lower", lower, "upper", upper, "order", m)
			result = nil
		}
	}()
	return Const{HarmonicOrder(upper, m).Sub(HarmonicOrder(lower-1, m))}
}

func (r *RowSum) Index() Var      { return r.index }
func (r *RowSum) Lower() Symbolic { return r.lower }
func (r *RowSum) Upper() Symbolic { return r.upper }
func (r *RowSum) Body() Symbolic  { return r.body }

func (r *RowSum) Function() string { return "RowSum" }
func (r *RowSum) Args() []Symbolic { return []Symbolic{r.index, r.lower, r.upper, r.body} }

// Rebuild panics with ErrArityMismatch unless args has four entries and
// keeps the same index.
func (r *RowSum) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 4 {
		panic(arityMismatch(r.Function(), 4, len(args)))
	}
	if !args[0].Equal(r.index) {
		panic(fmt.Errorf("gosymsum: RowSum index %s replaced by %s: %w", r.index, args[0], ErrArityMismatch))
	}
	return RowSumOf(r.index, args[1], args[2], args[3])
}

func (r *RowSum) Simplify() Symbolic {
	return RowSumOf(r.index, r.lower.Simplify(), r.upper.Simplify(), r.body.Simplify())
}

func (r *RowSum) Subst(substitution map[Var]Symbolic) Symbolic {
	index, body, inner := bindIndex(r.index, r.body, substitution)
	return RowSumOf(index, r.lower.Subst(substitution), r.upper.Subst(substitution), body.Subst(inner))
}

func (r *RowSum) Equal(other Symbolic) bool { return r.k == other.key() }
func (r *RowSum) key() string               { return r.k }
func (r *RowSum) asSum() *Sum               { return atomAsSum(r) }
func (r *RowSum) asProduct() *Product       { return atomAsProduct(r) }
func (r *RowSum) isAtom()                   {}
func (r *RowSum) String() string            { return renderCall(r.Function(), r.Args()) }

func (r *RowSum) collectVars(into map[Var]struct{}) {
	collectBound(r.index, r.lower, r.upper, r.body, into)
}

func (r *RowSum) LaTeX() string {
	return fmt.Sprintf(`\sum_{%s=%s}^{%s} \left(%s\right)`, r.index.LaTeX(), r.lower.LaTeX(), r.upper.LaTeX(), r.body.LaTeX())
}

// collectBound adds the free variables of a reduction: those of the bounds
// and those of the body other than the index.
func collectBound(index Var, lower, upper, body Symbolic, into map[Var]struct{}) {
	lower.collectVars(into)
	upper.collectVars(into)
	inBody := Vars(body)
	delete(inBody, index)
	for v := range inBody {
		into[v] = struct{}{}
	}
}
