// Package gosymsum provides a deterministic computer-algebra kernel for Go
// that evaluates finite symbolic sums and products in closed form.
//
// Design goals:
//   - Canonical normal form: two expressions denoting the same quantity are
//     structurally equal, so Equal is a plain comparison
//   - Exact rational arithmetic (package exact) with a float64 fallback
//   - Closed forms for Σ and Π over a bounded index (Faulhaber, harmonic
//     numbers, factorial telescoping), unrolling small literal ranges
//   - Safe to call from concurrent handlers: the memo tables are synchronized
//   - AI/LLM friendly: JSON, LaTeX, an infix parser and an MCP server
package gosymsum

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Core Interface
// ============================================================

// Symbolic is a canonical expression. The set of implementations is closed:
// Const, Var, *Sum, *Product, *Apply, *Pow, *Factorial, *ShiftLeft,
// *ShiftRight, *RowSum and *RowProduct. Values are immutable; every
// transformation returns a new canonical value.
type Symbolic interface {
	fmt.Stringer
	Simplify() Symbolic
	Subst(substitution map[Var]Symbolic) Symbolic
	Equal(other Symbolic) bool
	LaTeX() string

	key() string
	asSum() *Sum
	collectVars(into map[Var]struct{})
	toJSON() map[string]interface{}
}

// Term is anything that can be the base of a summand: a *Product or an Atom.
type Term interface {
	Symbolic
	asProduct() *Product
}

// Atom is anything that can be the base of a product factor: Const, Var and
// the Apply family.
type Atom interface {
	Term
	isAtom()
}

// ============================================================
// Const — literal number
// ============================================================

// Const is a literal. The zero value is the rational 0.
type Const struct{ Value exact.Number }

var (
	Zero = Const{exact.Zero}
	One  = Const{exact.One}
)

func N(n int64) Const                   { return Const{exact.Int(n)} }
func F(p, q int64) Const                { return Const{exact.NewRational(p, q)} }
func NFloat(f float64) Const            { return Const{exact.Float(f)} }
func NewConst(value exact.Number) Const { return Const{value} }

func (c Const) val() exact.Number {
	if c.Value == nil {
		return exact.Zero
	}
	return c.Value
}

func (c Const) Simplify() Symbolic              { return c }
func (c Const) Subst(map[Var]Symbolic) Symbolic { return c }
func (c Const) Equal(other Symbolic) bool       { return c.key() == other.key() }
func (c Const) String() string                  { return c.val().String() }
func (c Const) key() string                     { return "c" + c.val().Key() }
func (c Const) asSum() *Sum                     { return &Sum{constant: c.val(), k: sumKey(c.val(), nil)} }
func (c Const) asProduct() *Product             { return &Product{constant: c.val(), k: productKey(c.val(), nil)} }
func (c Const) collectVars(map[Var]struct{})    {}
func (c Const) isAtom()                         {}
func (c Const) Float64() float64                { return c.val().Float64() }
func (c Const) IsWhole() bool                   { return c.val().IsWhole() }
func (c Const) WholePart() int64                { return c.val().WholePart() }
func (c Const) FractionalPart() exact.Number    { return c.val().FractionalPart() }

func (c Const) LaTeX() string {
	r, ok := c.val().(exact.Rational)
	if !ok || r.IsWhole() {
		return c.String()
	}
	sign, num := "", r.Num()
	if num < 0 {
		sign, num = "-", -num
	}
	return fmt.Sprintf("%s\\frac{%d}{%d}", sign, num, r.Den())
}

func isZero(s Symbolic) bool { c, ok := s.(Const); return ok && c.val().IsZero() }
func isOne(s Symbolic) bool  { c, ok := s.(Const); return ok && c.val().IsOne() }

// ============================================================
// Var — free variable
// ============================================================

// Var is a free variable; two variables are equal when their names are.
type Var struct{ Name string }

func S(name string) Var { return Var{Name: name} }

var freshCounter atomic.Int64

// FreshVar returns a variable distinct from every variable generated before.
// Its name cannot be produced by Parse.
func FreshVar() Var { return FreshVarPrefix("%") }

func FreshVarPrefix(prefix string) Var {
	return Var{Name: prefix + strconv.FormatInt(freshCounter.Add(1), 10)}
}

func (v Var) Simplify() Symbolic { return v }
func (v Var) Subst(substitution map[Var]Symbolic) Symbolic {
	if r, ok := substitution[v]; ok {
		return r
	}
	return v
}
func (v Var) Equal(other Symbolic) bool         { return v.key() == other.key() }
func (v Var) String() string                    { return v.Name }
func (v Var) LaTeX() string                     { return v.Name }
func (v Var) key() string                       { return "v" + strconv.Quote(v.Name) }
func (v Var) asSum() *Sum                       { return atomAsSum(v) }
func (v Var) asProduct() *Product               { return atomAsProduct(v) }
func (v Var) collectVars(into map[Var]struct{}) { into[v] = struct{}{} }
func (v Var) isAtom()                           {}

// ============================================================
// Parts — sparse coefficient/exponent maps
// ============================================================

// part pairs a base with its coefficient (in a Sum) or exponent (in a
// Product).
type part[T Symbolic] struct {
	base  T
	value exact.Number
}

// parts treats an absent key as zero and drops entries that become zero.
type parts[T Symbolic] struct {
	data map[string]part[T]
}

func newParts[T Symbolic]() parts[T] { return parts[T]{data: map[string]part[T]{}} }

func (p parts[T]) get(base T) exact.Number {
	if e, ok := p.data[base.key()]; ok {
		return e.value
	}
	return exact.Zero
}

func (p parts[T]) set(base T, value exact.Number) {
	k := base.key()
	if value.IsZero() {
		delete(p.data, k)
		return
	}
	p.data[k] = part[T]{base: base, value: value}
}

func (p parts[T]) add(base T, value exact.Number) { p.set(base, p.get(base).Add(value)) }

// sortedParts returns the entries of m ordered by key, which is the only
// iteration order used for keys and rendering.
func sortedParts[T Symbolic](m map[string]part[T]) []part[T] {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]part[T], len(keys))
	for i, k := range keys {
		out[i] = m[k]
	}
	return out
}

func partsKey[T Symbolic](prefix string, constant exact.Number, m map[string]part[T]) string {
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(constant.Key())
	b.WriteByte('[')
	for i, e := range sortedParts(m) {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(e.base.key())
		b.WriteByte('|')
		b.WriteString(e.value.Key())
	}
	b.WriteByte(']')
	return b.String()
}

// ============================================================
// Top-level helpers
// ============================================================

// Equal reports whether a and b have the same canonical form.
func Equal(a, b Symbolic) bool { return a.key() == b.key() }

func Simplify(s Symbolic) Symbolic { return s.Simplify() }
func String(s Symbolic) string     { return s.String() }
func LaTeX(s Symbolic) string      { return s.LaTeX() }

func atomAsSum(a Atom) *Sum {
	terms := map[string]part[Term]{a.key(): {base: a, value: exact.One}}
	return &Sum{constant: exact.Zero, terms: terms, k: sumKey(exact.Zero, terms)}
}

func atomAsProduct(a Atom) *Product {
	factors := map[string]part[Atom]{a.key(): {base: a, value: exact.One}}
	return &Product{constant: exact.One, factors: factors, k: productKey(exact.One, factors)}
}
