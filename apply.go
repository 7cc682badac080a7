package gosymsum

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymsum/exact"
)

// Application is implemented by every function-application node: *Apply,
// *Pow, *Factorial, *ShiftLeft, *ShiftRight, *RowSum and *RowProduct.
// Rebuild reconstructs the node from new arguments through the canonical
// constructor and panics with ErrArityMismatch on a wrong argument list.
type Application interface {
	Atom
	Function() string
	Args() []Symbolic
	Rebuild(args []Symbolic) Symbolic
}

func applicationKey(function string, args []Symbolic) string {
	var b strings.Builder
	b.WriteString("a")
	b.WriteString(strconv.Quote(function))
	b.WriteByte('(')
	for i, a := range args {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(a.key())
	}
	b.WriteByte(')')
	return b.String()
}

func collectArgs(args []Symbolic, into map[Var]struct{}) {
	for _, a := range args {
		a.collectVars(into)
	}
}

func renderCall(function string, args []Symbolic) string {
	texts := make([]string, len(args))
	for i, a := range args {
		texts[i] = a.String()
	}
	return function + "(" + strings.Join(texts, ", ") + ")"
}

type builtin struct {
	arity int
	build func(args []Symbolic) Symbolic
}

// builtins maps reserved function names to their canonical constructors so
// that ApplyOf never produces a generic node shadowing a specialized one.
// It is filled in init because the constructors refer back to ApplyOf.
var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"pow":        {2, func(a []Symbolic) Symbolic { return PowOf(a[0], a[1]) }},
		"factorial":  {1, func(a []Symbolic) Symbolic { return FactorialOf(a[0]) }},
		"shl":        {2, func(a []Symbolic) Symbolic { return Shl(a[0], a[1]) }},
		"shr":        {2, func(a []Symbolic) Symbolic { return Shr(a[0], a[1]) }},
		"RowSum":     {4, func(a []Symbolic) Symbolic { return RowSumOf(indexArg("RowSum", a[0]), a[1], a[2], a[3]) }},
		"RowProduct": {4, func(a []Symbolic) Symbolic { return RowProductOf(indexArg("RowProduct", a[0]), a[1], a[2], a[3]) }},
	}
}

func indexArg(function string, s Symbolic) Var {
	v, ok := s.(Var)
	if !ok {
		panic(fmt.Errorf("gosymsum: %s index must be a variable, got %s: %w", function, s, ErrArityMismatch))
	}
	return v
}

// ============================================================
// Apply — uninterpreted function application
// ============================================================

// Apply is an application of a named function the engine does not
// interpret, such as f(i) inside a sum.
type Apply struct {
	function string
	args     []Symbolic
	k        string
}

// ApplyOf applies function to args. Reserved names (pow, factorial, shl,
// shr, RowSum, RowProduct) dispatch to their dedicated constructors.
func ApplyOf(function string, args ...Symbolic) Symbolic {
	if b, ok := builtins[function]; ok {
		if len(args) != b.arity {
			panic(arityMismatch(function, b.arity, len(args)))
		}
		return b.build(args)
	}
	args = append([]Symbolic(nil), args...)
	return &Apply{function: function, args: args, k: applicationKey(function, args)}
}

func (a *Apply) Function() string { return a.function }
func (a *Apply) Args() []Symbolic { return append([]Symbolic(nil), a.args...) }

func (a *Apply) Rebuild(args []Symbolic) Symbolic {
	if len(args) != len(a.args) {
		panic(arityMismatch(a.function, len(a.args), len(args)))
	}
	return ApplyOf(a.function, args...)
}

func (a *Apply) Simplify() Symbolic { return a.Rebuild(mapArgs(a.args, Symbolic.Simplify)) }
func (a *Apply) Subst(substitution map[Var]Symbolic) Symbolic {
	return a.Rebuild(mapArgs(a.args, func(s Symbolic) Symbolic { return s.Subst(substitution) }))
}
func (a *Apply) Equal(other Symbolic) bool         { return a.k == other.key() }
func (a *Apply) key() string                       { return a.k }
func (a *Apply) asSum() *Sum                       { return atomAsSum(a) }
func (a *Apply) asProduct() *Product               { return atomAsProduct(a) }
func (a *Apply) collectVars(into map[Var]struct{}) { collectArgs(a.args, into) }
func (a *Apply) isAtom()                           {}
func (a *Apply) String() string                    { return renderCall(a.function, a.args) }

func (a *Apply) LaTeX() string {
	texts := make([]string, len(a.args))
	for i, arg := range a.args {
		texts[i] = arg.LaTeX()
	}
	return fmt.Sprintf(`\operatorname{%s}\left(%s\right)`, a.function, strings.Join(texts, ", "))
}

func mapArgs(args []Symbolic, f func(Symbolic) Symbolic) []Symbolic {
	out := make([]Symbolic, len(args))
	for i, a := range args {
		out[i] = f(a)
	}
	return out
}

// ============================================================
// Factorial
// ============================================================

// maxFactorial is the largest n whose factorial fits in an int64.
const maxFactorial = 20

// Factorial is x! for an argument that is not a small whole literal.
type Factorial struct {
	arg Symbolic
	k   string
}

// FactorialOf evaluates n! for whole literals 0 <= n <= 20 and keeps a
// Factorial node otherwise.
func FactorialOf(x Symbolic) Symbolic {
	if c, ok := x.(Const); ok && c.IsWhole() {
		if n := c.WholePart(); n >= 0 && n <= maxFactorial {
			result := int64(1)
			for i := int64(2); i <= n; i++ {
				result *= i
			}
			return N(result)
		}
	}
	f := &Factorial{arg: x}
	f.k = applicationKey(f.Function(), f.Args())
	return f
}

func (f *Factorial) Arg() Symbolic    { return f.arg }
func (f *Factorial) Function() string { return "factorial" }
func (f *Factorial) Args() []Symbolic { return []Symbolic{f.arg} }

func (f *Factorial) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 1 {
		panic(arityMismatch(f.Function(), 1, len(args)))
	}
	return FactorialOf(args[0])
}

func (f *Factorial) Simplify() Symbolic { return FactorialOf(f.arg.Simplify()) }
func (f *Factorial) Subst(substitution map[Var]Symbolic) Symbolic {
	return FactorialOf(f.arg.Subst(substitution))
}
func (f *Factorial) Equal(other Symbolic) bool         { return f.k == other.key() }
func (f *Factorial) key() string                       { return f.k }
func (f *Factorial) asSum() *Sum                       { return atomAsSum(f) }
func (f *Factorial) asProduct() *Product               { return atomAsProduct(f) }
func (f *Factorial) collectVars(into map[Var]struct{}) { f.arg.collectVars(into) }
func (f *Factorial) isAtom()                           {}
func (f *Factorial) String() string                    { return renderCall(f.Function(), f.Args()) }
func (f *Factorial) LaTeX() string                     { return `\left(` + f.arg.LaTeX() + `\right)!` }

// ============================================================
// Shifts
// ============================================================

// ShiftLeft is value << amount.
type ShiftLeft struct {
	value, amount Symbolic
	k             string
}

// ShiftRight is value >> amount (arithmetic shift).
type ShiftRight struct {
	value, amount Symbolic
	k             string
}

// Shl evaluates value << amount when both are whole literals and the result
// fits in an int64.
func Shl(value, amount Symbolic) Symbolic {
	if v, a, ok := wholeLiterals(value, amount); ok && a >= 0 && a < 63 {
		if shifted := v << a; shifted>>a == v {
			return N(shifted)
		}
	}
	s := &ShiftLeft{value: value, amount: amount}
	s.k = applicationKey(s.Function(), s.Args())
	return s
}

// Shr evaluates value >> amount when both are whole literals.
func Shr(value, amount Symbolic) Symbolic {
	if v, a, ok := wholeLiterals(value, amount); ok && a >= 0 {
		if a > 63 {
			a = 63
		}
		return N(v >> a)
	}
	s := &ShiftRight{value: value, amount: amount}
	s.k = applicationKey(s.Function(), s.Args())
	return s
}

func wholeLiterals(a, b Symbolic) (int64, int64, bool) {
	ca, okA := a.(Const)
	cb, okB := b.(Const)
	if !okA || !okB || !ca.IsWhole() || !cb.IsWhole() {
		return 0, 0, false
	}
	return ca.WholePart(), cb.WholePart(), true
}

func (s *ShiftLeft) Function() string { return "shl" }
func (s *ShiftLeft) Args() []Symbolic { return []Symbolic{s.value, s.amount} }
func (s *ShiftLeft) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 2 {
		panic(arityMismatch(s.Function(), 2, len(args)))
	}
	return Shl(args[0], args[1])
}
func (s *ShiftLeft) Simplify() Symbolic { return Shl(s.value.Simplify(), s.amount.Simplify()) }
func (s *ShiftLeft) Subst(substitution map[Var]Symbolic) Symbolic {
	return Shl(s.value.Subst(substitution), s.amount.Subst(substitution))
}
func (s *ShiftLeft) Equal(other Symbolic) bool         { return s.k == other.key() }
func (s *ShiftLeft) key() string                       { return s.k }
func (s *ShiftLeft) asSum() *Sum                       { return atomAsSum(s) }
func (s *ShiftLeft) asProduct() *Product               { return atomAsProduct(s) }
func (s *ShiftLeft) collectVars(into map[Var]struct{}) { collectArgs(s.Args(), into) }
func (s *ShiftLeft) isAtom()                           {}
func (s *ShiftLeft) String() string                    { return renderCall(s.Function(), s.Args()) }
func (s *ShiftLeft) LaTeX() string {
	return fmt.Sprintf(`\left(%s \ll %s\right)`, s.value.LaTeX(), s.amount.LaTeX())
}

func (s *ShiftRight) Function() string { return "shr" }
func (s *ShiftRight) Args() []Symbolic { return []Symbolic{s.value, s.amount} }
func (s *ShiftRight) Rebuild(args []Symbolic) Symbolic {
	if len(args) != 2 {
		panic(arityMismatch(s.Function(), 2, len(args)))
	}
	return Shr(args[0], args[1])
}
func (s *ShiftRight) Simplify() Symbolic { return Shr(s.value.Simplify(), s.amount.Simplify()) }
func (s *ShiftRight) Subst(substitution map[Var]Symbolic) Symbolic {
	return Shr(s.value.Subst(substitution), s.amount.Subst(substitution))
}
func (s *ShiftRight) Equal(other Symbolic) bool         { return s.k == other.key() }
func (s *ShiftRight) key() string                       { return s.k }
func (s *ShiftRight) asSum() *Sum                       { return atomAsSum(s) }
func (s *ShiftRight) asProduct() *Product               { return atomAsProduct(s) }
func (s *ShiftRight) collectVars(into map[Var]struct{}) { collectArgs(s.Args(), into) }
func (s *ShiftRight) isAtom()                           {}
func (s *ShiftRight) String() string                    { return renderCall(s.Function(), s.Args()) }
func (s *ShiftRight) LaTeX() string {
	return fmt.Sprintf(`\left(%s \gg %s\right)`, s.value.LaTeX(), s.amount.LaTeX())
}

// wholeNumber reports the int64 value of a whole literal.
func wholeNumber(n exact.Number) (int64, bool) {
	if r, ok := n.(exact.Rational); ok && r.IsWhole() {
		return r.WholePart(), true
	}
	return 0, false
}
