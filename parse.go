package gosymsum

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"text/scanner"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// Infix parser
// ============================================================

// ErrSyntax is wrapped by every error Parse returns for malformed input.
var ErrSyntax = errors.New("syntax error")

// Parse reads an infix expression such as
//
//	sum(i, 1, n, i^2) + prod(k, 1, n, k + 1) / 2 - x!
//
// Integers are exact and decimals are floats. Operators by increasing
// precedence: << >>, + -, * /, unary -, ^ (right associative), postfix !.
// The calls sum/RowSum, prod/RowProduct, fact/factorial, pow, shl, shr,
// bernoulli, harmonic and binomial are built in; any other call becomes an
// uninterpreted Apply.
func Parse(src string) (result Symbolic, err error) {
	p := &parser{}
	p.s.Init(strings.NewReader(src))
	p.s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	p.s.Error = func(s *scanner.Scanner, msg string) { p.fail("%s", msg) }

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok || !(errors.Is(e, ErrSyntax) || IsEngineError(e)) {
			panic(r)
		}
		result, err = nil, e
	}()

	p.next()
	result = p.parseShift()
	if p.tok != scanner.EOF {
		p.fail("unexpected %q", p.text)
	}
	return result, nil
}

// MustParse is like Parse but panics on error.
func MustParse(src string) Symbolic {
	s, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return s
}

type parser struct {
	s    scanner.Scanner
	tok  rune
	text string
}

func (p *parser) next() {
	p.tok = p.s.Scan()
	p.text = p.s.TokenText()
}

func (p *parser) fail(format string, args ...interface{}) {
	panic(fmt.Errorf("%s: %s: %w", p.s.Position, fmt.Sprintf(format, args...), ErrSyntax))
}

func (p *parser) expect(tok rune) {
	if p.tok != tok {
		p.fail("expected %q, found %q", string(tok), p.text)
	}
	p.next()
}

// shiftOp consumes a two-character << or >> and reports which it was.
func (p *parser) shiftOp() (rune, bool) {
	if (p.tok == '<' || p.tok == '>') && p.s.Peek() == p.tok {
		op := p.tok
		p.s.Next()
		p.next()
		return op, true
	}
	return 0, false
}

func (p *parser) parseShift() Symbolic {
	left := p.parseAdditive()
	for {
		op, ok := p.shiftOp()
		if !ok {
			return left
		}
		right := p.parseAdditive()
		if op == '<' {
			left = Shl(left, right)
		} else {
			left = Shr(left, right)
		}
	}
}

func (p *parser) parseAdditive() Symbolic {
	left := p.parseTerm()
	for p.tok == '+' || p.tok == '-' {
		op := p.tok
		p.next()
		right := p.parseTerm()
		if op == '+' {
			left = Add(left, right)
		} else {
			left = Sub(left, right)
		}
	}
	return left
}

func (p *parser) parseTerm() Symbolic {
	left := p.parseUnary()
	for p.tok == '*' || p.tok == '/' {
		op := p.tok
		p.next()
		right := p.parseUnary()
		if op == '*' {
			left = Mul(left, right)
		} else {
			left = Div(left, right)
		}
	}
	return left
}

func (p *parser) parseUnary() Symbolic {
	switch p.tok {
	case '-':
		p.next()
		return Neg(p.parseUnary())
	case '+':
		p.next()
		return p.parseUnary()
	}
	return p.parsePower()
}

func (p *parser) parsePower() Symbolic {
	base := p.parsePostfix()
	if p.tok != '^' {
		return base
	}
	p.next()
	return PowOf(base, p.parseUnary())
}

func (p *parser) parsePostfix() Symbolic {
	e := p.parsePrimary()
	for p.tok == '!' {
		p.next()
		e = FactorialOf(e)
	}
	return e
}

func (p *parser) parsePrimary() Symbolic {
	switch p.tok {
	case scanner.Int:
		n, err := strconv.ParseInt(p.text, 10, 64)
		if err != nil {
			p.fail("integer %s out of range", p.text)
		}
		p.next()
		return N(n)
	case scanner.Float:
		f, err := strconv.ParseFloat(p.text, 64)
		if err != nil {
			p.fail("invalid number %s", p.text)
		}
		p.next()
		return NFloat(f)
	case scanner.Ident:
		name := p.text
		p.next()
		if p.tok != '(' {
			return S(name)
		}
		return p.call(name, p.parseArgs())
	case '(':
		p.next()
		e := p.parseShift()
		p.expect(')')
		return e
	case scanner.EOF:
		p.fail("unexpected end of input")
	}
	p.fail("unexpected %q", p.text)
	return nil
}

func (p *parser) parseArgs() []Symbolic {
	p.expect('(')
	var args []Symbolic
	if p.tok == ')' {
		p.next()
		return args
	}
	for {
		args = append(args, p.parseShift())
		if p.tok == ')' {
			p.next()
			return args
		}
		p.expect(',')
	}
}

func (p *parser) call(name string, args []Symbolic) Symbolic {
	arity := func(n int) {
		if len(args) != n {
			p.fail("%s expects %d arguments, got %d", name, n, len(args))
		}
	}
	index := func() Var {
		v, ok := args[0].(Var)
		if !ok {
			p.fail("%s: index must be a variable, got %s", name, args[0])
		}
		return v
	}
	whole := func(s Symbolic) int64 {
		c, ok := s.(Const)
		if !ok || !c.IsWhole() {
			p.fail("%s: expected a whole number, got %s", name, s)
		}
		return c.WholePart()
	}

	switch name {
	case "sum", "RowSum":
		arity(4)
		return RowSumOf(index(), args[1], args[2], args[3])
	case "prod", "product", "RowProduct":
		arity(4)
		return RowProductOf(index(), args[1], args[2], args[3])
	case "fact", "factorial":
		arity(1)
		return FactorialOf(args[0])
	case "pow":
		arity(2)
		return PowOf(args[0], args[1])
	case "shl":
		arity(2)
		return Shl(args[0], args[1])
	case "shr":
		arity(2)
		return Shr(args[0], args[1])
	case "bernoulli":
		if len(args) == 1 {
			return Bernoulli(whole(args[0]), nil)
		}
		arity(2)
		return Bernoulli(whole(args[0]), args[1])
	case "harmonic":
		if len(args) == 1 {
			return Const{Harmonic(whole(args[0]))}
		}
		arity(2)
		return Const{HarmonicOrder(whole(args[0]), whole(args[1]))}
	case "binomial":
		arity(2)
		n, k := whole(args[0]), whole(args[1])
		if n < 0 {
			p.fail("binomial: negative n %d", n)
		}
		return Const{exact.Int(exact.Binomial(n, k))}
	}
	return ApplyOf(name, args...)
}
