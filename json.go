package gosymsum

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/njchilds90/gosymsum/exact"
)

// ============================================================
// JSON Serialization
// ============================================================

// ToJSON encodes s as a tree of objects discriminated by "type": const, var,
// apply, pow, factorial, shl, shr, sum, product, rowsum and rowproduct.
// Numbers are strings: "3", "-1/2", or a decimal for floats.
func ToJSON(s Symbolic) (string, error) {
	b, err := json.Marshal(s.toJSON())
	return string(b), err
}

// ToJSONValue returns the decoded-JSON form of s.
func ToJSONValue(s Symbolic) map[string]interface{} { return s.toJSON() }

// FromJSON decodes the output of ToJSON.
func FromJSON(data []byte) (Symbolic, error) {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode expression: %w", err)
	}
	return FromJSONValue(m)
}

func (c Const) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "const", "value": c.val().String()}
}

func (v Var) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "var", "name": v.Name}
}

func (s *Sum) toJSON() map[string]interface{} {
	terms := make([]interface{}, 0, len(s.terms))
	for _, t := range sortedParts(s.terms) {
		terms = append(terms, map[string]interface{}{"base": t.base.toJSON(), "coeff": t.value.String()})
	}
	return map[string]interface{}{"type": "sum", "constant": s.constant.String(), "terms": terms}
}

func (p *Product) toJSON() map[string]interface{} {
	factors := make([]interface{}, 0, len(p.factors))
	for _, f := range sortedParts(p.factors) {
		factors = append(factors, map[string]interface{}{"base": f.base.toJSON(), "exponent": f.value.String()})
	}
	return map[string]interface{}{"type": "product", "constant": p.constant.String(), "factors": factors}
}

func (a *Apply) toJSON() map[string]interface{} {
	args := make([]interface{}, len(a.args))
	for i, arg := range a.args {
		args[i] = arg.toJSON()
	}
	return map[string]interface{}{"type": "apply", "function": a.function, "args": args}
}

func (p *Pow) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "pow", "base": p.base.toJSON(), "exponent": p.exponent.toJSON()}
}

func (f *Factorial) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "factorial", "arg": f.arg.toJSON()}
}

func (s *ShiftLeft) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "shl", "value": s.value.toJSON(), "amount": s.amount.toJSON()}
}

func (s *ShiftRight) toJSON() map[string]interface{} {
	return map[string]interface{}{"type": "shr", "value": s.value.toJSON(), "amount": s.amount.toJSON()}
}

func (r *RowSum) toJSON() map[string]interface{} {
	return reductionJSON("rowsum", r.index, r.lower, r.upper, r.body)
}

func (r *RowProduct) toJSON() map[string]interface{} {
	return reductionJSON("rowproduct", r.index, r.lower, r.upper, r.body)
}

func reductionJSON(typ string, index Var, lower, upper, body Symbolic) map[string]interface{} {
	return map[string]interface{}{
		"type":  typ,
		"index": index.Name,
		"lower": lower.toJSON(),
		"upper": upper.toJSON(),
		"body":  body.toJSON(),
	}
}

// ParseNumber parses "3", "-1/2" or a decimal such as "0.25" (a Float).
func ParseNumber(text string) (exact.Number, error) {
	if strings.ContainsAny(text, ".eEIN") {
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", text, err)
		}
		return exact.Float(f), nil
	}
	num, den, fraction := strings.Cut(text, "/")
	n, err := strconv.ParseInt(strings.TrimSpace(num), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", text, err)
	}
	if !fraction {
		return exact.Int(n), nil
	}
	d, err := strconv.ParseInt(strings.TrimSpace(den), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", text, err)
	}
	if d == 0 {
		return nil, fmt.Errorf("invalid number %q: %w", text, ErrDivisionByZero)
	}
	return exact.NewRational(n, d), nil
}

// FromJSONValue decodes an already unmarshalled expression object. Engine
// panics raised while rebuilding the canonical form are returned as errors.
func FromJSONValue(data map[string]interface{}) (result Symbolic, err error) {
	defer func() {
		if r := recover(); r != nil {
			e, ok := r.(error)
			if !ok || !IsEngineError(e) {
				panic(r)
			}
			result, err = nil, e
		}
	}()
	return fromJSON(data)
}

func fromJSON(data map[string]interface{}) (Symbolic, error) {
	if data == nil {
		return nil, fmt.Errorf("expression must be an object")
	}
	typAny, ok := data["type"]
	if !ok {
		return nil, fmt.Errorf("missing 'type' field")
	}
	typ, ok := typAny.(string)
	if !ok || typ == "" {
		return nil, fmt.Errorf("field 'type' must be a non-empty string")
	}

	subExpr := func(field string) (Symbolic, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an object", typ, field)
		}
		e, err := fromJSON(m)
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", typ, field, err)
		}
		return e, nil
	}

	subObjArray := func(field string) ([]map[string]interface{}, error) {
		v, ok := data[field]
		if !ok {
			return nil, fmt.Errorf("%s: missing %q", typ, field)
		}
		raw, ok := v.([]interface{})
		if !ok {
			return nil, fmt.Errorf("%s: %q must be an array", typ, field)
		}
		out := make([]map[string]interface{}, len(raw))
		for i, it := range raw {
			m, ok := it.(map[string]interface{})
			if !ok {
				return nil, fmt.Errorf("%s: %q[%d] must be an object", typ, field, i)
			}
			out[i] = m
		}
		return out, nil
	}

	subString := func(m map[string]interface{}, field string) (string, error) {
		v, ok := m[field]
		if !ok {
			return "", fmt.Errorf("%s: missing %q", typ, field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return "", fmt.Errorf("%s: %q must be a non-empty string", typ, field)
		}
		return s, nil
	}

	subNumber := func(m map[string]interface{}, field string) (exact.Number, error) {
		s, err := subString(m, field)
		if err != nil {
			return nil, err
		}
		n, err := ParseNumber(s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", typ, err)
		}
		return n, nil
	}

	// entries decodes [{"base": expr, valueField: number}, ...].
	entries := func(field, valueField string, each func(base Symbolic, value exact.Number)) error {
		objs, err := subObjArray(field)
		if err != nil {
			return err
		}
		for i, o := range objs {
			baseM, ok := o["base"].(map[string]interface{})
			if !ok {
				return fmt.Errorf("%s: %s[%d]: 'base' must be an object", typ, field, i)
			}
			base, err := fromJSON(baseM)
			if err != nil {
				return fmt.Errorf("%s: %s[%d]: %w", typ, field, i, err)
			}
			value, err := subNumber(o, valueField)
			if err != nil {
				return err
			}
			each(base, value)
		}
		return nil
	}

	reduction := func(build func(Var, Symbolic, Symbolic, Symbolic) Symbolic) (Symbolic, error) {
		index, err := subString(data, "index")
		if err != nil {
			return nil, err
		}
		lower, err := subExpr("lower")
		if err != nil {
			return nil, err
		}
		upper, err := subExpr("upper")
		if err != nil {
			return nil, err
		}
		body, err := subExpr("body")
		if err != nil {
			return nil, err
		}
		return build(S(index), lower, upper, body), nil
	}

	binary := func(first, second string, build func(a, b Symbolic) Symbolic) (Symbolic, error) {
		a, err := subExpr(first)
		if err != nil {
			return nil, err
		}
		b, err := subExpr(second)
		if err != nil {
			return nil, err
		}
		return build(a, b), nil
	}

	switch typ {
	case "const":
		n, err := subNumber(data, "value")
		if err != nil {
			return nil, err
		}
		return Const{n}, nil

	case "var":
		name, err := subString(data, "name")
		if err != nil {
			return nil, err
		}
		return S(name), nil

	case "sum":
		constant, err := subNumber(data, "constant")
		if err != nil {
			return nil, err
		}
		operands := []Symbolic{Const{constant}}
		err = entries("terms", "coeff", func(base Symbolic, coeff exact.Number) {
			operands = append(operands, ProductOf(base, Const{coeff}))
		})
		if err != nil {
			return nil, err
		}
		return SumOf(operands...), nil

	case "product":
		constant, err := subNumber(data, "constant")
		if err != nil {
			return nil, err
		}
		operands := []Symbolic{Const{constant}}
		err = entries("factors", "exponent", func(base Symbolic, exponent exact.Number) {
			operands = append(operands, PowNum(base, exponent))
		})
		if err != nil {
			return nil, err
		}
		return ProductOf(operands...), nil

	case "apply":
		name, err := subString(data, "function")
		if err != nil {
			return nil, err
		}
		objs, err := subObjArray("args")
		if err != nil {
			return nil, err
		}
		args := make([]Symbolic, len(objs))
		for i, o := range objs {
			e, err := fromJSON(o)
			if err != nil {
				return nil, fmt.Errorf("apply: args[%d]: %w", i, err)
			}
			args[i] = e
		}
		return ApplyOf(name, args...), nil

	case "pow":
		return binary("base", "exponent", PowOf)

	case "factorial":
		arg, err := subExpr("arg")
		if err != nil {
			return nil, err
		}
		return FactorialOf(arg), nil

	case "shl":
		return binary("value", "amount", Shl)

	case "shr":
		return binary("value", "amount", Shr)

	case "rowsum":
		return reduction(RowSumOf)

	case "rowproduct":
		return reduction(RowProductOf)
	}
	return nil, fmt.Errorf("unknown expression type: %s", typ)
}
