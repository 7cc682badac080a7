package gosymsum

import (
	"errors"
	"fmt"

	"github.com/njchilds90/gosymsum/exact"
)

// Contract violations panic with an error wrapping one of these sentinels.
// Use Try to turn such a panic back into an error.
var (
	ErrDivisionByZero = exact.ErrDivisionByZero
	ErrOverflow       = exact.ErrOverflow
	ErrInvalidRange   = errors.New("invalid range")
	ErrArityMismatch  = errors.New("arity mismatch")
)

// Try runs fn and converts an engine panic (one wrapping a sentinel above)
// into an error. Any other panic is propagated unchanged.
func Try(fn func() Symbolic) (result Symbolic, err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		e, ok := r.(error)
		if !ok || !IsEngineError(e) {
			panic(r)
		}
		result, err = nil, e
	}()
	return fn(), nil
}

// IsEngineError reports whether err stems from an engine contract violation.
func IsEngineError(err error) bool {
	return errors.Is(err, ErrDivisionByZero) ||
		errors.Is(err, ErrOverflow) ||
		errors.Is(err, ErrInvalidRange) ||
		errors.Is(err, ErrArityMismatch)
}

func arityMismatch(function string, want, got int) error {
	return fmt.Errorf("gosymsum: %s expects %d arguments, got %d: %w", function, want, got, ErrArityMismatch)
}

func invalidRange(function string, rng Symbolic) error {
	return fmt.Errorf("gosymsum: %s over a range of %s elements: %w", function, rng, ErrInvalidRange)
}
