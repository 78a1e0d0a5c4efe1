// Package assert implements the fail-fast invariant checks used throughout
// the solver. A broken invariant means an upstream component (a game
// generator, a decoder, a hand-built treeplex) produced inconsistent data,
// so checks panic with a *Violation rather than returning an error.
//
// Public entry points that face user input convert violations back into
// ordinary errors with Recover.
package assert

import (
	"github.com/pkg/errors"
)

// Violation is the panic value raised when an invariant does not hold.
type Violation struct {
	err error
}

// Error implements error.
func (v *Violation) Error() string {
	return "invariant violation: " + v.err.Error()
}

// Unwrap returns the underlying error, which carries the stack trace
// of the failed check.
func (v *Violation) Unwrap() error {
	return v.err
}

// Failf panics with a *Violation built from the given message.
func Failf(format string, args ...interface{}) {
	panic(&Violation{err: errors.Errorf(format, args...)})
}

// That panics with a *Violation if cond is false.
func That(cond bool, format string, args ...interface{}) {
	if !cond {
		Failf(format, args...)
	}
}

// Recover converts a *Violation panic into an error stored in errp.
// Other panics are propagated unchanged. It must be called directly
// by a deferred statement.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}

	v, ok := r.(*Violation)
	if !ok {
		panic(r)
	}

	*errp = v
}

// IsViolation reports whether err, or any error it wraps, was produced
// by a failed invariant.
func IsViolation(err error) bool {
	var v *Violation
	return errors.As(err, &v)
}
