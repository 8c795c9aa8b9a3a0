// Package invariant holds programming-error assertions. A failed assertion
// panics with a *Violation, which callers that own a unit of work (one file)
// turn back into an error with Recover.
package invariant

import (
	"errors"
	"fmt"
)

// ErrViolation is wrapped by every *Violation.
var ErrViolation = errors.New("invariant violation")

// Violation is the panic value of a failed assertion.
type Violation struct {
	Message string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("%s: %s", ErrViolation, v.Message)
}

func (v *Violation) Unwrap() error {
	return ErrViolation
}

// Invariant panics with a *Violation when cond is false.
func Invariant(cond bool, format string, args ...any) {
	if !cond {
		panic(&Violation{Message: fmt.Sprintf(format, args...)})
	}
}

// Defined panics when v is nil.
func Defined[T any](v *T, what string) *T {
	Invariant(v != nil, "%s is nil", what)
	return v
}

// Recover converts a *Violation panic into *errp. Any other panic is
// re-raised. Use it as `defer invariant.Recover(&err)`.
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
