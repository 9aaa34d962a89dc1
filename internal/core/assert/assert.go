// Package assert holds the fatal guards used by the engine core.
//
// A failed guard panics with a *Violation. Nothing in the engine recovers
// it, so an unhandled violation terminates the process with the message
// and a stack trace.
package assert

import "fmt"

// Violation is the panic value raised by a failed guard.
type Violation struct {
	Msg string
}

func (v *Violation) Error() string {
	return "assertion failed: " + v.Msg
}

// That panics with a *Violation when cond is false.
func That(cond bool, format string, args ...any) {
	if !cond {
		Fail(format, args...)
	}
}

// Fail unconditionally panics with a *Violation.
func Fail(format string, args ...any) {
	panic(&Violation{Msg: fmt.Sprintf(format, args...)})
}
