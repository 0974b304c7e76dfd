// Package learnerr holds the one error shape the learner core needs: a
// protocol violation by the teacher. Every other recoverable
// condition (ambiguous induction, contradiction after application,
// division by zero) is modeled with a plain boolean or ok-return, not an
// error, because the core never retries and always has a concrete local
// remedy for them.
package learnerr

import (
	"errors"
	"fmt"
)

// ProtocolError is raised when the teacher's stream violates the framing
// assumptions the syntax discoverer depends on: fewer than four rewards
// observed in the first window, reward/input streams that drift out of
// alignment, or a required separator that never appears. It is fatal: the
// session driving the core should terminate rather than keep guessing.
type ProtocolError struct {
	msg   string
	human string
	wrap  error
}

func (e *ProtocolError) Error() string {
	return e.msg
}

// Detail gives the longer, operator-facing description of what went wrong.
func (e *ProtocolError) Detail() string {
	return e.human
}

// Unwrap gives the error that the ProtocolError wraps, if any.
func (e *ProtocolError) Unwrap() error {
	return e.wrap
}

// Protocol returns a new ProtocolError with both a short technical message
// and a longer operator-facing detail.
func Protocol(detail, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("protocol violation: %s", detail)
	}
	return &ProtocolError{msg: technical, human: detail}
}

// Protocolf is Protocol with the detail built from a format string.
func Protocolf(format string, a ...interface{}) error {
	return Protocol(fmt.Sprintf(format, a...), "")
}

// WrapProtocol wraps an existing error in a ProtocolError.
func WrapProtocol(e error, detail, technical string) error {
	if technical == "" {
		technical = fmt.Sprintf("protocol violation: %s", detail)
	}
	return &ProtocolError{msg: technical, human: detail, wrap: e}
}

// Detail gets the operator-facing description for err if it is (or wraps) a
// ProtocolError, else falls back to err.Error().
func Detail(err error) string {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Detail()
	}
	return err.Error()
}
