package aggregates

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode standardizes aggregate failure semantics across domains.
type ErrorCode string

const (
	CodeValidation         ErrorCode = "validation"
	CodeNotFound           ErrorCode = "not_found"
	CodeConflict           ErrorCode = "conflict"
	CodeInvariantViolation ErrorCode = "invariant_violation"
	CodePreconditionFailed ErrorCode = "precondition_failed"
	CodeRetryable          ErrorCode = "retryable"
	CodePartialFailure     ErrorCode = "partial_failure"
	CodeInternal           ErrorCode = "internal"
)

// Error is the canonical aggregate error wrapper.
type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Code)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Code)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Code)
	default:
		return string(e.Code)
	}
}

func (e *Error) Unwrap() error { return e.Cause }

// NewError builds an aggregate error with explicit code + operation.
func NewError(code ErrorCode, op, message string, cause error) error {
	return &Error{
		Code:    code,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Cause:   cause,
	}
}

// Wrap annotates an existing error with aggregate error semantics.
func Wrap(code ErrorCode, op string, err error) error {
	if err == nil {
		return nil
	}
	return NewError(code, op, err.Error(), err)
}

// IsCode checks whether err (or wrapped err) carries the given aggregate code.
func IsCode(err error, code ErrorCode) bool {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return false
	}
	return aggErr.Code == code
}

// CodeOf extracts the aggregate error code when available.
func CodeOf(err error) ErrorCode {
	var aggErr *Error
	if !errors.As(err, &aggErr) {
		return ""
	}
	return aggErr.Code
}

// PartialFailure is the cause attached to CodePartialFailure errors. It names
// the steps of a multi-step write that were applied before Failed broke off.
type PartialFailure struct {
	Completed []string
	Failed    string
	Cause     error
}

func (p *PartialFailure) Error() string {
	if p == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("step %q failed after %s", p.Failed, strings.Join(p.Completed, ", "))
	if p.Cause != nil {
		msg += ": " + p.Cause.Error()
	}
	return msg
}

func (p *PartialFailure) Unwrap() error { return p.Cause }

// NewPartialFailure reports a write that stopped part way.
func NewPartialFailure(op string, completed []string, failed string, cause error) error {
	pf := &PartialFailure{Completed: append([]string(nil), completed...), Failed: failed, Cause: cause}
	return NewError(CodePartialFailure, op, pf.Error(), pf)
}

// AsPartialFailure extracts the partial failure details, if any.
func AsPartialFailure(err error) (*PartialFailure, bool) {
	var pf *PartialFailure
	if !errors.As(err, &pf) {
		return nil, false
	}
	return pf, true
}
