package apperrors

import (
	"errors"
	"fmt"
)

// ErrValidation reports a malformed input field (bad rating range, missing body fields).
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Field + ": " + e.Message
}

// ErrAuthorization means the requesting user does not own the action.
type ErrAuthorization struct {
	UserID   string
	ActionID string
}

func (e *ErrAuthorization) Error() string {
	return fmt.Sprintf("user %s is not the owner of action %s", e.UserID, e.ActionID)
}

// Sentinels for the two transition failures callers care to tell apart.
// Both unwrap from ErrInvalidTransition so the generic handling still applies.
var (
	ErrAlreadyExecuted = errors.New("action already executed")
	ErrAlreadyRated    = errors.New("action already rated")
)

// ErrInvalidTransition means a status precondition was not met. Current carries
// the status observed at the storage layer so clients can refresh their view.
type ErrInvalidTransition struct {
	Op      string
	Current string
	reason  error
}

func (e *ErrInvalidTransition) Error() string {
	if e.reason != nil {
		return fmt.Sprintf("cannot %s action in status %q: %s", e.Op, e.Current, e.reason)
	}
	return fmt.Sprintf("cannot %s action in status %q", e.Op, e.Current)
}

func (e *ErrInvalidTransition) Unwrap() error { return e.reason }

func NewInvalidTransition(op, current string) *ErrInvalidTransition {
	return &ErrInvalidTransition{Op: op, Current: current}
}

func NewAlreadyExecuted(op string) *ErrInvalidTransition {
	return &ErrInvalidTransition{Op: op, Current: "executed", reason: ErrAlreadyExecuted}
}

func NewAlreadyRated(op string) *ErrInvalidTransition {
	return &ErrInvalidTransition{Op: op, Current: "executed", reason: ErrAlreadyRated}
}

// ErrUnknownActionType is returned by the proposer for unregistered types.
type ErrUnknownActionType struct {
	ActionType string
}

func (e *ErrUnknownActionType) Error() string {
	return fmt.Sprintf("unknown action type: %s", e.ActionType)
}

// ErrInvalidPayload names the offending payload field.
type ErrInvalidPayload struct {
	Field   string
	Message string
}

func (e *ErrInvalidPayload) Error() string {
	return fmt.Sprintf("invalid payload: %s: %s", e.Field, e.Message)
}

// ErrExecutionFailure wraps a handler's business error. The action stays in its
// prior status, so execute may be retried after the cause is fixed.
type ErrExecutionFailure struct {
	Cause error
}

func (e *ErrExecutionFailure) Error() string {
	return fmt.Sprintf("execution failed: %v", e.Cause)
}

func (e *ErrExecutionFailure) Unwrap() error { return e.Cause }

func IsAuthorization(err error) bool {
	var target *ErrAuthorization
	return errors.As(err, &target)
}

func IsInvalidTransition(err error) bool {
	var target *ErrInvalidTransition
	return errors.As(err, &target)
}

func IsUnknownActionType(err error) bool {
	var target *ErrUnknownActionType
	return errors.As(err, &target)
}

func IsInvalidPayload(err error) bool {
	var target *ErrInvalidPayload
	return errors.As(err, &target)
}

func IsExecutionFailure(err error) bool {
	var target *ErrExecutionFailure
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target *ErrValidation
	return errors.As(err, &target)
}
