package core

import "fmt"

// ValidationError reports malformed input (empty justification, missing
// actor). Raised before any transaction opens; the caller can correct the
// input and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// AuthorizationError reports a policy guard denial. Never retried
// automatically.
type AuthorizationError struct {
	Op     string
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not allowed to %s: %s", e.Op, e.Reason)
}

// StaleStateError reports a transition attempted against a request that has
// already left pending (typically a lost review race). The caller should
// refresh and re-display current state rather than retry.
type StaleStateError struct {
	RequestID int
	Status    string
}

func (e *StaleStateError) Error() string {
	return fmt.Sprintf("deletion request %d is %s, not pending", e.RequestID, e.Status)
}

// NotFoundError reports a missing request or asset.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// TransactionError wraps a storage failure mid-transaction. The whole
// operation was rolled back, so the caller may retry it from scratch.
type TransactionError struct {
	Op  string
	Err error
}

func (e *TransactionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error {
	return e.Err
}
