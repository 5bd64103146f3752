package models

import "fmt"

// ValidationError signals malformed or incomplete input at a boundary.
// It is surfaced to the immediate caller and never retried automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SubmissionError signals a transport or server failure during order
// submission. The cart is preserved so the customer can simply retry.
type SubmissionError struct {
	Reason string
	Err    error
}

func (e *SubmissionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Reason, e.Err)
	}
	return e.Reason
}

func (e *SubmissionError) Unwrap() error { return e.Err }

// NotFoundError signals an operation targeting a record that does not exist.
// Key is set instead of ID when the record is addressed by name.
type NotFoundError struct {
	Resource string
	ID       int64
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
	}
	return fmt.Sprintf("%s %d not found", e.Resource, e.ID)
}

// TransitionError signals a disallowed order status change
type TransitionError struct {
	From OrderStatus
	To   OrderStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot transition order from %q to %q", e.From, e.To)
}

// AuthError signals a credential mismatch on login
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string { return e.Reason }
