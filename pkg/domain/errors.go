package domain

import "fmt"

// ValidationError reports a malformed input field on a command.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when a referenced record does not exist.
type NotFoundError struct {
	Entity EntityType
	ID     string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidTransitionError is returned when a move targets a phase or status
// outside the canonical enum. Any-to-any transitions between valid columns
// are legal; only unknown columns are rejected.
type InvalidTransitionError struct {
	Entity EntityType
	Target string
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid %s transition target %q", e.Entity, e.Target)
}

// PersistError reports a failed durable write. The in-memory state remains
// authoritative; callers surface the warning instead of rolling back.
type PersistError struct {
	Op  string
	Err error
}

func (e PersistError) Error() string {
	return fmt.Sprintf("persist %s: %v", e.Op, e.Err)
}

func (e PersistError) Unwrap() error { return e.Err }

// CorruptStateError reports a stored document that could not be trusted:
// parse failure, missing required fields, or an unknown future version.
type CorruptStateError struct {
	Reason string
	Err    error
}

func (e CorruptStateError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("corrupt state: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("corrupt state: %s", e.Reason)
}

func (e CorruptStateError) Unwrap() error { return e.Err }

// RuleViolationError is returned when blocking violations are present.
type RuleViolationError struct {
	Result Result
}

func (e RuleViolationError) Error() string {
	return "transaction blocked by rules"
}
