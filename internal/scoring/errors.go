package scoring

import (
	"errors"
	"fmt"
)

// Kind classifies errors surfaced by the scoring core and the services around it.
type Kind string

const (
	// KindValidation marks client-caused input problems.
	KindValidation Kind = "validation"
	// KindDataIntegrity marks content that cannot be scored safely.
	KindDataIntegrity Kind = "data_integrity"
	// KindNotFound marks unresolved references.
	KindNotFound Kind = "not_found"
	// KindOwnership marks access to another user's records.
	KindOwnership Kind = "ownership"
	// KindConflict marks a lost optimistic-concurrency race.
	KindConflict Kind = "conflict"
)

// Error is a typed result carrying a kind, a message and optional details.
type Error struct {
	Kind    Kind
	Message string
	Details map[string]interface{}
}

func (e *Error) Error() string {
	return e.Message
}

// NewError constructs a typed error.
func NewError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// ValidationError constructs a validation error with optional details.
func ValidationError(message string, details map[string]interface{}) *Error {
	return &Error{Kind: KindValidation, Message: message, Details: details}
}

// AnswerCountError reports a submission whose answer count differs from the question count.
func AnswerCountError(expected, received int) *Error {
	return ValidationError(
		fmt.Sprintf("expected %d answers, received %d", expected, received),
		map[string]interface{}{"expected": expected, "received": received},
	)
}

// KindOf extracts the kind of err, or "" when err is not a typed scoring error.
func KindOf(err error) Kind {
	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}
	return ""
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
