package shared

import (
	"errors"
	"fmt"
)

// DomainError is the base error type for all dispatch domain errors.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// PreconditionError reports that an operation's required state does not hold.
// It carries a short machine-readable reason code alongside the message and
// never implies any state was mutated.
type PreconditionError struct {
	*DomainError
	Reason string
}

func NewPreconditionError(reason, format string, args ...interface{}) *PreconditionError {
	return &PreconditionError{
		DomainError: &DomainError{Message: fmt.Sprintf(format, args...)},
		Reason:      reason,
	}
}

// Precondition reason codes used by the order lifecycle.
const (
	ReasonOrderNotFound   = "order_not_found"
	ReasonCourierNotFound = "courier_not_found"
	ReasonWrongCourier    = "wrong_courier"
	ReasonWrongStatus     = "wrong_status"
	ReasonNegativeHours   = "negative_hours"
)

// ConflictError reports that an entity changed between read and write. The
// repository raises it when a compare-and-set update matches zero rows.
type ConflictError struct {
	*DomainError
	Entity string
	ID     string
}

func NewConflictError(entity, id, format string, args ...interface{}) *ConflictError {
	return &ConflictError{
		DomainError: &DomainError{Message: fmt.Sprintf(format, args...)},
		Entity:      entity,
		ID:          id,
	}
}

// ValidationError reports invalid input to a constructor or operation.
type ValidationError struct {
	*DomainError
	Field string
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		DomainError: &DomainError{Message: message},
		Field:       field,
	}
}

// IsPrecondition reports whether err is (or wraps) a PreconditionError.
func IsPrecondition(err error) bool {
	var pe *PreconditionError
	return errors.As(err, &pe)
}

// IsConflict reports whether err is (or wraps) a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// PreconditionReason extracts the reason code from a precondition error, or
// returns an empty string.
func PreconditionReason(err error) string {
	var pe *PreconditionError
	if errors.As(err, &pe) {
		return pe.Reason
	}
	return ""
}
