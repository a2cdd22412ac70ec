package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeCollaboratorFailure = "COLLABORATOR_FAILURE"
	ErrCodeInternalError       = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyNoteText   = NewDomainError(ErrCodeValidation, "note text cannot be empty")
	ErrInvalidTarget   = NewDomainError(ErrCodeValidation, "target calories must be greater than 0")
	ErrInvalidPosition = NewDomainError(ErrCodeValidation, "entry position must be a positive number")
	ErrEmptyMealText   = NewDomainError(ErrCodeValidation, "meal description cannot be empty")
	ErrInvalidDate     = NewDomainError(ErrCodeValidation, "date must be in YYYY-MM-DD format")
	ErrEmptyUserID     = NewDomainError(ErrCodeValidation, "user id is required")
)

// Not found errors
var (
	ErrNoteNotFound  = NewDomainError(ErrCodeNotFound, "note not found")
	ErrEntryNotFound = NewDomainError(ErrCodeNotFound, "ledger entry not found")
	ErrDayNotFound   = NewDomainError(ErrCodeNotFound, "no entries recorded for that day")
	ErrTargetNotSet  = NewDomainError(ErrCodeNotFound, "no calorie target set")
)

// Collaborator errors
var (
	// ErrNormalizerUnavailable signals that the LLM call itself failed
	// (network, auth, timeout). Malformed model output is not an error.
	ErrNormalizerUnavailable = NewDomainError(ErrCodeCollaboratorFailure, "food normalizer call failed; check API credentials and connectivity")
)
