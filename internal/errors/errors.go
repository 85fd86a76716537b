package errors

import "fmt"

// ErrorCode represents a Jot error code.
type ErrorCode string

const (
	ErrInvalidRequest     ErrorCode = "INVALID_REQUEST"     // 400
	ErrUnknownTag         ErrorCode = "UNKNOWN_TAG"         // 400
	ErrUnauthorized       ErrorCode = "UNAUTHORIZED"        // 401
	ErrNotFound           ErrorCode = "NOT_FOUND"           // 404
	ErrInvariantViolation ErrorCode = "INVARIANT_VIOLATION" // 500
	ErrInternal           ErrorCode = "INTERNAL"            // 500
)

// JotError represents a structured error with code, status, and details.
type JotError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JotError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JotError {
	return &JotError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewUnknownTag creates a 400 error for a tag-scoped query on a label that
// resolves to no existing tag. The query must not fabricate a tag.
func NewUnknownTag(label string) *JotError {
	return &JotError{
		Code:    ErrUnknownTag,
		Status:  400,
		Message: fmt.Sprintf("tag does not exist: %q", label),
		Details: map[string]any{"label": label},
	}
}

// NewUnauthorized creates a 401 error for when a note exists but belongs to
// a different user.
func NewUnauthorized() *JotError {
	return &JotError{
		Code:    ErrUnauthorized,
		Status:  401,
		Message: "note belongs to another user",
	}
}

// NewNotFound creates a 404 error for when a note cannot be found.
func NewNotFound(identifier string) *JotError {
	return &JotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("note not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewInvariantViolation creates a 500 error for integrity violations that
// indicate a programmer error rather than bad input, reported as a
// recoverable error instead of aborting the process.
func NewInvariantViolation(msg string) *JotError {
	return &JotError{
		Code:    ErrInvariantViolation,
		Status:  500,
		Message: msg,
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *JotError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &JotError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a JotError with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := err.(*JotError); ok {
		return jErr.Code == code
	}
	return false
}
