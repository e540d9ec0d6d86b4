package game

import (
	"strconv"
	"strings"
)

// Code identifies a recoverable resolver failure.
type Code string

const (
	CodeCharacterNotFound      Code = "character_not_found"
	CodeTokenNotFound          Code = "token_not_found"
	CodeTokenNotLinked         Code = "token_not_linked"
	CodeInvalidAmount          Code = "invalid_amount"
	CodeMissingHealthAttribute Code = "missing_health_attribute"
)

// Error is a typed resolver failure. It is local to one invocation; the
// command layer turns it into a chat notification.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Ids and values involved
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is.
var (
	ErrCharacterNotFound      = &Error{Code: CodeCharacterNotFound, Message: "character not found"}
	ErrTokenNotFound          = &Error{Code: CodeTokenNotFound, Message: "token not found"}
	ErrTokenNotLinked         = &Error{Code: CodeTokenNotLinked, Message: "token does not represent a character"}
	ErrInvalidAmount          = &Error{Code: CodeInvalidAmount, Message: "invalid amount"}
	ErrMissingHealthAttribute = &Error{Code: CodeMissingHealthAttribute, Message: "missing health attribute"}
)

// WithMetadata creates a domain error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// ParseAmount parses a command argument into a non-zero integer.
func ParseAmount(s string) (int, error) {
	s = strings.TrimSpace(s)
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &Error{
			Code:     CodeInvalidAmount,
			Message:  "not an integer: " + strconv.Quote(s),
			Metadata: map[string]string{"amount": s},
			Cause:    err,
		}
	}
	if n == 0 {
		return 0, WithMetadata(CodeInvalidAmount, "amount must not be zero", map[string]string{"amount": s})
	}
	return n, nil
}
