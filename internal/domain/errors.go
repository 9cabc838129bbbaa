package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	CodeInternal        ErrorCode = "INTERNAL_ERROR"
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeServer          ErrorCode = "SERVER_ERROR"
	CodeNetwork         ErrorCode = "NETWORK_ERROR"
	CodeSessionNotFound ErrorCode = "SESSION_NOT_FOUND"

	// Field-level validation codes
	CodeMissingField  ErrorCode = "MISSING_FIELD"
	CodeInvalidFormat ErrorCode = "INVALID_FORMAT"
	CodeOutOfRange    ErrorCode = "OUT_OF_RANGE"
)

// DomainError is the error every controller operation returns. Message is
// always safe to show to the user.
type DomainError struct {
	Code    ErrorCode
	Message string
	Cause   error
	Context map[string]interface{}
}

func (e *DomainError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is matches on code, so errors.Is(err, ErrSessionNotFound) holds for any
// session-not-found error.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithContext attaches a key/value pair surfaced in API error details.
func (e *DomainError) WithContext(key string, value interface{}) *DomainError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func NewError(code ErrorCode, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// NewValidationError reports a request rejected before any network call.
func NewValidationError(message string, cause error) *DomainError {
	return NewError(CodeValidation, message, cause)
}

// NewServerError reports a non-success response from the MCQ service.
func NewServerError(status int, message string) *DomainError {
	return NewError(CodeServer, message, nil).WithContext("upstream_status", status)
}

// NewNetworkError reports an exchange that could not complete: connectivity,
// timeouts or an unreadable response body.
func NewNetworkError(cause error) *DomainError {
	return &DomainError{Code: CodeNetwork, Message: "An error occurred: " + cause.Error(), Cause: cause}
}

func NewInternalError(message string, cause error) *DomainError {
	return NewError(CodeInternal, message, cause)
}

var ErrSessionNotFound = NewError(CodeSessionNotFound, "session not found", nil)

// CodeOf returns the code of the first DomainError in err's chain, or
// CodeInternal.
func CodeOf(err error) ErrorCode {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// UserMessage returns the text a user should see for err.
func UserMessage(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Message
	}
	return "An error occurred: " + err.Error()
}

// ValidationError describes one rejected input field.
type ValidationError struct {
	Field   string      `json:"field"`
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return e.Message
}

// ValidationErrors collects every rejected field of a request.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, 0, len(v))
	for _, e := range v {
		msgs = append(msgs, e.Message)
	}
	return strings.Join(msgs, "; ")
}

// AsDomainError folds the field errors into one VALIDATION_ERROR whose
// message is shown to the user.
func (v ValidationErrors) AsDomainError() *DomainError {
	return NewValidationError(v.Error(), nil).WithContext("errors", []ValidationError(v))
}

func NewMissingFieldError(field, message string) ValidationError {
	return ValidationError{Field: field, Code: CodeMissingField, Message: message}
}

func NewInvalidFormatError(field string, value interface{}, message string) ValidationError {
	return ValidationError{Field: field, Code: CodeInvalidFormat, Message: message, Value: value}
}

func NewOutOfRangeError(field string, value interface{}, min, max int64) ValidationError {
	return ValidationError{
		Field:   field,
		Code:    CodeOutOfRange,
		Message: fmt.Sprintf("%s must be between %d and %d", field, min, max),
		Value:   value,
	}
}
