package errors

import (
	"fmt"
)

// Error is the structured error type for jsonai.
// Every failure that reaches the CLI boundary is one of these, so the exit
// code and the message chain are decided in one place.
type Error struct {
	// Code is the unique error code (e.g., "ERR_201_FILE_NOT_FOUND").
	Code string

	// Message is the human-readable error message.
	Message string

	// Category is the error category (Config, Input, Query, etc.).
	Category Category

	// Details contains additional context as key-value pairs.
	Details map[string]string

	// Cause is the underlying error that caused this error.
	Cause error

	// Suggestion is an actionable hint for the caller.
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil && e.Cause.Error() != e.Message {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for error chain support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code.
// This lets callers write errors.Is(err, errors.ErrEmptyCorpus).
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// WithDetail adds a key-value detail to the error.
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithSuggestion adds an actionable suggestion.
func (e *Error) WithSuggestion(suggestion string) *Error {
	e.Suggestion = suggestion
	return e
}

// New creates an Error with the given code and message.
// The category is derived from the code.
func New(code string, message string, cause error) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Category: categoryFromCode(code),
		Cause:    cause,
	}
}

// Wrap creates an Error from an existing error, reusing its message.
func Wrap(code string, err error) *Error {
	if err == nil {
		return nil
	}
	return New(code, err.Error(), err)
}

// Sentinels for errors.Is comparisons. Only the code is compared.
var (
	ErrFileNotFound   = &Error{Code: ErrCodeFileNotFound}
	ErrInvalidJSON    = &Error{Code: ErrCodeInvalidJSON}
	ErrInvalidQuery   = &Error{Code: ErrCodeInvalidQuery}
	ErrEmptyCorpus    = &Error{Code: ErrCodeEmptyCorpus}
	ErrInvalidPointer = &Error{Code: ErrCodeInvalidPointer}
	ErrPatchFailed    = &Error{Code: ErrCodePatchFailed}
	ErrFilterFailed   = &Error{Code: ErrCodeFilterFailed}
	ErrInvalidSchema  = &Error{Code: ErrCodeInvalidSchema}
)

// InputError reports a missing or unreadable input.
func InputError(message string, cause error) *Error {
	return New(ErrCodeFileNotFound, message, cause)
}

// InvalidJSONError reports an input that is not valid JSON.
func InvalidJSONError(message string, cause error) *Error {
	return New(ErrCodeInvalidJSON, message, cause)
}

// QueryCompileError reports a query that cannot be compiled for its match mode.
func QueryCompileError(message string, cause error) *Error {
	return New(ErrCodeInvalidQuery, message, cause)
}

// EmptyCorpusError reports that no addressable object was found in any input.
func EmptyCorpusError(message string) *Error {
	return New(ErrCodeEmptyCorpus, message, nil).
		WithSuggestion("search needs at least one JSON object; arrays of scalars and bare values are not searchable")
}

// PointerError reports a JSON Pointer that cannot be parsed or resolved.
func PointerError(message string, cause error) *Error {
	return New(ErrCodeInvalidPointer, message, cause)
}

// ConfigError creates a configuration-related error.
func ConfigError(message string, cause error) *Error {
	return New(ErrCodeConfigInvalid, message, cause)
}

// InternalError creates an internal error.
func InternalError(message string, cause error) *Error {
	return New(ErrCodeInternal, message, cause)
}

// GetCode extracts the error code from an *Error anywhere in the chain.
// Returns empty string if there is none.
func GetCode(err error) string {
	var e *Error
	if As(err, &e) {
		return e.Code
	}
	return ""
}

// GetCategory extracts the category from an *Error anywhere in the chain.
func GetCategory(err error) Category {
	var e *Error
	if As(err, &e) {
		return e.Category
	}
	return ""
}
