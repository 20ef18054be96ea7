// Package mcp serves jsonai's search and field listing as Model Context
// Protocol tools over stdio.
package mcp

import (
	"context"
	"errors"
	"fmt"

	jerrors "github.com/Aman-CERP/jsonai/internal/errors"
)

// MCP error codes.
const (
	// ErrCodeEmptyCorpus indicates the inputs held no searchable object.
	ErrCodeEmptyCorpus = -32001

	// ErrCodeTimeout indicates the request timed out or was canceled.
	ErrCodeTimeout = -32003

	// ErrCodeFileNotFound indicates an input could not be read.
	ErrCodeFileNotFound = -32004

	// Standard JSON-RPC error codes.
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternalError  = -32603
)

// MCPError represents an MCP protocol error with code and message.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// MapError converts internal errors to MCP errors.
func MapError(err error) *MCPError {
	if err == nil {
		return nil
	}

	var mcpErr *MCPError
	if errors.As(err, &mcpErr) {
		return mcpErr
	}

	var je *jerrors.Error
	if errors.As(err, &je) {
		return mapError(je)
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request timed out."}
	case errors.Is(err, context.Canceled):
		return &MCPError{Code: ErrCodeTimeout, Message: "Request was canceled."}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: "Internal server error."}
	}
}

// NewInvalidParamsError creates an error for invalid parameters with a custom message.
func NewInvalidParamsError(msg string) *MCPError {
	return &MCPError{Code: ErrCodeInvalidParams, Message: msg}
}

// NewMethodNotFoundError creates an error for unknown tools.
func NewMethodNotFoundError(name string) *MCPError {
	return &MCPError{
		Code:    ErrCodeMethodNotFound,
		Message: fmt.Sprintf("Tool '%s' not found.", name),
	}
}

func mapError(je *jerrors.Error) *MCPError {
	message := je.Error()
	if je.Suggestion != "" {
		message = fmt.Sprintf("%s %s", message, je.Suggestion)
	}

	switch je.Code {
	case jerrors.ErrCodeEmptyCorpus:
		return &MCPError{Code: ErrCodeEmptyCorpus, Message: message}
	case jerrors.ErrCodeFileNotFound, jerrors.ErrCodeNoInputFiles:
		return &MCPError{Code: ErrCodeFileNotFound, Message: message}
	}

	switch je.Category {
	case jerrors.CategoryValidation, jerrors.CategoryInput:
		return &MCPError{Code: ErrCodeInvalidParams, Message: message}
	default:
		return &MCPError{Code: ErrCodeInternalError, Message: message}
	}
}
