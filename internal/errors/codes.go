// Package errors provides structured error handling for jsonai.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: Input errors (file, stdin, JSON syntax)
//   - 4XX: Validation errors (query, pointer, patch, filter, schema)
//   - 5XX: Internal errors
package errors

import (
	stderrors "errors"
)

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryInput indicates unreadable or malformed inputs.
	CategoryInput Category = "INPUT"
	// CategoryValidation indicates rejected queries, pointers and patches.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// Input errors (200-299)
	ErrCodeFileNotFound   = "ERR_201_FILE_NOT_FOUND"
	ErrCodeFilePermission = "ERR_202_FILE_PERMISSION"
	ErrCodeNoInputFiles   = "ERR_205_NO_INPUT_FILES"
	ErrCodeInvalidJSON    = "ERR_206_INVALID_JSON"
	ErrCodeWriteFailed    = "ERR_207_WRITE_FAILED"

	// Validation errors (400-499)
	ErrCodeInvalidInput   = "ERR_401_INVALID_INPUT"
	ErrCodeInvalidQuery   = "ERR_403_INVALID_QUERY"
	ErrCodeInvalidPointer = "ERR_406_INVALID_POINTER"
	ErrCodeEmptyCorpus    = "ERR_407_EMPTY_CORPUS"
	ErrCodePatchFailed    = "ERR_408_PATCH_FAILED"
	ErrCodeFilterFailed   = "ERR_409_FILTER_FAILED"
	ErrCodeInvalidSchema  = "ERR_410_INVALID_SCHEMA"

	// Internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeIndexFailed  = "ERR_502_INDEX_FAILED"
	ErrCodeSearchFailed = "ERR_503_SEARCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// Extract numeric portion (e.g., "101" from "ERR_101_CONFIG_NOT_FOUND")
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryInput
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}

// Is and As re-export the standard library helpers so callers importing
// this package under the name errors keep access to them.
func Is(err, target error) bool { return stderrors.Is(err, target) }

// As is the standard library errors.As.
func As(err error, target any) bool { return stderrors.As(err, target) }
