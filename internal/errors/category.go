package errors

import "time"

// ErrorCategory groups related application errors for unified handling.
type ErrorCategory string

const (
	ErrCategorySystem     ErrorCategory = "SYSTEM"
	ErrCategoryNetwork    ErrorCategory = "NETWORK"
	ErrCategoryConfig     ErrorCategory = "CONFIG"
	ErrCategoryValidation ErrorCategory = "VALIDATION"
)

// Generic error code definitions used as sensible defaults across modules.
const (
	CodeSystemGeneric     = "SYS-000"
	CodeNetworkGeneric    = "NET-000"
	CodeConfigGeneric     = "CFG-000"
	CodeValidationGeneric = "VAL-000"
)

// New creates a generic AppError with the supplied metadata.
func New(category ErrorCategory, code, message string, err error) *AppError {
	return &AppError{
		Code:      code,
		Category:  category,
		Message:   message,
		Err:       err,
		Timestamp: time.Now(),
	}
}

// SystemError creates a SYSTEM category error instance.
func SystemError(code, message string, err error) *AppError {
	return New(ErrCategorySystem, code, message, err)
}

// NetworkError creates a NETWORK category error instance.
// Network failures are considered recoverable: the batch continues.
func NetworkError(code, message string, err error) *AppError {
	appErr := New(ErrCategoryNetwork, code, message, err)
	appErr.Recoverable = true
	return appErr
}

// ConfigError creates a CONFIG category error instance.
func ConfigError(code, message string, err error) *AppError {
	return New(ErrCategoryConfig, code, message, err)
}

// ValidationError creates a VALIDATION category error instance.
func ValidationError(code, message string, err error) *AppError {
	return New(ErrCategoryValidation, code, message, err)
}
