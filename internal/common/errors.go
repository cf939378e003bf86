package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors
var (
	ErrNotFound     = errors.New("resource not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrValidation   = errors.New("validation failed")

	// ErrUnknownVendor means no template identifier matched the first page.
	ErrUnknownVendor = errors.New("unknown vendor")
	// ErrDocumentUnreadable is a document-level failure, distinct from "no items found".
	ErrDocumentUnreadable = errors.New("document unreadable")
	ErrNoTemplate         = errors.New("no template for vendor")
	ErrInvalidTemplate    = errors.New("invalid template")
	ErrTrainingAborted    = errors.New("training aborted")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// UnreadableError marks err as a document-level failure for path.
func UnreadableError(path string, err error) error {
	return NewAppError("DOCUMENT_UNREADABLE", path, errors.Join(ErrDocumentUnreadable, err))
}
