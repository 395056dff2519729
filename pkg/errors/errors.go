package errors

import (
	"errors"
	"fmt"
)

const (
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInvalidConfig    = "INVALID_CONFIG"
	CodeInvalidRecord    = "INVALID_RECORD"
	CodeCanceled         = "CANCELED"
	CodeInternal         = "INTERNAL_ERROR"
)

type AppError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func Wrap(err error, code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func (e *AppError) WithDetails(details map[string]any) *AppError {
	e.Details = details
	return e
}

// StoreUnavailable reports a failed fetch or commit against the record store.
// These are never retried by the pipeline; the in-progress run stops.
func StoreUnavailable(operation, collection string, err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: fmt.Sprintf("%s on %s failed", operation, collection),
		Err:     err,
		Details: map[string]any{
			"operation":  operation,
			"collection": collection,
		},
	}
}

func InvalidConfig(message string) *AppError {
	return &AppError{
		Code:    CodeInvalidConfig,
		Message: message,
	}
}

func InvalidRecord(collection string, err error) *AppError {
	return &AppError{
		Code:    CodeInvalidRecord,
		Message: fmt.Sprintf("record in %s cannot be written back", collection),
		Err:     err,
		Details: map[string]any{
			"collection": collection,
		},
	}
}

func Canceled(err error) *AppError {
	return &AppError{
		Code:    CodeCanceled,
		Message: "run canceled",
		Err:     err,
	}
}

func Internal(message string, err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Err:     err,
	}
}

func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("An unexpected error occurred", err)
}

// HasCode reports whether any AppError in err's chain carries code.
func HasCode(err error, code string) bool {
	for err != nil {
		var appErr *AppError
		if !errors.As(err, &appErr) {
			return false
		}
		if appErr.Code == code {
			return true
		}
		err = appErr.Err
	}
	return false
}
