package storage

import (
	"errors"
	"fmt"
)

// Sentinel errors for storage operations. Wrap them with WithMessage or
// WithCause for call-site context; errors.Is matches on the code.
var (
	ErrNotConnected = &StorageError{
		Code:    "NOT_CONNECTED",
		Message: "storage client is not connected",
	}

	ErrConnectionFailed = &StorageError{
		Code:    "CONNECTION_FAILED",
		Message: "failed to connect to storage backend",
	}

	ErrTimeout = &StorageError{
		Code:    "TIMEOUT",
		Message: "storage operation timed out",
	}

	ErrInvalidConfig = &StorageError{
		Code:    "INVALID_CONFIG",
		Message: "invalid storage configuration",
	}

	ErrClientNotFound = &StorageError{
		Code:    "CLIENT_NOT_FOUND",
		Message: "storage client not found",
	}

	ErrClientAlreadyExists = &StorageError{
		Code:    "CLIENT_ALREADY_EXISTS",
		Message: "storage client already exists",
	}
)

// StorageError is a storage error with a machine-readable code.
type StorageError struct {
	Code    string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// Is matches on the error code so wrapped errors still compare equal to
// their sentinel.
func (e *StorageError) Is(target error) bool {
	t, ok := target.(*StorageError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy with a different message.
func (e *StorageError) WithMessage(msg string) *StorageError {
	return &StorageError{Code: e.Code, Message: msg, Cause: e.Cause}
}

// WithCause returns a copy carrying the underlying error.
func (e *StorageError) WithCause(cause error) *StorageError {
	return &StorageError{Code: e.Code, Message: e.Message, Cause: cause}
}

// AsStorageError extracts a StorageError from an error chain.
func AsStorageError(err error) (*StorageError, bool) {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr, true
	}
	return nil, false
}
