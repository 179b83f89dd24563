package errors

import "errors"

// FromError converts any error to an Errno. Wrapped Errnos are unwrapped;
// everything else becomes ErrInternal with the original error as cause.
func FromError(err error) *Errno {
	if err == nil {
		return nil
	}
	var e *Errno
	if errors.As(err, &e) {
		return e
	}
	return ErrInternal.WithCause(err)
}

// IsCode reports whether the error carries the given error code,
// unwrapping as needed.
func IsCode(err error, code int) bool {
	var e *Errno
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}
