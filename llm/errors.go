package llm

import "errors"

// Transport errors are split into two classes: transient ones the client
// retries with backoff, fatal ones it surfaces immediately.

type classifiedError struct {
	err   error
	fatal bool
}

func (e *classifiedError) Error() string { return e.err.Error() }
func (e *classifiedError) Unwrap() error { return e.err }

// NewTransientError marks err as retryable.
func NewTransientError(err error) error {
	return &classifiedError{err: err}
}

// NewFatalError marks err as permanent.
func NewFatalError(err error) error {
	return &classifiedError{err: err, fatal: true}
}

// IsTransient reports whether err should be retried.
func IsTransient(err error) bool {
	var ce *classifiedError
	return errors.As(err, &ce) && !ce.fatal
}

// IsFatal reports whether err is permanent.
func IsFatal(err error) bool {
	var ce *classifiedError
	return errors.As(err, &ce) && ce.fatal
}
