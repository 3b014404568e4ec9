package services

import "errors"

// PermanentError wraps a failure that redelivery cannot fix: the consumer
// logs it and drops the message instead of requeueing.
type PermanentError struct {
	err error
}

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{err: err}
}

func (e *PermanentError) Error() string { return e.err.Error() }

func (e *PermanentError) Unwrap() error { return e.err }

// IsPermanent reports whether any error in the chain is a PermanentError.
func IsPermanent(err error) bool {
	var pe *PermanentError
	return errors.As(err, &pe)
}
