package apperrors

import (
	"errors"
	"fmt"
)

// ValidationError reports a precondition failure (bad input, illegal state
// transition). The operation left state unchanged or rolled back.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// StorageError reports a failed durable write. It is surfaced to the caller so
// the operation can be retried; state needed for the retry is preserved.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

func IsStorage(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}

// ChannelError reports a failed real-time push. It never leaves the dispatcher;
// the durable record is the source of truth.
type ChannelError struct {
	UserID string
	Err    error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel: push to user %s: %v", e.UserID, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}
