package imports

import "fmt"

// UserNotFoundError signals that the batch's owning user does not exist.
// It is produced exclusively by foreign-key violation translation at
// write time; there is no pre-check.
type UserNotFoundError struct {
	UserID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user %q does not exist", e.UserID)
}

// InsertError wraps any persistence failure that is not a missing user.
// The underlying storage error is retained for logs but callers should
// surface only the generic message.
type InsertError struct {
	Err error
}

func (e *InsertError) Error() string {
	return fmt.Sprintf("failed to insert import: %v", e.Err)
}

func (e *InsertError) Unwrap() error {
	return e.Err
}
