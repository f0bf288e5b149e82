package backend

import (
	"errors"
	"fmt"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict reports a conditional write whose expectation no longer holds.
	ErrConflict = errors.New("row changed concurrently")
	// ErrRejected reports a write the backend refused on its merits. Retrying
	// it unchanged fails the same way.
	ErrRejected = errors.New("rejected by backend")
)

// TransientError marks a failed round trip that is safe to retry.
type TransientError struct {
	Op   string
	Kind entity.Kind
	Err  error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Kind, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func Transient(op string, kind entity.Kind, err error) error {
	if err == nil {
		return nil
	}
	var te *TransientError
	if errors.As(err, &te) {
		return err
	}
	return &TransientError{Op: op, Kind: kind, Err: err}
}

func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
