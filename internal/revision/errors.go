package revision

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyExists    = errors.New("revision already exists")
	ErrRevisionNotFound = errors.New("revision not found")
)

// BackendError wraps a storage failure with the step that issued it.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error {
	return e.Err
}

func backendErr(op string, err error) error {
	return &BackendError{Op: op, Err: err}
}

func alreadyExists(key string) error {
	return fmt.Errorf("%w: %s is already in the manifest; run \"list\" to see the available revisions", ErrAlreadyExists, key)
}

func notFound(key string) error {
	return fmt.Errorf("%w: %s is not in the manifest", ErrRevisionNotFound, key)
}
