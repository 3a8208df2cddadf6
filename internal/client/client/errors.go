package client

import (
	"errors"
	"fmt"
)

var (
	ErrUnavailable  = errors.New("remote unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("remote collection not found")
	ErrDecode       = errors.New("malformed album payload")
)

// TransportError is returned by every Client implementation. Err wraps one
// of the sentinel errors above or the underlying cause.
type TransportError struct {
	Source string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Source, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func transportErr(source string, err error) error {
	return &TransportError{Source: source, Err: err}
}
