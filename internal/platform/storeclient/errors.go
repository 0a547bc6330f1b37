package storeclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTransport wraps failures where no response was received.
	ErrTransport = errors.New("store unreachable")
	// ErrNotFound matches a StatusError carrying 404.
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from the store.
type StatusError struct {
	Method string
	Path   string
	Status int
	// Message is the store's "message" field, or "HTTP error, status N"
	// when the body carries none.
	Message string
}

func newStatusError(method, path string, status int, message string) *StatusError {
	if message == "" {
		message = fmt.Sprintf("HTTP error, status %d", status)
	}
	return &StatusError{Method: method, Path: path, Status: status, Message: message}
}

func (e *StatusError) Error() string { return e.Message }

// NotFound reports whether the store answered 404.
func (e *StatusError) NotFound() bool { return e.Status == http.StatusNotFound }

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.NotFound()
}
