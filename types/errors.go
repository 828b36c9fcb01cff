package types

import (
	"errors"
	"fmt"
)

// NetworkError is a transport-level failure: the request never got a response.
type NetworkError struct {
	Endpoint string
	Err      error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error calling %s: %v", e.Endpoint, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RequestFailed is a non-2xx response. Message is already human readable.
type RequestFailed struct {
	Status  int
	Message string
}

func (e *RequestFailed) Error() string {
	return e.Message
}

// InvalidResponse is a success status whose body lacks the fields we need.
type InvalidResponse struct {
	Endpoint string
	Reason   string
}

func (e *InvalidResponse) Error() string {
	return fmt.Sprintf("invalid response from %s: %s", e.Endpoint, e.Reason)
}

// ValidationError is raised client-side before anything goes over the wire.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ErrorText returns the text shown to the user in place of a result.
func ErrorText(err error) string {
	if err == nil {
		return ""
	}
	var failed *RequestFailed
	if errors.As(err, &failed) {
		return failed.Message
	}
	var invalid *ValidationError
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Network error: " + netErr.Err.Error()
	}
	return err.Error()
}
