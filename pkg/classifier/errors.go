package classifier

import (
	"errors"
	"fmt"
)

// ErrMissingResult is wrapped in a DecodeError when a successful response has no result
var ErrMissingResult = errors.New("missing result")

// StatusError is returned when the service answers with a non-2xx status
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.Code)
}

// ServiceError is returned when the service reports a failed prediction
type ServiceError struct {
	Message string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return "Unknown error occurred"
	}
	return e.Message
}

// TransportError is returned when the request never completed,
// for example on connection refused or DNS failure
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError is returned when a 2xx body is not the expected JSON
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("invalid response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// IsNetworkError checks if an error is a connectivity failure
func IsNetworkError(err error) bool {
	var transportErr *TransportError
	return errors.As(err, &transportErr)
}

// Describe formats an analysis error for display
func Describe(err error) string {
	if err == nil {
		return ""
	}

	var (
		statusErr  *StatusError
		serviceErr *ServiceError
	)
	switch {
	case IsNetworkError(err):
		return "Network error. Please check your internet connection and try again."
	case errors.As(err, &statusErr):
		return fmt.Sprintf("Server error: %s. Please try again later.", statusErr.Error())
	case errors.As(err, &serviceErr):
		return serviceErr.Error()
	default:
		return fmt.Sprintf("Analysis failed: %v", err)
	}
}
