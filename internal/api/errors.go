package api

import (
	"errors"
	"fmt"
)

const (
	networkErrorMessage = "Network error. Please check your connection."
	unknownErrorMessage = "An unexpected error occurred."
)

// APIError is a non-2xx response. Message and ErrorText hold the optional
// `message` and `error` fields of the JSON body.
type APIError struct {
	StatusCode int
	Message    string
	ErrorText  string
	Body       string
}

func (e *APIError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.ErrorText
	}
	if detail == "" {
		detail = e.Body
	}
	return fmt.Sprintf("API returned %d: %s", e.StatusCode, detail)
}

// NetworkError means no response was received: dial failure, timeout or
// cancellation.
type NetworkError struct {
	Method string
	Path   string
	Err    error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// DecodeError means the body did not have the expected shape.
type DecodeError struct {
	Path string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding %s: %v", e.Path, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// IsNetworkError reports whether err means the request never got a response.
func IsNetworkError(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// ErrorMessage returns the best human-readable text for err: the server's
// message, then the server's error field, then a generic network message,
// then err's own text.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		if apiErr.ErrorText != "" {
			return apiErr.ErrorText
		}
	}
	if IsNetworkError(err) {
		return networkErrorMessage
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return unknownErrorMessage
}
