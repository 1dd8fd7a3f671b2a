// SPDX-License-Identifier: MIT

package httpclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Sentinel errors for errors.Is checks at the boundary.
	ErrNotFound     = errors.New("httpclient: resource not found")
	ErrUnauthorized = errors.New("httpclient: authentication required")
	ErrForbidden    = errors.New("httpclient: access forbidden")
	ErrClientError  = errors.New("httpclient: request rejected (4xx)")
	ErrServerError  = errors.New("httpclient: server error (5xx)")
	ErrUnavailable  = errors.New("httpclient: host unreachable or transport failure")
	ErrBadResponse  = errors.New("httpclient: invalid response format or malformed data")
	ErrTimeout      = errors.New("httpclient: request timed out")
)

// StatusError is a rich error type that wraps the sentinel errors with
// request context.
type StatusError struct {
	Sentinel error
	Method   string
	URL      string
	Status   int
	Body     string
	Err      error // Nested lower-level error (e.g. net.Error)
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Sentinel)
	if e.Status > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.Status)
	}
	if e.Body != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Body)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *StatusError) Unwrap() error {
	return e.Sentinel
}

// classify maps an HTTP status code to its sentinel error.
func classify(status int) error {
	switch {
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusUnauthorized:
		return ErrUnauthorized
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusRequestTimeout:
		return ErrTimeout
	case status >= 500:
		return ErrServerError
	default:
		return ErrClientError
	}
}
