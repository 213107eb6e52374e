package httputil

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

const httpTimeout = 30 * time.Second

var (
	// ErrNotFound is returned when a remote has no such resource.
	ErrNotFound = errors.New("resource not found")

	// ErrNetwork is returned for connection failures and unexpected statuses.
	ErrNetwork = errors.New("network error")
)

// NewClient creates an HTTP client with the standard repository timeout.
func NewClient() *http.Client {
	return &http.Client{Timeout: httpTimeout}
}

// CheckStatus maps an HTTP status to an error. 2xx is success, 404 is
// [ErrNotFound], 408, 429 and 5xx are retryable network errors and
// everything else is a permanent network error.
func CheckStatus(code int) error {
	switch {
	case code >= 200 && code < 300:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code == http.StatusRequestTimeout, code == http.StatusTooManyRequests, code >= 500:
		return Retryable(fmt.Errorf("%w: status %d", ErrNetwork, code))
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// Transport wraps a client error as a retryable network error.
func Transport(err error) error {
	return Retryable(fmt.Errorf("%w: %v", ErrNetwork, err))
}
