package wiki

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrNoMatch indicates a search returned no results.
	ErrNoMatch = errors.New("no matching article")

	// ErrNotFound indicates the requested page does not exist.
	ErrNotFound = errors.New("article not found")

	// ErrRateLimited indicates the API rejected the request with 429.
	ErrRateLimited = errors.New("encyclopedia rate limit exceeded")

	// ErrNetwork indicates a network connectivity issue.
	ErrNetwork = errors.New("network error communicating with encyclopedia")

	// ErrInvalidResponse indicates an unexpected API response body.
	ErrInvalidResponse = errors.New("invalid response from encyclopedia")

	// ErrUnavailable indicates the circuit breaker is rejecting calls.
	ErrUnavailable = errors.New("encyclopedia temporarily unavailable")
)

// APIError is a non-success response, either an HTTP status or an error
// object in the response body.
type APIError struct {
	StatusCode int
	Code       string // API error code, e.g. "badvalue"
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("encyclopedia API error (status %d, code %s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("encyclopedia API error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound returns true if the error indicates a missing article.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound || apiErr.Code == "missingtitle"
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests || apiErr.Code == "ratelimited"
	}
	return false
}

// isServerFault reports whether err should count against the breaker.
func isServerFault(err error) bool {
	if errors.Is(err, ErrNetwork) || errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode >= 500
}
