package model

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrConfiguration marks whole-run failures caused by missing or invalid settings.
	ErrConfiguration = errors.New("configuration error")

	// ErrEndpointNotFound is returned when no ATS endpoint can be resolved for a company.
	ErrEndpointNotFound = errors.New("endpoint not found")

	// ErrMalformedPayload is returned when an upstream body is not valid JSON.
	ErrMalformedPayload = errors.New("malformed payload")

	// ErrBatchTooLarge is returned by stores when a bulk write exceeds MaxBatchSize.
	ErrBatchTooLarge = errors.New("batch exceeds store write limit")
)

// HTTPError wraps an HTTP status code so retry logic can inspect it.
type HTTPError struct {
	StatusCode int
	RetryAfter time.Duration // from Retry-After header, zero if absent
	Err        error
}

func (e *HTTPError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("HTTP %d: %v", e.StatusCode, e.Err)
	}
	return fmt.Sprintf("HTTP %d", e.StatusCode)
}

func (e *HTTPError) Unwrap() error {
	return e.Err
}
