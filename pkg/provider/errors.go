package provider

import (
	"errors"
	"fmt"
)

// UpstreamError is returned when the upstream answered with a non-2xx
// HTTP status. StatusCode is always set.
type UpstreamError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned HTTP %d: %s", e.StatusCode, e.Message)
}

// Unwrap returns the underlying client error, if any.
func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// AsUpstreamError reports whether err carries an upstream HTTP status and
// returns the tagged error if so.
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upErr *UpstreamError
	if errors.As(err, &upErr) {
		return upErr, true
	}
	return nil, false
}
