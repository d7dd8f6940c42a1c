package geolocation

import (
	"errors"
	"fmt"
)

// ErrLookupFailed covers unreachable services and malformed responses.
var ErrLookupFailed = errors.New("geolocation lookup failed")

// StatusError is a non-200 answer from the lookup service.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("geolocation service returned HTTP %d", e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrLookupFailed
}
