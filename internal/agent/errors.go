package agent

import "errors"

var (
	// ErrStopped is returned by operations submitted after shutdown.
	ErrStopped = errors.New("agent is stopped")
	// ErrDisabled is returned by adjustments while redshift is disabled.
	ErrDisabled = errors.New("redshift is disabled")
	// ErrInvalidSettings is returned when a settings update has out-of-range values.
	ErrInvalidSettings = errors.New("invalid settings")
	// ErrPresetNotFound is returned when a preset id no longer exists.
	ErrPresetNotFound = errors.New("preset not found")
)
