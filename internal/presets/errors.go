package presets

import "errors"

var (
	ErrIndexOutOfRange = errors.New("preset index out of range")
	ErrDebounced       = errors.New("preset apply ignored: too soon after the previous one")
)
