package configstore

import "errors"

var (
	// ErrInvalidFormat means a document did not meet the minimum schema
	// (no day temperature and no legacy preset lists) or was not JSON.
	ErrInvalidFormat = errors.New("invalid configuration file format")

	// ErrIO wraps read and write failures of the configuration file or backend.
	ErrIO = errors.New("configuration I/O failure")
)
