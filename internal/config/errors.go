package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with errors.Is().
var (
	// ErrInvalidDocsURL is returned when the documentation URL is not an absolute http(s) URL.
	ErrInvalidDocsURL = errors.New("invalid docs URL: must be an absolute http or https URL")

	// ErrInvalidPEPsURL is returned when the PEP index URL is not an absolute http(s) URL.
	ErrInvalidPEPsURL = errors.New("invalid PEPs URL: must be an absolute http or https URL")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidRequestRate is returned when the request rate is not positive.
	ErrInvalidRequestRate = errors.New("invalid request rate: must be positive")

	// ErrInvalidCacheTTL is returned when the cache TTL is negative.
	// Use 0 to keep cached responses forever.
	ErrInvalidCacheTTL = errors.New("invalid cache TTL: must be non-negative")

	// ErrEmptyDirectory is returned when one of the storage directories is empty.
	ErrEmptyDirectory = errors.New("empty directory path")

	// ErrConfigNotFound is returned when the configuration file does not exist.
	ErrConfigNotFound = errors.New("configuration file not found")
)
