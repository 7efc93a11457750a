package domain

import "time"

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout is the timeout for completion backend requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultProbeTimeout bounds diagnostic lookups run by doctor
	DefaultProbeTimeout = 2 * time.Second
)

// Loop constants
const (
	// MaxAttempts bounds the number of synthesized commands per run.
	MaxAttempts = 3
)

// Environment fallbacks
const (
	// UnknownValue is reported for environment details that cannot be resolved.
	UnknownValue = "Unknown"
	// UnknownOS is reported when the operating system family is not recognized.
	UnknownOS = "Unknown OS"
)
