package signal

import "errors"

var (
	// ErrAlreadyRegistered is returned by Registry.Register when id exists.
	ErrAlreadyRegistered = errors.New("signal: already registered")

	// ErrNotFound is returned by operations on an unknown signal id.
	ErrNotFound = errors.New("signal: not found")

	// ErrInvalidConfig is returned when a Config fails Validate.
	ErrInvalidConfig = errors.New("signal: invalid config")

	// ErrSignalInError is returned when an operation targets a signal the
	// processing loop has marked errored (§7 fatal-error handling); the
	// signal remains in the registry but is excluded from analysis until
	// reconfigured.
	ErrSignalInError = errors.New("signal: signal is in error state")
)
