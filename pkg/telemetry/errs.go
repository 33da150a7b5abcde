package telemetry

import "errors"

var (
	// ErrNotFound is returned by ApplyControl and UpdateAdaptation when the
	// signal has no threshold controller or scaler. An unknown signal id
	// surfaces signal.ErrNotFound from the registry instead.
	ErrNotFound = errors.New("telemetry: not found")

	// ErrInvalidConfig is returned by ApplyFilter for an unknown filter
	// type. Configurations rejected by a component surface that
	// component's own error (such as signal.ErrInvalidConfig).
	ErrInvalidConfig = errors.New("telemetry: invalid config")

	// ErrAlreadyRegistered is not returned by Core: RegisterSignal passes
	// through signal.ErrAlreadyRegistered for a duplicate id.
	ErrAlreadyRegistered = errors.New("telemetry: already registered")

	// ErrInsufficientData is returned by AnalyzeWaveform when too few
	// samples are available for the requested mode.
	ErrInsufficientData = errors.New("telemetry: insufficient data")
)
