package control

import "errors"

var (
	// ErrInvalidConfig is returned when a ThresholdConfig or ScalerConfig
	// fails validation.
	ErrInvalidConfig = errors.New("control: invalid config")

	// ErrNotFound is returned by operations addressing an unknown
	// controller or scaler id.
	ErrNotFound = errors.New("control: not found")
)
