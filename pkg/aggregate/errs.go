package aggregate

import "errors"

var (
	// ErrInvalidSpec is returned when an aggregation or pipeline spec fails
	// validation (empty input list, unknown type, zero window, etc).
	ErrInvalidSpec = errors.New("aggregate: invalid spec")

	// ErrCycle is returned by CreateAggregation when the new pipeline's
	// output would (directly or transitively) feed its own input list
	// (§4.G "reject creation on any cycle").
	ErrCycle = errors.New("aggregate: cycle in pipeline graph")

	// ErrNotFound is returned by operations on an unknown pipeline id.
	ErrNotFound = errors.New("aggregate: pipeline not found")
)
