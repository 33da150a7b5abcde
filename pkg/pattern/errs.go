package pattern

import "errors"

// ErrInsufficientData is returned (wrapped into a Result, not propagated as
// an error) when N is too small for a given detector to produce a
// meaningful answer (§4.E "degrade gracefully when N is small").
var ErrInsufficientData = errors.New("pattern: insufficient data")
