// Package signal owns the Signal entity and its concurrent Registry: the
// lifecycle of registered signals and their configuration (component B).
package signal

import "fmt"

// RateHint is an advisory sampling-rate class used for filter design and
// window sizing (§3). It never gates ingestion.
type RateHint int

const (
	// RateUnspecified means no hint was given; components fall back to
	// RateStandard for window-sizing purposes.
	RateUnspecified RateHint = iota
	RateHigh                 // ~100 Hz
	RateStandard             // ~10 Hz
	RateLow                  // ~1 Hz
)

// Hz returns the nominal frequency this hint represents.
func (r RateHint) Hz() float64 {
	switch r {
	case RateHigh:
		return 100
	case RateLow:
		return 1
	default:
		return 10
	}
}

func (r RateHint) String() string {
	switch r {
	case RateHigh:
		return "high"
	case RateStandard:
		return "standard"
	case RateLow:
		return "low"
	default:
		return "unspecified"
	}
}

// FilterType names a filter applied at analysis time (§3: "filters: ordered
// list of filter specifications... applied at analysis time, not at ingest").
type FilterType int

const (
	FilterMovingAverage FilterType = iota
	FilterLowPass
	FilterHighPass
	FilterBandPass
	FilterButterworth
	FilterKalman
	FilterLMS
)

func (f FilterType) String() string {
	switch f {
	case FilterMovingAverage:
		return "moving_average"
	case FilterLowPass:
		return "low_pass"
	case FilterHighPass:
		return "high_pass"
	case FilterBandPass:
		return "band_pass"
	case FilterButterworth:
		return "butterworth"
	case FilterKalman:
		return "kalman"
	case FilterLMS:
		return "lms"
	default:
		return "unknown"
	}
}

// FilterSpec is one entry in a signal's ordered filter chain.
type FilterSpec struct {
	Type   FilterType
	Params map[string]float64
}

// Mode names an analysis family (§3 analysis_modes).
type Mode int

const (
	ModeBasic Mode = iota
	ModeSpectrum
	ModePeaks
	ModeEnvelope
	ModePeriodicity
	ModeTrend
	ModeAnomaly
	ModeChaos
	ModeFractal
)

func (m Mode) String() string {
	switch m {
	case ModeBasic:
		return "basic"
	case ModeSpectrum:
		return "spectrum"
	case ModePeaks:
		return "peaks"
	case ModeEnvelope:
		return "envelope"
	case ModePeriodicity:
		return "periodicity"
	case ModeTrend:
		return "trend"
	case ModeAnomaly:
		return "anomaly"
	case ModeChaos:
		return "chaos"
	case ModeFractal:
		return "fractal"
	default:
		return "unknown"
	}
}

// DefaultBufferCapacity is used when Config.BufferCapacity is zero.
const DefaultBufferCapacity = 1000

// Config is a signal's static, effectively-immutable-post-registration
// configuration (§3, §4.B).
type Config struct {
	RateHint       RateHint
	BufferCapacity int
	Filters        []FilterSpec
	AnalysisModes  map[Mode]bool
	Metadata       map[string]string

	// Derived marks a signal produced by an aggregation pipeline. The
	// Sampler refuses direct external Sample calls on a derived signal with
	// the DroppedDerived outcome; the registry itself only tracks the flag.
	Derived bool
}

// Validate checks the structural invariants a Config must satisfy before a
// signal can be registered or reconfigured.
func (c Config) Validate() error {
	if c.BufferCapacity < 0 {
		return fmt.Errorf("%w: buffer_capacity must be >= 0, got %d", ErrInvalidConfig, c.BufferCapacity)
	}
	for _, f := range c.Filters {
		if f.Type < FilterMovingAverage || f.Type > FilterLMS {
			return fmt.Errorf("%w: unknown filter type %v", ErrInvalidConfig, f.Type)
		}
	}
	for m := range c.AnalysisModes {
		if m < ModeBasic || m > ModeFractal {
			return fmt.Errorf("%w: unknown analysis mode %v", ErrInvalidConfig, m)
		}
	}
	return nil
}

// effectiveCapacity returns BufferCapacity or the default if unset.
func (c Config) effectiveCapacity() int {
	if c.BufferCapacity == 0 {
		return DefaultBufferCapacity
	}
	return c.BufferCapacity
}

// HasMode reports whether the given analysis mode is enabled.
func (c Config) HasMode(m Mode) bool {
	return c.AnalysisModes[m]
}
