// Package sampler implements non-blocking ingestion of samples into the
// signal registry (component C).
package sampler

import (
	"time"

	"go.uber.org/atomic"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

// Outcome is the tagged result of a Sample call (§4.J).
type Outcome int

const (
	Accepted Outcome = iota
	DroppedUnknownSignal
	DroppedDerived
	DroppedOutOfOrder
)

func (o Outcome) String() string {
	switch o {
	case Accepted:
		return "accepted"
	case DroppedUnknownSignal:
		return "dropped_unknown_signal"
	case DroppedDerived:
		return "dropped_derived"
	case DroppedOutOfOrder:
		return "dropped_out_of_order"
	default:
		return "unknown"
	}
}

// Counters tracks ingestion outcomes, exposed to the metrics surface (§6).
// go.uber.org/atomic counters avoid a mutex on the hot ingest path, the same
// shape as the token-bucket-guarded atomic counters in the vendored
// DataDog rare sampler this module is grounded on.
type Counters struct {
	Accepted          atomic.Uint64
	DroppedUnknown    atomic.Uint64
	DroppedDerived    atomic.Uint64
	DroppedOutOfOrder atomic.Uint64
}

// Sampler pushes values into a signal's ring buffer. It never blocks the
// caller and never returns an error for an unknown signal — per §4.C that is
// a non-fatal, counted condition.
type Sampler struct {
	registry *signal.Registry
	counters Counters

	// onSample, if set, is invoked after every accepted push — the "new
	// sample" condition hook real-time analyses may subscribe to (§4.C).
	// Ordinary analysis still runs on the periodic loop; this is advisory
	// only and must not block ingestion.
	onSample func(id string, s ringbuffer.Sample)
}

// New creates a Sampler bound to registry.
func New(registry *signal.Registry) *Sampler {
	return &Sampler{registry: registry}
}

// OnSample registers a callback invoked (synchronously, after the push)
// whenever a sample is accepted. Passing nil disables the hook.
func (s *Sampler) OnSample(fn func(id string, sample ringbuffer.Sample)) {
	s.onSample = fn
}

// Sample ingests value for signal id, stamped with the current wall-clock
// time in microseconds. Raw samples are preserved verbatim — no filtering
// happens at ingest (§4.C).
func (s *Sampler) Sample(id string, value float64, metadata map[string]any) Outcome {
	return s.sampleAt(id, value, metadata, nowMicros())
}

// SampleAt is Sample with an explicit ingest timestamp, used by tests and by
// replay tooling.
func (s *Sampler) SampleAt(id string, value float64, metadata map[string]any, timestampUs int64) Outcome {
	return s.sampleAt(id, value, metadata, timestampUs)
}

// sampleAt resolves §3's "out-of-order samples are rejected or tagged
// out-of-order" in favor of rejection: a timestamp that does not exceed the
// signal's last-accepted timestamp is dropped and counted rather than
// stored, matching the DroppedOutOfOrder outcome §4.J names. A race between
// two concurrent Sample calls on the same signal can still let an
// out-of-order write through this check; RingBuffer.Push tags that sample
// OutOfOrder as a last line of defense so it remains identifiable in a
// Snapshot even though the Sampler reported it Accepted.
func (s *Sampler) sampleAt(id string, value float64, metadata map[string]any, timestampUs int64) Outcome {
	sig, err := s.registry.Get(id)
	if err != nil {
		s.counters.DroppedUnknown.Inc()
		return DroppedUnknownSignal
	}

	if sig.Config().Derived {
		s.counters.DroppedDerived.Inc()
		return DroppedDerived
	}

	if last, ok := sig.Buffer.LastTimestamp(); ok && timestampUs <= last {
		s.counters.DroppedOutOfOrder.Inc()
		return DroppedOutOfOrder
	}

	sample := ringbuffer.Sample{Value: value, TimestampUs: timestampUs, Metadata: metadata}
	sig.Buffer.Push(sample)
	s.counters.Accepted.Inc()

	if s.onSample != nil {
		s.onSample(id, sample)
	}
	return Accepted
}

// ingestDerived pushes a sample produced by the Aggregator into a derived
// signal's buffer, bypassing the Derived guard above — only the aggregator
// package is meant to call this (§4.G: composite output is pushed back via
// the Sampler with a derived=true flag).
func (s *Sampler) ingestDerived(id string, value float64, timestampUs int64) Outcome {
	sig, err := s.registry.Get(id)
	if err != nil {
		s.counters.DroppedUnknown.Inc()
		return DroppedUnknownSignal
	}
	sig.Buffer.Push(ringbuffer.Sample{Value: value, TimestampUs: timestampUs})
	s.counters.Accepted.Inc()
	return Accepted
}

// IngestDerived exposes ingestDerived to other core packages (the
// aggregator) without opening direct ingestion of derived signals to
// external callers through the exported Sample/SampleAt path.
func (s *Sampler) IngestDerived(id string, value float64, timestampUs int64) Outcome {
	return s.ingestDerived(id, value, timestampUs)
}

// Counters returns a snapshot of ingestion counters.
func (s *Sampler) Counters() (accepted, droppedUnknown, droppedDerived, droppedOutOfOrder uint64) {
	return s.counters.Accepted.Load(), s.counters.DroppedUnknown.Load(),
		s.counters.DroppedDerived.Load(), s.counters.DroppedOutOfOrder.Load()
}

func nowMicros() int64 {
	return time.Now().UnixMicro()
}
