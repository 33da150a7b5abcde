package ringbuffer

import "sync"

// RingBuffer is a fixed-capacity FIFO of Samples. When full, Push drops the
// oldest sample. Snapshot returns an independent, ordered copy safe to read
// while writers continue pushing.
//
// The index arithmetic (head/count over a pre-allocated slice) follows the
// sliding-window ring buffers used for sparkline-style telemetry collection
// in the reference corpus, generalized from float64 samples to full Sample
// records.
type RingBuffer struct {
	mu       sync.RWMutex
	data     []Sample
	head     int // index of the oldest sample
	count    int // number of valid samples currently stored
	capacity int

	lastTimestampUs int64
	haveLast        bool
}

// New creates a RingBuffer with the given capacity. signal.Registry rejects
// a negative capacity and substitutes its default for zero; New clamps to at
// least 1 so the buffer is never unusable.
func New(capacity int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	return &RingBuffer{
		data:     make([]Sample, capacity),
		capacity: capacity,
	}
}

// Push appends a sample, assigning OutOfOrder if its timestamp does not
// exceed the previously pushed timestamp. The Sampler (§4.C) rejects
// out-of-order samples before they reach Push; this tag is a fallback for
// out-of-order writes that slip through a racing caller or a direct
// (non-Sampler) Push, so the condition is still identifiable in a
// Snapshot. When the buffer is at capacity the oldest sample is dropped.
// O(1) amortized.
func (r *RingBuffer) Push(s Sample) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.haveLast && s.TimestampUs <= r.lastTimestampUs {
		s.OutOfOrder = true
	}
	r.lastTimestampUs = s.TimestampUs
	r.haveLast = true

	idx := (r.head + r.count) % r.capacity
	r.data[idx] = s

	if r.count < r.capacity {
		r.count++
	} else {
		// overwritten the oldest slot; advance head
		r.head = (r.head + 1) % r.capacity
	}
}

// Len returns the number of samples currently stored.
func (r *RingBuffer) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}

// Capacity returns the fixed buffer capacity.
func (r *RingBuffer) Capacity() int {
	return r.capacity
}

// Snapshot returns an ordered, independent copy of the buffer's current
// contents (oldest first).
func (r *RingBuffer) Snapshot() []Sample {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Sample, r.count)
	for i := 0; i < r.count; i++ {
		out[i] = r.data[(r.head+i)%r.capacity].Clone()
	}
	return out
}

// FirstTimestamp returns the timestamp of the oldest sample, or (0, false)
// if the buffer is empty.
func (r *RingBuffer) FirstTimestamp() (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return 0, false
	}
	return r.data[r.head].TimestampUs, true
}

// LastTimestamp returns the timestamp of the most recently pushed sample, or
// (0, false) if the buffer is empty.
func (r *RingBuffer) LastTimestamp() (int64, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.count == 0 {
		return 0, false
	}
	idx := (r.head + r.count - 1) % r.capacity
	return r.data[idx].TimestampUs, true
}
