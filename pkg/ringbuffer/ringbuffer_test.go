package ringbuffer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPushWithinCapacity(t *testing.T) {
	rb := New(5)
	for i := int64(1); i <= 3; i++ {
		rb.Push(Sample{Value: float64(i), TimestampUs: i})
	}

	require.Equal(t, 3, rb.Len())
	snap := rb.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, []float64{1, 2, 3}, values(snap))
}

func TestPushOverflowDropsOldest(t *testing.T) {
	rb := New(3)
	for i := int64(1); i <= 5; i++ {
		rb.Push(Sample{Value: float64(i), TimestampUs: i})
	}

	require.Equal(t, 3, rb.Len())
	snap := rb.Snapshot()
	assert.Equal(t, []float64{3, 4, 5}, values(snap))
}

func TestOutOfOrderTagging(t *testing.T) {
	rb := New(4)
	rb.Push(Sample{Value: 1, TimestampUs: 100})
	rb.Push(Sample{Value: 2, TimestampUs: 50}) // goes backwards
	rb.Push(Sample{Value: 3, TimestampUs: 50}) // equal, still flagged

	snap := rb.Snapshot()
	require.Len(t, snap, 3)
	assert.False(t, snap[0].OutOfOrder)
	assert.True(t, snap[1].OutOfOrder)
	assert.True(t, snap[2].OutOfOrder)
}

func TestFirstLastTimestamp(t *testing.T) {
	rb := New(3)
	_, ok := rb.FirstTimestamp()
	assert.False(t, ok)
	_, ok = rb.LastTimestamp()
	assert.False(t, ok)

	for i := int64(1); i <= 5; i++ {
		rb.Push(Sample{Value: float64(i), TimestampUs: i * 10})
	}
	first, ok := rb.FirstTimestamp()
	require.True(t, ok)
	assert.Equal(t, int64(30), first) // samples 1,2 dropped, capacity 3

	last, ok := rb.LastTimestamp()
	require.True(t, ok)
	assert.Equal(t, int64(50), last)
}

func TestSnapshotIndependence(t *testing.T) {
	rb := New(3)
	rb.Push(Sample{Value: 1, TimestampUs: 1, Metadata: map[string]any{"k": "v"}})

	snap := rb.Snapshot()
	snap[0].Metadata["k"] = "mutated"

	again := rb.Snapshot()
	assert.Equal(t, "v", again[0].Metadata["k"])
}

func TestCapacityClampedToOne(t *testing.T) {
	rb := New(0)
	assert.Equal(t, 1, rb.Capacity())
}

func values(s []Sample) []float64 {
	out := make([]float64, len(s))
	for i, x := range s {
		out[i] = x.Value
	}
	return out
}
