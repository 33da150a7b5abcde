package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
	"github.com/signalforge/telemetry/pkg/signal"
)

func TestSampleAcceptedPushesBuffer(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("s1", signal.Config{BufferCapacity: 10}))

	sp := New(reg)
	outcome := sp.SampleAt("s1", 1.5, nil, 1000)

	assert.Equal(t, Accepted, outcome)
	sig, _ := reg.Get("s1")
	assert.Equal(t, 1, sig.Buffer.Len())
}

func TestSampleUnknownSignalDropped(t *testing.T) {
	reg := signal.NewRegistry(nil)
	sp := New(reg)

	outcome := sp.SampleAt("missing", 1.0, nil, 1000)
	assert.Equal(t, DroppedUnknownSignal, outcome)

	accepted, droppedUnknown, _, _ := sp.Counters()
	assert.Equal(t, uint64(0), accepted)
	assert.Equal(t, uint64(1), droppedUnknown)
}

func TestSampleOutOfOrderTimestampDropped(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("s1", signal.Config{BufferCapacity: 10}))

	sp := New(reg)
	require.Equal(t, Accepted, sp.SampleAt("s1", 1.0, nil, 1000))

	outcome := sp.SampleAt("s1", 2.0, nil, 999)
	assert.Equal(t, DroppedOutOfOrder, outcome)

	sig, _ := reg.Get("s1")
	assert.Equal(t, 1, sig.Buffer.Len())

	_, _, _, droppedOutOfOrder := sp.Counters()
	assert.Equal(t, uint64(1), droppedOutOfOrder)
}

func TestSampleOutOfOrderEqualTimestampDropped(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("s1", signal.Config{BufferCapacity: 10}))

	sp := New(reg)
	require.Equal(t, Accepted, sp.SampleAt("s1", 1.0, nil, 1000))

	outcome := sp.SampleAt("s1", 2.0, nil, 1000)
	assert.Equal(t, DroppedOutOfOrder, outcome)
}

func TestSampleDerivedSignalRejectsExternalWrite(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("composite", signal.Config{Derived: true}))

	sp := New(reg)
	outcome := sp.SampleAt("composite", 1.0, nil, 1000)
	assert.Equal(t, DroppedDerived, outcome)

	sig, _ := reg.Get("composite")
	assert.Equal(t, 0, sig.Buffer.Len())
}

func TestIngestDerivedBypassesGuard(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("composite", signal.Config{Derived: true}))

	sp := New(reg)
	outcome := sp.IngestDerived("composite", 2.0, 1000)
	assert.Equal(t, Accepted, outcome)

	sig, _ := reg.Get("composite")
	assert.Equal(t, 1, sig.Buffer.Len())
}

func TestOnSampleHookInvoked(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("s1", signal.Config{}))

	sp := New(reg)
	var got ringbuffer.Sample
	sp.OnSample(func(id string, s ringbuffer.Sample) { got = s })

	sp.SampleAt("s1", 3.0, nil, 42)
	assert.Equal(t, 3.0, got.Value)
	assert.Equal(t, int64(42), got.TimestampUs)
}

func TestSampleAssignsTimestampWhenZero(t *testing.T) {
	reg := signal.NewRegistry(nil)
	require.NoError(t, reg.Register("s1", signal.Config{}))

	sp := New(reg)
	sp.Sample("s1", 1.0, nil)

	sig, _ := reg.Get("s1")
	snap := sig.Buffer.Snapshot()
	require.Len(t, snap, 1)
	assert.NotZero(t, snap[0].TimestampUs)
}
