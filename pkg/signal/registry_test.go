package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) Publish(topic, id string, payload any) {
	n.events = append(n.events, topic)
}

func TestRegisterAndGet(t *testing.T) {
	notif := &recordingNotifier{}
	r := NewRegistry(notif)

	err := r.Register("sig1", Config{BufferCapacity: 10})
	require.NoError(t, err)

	s, err := r.Get("sig1")
	require.NoError(t, err)
	assert.Equal(t, "sig1", s.ID)
	assert.Equal(t, 10, s.Buffer.Capacity())
	assert.Contains(t, notif.events, "signal:sig1")
}

func TestRegisterDuplicateFails(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("a", Config{}))

	err := r.Register("a", Config{})
	assert.ErrorIs(t, err, ErrAlreadyRegistered)
}

func TestRegisterInvalidConfigNoSideEffects(t *testing.T) {
	r := NewRegistry(nil)
	err := r.Register("bad", Config{BufferCapacity: -1})
	assert.ErrorIs(t, err, ErrInvalidConfig)

	_, err = r.Get("bad")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnregisterIdempotent(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("a", Config{}))

	r.Unregister("a")
	r.Unregister("a") // second call is a no-op, not an error

	_, err := r.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterUnregisterRegisterIdempotence(t *testing.T) {
	// §8: register; unregister; register leaves the same observable state
	// as a fresh register.
	r1 := NewRegistry(nil)
	cfg := Config{BufferCapacity: 5}
	require.NoError(t, r1.Register("x", cfg))
	r1.Unregister("x")
	require.NoError(t, r1.Register("x", cfg))

	r2 := NewRegistry(nil)
	require.NoError(t, r2.Register("x", cfg))

	s1, _ := r1.Get("x")
	s2, _ := r2.Get("x")
	assert.Equal(t, s1.Buffer.Len(), s2.Buffer.Len())
	assert.Equal(t, s1.Config(), s2.Config())
}

func TestReconfigureResizesBufferAndClearsError(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("a", Config{BufferCapacity: 3}))

	s, _ := r.Get("a")
	s.MarkError(assert.AnError)

	require.NoError(t, r.Reconfigure("a", Config{BufferCapacity: 7}))

	st, cause := s.State()
	assert.Equal(t, StateNormal, st)
	assert.NoError(t, cause)
	assert.Equal(t, 7, s.Buffer.Capacity())
}

func TestListSortedSummaries(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register("b", Config{}))
	require.NoError(t, r.Register("a", Config{}))

	list := r.List()
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0].ID)
	assert.Equal(t, "b", list[1].ID)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{}.Validate())
	assert.Error(t, Config{BufferCapacity: -5}.Validate())
	assert.Error(t, Config{Filters: []FilterSpec{{Type: FilterType(99)}}}.Validate())
	assert.Error(t, Config{AnalysisModes: map[Mode]bool{Mode(99): true}}.Validate())
}
