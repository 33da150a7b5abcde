package signal

import (
	"sync"
	"time"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// State is a signal's coarse health, set to StateError by MarkError and back
// to StateNormal by Registry.Reconfigure; the processing loop skips a signal
// in StateError.
type State int

const (
	StateNormal State = iota
	StateError
)

func (s State) String() string {
	if s == StateError {
		return "error"
	}
	return "normal"
}

// CachedAnalysis is one entry in a signal's last_analysis cache: an opaque
// analysis payload plus the wall-clock time it was produced. The payload
// type is owned by the pattern package; signal stores it as any to avoid a
// dependency cycle (pattern operates on signal.Signal snapshots).
type CachedAnalysis struct {
	Result    any
	Timestamp time.Time
}

// Signal is the primary registry entity: an id, its buffer, its
// effectively-immutable config, and a cache of the most recent analysis per
// mode (§3).
type Signal struct {
	ID     string
	Buffer *ringbuffer.RingBuffer

	mu     sync.RWMutex
	config Config
	state  State
	cause  error

	analysisMu sync.RWMutex
	analysis   map[Mode]CachedAnalysis
}

func newSignal(id string, cfg Config) *Signal {
	return &Signal{
		ID:       id,
		Buffer:   ringbuffer.New(cfg.effectiveCapacity()),
		config:   cfg,
		analysis: make(map[Mode]CachedAnalysis),
	}
}

// Config returns a copy of the signal's current configuration.
func (s *Signal) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config
}

// setConfig atomically replaces the configuration, leaving the buffer
// untouched. Registry.Reconfigure does not call it; it assigns the
// configuration itself.
func (s *Signal) setConfig(cfg Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// State returns the signal's current health state and, if errored, the
// cause.
func (s *Signal) State() (State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.cause
}

// MarkError transitions the signal to StateError with the given cause; the
// signal stays registered but is skipped by the loop until reconfigured.
// The processing loop never calls it itself, so only an explicit caller puts
// a signal into StateError.
func (s *Signal) MarkError(cause error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateError
	s.cause = cause
}

// clearError resets a signal to StateNormal, called by Reconfigure.
func (s *Signal) clearError() {
	s.state = StateNormal
	s.cause = nil
}

// LastAnalysis returns the cached result for mode, if any.
func (s *Signal) LastAnalysis(mode Mode) (CachedAnalysis, bool) {
	s.analysisMu.RLock()
	defer s.analysisMu.RUnlock()
	c, ok := s.analysis[mode]
	return c, ok
}

// SetLastAnalysis stores the most recent analysis result for mode. Called by
// the processing loop after computing a fresh result.
func (s *Signal) SetLastAnalysis(mode Mode, result any, at time.Time) {
	s.analysisMu.Lock()
	defer s.analysisMu.Unlock()
	s.analysis[mode] = CachedAnalysis{Result: result, Timestamp: at}
}

// Summary is the lightweight listing payload returned by Registry.List.
type Summary struct {
	ID             string
	RateHint       RateHint
	BufferCapacity int
	Length         int
	State          State
	Derived        bool
}

func (s *Signal) summary() Summary {
	cfg := s.Config()
	st, _ := s.State()
	return Summary{
		ID:             s.ID,
		RateHint:       cfg.RateHint,
		BufferCapacity: cfg.effectiveCapacity(),
		Length:         s.Buffer.Len(),
		State:          st,
		Derived:        cfg.Derived,
	}
}
