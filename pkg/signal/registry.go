package signal

import (
	"fmt"
	"sort"
	"sync"

	"github.com/signalforge/telemetry/pkg/ringbuffer"
)

// Notifier publishes lifecycle events. Registry accepts one through an
// interface (rather than importing pkg/eventbus directly) so the Event Bus
// stays a pure downstream consumer of the registry, not a dependency of it —
// pkg/eventbus.Bus satisfies this interface structurally.
type Notifier interface {
	Publish(topic string, signalID string, payload any)
}

type noopNotifier struct{}

func (noopNotifier) Publish(string, string, any) {}

// Registry maintains the mapping from signal id to Signal (§4.B).
// Registration and unregistration are serialized against each other and
// against List/Get; Get returns a handle whose buffer may be read and
// written concurrently without taking the registry lock (§5).
type Registry struct {
	mu       sync.RWMutex
	signals  map[string]*Signal
	notifier Notifier
}

// NewRegistry creates an empty Registry. A nil notifier is replaced with a
// no-op.
func NewRegistry(notifier Notifier) *Registry {
	if notifier == nil {
		notifier = noopNotifier{}
	}
	return &Registry{
		signals:  make(map[string]*Signal),
		notifier: notifier,
	}
}

// Register creates a new signal with the given id and config. It fails with
// ErrAlreadyRegistered if id exists, or a wrapped ErrInvalidConfig if cfg is
// invalid; in neither failure case is any state mutated.
func (r *Registry) Register(id string, cfg Config) error {
	if id == "" {
		return fmt.Errorf("%w: empty id", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.signals[id]; exists {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, id)
	}

	r.signals[id] = newSignal(id, cfg)
	r.notifier.Publish("signal:"+id, id, "registered")
	return nil
}

// Unregister idempotently removes a signal; calling it on an unknown id is a
// no-op, matching the idempotence property in §8.
func (r *Registry) Unregister(id string) {
	r.mu.Lock()
	_, existed := r.signals[id]
	delete(r.signals, id)
	r.mu.Unlock()

	if existed {
		r.notifier.Publish("signal:"+id, id, "unregistered")
	}
}

// Get returns the Signal handle for id, or ErrNotFound.
func (r *Registry) Get(id string) (*Signal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.signals[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return s, nil
}

// Reconfigure atomically replaces a signal's configuration. If the new
// buffer capacity differs from the current one, the buffer is replaced
// (existing samples are dropped — a config change is a write, not a
// resize-in-place, matching §4.B "config is effectively immutable
// post-registration; changes go through reconfigure... which is a write").
// Reconfiguring also clears any error state (§7).
func (r *Registry) Reconfigure(id string, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	r.mu.RLock()
	s, ok := r.signals[id]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	s.mu.Lock()
	if s.config.effectiveCapacity() != cfg.effectiveCapacity() {
		s.Buffer = ringbuffer.New(cfg.effectiveCapacity())
	}
	s.config = cfg
	s.clearError()
	s.mu.Unlock()

	r.notifier.Publish("signal:"+id, id, "reconfigured")
	return nil
}

// List enumerates known signal ids with a summary, sorted by id.
func (r *Registry) List() []Summary {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Summary, 0, len(r.signals))
	for _, s := range r.signals {
		out = append(out, s.summary())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Ids returns the set of currently registered signal ids, used by the
// processing loop to iterate without holding the registry lock across
// analysis work (§5).
func (r *Registry) Ids() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.signals))
	for id := range r.signals {
		out = append(out, id)
	}
	return out
}
