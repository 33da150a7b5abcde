// Package eventbus implements component I: a topic-based publish/subscribe
// bus with bounded per-subscriber queues and drop-oldest backpressure.
package eventbus

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

// Event is a structured record published to a topic (§6 Egress — Event Bus:
// "events are structured records with fixed fields {topic, timestamp,
// signal_id, payload}").
type Event struct {
	Topic     string
	Timestamp time.Time
	SignalID  string
	Payload   any
}

// DefaultQueueCapacity bounds each subscriber's pending-delivery queue.
const DefaultQueueCapacity = 256

// subscription is one registered listener on a topic.
type subscription struct {
	id      string
	topic   string
	ch      chan Event
	dropped atomic.Uint64
	done    chan struct{}
	closeMu sync.Mutex
	closed  bool
}

// Bus implements topic pub/sub (§4.I). Delivery to in-process subscribers is
// best-effort at-least-once; a full subscriber queue drops its oldest
// pending event rather than blocking the publisher.
type Bus struct {
	log *zap.Logger

	mu   sync.RWMutex
	subs map[string]map[string]*subscription // topic -> subscription id -> subscription

	totalDropped atomic.Uint64
}

// New creates an empty Bus. A nil logger is replaced with zap.NewNop().
func New(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{
		log:  log,
		subs: make(map[string]map[string]*subscription),
	}
}

// Handle identifies one subscription, returned by Subscribe and consumed by
// Unsubscribe (§4.J `subscribe(topic) -> SubscriptionHandle`).
type Handle struct {
	id    string
	topic string
}

// Subscribe registers a new listener on topic and returns its handle plus
// the channel events are delivered on. The channel is closed by Unsubscribe.
func (b *Bus) Subscribe(topic string) (Handle, <-chan Event) {
	sub := &subscription{
		id:    uuid.NewString(),
		topic: topic,
		ch:    make(chan Event, DefaultQueueCapacity),
		done:  make(chan struct{}),
	}

	b.mu.Lock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]*subscription)
	}
	b.subs[topic][sub.id] = sub
	b.mu.Unlock()

	return Handle{id: sub.id, topic: topic}, sub.ch
}

// Unsubscribe removes a subscription; pending deliveries to it are
// discarded (§5: "Subscribers may unsubscribe at any time; pending
// deliveries to them are discarded").
func (b *Bus) Unsubscribe(h Handle) {
	b.mu.Lock()
	sub, ok := b.subs[h.topic][h.id]
	if ok {
		delete(b.subs[h.topic], h.id)
		if len(b.subs[h.topic]) == 0 {
			delete(b.subs, h.topic)
		}
	}
	b.mu.Unlock()

	if !ok {
		return
	}
	sub.closeMu.Lock()
	if !sub.closed {
		sub.closed = true
		close(sub.done)
		close(sub.ch)
	}
	sub.closeMu.Unlock()
}

// Publish delivers an event to every subscriber of topic. It never blocks:
// a subscriber whose queue is full has its oldest pending event dropped to
// make room (§4.I backpressure policy), incrementing that subscriber's and
// the bus-wide drop counter.
func (b *Bus) Publish(topic string, signalID string, payload any) {
	b.mu.RLock()
	subs := b.subs[topic]
	// Copy the slice of subscribers under the read lock so delivery itself
	// happens lock-free, matching §5's "single producer task publishes to
	// all subscribers of a topic" without holding the registry-style lock
	// across the send.
	targets := make([]*subscription, 0, len(subs))
	for _, sub := range subs {
		targets = append(targets, sub)
	}
	b.mu.RUnlock()

	if len(targets) == 0 {
		return
	}

	evt := Event{Topic: topic, Timestamp: time.Now(), SignalID: signalID, Payload: payload}
	for _, sub := range targets {
		b.deliver(sub, evt)
	}
}

func (b *Bus) deliver(sub *subscription, evt Event) {
	sub.closeMu.Lock()
	defer sub.closeMu.Unlock()
	if sub.closed {
		return
	}

	select {
	case sub.ch <- evt:
		return
	default:
	}

	// Queue full: drop the oldest pending event, then retry once.
	select {
	case <-sub.ch:
		sub.dropped.Inc()
		b.totalDropped.Inc()
		b.log.Debug("event dropped: subscriber queue full", zap.String("topic", sub.topic))
	default:
	}
	select {
	case sub.ch <- evt:
	default:
		// Another publisher raced us and refilled the queue; drop this one too.
		sub.dropped.Inc()
		b.totalDropped.Inc()
	}
}

// DroppedTotal returns the bus-wide count of events dropped to backpressure.
// The telemetry package's subscribers_dropped counter is not fed from it.
func (b *Bus) DroppedTotal() uint64 {
	return b.totalDropped.Load()
}

// TopicCount returns the number of distinct topics with at least one
// subscriber, used for diagnostics.
func (b *Bus) TopicCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
