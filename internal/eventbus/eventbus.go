// Package eventbus fans evolution events out to in-process consumers.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// Event is any value published on the bus.
type Event interface{}

// EventBus is the publishing side seen by the driver and the consumers.
type EventBus interface {
	Publish(Event)
	Subscribe(...Option) <-chan Event
	Unsubscribe(<-chan Event)
	Close()
}

// DefaultBuffer is the channel size of a subscriber without WithBuffer.
const DefaultBuffer = 8

type subscriber struct {
	name    string
	ch      chan Event
	accept  func(Event) bool
	dropped atomic.Uint64
}

// Option configures a subscription.
type Option func(*subscriber)

// WithName labels the subscription in Stats.
func WithName(name string) Option {
	return func(s *subscriber) { s.name = name }
}

// WithBuffer sets the subscriber channel size.
func WithBuffer(n int) Option {
	return func(s *subscriber) {
		if n >= 0 {
			s.ch = make(chan Event, n)
		}
	}
}

// WithFilter delivers only the events accepted by fn.
func WithFilter(fn func(Event) bool) Option {
	return func(s *subscriber) { s.accept = fn }
}

// Only delivers the events whose dynamic type is one of the given samples.
func Only(samples ...Event) Option {
	return WithFilter(func(e Event) bool {
		for _, s := range samples {
			if sameType(e, s) {
				return true
			}
		}
		return false
	})
}

// Stats describes one live subscription.
type Stats struct {
	Name    string
	Dropped uint64
	Pending int
}

// Bus delivers every event to every matching subscriber without blocking.
// A subscriber whose buffer is full misses the event; the miss is counted
// against that subscriber.
type Bus struct {
	mu     sync.RWMutex
	subs   []*subscriber
	closed bool
}

// New creates an empty bus.
func New() *Bus { return &Bus{} }

// Publish sends e to the subscribers whose filter accepts it.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, s := range b.subs {
		if s.accept != nil && !s.accept(e) {
			continue
		}
		select {
		case s.ch <- e:
		default:
			s.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber. On a closed bus the returned channel is
// already closed.
func (b *Bus) Subscribe(opts ...Option) <-chan Event {
	s := &subscriber{}
	for _, o := range opts {
		o(s)
	}
	if s.ch == nil {
		s.ch = make(chan Event, DefaultBuffer)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(s.ch)
		return s.ch
	}
	b.subs = append(b.subs, s)
	return s.ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus) Unsubscribe(ch <-chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, s := range b.subs {
		if s.ch == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(s.ch)
			return
		}
	}
}

// Dropped returns the total number of missed deliveries.
func (b *Bus) Dropped() uint64 {
	var n uint64
	for _, s := range b.Stats() {
		n += s.Dropped
	}
	return n
}

// Stats reports every live subscription in subscription order.
func (b *Bus) Stats() []Stats {
	b.mu.RLock()
	defer b.mu.RUnlock()
	out := make([]Stats, 0, len(b.subs))
	for _, s := range b.subs {
		out = append(out, Stats{Name: s.name, Dropped: s.dropped.Load(), Pending: len(s.ch)})
	}
	return out
}

// Close closes every subscriber channel. Later publishes are ignored.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, s := range b.subs {
		close(s.ch)
	}
	b.subs = nil
}
