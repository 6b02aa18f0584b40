// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"sync"
	"sync/atomic"
)

// DefaultBusCapacity is the per-subscription buffer size used by
// NewBus when the caller passes a non-positive capacity.
const DefaultBusCapacity = 64

// Bus is a broadcast channel for framework events. Every subscription
// receives every event published after it was created, subject to the
// lossy overflow policy described in the package comment.
//
// All methods are safe for concurrent use.
type Bus struct {
	mu            sync.Mutex
	subscriptions map[*Subscription]struct{}
	capacity      int
	closed        bool
}

// NewBus returns a bus whose subscriptions buffer up to capacity
// events. Non-positive capacity selects DefaultBusCapacity.
func NewBus(capacity int) *Bus {
	if capacity <= 0 {
		capacity = DefaultBusCapacity
	}
	return &Bus{
		subscriptions: make(map[*Subscription]struct{}),
		capacity:      capacity,
	}
}

// Subscribe registers a new subscription. The caller must Close it
// when done; an abandoned open subscription accumulates drops but
// costs nothing else. Subscribing to a closed bus returns an already
// closed subscription whose channel yields no events.
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscription := &Subscription{
		bus: b,
		ch:  make(chan Event, b.capacity),
	}
	if b.closed {
		close(subscription.ch)
		return subscription
	}
	b.subscriptions[subscription] = struct{}{}
	return subscription
}

// Publish fans ev out to every live subscription without blocking.
// A subscription whose buffer is full loses its oldest buffered event
// to make room for ev.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	for subscription := range b.subscriptions {
		for {
			select {
			case subscription.ch <- ev:
			default:
				// Buffer full: evict the oldest event and retry. The
				// publisher side is serialized by b.mu, so the retry
				// cannot race another fill.
				select {
				case <-subscription.ch:
					subscription.dropped.Add(1)
				default:
				}
				continue
			}
			break
		}
	}
}

// Close closes every live subscription and marks the bus closed.
// Publish becomes a no-op; Subscribe returns closed subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for subscription := range b.subscriptions {
		close(subscription.ch)
	}
	b.subscriptions = nil
}

// SubscriberCount returns the number of live subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscriptions)
}

// Subscription is one receiver's view of the bus. Receive events from
// C; the channel closes when the subscription or the bus is closed.
type Subscription struct {
	bus     *Bus
	ch      chan Event
	dropped atomic.Uint64
}

// C returns the receive channel. Range over it in the consuming
// goroutine; the loop ends when the subscription closes.
func (s *Subscription) C() <-chan Event { return s.ch }

// Dropped returns how many events this subscription has lost to
// buffer overflow since it was created.
func (s *Subscription) Dropped() uint64 { return s.dropped.Load() }

// Close detaches the subscription from the bus and closes its
// channel. Safe to call more than once. Buffered events that were
// already delivered remain readable until drained.
func (s *Subscription) Close() {
	s.bus.mu.Lock()
	defer s.bus.mu.Unlock()
	if _, live := s.bus.subscriptions[s]; !live {
		return
	}
	delete(s.bus.subscriptions, s)
	close(s.ch)
}
