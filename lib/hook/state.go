// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "sync"

type stateCell[T any] struct {
	mu      sync.Mutex
	value   T
	next    T
	hasNext bool
	queued  bool

	pending *PendingSet
	disp    Dispatcher
}

// State is the write handle for a state slot. It is safe to call from
// any goroutine: writes are queued and applied before the next render
// pass, so a render never observes a half-applied value. When several
// writes land before one pass, the last one wins.
type State[T any] struct {
	cell *stateCell[T]
}

// UseState claims a state slot holding initial on the first render
// and returns the slot's current value together with its write
// handle.
func UseState[T any](s *Scope, initial T) (T, State[T]) {
	cell := nextCell(s, slotState, "UseState", func() *stateCell[T] {
		return &stateCell[T]{
			value:   initial,
			pending: s.host.Pending,
			disp:    s.host.Dispatcher,
		}
	})
	cell.mu.Lock()
	value := cell.value
	cell.mu.Unlock()
	return value, State[T]{cell: cell}
}

// Set queues v as the slot's next value and requests a render.
func (st State[T]) Set(v T) {
	c := st.cell
	c.mu.Lock()
	c.next = v
	c.hasNext = true
	enqueue := !c.queued
	c.queued = true
	c.mu.Unlock()
	if enqueue {
		c.pending.add(c)
	}
	c.disp.RequestRender()
}

// Update queues f applied to the slot's latest value (the queued next
// value if one exists, the current value otherwise) and requests a
// render. Unlike read-then-Set, the read and write happen under one
// lock, so concurrent Updates never lose increments.
func (st State[T]) Update(f func(T) T) {
	c := st.cell
	c.mu.Lock()
	base := c.value
	if c.hasNext {
		base = c.next
	}
	c.next = f(base)
	c.hasNext = true
	enqueue := !c.queued
	c.queued = true
	c.mu.Unlock()
	if enqueue {
		c.pending.add(c)
	}
	c.disp.RequestRender()
}

func (c *stateCell[T]) applyPending() {
	c.mu.Lock()
	if c.hasNext {
		c.value = c.next
		c.hasNext = false
	}
	var zero T
	c.next = zero
	c.queued = false
	c.mu.Unlock()
}

type reducerCell[S, A any] struct {
	mu     sync.Mutex
	value  S
	reduce func(S, A) S
	queue  []A
	queued bool

	pending *PendingSet
	disp    Dispatcher
}

// Dispatch queues an action for a reducer slot. Safe to call from any
// goroutine.
type Dispatch[A any] func(action A)

// UseReducer claims a reducer slot holding initial on the first
// render and returns the slot's current value together with a
// dispatch handle. Dispatched actions queue up and the reducer folds
// them into the value, in dispatch order, before the next render
// pass; every action is applied, none coalesce. The reducer must be
// pure: it runs outside any render, holding the cell's lock, so it
// must not dispatch further actions or touch other hooks.
func UseReducer[S, A any](s *Scope, initial S, reduce func(S, A) S) (S, Dispatch[A]) {
	cell := nextCell(s, slotReducer, "UseReducer", func() *reducerCell[S, A] {
		return &reducerCell[S, A]{
			value:   initial,
			reduce:  reduce,
			pending: s.host.Pending,
			disp:    s.host.Dispatcher,
		}
	})
	cell.mu.Lock()
	value := cell.value
	cell.mu.Unlock()
	return value, cell.dispatch
}

func (c *reducerCell[S, A]) dispatch(action A) {
	c.mu.Lock()
	c.queue = append(c.queue, action)
	enqueue := !c.queued
	c.queued = true
	c.mu.Unlock()
	if enqueue {
		c.pending.add(c)
	}
	c.disp.RequestRender()
}

func (c *reducerCell[S, A]) applyPending() {
	c.mu.Lock()
	for _, action := range c.queue {
		c.value = c.reduce(c.value, action)
	}
	c.queue = nil
	c.queued = false
	c.mu.Unlock()
}
