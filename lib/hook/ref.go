// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "sync"

type refCell[T any] struct {
	mu    sync.Mutex
	value T
}

// Ref is the handle for a ref slot: a mutable cell that persists
// across renders without ever triggering one. Accessors are safe to
// call from any goroutine.
type Ref[T any] struct {
	cell *refCell[T]
}

// UseRef claims a ref slot holding initial on the first render and
// returns its handle.
func UseRef[T any](s *Scope, initial T) Ref[T] {
	cell := nextCell(s, slotRef, "UseRef", func() *refCell[T] {
		return &refCell[T]{value: initial}
	})
	return Ref[T]{cell: cell}
}

// Get returns the current value.
func (r Ref[T]) Get() T {
	r.cell.mu.Lock()
	defer r.cell.mu.Unlock()
	return r.cell.value
}

// Set replaces the value.
func (r Ref[T]) Set(v T) {
	r.cell.mu.Lock()
	r.cell.value = v
	r.cell.mu.Unlock()
}

// Update replaces the value with f applied to it, atomically with
// respect to the other accessors.
func (r Ref[T]) Update(f func(T) T) {
	r.cell.mu.Lock()
	r.cell.value = f(r.cell.value)
	r.cell.mu.Unlock()
}
