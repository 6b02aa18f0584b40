// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package interaction maps screen positions to interactive node ids.
//
// The renderer rewrites the registry on every draw: each button and
// text field records the cell rectangle it was drawn into, in draw
// order. Event handling resolves a mouse position to the id of the
// topmost rectangle containing it, so overlays naturally shadow the
// base tree underneath. The registry is scoped to one app instance,
// not process-wide, so apps in the same process (and in tests) stay
// independent.
package interaction

import "sync"

// Hitbox is a rectangle of screen cells claimed by an interactive
// node.
type Hitbox struct {
	ID     string
	X      int
	Y      int
	Width  int
	Height int
}

// Contains reports whether the cell at (column, row) lies inside the
// rectangle.
func (h Hitbox) Contains(column, row int) bool {
	return column >= h.X && column < h.X+h.Width &&
		row >= h.Y && row < h.Y+h.Height
}

// Registry is one app's hitbox table.
type Registry struct {
	mu    sync.Mutex
	boxes []Hitbox
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Reset discards all recorded hitboxes. The renderer calls this at
// the start of every draw.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.boxes = r.boxes[:0]
	r.mu.Unlock()
}

// Add records a hitbox. Later additions take precedence in Lookup, so
// callers record in draw order.
func (r *Registry) Add(box Hitbox) {
	r.mu.Lock()
	r.boxes = append(r.boxes, box)
	r.mu.Unlock()
}

// Lookup returns the id of the topmost hitbox containing (column,
// row), or false when no hitbox does.
func (r *Registry) Lookup(column, row int) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.boxes) - 1; i >= 0; i-- {
		if r.boxes[i].Contains(column, row) {
			return r.boxes[i].ID, true
		}
	}
	return "", false
}
