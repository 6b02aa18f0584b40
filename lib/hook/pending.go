// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "sync"

type pendingCell interface {
	applyPending()
}

// PendingSet collects state and reducer cells with mutations waiting
// to be applied. Setter and dispatch handles may run on any
// goroutine; they register their cell here and the app drains the set
// on its own goroutine at the start of the next render pass, so every
// component in that pass observes the same post-mutation values.
type PendingSet struct {
	mu    sync.Mutex
	cells []pendingCell
}

// NewPendingSet returns an empty pending set.
func NewPendingSet() *PendingSet {
	return &PendingSet{}
}

func (p *PendingSet) add(c pendingCell) {
	p.mu.Lock()
	p.cells = append(p.cells, c)
	p.mu.Unlock()
}

// Apply drains the set and applies each registered cell's pending
// mutation. Cells registered concurrently with Apply land in the next
// drain; the render request that accompanied the registration
// guarantees another pass will pick them up.
func (p *PendingSet) Apply() {
	p.mu.Lock()
	cells := p.cells
	p.cells = nil
	p.mu.Unlock()
	for _, c := range cells {
		c.applyPending()
	}
}
