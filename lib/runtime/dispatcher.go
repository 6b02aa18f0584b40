// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"sync/atomic"

	"github.com/bureau-foundation/loom/lib/event"
)

// Dispatcher connects components and background work to the app
// loop. It satisfies the hook package's Dispatcher interface.
type Dispatcher struct {
	renders chan struct{}
	armed   atomic.Bool
	bus     *event.Bus
}

func newDispatcher(bus *event.Bus) *Dispatcher {
	return &Dispatcher{
		// Capacity one: the armed flag guarantees at most one
		// undelivered request, so the send below can never block.
		renders: make(chan struct{}, 1),
		bus:     bus,
	}
}

// RequestRender schedules a render pass. It never blocks, and calls
// arriving before the loop starts the pass coalesce into one: the
// first call arms the request, the pass disarms it, and every state
// write in between is observed by that single pass.
func (d *Dispatcher) RequestRender() {
	if !d.armed.CompareAndSwap(false, true) {
		return
	}
	d.renders <- struct{}{}
}

// Events returns a new subscription to the app's broadcast bus. The
// subscription sees every event published after this call; the caller
// owns it and must Close it when done, typically from an effect
// cleanup.
func (d *Dispatcher) Events() *event.Subscription {
	return d.bus.Subscribe()
}

// disarm clears the coalescing flag. The loop calls this when it
// dequeues a request, before the pass applies pending state, so a
// write racing the pass arms a fresh request rather than being lost.
func (d *Dispatcher) disarm() {
	d.armed.Store(false)
}
