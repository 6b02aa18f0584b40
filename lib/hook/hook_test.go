// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/textinput"
)

// renderCounter is a Dispatcher that counts render requests instead
// of scheduling passes.
type renderCounter struct {
	mu    sync.Mutex
	count int
	bus   *event.Bus
}

func (c *renderCounter) RequestRender() {
	c.mu.Lock()
	c.count++
	c.mu.Unlock()
}

func (c *renderCounter) Events() *event.Subscription {
	return c.bus.Subscribe()
}

func (c *renderCounter) renders() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.count
}

func newTestHost() (*Host, *renderCounter) {
	counter := &renderCounter{bus: event.NewBus(event.DefaultBusCapacity)}
	hits := interaction.NewRegistry()
	host := &Host{
		Dispatcher: counter,
		Pending:    NewPendingSet(),
		Inputs:     textinput.NewRegistry(hits),
		Hits:       hits,
	}
	return host, counter
}

// runRender executes one full pass for a single component: apply
// pending mutations, bind, invoke, finish, flush effects.
func runRender(host *Host, store *Store, body func(*Scope)) {
	host.Pending.Apply()
	pass := NewPass()
	scope := store.Bind(host, pass)
	body(scope)
	scope.Finish()
	pass.FlushEffects()
}

func expectPanic(t *testing.T, substring string, fn func()) {
	t.Helper()
	defer func() {
		recovered := recover()
		if recovered == nil {
			t.Fatalf("expected panic containing %q, got none", substring)
		}
		message := fmt.Sprint(recovered)
		if !strings.Contains(message, substring) {
			t.Fatalf("panic %q does not contain %q", message, substring)
		}
	}()
	fn()
}
