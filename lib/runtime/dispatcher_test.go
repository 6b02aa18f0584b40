// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"sync"
	"testing"

	"github.com/bureau-foundation/loom/lib/event"
)

func TestRequestRenderCoalesces(t *testing.T) {
	d := newDispatcher(event.NewBus(4))
	for i := 0; i < 5; i++ {
		d.RequestRender()
	}
	if got := len(d.renders); got != 1 {
		t.Fatalf("5 requests queued %d deliveries, want 1", got)
	}

	<-d.renders
	d.disarm()
	d.RequestRender()
	if got := len(d.renders); got != 1 {
		t.Fatalf("request after disarm queued %d deliveries, want 1", got)
	}
}

func TestRequestRenderNeverBlocks(t *testing.T) {
	d := newDispatcher(event.NewBus(4))

	// Hammer the armed flag from many goroutines with nobody
	// draining; every call must return.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 1000; j++ {
				d.RequestRender()
			}
		}()
	}
	wg.Wait()

	if got := len(d.renders); got != 1 {
		t.Fatalf("concurrent requests queued %d deliveries, want 1", got)
	}
}

func TestEventsSubscriptionsAreIndependent(t *testing.T) {
	bus := event.NewBus(4)
	d := newDispatcher(bus)

	first := d.Events()
	second := d.Events()
	defer first.Close()
	defer second.Close()

	bus.Publish(event.Interrupt{})
	for _, sub := range []*event.Subscription{first, second} {
		if _, ok := (<-sub.C()).(event.Interrupt); !ok {
			t.Fatal("subscription missed the published event")
		}
	}
}
