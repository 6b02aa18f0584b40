// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"time"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/event"
)

// Driver supplies an app's background event sources. Each spawn
// operation starts one unit of work delivering framework events
// through post and returns its task handle; the app stops and awaits
// all three on shutdown. post may block while the app is busy and
// returns without delivering once shutdown has begun.
type Driver interface {
	// SpawnInput produces key, mouse, and resize events.
	SpawnInput(post func(event.Event)) Task

	// SpawnTicker produces a Tick at every interval.
	SpawnTicker(interval time.Duration, post func(event.Event)) Task

	// SpawnShutdownWatcher watches for an external exit signal and
	// posts Interrupt when one arrives.
	SpawnShutdownWatcher(post func(event.Event)) Task
}

// HeadlessDriver is a Driver with no terminal behind it: input comes
// from Post calls and ticks come from an injected clock. It is the
// default driver, which keeps apps deterministic under test; pair it
// with a fake clock and advance time explicitly to fire ticks.
type HeadlessDriver struct {
	clock  clock.Clock
	events chan event.Event
}

// NewHeadlessDriver returns a headless driver ticking on c.
func NewHeadlessDriver(c clock.Clock) *HeadlessDriver {
	return &HeadlessDriver{
		clock:  c,
		events: make(chan event.Event, 64),
	}
}

// Post feeds ev to the app as if a terminal had produced it. It
// blocks while the input buffer is full.
func (d *HeadlessDriver) Post(ev event.Event) {
	d.events <- ev
}

// SpawnInput forwards posted events to the app.
func (d *HeadlessDriver) SpawnInput(post func(event.Event)) Task {
	return Start(func(ctx context.Context) {
		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-d.events:
				post(ev)
			}
		}
	})
}

// SpawnTicker posts a Tick for every interval elapsed on the
// driver's clock.
func (d *HeadlessDriver) SpawnTicker(interval time.Duration, post func(event.Event)) Task {
	return Start(func(ctx context.Context) {
		ticker := d.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				post(event.Tick{Time: now})
			}
		}
	})
}

// SpawnShutdownWatcher parks until cancelled. A headless app has no
// external exit signal; post Interrupt through Post to end it.
func (d *HeadlessDriver) SpawnShutdownWatcher(post func(event.Event)) Task {
	return Start(func(ctx context.Context) {
		<-ctx.Done()
	})
}
