// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"context"
	"time"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/runtime"
)

// Driver plays a recorded session back through the runtime. Its input
// task posts each frame's event in order; with pacing on, it waits
// out the recorded inter-frame gaps on the supplied clock first. The
// tick and shutdown tasks stay silent: recorded ticks carry the
// cadence, and the session itself ends the app.
type Driver struct {
	session *Session
	clock   clock.Clock
	paced   bool
}

var _ runtime.Driver = (*Driver)(nil)

// NewDriver returns a driver replaying session. With paced false the
// frames are posted as fast as the app consumes them, which is the
// mode tests want; paced true reproduces the recorded timing.
func NewDriver(session *Session, clk clock.Clock, paced bool) *Driver {
	return &Driver{session: session, clock: clk, paced: paced}
}

// SpawnInput posts the session's frames in order. Playback stops at a
// recorded interrupt; a session without one gets an interrupt
// synthesized after its last frame, so the app always shuts down.
func (d *Driver) SpawnInput(post func(event.Event)) runtime.Task {
	return runtime.Start(func(ctx context.Context) {
		elapsed := time.Duration(0)
		for _, frame := range d.session.Frames {
			if d.paced && frame.At > elapsed {
				select {
				case <-ctx.Done():
					return
				case <-d.clock.After(frame.At - elapsed):
				}
			}
			elapsed = frame.At

			ev, err := frame.Event()
			if err != nil {
				// Frames from a newer format revision are skipped
				// rather than aborting the whole playback.
				continue
			}
			post(ev)
			if _, done := ev.(event.Interrupt); done {
				return
			}
			if ctx.Err() != nil {
				return
			}
		}
		if ctx.Err() == nil {
			post(event.Interrupt{})
		}
	})
}

// SpawnTicker parks until cancelled; the recorded session already
// contains the ticks that fired during recording.
func (d *Driver) SpawnTicker(interval time.Duration, post func(event.Event)) runtime.Task {
	return runtime.Start(func(ctx context.Context) {
		<-ctx.Done()
	})
}

// SpawnShutdownWatcher parks until cancelled; playback termination
// comes from the session's interrupt.
func (d *Driver) SpawnShutdownWatcher(post func(event.Event)) runtime.Task {
	return runtime.Start(func(ctx context.Context) {
		<-ctx.Done()
	})
}
