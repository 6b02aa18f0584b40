// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction.
//
// The runtime touches time in several places: the tick driver emits a
// periodic event, the text input registry blinks its caret on those
// ticks, the stylesheet watcher debounces bursts of file events, and
// session replay paces recorded events. All of them accept a Clock
// instead of calling the time package directly, so tests drive time
// explicitly and never sleep.
//
// Real() returns the standard library behavior. Fake() returns a
// deterministic clock that only moves when Advance is called:
//
//	fakeClock := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	driver := runtime.NewHeadlessDriver(fakeClock)
//	// ... start the app ...
//	fakeClock.WaitForTimers(1)                // tick task registered its ticker
//	fakeClock.Advance(250 * time.Millisecond) // exactly one tick fires
//
// WaitForTimers closes the race between a goroutine registering a
// timer and the test advancing past its deadline.
package clock
