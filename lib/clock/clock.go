// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import "time"

// Clock abstracts the time operations loom depends on. Production
// code injects Real(); tests inject Fake() and advance it by hand.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// After returns a channel that receives the current time once d
	// has elapsed. If d <= 0 the channel receives immediately.
	After(d time.Duration) <-chan time.Time

	// AfterFunc schedules f to run once d has elapsed. The returned
	// Timer cancels the pending call via Stop; its C field is nil,
	// matching time.AfterFunc.
	AfterFunc(d time.Duration, f func()) *Timer

	// NewTicker returns a Ticker delivering ticks on C every d.
	// Panics if d <= 0, matching time.NewTicker.
	NewTicker(d time.Duration) *Ticker

	// Sleep pauses the calling goroutine for at least d.
	Sleep(d time.Duration)
}

// Ticker delivers periodic ticks on C. The channel has capacity 1;
// ticks the consumer misses are dropped, matching time.Ticker.
type Ticker struct {
	C <-chan time.Time

	stop  func()
	reset func(time.Duration)
}

// Stop turns the ticker off. No ticks arrive on C after Stop returns.
// Stop does not close C.
func (t *Ticker) Stop() { t.stop() }

// Reset restarts the tick cycle with a new interval. The next tick
// arrives after the new duration elapses.
func (t *Ticker) Reset(d time.Duration) { t.reset(d) }

// Timer represents one scheduled call. Timers returned by AfterFunc
// have a nil C.
type Timer struct {
	C <-chan time.Time

	stop  func() bool
	reset func(time.Duration) bool
}

// Stop cancels the timer. It reports whether the call stopped the
// timer, false when the timer already fired or was stopped.
func (t *Timer) Stop() bool { return t.stop() }

// Reset re-arms the timer to fire after d. It reports whether the
// timer was still active before the reset.
func (t *Timer) Reset(d time.Duration) bool { return t.reset(d) }

// Real returns a Clock backed by the standard time package.
func Real() Clock { return systemClock{} }

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

func (systemClock) AfterFunc(d time.Duration, f func()) *Timer {
	timer := time.AfterFunc(d, f)
	return &Timer{stop: timer.Stop, reset: timer.Reset}
}

func (systemClock) NewTicker(d time.Duration) *Ticker {
	ticker := time.NewTicker(d)
	return &Ticker{C: ticker.C, stop: ticker.Stop, reset: ticker.Reset}
}

func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }
