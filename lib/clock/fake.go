// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake returns a FakeClock pinned to the given time. The clock moves
// only when Advance is called; every timer, ticker, and sleep
// registers a pending entry that fires when the clock passes its
// deadline.
//
// FakeClock is safe for concurrent use.
func Fake(initial time.Time) *FakeClock {
	fake := &FakeClock{now: initial}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// FakeClock is a deterministic Clock for tests. Advance fires due
// entries one at a time in deadline order, stepping Now to each
// deadline as it goes, so an AfterFunc callback that reads Now or
// schedules further timers observes the time at which it fired.
//
// Do not call Advance or Sleep from inside an AfterFunc callback;
// that deadlocks.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
	changed *sync.Cond
}

// fakeTimer is one pending entry: a channel waiter (After, Sleep,
// Ticker) or a callback (AfterFunc). repeat is non-zero for tickers.
type fakeTimer struct {
	deadline time.Time
	ch       chan time.Time
	fn       func()
	repeat   time.Duration
	stopped  bool
	fired    bool
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After returns a channel receiving the fire time once d has elapsed
// on the fake timeline. For d <= 0 the channel receives immediately
// without registering an entry.
func (c *FakeClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	ch := make(chan time.Time, 1)
	if d <= 0 {
		ch <- c.now
		return ch
	}
	c.registerLocked(&fakeTimer{deadline: c.now.Add(d), ch: ch})
	return ch
}

// AfterFunc schedules f on the fake timeline. For d <= 0, f runs
// synchronously before AfterFunc returns.
func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{
			stop:  func() bool { return false },
			reset: func(time.Duration) bool { return false },
		}
	}

	c.mu.Lock()
	entry := &fakeTimer{deadline: c.now.Add(d), fn: f}
	c.registerLocked(entry)
	c.mu.Unlock()

	return &Timer{
		stop: func() bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			if entry.stopped || entry.fired {
				return false
			}
			entry.stopped = true
			return true
		},
		reset: func(d time.Duration) bool {
			c.mu.Lock()
			defer c.mu.Unlock()
			active := !entry.stopped && !entry.fired
			entry.deadline = c.now.Add(d)
			entry.stopped = false
			if entry.fired {
				// The entry was removed when it fired; re-register.
				entry.fired = false
				c.registerLocked(entry)
			}
			return active
		},
	}
}

// NewTicker returns a ticker on the fake timeline. Panics if d <= 0.
func (c *FakeClock) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive interval for NewTicker")
	}

	c.mu.Lock()
	ch := make(chan time.Time, 1)
	entry := &fakeTimer{deadline: c.now.Add(d), ch: ch, repeat: d}
	c.registerLocked(entry)
	c.mu.Unlock()

	return &Ticker{
		C: ch,
		stop: func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			entry.stopped = true
		},
		reset: func(d time.Duration) {
			c.mu.Lock()
			defer c.mu.Unlock()
			entry.repeat = d
			entry.deadline = c.now.Add(d)
			entry.stopped = false
		},
	}
}

// Sleep blocks the calling goroutine until the clock advances past
// the deadline. Returns immediately for d <= 0.
func (c *FakeClock) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	<-c.After(d)
}

// Advance moves the clock forward by d, firing every entry whose
// deadline falls within the window. Entries fire strictly in deadline
// order; tickers fire once per elapsed interval. Channel sends are
// non-blocking, so ticks beyond the channel's capacity are dropped,
// matching time.Ticker. AfterFunc callbacks run synchronously in the
// calling goroutine; callbacks that register new timers inside the
// window have those fire in the same Advance.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.now.Add(d)
	for {
		entry := c.earliestDueLocked(target)
		if entry == nil {
			break
		}

		c.now = entry.deadline
		if entry.repeat > 0 {
			entry.deadline = entry.deadline.Add(entry.repeat)
		} else {
			entry.fired = true
			c.removeLocked(entry)
		}

		if entry.fn != nil {
			callback := entry.fn
			c.mu.Unlock()
			callback()
			c.mu.Lock()
		} else {
			select {
			case entry.ch <- c.now:
			default:
			}
		}
	}
	c.now = target
}

// WaitForTimers blocks until at least n entries are pending. Call it
// after starting goroutines that register timers and before Advance,
// so the advance cannot slip in front of the registration.
func (c *FakeClock) WaitForTimers(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for c.pendingLocked() < n {
		c.changed.Wait()
	}
}

// PendingCount returns the number of active pending entries.
func (c *FakeClock) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pendingLocked()
}

func (c *FakeClock) registerLocked(entry *fakeTimer) {
	c.pending = append(c.pending, entry)
	c.changed.Broadcast()
}

func (c *FakeClock) removeLocked(entry *fakeTimer) {
	for index, candidate := range c.pending {
		if candidate == entry {
			c.pending = append(c.pending[:index], c.pending[index+1:]...)
			return
		}
	}
}

// earliestDueLocked returns the active entry with the earliest
// deadline at or before target, or nil when nothing is due.
func (c *FakeClock) earliestDueLocked(target time.Time) *fakeTimer {
	var earliest *fakeTimer
	for _, entry := range c.pending {
		if entry.stopped || entry.deadline.After(target) {
			continue
		}
		if earliest == nil || entry.deadline.Before(earliest.deadline) {
			earliest = entry
		}
	}
	return earliest
}

func (c *FakeClock) pendingLocked() int {
	count := 0
	for _, entry := range c.pending {
		if !entry.stopped {
			count++
		}
	}
	return count
}
