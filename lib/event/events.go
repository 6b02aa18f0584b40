// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// Event is one framework event: a keystroke, a mouse action, a
// terminal resize, a timer tick, or an interrupt. Events are immutable
// values, cheap to copy, and safe to share across goroutines.
type Event interface {
	event()
}

// Key is a keyboard event. The embedded tea.Key carries the key type,
// runes, and modifier state; bubbles key.Bindings match against it via
// tea.KeyMsg conversion.
type Key struct {
	tea.Key
}

// Mouse is a pointer event: press, release, motion, or wheel. The
// embedded tea.MouseEvent carries zero-based cell coordinates.
type Mouse struct {
	tea.MouseEvent
}

// Resize reports the new terminal dimensions in cells.
type Resize struct {
	Width  int
	Height int
}

// Tick is the periodic driver heartbeat. Time is the instant the tick
// fired, from the driver's clock.
type Tick struct {
	Time time.Time
}

// Interrupt signals a user-initiated exit request (ctrl+c or SIGINT).
// The app loop publishes it like any other event and then begins
// shutdown, so subscribers get a chance to observe it.
type Interrupt struct{}

func (Key) event()       {}
func (Mouse) event()     {}
func (Resize) event()    {}
func (Tick) event()      {}
func (Interrupt) event() {}

// KeyMsg returns the event's bubbletea form, for matching against
// bubbles key.Bindings.
func (k Key) KeyMsg() tea.KeyMsg { return tea.KeyMsg(k.Key) }

// Click reports the cell position of a left-button press, and false
// for any other event.
func Click(ev Event) (column, row int, ok bool) {
	mouse, isMouse := ev.(Mouse)
	if !isMouse {
		return 0, 0, false
	}
	if mouse.Action != tea.MouseActionPress || mouse.Button != tea.MouseButtonLeft {
		return 0, 0, false
	}
	return mouse.X, mouse.Y, true
}

// ScrollDelta returns -1 for wheel-up, +1 for wheel-down, and 0 for
// any other event.
func ScrollDelta(ev Event) int {
	mouse, isMouse := ev.(Mouse)
	if !isMouse {
		return 0
	}
	switch mouse.Button {
	case tea.MouseButtonWheelUp:
		return -1
	case tea.MouseButtonWheelDown:
		return 1
	default:
		return 0
	}
}
