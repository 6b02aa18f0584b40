// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package textinput owns the state of every text field in one app:
// values, cursors, the focus ring, and the shared caret blink.
//
// Fields register with the app's Registry (components do this through
// their text-input hook) and join the focus ring in registration
// order. The app loop feeds every framework event through
// HandleEvent before publishing it on the event bus: tab and
// shift+tab walk the ring with wraparound, a click on a field's
// recorded hitbox focuses it, printable keys edit the focused field,
// and the periodic tick toggles caret visibility while anything is
// focused.
//
// The registry is the single source of truth. Components read and
// write through Binding handles; the reconciler reads a Snapshot per
// field while resolving the view, so value, cursor, focus, and caret
// changes reach the screen as ordinary view diffs. Mutations report
// through the registry's notify hook only when observable state
// actually changed, which keeps binding calls repeated on every
// render (setting the same validator, the same status) from
// scheduling passes forever.
//
// A field's displayed status line is the live validation result when
// a validator is installed and reports one, otherwise the statically
// assigned status.
package textinput
