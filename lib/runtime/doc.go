// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package runtime drives component trees: it owns the app loop, the
// reconciler that turns element trees into view trees, the dispatcher
// components use to schedule renders, and the driver abstraction that
// feeds the loop with input, ticks, and shutdown signals.
//
// One App runs one component tree. Driver tasks post framework events
// into the app's mailbox; the loop consumes messages in arrival
// order on a single goroutine, so reconciliation and effect flushing
// never race each other. A render pass applies queued state
// mutations, resolves the tree (creating and rebinding hook stores by
// key path), diffs the resolved view against the previous pass, hands
// it to the renderer only when something changed, prunes instances
// the pass no longer visited, and flushes the effects the pass
// recorded.
//
// Render requests coalesce: any number of setter calls between two
// passes schedule exactly one pass, and the pass observes the newest
// values. External events are drained ahead of pending render
// requests, so a burst of input becomes one redraw instead of one
// per keystroke.
//
// The default driver is headless and clock-driven, which makes apps
// deterministic under test: inject a fake clock, post synthetic
// events, and read frames from a recording renderer. Production
// terminals wrap the loop with the terminal package's driver and
// renderer instead.
package runtime
