// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package event defines the framework event taxonomy and the
// broadcast bus that fans events out to component subscribers.
//
// Events originate in runtime drivers (terminal input, the tick task,
// signal watchers) and reach the bus through the app loop, which
// publishes every external event it dequeues. Components subscribe
// from effects via [Bus.Subscribe] and react by invoking their state
// handles; the subscription channel is the only delivery path.
//
// The bus is lossy. Each subscription owns a bounded buffer; when a
// subscriber falls behind, the oldest buffered event is dropped to
// admit the newest, and publishing never blocks. Subscribers must
// tolerate gaps. [Subscription.Dropped] counts the losses for
// diagnostics.
//
// Key and mouse payloads reuse the bubbletea representations
// (tea.Key, tea.MouseEvent), so key bindings declared with
// charmbracelet/bubbles/key match against them directly.
package event
