// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import (
	"fmt"

	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/textinput"
)

// Dispatcher is the handle components use to reach back into the app
// loop. RequestRender never blocks; repeated calls before the next
// pass coalesce into one. Events returns a new subscription to the
// app's broadcast bus; the caller owns it and must Close it when done.
type Dispatcher interface {
	RequestRender()
	Events() *event.Subscription
}

// Host bundles the per-app services hooks reach through: the
// dispatcher, the pending mutation set, the active stylesheet, the
// text-input registry, and the hitbox registry. One Host serves every
// scope the app binds.
type Host struct {
	Dispatcher Dispatcher
	Pending    *PendingSet
	Styles     *style.Sheet
	Inputs     *textinput.Registry
	Hits       *interaction.Registry
}

// Scope is the per-render handle passed to a component function. It
// addresses the instance's hook store positionally, so it is only
// valid during the render that created it; hooks called on a
// finished scope panic.
type Scope struct {
	store *Store
	host  *Host
	pass  *Pass
	done  bool
}

// Bind starts a render of the store's component: the slot cursor
// rewinds and the returned scope addresses the store for the duration
// of one component invocation. The caller must call Finish on the
// scope after the component returns.
func (s *Store) Bind(host *Host, pass *Pass) *Scope {
	s.beginRender()
	return &Scope{store: s, host: host, pass: pass}
}

// Finish ends the render the scope was bound for. It verifies the
// component consumed exactly the slots recorded by earlier renders
// and invalidates the scope.
func (s *Scope) Finish() {
	s.store.finishRender()
	s.done = true
}

// Dispatcher returns the app's dispatcher.
func (s *Scope) Dispatcher() Dispatcher {
	return s.host.Dispatcher
}

// Styles returns the app's active stylesheet.
func (s *Scope) Styles() *style.Sheet {
	return s.host.Styles
}

// Inputs returns the app's text-input registry, for focus moves and
// field writes outside the input's own editing keys.
func (s *Scope) Inputs() *textinput.Registry {
	return s.host.Inputs
}

// Hitboxes returns the app's hitbox registry, for resolving mouse
// positions to the interactive node drawn there.
func (s *Scope) Hitboxes() *interaction.Registry {
	return s.host.Hits
}

func (s *Scope) live(op string) {
	if s.done {
		panic(fmt.Sprintf("hook: %s: %s called outside the render pass that created the scope", s.store.id, op))
	}
}

// nextCell claims the next slot for op and returns its cell, checking
// both the slot kind and the cell's concrete type against what
// earlier renders stored there.
func nextCell[C any](s *Scope, kind slotKind, op string, alloc func() *C) *C {
	s.live(op)
	index := s.store.cursor
	raw := s.store.next(kind, func() any { return alloc() })
	cell, ok := raw.(*C)
	if !ok {
		panic(fmt.Sprintf(
			"hook: %s: slot %d: %s hook value type changed between renders; hooks must run in the same order on every render",
			s.store.id, index, kind))
	}
	return cell
}
