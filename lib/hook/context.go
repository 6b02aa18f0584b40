// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "reflect"

type contextCell struct{}

// WithContext pushes value onto the pass's context stack, runs fn,
// and pops on every exit path including panics. Hooks reached through
// direct calls inside fn observe the value via UseContext; code
// running after WithContext returns observes whatever was on the
// stack before.
//
// The push covers fn's dynamic extent only. To provide a value to
// components embedded in the returned tree, whose render runs after
// the providing component's body has returned, wrap the subtree with
// the element package's Provide node instead; the reconciler keeps
// that push open for the whole subtree resolution.
func WithContext[T, R any](s *Scope, value T, fn func() R) R {
	s.live("WithContext")
	t := reflect.TypeFor[T]()
	s.pass.pushContext(t, value)
	defer s.pass.popContext(t)
	return fn()
}

// UseContext claims a context-read slot and returns the innermost
// provided value of type T, or the zero value and false when no
// provider of T is on the stack.
func UseContext[T any](s *Scope) (T, bool) {
	nextCell(s, slotContext, "UseContext", func() *contextCell {
		return &contextCell{}
	})
	raw, ok := s.pass.lookupContext(reflect.TypeFor[T]())
	if !ok {
		var zero T
		return zero, false
	}
	return raw.(T), true
}
