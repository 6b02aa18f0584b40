// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "reflect"

type effectCell struct {
	ran     bool
	dep     any
	cleanup func()
}

type effectInvocation struct {
	cell *effectCell
	dep  any
	body func() func()
}

func (c *effectCell) invoke(dep any, body func() func()) {
	if c.ran && reflect.DeepEqual(c.dep, dep) {
		return
	}
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
	c.cleanup = body()
	c.ran = true
	c.dep = dep
}

func (c *effectCell) release() {
	if c.cleanup != nil {
		c.cleanup()
		c.cleanup = nil
	}
}

// UseEffect claims an effect slot and records body to run after the
// whole tree for this pass has been resolved, never inline during
// tree construction. The body runs on the first render and again
// whenever dep differs (by deep equality) from the dependency
// recorded at the previous run; pass nil to run exactly once. A
// non-nil cleanup returned by the body runs before the body's next
// run and when the instance is pruned.
//
// Effect bodies may start goroutines and block on I/O, but they must
// feed results back through setter and dispatch handles or the event
// bus; the returned cleanup is the cancellation contract for whatever
// the body started.
func UseEffect(s *Scope, dep any, body func() func()) {
	cell := nextCell(s, slotEffect, "UseEffect", func() *effectCell {
		return &effectCell{}
	})
	s.pass.effects = append(s.pass.effects, effectInvocation{cell: cell, dep: dep, body: body})
}
