// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "reflect"

// Pass carries the state shared by every scope of one render pass:
// the context stack and the queue of effect invocations. The runtime
// creates a fresh Pass per pass, threads it through every component
// render, and flushes the effects once the whole tree is resolved.
type Pass struct {
	contexts map[reflect.Type][]any
	effects  []effectInvocation
}

// NewPass returns an empty pass.
func NewPass() *Pass {
	return &Pass{contexts: make(map[reflect.Type][]any)}
}

func (p *Pass) pushContext(t reflect.Type, v any) {
	p.contexts[t] = append(p.contexts[t], v)
}

func (p *Pass) popContext(t reflect.Type) {
	stack := p.contexts[t]
	p.contexts[t] = stack[:len(stack)-1]
}

func (p *Pass) lookupContext(t reflect.Type) (any, bool) {
	stack := p.contexts[t]
	if len(stack) == 0 {
		return nil, false
	}
	return stack[len(stack)-1], true
}

// Provide pushes a context value for the resolution of a subtree and
// returns the function that pops it. The reconciler uses this for
// provider nodes in the element tree, so embedded components see the
// value while the subtree resolves and siblings resolved afterwards
// see whatever was on the stack before.
func (p *Pass) Provide(t reflect.Type, v any) (release func()) {
	p.pushContext(t, v)
	return func() { p.popContext(t) }
}

// FlushEffects runs the effect invocations recorded during the pass,
// in the order the owning components were visited. Each invocation
// decides against its cell whether the body actually runs.
func (p *Pass) FlushEffects() {
	invocations := p.effects
	p.effects = nil
	for _, inv := range invocations {
		inv.cell.invoke(inv.dep, inv.body)
	}
}
