// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package hook stores per-component state across render passes.
//
// A component is a function of a Scope that returns an element tree.
// The function body looks stateless, but each call to a Use function
// claims the next slot in the instance's hook store, and the store
// persists between passes. Slot identity is positional: the component
// must call the same hooks in the same order on every render of the
// same instance. The store detects a changed order or count and
// panics, because once slot positions shift every subsequent hook
// would silently read another hook's state.
//
// State mutation never happens inline with a render. Setter and
// dispatch handles record the new value or action in the cell,
// register the cell with the app's pending set, and request a render;
// the app applies all pending mutations at the start of the next pass,
// before any component runs. A render therefore observes either the
// value current when a setter was called or a strictly newer one,
// never a partial update. For a state cell the last write before the
// pass wins; a reducer cell keeps a queue and folds every dispatched
// action in order.
//
// Effects are deferred the same way: UseEffect records the body on the
// pass, and the runtime flushes all recorded effects only after the
// whole tree has been resolved, in the order the components were
// visited. An effect body may return a cleanup, which runs before the
// body runs again with a changed dependency and when the owning
// instance is pruned.
//
// The usual shape of a component:
//
//	func counter(s *hook.Scope) element.Element {
//		count, setCount := hook.UseState(s, 0)
//		hook.UseEffect(s, nil, func() func() {
//			sub := s.Dispatcher().Events()
//			go func() {
//				for ev := range sub.C() {
//					if _, ok := ev.(event.Tick); ok {
//						setCount.Update(func(n int) int { return n + 1 })
//					}
//				}
//			}()
//			return sub.Close
//		})
//		return element.Text{Content: fmt.Sprintf("ticks: %d", count)}
//	}
package hook
