// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "reflect"

type memoCell[T any] struct {
	computed bool
	dep      any
	value    T
}

func (c *memoCell[T]) fresh(dep any) bool {
	return c.computed && reflect.DeepEqual(c.dep, dep)
}

// UseMemo claims a memo slot and returns compute() cached against
// dep. The cached value is reused while dep compares deeply equal to
// the dependency recorded by the previous render; pass nil to compute
// exactly once for the instance's lifetime.
func UseMemo[T any](s *Scope, dep any, compute func() T) T {
	cell := nextCell(s, slotMemo, "UseMemo", func() *memoCell[T] {
		return &memoCell[T]{}
	})
	if !cell.fresh(dep) {
		cell.value = compute()
		cell.dep = dep
		cell.computed = true
	}
	return cell.value
}

// UseCallback claims a callback slot and returns fn cached against
// dep: while dep is unchanged the function value from the earlier
// render is returned instead of this render's fn, so consumers
// comparing dependencies see a stable value.
func UseCallback[T any](s *Scope, dep any, fn T) T {
	cell := nextCell(s, slotCallback, "UseCallback", func() *memoCell[T] {
		return &memoCell[T]{}
	})
	if !cell.fresh(dep) {
		cell.value = fn
		cell.dep = dep
		cell.computed = true
	}
	return cell.value
}
