// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import (
	"reflect"
	"testing"
)

type theme struct {
	Accent string
}

func TestWithContextProvidesToNestedReads(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Panel")

	runRender(host, store, func(s *Scope) {
		outer := WithContext(s, theme{Accent: "blue"}, func() string {
			value, ok := UseContext[theme](s)
			if !ok {
				t.Fatal("UseContext missed the provided value")
			}
			return value.Accent
		})
		if outer != "blue" {
			t.Fatalf("inner read = %q, want blue", outer)
		}
	})
}

func TestWithContextNestsAndRestoresLIFO(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Panel")

	runRender(host, store, func(s *Scope) {
		WithContext(s, theme{Accent: "blue"}, func() any {
			WithContext(s, theme{Accent: "red"}, func() any {
				value, _ := UseContext[theme](s)
				if value.Accent != "red" {
					t.Fatalf("innermost read = %q, want red", value.Accent)
				}
				return nil
			})
			// A sibling read after the inner provider exits sees the
			// outer value again.
			value, _ := UseContext[theme](s)
			if value.Accent != "blue" {
				t.Fatalf("read after inner pop = %q, want blue", value.Accent)
			}
			return nil
		})
	})
}

func TestWithContextPopsOnPanic(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Panel")

	pass := NewPass()
	scope := store.Bind(host, pass)
	func() {
		defer func() { recover() }()
		WithContext(scope, theme{Accent: "blue"}, func() any {
			panic("component failure")
		})
	}()
	if _, ok := pass.lookupContext(reflect.TypeFor[theme]()); ok {
		t.Fatal("context survived a panic inside the provider")
	}
}

func TestUseContextZeroWhenAbsent(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Panel")

	runRender(host, store, func(s *Scope) {
		value, ok := UseContext[theme](s)
		if ok {
			t.Fatal("UseContext reported a value with no provider")
		}
		if value != (theme{}) {
			t.Fatalf("absent context value = %+v, want zero", value)
		}
	})
}

func TestHookOrderChangePanics(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Broken")

	runRender(host, store, func(s *Scope) {
		UseState(s, 0)
		UseRef(s, "")
	})

	expectPanic(t, "0:Broken", func() {
		runRender(host, store, func(s *Scope) {
			UseRef(s, "")
			UseState(s, 0)
		})
	})
}

func TestHookCountShrinkPanics(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Broken")

	runRender(host, store, func(s *Scope) {
		UseState(s, 0)
		UseState(s, 1)
	})

	expectPanic(t, "hooks must run in the same order", func() {
		runRender(host, store, func(s *Scope) {
			UseState(s, 0)
		})
	})
}

func TestHookCountGrowthPanics(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Broken")

	runRender(host, store, func(s *Scope) {
		UseState(s, 0)
	})

	expectPanic(t, "more than", func() {
		runRender(host, store, func(s *Scope) {
			UseState(s, 0)
			UseState(s, 1)
		})
	})
}

func TestHookValueTypeChangePanics(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Broken")

	runRender(host, store, func(s *Scope) {
		UseState(s, 0)
	})

	expectPanic(t, "type changed", func() {
		runRender(host, store, func(s *Scope) {
			UseState(s, "zero")
		})
	})
}

func TestScopeIsDeadAfterFinish(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Leaky")

	var escaped *Scope
	runRender(host, store, func(s *Scope) {
		escaped = s
	})

	expectPanic(t, "outside the render", func() {
		UseState(escaped, 0)
	})
}

func TestUseTextInputRegistersAndReleases(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Login")

	runRender(host, store, func(s *Scope) {
		binding := UseTextInput(s, "username")
		binding.SetValue("operator")
	})

	snapshot, ok := host.Inputs.Snapshot("username")
	if !ok {
		t.Fatal("field not registered")
	}
	if snapshot.Value != "operator" {
		t.Fatalf("field value = %q, want operator", snapshot.Value)
	}

	// Re-render reuses the registration.
	runRender(host, store, func(s *Scope) {
		binding := UseTextInput(s, "username")
		if binding.Value() != "operator" {
			t.Fatalf("rerender lost the field value, got %q", binding.Value())
		}
	})

	store.Release()
	if _, ok := host.Inputs.Snapshot("username"); ok {
		t.Fatal("pruned instance left its field registered")
	}
}

func TestUseTextInputIDChangePanics(t *testing.T) {
	host, _ := newTestHost()
	store := NewStore("0:Login")

	runRender(host, store, func(s *Scope) {
		UseTextInput(s, "username")
	})

	expectPanic(t, "ids must be stable", func() {
		runRender(host, store, func(s *Scope) {
			UseTextInput(s, "password")
		})
	})
}
