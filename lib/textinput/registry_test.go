// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textinput

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/interaction"
)

func newTestRegistry() (*Registry, *interaction.Registry) {
	hits := interaction.NewRegistry()
	return NewRegistry(hits), hits
}

func press(r *Registry, keyType tea.KeyType) {
	r.HandleEvent(event.Key{Key: tea.Key{Type: keyType}})
}

func typeText(r *Registry, text string) {
	for _, character := range text {
		r.HandleEvent(event.Key{Key: tea.Key{Type: tea.KeyRunes, Runes: []rune{character}}})
	}
}

func focusedID(t *testing.T, r *Registry) string {
	t.Helper()
	id, ok := r.FocusedID()
	if !ok {
		t.Fatal("no field focused")
	}
	return id
}

func TestFocusRingCyclesForward(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.Register("a")
	registry.Register("b")
	registry.Register("c")

	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "a" {
		t.Fatalf("first tab focused %q, want a", got)
	}
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "b" {
		t.Fatalf("second tab focused %q, want b", got)
	}
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "c" {
		t.Fatalf("third tab focused %q, want c", got)
	}
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "a" {
		t.Fatalf("fourth tab focused %q, want wraparound to a", got)
	}
}

func TestFocusRingBackwardFromUnfocused(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.Register("a")
	registry.Register("b")
	registry.Register("c")

	press(registry, tea.KeyShiftTab)
	if got := focusedID(t, registry); got != "c" {
		t.Fatalf("shift+tab from unfocused focused %q, want c", got)
	}
	press(registry, tea.KeyShiftTab)
	if got := focusedID(t, registry); got != "b" {
		t.Fatalf("second shift+tab focused %q, want b", got)
	}
}

func TestTypingEditsFocusedField(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")
	binding.Focus()

	typeText(registry, "héllo")
	if got := binding.Value(); got != "héllo" {
		t.Fatalf("value = %q, want héllo", got)
	}
	if got := binding.Cursor(); got != 5 {
		t.Fatalf("cursor = %d, want 5 (rune offsets, not bytes)", got)
	}

	press(registry, tea.KeyBackspace)
	if got := binding.Value(); got != "héll" {
		t.Fatalf("value after backspace = %q, want héll", got)
	}

	press(registry, tea.KeyHome)
	typeText(registry, ">")
	if got := binding.Value(); got != ">héll" {
		t.Fatalf("value after home+insert = %q, want >héll", got)
	}
	if got := binding.Cursor(); got != 1 {
		t.Fatalf("cursor after home+insert = %d, want 1", got)
	}

	press(registry, tea.KeyDelete)
	if got := binding.Value(); got != ">éll" {
		t.Fatalf("value after delete = %q, want >éll", got)
	}
}

func TestTypingWithoutFocusIsIgnored(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")

	typeText(registry, "stray")
	if got := binding.Value(); got != "" {
		t.Fatalf("unfocused field captured input %q", got)
	}
}

func TestCursorMovementClamps(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")
	binding.Focus()
	typeText(registry, "ab")

	press(registry, tea.KeyRight)
	if got := binding.Cursor(); got != 2 {
		t.Fatalf("cursor moved past end: %d", got)
	}
	press(registry, tea.KeyLeft)
	press(registry, tea.KeyLeft)
	press(registry, tea.KeyLeft)
	if got := binding.Cursor(); got != 0 {
		t.Fatalf("cursor moved past start: %d", got)
	}
	press(registry, tea.KeyEnd)
	if got := binding.Cursor(); got != 2 {
		t.Fatalf("end moved cursor to %d, want 2", got)
	}
}

func TestClickFocusesFieldThroughHitbox(t *testing.T) {
	registry, hits := newTestRegistry()
	registry.Register("name")
	registry.Register("email")
	hits.Add(interaction.Hitbox{ID: "name", X: 10, Y: 5, Width: 20, Height: 1})
	hits.Add(interaction.Hitbox{ID: "quit-button", X: 0, Y: 0, Width: 6, Height: 1})

	registry.HandleEvent(event.Mouse{MouseEvent: tea.MouseEvent{
		X: 12, Y: 5, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	}})
	if got := focusedID(t, registry); got != "name" {
		t.Fatalf("click focused %q, want name", got)
	}

	// A click on an interactive node that is not a field leaves focus
	// where it was.
	registry.HandleEvent(event.Mouse{MouseEvent: tea.MouseEvent{
		X: 1, Y: 0, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft,
	}})
	if got := focusedID(t, registry); got != "name" {
		t.Fatalf("button click moved focus to %q", got)
	}
}

func TestCaretBlinksOnlyWhileFocused(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")

	notifications := 0
	registry.SetNotify(func() { notifications++ })

	registry.HandleEvent(event.Tick{})
	if notifications != 0 {
		t.Fatal("tick with no focused field scheduled a render")
	}

	binding.Focus()
	snapshot, _ := registry.Snapshot("name")
	if !snapshot.CaretVisible {
		t.Fatal("caret should be visible immediately after focus")
	}

	registry.HandleEvent(event.Tick{})
	snapshot, _ = registry.Snapshot("name")
	if snapshot.CaretVisible {
		t.Fatal("caret should hide after one blink tick")
	}
	registry.HandleEvent(event.Tick{})
	snapshot, _ = registry.Snapshot("name")
	if !snapshot.CaretVisible {
		t.Fatal("caret should show again after two blink ticks")
	}
}

func TestValidationTakesPrecedenceOverStaticStatus(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("email")
	binding.SetStatus(Status{Text: "work address preferred"})
	binding.SetValidator(func(value string) (Status, bool) {
		if value != "" && !strings.Contains(value, "@") {
			return Status{Text: "missing @", Invalid: true}, true
		}
		return Status{}, false
	})

	snapshot, _ := registry.Snapshot("email")
	if !snapshot.HasStatus || snapshot.Status.Text != "work address preferred" {
		t.Fatalf("empty value should show the static status, got %+v", snapshot.Status)
	}

	binding.Focus()
	typeText(registry, "nobody")
	snapshot, _ = registry.Snapshot("email")
	if snapshot.Status.Text != "missing @" || !snapshot.Status.Invalid {
		t.Fatalf("live validation should win, got %+v", snapshot.Status)
	}

	typeText(registry, "@bureau.dev")
	snapshot, _ = registry.Snapshot("email")
	if snapshot.Status.Text != "work address preferred" {
		t.Fatalf("passing validation should fall back to static status, got %+v", snapshot.Status)
	}
}

func TestSetValueClampsCursor(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")
	binding.Focus()
	typeText(registry, "longer text")

	binding.SetValue("ok")
	if got := binding.Cursor(); got != 2 {
		t.Fatalf("cursor after shrinking SetValue = %d, want 2", got)
	}
}

func TestReleaseRemovesFieldFromRing(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.Register("a")
	b := registry.Register("b")
	registry.Register("c")
	b.Release()

	press(registry, tea.KeyTab)
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "c" {
		t.Fatalf("ring after release cycled to %q, want c", got)
	}
	if _, ok := registry.Snapshot("b"); ok {
		t.Fatal("released field still has a snapshot")
	}
}

func TestDisabledFieldSkippedByRing(t *testing.T) {
	registry, _ := newTestRegistry()
	registry.Register("a")
	b := registry.Register("b")
	registry.Register("c")
	b.SetEnabled(false)

	press(registry, tea.KeyTab)
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "c" {
		t.Fatalf("second tab focused %q, want c over the disabled field", got)
	}
	press(registry, tea.KeyShiftTab)
	if got := focusedID(t, registry); got != "a" {
		t.Fatalf("shift+tab focused %q, want a over the disabled field", got)
	}

	b.SetEnabled(true)
	press(registry, tea.KeyTab)
	if got := focusedID(t, registry); got != "b" {
		t.Fatalf("tab after re-enable focused %q, want b", got)
	}
}

func TestDisablingFocusedFieldDropsFocus(t *testing.T) {
	registry, _ := newTestRegistry()
	a := registry.Register("a")
	a.Focus()

	a.SetEnabled(false)
	if _, ok := registry.FocusedID(); ok {
		t.Fatal("disabled field kept focus")
	}

	// With every field disabled the ring has nowhere to go.
	press(registry, tea.KeyTab)
	if _, ok := registry.FocusedID(); ok {
		t.Fatal("tab focused a disabled field")
	}

	// Value and cursor survive the disabled stretch.
	a.SetValue("kept")
	a.SetEnabled(true)
	if got := a.Value(); got != "kept" {
		t.Fatalf("value after re-enable = %q, want kept", got)
	}
}

func TestClickIgnoresDisabledField(t *testing.T) {
	registry, hits := newTestRegistry()
	field := registry.Register("name")
	field.SetEnabled(false)
	hits.Add(interaction.Hitbox{ID: "name", X: 0, Y: 0, Width: 10, Height: 1})

	registry.HandleEvent(event.Mouse{MouseEvent: tea.MouseEvent{
		X:      2,
		Y:      0,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}})
	if _, ok := registry.FocusedID(); ok {
		t.Fatal("click focused a disabled field")
	}
}

func TestMutationsNotifyOnlyOnChange(t *testing.T) {
	registry, _ := newTestRegistry()
	binding := registry.Register("name")

	notifications := 0
	registry.SetNotify(func() { notifications++ })

	binding.SetValue("bureau")
	if notifications != 1 {
		t.Fatalf("first SetValue notified %d times, want 1", notifications)
	}
	binding.SetValue("bureau")
	if notifications != 1 {
		t.Fatalf("repeated SetValue with same value notified, count %d", notifications)
	}

	validate := func(value string) (Status, bool) {
		return Status{Text: "required", Invalid: true}, value == ""
	}
	binding.SetValidator(validate)
	count := notifications
	binding.SetValidator(validate)
	if notifications != count {
		t.Fatalf("reinstalling an equivalent validator notified, count %d", notifications)
	}

	binding.SetSecure(true)
	binding.SetSecure(true)
	if notifications != count+1 {
		t.Fatalf("secure toggle notified %d times total, want %d", notifications, count+1)
	}
}
