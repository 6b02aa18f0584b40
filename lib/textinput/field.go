// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textinput

// Status is a short line of feedback shown with a field.
type Status struct {
	Text    string
	Invalid bool
}

// Validator computes live feedback from a field's value. It runs
// after every value change and must be a pure function of the value.
// Returning false means no feedback, which lets a statically assigned
// status show instead.
type Validator func(value string) (Status, bool)

// field is the registry's record for one text input. The cursor is a
// rune offset in [0, len(value)]; an offset of len(value) means the
// caret sits after the last character. Disabled fields keep their
// state but sit outside the focus ring.
type field struct {
	id       string
	value    []rune
	cursor   int
	secure   bool
	disabled bool

	static    Status
	hasStatic bool

	validate Validator
	live     Status
	hasLive  bool
}

// insertRunes inserts runes at the cursor and advances it past them.
// Returns true if the value changed.
func (f *field) insertRunes(runes []rune) bool {
	if len(runes) == 0 {
		return false
	}
	updated := make([]rune, 0, len(f.value)+len(runes))
	updated = append(updated, f.value[:f.cursor]...)
	updated = append(updated, runes...)
	updated = append(updated, f.value[f.cursor:]...)
	f.value = updated
	f.cursor += len(runes)
	return true
}

// deleteBackward removes the rune before the cursor. Returns true if
// the value changed.
func (f *field) deleteBackward() bool {
	if f.cursor == 0 {
		return false
	}
	f.value = append(f.value[:f.cursor-1], f.value[f.cursor:]...)
	f.cursor--
	return true
}

// deleteForward removes the rune at the cursor. Returns true if the
// value changed.
func (f *field) deleteForward() bool {
	if f.cursor >= len(f.value) {
		return false
	}
	f.value = append(f.value[:f.cursor], f.value[f.cursor+1:]...)
	return true
}

func (f *field) moveLeft() bool {
	if f.cursor == 0 {
		return false
	}
	f.cursor--
	return true
}

func (f *field) moveRight() bool {
	if f.cursor >= len(f.value) {
		return false
	}
	f.cursor++
	return true
}

func (f *field) moveHome() bool {
	if f.cursor == 0 {
		return false
	}
	f.cursor = 0
	return true
}

func (f *field) moveEnd() bool {
	if f.cursor == len(f.value) {
		return false
	}
	f.cursor = len(f.value)
	return true
}

// setValue replaces the value and clamps the cursor into the new
// bounds. Returns true if the value or cursor changed.
func (f *field) setValue(value string) bool {
	runes := []rune(value)
	changed := string(f.value) != value
	f.value = runes
	if f.cursor > len(runes) {
		f.cursor = len(runes)
		changed = true
	}
	return changed
}

// setCursor clamps offset into [0, len(value)] and moves the cursor
// there. Returns true if the cursor changed.
func (f *field) setCursor(offset int) bool {
	if offset < 0 {
		offset = 0
	}
	if offset > len(f.value) {
		offset = len(f.value)
	}
	if offset == f.cursor {
		return false
	}
	f.cursor = offset
	return true
}
