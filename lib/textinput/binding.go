// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textinput

import "slices"

// Binding is a component's handle on one registered field. Handles
// are value types safe to copy and safe to call from any goroutine.
// Mutators notify the registry's render hook only when observable
// state actually changed, so calling them with unchanged arguments on
// every render is free.
type Binding struct {
	registry *Registry
	id       string
}

// ID returns the field id the binding was registered under.
func (b Binding) ID() string {
	return b.id
}

// Value returns the field's current text.
func (b Binding) Value() string {
	r := b.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.fields[b.id]; ok {
		return string(f.value)
	}
	return ""
}

// Cursor returns the field's cursor as a rune offset.
func (b Binding) Cursor() int {
	r := b.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	if f, ok := r.fields[b.id]; ok {
		return f.cursor
	}
	return 0
}

// Focused reports whether the field holds focus.
func (b Binding) Focused() bool {
	r := b.registry
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused == b.id
}

// SetValue replaces the field's text, clamping the cursor into the
// new bounds, and reruns validation.
func (b Binding) SetValue(value string) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || !f.setValue(value) {
		r.mu.Unlock()
		return
	}
	validate := f.validate
	current := string(f.value)
	notify := r.notify
	r.mu.Unlock()
	r.runValidation(f, validate, current)
	notify()
}

// SetCursor moves the cursor to offset, clamped into the value's
// bounds.
func (b Binding) SetCursor(offset int) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || !f.setCursor(offset) {
		r.mu.Unlock()
		return
	}
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// Focus gives the field focus, taking it from any other field.
func (b Binding) Focus() {
	r := b.registry
	r.mu.Lock()
	if _, ok := r.fields[b.id]; !ok || r.focused == b.id {
		r.mu.Unlock()
		return
	}
	r.focused = b.id
	r.caretOn = true
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// Blur removes focus from the field if it holds it.
func (b Binding) Blur() {
	r := b.registry
	r.mu.Lock()
	if r.focused != b.id {
		r.mu.Unlock()
		return
	}
	r.focused = ""
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// SetEnabled switches the field in or out of the focus ring.
// Disabled fields keep their value and validation state but cannot
// take focus from the keyboard or a click; disabling the focused
// field drops focus. Components whose fields are hidden (an inactive
// tab, a closed panel) disable them so ring traversal only visits
// what is on screen.
func (b Binding) SetEnabled(enabled bool) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || f.disabled == !enabled {
		r.mu.Unlock()
		return
	}
	f.disabled = !enabled
	if f.disabled && r.focused == b.id {
		r.focused = ""
	}
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// SetSecure switches the field's secure mode. Secure fields render
// masked; the stored value is unaffected.
func (b Binding) SetSecure(secure bool) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || f.secure == secure {
		r.mu.Unlock()
		return
	}
	f.secure = secure
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// SetStatus assigns the field's static status line. A live validation
// result takes precedence over it while present.
func (b Binding) SetStatus(status Status) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || (f.hasStatic && f.static == status) {
		r.mu.Unlock()
		return
	}
	f.static = status
	f.hasStatic = true
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// ClearStatus removes the field's static status line.
func (b Binding) ClearStatus() {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok || !f.hasStatic {
		r.mu.Unlock()
		return
	}
	f.static = Status{}
	f.hasStatic = false
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// SetValidator installs the field's validator and applies it to the
// current value; nil removes the validator and any live status. The
// resulting status only notifies the render hook when it differs from
// the previous one, so installing an equivalent validator on every
// render settles immediately.
func (b Binding) SetValidator(validate Validator) {
	r := b.registry
	r.mu.Lock()
	f, ok := r.fields[b.id]
	if !ok {
		r.mu.Unlock()
		return
	}
	f.validate = validate
	before := f.live
	hadLive := f.hasLive
	value := string(f.value)
	notify := r.notify
	r.mu.Unlock()

	if validate == nil {
		r.mu.Lock()
		f.live = Status{}
		f.hasLive = false
		changed := hadLive
		r.mu.Unlock()
		if changed {
			notify()
		}
		return
	}
	r.runValidation(f, validate, value)
	r.mu.Lock()
	changed := f.hasLive != hadLive || (f.hasLive && f.live != before)
	r.mu.Unlock()
	if changed {
		notify()
	}
}

// Release removes the field from the registry and the focus ring.
// The text-input hook calls this when the owning component instance
// is pruned.
func (b Binding) Release() {
	r := b.registry
	r.mu.Lock()
	if _, ok := r.fields[b.id]; !ok {
		r.mu.Unlock()
		return
	}
	delete(r.fields, b.id)
	if index := slices.Index(r.order, b.id); index >= 0 {
		r.order = slices.Delete(r.order, index, index+1)
	}
	if r.focused == b.id {
		r.focused = ""
	}
	r.mu.Unlock()
}
