// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textinput

import (
	"slices"
	"sync"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/interaction"
)

// Registry tracks every registered text field of one app. All state
// lives behind one mutex; the app loop, component renders, and effect
// goroutines may touch it concurrently.
type Registry struct {
	mu      sync.Mutex
	fields  map[string]*field
	order   []string
	focused string
	caretOn bool

	keys   KeyMap
	hits   *interaction.Registry
	notify func()
}

// NewRegistry returns an empty registry resolving clicks against
// hits.
func NewRegistry(hits *interaction.Registry) *Registry {
	return &Registry{
		fields: make(map[string]*field),
		keys:   DefaultKeyMap,
		hits:   hits,
		notify: func() {},
	}
}

// SetNotify installs the hook called after every observable state
// change. The app points this at its render-request primitive so
// edits, focus moves, and caret blinks schedule a pass.
func (r *Registry) SetNotify(fn func()) {
	r.mu.Lock()
	r.notify = fn
	r.mu.Unlock()
}

// SetKeyMap replaces the focus-ring key bindings.
func (r *Registry) SetKeyMap(keys KeyMap) {
	r.mu.Lock()
	r.keys = keys
	r.mu.Unlock()
}

// Register adds a field under id, appending it to the focus ring, and
// returns its binding. Registering an existing id returns a binding
// for the existing field unchanged, so components may register on
// every render. Ids must be unique within one app.
func (r *Registry) Register(id string) Binding {
	r.mu.Lock()
	if _, exists := r.fields[id]; !exists {
		r.fields[id] = &field{id: id}
		r.order = append(r.order, id)
	}
	r.mu.Unlock()
	return Binding{registry: r, id: id}
}

// FocusedID returns the id of the focused field, or false when no
// field has focus.
func (r *Registry) FocusedID() (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.focused, r.focused != ""
}

// Snapshot returns the render-facing state of the field registered
// under id: its value, cursor, focus, caret visibility for this
// blink phase, and the status line with live validation taking
// precedence over a static status.
func (r *Registry) Snapshot(id string) (Snapshot, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.fields[id]
	if !ok {
		return Snapshot{}, false
	}
	snapshot := Snapshot{
		Value:   string(f.value),
		Cursor:  f.cursor,
		Focused: r.focused == id,
		Secure:  f.secure,
	}
	snapshot.CaretVisible = snapshot.Focused && r.caretOn
	switch {
	case f.hasLive:
		snapshot.Status = f.live
		snapshot.HasStatus = true
	case f.hasStatic:
		snapshot.Status = f.static
		snapshot.HasStatus = true
	}
	return snapshot, true
}

// Snapshot is the render-facing state of one field.
type Snapshot struct {
	Value        string
	Cursor       int
	Focused      bool
	CaretVisible bool
	Secure       bool
	Status       Status
	HasStatus    bool
}

// HandleEvent applies a framework event to the registry. The app loop
// calls this for every external event before publishing it on the
// event bus; events that mean nothing to text input pass through
// without effect.
func (r *Registry) HandleEvent(ev event.Event) {
	switch e := ev.(type) {
	case event.Key:
		r.handleKey(e.KeyMsg())
	case event.Mouse:
		if column, row, ok := event.Click(e); ok {
			r.handleClick(column, row)
		}
	case event.Tick:
		r.blinkCaret()
	}
}

func (r *Registry) handleKey(message tea.KeyMsg) {
	r.mu.Lock()
	keys := r.keys
	r.mu.Unlock()

	switch {
	case key.Matches(message, keys.Next):
		r.focusStep(1)
		return
	case key.Matches(message, keys.Previous):
		r.focusStep(-1)
		return
	}

	r.mu.Lock()
	f, ok := r.fields[r.focused]
	if !ok {
		r.mu.Unlock()
		return
	}
	var changed bool
	switch {
	case message.Type == tea.KeyRunes || message.Type == tea.KeySpace:
		// Alt-modified characters are chords, not text.
		if !message.Alt {
			changed = f.insertRunes(message.Runes)
		}
	case message.Type == tea.KeyBackspace:
		changed = f.deleteBackward()
	case message.Type == tea.KeyDelete:
		changed = f.deleteForward()
	case message.Type == tea.KeyLeft:
		changed = f.moveLeft()
	case message.Type == tea.KeyRight:
		changed = f.moveRight()
	case message.Type == tea.KeyHome, message.Type == tea.KeyCtrlA:
		changed = f.moveHome()
	case message.Type == tea.KeyEnd, message.Type == tea.KeyCtrlE:
		changed = f.moveEnd()
	}
	if !changed {
		r.mu.Unlock()
		return
	}
	// A fresh edit shows the caret immediately instead of waiting out
	// the current blink phase.
	r.caretOn = true
	validate := f.validate
	value := string(f.value)
	notify := r.notify
	r.mu.Unlock()

	r.runValidation(f, validate, value)
	notify()
}

// focusStep moves focus delta positions around the ring, wrapping at
// both ends and skipping disabled fields. From the unfocused state,
// stepping forward focuses the first enabled field and stepping
// backward the last.
func (r *Registry) focusStep(delta int) {
	r.mu.Lock()
	count := len(r.order)
	if count == 0 {
		r.mu.Unlock()
		return
	}
	start := -1
	if r.focused != "" {
		start = slices.Index(r.order, r.focused)
	}
	next := ""
	for step := 1; step <= count; step++ {
		var candidate int
		switch {
		case start < 0 && delta > 0:
			candidate = step - 1
		case start < 0:
			candidate = count - step
		default:
			candidate = ((start+delta*step)%count + count) % count
		}
		if !r.fields[r.order[candidate]].disabled {
			next = r.order[candidate]
			break
		}
	}
	if next == "" || next == r.focused {
		r.mu.Unlock()
		return
	}
	r.focused = next
	r.caretOn = true
	notify := r.notify
	r.mu.Unlock()
	notify()
}

func (r *Registry) handleClick(column, row int) {
	id, ok := r.hits.Lookup(column, row)
	if !ok {
		return
	}
	r.mu.Lock()
	f, exists := r.fields[id]
	if !exists || f.disabled || r.focused == id {
		r.mu.Unlock()
		return
	}
	r.focused = id
	r.caretOn = true
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// blinkCaret toggles the shared caret phase. The toggle only matters
// while a field is focused, so unfocused apps do not render on every
// tick.
func (r *Registry) blinkCaret() {
	r.mu.Lock()
	if r.focused == "" {
		r.mu.Unlock()
		return
	}
	r.caretOn = !r.caretOn
	notify := r.notify
	r.mu.Unlock()
	notify()
}

// runValidation recomputes f's live status outside the registry lock
// and stores the result. Validators are user code; keeping them
// unlocked means a validator reading through a binding cannot
// deadlock.
func (r *Registry) runValidation(f *field, validate Validator, value string) {
	if validate == nil {
		return
	}
	status, ok := validate(value)
	r.mu.Lock()
	f.live = status
	f.hasLive = ok
	r.mu.Unlock()
}
