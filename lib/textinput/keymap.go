// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package textinput

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the focus-ring key bindings. Editing keys
// (characters, backspace, arrows, home/end) are fixed; only ring
// traversal is rebindable.
type KeyMap struct {
	Next     key.Binding
	Previous key.Binding
}

// DefaultKeyMap is the built-in binding set: tab forward, shift+tab
// backward.
var DefaultKeyMap = KeyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("Tab", "next field"),
	),
	Previous: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("S-Tab", "previous field"),
	),
}
