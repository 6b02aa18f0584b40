// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import (
	"fmt"

	"github.com/bureau-foundation/loom/lib/textinput"
)

type textInputCell struct {
	binding textinput.Binding
}

func (c *textInputCell) release() {
	c.binding.Release()
}

// UseTextInput claims a text-input slot and returns the binding for
// the field registered under id. The first render registers the field
// with the app's registry, which adds it to the focus ring in
// registration order; pruning the instance removes it again. Ids must
// be unique within one app.
//
// The registry, not the slot, is the source of truth for the field's
// value, cursor, and focus. The binding is a handle into it: reads
// during render are stable for the pass, and writes from effects or
// event goroutines schedule a render the same way state setters do.
func UseTextInput(s *Scope, id string) textinput.Binding {
	cell := nextCell(s, slotTextInput, "UseTextInput", func() *textInputCell {
		return &textInputCell{binding: s.host.Inputs.Register(id)}
	})
	if got := cell.binding.ID(); got != id {
		panic(fmt.Sprintf(
			"hook: %s: text input slot is bound to field %q but this render passed %q; field ids must be stable",
			s.store.id, got, id))
	}
	return cell.binding
}
