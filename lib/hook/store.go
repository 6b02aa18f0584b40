// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package hook

import "fmt"

type slotKind int

const (
	slotState slotKind = iota
	slotReducer
	slotRef
	slotMemo
	slotCallback
	slotEffect
	slotContext
	slotTextInput
)

func (k slotKind) String() string {
	switch k {
	case slotState:
		return "state"
	case slotReducer:
		return "reducer"
	case slotRef:
		return "ref"
	case slotMemo:
		return "memo"
	case slotCallback:
		return "callback"
	case slotEffect:
		return "effect"
	case slotContext:
		return "context"
	case slotTextInput:
		return "text-input"
	default:
		return fmt.Sprintf("slotKind(%d)", int(k))
	}
}

type slot struct {
	kind slotKind
	cell any
}

// Store is the ordered slot array for one component instance. The
// reconciler creates one Store per key path and keeps it alive for as
// long as renders keep visiting that path.
type Store struct {
	id     string
	slots  []slot
	cursor int

	// sealed is set once the first render completes. After that the
	// slot count is fixed and any render consuming a different number
	// of slots is a programming error.
	sealed bool
}

// NewStore returns an empty store for the component instance
// identified by id. The id appears in hook misuse panics so the
// offending component can be found.
func NewStore(id string) *Store {
	return &Store{id: id}
}

// ID returns the component instance identifier the store was created
// with.
func (s *Store) ID() string {
	return s.id
}

// next returns the cell for the next slot in call order, invoking
// alloc only when the slot does not exist yet. It panics when the
// slot recorded by an earlier render holds a different hook kind, or
// when a sealed store runs out of slots.
func (s *Store) next(kind slotKind, alloc func() any) any {
	if s.cursor < len(s.slots) {
		existing := s.slots[s.cursor]
		if existing.kind != kind {
			panic(fmt.Sprintf(
				"hook: %s: slot %d holds a %s hook but a %s hook ran in its place; hooks must run in the same order on every render",
				s.id, s.cursor, existing.kind, kind))
		}
		s.cursor++
		return existing.cell
	}
	if s.sealed {
		panic(fmt.Sprintf(
			"hook: %s: render ran more than the %d hooks recorded by the first render; hooks must run in the same order on every render",
			s.id, len(s.slots)))
	}
	cell := alloc()
	s.slots = append(s.slots, slot{kind: kind, cell: cell})
	s.cursor++
	return cell
}

func (s *Store) beginRender() {
	s.cursor = 0
}

func (s *Store) finishRender() {
	if s.cursor != len(s.slots) {
		panic(fmt.Sprintf(
			"hook: %s: render ran %d hooks, previous renders ran %d; hooks must run in the same order on every render",
			s.id, s.cursor, len(s.slots)))
	}
	s.sealed = true
}

// Release runs the teardown owed by the store's slots: pending effect
// cleanups fire and text-input bindings leave the registry. The
// reconciler calls this when the instance's key path disappears from
// the tree.
func (s *Store) Release() {
	for _, sl := range s.slots {
		switch cell := sl.cell.(type) {
		case *effectCell:
			cell.release()
		case *textInputCell:
			cell.release()
		}
	}
	s.slots = nil
	s.cursor = 0
}
