// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package view defines the resolved tree handed to a renderer.
//
// A View is what remains of an element tree after reconciliation:
// components have been invoked and replaced by their output,
// fragments have been spliced into their parents, and text-input
// nodes carry the value, cursor, and focus state that was current
// when the pass ran. The result is plain data with no closures or
// pointers into runtime state, so two passes can be compared with
// Equal to decide whether anything on screen needs to change.
//
// Views are immutable after handoff. The runtime keeps the previous
// pass's tree for diffing and gives the renderer the new one; neither
// side writes to a tree it has been given.
package view

import "reflect"

// Node is one node of a resolved view tree.
type Node interface {
	node()
}

// Direction selects the main axis of a Flex node.
type Direction int

const (
	Horizontal Direction = iota
	Vertical
)

// Empty renders nothing.
type Empty struct{}

// Text is a leaf of plain text.
type Text struct {
	Content string
}

// Markdown is a leaf of markdown source. The renderer owns the
// conversion to styled terminal text because wrapping depends on the
// width it is drawing into.
type Markdown struct {
	Source string
}

// Flex stacks children along one axis with Gap blank cells between
// adjacent children.
type Flex struct {
	Direction Direction
	Gap       int
	Children  []Node
}

// Block draws a border around a single child with an optional title.
type Block struct {
	Title string
	Child Node
}

// List displays items top to bottom. Selected is the highlighted
// index, or negative for none.
type List struct {
	Items    []string
	Selected int
}

// Gauge is a horizontal progress bar with an overlaid label. Ratio
// is already clamped to [0, 1].
type Gauge struct {
	Ratio float64
	Label string
}

// Button is a clickable label. The renderer records the drawn region
// under ID in the interaction registry.
type Button struct {
	ID    string
	Label string
}

// Table displays a header row and body rows. Selected is the
// highlighted body row index, or negative for none.
type Table struct {
	Header   []string
	Rows     [][]string
	Selected int
}

// Tree is a hierarchy flattened to visible rows. Children of
// collapsed nodes are absent, so expanding or collapsing a node
// changes the row slice and therefore the diff.
type Tree struct {
	Rows []TreeRow
}

// TreeRow is one visible row of a Tree.
type TreeRow struct {
	Label       string
	Depth       int
	HasChildren bool
	Expanded    bool
}

// Input is a text field with its state resolved at reconcile time.
// Caret blinking and focus movement reach the screen as ordinary
// view diffs: the registry changes, the next pass resolves different
// field values here, and the tree compares unequal.
type Input struct {
	ID           string
	Label        string
	Placeholder  string
	Value        string
	Cursor       int
	Focused      bool
	CaretVisible bool
	Secure       bool
	Status       string
	Invalid      bool
}

// Form groups labeled fields under a title.
type Form struct {
	Title    string
	Children []Node
}

// Tabs shows the Active body under a strip of tab titles.
type Tabs struct {
	Titles []string
	Active int
	Body   Node
}

// Modal is a centered dialog drawn over whatever is beneath it.
type Modal struct {
	Title string
	Body  Node
}

// Layers stacks overlays over a base tree; later overlays sit on top.
type Layers struct {
	Base     Node
	Overlays []Node
}

// ToastLevel grades a toast notification.
type ToastLevel int

const (
	ToastInfo ToastLevel = iota
	ToastWarn
	ToastError
)

// Toast is one transient notification.
type Toast struct {
	Text  string
	Level ToastLevel
}

// ToastStack renders notifications in a corner overlay.
type ToastStack struct {
	Toasts []Toast
}

// Styled tags a subtree with a stylesheet id and classes for the
// renderer's style queries.
type Styled struct {
	ID      string
	Classes []string
	Child   Node
}

func (Empty) node()      {}
func (Text) node()       {}
func (Markdown) node()   {}
func (Flex) node()       {}
func (Block) node()      {}
func (List) node()       {}
func (Gauge) node()      {}
func (Button) node()     {}
func (Table) node()      {}
func (Tree) node()       {}
func (Input) node()      {}
func (Form) node()       {}
func (Tabs) node()       {}
func (Modal) node()      {}
func (Layers) node()     {}
func (ToastStack) node() {}
func (Styled) node()     {}

// Equal reports whether two trees are structurally identical. Nodes
// hold only comparable data (strings, numbers, slices, nested nodes),
// so deep equality is exact: any visible difference, down to a single
// character of text, compares unequal.
func Equal(a, b Node) bool {
	return reflect.DeepEqual(a, b)
}
