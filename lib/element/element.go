// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package element

import (
	"reflect"

	"github.com/bureau-foundation/loom/lib/hook"
)

// Element is one node of the declarative UI tree. The concrete types
// in this package are the closed set of node kinds; the reconciler
// resolves each of them into the matching view node.
type Element interface {
	element()
}

// RenderFunc produces a component's element tree for one render pass.
// It runs on the app goroutine with a Scope bound to the component
// instance's hook store; it must call the same hooks in the same
// order every time it runs.
type RenderFunc func(scope *hook.Scope) Element

// Direction selects the main axis of a Flex container.
type Direction int

const (
	// Horizontal lays children out left to right.
	Horizontal Direction = iota
	// Vertical lays children out top to bottom.
	Vertical
)

// Empty renders nothing. Containers that resolve to zero children
// collapse to Empty so that "nothing" compares equal to "nothing".
type Empty struct{}

// Text is a leaf of plain text.
type Text struct {
	Content string
}

// Markdown is a leaf of markdown source, rendered with terminal
// styling (headings, lists, tables, highlighted code fences).
type Markdown struct {
	Source string
}

// Flex stacks children along one axis with an optional gap of blank
// cells between them.
type Flex struct {
	Direction Direction
	Gap       int
	Children  []Element
}

// Block draws a border around a single child, with an optional title
// in the top edge.
type Block struct {
	Title string
	Child Element
}

// List displays items top to bottom. Selected is the highlighted
// index, or negative for no highlight.
type List struct {
	Items    []string
	Selected int
}

// Gauge is a horizontal progress bar. Ratio is clamped to [0, 1] at
// render time; Label overlays the bar.
type Gauge struct {
	Ratio float64
	Label string
}

// Button is a clickable region. The renderer records its hitbox under
// ID so components can match clicks from the event bus against it.
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

// Tree displays a hierarchy of expandable nodes. Collapsed nodes hide
// their children.
type Tree struct {
	Nodes []TreeNode
}

// TreeNode is one node of a Tree.
type TreeNode struct {
	Label    string
	Expanded bool
	Children []TreeNode
}

// Input is a text entry field backed by the binding registered under
// ID (see hook.UseTextInput). Value, cursor, focus, and validation
// state come from the registry at resolve time; the element only
// names the binding and its idle presentation.
type Input struct {
	ID          string
	Label       string
	Placeholder string
}

// Form groups labeled fields under a title.
type Form struct {
	Title    string
	Children []Element
}

// Tabs shows one body at a time, selected by Active, under a strip of
// tab titles.
type Tabs struct {
	Titles []string
	Active int
	Body   Element
}

// Modal is a centered dialog, typically placed in a Layers overlay so
// it floats above the base tree.
type Modal struct {
	Title string
	Body  Element
}

// Layers stacks overlays over a base tree in order; later overlays
// sit on top.
type Layers struct {
	Base     Element
	Overlays []Element
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

// ToastStack renders notifications newest-first in a corner overlay.
type ToastStack struct {
	Toasts []Toast
}

// Fragment splices its children into the parent without introducing a
// layout node. A fragment of exactly one child resolves to that child
// alone; an empty fragment resolves to Empty.
type Fragment struct {
	Children []Element
}

// Styled tags a subtree with a stylesheet id and classes. The
// renderer resolves the effective style by querying the active
// stylesheet with the nearest enclosing Styled tags.
type Styled struct {
	ID      string
	Classes []string
	Child   Element
}

// Provider pushes a context value for the resolution of its subtree.
// Components embedded below it observe the value through UseContext;
// siblings resolved after it observe whatever was provided before.
// Build one with Provide so the lookup type is captured statically.
type Provider struct {
	Type  reflect.Type
	Value any
	Child Element
}

// Provide wraps child in a Provider for a value of type T. The
// context is keyed by T itself, so providing a concrete value under
// an interface type requires naming the interface explicitly:
// Provide[io.Writer](w, child).
func Provide[T any](value T, child Element) Provider {
	return Provider{Type: reflect.TypeFor[T](), Value: value, Child: child}
}

// Component embeds a child component. The reconciler allocates one
// instance (and one hook store) per distinct key path; Key
// disambiguates siblings so reordering keeps state attached to the
// right item.
type Component struct {
	Name   string
	Key    string
	Render RenderFunc
}

func (Empty) element()      {}
func (Text) element()       {}
func (Markdown) element()   {}
func (Flex) element()       {}
func (Block) element()      {}
func (List) element()       {}
func (Gauge) element()      {}
func (Button) element()     {}
func (Table) element()      {}
func (Tree) element()       {}
func (Input) element()      {}
func (Form) element()       {}
func (Tabs) element()       {}
func (Modal) element()      {}
func (Layers) element()     {}
func (ToastStack) element() {}
func (Fragment) element()   {}
func (Styled) element()     {}
func (Provider) element()   {}
func (Component) element()  {}

// New returns a Component reference for a named render function.
func New(name string, render RenderFunc) Component {
	return Component{Name: name, Render: render}
}

// WithKey returns a copy of the component carrying a sibling key.
func (c Component) WithKey(key string) Component {
	c.Key = key
	return c
}

// Row is shorthand for a horizontal Flex.
func Row(children ...Element) Flex {
	return Flex{Direction: Horizontal, Children: children}
}

// Column is shorthand for a vertical Flex.
func Column(children ...Element) Flex {
	return Flex{Direction: Vertical, Children: children}
}
