// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bureau-foundation/loom/lib/element"
	"github.com/bureau-foundation/loom/lib/hook"
	"github.com/bureau-foundation/loom/lib/view"
)

// instanceID derives the identity a component instance is stored
// under. The base is the positional path from the root ("0.2.1"); a
// keyed component replaces its own positional segment with the key,
// so reordering keyed siblings moves the element without detaching
// its state. The component name is appended for readable hook panics
// and logs.
func instanceID(path string, c element.Component) string {
	if c.Key != "" {
		if i := strings.LastIndexByte(path, '.'); i >= 0 {
			path = path[:i+1] + "#" + c.Key
		} else {
			path = "#" + c.Key
		}
	}
	return path + ":" + c.Name
}

func childPath(path string, index int) string {
	return path + "." + strconv.Itoa(index)
}

// resolve turns one element into its view node, rendering any
// components it reaches and recording their instances as visited.
func (a *App) resolve(node element.Element, path string, pass *hook.Pass, visited map[string]bool) view.Node {
	switch n := node.(type) {
	case nil:
		return view.Empty{}

	case element.Empty:
		return view.Empty{}

	case element.Text:
		return view.Text{Content: n.Content}

	case element.Markdown:
		return view.Markdown{Source: n.Source}

	case element.Flex:
		children := a.resolveChildren(n.Children, path, pass, visited)
		if len(children) == 0 {
			return view.Empty{}
		}
		return view.Flex{
			Direction: resolveDirection(n.Direction),
			Gap:       n.Gap,
			Children:  children,
		}

	case element.Fragment:
		// A fragment inside a container is spliced by
		// resolveChildren; one resolved at top level has no parent to
		// splice into, so a multi-child fragment stacks vertically.
		children := a.resolveChildren(n.Children, path, pass, visited)
		switch len(children) {
		case 0:
			return view.Empty{}
		case 1:
			return children[0]
		default:
			return view.Flex{Direction: view.Vertical, Children: children}
		}

	case element.Block:
		return view.Block{
			Title: n.Title,
			Child: a.resolve(n.Child, childPath(path, 0), pass, visited),
		}

	case element.List:
		return view.List{Items: n.Items, Selected: n.Selected}

	case element.Gauge:
		ratio := n.Ratio
		if ratio < 0 {
			ratio = 0
		}
		if ratio > 1 {
			ratio = 1
		}
		return view.Gauge{Ratio: ratio, Label: n.Label}

	case element.Button:
		return view.Button{ID: n.ID, Label: n.Label}

	case element.Table:
		return view.Table{Header: n.Header, Rows: n.Rows, Selected: n.Selected}

	case element.Tree:
		return view.Tree{Rows: flattenTree(n.Nodes, 0, nil)}

	case element.Input:
		return a.resolveInput(n)

	case element.Form:
		return view.Form{
			Title:    n.Title,
			Children: a.resolveChildren(n.Children, path, pass, visited),
		}

	case element.Tabs:
		active := n.Active
		if active < 0 {
			active = 0
		}
		if len(n.Titles) > 0 && active >= len(n.Titles) {
			active = len(n.Titles) - 1
		}
		return view.Tabs{
			Titles: n.Titles,
			Active: active,
			Body:   a.resolve(n.Body, childPath(path, 0), pass, visited),
		}

	case element.Modal:
		return view.Modal{
			Title: n.Title,
			Body:  a.resolve(n.Body, childPath(path, 0), pass, visited),
		}

	case element.Layers:
		layers := view.Layers{
			Base: a.resolve(n.Base, childPath(path, 0), pass, visited),
		}
		for i, overlay := range n.Overlays {
			resolved := a.resolve(overlay, childPath(path, i+1), pass, visited)
			if _, empty := resolved.(view.Empty); empty {
				continue
			}
			layers.Overlays = append(layers.Overlays, resolved)
		}
		if len(layers.Overlays) == 0 {
			return layers.Base
		}
		return layers

	case element.ToastStack:
		if len(n.Toasts) == 0 {
			return view.Empty{}
		}
		toasts := make([]view.Toast, len(n.Toasts))
		for i, toast := range n.Toasts {
			toasts[i] = view.Toast{Text: toast.Text, Level: resolveToastLevel(toast.Level)}
		}
		return view.ToastStack{Toasts: toasts}

	case element.Styled:
		return view.Styled{
			ID:      n.ID,
			Classes: n.Classes,
			Child:   a.resolve(n.Child, childPath(path, 0), pass, visited),
		}

	case element.Provider:
		// The provider itself is invisible: its subtree resolves with
		// the value pushed and the result stands in its place.
		release := pass.Provide(n.Type, n.Value)
		defer release()
		return a.resolve(n.Child, childPath(path, 0), pass, visited)

	case element.Component:
		if n.Render == nil {
			return view.Empty{}
		}
		id := instanceID(path, n)
		store, exists := a.instances[id]
		if !exists {
			store = hook.NewStore(id)
			a.instances[id] = store
			a.logger.Debug("mounted component instance", "id", id)
		}
		visited[id] = true
		scope := store.Bind(a.host, pass)
		produced := n.Render(scope)
		scope.Finish()
		// The component's output occupies the component's position.
		return a.resolve(produced, path, pass, visited)

	default:
		return view.Empty{}
	}
}

// resolveChildren resolves a container's children, splicing fragments
// into the parent and dropping children that resolved to nothing.
// Paths are assigned from element positions before splicing, so a
// child's identity does not shift when an earlier sibling collapses.
func (a *App) resolveChildren(children []element.Element, path string, pass *hook.Pass, visited map[string]bool) []view.Node {
	var out []view.Node
	for i, child := range children {
		p := childPath(path, i)
		if fragment, ok := child.(element.Fragment); ok {
			out = append(out, a.resolveChildren(fragment.Children, p, pass, visited)...)
			continue
		}
		resolved := a.resolve(child, p, pass, visited)
		if _, empty := resolved.(view.Empty); empty {
			continue
		}
		out = append(out, resolved)
	}
	return out
}

// resolveInput reads the field's registry state into the view, so
// caret blinks, focus moves, and edits surface as ordinary view
// diffs. An input whose component never registered the field renders
// idle and empty.
func (a *App) resolveInput(n element.Input) view.Node {
	resolved := view.Input{
		ID:          n.ID,
		Label:       n.Label,
		Placeholder: n.Placeholder,
	}
	if snapshot, ok := a.inputs.Snapshot(n.ID); ok {
		resolved.Value = snapshot.Value
		resolved.Cursor = snapshot.Cursor
		resolved.Focused = snapshot.Focused
		resolved.CaretVisible = snapshot.CaretVisible
		resolved.Secure = snapshot.Secure
		if snapshot.HasStatus {
			resolved.Status = snapshot.Status.Text
			resolved.Invalid = snapshot.Status.Invalid
		}
	}
	return resolved
}

func flattenTree(nodes []element.TreeNode, depth int, out []view.TreeRow) []view.TreeRow {
	for _, node := range nodes {
		out = append(out, view.TreeRow{
			Label:       node.Label,
			Depth:       depth,
			HasChildren: len(node.Children) > 0,
			Expanded:    node.Expanded,
		})
		if node.Expanded {
			out = flattenTree(node.Children, depth+1, out)
		}
	}
	return out
}

func resolveDirection(d element.Direction) view.Direction {
	if d == element.Horizontal {
		return view.Horizontal
	}
	return view.Vertical
}

func resolveToastLevel(level element.ToastLevel) view.ToastLevel {
	switch level {
	case element.ToastWarn:
		return view.ToastWarn
	case element.ToastError:
		return view.ToastError
	default:
		return view.ToastInfo
	}
}

// pruneUnvisited releases every instance the pass did not reach. The
// store release runs effect cleanups and unregisters text-input
// fields before the instance disappears.
func (a *App) pruneUnvisited(visited map[string]bool) {
	var stale []string
	for id := range a.instances {
		if !visited[id] {
			stale = append(stale, id)
		}
	}
	sort.Strings(stale)
	for _, id := range stale {
		a.instances[id].Release()
		delete(a.instances, id)
		a.logger.Debug("pruned component instance", "id", id)
	}
}
