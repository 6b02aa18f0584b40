// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package view

import "testing"

func sampleTree(counter string) Node {
	return Flex{
		Direction: Vertical,
		Children: []Node{
			Block{Title: "status", Child: Text{Content: counter}},
			Table{
				Header:   []string{"name", "state"},
				Rows:     [][]string{{"builder", "running"}, {"proxy", "idle"}},
				Selected: 0,
			},
		},
	}
}

func TestEqualIdenticalTrees(t *testing.T) {
	if !Equal(sampleTree("count: 2"), sampleTree("count: 2")) {
		t.Fatal("structurally identical trees compared unequal")
	}
}

func TestEqualDetectsNestedTextChange(t *testing.T) {
	if Equal(sampleTree("count: 2"), sampleTree("count: 3")) {
		t.Fatal("trees differing in nested text compared equal")
	}
}

func TestEqualDetectsInputStateChange(t *testing.T) {
	field := Input{ID: "name", Value: "bureau", Cursor: 6, Focused: true}
	blinked := field
	blinked.CaretVisible = true
	if Equal(field, blinked) {
		t.Fatal("caret visibility change compared equal")
	}
}

func TestEqualDistinguishesNodeKinds(t *testing.T) {
	if Equal(Text{Content: "# heading"}, Markdown{Source: "# heading"}) {
		t.Fatal("different node kinds with matching payloads compared equal")
	}
}

func TestEqualDistinguishesTreeRowExpansion(t *testing.T) {
	collapsed := Tree{Rows: []TreeRow{{Label: "lib", HasChildren: true}}}
	expanded := Tree{Rows: []TreeRow{
		{Label: "lib", HasChildren: true, Expanded: true},
		{Label: "clock", Depth: 1},
	}}
	if Equal(collapsed, expanded) {
		t.Fatal("expanding a tree node should change the view")
	}
}
