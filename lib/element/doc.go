// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package element defines the declarative UI tree that components
// return from their render functions.
//
// An Element describes one node: a piece of text, a layout container,
// a widget, or a reference to a child component. Elements are plain
// immutable values built fresh on every render and consumed by the
// reconciler, which resolves them into the renderer-facing view tree
// (package view). Nothing here retains state; all persistence lives in
// hook stores keyed by component position.
//
// Component references carry a stable Key so list items keep their
// hook state when siblings reorder:
//
//	element.New("TipCard", renderTip).WithKey(tip.ID)
//
// The Styled wrapper attaches a stylesheet id and classes to its
// subtree without the individual node types needing style fields.
package element
