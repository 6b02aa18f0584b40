// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package render draws resolved view trees as styled terminal frames.
//
// A Renderer walks the tree top-down, giving each node an origin and
// a width budget, and composes the rendered blocks with lipgloss
// joins. Because every block's size is measured as it is placed, the
// walk knows the absolute screen rectangle of each button and text
// field and records it in the app's interaction registry; mouse
// events resolve against exactly what the last frame drew.
//
// Colors and text attributes come from the stylesheet: each element
// kind is resolved against the sheet together with the id and classes
// of any enclosing Styled nodes, so themes restyle the whole tree
// without the tree changing shape.
//
// Markdown leaves are converted here rather than at reconcile time
// because word wrap depends on the width the renderer is drawing
// into. Fenced code blocks are syntax highlighted with chroma.
package render
