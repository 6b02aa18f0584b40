// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package style provides loom's stylesheet engine: JSONC stylesheets
// mapping selectors to property sets, resolved per element into a
// Computed style the renderer turns into lipgloss styling.
//
// Stylesheets are authored as JSONC (JSON with // comments, block
// comments, and trailing commas). The root object maps selectors to
// property objects:
//
//	{
//	  // Baseline for every element.
//	  ":root":    { "foreground": "#c6c6c6" },
//	  "block":    { "border": "rounded", "padding": 1 },
//	  ".muted":   { "faint": true },
//	  "#sidebar": { "bold": true },
//	}
//
// Selector forms are ":root" (matches everything), a bare element
// name ("block", "button", "input", ...), ".class", and "#id". A
// query resolves by merging every matching rule in ascending
// specificity (root 0, element 1, class 10, id 100), with file order
// breaking ties, so later rules win. The merged property
// set is returned as a Computed, whose typed accessors and Style
// method tolerate missing or mistyped properties by reporting
// absence instead of failing.
//
// The renderer understands these properties: "foreground" and
// "background" (colors, any form lipgloss accepts), "bold",
// "italic", "underline", and "faint" (booleans), "padding" and
// "margin" (cell counts), "border" ("normal", "rounded", "thick",
// "double", "hidden", "none"), "border_foreground" (color), and
// "align" ("left", "center", "right"). Unknown properties pass
// through Computed untouched, so sheets can carry app-specific keys.
//
// A Sheet is safe for concurrent use: renders resolve against it
// while Watch replaces its contents on a reload. Default returns the
// built-in theme matching the terminal's background.
package style
