// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package style

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Query names the element being styled: its node kind, its optional
// stylesheet id, and any classes, usually carried by an enclosing
// Styled element.
type Query struct {
	Element string
	ID      string
	Classes []string
}

type selectorKind int

const (
	selectorRoot selectorKind = iota
	selectorElement
	selectorClass
	selectorID
)

// selector is one parsed rule head.
type selector struct {
	kind selectorKind
	name string
}

// specificity orders rule application: root styles sit beneath
// element styles, element styles beneath class styles, class styles
// beneath id styles.
func (s selector) specificity() int {
	switch s.kind {
	case selectorID:
		return 100
	case selectorClass:
		return 10
	case selectorElement:
		return 1
	default:
		return 0
	}
}

func (s selector) matches(q Query) bool {
	switch s.kind {
	case selectorRoot:
		return true
	case selectorElement:
		return s.name == q.Element
	case selectorClass:
		return slices.Contains(q.Classes, s.name)
	case selectorID:
		return q.ID != "" && s.name == q.ID
	default:
		return false
	}
}

func parseSelector(raw string) (selector, error) {
	trimmed := strings.TrimSpace(raw)
	switch {
	case trimmed == ":root":
		return selector{kind: selectorRoot}, nil
	case strings.HasPrefix(trimmed, "#"):
		name := trimmed[1:]
		if name == "" || strings.ContainsAny(name, " \t") {
			return selector{}, fmt.Errorf("style: invalid id selector %q", raw)
		}
		return selector{kind: selectorID, name: name}, nil
	case strings.HasPrefix(trimmed, "."):
		name := trimmed[1:]
		if name == "" || strings.ContainsAny(name, " \t") {
			return selector{}, fmt.Errorf("style: invalid class selector %q", raw)
		}
		return selector{kind: selectorClass, name: name}, nil
	case trimmed != "" && !strings.ContainsAny(trimmed, " \t.#:"):
		return selector{kind: selectorElement, name: trimmed}, nil
	default:
		return selector{}, fmt.Errorf("style: invalid selector %q", raw)
	}
}

// rule is one selector with its property set. Rules are immutable
// once parsed; sheets share them freely.
type rule struct {
	selector   selector
	properties map[string]any
	order      int
}

// Sheet is a parsed stylesheet. Resolve may be called concurrently
// with Replace, which is how hot reload swaps a new version in while
// renders keep running.
type Sheet struct {
	mu    sync.RWMutex
	rules []rule
}

// RuleCount returns the number of rules in the sheet.
func (s *Sheet) RuleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rules)
}

// Replace swaps this sheet's rules for other's. Handles held by
// components keep pointing at the same Sheet and observe the new
// rules on their next Resolve.
func (s *Sheet) Replace(other *Sheet) {
	other.mu.RLock()
	rules := other.rules
	other.mu.RUnlock()

	s.mu.Lock()
	s.rules = rules
	s.mu.Unlock()
}

// Resolve merges every rule matching q, in ascending specificity with
// file order breaking ties, and returns the combined property set.
func (s *Sheet) Resolve(q Query) Computed {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []rule
	for _, r := range s.rules {
		if r.selector.matches(q) {
			matched = append(matched, r)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if a.selector.specificity() != b.selector.specificity() {
			return a.selector.specificity() < b.selector.specificity()
		}
		return a.order < b.order
	})

	merged := make(map[string]any)
	for _, r := range matched {
		maps.Copy(merged, r.properties)
	}
	return Computed{properties: merged}
}

// Computed is the merged property set for one query. The zero value
// has no properties.
type Computed struct {
	properties map[string]any
}

// Has reports whether the property is present.
func (c Computed) Has(name string) bool {
	_, ok := c.properties[name]
	return ok
}

// String returns a string-valued property.
func (c Computed) String(name string) (string, bool) {
	value, ok := c.properties[name].(string)
	return value, ok
}

// Bool returns a boolean property.
func (c Computed) Bool(name string) (bool, bool) {
	value, ok := c.properties[name].(bool)
	return value, ok
}

// Int returns an integer property. JSON numbers arrive as float64;
// both forms are accepted.
func (c Computed) Int(name string) (int, bool) {
	switch value := c.properties[name].(type) {
	case float64:
		return int(value), true
	case int:
		return value, true
	default:
		return 0, false
	}
}

// Float returns a numeric property.
func (c Computed) Float(name string) (float64, bool) {
	switch value := c.properties[name].(type) {
	case float64:
		return value, true
	case int:
		return float64(value), true
	default:
		return 0, false
	}
}

// Strings returns a list-of-strings property. Non-string entries are
// skipped.
func (c Computed) Strings(name string) ([]string, bool) {
	list, ok := c.properties[name].([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		if text, isString := entry.(string); isString {
			out = append(out, text)
		}
	}
	return out, true
}

// Color returns a color-valued property as a lipgloss color.
func (c Computed) Color(name string) (lipgloss.Color, bool) {
	value, ok := c.String(name)
	if !ok || value == "" {
		return "", false
	}
	return lipgloss.Color(value), true
}

// Style converts the computed properties the renderer understands
// into a lipgloss style. Properties it does not understand are left
// for the caller to read through the typed accessors.
func (c Computed) Style() lipgloss.Style {
	return c.styleOn(lipgloss.NewStyle())
}

// StyleOn is Style bound to a specific lipgloss renderer, for callers
// that force a color profile instead of detecting one.
func (c Computed) StyleOn(renderer *lipgloss.Renderer) lipgloss.Style {
	return c.styleOn(renderer.NewStyle())
}

func (c Computed) styleOn(style lipgloss.Style) lipgloss.Style {
	if color, ok := c.Color("foreground"); ok {
		style = style.Foreground(color)
	}
	if color, ok := c.Color("background"); ok {
		style = style.Background(color)
	}
	if bold, ok := c.Bool("bold"); ok {
		style = style.Bold(bold)
	}
	if italic, ok := c.Bool("italic"); ok {
		style = style.Italic(italic)
	}
	if underline, ok := c.Bool("underline"); ok {
		style = style.Underline(underline)
	}
	if faint, ok := c.Bool("faint"); ok {
		style = style.Faint(faint)
	}
	if padding, ok := c.Int("padding"); ok {
		style = style.Padding(0, padding)
	}
	if margin, ok := c.Int("margin"); ok {
		style = style.Margin(0, margin)
	}
	if border, ok := c.String("border"); ok {
		switch border {
		case "normal":
			style = style.Border(lipgloss.NormalBorder())
		case "rounded":
			style = style.Border(lipgloss.RoundedBorder())
		case "thick":
			style = style.Border(lipgloss.ThickBorder())
		case "double":
			style = style.Border(lipgloss.DoubleBorder())
		case "hidden":
			style = style.Border(lipgloss.HiddenBorder())
		case "none":
			// No border.
		}
		if color, ok := c.Color("border_foreground"); ok {
			style = style.BorderForeground(color)
		}
	}
	if align, ok := c.String("align"); ok {
		switch align {
		case "left":
			style = style.Align(lipgloss.Left)
		case "center":
			style = style.Align(lipgloss.Center)
		case "right":
			style = style.Align(lipgloss.Right)
		}
	}
	return style
}
