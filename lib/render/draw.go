// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/view"
)

// canvas is one draw pass. Each draw call receives the absolute
// origin its output will be placed at and a width budget; parents
// measure what children return and advance origins to match the
// composition exactly, which is what makes recorded hitboxes line up
// with the final frame. Measuring passes set record to false so
// overlays can be sized before their anchor is known.
type canvas struct {
	renderer *Renderer
	width    int
	height   int
	record   bool

	// Style context from enclosing Styled nodes.
	styleID string
	classes []string
}

func (c *canvas) newStyle() lipgloss.Style {
	return c.renderer.lip.NewStyle()
}

// computed resolves the stylesheet for an element kind under the
// current Styled context, with any extra classes appended.
func (c *canvas) computed(element string, extra ...string) style.Computed {
	classes := c.classes
	if len(extra) > 0 {
		classes = append(append([]string{}, classes...), extra...)
	}
	return c.renderer.sheet.Resolve(style.Query{Element: element, ID: c.styleID, Classes: classes})
}

func (c *canvas) addHitbox(id string, x, y int, drawn string) {
	if !c.record || id == "" || drawn == "" {
		return
	}
	c.renderer.hitboxes.Add(interaction.Hitbox{
		ID:     id,
		X:      x,
		Y:      y,
		Width:  lipgloss.Width(drawn),
		Height: lipgloss.Height(drawn),
	})
}

func (c *canvas) draw(node view.Node, x, y, width int) string {
	if width < 1 {
		width = 1
	}
	switch n := node.(type) {
	case nil, view.Empty:
		return ""
	case view.Text:
		return c.drawText(n, width)
	case view.Markdown:
		return c.drawMarkdown(n, width)
	case view.Flex:
		return c.drawFlex(n, x, y, width)
	case view.Block:
		return c.drawBlock(n, x, y, width)
	case view.List:
		return c.drawList(n, width)
	case view.Gauge:
		return c.drawGauge(n, width)
	case view.Button:
		return c.drawButton(n, x, y)
	case view.Table:
		return c.drawTable(n, width)
	case view.Tree:
		return c.drawTree(n, width)
	case view.Input:
		return c.drawInput(n, x, y, width)
	case view.Form:
		return c.drawForm(n, x, y, width)
	case view.Tabs:
		return c.drawTabs(n, x, y, width)
	case view.Modal:
		return c.drawStandaloneModal(n, width)
	case view.Layers:
		return c.drawLayers(n, x, y, width)
	case view.ToastStack:
		return c.drawToasts(n, width)
	case view.Styled:
		return c.drawStyled(n, x, y, width)
	}
	return ""
}

func (c *canvas) drawText(n view.Text, width int) string {
	if n.Content == "" {
		return ""
	}
	styled := c.computed("text").StyleOn(c.renderer.lip).Render(n.Content)
	return ansi.Wrap(styled, width, " ,.;-+|")
}

func (c *canvas) drawFlex(n view.Flex, x, y, width int) string {
	if n.Direction == view.Horizontal {
		var parts []string
		cursor := x
		remaining := width
		for _, child := range n.Children {
			part := c.draw(child, cursor, y, remaining)
			if part == "" {
				continue
			}
			if len(parts) > 0 && n.Gap > 0 {
				parts = append(parts, strings.Repeat(" ", n.Gap))
			}
			parts = append(parts, part)
			advance := lipgloss.Width(part) + n.Gap
			cursor += advance
			remaining -= advance
			if remaining < 1 {
				remaining = 1
			}
		}
		if len(parts) == 0 {
			return ""
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
	}

	var parts []string
	cursor := y
	for _, child := range n.Children {
		part := c.draw(child, x, cursor, width)
		if part == "" {
			continue
		}
		if len(parts) > 0 {
			for range n.Gap {
				parts = append(parts, "")
			}
		}
		parts = append(parts, part)
		cursor += lipgloss.Height(part) + n.Gap
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *canvas) drawBlock(n view.Block, x, y, width int) string {
	computed := c.computed("block")
	inner := c.draw(n.Child, x+1, y+1, width-2)
	inner = c.fitToTitle(inner, n.Title, width-2)

	boxStyle := c.newStyle().Border(borderNamed(computed, lipgloss.RoundedBorder()))
	if color, ok := computed.Color("border_foreground"); ok {
		boxStyle = boxStyle.BorderForeground(color)
	}
	box := boxStyle.Render(inner)

	if n.Title != "" {
		titleStyle := c.newStyle().Bold(true)
		if color, ok := computed.Color("border_foreground"); ok {
			titleStyle = titleStyle.Foreground(color)
		}
		box = c.spliceTitle(box, n.Title, titleStyle)
	}
	return box
}

// fitToTitle widens border content so the title spliced into the top
// border fits inside the corners.
func (c *canvas) fitToTitle(inner, title string, budget int) string {
	if title == "" {
		return inner
	}
	needed := ansi.StringWidth(" "+title+" ") + 1
	if needed > budget {
		needed = budget
	}
	if lipgloss.Width(inner) < needed {
		return c.newStyle().Width(needed).Render(inner)
	}
	return inner
}

func (c *canvas) spliceTitle(box, title string, titleStyle lipgloss.Style) string {
	padded := " " + title + " "
	if limit := lipgloss.Width(box) - 3; ansi.StringWidth(padded) > limit {
		padded = ansi.Truncate(padded, limit, "…")
	}
	return spliceOverlay(box, []string{titleStyle.Render(padded)}, 2, 0)
}

func (c *canvas) drawList(n view.List, width int) string {
	if len(n.Items) == 0 {
		return ""
	}
	itemStyle := c.computed("list").StyleOn(c.renderer.lip)
	selectedStyle := itemStyle.Bold(true).Reverse(true)

	lines := make([]string, 0, len(n.Items))
	for i, item := range n.Items {
		label := truncate(item, width-2)
		if i == n.Selected {
			lines = append(lines, "> "+selectedStyle.Render(label))
		} else {
			lines = append(lines, "  "+itemStyle.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func (c *canvas) drawGauge(n view.Gauge, width int) string {
	filled := int(math.Round(n.Ratio * float64(width)))
	if filled < 0 {
		filled = 0
	}
	if filled > width {
		filled = width
	}

	computed := c.computed("gauge")
	fillStyle := c.newStyle()
	if color, ok := computed.Color("foreground"); ok {
		fillStyle = fillStyle.Foreground(color)
	}
	trackStyle := c.newStyle().Faint(true)

	bar := fillStyle.Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))

	if n.Label != "" {
		label := truncate(n.Label, width)
		anchor := (width - ansi.StringWidth(label)) / 2
		if anchor < 0 {
			anchor = 0
		}
		bar = spliceOverlay(bar, []string{c.newStyle().Bold(true).Render(label)}, anchor, 0)
	}
	return bar
}

func (c *canvas) drawButton(n view.Button, x, y int) string {
	drawn := c.computed("button").StyleOn(c.renderer.lip).Render("[ " + n.Label + " ]")
	c.addHitbox(n.ID, x, y, drawn)
	return drawn
}

func (c *canvas) drawTable(n view.Table, width int) string {
	columns := len(n.Header)
	if columns == 0 && len(n.Rows) > 0 {
		columns = len(n.Rows[0])
	}
	if columns == 0 {
		return ""
	}

	const separator = "  "
	widths := make([]int, columns)
	measure := func(row []string) {
		for i, cell := range row {
			if i < columns && ansi.StringWidth(cell) > widths[i] {
				widths[i] = ansi.StringWidth(cell)
			}
		}
	}
	measure(n.Header)
	for _, row := range n.Rows {
		measure(row)
	}

	// Shrink proportionally when the natural widths overflow the
	// budget, with a 3-cell floor per column.
	total := len(separator) * (columns - 1)
	for _, w := range widths {
		total += w
	}
	if total > width {
		usable := width - len(separator)*(columns-1)
		if usable < columns*3 {
			usable = columns * 3
		}
		for i := range widths {
			widths[i] = widths[i] * usable / total
			if widths[i] < 3 {
				widths[i] = 3
			}
		}
	}

	baseStyle := c.computed("table").StyleOn(c.renderer.lip)
	var lines []string

	if len(n.Header) > 0 {
		lines = append(lines, formatRow(n.Header, widths, separator, baseStyle.Bold(true)))
		rule := make([]string, columns)
		for i, w := range widths {
			rule[i] = strings.Repeat("─", w)
		}
		lines = append(lines, c.ruleStyle().Render(strings.Join(rule, separator)))
	}
	for i, row := range n.Rows {
		rowStyle := baseStyle
		if i == n.Selected {
			rowStyle = rowStyle.Reverse(true)
		}
		lines = append(lines, formatRow(row, widths, separator, rowStyle))
	}
	return strings.Join(lines, "\n")
}

func (c *canvas) drawTree(n view.Tree, width int) string {
	if len(n.Rows) == 0 {
		return ""
	}
	rowStyle := c.computed("tree").StyleOn(c.renderer.lip)
	branchStyle := rowStyle.Bold(true)

	lines := make([]string, 0, len(n.Rows))
	for _, row := range n.Rows {
		indent := strings.Repeat("  ", row.Depth)
		marker := "  "
		style := rowStyle
		if row.HasChildren {
			style = branchStyle
			if row.Expanded {
				marker = "▾ "
			} else {
				marker = "▸ "
			}
		}
		label := truncate(row.Label, width-len(indent)-2)
		lines = append(lines, indent+marker+style.Render(label))
	}
	return strings.Join(lines, "\n")
}

func (c *canvas) drawInput(n view.Input, x, y, width int) string {
	computed := c.computed("input")
	valueStyle := c.newStyle()
	if color, ok := computed.Color("foreground"); ok {
		valueStyle = valueStyle.Foreground(color)
	}

	var lines []string
	if n.Label != "" {
		labelStyle := c.newStyle().Bold(n.Focused)
		lines = append(lines, labelStyle.Render(truncate(n.Label, width)))
	}
	lines = append(lines, c.fieldLine(n, valueStyle, width))
	if n.Status != "" {
		class := "muted"
		if n.Invalid {
			class = "error"
		}
		statusStyle := c.computed("input", class).StyleOn(c.renderer.lip)
		lines = append(lines, statusStyle.Render(truncate(n.Status, width)))
	}

	drawn := strings.Join(lines, "\n")
	c.addHitbox(n.ID, x, y, drawn)
	return drawn
}

// fieldLine renders one input's value row: secure masking, a sliding
// window that keeps the cursor visible, the blinking caret as a
// reversed cell, and the placeholder when empty and unfocused.
func (c *canvas) fieldLine(n view.Input, valueStyle lipgloss.Style, width int) string {
	display := n.Value
	if n.Secure {
		display = strings.Repeat("•", utf8.RuneCountInString(n.Value))
	}
	runes := []rune(display)

	if len(runes) == 0 && !n.Focused && n.Placeholder != "" {
		return c.newStyle().Faint(true).Render(truncate(n.Placeholder, width))
	}

	cursor := n.Cursor
	if cursor < 0 {
		cursor = 0
	}
	if cursor > len(runes) {
		cursor = len(runes)
	}

	start := 0
	if cursor >= width {
		start = cursor - width + 1
	}
	end := start + width
	if end > len(runes) {
		end = len(runes)
	}
	visible := runes[start:end]
	caretAt := cursor - start

	if !n.Focused || !n.CaretVisible {
		return valueStyle.Render(string(visible))
	}

	caretRune := " "
	if caretAt < len(visible) {
		caretRune = string(visible[caretAt])
	}
	var out strings.Builder
	out.WriteString(valueStyle.Render(string(visible[:caretAt])))
	out.WriteString(c.newStyle().Reverse(true).Render(caretRune))
	if caretAt < len(visible) {
		out.WriteString(valueStyle.Render(string(visible[caretAt+1:])))
	}
	return out.String()
}

func (c *canvas) drawForm(n view.Form, x, y, width int) string {
	var parts []string
	cursor := y
	if n.Title != "" {
		title := c.newStyle().Bold(true).Render(truncate(n.Title, width))
		parts = append(parts, title)
		cursor += lipgloss.Height(title)
	}
	for _, child := range n.Children {
		if len(parts) > 0 {
			parts = append(parts, "")
			cursor++
		}
		part := c.draw(child, x, cursor, width)
		if part == "" {
			continue
		}
		parts = append(parts, part)
		cursor += lipgloss.Height(part)
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (c *canvas) drawTabs(n view.Tabs, x, y, width int) string {
	activeStyle := c.newStyle().Bold(true).Underline(true)
	if color, ok := c.computed("button").Color("foreground"); ok {
		activeStyle = activeStyle.Foreground(color)
	}
	idleStyle := c.newStyle().Faint(true)

	titles := make([]string, 0, len(n.Titles))
	for i, title := range n.Titles {
		if i == n.Active {
			titles = append(titles, activeStyle.Render(title))
		} else {
			titles = append(titles, idleStyle.Render(title))
		}
	}
	strip := strings.Join(titles, "  ")
	rule := c.ruleStyle().Render(strings.Repeat("─", width))

	body := c.draw(n.Body, x, y+2, width)
	if body == "" {
		return lipgloss.JoinVertical(lipgloss.Left, strip, rule)
	}
	return lipgloss.JoinVertical(lipgloss.Left, strip, rule, body)
}

// modalBox renders the dialog box itself with hitboxes recorded at
// (x, y). Callers center it: a measuring pass sizes the box, then the
// anchor is known and the recording pass runs there.
func (c *canvas) modalBox(n view.Modal, x, y, width int) string {
	computed := c.computed("modal")
	inner := c.draw(n.Body, x+1, y+1, width-2)
	inner = c.fitToTitle(inner, n.Title, width-2)

	boxStyle := c.newStyle().Border(borderNamed(computed, lipgloss.ThickBorder()))
	if color, ok := computed.Color("border_foreground"); ok {
		boxStyle = boxStyle.BorderForeground(color)
	}
	box := boxStyle.Render(inner)

	if n.Title != "" {
		box = c.spliceTitle(box, n.Title, c.newStyle().Bold(true))
	}
	return box
}

// centeredModal sizes the dialog, computes its centered anchor on the
// frame, and draws it there. Returns the box and its anchor.
func (c *canvas) centeredModal(n view.Modal, width int) (box string, anchorX, anchorY int) {
	budget := width - 6
	if budget < 10 {
		budget = 10
	}

	mc := *c
	mc.record = false
	sized := mc.modalBox(n, 0, 0, budget)

	anchorX = (c.width - lipgloss.Width(sized)) / 2
	anchorY = (c.height - lipgloss.Height(sized)) / 2
	if anchorX < 0 {
		anchorX = 0
	}
	if anchorY < 0 {
		anchorY = 0
	}
	return c.modalBox(n, anchorX, anchorY, budget), anchorX, anchorY
}

func (c *canvas) drawStandaloneModal(n view.Modal, width int) string {
	box, anchorX, anchorY := c.centeredModal(n, width)
	base := ""
	if c.height > 1 {
		base = strings.Repeat("\n", c.height-1)
	}
	return spliceOverlay(base, strings.Split(box, "\n"), anchorX, anchorY)
}

func (c *canvas) drawLayers(n view.Layers, x, y, width int) string {
	frame := c.draw(n.Base, x, y, width)
	for _, overlay := range n.Overlays {
		switch o := overlay.(type) {
		case view.Modal:
			box, anchorX, anchorY := c.centeredModal(o, width)
			frame = spliceOverlay(frame, strings.Split(box, "\n"), anchorX, anchorY)
		case view.ToastStack:
			block := c.drawToasts(o, width-2)
			if block == "" {
				continue
			}
			anchorX := c.width - lipgloss.Width(block) - 1
			anchorY := c.height - lipgloss.Height(block) - 1
			if anchorX < 0 {
				anchorX = 0
			}
			if anchorY < 0 {
				anchorY = 0
			}
			frame = spliceOverlay(frame, strings.Split(block, "\n"), anchorX, anchorY)
		default:
			mc := *c
			mc.record = false
			sized := mc.draw(overlay, 0, 0, width)
			if sized == "" {
				continue
			}
			anchorX := (c.width - lipgloss.Width(sized)) / 2
			anchorY := (c.height - lipgloss.Height(sized)) / 2
			if anchorX < 0 {
				anchorX = 0
			}
			if anchorY < 0 {
				anchorY = 0
			}
			placed := c.draw(overlay, anchorX, anchorY, width)
			frame = spliceOverlay(frame, strings.Split(placed, "\n"), anchorX, anchorY)
		}
	}
	return frame
}

func (c *canvas) drawToasts(n view.ToastStack, width int) string {
	if len(n.Toasts) == 0 {
		return ""
	}
	lines := make([]string, 0, len(n.Toasts))
	for _, toast := range n.Toasts {
		var classes []string
		switch toast.Level {
		case view.ToastWarn:
			classes = append(classes, "warn")
		case view.ToastError:
			classes = append(classes, "error")
		}
		toastStyle := c.computed("toast", classes...).StyleOn(c.renderer.lip)
		lines = append(lines, toastStyle.Render(" "+truncate(toast.Text, width-2)+" "))
	}
	return lipgloss.JoinVertical(lipgloss.Right, lines...)
}

func (c *canvas) drawStyled(n view.Styled, x, y, width int) string {
	sub := *c
	if n.ID != "" {
		sub.styleID = n.ID
	}
	if len(n.Classes) > 0 {
		sub.classes = append(append([]string{}, c.classes...), n.Classes...)
	}
	return sub.draw(n.Child, x, y, width)
}

// ruleStyle colors separators and rules with the block border color.
func (c *canvas) ruleStyle() lipgloss.Style {
	style := c.newStyle()
	if color, ok := c.computed("block").Color("border_foreground"); ok {
		style = style.Foreground(color)
	}
	return style
}

func borderNamed(computed style.Computed, fallback lipgloss.Border) lipgloss.Border {
	name, _ := computed.String("border")
	switch name {
	case "normal":
		return lipgloss.NormalBorder()
	case "rounded":
		return lipgloss.RoundedBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	case "hidden":
		return lipgloss.HiddenBorder()
	}
	return fallback
}

func formatRow(cells []string, widths []int, separator string, rowStyle lipgloss.Style) string {
	parts := make([]string, len(widths))
	for i, w := range widths {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		cell = truncate(cell, w)
		if padding := w - ansi.StringWidth(cell); padding > 0 {
			cell += strings.Repeat(" ", padding)
		}
		parts[i] = cell
	}
	return rowStyle.Render(strings.Join(parts, separator))
}

func truncate(s string, width int) string {
	if width < 1 {
		width = 1
	}
	if ansi.StringWidth(s) <= width {
		return s
	}
	return ansi.Truncate(s, width, "…")
}
