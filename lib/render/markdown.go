// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/bureau-foundation/loom/lib/view"
)

// The parser configuration never changes and goldmark parsers are
// safe to share; parsing allocates per-call state internally.
var (
	markdownParser     goldmark.Markdown
	markdownParserOnce sync.Once
)

func getMarkdownParser() goldmark.Markdown {
	markdownParserOnce.Do(func() {
		markdownParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return markdownParser
}

// markdownPalette carries the stylesheet-derived styles the walker
// paints with.
type markdownPalette struct {
	normal  lipgloss.Style
	faint   lipgloss.Style
	heading lipgloss.Style
	rule    lipgloss.Style
}

func (c *canvas) markdownPalette() markdownPalette {
	normal := c.newStyle()
	if color, ok := c.computed("markdown").Color("foreground"); ok {
		normal = normal.Foreground(color)
	}
	heading := c.newStyle().Bold(true)
	if color, ok := c.computed("button").Color("foreground"); ok {
		heading = heading.Foreground(color)
	}
	return markdownPalette{
		normal:  normal,
		faint:   c.newStyle().Faint(true),
		heading: heading,
		rule:    c.ruleStyle(),
	}
}

func (c *canvas) drawMarkdown(n view.Markdown, width int) string {
	if strings.TrimSpace(n.Source) == "" {
		return ""
	}
	walker := &markdownWalker{
		source:  []byte(n.Source),
		width:   width,
		palette: c.markdownPalette(),
	}
	document := getMarkdownParser().Parser().Parse(text.NewReader(walker.source))
	ast.Walk(document, walker.walk)
	return strings.Trim(walker.output.String(), "\n")
}

// markdownWalker renders a goldmark AST as styled terminal text. It
// walks the tree directly instead of implementing goldmark's renderer
// interface because terminal output needs accumulate-then-wrap
// semantics: a paragraph's inline content collects in a buffer and is
// word-wrapped as a unit when the paragraph closes.
type markdownWalker struct {
	source  []byte
	width   int
	palette markdownPalette

	output strings.Builder
	inline strings.Builder

	// Prefix stack for nested containers (blockquotes, list items).
	// pendingBullet replaces the prefix for the first line of a list
	// item, then clears.
	prefixStack     []markdownPrefix
	linePrefix      string
	linePrefixWidth int
	pendingBullet   string

	// Counters rather than booleans so nested emphasis unwinds
	// correctly.
	boldCount   int
	italicCount int
	strikeCount int

	listStack []markdownList

	trailingNewlines int
}

type markdownPrefix struct {
	text  string
	width int
}

type markdownList struct {
	ordered bool
	counter int
	tight   bool
}

func (w *markdownWalker) currentWidth() int {
	width := w.width - w.linePrefixWidth
	if width < 10 {
		width = 10
	}
	return width
}

func (w *markdownWalker) pushPrefix(text string, width int) {
	w.prefixStack = append(w.prefixStack, markdownPrefix{text: text, width: width})
	w.linePrefix += text
	w.linePrefixWidth += width
}

func (w *markdownWalker) popPrefix() {
	if len(w.prefixStack) == 0 {
		return
	}
	top := w.prefixStack[len(w.prefixStack)-1]
	w.prefixStack = w.prefixStack[:len(w.prefixStack)-1]
	w.linePrefix = w.linePrefix[:len(w.linePrefix)-len(top.text)]
	w.linePrefixWidth -= top.width
}

func (w *markdownWalker) inTightList() bool {
	return len(w.listStack) > 0 && w.listStack[len(w.listStack)-1].tight
}

func (w *markdownWalker) writeOutput(s string) {
	if s == "" {
		return
	}
	w.output.WriteString(s)

	trailing := 0
	allNewlines := true
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '\n' {
			trailing++
		} else {
			allNewlines = false
			break
		}
	}
	if allNewlines {
		w.trailingNewlines += trailing
	} else {
		w.trailingNewlines = trailing
	}
}

func (w *markdownWalker) ensureNewline() {
	if w.trailingNewlines < 1 {
		w.writeOutput("\n")
	}
}

func (w *markdownWalker) ensureBlankLine() {
	for w.trailingNewlines < 2 {
		w.writeOutput("\n")
	}
}

// consumeLinePrefix returns the pending bullet for the first line of
// a list item, the regular prefix otherwise.
func (w *markdownWalker) consumeLinePrefix() string {
	if w.pendingBullet != "" {
		bullet := w.pendingBullet
		w.pendingBullet = ""
		return bullet
	}
	return w.linePrefix
}

func (w *markdownWalker) applyPrefixes(content string) string {
	lines := strings.Split(content, "\n")
	var result strings.Builder
	for i, line := range lines {
		if i == 0 {
			result.WriteString(w.consumeLinePrefix())
		} else {
			result.WriteString(w.linePrefix)
		}
		result.WriteString(line)
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// flushInline word-wraps the accumulated inline content to the
// current width and applies line prefixes.
func (w *markdownWalker) flushInline() string {
	content := w.inline.String()
	w.inline.Reset()
	if content == "" {
		return ""
	}
	return w.applyPrefixes(ansi.Wrap(content, w.currentWidth(), " ,.;-+|"))
}

func (w *markdownWalker) styledText(content string) string {
	style := w.palette.normal
	if w.boldCount > 0 {
		style = style.Bold(true)
	}
	if w.italicCount > 0 {
		style = style.Italic(true)
	}
	if w.strikeCount > 0 {
		style = style.Strikethrough(true)
	}
	return style.Render(content)
}

// inlineContent renders a node's children to a string, saving and
// restoring the inline buffer and style counters around the nested
// walk.
func (w *markdownWalker) inlineContent(node ast.Node) string {
	savedInline := w.inline.String()
	savedBold, savedItalic, savedStrike := w.boldCount, w.italicCount, w.strikeCount

	w.inline.Reset()
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		ast.Walk(child, w.walk)
	}
	result := w.inline.String()

	w.inline.Reset()
	w.inline.WriteString(savedInline)
	w.boldCount, w.italicCount, w.strikeCount = savedBold, savedItalic, savedStrike
	return result
}

// highlight syntax-highlights code with chroma, falling back to faint
// plain text for unknown languages.
func (w *markdownWalker) highlight(code, language string) string {
	if language == "" {
		return w.palette.faint.Render(code)
	}
	var buffer strings.Builder
	if err := quick.Highlight(&buffer, code, language, "terminal256", "monokai"); err != nil {
		return w.palette.faint.Render(code)
	}
	return buffer.String()
}

func (w *markdownWalker) walk(node ast.Node, entering bool) (ast.WalkStatus, error) {
	switch node.Kind() {
	case ast.KindDocument:

	case ast.KindParagraph, ast.KindTextBlock:
		if entering {
			w.inline.Reset()
		} else if flushed := w.flushInline(); flushed != "" {
			w.writeOutput(flushed)
			w.ensureNewline()
			if !w.inTightList() {
				w.ensureBlankLine()
			}
		}

	case ast.KindHeading:
		if entering {
			w.inline.Reset()
		} else {
			w.leaveHeading(node.(*ast.Heading))
		}

	case ast.KindFencedCodeBlock:
		if entering {
			block := node.(*ast.FencedCodeBlock)
			w.writeCodeLines(w.highlight(w.blockText(block), string(block.Language(w.source))))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindCodeBlock:
		if entering {
			w.writeCodeLines(w.palette.faint.Render(w.blockText(node)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindBlockquote:
		if entering {
			w.pushPrefix("│ ", 2)
		} else {
			w.popPrefix()
			w.ensureBlankLine()
		}

	case ast.KindList:
		if entering {
			list := node.(*ast.List)
			start := 0
			if list.IsOrdered() {
				start = list.Start
			}
			w.listStack = append(w.listStack, markdownList{
				ordered: list.IsOrdered(),
				counter: start,
				tight:   list.IsTight,
			})
		} else {
			if len(w.listStack) > 0 {
				w.listStack = w.listStack[:len(w.listStack)-1]
			}
			if !w.inTightList() {
				w.ensureBlankLine()
			}
		}

	case ast.KindListItem:
		if entering {
			w.enterListItem()
		} else {
			w.popPrefix()
			if w.inTightList() {
				w.ensureNewline()
			} else {
				w.ensureBlankLine()
			}
		}

	case ast.KindThematicBreak:
		if entering {
			rule := w.palette.rule.Render(strings.Repeat("─", w.currentWidth()))
			w.ensureBlankLine()
			w.writeOutput(w.applyPrefixes(rule))
			w.ensureNewline()
			w.ensureBlankLine()
		}

	case ast.KindText:
		if entering {
			textNode := node.(*ast.Text)
			w.inline.WriteString(w.styledText(string(textNode.Segment.Value(w.source))))
			if textNode.SoftLineBreak() {
				// Soft breaks become spaces so hard-wrapped source
				// reflows at the terminal's width.
				w.inline.WriteString(" ")
			}
			if textNode.HardLineBreak() {
				w.inline.WriteString("\n")
			}
		}

	case ast.KindString:
		if entering {
			w.inline.WriteString(w.styledText(string(node.(*ast.String).Value)))
		}

	case ast.KindEmphasis:
		emphasis := node.(*ast.Emphasis)
		delta := 1
		if !entering {
			delta = -1
		}
		if emphasis.Level >= 2 {
			w.boldCount += delta
		} else {
			w.italicCount += delta
		}

	case ast.KindCodeSpan:
		if entering {
			w.inline.WriteString(w.palette.faint.Render(w.codeSpanText(node)))
			return ast.WalkSkipChildren, nil
		}

	case ast.KindLink:
		if entering {
			link := node.(*ast.Link)
			w.inline.WriteString(w.inlineContent(link))
			if url := string(link.Destination); url != "" {
				w.inline.WriteString(" " + w.palette.faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case ast.KindAutoLink:
		if entering {
			w.inline.WriteString(w.palette.faint.Render(string(node.(*ast.AutoLink).URL(w.source))))
		}

	case ast.KindImage:
		if entering {
			image := node.(*ast.Image)
			w.inline.WriteString(w.palette.faint.Render("[" + w.inlineContent(image) + "]"))
			if url := string(image.Destination); url != "" {
				w.inline.WriteString(" " + w.palette.faint.Render("("+url+")"))
			}
			return ast.WalkSkipChildren, nil
		}

	case extast.KindStrikethrough:
		if entering {
			w.strikeCount++
		} else {
			w.strikeCount--
		}

	case extast.KindTable:
		if entering {
			w.renderTable(node.(*extast.Table))
			return ast.WalkSkipChildren, nil
		}

	case extast.KindTaskCheckBox:
		if entering {
			if node.(*extast.TaskCheckBox).IsChecked {
				w.inline.WriteString(w.palette.heading.Render("[x]") + " ")
			} else {
				w.inline.WriteString(w.styledText("[ ] "))
			}
		}
	}

	return ast.WalkContinue, nil
}

func (w *markdownWalker) leaveHeading(heading *ast.Heading) {
	// Headings restyle their whole line, so strip whatever inline
	// styling the children produced.
	content := ansi.Strip(w.inline.String())
	w.inline.Reset()
	if content == "" {
		return
	}

	style := w.palette.heading
	if heading.Level > 2 {
		style = w.palette.normal.Bold(true)
	}
	wrapped := ansi.Wrap(style.Render(content), w.currentWidth(), " ,.;-+|")
	w.ensureBlankLine()
	w.writeOutput(w.applyPrefixes(wrapped))
	w.ensureNewline()
	w.ensureBlankLine()
}

// blockText joins a code block's line segments.
func (w *markdownWalker) blockText(node ast.Node) string {
	var code strings.Builder
	lines := node.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		code.Write(segment.Value(w.source))
	}
	return code.String()
}

func (w *markdownWalker) writeCodeLines(highlighted string) {
	w.ensureBlankLine()
	for _, line := range strings.Split(strings.TrimRight(highlighted, "\n"), "\n") {
		w.writeOutput(w.consumeLinePrefix() + line)
		w.ensureNewline()
	}
	w.ensureBlankLine()
}

func (w *markdownWalker) codeSpanText(node ast.Node) string {
	var code strings.Builder
	for child := node.FirstChild(); child != nil; child = child.NextSibling() {
		switch segment := child.(type) {
		case *ast.Text:
			code.Write(segment.Segment.Value(w.source))
		case *ast.String:
			code.Write(segment.Value)
		}
	}
	return code.String()
}

func (w *markdownWalker) renderTable(table *extast.Table) {
	var header []string
	var rows [][]string
	for child := table.FirstChild(); child != nil; child = child.NextSibling() {
		var cells []string
		for cell := child.FirstChild(); cell != nil; cell = cell.NextSibling() {
			if cell.Kind() == extast.KindTableCell {
				cells = append(cells, w.inlineContent(cell))
			}
		}
		switch child.Kind() {
		case extast.KindTableHeader:
			header = cells
		case extast.KindTableRow:
			rows = append(rows, cells)
		}
	}

	columns := len(header)
	if columns == 0 && len(rows) > 0 {
		columns = len(rows[0])
	}
	if columns == 0 {
		return
	}

	widths := make([]int, columns)
	measure := func(cells []string) {
		for i, cell := range cells {
			if i < columns && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}
	measure(header)
	for _, row := range rows {
		measure(row)
	}

	const separator = "  "
	emit := func(cells []string) {
		parts := make([]string, columns)
		for i := range parts {
			var cell string
			if i < len(cells) {
				cell = cells[i]
			}
			if padding := widths[i] - lipgloss.Width(cell); padding > 0 {
				cell += strings.Repeat(" ", padding)
			}
			parts[i] = cell
		}
		line := truncate(strings.Join(parts, separator), w.currentWidth())
		w.writeOutput(w.consumeLinePrefix() + line)
		w.ensureNewline()
	}

	w.ensureBlankLine()
	if len(header) > 0 {
		// Header cells carry their own inline styling; mark them with
		// a rule beneath instead of restyling the text.
		emit(header)
		rule := make([]string, columns)
		for i, width := range widths {
			rule[i] = strings.Repeat("─", width)
		}
		w.writeOutput(w.linePrefix + w.palette.rule.Render(strings.Join(rule, separator)))
		w.ensureNewline()
	}
	for _, row := range rows {
		emit(row)
	}
	w.ensureBlankLine()
}

func (w *markdownWalker) enterListItem() {
	if len(w.listStack) == 0 {
		return
	}
	top := &w.listStack[len(w.listStack)-1]

	var bullet string
	if top.ordered {
		bullet = fmt.Sprintf("%d. ", top.counter)
		top.counter++
	} else {
		bullet = "- "
	}

	// ASCII bullets, so byte length is visual width.
	width := len(bullet)
	w.pendingBullet = w.linePrefix + bullet
	w.pushPrefix(strings.Repeat(" ", width), width)
}
