// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"

	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/view"
)

func testRenderer(t *testing.T) (*Renderer, *interaction.Registry) {
	t.Helper()
	hits := interaction.NewRegistry()
	return New(style.DefaultDark(), hits, nil), hits
}

// frameLines strips ANSI and splits into lines with trailing padding
// removed, which is how most layout assertions want to see a frame.
func frameLines(frame string) []string {
	lines := strings.Split(ansi.Strip(frame), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " ")
	}
	return lines
}

// findHitbox scans every cell for the first one resolving to id.
func findHitbox(hits *interaction.Registry, width, height int, id string) (int, int, bool) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if got, ok := hits.Lookup(x, y); ok && got == id {
				return x, y, true
			}
		}
	}
	return 0, 0, false
}

func TestTextWrapsToWidth(t *testing.T) {
	r, _ := testRenderer(t)
	r.SetSize(12, 24)

	lines := frameLines(r.Frame(view.Text{Content: "alpha beta gamma delta"}))
	if len(lines) < 2 {
		t.Fatalf("expected wrapped output, got %q", lines)
	}
	for _, line := range lines {
		if ansi.StringWidth(line) > 12 {
			t.Errorf("line %q exceeds width 12", line)
		}
	}
	joined := strings.Join(lines, " ")
	for _, word := range []string{"alpha", "beta", "gamma", "delta"} {
		if !strings.Contains(joined, word) {
			t.Errorf("wrapped output lost %q", word)
		}
	}
}

func TestFlexVerticalGap(t *testing.T) {
	r, _ := testRenderer(t)
	lines := frameLines(r.Frame(view.Flex{
		Direction: view.Vertical,
		Gap:       1,
		Children:  []view.Node{view.Text{Content: "top"}, view.Text{Content: "bottom"}},
	}))
	want := []string{"top", "", "bottom"}
	if len(lines) != len(want) {
		t.Fatalf("lines = %q, want %q", lines, want)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestFlexHorizontalHitboxes(t *testing.T) {
	r, hits := testRenderer(t)
	r.Frame(view.Flex{
		Direction: view.Horizontal,
		Gap:       2,
		Children: []view.Node{
			view.Button{ID: "left", Label: "L"},
			view.Button{ID: "right", Label: "R"},
		},
	})

	// "[ L ]" occupies columns 0-4, the gap 5-6, "[ R ]" 7-11.
	if id, ok := hits.Lookup(1, 0); !ok || id != "left" {
		t.Errorf("Lookup(1,0) = %q, %v", id, ok)
	}
	if id, ok := hits.Lookup(7, 0); !ok || id != "right" {
		t.Errorf("Lookup(7,0) = %q, %v", id, ok)
	}
	if _, ok := hits.Lookup(5, 0); ok {
		t.Error("gap cell resolved to a hitbox")
	}
}

func TestBlockBorderAndTitle(t *testing.T) {
	r, _ := testRenderer(t)
	r.SetSize(24, 24)
	lines := frameLines(r.Frame(view.Block{Title: "Info", Child: view.Text{Content: "hi"}}))

	if len(lines) != 3 {
		t.Fatalf("bordered block lines = %d, want 3", len(lines))
	}
	if !strings.Contains(lines[0], "Info") {
		t.Errorf("top border %q misses the title", lines[0])
	}
	if !strings.HasPrefix(lines[0], "╭") {
		t.Errorf("top border %q misses the rounded corner", lines[0])
	}
	if !strings.Contains(lines[1], "hi") || !strings.HasPrefix(lines[1], "│") {
		t.Errorf("body line %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "╰") {
		t.Errorf("bottom border %q", lines[2])
	}
}

func TestGaugeFill(t *testing.T) {
	r, _ := testRenderer(t)
	r.SetSize(10, 24)

	bar := ansi.Strip(r.Frame(view.Gauge{Ratio: 0.5}))
	if filled := strings.Count(bar, "█"); filled != 5 {
		t.Errorf("filled cells = %d, want 5", filled)
	}
	if track := strings.Count(bar, "░"); track != 5 {
		t.Errorf("track cells = %d, want 5", track)
	}

	labeled := ansi.Strip(r.Frame(view.Gauge{Ratio: 0.5, Label: "50%"}))
	if !strings.Contains(labeled, "50%") {
		t.Errorf("labeled gauge %q misses the label", labeled)
	}
}

func TestListSelection(t *testing.T) {
	r, _ := testRenderer(t)
	lines := frameLines(r.Frame(view.List{Items: []string{"alpha", "beta", "gamma"}, Selected: 1}))
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if lines[0] != "  alpha" || lines[2] != "  gamma" {
		t.Errorf("unselected rows = %q, %q", lines[0], lines[2])
	}
	if lines[1] != "> beta" {
		t.Errorf("selected row = %q, want \"> beta\"", lines[1])
	}
}

func TestTableColumnsAlign(t *testing.T) {
	r, _ := testRenderer(t)
	lines := frameLines(r.Frame(view.Table{
		Header:   []string{"NAME", "STATE"},
		Rows:     [][]string{{"api", "up"}, {"db", "down"}},
		Selected: 1,
	}))
	if len(lines) != 4 {
		t.Fatalf("lines = %q", lines)
	}

	// NAME column is 4 wide, so STATE and its cells start at column 6.
	if got := strings.Index(lines[0], "STATE"); got != 6 {
		t.Errorf("STATE at column %d, want 6", got)
	}
	if got := strings.Index(lines[2], "up"); got != 6 {
		t.Errorf("up at column %d, want 6", got)
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("separator line = %q", lines[1])
	}
	if !strings.Contains(lines[3], "down") {
		t.Errorf("selected row = %q", lines[3])
	}
}

func TestTreeMarkers(t *testing.T) {
	r, _ := testRenderer(t)
	lines := frameLines(r.Frame(view.Tree{Rows: []view.TreeRow{
		{Label: "root", Depth: 0, HasChildren: true, Expanded: true},
		{Label: "svc", Depth: 1},
		{Label: "other", Depth: 0, HasChildren: true, Expanded: false},
	}}))
	if lines[0] != "▾ root" {
		t.Errorf("expanded row = %q", lines[0])
	}
	if lines[1] != "    svc" {
		t.Errorf("leaf row = %q", lines[1])
	}
	if lines[2] != "▸ other" {
		t.Errorf("collapsed row = %q", lines[2])
	}
}

func TestInputFieldStates(t *testing.T) {
	r, hits := testRenderer(t)

	idle := view.Input{ID: "name", Label: "Name", Placeholder: "your name"}
	if got := ansi.Strip(r.Frame(idle)); !strings.Contains(got, "your name") {
		t.Errorf("idle input %q misses placeholder", got)
	}

	focused := view.Input{ID: "name", Label: "Name", Value: "hello", Cursor: 2, Focused: true, CaretVisible: true}
	withCaret := r.Frame(focused)
	if got := ansi.Strip(withCaret); !strings.Contains(got, "hello") {
		t.Errorf("focused input %q misses value", got)
	}
	if !strings.Contains(withCaret, "\x1b[7m") {
		t.Error("visible caret emitted no reverse-video cell")
	}
	if _, ok := hits.Lookup(1, 1); !ok {
		t.Error("input field recorded no hitbox")
	}

	focused.CaretVisible = false
	if r.Frame(focused) == withCaret {
		t.Error("caret blink produced identical frames")
	}

	secure := view.Input{ID: "pw", Value: "secret", Secure: true}
	got := ansi.Strip(r.Frame(secure))
	if strings.Contains(got, "secret") {
		t.Errorf("secure input %q leaked its value", got)
	}
	if !strings.Contains(got, "••••••") {
		t.Errorf("secure input %q is not masked", got)
	}

	invalid := view.Input{ID: "mail", Value: "nope", Status: "invalid address", Invalid: true}
	if got := ansi.Strip(r.Frame(invalid)); !strings.Contains(got, "invalid address") {
		t.Errorf("invalid input %q misses status", got)
	}
}

func TestTabsStrip(t *testing.T) {
	r, _ := testRenderer(t)
	r.SetSize(30, 24)
	lines := frameLines(r.Frame(view.Tabs{
		Titles: []string{"One", "Two"},
		Active: 0,
		Body:   view.Text{Content: "body"},
	}))
	if len(lines) != 3 {
		t.Fatalf("lines = %q", lines)
	}
	if !strings.Contains(lines[0], "One") || !strings.Contains(lines[0], "Two") {
		t.Errorf("strip = %q", lines[0])
	}
	if !strings.Contains(lines[1], "─") {
		t.Errorf("rule = %q", lines[1])
	}
	if lines[2] != "body" {
		t.Errorf("body = %q", lines[2])
	}
}

func TestModalOverlaysAndStaysClickable(t *testing.T) {
	r, hits := testRenderer(t)
	r.SetSize(40, 12)

	frame := r.Frame(view.Layers{
		Base: view.Text{Content: strings.Repeat("base ", 30)},
		Overlays: []view.Node{
			view.Modal{Title: "Confirm", Body: view.Button{ID: "ok", Label: "OK"}},
		},
	})

	stripped := ansi.Strip(frame)
	if !strings.Contains(stripped, "Confirm") || !strings.Contains(stripped, "[ OK ]") {
		t.Fatalf("modal content missing from frame:\n%s", stripped)
	}
	if !strings.Contains(stripped, "base") {
		t.Error("base tree vanished beneath the overlay")
	}

	x, y, ok := findHitbox(hits, 40, 12, "ok")
	if !ok {
		t.Fatal("modal button recorded no hitbox")
	}
	if x == 0 && y == 0 {
		t.Error("modal button hitbox sits at the frame origin, not centered")
	}
}

func TestToastsAnchorBottomRight(t *testing.T) {
	r, _ := testRenderer(t)
	r.SetSize(30, 8)

	frame := r.Frame(view.Layers{
		Base:     view.Text{Content: "top"},
		Overlays: []view.Node{view.ToastStack{Toasts: []view.Toast{{Text: "saved", Level: view.ToastInfo}}}},
	})
	lines := frameLines(frame)
	if len(lines) < 7 {
		t.Fatalf("frame too short for a bottom anchor: %d lines", len(lines))
	}
	toastLine := lines[6]
	if !strings.Contains(toastLine, "saved") {
		t.Fatalf("toast line = %q", toastLine)
	}
	if col := strings.Index(toastLine, "saved"); col < 20 {
		t.Errorf("toast at column %d, want right-aligned", col)
	}
}

func TestStyledClassRestyles(t *testing.T) {
	sheet, err := style.Parse([]byte(`{ ".alert": { "bold": true } }`))
	if err != nil {
		t.Fatal(err)
	}
	r := New(sheet, interaction.NewRegistry(), nil)

	plain := r.Frame(view.Text{Content: "ping"})
	styled := r.Frame(view.Styled{Classes: []string{"alert"}, Child: view.Text{Content: "ping"}})
	if plain == styled {
		t.Fatal("class styling changed nothing")
	}
	if !strings.Contains(styled, "\x1b[1m") {
		t.Error("bold class emitted no bold sequence")
	}
}

func TestHitboxesRewrittenEachFrame(t *testing.T) {
	r, hits := testRenderer(t)

	r.Frame(view.Button{ID: "go", Label: "Go"})
	if _, ok := hits.Lookup(1, 0); !ok {
		t.Fatal("first frame recorded no hitbox")
	}

	r.Frame(view.Flex{Direction: view.Vertical, Children: []view.Node{
		view.Text{Content: "header"},
		view.Button{ID: "go", Label: "Go"},
	}})
	if id, ok := hits.Lookup(1, 0); ok {
		t.Errorf("stale hitbox %q survived at the old position", id)
	}
	if id, ok := hits.Lookup(1, 1); !ok || id != "go" {
		t.Errorf("Lookup(1,1) = %q, %v", id, ok)
	}
}

func TestRenderDeliversToPresenter(t *testing.T) {
	var presented []string
	r := New(style.DefaultDark(), interaction.NewRegistry(), func(frame string) error {
		presented = append(presented, frame)
		return nil
	})
	if err := r.Render(view.Text{Content: "hi"}); err != nil {
		t.Fatal(err)
	}
	if len(presented) != 1 || !strings.Contains(ansi.Strip(presented[0]), "hi") {
		t.Errorf("presented = %q", presented)
	}
}
