// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/element"
	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/render"
	"github.com/bureau-foundation/loom/lib/runtime"
	"github.com/bureau-foundation/loom/lib/style"
)

// dashboardHarness runs the dashboard headlessly: posted events play
// the part of the terminal and every rendered frame arrives on a
// channel. The fake clock never advances, so no ticks fire and frames
// appear only in response to posted events.
type dashboardHarness struct {
	driver *runtime.HeadlessDriver
	app    *runtime.App
	frames chan string
	done   chan error
}

func startDashboard(t *testing.T) *dashboardHarness {
	t.Helper()
	clk := clock.Fake(time.Unix(1700000000, 0))
	driver := runtime.NewHeadlessDriver(clk)
	frames := make(chan string, 256)

	cfg := DefaultConfig()
	sheet := style.DefaultDark()

	var app *runtime.App
	root := element.Provide(
		Theme{Name: "dark"},
		Dashboard(cfg, runtime.DefaultTickInterval, func() { app.Stop() }),
	)
	app = runtime.NewApp(root,
		runtime.WithDriver(driver),
		runtime.WithStyles(sheet),
		runtime.WithClock(clk),
	)
	renderer := render.New(sheet, app.Hitboxes(), func(frame string) error {
		select {
		case frames <- frame:
		default:
		}
		return nil
	})
	app.SetRenderer(renderer)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	return &dashboardHarness{driver: driver, app: app, frames: frames, done: done}
}

func (h *dashboardHarness) stop(t *testing.T) {
	t.Helper()
	h.driver.Post(event.Interrupt{})
	h.wait(t)
}

func (h *dashboardHarness) wait(t *testing.T) {
	t.Helper()
	select {
	case err := <-h.done:
		if err != nil {
			t.Fatalf("app run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
}

func (h *dashboardHarness) press(keyType tea.KeyType) {
	h.driver.Post(event.Key{Key: tea.Key{Type: keyType}})
}

func (h *dashboardHarness) typeText(text string) {
	for _, character := range text {
		h.driver.Post(event.Key{Key: tea.Key{Type: tea.KeyRunes, Runes: []rune{character}}})
	}
}

// click presses the left button on a hitbox. The registry rebuilds
// during renders, so callers await the previous interaction's frame
// before clicking again.
func (h *dashboardHarness) click(t *testing.T, id string) {
	t.Helper()
	column, row := h.findHitbox(t, id)
	h.driver.Post(event.Mouse{MouseEvent: tea.MouseEvent{
		X:      column,
		Y:      row,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonLeft,
	}})
}

func (h *dashboardHarness) findHitbox(t *testing.T, id string) (int, int) {
	t.Helper()
	hits := h.app.Hitboxes()
	for row := 0; row < render.DefaultHeight*2; row++ {
		for column := 0; column < render.DefaultWidth; column++ {
			if got, ok := hits.Lookup(column, row); ok && got == id {
				return column, row
			}
		}
	}
	t.Fatalf("no hitbox recorded for %q", id)
	return 0, 0
}

// awaitFrame consumes frames until one matches, failing after a
// deadline. Frames that precede the awaited change are expected;
// render coalescing means the matching change may share a frame with
// later ones.
func (h *dashboardHarness) awaitFrame(t *testing.T, describe string, match func(string) bool) string {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case frame := <-h.frames:
			if match(frame) {
				return frame
			}
		case <-deadline:
			t.Fatalf("no frame matched: %s", describe)
		}
	}
}

func contains(parts ...string) func(string) bool {
	return func(frame string) bool {
		for _, part := range parts {
			if !strings.Contains(frame, part) {
				return false
			}
		}
		return true
	}
}

func TestDashboardInitialFrame(t *testing.T) {
	h := startDashboard(t)
	h.awaitFrame(t, "overview with header, gauge, and buttons",
		contains("loom dashboard", "theme dark", "Overview", "0/20", "[ +1 ]"))
	h.stop(t)
}

func TestDashboardFilterFlow(t *testing.T) {
	h := startDashboard(t)
	h.awaitFrame(t, "initial overview", contains("0/20"))

	h.press(tea.KeyRight)
	h.awaitFrame(t, "services tab with the full fleet",
		contains("Filter", "gateway", "notifier"))

	h.press(tea.KeyTab)
	h.typeText("gate")
	h.awaitFrame(t, "table narrowed to the fuzzy match", func(frame string) bool {
		return strings.Contains(frame, "gateway") && !strings.Contains(frame, "notifier")
	})

	// Esc blurs the filter, which frees q to quit.
	h.press(tea.KeyEsc)
	h.typeText("q")
	h.wait(t)
}

func TestDashboardCounterModalToast(t *testing.T) {
	h := startDashboard(t)
	h.awaitFrame(t, "initial overview", contains("0/20"))

	h.click(t, "counter-inc")
	h.awaitFrame(t, "counter at one", contains("1/20"))
	h.click(t, "counter-inc")
	h.awaitFrame(t, "counter at two", contains("2/20"))

	h.click(t, "counter-reset")
	h.awaitFrame(t, "confirmation modal",
		contains("Reset counter", "Drop the counter from 2 to zero?"))

	h.click(t, "reset-confirm")
	h.awaitFrame(t, "reset applied with a toast", contains("0/20", "counter reset"))
	h.stop(t)
}

func TestDashboardFeedbackSubmit(t *testing.T) {
	h := startDashboard(t)
	h.awaitFrame(t, "initial overview", contains("0/20"))

	h.typeText("4")
	h.awaitFrame(t, "feedback form",
		contains("Feedback", "Name", "Email", "Access token", "[ Send ]"))

	h.press(tea.KeyTab)
	h.typeText("Ada")
	h.press(tea.KeyTab)
	h.typeText("ada@example.org")
	h.press(tea.KeyTab)
	h.typeText("secrets123")
	h.awaitFrame(t, "validated masked token", func(frame string) bool {
		return strings.Contains(frame, "looks good") &&
			strings.Contains(frame, strings.Repeat("•", 10)) &&
			!strings.Contains(frame, "secrets123")
	})

	h.press(tea.KeyEnter)
	h.awaitFrame(t, "submission toast and cleared form",
		contains("feedback sent, thanks Ada", "who are you"))
	h.stop(t)
}
