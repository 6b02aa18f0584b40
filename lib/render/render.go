// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/view"
)

// Default frame size before the first resize arrives.
const (
	DefaultWidth  = 80
	DefaultHeight = 24
)

// Presenter delivers a finished frame to the screen. The terminal
// driver supplies one; tests capture frames with a function of their
// own.
type Presenter func(frame string) error

// Renderer draws view trees into styled frame strings and records
// button and text-field hitboxes as it lays out.
type Renderer struct {
	sheet    *style.Sheet
	hitboxes *interaction.Registry
	present  Presenter

	// Profile pinned to ANSI256: termenv detection reports Ascii
	// whenever the output is not a TTY, which is every test run.
	lip *lipgloss.Renderer

	mu     sync.Mutex
	width  int
	height int
}

// New returns a renderer drawing at the default size until SetSize is
// called. present may be nil, in which case Render only records
// hitboxes and discards the frame; Frame always returns it.
func New(sheet *style.Sheet, hitboxes *interaction.Registry, present Presenter) *Renderer {
	lip := lipgloss.NewRenderer(os.Stderr, termenv.WithProfile(termenv.ANSI256))
	lip.SetColorProfile(termenv.ANSI256)
	return &Renderer{
		sheet:    sheet,
		hitboxes: hitboxes,
		present:  present,
		lip:      lip,
		width:    DefaultWidth,
		height:   DefaultHeight,
	}
}

// SetSize updates the frame dimensions. The terminal driver calls
// this before posting the resize event, so the redraw that follows
// sees the new size.
func (r *Renderer) SetSize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if width > 0 {
		r.width = width
	}
	if height > 0 {
		r.height = height
	}
}

// Size returns the current frame dimensions.
func (r *Renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.width, r.height
}

// Frame draws root at the current size and returns the frame string.
// The hitbox registry is rewritten to match the drawn frame.
func (r *Renderer) Frame(root view.Node) string {
	width, height := r.Size()

	r.hitboxes.Reset()
	c := &canvas{renderer: r, width: width, height: height, record: true}
	return c.draw(root, 0, 0, width)
}

// Render draws root and hands the frame to the presenter.
func (r *Renderer) Render(root view.Node) error {
	frame := r.Frame(root)
	if r.present == nil {
		return nil
	}
	return r.present(frame)
}
