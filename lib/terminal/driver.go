// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package terminal runs a loom app against a real terminal. The
// driver wraps a bubbletea program, which owns raw mode, the alt
// screen, and input decoding; decoded input is translated to
// framework events and frames flow back as the program's view.
package terminal

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/runtime"
)

// ErrStopped is returned by Present once the terminal program has
// exited.
var ErrStopped = errors.New("terminal: program stopped")

// Sizable receives terminal dimensions. The driver calls SetSize
// before posting the resize event, so the redraw triggered by the
// event lays out at the new size.
type Sizable interface {
	SetSize(width, height int)
}

// Driver implements the app's driver contract on a terminal. Input,
// resize, and ctrl+c arrive through the bubbletea program; ticks come
// from a wall-clock ticker; SIGINT and SIGTERM from outside the
// terminal arrive through the shutdown watcher.
type Driver struct {
	program *tea.Program

	mu      sync.Mutex
	frame   string
	post    func(event.Event)
	sizable Sizable

	runDone chan struct{}
	runErr  error
}

var _ runtime.Driver = (*Driver)(nil)

// Option configures a Driver.
type Option func(*options)

type options struct {
	sizable Sizable
	tea     []tea.ProgramOption
}

// WithSizeReceiver registers the renderer (or any Sizable) to be told
// the terminal size ahead of each resize event.
func WithSizeReceiver(s Sizable) Option {
	return func(o *options) { o.sizable = s }
}

// WithTeaOptions appends extra bubbletea program options, after the
// defaults (alt screen, mouse motion).
func WithTeaOptions(opts ...tea.ProgramOption) Option {
	return func(o *options) { o.tea = append(o.tea, opts...) }
}

// New builds a driver. The terminal program starts when the app
// spawns the input task.
func New(opts ...Option) *Driver {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	d := &Driver{
		sizable: o.sizable,
		runDone: make(chan struct{}),
	}
	programOptions := append(
		[]tea.ProgramOption{tea.WithAltScreen(), tea.WithMouseAllMotion()},
		o.tea...,
	)
	d.program = tea.NewProgram(bridge{driver: d}, programOptions...)
	return d
}

// IsInteractive reports whether both ends of the process are real
// terminals.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// SetSizeReceiver installs the size receiver after construction, for
// receivers built against registries the driver's app owns. Call
// before Run.
func (d *Driver) SetSizeReceiver(s Sizable) {
	d.mu.Lock()
	d.sizable = s
	d.mu.Unlock()
}

func (d *Driver) sizeReceiver() Sizable {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sizable
}

// Present delivers a frame to the terminal. It satisfies the
// renderer's presenter contract.
func (d *Driver) Present(frame string) error {
	select {
	case <-d.runDone:
		return ErrStopped
	default:
	}
	d.mu.Lock()
	d.frame = frame
	d.mu.Unlock()
	d.program.Send(redrawMsg{})
	return nil
}

func (d *Driver) currentFrame() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frame
}

func (d *Driver) deliver(ev event.Event) {
	d.mu.Lock()
	post := d.post
	d.mu.Unlock()
	if post != nil {
		post(ev)
	}
}

// SpawnInput starts the terminal program. Decoded key, mouse, and
// resize messages are posted as framework events; if the program ends
// on its own (terminal torn down, output error), an interrupt is
// posted so the app shuts down instead of running blind.
func (d *Driver) SpawnInput(post func(event.Event)) runtime.Task {
	d.mu.Lock()
	d.post = post
	d.mu.Unlock()

	return runtime.Start(func(ctx context.Context) {
		stopped := make(chan struct{})
		go func() {
			select {
			case <-ctx.Done():
				d.program.Quit()
			case <-stopped:
			}
		}()

		_, err := d.program.Run()
		d.runErr = err
		close(d.runDone)
		close(stopped)

		if ctx.Err() == nil {
			post(event.Interrupt{})
		}
	})
}

// SpawnTicker posts ticks on wall-clock time.
func (d *Driver) SpawnTicker(interval time.Duration, post func(event.Event)) runtime.Task {
	return runtime.Start(func(ctx context.Context) {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				post(event.Tick{Time: now})
			}
		}
	})
}

// SpawnShutdownWatcher posts an interrupt when the process receives
// SIGINT or SIGTERM. Ctrl+c does not arrive here: raw mode turns it
// into a key event, which the bridge maps to the same interrupt. The
// signal handler is installed before this returns, so there is no
// window where a signal falls through to the default handler.
func (d *Driver) SpawnShutdownWatcher(post func(event.Event)) runtime.Task {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	return runtime.Start(func(ctx context.Context) {
		defer signal.Stop(signals)

		select {
		case <-ctx.Done():
		case <-signals:
			post(event.Interrupt{})
		}
	})
}

// Err returns the terminal program's exit error, once it has exited.
func (d *Driver) Err() error {
	select {
	case <-d.runDone:
		return d.runErr
	default:
		return nil
	}
}

// redrawMsg tells the program a new frame is ready.
type redrawMsg struct{}

// bridge is the bubbletea model: a pass-through that forwards input
// to the driver and shows the driver's latest frame.
type bridge struct {
	driver *Driver
}

func (b bridge) Init() tea.Cmd { return nil }

func (b bridge) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case redrawMsg:
		// Frame already stored; returning triggers a repaint.

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			b.driver.deliver(event.Interrupt{})
			break
		}
		b.driver.deliver(event.Key{Key: tea.Key(msg)})

	case tea.MouseMsg:
		b.driver.deliver(event.Mouse{MouseEvent: tea.MouseEvent(msg)})

	case tea.WindowSizeMsg:
		if sizable := b.driver.sizeReceiver(); sizable != nil {
			sizable.SetSize(msg.Width, msg.Height)
		}
		b.driver.deliver(event.Resize{Width: msg.Width, Height: msg.Height})
	}
	return b, nil
}

func (b bridge) View() string {
	return b.driver.currentFrame()
}
