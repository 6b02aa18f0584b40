// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/element"
	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/hook"
	"github.com/bureau-foundation/loom/lib/interaction"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/textinput"
	"github.com/bureau-foundation/loom/lib/view"
)

// Renderer consumes resolved view trees. The app hands it a tree only
// when the tree differs from the previously drawn one; a returned
// error ends the app after an orderly shutdown.
type Renderer interface {
	Render(tree view.Node) error
}

// State is the app's lifecycle phase. It moves strictly forward:
// Idle, Running, ShuttingDown, Stopped.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateShuttingDown:
		return "shutting-down"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}

// DefaultTickInterval is the tick cadence used when no option
// overrides it. It doubles as the caret blink rate.
const DefaultTickInterval = 250 * time.Millisecond

const mailboxCapacity = 128

type externalEvent struct {
	ev event.Event
}

// App runs one component tree. Construct with NewApp, then Run; an
// app is single-use.
type App struct {
	root element.Element

	driver   Driver
	renderer Renderer
	clk      clock.Clock
	logger   *slog.Logger
	tick     time.Duration
	busCap   int

	bus        *event.Bus
	dispatcher *Dispatcher
	pending    *hook.PendingSet
	hits       *interaction.Registry
	inputs     *textinput.Registry
	styles     *style.Sheet
	host       *hook.Host

	mailbox chan externalEvent
	quit    chan struct{}
	stop    sync.Once
	state   atomic.Int32

	// Owned by the loop goroutine.
	instances map[string]*hook.Store
	lastView  view.Node
	failure   error
}

// Option configures an App.
type Option func(*App)

// WithDriver replaces the default headless driver.
func WithDriver(d Driver) Option {
	return func(a *App) { a.driver = d }
}

// WithRenderer sets the renderer receiving changed view trees. An app
// without a renderer still runs passes and effects, which is how
// reconciliation is tested.
func WithRenderer(r Renderer) Option {
	return func(a *App) { a.renderer = r }
}

// WithTickInterval sets the tick cadence.
func WithTickInterval(interval time.Duration) Option {
	return func(a *App) { a.tick = interval }
}

// WithClock injects the clock used by the default driver.
func WithClock(c clock.Clock) Option {
	return func(a *App) { a.clk = c }
}

// WithLogger sets the app's logger. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

// WithBusCapacity sets the per-subscription event buffer. Subscribers
// that fall further behind than this lose their oldest events.
func WithBusCapacity(capacity int) Option {
	return func(a *App) { a.busCap = capacity }
}

// WithStyles sets the stylesheet components and the renderer query.
func WithStyles(sheet *style.Sheet) Option {
	return func(a *App) { a.styles = sheet }
}

// NewApp builds an app around a root element.
func NewApp(root element.Element, options ...Option) *App {
	a := &App{
		root:      root,
		clk:       clock.Real(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		tick:      DefaultTickInterval,
		busCap:    event.DefaultBusCapacity,
		mailbox:   make(chan externalEvent, mailboxCapacity),
		quit:      make(chan struct{}),
		instances: make(map[string]*hook.Store),
	}
	for _, option := range options {
		option(a)
	}
	if a.styles == nil {
		a.styles = style.Default()
	}
	if a.driver == nil {
		a.driver = NewHeadlessDriver(a.clk)
	}
	a.bus = event.NewBus(a.busCap)
	a.dispatcher = newDispatcher(a.bus)
	a.pending = hook.NewPendingSet()
	a.hits = interaction.NewRegistry()
	a.inputs = textinput.NewRegistry(a.hits)
	a.inputs.SetNotify(a.dispatcher.RequestRender)
	a.host = &hook.Host{
		Dispatcher: a.dispatcher,
		Pending:    a.pending,
		Styles:     a.styles,
		Inputs:     a.inputs,
		Hits:       a.hits,
	}
	return a
}

// Dispatcher returns the app's dispatcher for use outside the
// component tree, for example to subscribe a recorder to events.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// SetRenderer attaches the renderer after construction, for renderers
// built against the app's own registries. Call before Run.
func (a *App) SetRenderer(r Renderer) {
	a.renderer = r
}

// Hitboxes returns the app's interaction registry. The renderer
// records clickable regions here during each draw.
func (a *App) Hitboxes() *interaction.Registry {
	return a.hits
}

// Inputs returns the app's text-input registry.
func (a *App) Inputs() *textinput.Registry {
	return a.inputs
}

// State returns the app's lifecycle phase.
func (a *App) State() State {
	return State(a.state.Load())
}

// Stop ends the app. Queued events may be dropped; driver tasks are
// stopped and awaited before Run returns.
func (a *App) Stop() {
	a.requestStop()
}

func (a *App) requestStop() {
	a.stop.Do(func() { close(a.quit) })
}

// postEvent delivers a driver event into the mailbox. It blocks
// while the loop is busy and gives up once shutdown has begun, so a
// stopping app never wedges its drivers.
func (a *App) postEvent(ev event.Event) {
	select {
	case a.mailbox <- externalEvent{ev: ev}:
	case <-a.quit:
	}
}

// Run drives the app until an interrupt, a Stop call, a renderer
// failure, or context cancellation. It spawns the driver's three
// tasks, renders the initial frame, and consumes the mailbox on the
// calling goroutine; on the way out it stops and awaits every task,
// unmounts all component instances (running their effect cleanups),
// and closes the event bus.
func (a *App) Run(ctx context.Context) error {
	if !a.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return fmt.Errorf("app already ran (state %s)", a.State())
	}
	a.logger.Info("app starting", "tick_interval", a.tick)

	tasks := []Task{
		a.driver.SpawnInput(a.postEvent),
		a.driver.SpawnTicker(a.tick, a.postEvent),
		a.driver.SpawnShutdownWatcher(a.postEvent),
	}

	a.dispatcher.RequestRender()
	a.loop(ctx)

	a.state.Store(int32(StateShuttingDown))
	a.logger.Info("app shutting down")
	for _, t := range tasks {
		t.Stop()
	}
	for _, t := range tasks {
		t.Wait()
	}
	a.releaseInstances()
	a.bus.Close()
	a.state.Store(int32(StateStopped))

	if a.failure != nil {
		return a.failure
	}
	return ctx.Err()
}

func (a *App) loop(ctx context.Context) {
	for {
		select {
		case <-a.quit:
			return
		case <-ctx.Done():
			a.requestStop()
			return
		default:
		}

		// Drain events ahead of render requests so a burst of input
		// becomes one pass instead of one per message.
		select {
		case message := <-a.mailbox:
			a.handleEvent(message.ev)
			continue
		default:
		}

		select {
		case <-a.quit:
			return
		case <-ctx.Done():
			a.requestStop()
			return
		case message := <-a.mailbox:
			a.handleEvent(message.ev)
		case <-a.dispatcher.renders:
			a.dispatcher.disarm()
			a.renderPass()
		}
	}
}

func (a *App) handleEvent(ev event.Event) {
	// The text-input registry sees every event first; whatever it
	// consumes still fans out to subscribers below.
	a.inputs.HandleEvent(ev)
	a.bus.Publish(ev)

	switch ev.(type) {
	case event.Interrupt:
		a.logger.Info("interrupt received")
		a.requestStop()
	case event.Resize:
		// Layout depends on the terminal size, so a resize redraws
		// even a structurally unchanged tree.
		a.lastView = nil
		a.dispatcher.RequestRender()
	}
}

// renderPass runs one reconciliation: apply queued state, resolve the
// tree, draw it if it changed, prune instances the pass no longer
// visited, then flush the effects the pass recorded.
func (a *App) renderPass() {
	a.pending.Apply()
	pass := hook.NewPass()
	visited := make(map[string]bool, len(a.instances))
	tree := a.resolve(a.root, "0", pass, visited)

	if a.lastView == nil || !view.Equal(tree, a.lastView) {
		a.lastView = tree
		if a.renderer != nil {
			if err := a.renderer.Render(tree); err != nil && a.failure == nil {
				a.failure = fmt.Errorf("renderer: %w", err)
				a.logger.Error("renderer failed", "error", err)
				a.requestStop()
			}
		}
	}

	a.pruneUnvisited(visited)
	pass.FlushEffects()
}

func (a *App) releaseInstances() {
	a.pruneUnvisited(map[string]bool{})
}
