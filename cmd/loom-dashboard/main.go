// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// loom-dashboard is the demo application for the loom UI runtime: a
// small operations dashboard exercising hooks, the reconciler, the
// stylesheet engine, and session recording.
//
// Three modes of operation:
//
// Interactive (default): runs against the terminal through the
// bubbletea driver. Requires a real terminal on stdin and stdout.
// With --record, every external event is written to a session file as
// it is handled.
//
// Replay (--replay): plays a recorded session back through the same
// app with no terminal attached, then prints the final frame and a
// summary. With --paced the recorded inter-event timing is
// reproduced; without it the session runs as fast as the app consumes
// it.
//
// Inspect (--inspect): prints a session file's events and exits
// without running the app.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/element"
	"github.com/bureau-foundation/loom/lib/event"
	"github.com/bureau-foundation/loom/lib/render"
	"github.com/bureau-foundation/loom/lib/replay"
	"github.com/bureau-foundation/loom/lib/runtime"
	"github.com/bureau-foundation/loom/lib/style"
	"github.com/bureau-foundation/loom/lib/terminal"
	"github.com/bureau-foundation/loom/lib/version"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string
	var stylesPath string
	var recordPath string
	var replayPath string
	var inspectPath string
	var paced bool
	var logOutput string

	flagSet := pflag.NewFlagSet("loom-dashboard", pflag.ContinueOnError)
	flagSet.StringVar(&configPath, "config", "", "YAML configuration file")
	flagSet.StringVar(&stylesPath, "styles", "", "JSONC stylesheet, watched and hot-reloaded on change")
	flagSet.StringVar(&recordPath, "record", "", "record the session's events to this file")
	flagSet.StringVar(&replayPath, "replay", "", "play a recorded session instead of reading the terminal")
	flagSet.BoolVar(&paced, "paced", false, "with --replay, reproduce the recorded timing")
	flagSet.StringVar(&inspectPath, "inspect", "", "print a recorded session's events and exit")
	flagSet.StringVar(&logOutput, "log-output", "", "write JSON log records to this file")
	flagSet.BoolP("help", "h", false, "show help")

	// Handle --version before flag parsing to match other loom binaries.
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		version.Print("loom-dashboard")
		return nil
	}

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}
	if args := flagSet.Args(); len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}

	if inspectPath != "" {
		return inspectSession(inspectPath)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		return err
	}

	logger, closeLogger, err := buildLogger(logOutput)
	if err != nil {
		return err
	}
	defer closeLogger()

	sheet, sheetPath, err := loadSheet(cfg, stylesPath)
	if err != nil {
		return err
	}

	interval := cfg.tickInterval()
	if interval == 0 {
		interval = runtime.DefaultTickInterval
	}

	if replayPath != "" {
		return runReplay(cfg, sheet, sheetPath, logger, interval, replayPath, paced, recordPath)
	}
	return runInteractive(cfg, sheet, sheetPath, logger, interval, recordPath)
}

func runInteractive(cfg *Config, sheet *style.Sheet, sheetPath string, logger *slog.Logger, interval time.Duration, recordPath string) error {
	if !terminal.IsInteractive() {
		return fmt.Errorf("stdin and stdout must be a terminal (use --replay to play a recorded session)")
	}

	driver := terminal.New()

	var app *runtime.App
	root := element.Provide(
		Theme{Name: themeName(cfg, sheetPath)},
		Dashboard(cfg, interval, func() { app.Stop() }),
	)
	app = runtime.NewApp(root,
		runtime.WithDriver(driver),
		runtime.WithStyles(sheet),
		runtime.WithLogger(logger),
		runtime.WithTickInterval(interval),
	)
	renderer := render.New(sheet, app.Hitboxes(), driver.Present)
	driver.SetSizeReceiver(renderer)
	app.SetRenderer(renderer)

	if recordPath != "" {
		stopRecording, err := startRecorder(app, recordPath, logger)
		if err != nil {
			return err
		}
		defer stopRecording()
	}

	if sheetPath != "" {
		stopWatching, err := style.Watch(sheetPath, logger, func(next *style.Sheet) {
			sheet.Replace(next)
			app.Dispatcher().RequestRender()
		})
		if err != nil {
			return fmt.Errorf("watch stylesheet: %w", err)
		}
		defer stopWatching()
	}

	if err := app.Run(context.Background()); err != nil {
		return err
	}
	if err := driver.Err(); err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	return nil
}

func runReplay(cfg *Config, sheet *style.Sheet, sheetPath string, logger *slog.Logger, interval time.Duration, path string, paced bool, recordPath string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	session, err := replay.ReadSession(file)
	file.Close()
	if err != nil {
		return err
	}

	player := &sizingDriver{driver: replay.NewDriver(session, clock.Real(), paced)}

	var app *runtime.App
	root := element.Provide(
		Theme{Name: themeName(cfg, sheetPath)},
		Dashboard(cfg, interval, func() { app.Stop() }),
	)
	app = runtime.NewApp(root,
		runtime.WithDriver(player),
		runtime.WithStyles(sheet),
		runtime.WithLogger(logger),
		runtime.WithTickInterval(interval),
	)

	// The presenter runs on the app goroutine and the results are
	// read after Run returns, so no locking is needed.
	var lastFrame string
	var frames int
	renderer := render.New(sheet, app.Hitboxes(), func(frame string) error {
		lastFrame = frame
		frames++
		return nil
	})
	player.renderer = renderer
	app.SetRenderer(renderer)

	if recordPath != "" {
		stopRecording, err := startRecorder(app, recordPath, logger)
		if err != nil {
			return err
		}
		defer stopRecording()
	}

	if err := app.Run(context.Background()); err != nil {
		return err
	}

	fmt.Printf("replayed %d events over %s (%d frames rendered)\n",
		len(session.Frames), session.Duration().Truncate(time.Millisecond), frames)
	if lastFrame != "" {
		fmt.Println(lastFrame)
	}
	return nil
}

// sizingDriver forwards a replay driver's events, updating the
// renderer's dimensions ahead of each resize so replayed sessions lay
// out at the recorded sizes, the way the terminal driver does live.
type sizingDriver struct {
	driver   runtime.Driver
	renderer *render.Renderer
}

func (d *sizingDriver) SpawnInput(post func(event.Event)) runtime.Task {
	return d.driver.SpawnInput(func(ev event.Event) {
		if resize, ok := ev.(event.Resize); ok && d.renderer != nil {
			d.renderer.SetSize(resize.Width, resize.Height)
		}
		post(ev)
	})
}

func (d *sizingDriver) SpawnTicker(interval time.Duration, post func(event.Event)) runtime.Task {
	return d.driver.SpawnTicker(interval, post)
}

func (d *sizingDriver) SpawnShutdownWatcher(post func(event.Event)) runtime.Task {
	return d.driver.SpawnShutdownWatcher(post)
}

// startRecorder begins writing the app's event stream to path. The
// returned stop function drains and closes the session file; call it
// after Run returns.
func startRecorder(app *runtime.App, path string, logger *slog.Logger) (func(), error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create session file: %w", err)
	}
	recorder, err := replay.NewRecorder(file, clock.Real())
	if err != nil {
		file.Close()
		return nil, err
	}
	recorder.Attach(app.Dispatcher().Events())
	return func() {
		if err := recorder.Close(); err != nil {
			logger.Error("session recording failed", "path", path, "error", err)
		}
		file.Close()
		logger.Info("session recorded", "path", path, "frames", recorder.FrameCount())
	}, nil
}

func inspectSession(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer file.Close()
	session, err := replay.ReadSession(file)
	if err != nil {
		return err
	}

	recorded := time.Unix(session.Header.RecordedUnix, 0).UTC()
	fmt.Printf("session: %d events over %s, recorded %s\n",
		len(session.Frames),
		session.Duration().Truncate(time.Millisecond),
		recorded.Format(time.RFC3339),
	)
	for _, frame := range session.Frames {
		fmt.Println(frame.String())
	}
	return nil
}

// loadSheet resolves the active stylesheet: an explicit JSONC path
// (flag over config) wins over the built-in theme named by the
// config. The returned path is empty when a built-in theme is in use,
// which also disables hot reload.
func loadSheet(cfg *Config, flagPath string) (*style.Sheet, string, error) {
	path := flagPath
	if path == "" {
		path = cfg.Styles
	}
	if path != "" {
		sheet, err := style.ReadFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("load stylesheet: %w", err)
		}
		return sheet, path, nil
	}
	switch cfg.Theme {
	case "dark":
		return style.DefaultDark(), "", nil
	case "light":
		return style.DefaultLight(), "", nil
	default:
		return style.Default(), "", nil
	}
}

func themeName(cfg *Config, sheetPath string) string {
	if sheetPath != "" {
		return filepath.Base(sheetPath)
	}
	if cfg.Theme == "" {
		return "auto"
	}
	return cfg.Theme
}

// buildLogger routes logging away from the terminal: the app owns the
// alt screen, so stderr output would corrupt the display. Without
// --log-output, records are discarded.
func buildLogger(logOutput string) (*slog.Logger, func(), error) {
	if logOutput == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	file, err := os.Create(logOutput)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(file, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return logger, func() { file.Close() }, nil
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `loom dashboard — demo TUI for the loom component runtime.

Runs a small operations dashboard: a counter panel with clickable
buttons and a gauge, a fuzzy-filterable services table, an expandable
topology tree, a validated feedback form, and markdown help. Tabs
switch with the arrow keys or 1-5; q quits.

Sessions can be recorded with --record and played back with --replay,
which runs the same app headlessly and prints the final frame. Use
--inspect to list a session's events without running the app.

Usage:
  loom-dashboard [flags]

Examples:
  # Run with the built-in theme for the terminal background
  loom-dashboard

  # Custom stylesheet with hot reload
  loom-dashboard --styles theme.jsonc

  # Record a session, then replay it at full speed
  loom-dashboard --record session.loom
  loom-dashboard --replay session.loom

  # List the recorded events
  loom-dashboard --inspect session.loom

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
