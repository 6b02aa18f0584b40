// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package replay records and replays app event sessions.
//
// A Recorder subscribes to the app's event bus and writes every
// framework event it sees, timestamped relative to the start of the
// recording, as a zstd-compressed CBOR stream: one header item
// followed by one item per frame. Because ticks are recorded along
// with input, a session captures the app's complete external stimulus.
//
// A Driver plays a session back through the runtime's driver
// interface: its input task posts the recorded frames in order (paced
// on a clock or as fast as the app consumes them) and its tick task
// stays silent, since the recorded ticks already carry the timing.
// The session ends with the recorded interrupt, or with a synthesized
// one when the recording stopped short, so playback always terminates
// the app.
//
// Recording:
//
//	recorder, err := replay.NewRecorder(file, clock.Real())
//	recorder.Attach(app.Dispatcher().Events())
//	err = app.Run(ctx)
//	err = recorder.Close()
//
// Playback:
//
//	session, err := replay.ReadSession(file)
//	driver := replay.NewDriver(session, clock.Real(), false)
//	app := runtime.NewApp(root, runtime.WithDriver(driver))
//	err = app.Run(ctx)
package replay
