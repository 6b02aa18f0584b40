// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/loom/lib/clock"
	"github.com/bureau-foundation/loom/lib/codec"
	"github.com/bureau-foundation/loom/lib/event"
)

// ErrRecorderClosed is returned by Record after Close.
var ErrRecorderClosed = errors.New("replay: recorder is closed")

// Recorder writes a session file. Record timestamps each event
// against the clock the recorder was created with; Close flushes the
// compressed stream. The caller owns the underlying writer and closes
// it after the recorder.
//
// Record is safe for concurrent use, though the usual arrangement is
// a single Attach goroutine feeding it from a bus subscription.
type Recorder struct {
	clock   clock.Clock
	started time.Time

	mu      sync.Mutex
	zw      *zstd.Encoder
	encoder *codec.Encoder
	frames  int
	closed  bool
	err     error

	attached chan struct{}
}

// NewRecorder starts a session on w, writing the header immediately.
func NewRecorder(w io.Writer, clk clock.Clock) (*Recorder, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("replay: open compressed stream: %w", err)
	}
	r := &Recorder{
		clock:   clk,
		started: clk.Now(),
		zw:      zw,
		encoder: codec.NewEncoder(zw),
	}
	header := Header{Version: FormatVersion, RecordedUnix: r.started.Unix()}
	if err := r.encoder.Encode(header); err != nil {
		zw.Close()
		return nil, fmt.Errorf("replay: write session header: %w", err)
	}
	return r, nil
}

// Record appends one event to the session. Events the format does not
// carry are skipped silently. After the first write error the
// recorder is stuck and every call returns that error.
func (r *Recorder) Record(ev event.Event) error {
	frame, ok := newFrame(r.clock.Now().Sub(r.started), ev)
	if !ok {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrRecorderClosed
	}
	if r.err != nil {
		return r.err
	}
	if err := r.encoder.Encode(frame); err != nil {
		r.err = fmt.Errorf("replay: write frame %d: %w", r.frames, err)
		return r.err
	}
	r.frames++
	return nil
}

// Attach consumes sub on a background goroutine, recording every
// event it delivers, until the subscription closes. Call it at most
// once, before events start flowing; Close waits for the drain to
// finish, so the normal sequence is Attach, run the app, Close.
func (r *Recorder) Attach(sub *event.Subscription) {
	r.attached = make(chan struct{})
	go func() {
		defer close(r.attached)
		for ev := range sub.C() {
			r.Record(ev)
		}
	}()
}

// FrameCount returns the number of frames written so far.
func (r *Recorder) FrameCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Close waits for an attached subscription to drain, then flushes and
// closes the compressed stream. It returns the first error the
// recorder hit, if any.
func (r *Recorder) Close() error {
	if r.attached != nil {
		<-r.attached
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return r.err
	}
	r.closed = true
	if err := r.zw.Close(); err != nil && r.err == nil {
		r.err = fmt.Errorf("replay: close compressed stream: %w", err)
	}
	return r.err
}
