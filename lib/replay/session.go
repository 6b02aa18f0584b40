// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package replay

import (
	"errors"
	"fmt"
	"io"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/klauspost/compress/zstd"

	"github.com/bureau-foundation/loom/lib/codec"
	"github.com/bureau-foundation/loom/lib/event"
)

// FormatVersion is the session file format version. Bump it on any
// incompatible change to the header or frame encoding.
const FormatVersion = 1

// Header is the first item of every session file.
type Header struct {
	Version int `cbor:"version"`

	// RecordedUnix is the wall-clock start of the recording in Unix
	// seconds. Metadata only; frame timing is relative.
	RecordedUnix int64 `cbor:"recorded_unix"`
}

// Frame is one recorded event. At is the offset from the start of the
// recording; exactly one payload pointer is set, selected by Kind.
type Frame struct {
	At   time.Duration `cbor:"at"`
	Kind string        `cbor:"kind"`

	Key    *keyFrame    `cbor:"key,omitempty"`
	Mouse  *mouseFrame  `cbor:"mouse,omitempty"`
	Resize *resizeFrame `cbor:"resize,omitempty"`
	Tick   *tickFrame   `cbor:"tick,omitempty"`
}

const (
	kindKey       = "key"
	kindMouse     = "mouse"
	kindResize    = "resize"
	kindTick      = "tick"
	kindInterrupt = "interrupt"
)

type keyFrame struct {
	Type  int    `cbor:"type"`
	Runes string `cbor:"runes,omitempty"`
	Alt   bool   `cbor:"alt,omitempty"`
	Paste bool   `cbor:"paste,omitempty"`
}

type mouseFrame struct {
	X      int  `cbor:"x"`
	Y      int  `cbor:"y"`
	Shift  bool `cbor:"shift,omitempty"`
	Alt    bool `cbor:"alt,omitempty"`
	Ctrl   bool `cbor:"ctrl,omitempty"`
	Action int  `cbor:"action"`
	Button int  `cbor:"button"`
}

type resizeFrame struct {
	Width  int `cbor:"width"`
	Height int `cbor:"height"`
}

type tickFrame struct {
	UnixNano int64 `cbor:"unix_nano"`
}

// newFrame encodes ev as a frame at offset at. The second return is
// false for event kinds the format does not carry.
func newFrame(at time.Duration, ev event.Event) (Frame, bool) {
	frame := Frame{At: at}
	switch e := ev.(type) {
	case event.Key:
		frame.Kind = kindKey
		frame.Key = &keyFrame{
			Type:  int(e.Type),
			Runes: string(e.Runes),
			Alt:   e.Alt,
			Paste: e.Paste,
		}
	case event.Mouse:
		frame.Kind = kindMouse
		frame.Mouse = &mouseFrame{
			X:      e.X,
			Y:      e.Y,
			Shift:  e.Shift,
			Alt:    e.Alt,
			Ctrl:   e.Ctrl,
			Action: int(e.Action),
			Button: int(e.Button),
		}
	case event.Resize:
		frame.Kind = kindResize
		frame.Resize = &resizeFrame{Width: e.Width, Height: e.Height}
	case event.Tick:
		frame.Kind = kindTick
		frame.Tick = &tickFrame{UnixNano: e.Time.UnixNano()}
	case event.Interrupt:
		frame.Kind = kindInterrupt
	default:
		return Frame{}, false
	}
	return frame, true
}

// Event decodes the frame back into its framework event.
func (f Frame) Event() (event.Event, error) {
	switch f.Kind {
	case kindKey:
		if f.Key == nil {
			return nil, fmt.Errorf("replay: key frame without payload")
		}
		return event.Key{Key: tea.Key{
			Type:  tea.KeyType(f.Key.Type),
			Runes: []rune(f.Key.Runes),
			Alt:   f.Key.Alt,
			Paste: f.Key.Paste,
		}}, nil
	case kindMouse:
		if f.Mouse == nil {
			return nil, fmt.Errorf("replay: mouse frame without payload")
		}
		return event.Mouse{MouseEvent: tea.MouseEvent{
			X:      f.Mouse.X,
			Y:      f.Mouse.Y,
			Shift:  f.Mouse.Shift,
			Alt:    f.Mouse.Alt,
			Ctrl:   f.Mouse.Ctrl,
			Action: tea.MouseAction(f.Mouse.Action),
			Button: tea.MouseButton(f.Mouse.Button),
		}}, nil
	case kindResize:
		if f.Resize == nil {
			return nil, fmt.Errorf("replay: resize frame without payload")
		}
		return event.Resize{Width: f.Resize.Width, Height: f.Resize.Height}, nil
	case kindTick:
		if f.Tick == nil {
			return nil, fmt.Errorf("replay: tick frame without payload")
		}
		return event.Tick{Time: time.Unix(0, f.Tick.UnixNano)}, nil
	case kindInterrupt:
		return event.Interrupt{}, nil
	default:
		return nil, fmt.Errorf("replay: unknown frame kind %q", f.Kind)
	}
}

// String renders the frame for session listings.
func (f Frame) String() string {
	offset := f.At.Round(time.Millisecond)
	switch f.Kind {
	case kindKey:
		if f.Key != nil && f.Key.Runes != "" {
			return fmt.Sprintf("%-10s key %q", offset, f.Key.Runes)
		}
		if f.Key != nil {
			return fmt.Sprintf("%-10s key %s", offset, tea.Key{Type: tea.KeyType(f.Key.Type)})
		}
	case kindMouse:
		if f.Mouse != nil {
			return fmt.Sprintf("%-10s mouse (%d,%d) action=%d button=%d",
				offset, f.Mouse.X, f.Mouse.Y, f.Mouse.Action, f.Mouse.Button)
		}
	case kindResize:
		if f.Resize != nil {
			return fmt.Sprintf("%-10s resize %dx%d", offset, f.Resize.Width, f.Resize.Height)
		}
	case kindTick:
		return fmt.Sprintf("%-10s tick", offset)
	case kindInterrupt:
		return fmt.Sprintf("%-10s interrupt", offset)
	}
	return fmt.Sprintf("%-10s %s", offset, f.Kind)
}

// Session is a fully decoded recording.
type Session struct {
	Header Header
	Frames []Frame
}

// Duration returns the offset of the last frame, or zero for an
// empty session.
func (s *Session) Duration() time.Duration {
	if len(s.Frames) == 0 {
		return 0
	}
	return s.Frames[len(s.Frames)-1].At
}

// ReadSession decodes a session file from r.
func ReadSession(r io.Reader) (*Session, error) {
	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("replay: open compressed stream: %w", err)
	}
	defer zr.Close()

	decoder := codec.NewDecoder(zr)
	var header Header
	if err := decoder.Decode(&header); err != nil {
		return nil, fmt.Errorf("replay: read session header: %w", err)
	}
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("replay: unsupported session version %d (want %d)",
			header.Version, FormatVersion)
	}

	session := &Session{Header: header}
	for {
		var frame Frame
		err := decoder.Decode(&frame)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("replay: read frame %d: %w", len(session.Frames), err)
		}
		session.Frames = append(session.Frames, frame)
	}
	return session, nil
}
