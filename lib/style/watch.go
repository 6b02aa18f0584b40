// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package style

import (
	"encoding/binary"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/zeebo/blake3"
	"golang.org/x/sys/unix"
)

// Watch starts an inotify watcher on the stylesheet at path and calls
// reload with each new successfully parsed version. Versions whose
// bytes hash identically to the last one seen are skipped, so a
// save-without-change does not restyle the app; versions that fail to
// parse are logged and skipped, keeping the last good sheet active.
// The returned stop function is idempotent and ends the watcher.
//
// reload runs on the watcher goroutine; the usual callback replaces
// the app's sheet contents and requests a render, both of which are
// safe from any goroutine.
func Watch(path string, logger *slog.Logger, reload func(*Sheet)) (stop func(), err error) {
	absolutePath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	// Hash the current contents so the first change event compares
	// against what the caller already loaded.
	data, err := os.ReadFile(absolutePath)
	if err != nil {
		return nil, err
	}
	lastHash := blake3.Sum256(data)

	// Watch the parent directory, not the file: editors and tools
	// that write a temp file and rename it create a new inode, which
	// a file-level watch on the old inode misses.
	directory := filepath.Dir(absolutePath)
	filename := filepath.Base(absolutePath)

	fd, err := unix.InotifyInit1(unix.IN_NONBLOCK | unix.IN_CLOEXEC)
	if err != nil {
		return nil, err
	}
	if _, err := unix.InotifyAddWatch(fd, directory, unix.IN_CLOSE_WRITE|unix.IN_MOVED_TO); err != nil {
		unix.Close(fd)
		return nil, err
	}

	stopChannel := make(chan struct{})
	go watchLoop(fd, absolutePath, filename, lastHash, logger, reload, stopChannel)

	var once sync.Once
	return func() {
		once.Do(func() { close(stopChannel) })
	}, nil
}

// watchLoop polls the inotify fd for changes to the target file,
// re-reads it, and hands parsed sheets to the reload callback.
//
// Uses poll(2) with a 100ms timeout for responsive stop-channel
// checking. After detecting a change, waits 50ms and drains any
// queued events to coalesce rapid writes.
func watchLoop(
	fd int,
	path string,
	filename string,
	lastHash [32]byte,
	logger *slog.Logger,
	reload func(*Sheet),
	stopChannel <-chan struct{},
) {
	defer unix.Close(fd)

	buffer := make([]byte, 4096)

	for {
		select {
		case <-stopChannel:
			return
		default:
		}

		pollDescriptors := []unix.PollFd{{Fd: int32(fd), Events: unix.POLLIN}}
		count, err := unix.Poll(pollDescriptors, 100)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Error("stylesheet watcher poll failed", "path", path, "error", err)
			return
		}
		if count == 0 {
			continue
		}

		bytesRead, err := unix.Read(fd, buffer)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EINTR {
				continue
			}
			logger.Error("stylesheet watcher read failed", "path", path, "error", err)
			return
		}

		if !inotifyMatchesFile(buffer[:bytesRead], filename) {
			continue
		}

		// Debounce: wait 50ms and drain whatever arrived during the
		// window, coalescing editors that write in several syscalls.
		time.Sleep(50 * time.Millisecond)
		drainInotifyEvents(fd, buffer)

		data, err := os.ReadFile(path)
		if err != nil {
			// Mid-write or briefly absent during an atomic replace;
			// the completed write delivers another event.
			continue
		}

		hash := blake3.Sum256(data)
		if hash == lastHash {
			continue
		}
		lastHash = hash

		sheet, err := Parse(data)
		if err != nil {
			logger.Warn("stylesheet reload skipped", "path", path, "error", err)
			continue
		}

		logger.Info("stylesheet reloaded", "path", path, "rules", sheet.RuleCount())
		reload(sheet)
	}
}

// inotifyMatchesFile checks whether any inotify event in the buffer
// names the target file. Layout from inotify(7):
//
//	struct inotify_event {
//	    int32_t  wd;     // offset 0
//	    uint32_t mask;   // offset 4
//	    uint32_t cookie; // offset 8
//	    uint32_t len;    // offset 12
//	    char     name[]; // offset 16, null-padded to alignment
//	};
func inotifyMatchesFile(buffer []byte, targetFilename string) bool {
	offset := 0
	for offset+unix.SizeofInotifyEvent <= len(buffer) {
		nameLength := int(binary.NativeEndian.Uint32(buffer[offset+12 : offset+16]))
		eventSize := unix.SizeofInotifyEvent + nameLength
		if offset+eventSize > len(buffer) {
			break
		}

		if nameLength > 0 {
			nameBytes := buffer[offset+unix.SizeofInotifyEvent : offset+eventSize]
			if nullTerminatedString(nameBytes) == targetFilename {
				return true
			}
		}

		offset += eventSize
	}
	return false
}

// nullTerminatedString extracts a string from a null-padded byte
// slice, stopping at the first null byte.
func nullTerminatedString(data []byte) string {
	for i, b := range data {
		if b == 0 {
			return string(data[:i])
		}
	}
	return string(data)
}

// drainInotifyEvents reads and discards pending inotify events after
// the debounce sleep.
func drainInotifyEvents(fd int, buffer []byte) {
	for {
		if _, err := unix.Read(fd, buffer); err != nil {
			// EAGAIN means no more events; any other error, stop.
			return
		}
	}
}
