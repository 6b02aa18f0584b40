// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package runtime

import (
	"context"
	"sync"
)

// Task is a handle on one unit of background work. Stop requests
// cancellation and may be called any number of times; Wait blocks
// until the work has fully exited. The app guarantees every driver
// task is stopped and awaited before Run returns.
type Task interface {
	Stop()
	Wait()
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// Start runs fn on its own goroutine and returns its task handle.
// fn must return promptly once its context is cancelled.
func Start(fn func(ctx context.Context)) Task {
	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}
	go func() {
		defer close(t.done)
		fn(ctx)
	}()
	return t
}

func (t *task) Stop() {
	t.once.Do(t.cancel)
}

func (t *task) Wait() {
	<-t.done
}
