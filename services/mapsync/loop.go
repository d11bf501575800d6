package mapsync

import (
	"context"
	"errors"
	"sync"
)

// ErrLoopClosed is returned for work submitted after Close.
var ErrLoopClosed = errors.New("update loop closed")

// Loop runs submitted closures one at a time on a single goroutine. All map
// and selection state of a screen is mutated only from inside it.
type Loop struct {
	ops       chan func()
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewLoop starts a loop with the given queue depth.
func NewLoop(buffer int) *Loop {
	l := &Loop{
		ops:  make(chan func(), buffer),
		quit: make(chan struct{}),
		done: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		select {
		case fn := <-l.ops:
			fn()
		case <-l.quit:
			return
		}
	}
}

// Post queues fn without waiting for it to run. It reports false if the loop is closed.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.quit:
		return false
	default:
	}
	select {
	case l.ops <- fn:
		return true
	case <-l.quit:
		return false
	}
}

// Call runs fn on the loop and waits for it to finish. It must not be called
// from inside the loop.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	wrapped := func() {
		defer close(finished)
		fn()
	}

	select {
	case l.ops <- wrapped:
	case <-l.quit:
		return ErrLoopClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case <-finished:
		return nil
	case <-l.done:
		// The loop may have exited with wrapped still queued.
		select {
		case <-finished:
			return nil
		default:
			return ErrLoopClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the loop after the closure currently running. Queued work is dropped.
func (l *Loop) Close() {
	l.closeOnce.Do(func() { close(l.quit) })
	<-l.done
}
