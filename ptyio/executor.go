package ptyio

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// ExecutorServiceManager provides a single-thread scheduled executor plus a
// reader-thread launcher, matching the two coordination primitives a
// Starter needs: a place to serialize writes/resizes/close, and a place to
// run the blocking read loop. It is an interface so tests can inject a
// synchronous stub instead of real goroutines and timers.
type ExecutorServiceManager interface {
	// Submit runs fn on the single coordinator thread, preserving FIFO
	// order relative to other Submit calls from the same caller.
	Submit(fn func())
	// Schedule runs fn on the coordinator thread after d elapses, and
	// returns a cancel function. Cancellation is idempotent.
	Schedule(d time.Duration, fn func()) (cancel func())
	// RunReader launches fn on its own goroutine; it is expected to block
	// until the reader loop exits.
	RunReader(fn func())
	// Shutdown stops accepting new work and waits for in-flight work to
	// finish.
	Shutdown()
}

// GoroutineExecutor is the real ExecutorServiceManager: a single worker
// goroutine drains a task queue (the coordinator thread), and RunReader
// launches the reader thread. Both run under an errgroup.Group bound to a
// shared context, so Shutdown has a single cancellation point.
type GoroutineExecutor struct {
	group  *errgroup.Group
	ctx    context.Context
	cancel context.CancelFunc

	tasks chan func()

	mu     sync.Mutex
	timers []*time.Timer
}

// NewExecutor starts a GoroutineExecutor. ctx bounds the lifetime of the
// coordinator thread and every reader goroutine; Shutdown cancels the
// derived context, which is the single point that unblocks both.
func NewExecutor(ctx context.Context) *GoroutineExecutor {
	ctx, cancel := context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(ctx)
	e := &GoroutineExecutor{
		group:  group,
		ctx:    gctx,
		cancel: cancel,
		tasks:  make(chan func(), 64),
	}
	e.group.Go(e.run)
	return e
}

func (e *GoroutineExecutor) run() error {
	for {
		select {
		case fn, ok := <-e.tasks:
			if !ok {
				return nil
			}
			fn()
		case <-e.ctx.Done():
			return e.ctx.Err()
		}
	}
}

func (e *GoroutineExecutor) Submit(fn func()) {
	select {
	case e.tasks <- fn:
	case <-e.ctx.Done():
	}
}

func (e *GoroutineExecutor) Schedule(d time.Duration, fn func()) (cancel func()) {
	timer := time.AfterFunc(d, func() {
		e.Submit(fn)
	})

	e.mu.Lock()
	e.timers = append(e.timers, timer)
	e.mu.Unlock()

	return func() {
		timer.Stop()
	}
}

func (e *GoroutineExecutor) RunReader(fn func()) {
	e.group.Go(func() error {
		fn()
		return nil
	})
}

// Shutdown stops the coordinator and reader goroutines and blocks until
// both have exited. The error reported by the errgroup is discarded.
func (e *GoroutineExecutor) Shutdown() {
	e.mu.Lock()
	for _, t := range e.timers {
		t.Stop()
	}
	e.mu.Unlock()

	e.cancel()
	close(e.tasks)
	_ = e.group.Wait()
}

var _ ExecutorServiceManager = (*GoroutineExecutor)(nil)
