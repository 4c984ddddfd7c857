/*
 * MIT License
 *
 * Copyright (c) 2025 Nicolas JUHEL
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package executor runs a fixed set of named workers concurrently, records
// the first exception raised by any of them, and tracks liveness. It is the
// concurrency primitive the supervisor builds on: helper workers and stream
// readers are all submitted to one Executor per job.
package executor

import (
	"context"
	"sync"

	libatm "github.com/sabouaram/ffmpego/atomic"
	"github.com/sabouaram/ffmpego/ffcore"
	"github.com/sabouaram/ffmpego/resultslot"
)

// Worker is a named runnable unit with a single-shot lifecycle. It receives
// a context cancelled when Stop is called, so a well-behaved worker returns
// promptly once ctx.Done() fires instead of running unbounded.
type Worker func(ctx context.Context) error

// Executor runs named Workers in parallel, tracking which are still running
// and the first error raised by any of them.
type Executor struct {
	running libatm.MapTyped[string, bool]

	exc *resultslot.Slot[error]

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// New returns an Executor ready to run workers, deriving its internal
// cancellation context from parent.
func New(parent context.Context) *Executor {
	ctx, cancel := context.WithCancel(parent)
	return &Executor{
		running: libatm.NewMapTyped[string, bool](),
		exc:     resultslot.New[error](),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Execute starts worker on a fresh goroutine labelled name. It is
// non-blocking. A worker started after Stop has been called is a no-op: the
// Executor has already been signalled to wind down and must not grow its
// running set again.
func (e *Executor) Execute(name string, worker Worker) {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.wg.Add(1)
	e.mu.Unlock()

	e.running.Store(name, true)

	go func() {
		defer e.wg.Done()
		defer e.running.Delete(name)

		if err := worker(e.ctx); err != nil {
			e.exc.Set(err)
		}
	}()
}

// GetException returns the first error captured from any worker, or nil if
// none has failed (yet).
func (e *Executor) GetException() error {
	if err, ok := e.exc.Get(); ok {
		return err
	}
	return nil
}

// IsRunning reports whether at least one started worker has not yet
// terminated.
func (e *Executor) IsRunning() bool {
	running := false
	e.running.Range(func(_ string, _ bool) bool {
		running = true
		return false
	})
	return running
}

// GetRunningThreadNames returns a diagnostic snapshot of currently-running
// worker names. The set may change the instant after this call returns.
func (e *Executor) GetRunningThreadNames() []string {
	var names []string
	e.running.Range(func(name string, _ bool) bool {
		names = append(names, name)
		return true
	})
	return names
}

// Stop signals cancellation to every running worker and marks the Executor
// closed to further Execute calls. It is idempotent: calling it twice has
// no additional effect.
func (e *Executor) Stop() {
	e.mu.Lock()
	if e.stopped {
		e.mu.Unlock()
		return
	}
	e.stopped = true
	e.mu.Unlock()

	e.cancel()
}

// Wait blocks until every started worker has terminated or ctx is done,
// whichever comes first. It returns ffcore.NewInterruptedError if ctx ends
// the wait before the workers quiesce.
func (e *Executor) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		e.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ffcore.NewInterruptedError()
	}
}
