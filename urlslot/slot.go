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

// Package urlslot implements the explicit UrlSlot the design favours over
// mutating a base-class field from a port-sink closure: a write-once cell
// with publish/subscribe semantics that lets an argv supplier block until a
// socket-backed input or output's helper has bound and announced its port.
package urlslot

import (
	"context"
	"sync"

	"github.com/sabouaram/ffmpego/ffcore"
)

// Slot holds a single string URL, written exactly once by the port-sink
// callback of the helper that owns it. Every later Publish call is
// rejected with ffcore.NewIllegalStateError, since a socket-backed URL
// must never change after the helper that owns it has bound its port.
type Slot struct {
	mu        sync.Mutex
	published bool
	url       string
	ready     chan struct{}
}

// New returns an unpublished Slot ready for a single Publish call.
func New() *Slot {
	return &Slot{
		ready: make(chan struct{}),
	}
}

// Publish sets the slot's URL. It is meant to be called exactly once, by
// the helper's port-sink, synchronously before that helper starts
// accepting connections — establishing the happens-before from port
// publication to argv read. A second call returns an IllegalStateError
// and leaves the first URL untouched.
func (s *Slot) Publish(url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.published {
		return ffcore.NewIllegalStateError("urlslot: URL already published")
	}

	s.url = url
	s.published = true
	close(s.ready)
	return nil
}

// Wait blocks until Publish has been called, or ctx is done, whichever
// comes first. The argv supplier calls this for every socket-backed
// input/output to observe the helper's bound port before baking it into
// the child's argument vector.
func (s *Slot) Wait(ctx context.Context) (string, error) {
	select {
	case <-s.ready:
		s.mu.Lock()
		defer s.mu.Unlock()
		return s.url, nil
	case <-ctx.Done():
		return "", ffcore.NewInterruptedError()
	}
}

// IsPublished reports whether Publish has already succeeded.
func (s *Slot) IsPublished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.published
}
