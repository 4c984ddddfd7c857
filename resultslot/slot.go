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

// Package resultslot implements the write-once shared result cell described
// by the supervisor's design: the first successful compare-and-set wins,
// every later attempt is dropped and reported to the caller so it can be
// logged.
package resultslot

import (
	libatm "github.com/sabouaram/ffmpego/atomic"
	"sync/atomic"
)

// Slot is a write-once reference of type T. It accepts exactly one
// successful Set call; every later Set call is a no-op that returns false.
//
// Slot deliberately does not build on libatm.Value[T].CompareAndSwap: a
// CAS of a typed-nil "old" through sync/atomic.Value does not compare equal
// to the value's true, never-stored zero state, so a generic zero-value
// comparison cannot serve as the write gate for an arbitrary T. Instead a
// claimed gate arbitrates the single writer allowed to deposit a value, and
// a second ready gate is only flipped once that deposit has completed —
// Get never observes a won race before the winner's value is visible,
// since a Load that sees ready true happens-after the Store that set it.
type Slot[T any] struct {
	claimed atomic.Bool
	ready   atomic.Bool
	value   libatm.Value[T]
}

// New returns an empty Slot ready for use.
func New[T any]() *Slot[T] {
	return &Slot[T]{
		value: libatm.NewValue[T](),
	}
}

// Set attempts to deposit val as the slot's permanent value. It returns
// true if this call is the one that won the race; false if some earlier
// call already won, in which case val is discarded.
func (s *Slot[T]) Set(val T) (won bool) {
	if !s.claimed.CompareAndSwap(false, true) {
		return false
	}

	s.value.Store(val)
	s.ready.Store(true)
	return true
}

// Get returns the slot's value and whether any call to Set has ever won.
// If ok is false, val is T's zero value.
func (s *Slot[T]) Get() (val T, ok bool) {
	if !s.ready.Load() {
		var zero T
		return zero, false
	}

	return s.value.Load(), true
}

// IsSet reports whether a value has already been committed to the slot.
func (s *Slot[T]) IsSet() bool {
	return s.ready.Load()
}
