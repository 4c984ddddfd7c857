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

// Package ffcore holds the error kinds shared by every ffmpego subpackage
// (executor, loopback, streamreader, ffjob, supervisor). Centralising the
// registration avoids each subpackage reserving its own liberr code range
// for what is, semantically, a single closed error taxonomy (spec error table).
package ffcore

import (
	"fmt"

	liberr "github.com/sabouaram/ffmpego/errors"
)

const pkgName = "ffmpego"

// Error kinds, one liberr.CodeError per row of ffmpego's error table.
const (
	ErrIo liberr.CodeError = iota + liberr.MinAvailable
	ErrWorker
	ErrInterrupted
	ErrNonZeroExit
	ErrNoResult
	ErrIllegalState
)

func init() {
	if liberr.ExistInMapMessage(ErrIo) {
		panic(fmt.Errorf("error code collision with package %s", pkgName))
	}
	liberr.RegisterIdFctMessage(ErrIo, getMessage)
}

func getMessage(code liberr.CodeError) (message string) {
	switch code {
	case liberr.UnknownError:
		return liberr.NullMessage
	case ErrIo:
		return "i/o failure: child spawn, stream read, or socket bind/accept"
	case ErrWorker:
		return "a helper or stream worker raised an error"
	case ErrInterrupted:
		return "supervisor wait was cancelled"
	case ErrNonZeroExit:
		return "child exited with a non-zero status"
	case ErrNoResult:
		return "child exited cleanly but produced no parseable result"
	case ErrIllegalState:
		return "illegal mutation of immutable job state"
	}

	return liberr.NullMessage
}

// NewIoError wraps a spawn/read/bind/accept failure.
func NewIoError(cause error) liberr.Error {
	return ErrIo.Error(cause)
}

// NewWorkerError wraps the first exception captured from any helper or
// stream reader worker. cause is kept as the error's parent so that
// errors.Is(err, cause) still resolves through the liberr chain.
func NewWorkerError(cause error) liberr.Error {
	return ErrWorker.Error(cause)
}

// NewInterruptedError reports that the supervisor's wait for child exit was
// cancelled (context cancellation / goroutine interruption).
func NewInterruptedError() liberr.Error {
	return ErrInterrupted.Error()
}

// NewNonZeroExitError reports the child's exit status.
func NewNonZeroExitError(status int) liberr.Error {
	return ErrNonZeroExit.Error(fmt.Errorf("exit status %d", status))
}

// ExitStatus extracts the exit status embedded by NewNonZeroExitError's
// wrapped cause, if present. ok is false for any other error.
func ExitStatus(err error) (status int, ok bool) {
	var e liberr.Error
	if !asLibErr(err, &e) || !e.IsCode(ErrNonZeroExit) {
		return 0, false
	}

	for _, p := range e.GetParent(false) {
		if _, scanErr := fmt.Sscanf(p.Error(), "exit status %d", &status); scanErr == nil {
			return status, true
		}
	}

	return 0, false
}

// NewNoResultError reports a clean exit with an empty result slot.
func NewNoResultError() liberr.Error {
	return ErrNoResult.Error()
}

// NewIllegalStateError reports an attempt to mutate an immutable field
// outside the channel the design permits (e.g. a socket-backed input's URL
// mutated from outside its port-sink).
func NewIllegalStateError(msg string) liberr.Error {
	return ErrIllegalState.Error(fmt.Errorf("%s", msg))
}

func asLibErr(err error, out *liberr.Error) bool {
	if err == nil {
		return false
	}
	if e, ok := err.(liberr.Error); ok {
		*out = e
		return true
	}
	return false
}
