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

// Package loopback implements the TCP helper that lets a Job's socket-backed
// Input or Output exchange bytes with the ffmpeg child over the loopback
// interface instead of a named pipe or temp file. It is written directly
// over net.Listen: bind, publish the port, then hand the listener to a
// negotiator that owns its own closure.
package loopback

import (
	"context"
	"net"

	"github.com/sabouaram/ffmpego/ffcore"
)

// PortSink is invoked once with the bound ephemeral port, before Negotiator
// runs. It must complete before the child process that will dial this port
// is started — the caller is expected to publish the port into a
// urlslot.Slot synchronously from within this callback.
type PortSink func(port int) error

// Negotiator receives ownership of ln. It must accept at most one
// connection, run its wire protocol, and close ln on every exit path —
// Helper does not close ln itself once it has handed it off.
type Negotiator func(ctx context.Context, ln net.Listener) error

// Helper binds a loopback TCP listener on an OS-assigned port, invokes sink
// with that port, then hands the listener to negotiate. It is meant to be
// submitted to an executor.Executor as a Worker under a synthetic
// "Runnable-i" name.
//
// The stdlib does not expose the raw listen(2) backlog portably, so the
// backlog-of-1 contract is approximated behaviourally: negotiate is
// required to accept exactly one connection and close ln afterward,
// regardless of what the kernel's default backlog would otherwise queue.
//
// Any I/O failure during bind or port publication is reported as an
// ffcore IoError. negotiate's own error is returned as-is — the supervisor
// treats it like any other worker failure.
func Helper(sink PortSink, negotiate Negotiator) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		lc := net.ListenConfig{}
		ln, err := lc.Listen(ctx, "tcp", "127.0.0.1:0")
		if err != nil {
			return ffcore.NewIoError(err)
		}

		port := ln.Addr().(*net.TCPAddr).Port

		if err = sink(port); err != nil {
			_ = ln.Close()
			return ffcore.NewIoError(err)
		}

		return negotiate(ctx, ln)
	}
}
