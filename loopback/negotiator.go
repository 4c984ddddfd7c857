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

package loopback

import (
	"context"
	"io"
	"net"

	"github.com/sabouaram/ffmpego/ffcore"
)

// StreamToChild returns a Negotiator that accepts one connection and writes
// the bytes read from src into it, closing both the connection and the
// listener once src is exhausted or an error occurs. Used for socket-backed
// Inputs: ffmpeg dials in and reads the bytes ffmpego feeds it.
func StreamToChild(src io.Reader) Negotiator {
	return func(ctx context.Context, ln net.Listener) error {
		defer ln.Close()

		conn, err := acceptOne(ctx, ln)
		if err != nil {
			return ffcore.NewIoError(err)
		}
		defer conn.Close()

		if _, err = io.Copy(conn, src); err != nil {
			return ffcore.NewIoError(err)
		}
		return nil
	}
}

// StreamFromChild returns a Negotiator that accepts one connection and
// copies every byte it sends into dst, closing both the connection and the
// listener once the child closes its side or an error occurs. Used for
// socket-backed Outputs: ffmpeg dials in and writes its encoded output.
func StreamFromChild(dst io.Writer) Negotiator {
	return func(ctx context.Context, ln net.Listener) error {
		defer ln.Close()

		conn, err := acceptOne(ctx, ln)
		if err != nil {
			return ffcore.NewIoError(err)
		}
		defer conn.Close()

		if _, err = io.Copy(dst, conn); err != nil {
			return ffcore.NewIoError(err)
		}
		return nil
	}
}

func acceptOne(ctx context.Context, ln net.Listener) (net.Conn, error) {
	type result struct {
		conn net.Conn
		err  error
	}

	ch := make(chan result, 1)
	go func() {
		conn, err := ln.Accept()
		ch <- result{conn, err}
	}()

	select {
	case r := <-ch:
		return r.conn, r.err
	case <-ctx.Done():
		_ = ln.Close()
		return nil, ctx.Err()
	}
}
