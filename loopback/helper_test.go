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

package loopback_test

import (
	"bytes"
	"context"
	"net"
	"strconv"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ffmpego/loopback"
)

var _ = Describe("Helper", func() {
	It("binds an ephemeral port, publishes it, then streams bytes to one dialer", func() {
		payload := bytes.Repeat([]byte{'a'}, 64)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		portCh := make(chan int, 1)
		worker := loopback.Helper(
			func(port int) error {
				portCh <- port
				return nil
			},
			loopback.StreamToChild(bytes.NewReader(payload)),
		)

		errCh := make(chan error, 1)
		go func() { errCh <- worker(ctx) }()

		var port int
		Eventually(portCh, time.Second).Should(Receive(&port))
		Expect(port).NotTo(Equal(0))

		conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		Expect(err).NotTo(HaveOccurred())
		defer conn.Close()

		got := make([]byte, len(payload))
		_, err = readFull(conn, got)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(payload))

		Eventually(errCh, time.Second).Should(Receive(BeNil()))
	})

	It("closes its listening socket once the worker returns", func() {
		payload := bytes.Repeat([]byte{'b'}, 16)

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		portCh := make(chan int, 1)
		worker := loopback.Helper(
			func(port int) error {
				portCh <- port
				return nil
			},
			loopback.StreamToChild(bytes.NewReader(payload)),
		)

		errCh := make(chan error, 1)
		go func() { errCh <- worker(ctx) }()

		var port int
		Eventually(portCh, time.Second).Should(Receive(&port))

		conn, err := net.Dial("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)))
		Expect(err).NotTo(HaveOccurred())
		got := make([]byte, len(payload))
		_, err = readFull(conn, got)
		Expect(err).NotTo(HaveOccurred())
		conn.Close()

		Eventually(errCh, time.Second).Should(Receive(BeNil()))

		// The listener only ever accepts the one negotiated connection and
		// is closed once that negotiation finishes, so a second dial to the
		// same port must now be refused.
		_, err = net.DialTimeout("tcp", net.JoinHostPort("127.0.0.1", strconv.Itoa(port)), time.Second)
		Expect(err).To(HaveOccurred())
	})

	It("fails the worker with an IoError when the port-sink callback errors", func() {
		ctx := context.Background()

		worker := loopback.Helper(
			func(port int) error {
				return errBoom
			},
			loopback.StreamToChild(bytes.NewReader(nil)),
		)

		err := worker(ctx)
		Expect(err).To(HaveOccurred())
	})
})

var errBoom = bytesErr("boom")

type bytesErr string

func (b bytesErr) Error() string { return string(b) }

func readFull(conn net.Conn, buf []byte) (int, error) {
	total := 0
	for total < len(buf) {
		n, err := conn.Read(buf[total:])
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}
