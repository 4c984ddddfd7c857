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

package ffjob

import (
	"context"
	"fmt"

	"github.com/sabouaram/ffmpego/loopback"
	"github.com/sabouaram/ffmpego/urlslot"
)

// SocketHelper wires a loopback.Helper to a urlslot.Slot: the port-sink
// formats "scheme://127.0.0.1:<port><suffix>" and Publishes it into slot,
// then negotiate takes over the bound listener. Pass the result to
// NewSocketInput/NewSocketOutput as a HelperFactory.
func SocketHelper(scheme, suffix string, negotiate loopback.Negotiator) HelperFactory {
	return func(slot *urlslot.Slot) func(ctx context.Context) error {
		sink := func(port int) error {
			return slot.Publish(fmt.Sprintf("%s://127.0.0.1:%d%s", scheme, port, suffix))
		}
		return loopback.Helper(sink, negotiate)
	}
}
