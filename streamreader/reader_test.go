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

package streamreader_test

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ffmpego/streamreader"
)

var _ = Describe("Gobbler", func() {
	It("drains the stream to EOF and reports no result", func() {
		r := strings.NewReader(strings.Repeat("x", 1<<20))

		val, ok, err := streamreader.Gobbler[string](r)
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(val).To(Equal(""))

		n, _ := r.Read(make([]byte, 1))
		Expect(n).To(Equal(0))
	})

	It("never blocks on an empty stream", func() {
		val, ok, err := streamreader.Gobbler[int](strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeFalse())
		Expect(val).To(Equal(0))
	})
})

var _ = Describe("Reader", func() {
	It("can be implemented as a line-oriented decoder returning an optional value", func() {
		var lastLine streamreader.Reader[string] = func(r io.Reader) (string, bool, error) {
			sc := bufio.NewScanner(r)
			last := ""
			seen := false
			for sc.Scan() {
				last = sc.Text()
				seen = true
			}
			if err := sc.Err(); err != nil {
				return "", false, err
			}
			return last, seen, nil
		}

		val, ok, err := lastLine(bytes.NewBufferString("one\ntwo\nthree\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(ok).To(BeTrue())
		Expect(val).To(Equal("three"))
	})
})
