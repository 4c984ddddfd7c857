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

// Package streamreader defines the stream reader contract: a function over
// an input byte stream that returns an optional decoded value. Job-specific
// readers (line-oriented progress/report parsing) implement Reader; the
// default Gobbler exists purely to drain a stream that nobody wants to
// decode, so the child never wedges writing into a full, un-drained pipe.
package streamreader

import "io"

// Reader decodes r into an optional T: ok is false when the stream carried
// no decodable result, which is not an error, just the absence of one.
type Reader[T any] func(r io.Reader) (value T, ok bool, err error)

// Gobbler reads r to EOF and discards every byte, always reporting no
// result. Use it for the stream whose content is of no interest to the
// caller but whose pipe still needs draining.
func Gobbler[T any](r io.Reader) (T, bool, error) {
	var zero T
	_, err := io.Copy(io.Discard, r)
	if err != nil && err != io.EOF {
		return zero, false, err
	}
	return zero, false, nil
}
