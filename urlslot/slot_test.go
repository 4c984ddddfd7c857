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

package urlslot_test

import (
	"context"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	liberr "github.com/sabouaram/ffmpego/errors"
	"github.com/sabouaram/ffmpego/ffcore"
	"github.com/sabouaram/ffmpego/urlslot"
)

var _ = Describe("Slot", func() {
	It("starts unpublished", func() {
		s := urlslot.New()
		Expect(s.IsPublished()).To(BeFalse())
	})

	It("accepts exactly one Publish", func() {
		s := urlslot.New()
		Expect(s.Publish("tcp://127.0.0.1:4123")).To(Succeed())
		Expect(s.IsPublished()).To(BeTrue())

		err := s.Publish("tcp://127.0.0.1:9999")
		Expect(err).To(HaveOccurred())
		Expect(liberr.Get(err).IsCode(ffcore.ErrIllegalState)).To(BeTrue())

		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		url, waitErr := s.Wait(ctx)
		Expect(waitErr).NotTo(HaveOccurred())
		Expect(url).To(Equal("tcp://127.0.0.1:4123"))
	})

	It("blocks Wait until Publish happens, observing the published value", func() {
		s := urlslot.New()

		done := make(chan string, 1)
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			url, err := s.Wait(ctx)
			if err == nil {
				done <- url
			}
		}()

		Consistently(done, 100*time.Millisecond).ShouldNot(Receive())

		Expect(s.Publish("tcp://127.0.0.1:5555")).To(Succeed())

		Eventually(done, time.Second).Should(Receive(Equal("tcp://127.0.0.1:5555")))
	})

	It("returns an interrupted error when the context is cancelled before Publish", func() {
		s := urlslot.New()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Wait(ctx)
		Expect(err).To(HaveOccurred())
		Expect(liberr.Get(err).IsCode(ffcore.ErrInterrupted)).To(BeTrue())
	})
})
