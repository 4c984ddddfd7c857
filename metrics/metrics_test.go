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

package metrics_test

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sabouaram/ffmpego/metrics"
)

var _ = Describe("Metrics", func() {
	It("increments the counter and observes the histogram for an outcome", func() {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)

		m.ObserveJob(metrics.OutcomeSuccess, 250*time.Millisecond)

		families, err := reg.Gather()
		Expect(err).NotTo(HaveOccurred())

		var counter *dto.MetricFamily
		var hist *dto.MetricFamily
		for _, f := range families {
			switch f.GetName() {
			case "ffmpego_jobs_total":
				counter = f
			case "ffmpego_job_duration_seconds":
				hist = f
			}
		}

		Expect(counter).NotTo(BeNil())
		Expect(counter.Metric[0].GetCounter().GetValue()).To(Equal(1.0))

		Expect(hist).NotTo(BeNil())
		Expect(hist.Metric[0].GetHistogram().GetSampleCount()).To(Equal(uint64(1)))
	})

	It("Noop discards every observation without panicking", func() {
		var n metrics.Noop
		n.ObserveJob(metrics.OutcomeNoResult, time.Second)
	})
})
