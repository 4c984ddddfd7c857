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

// Package metrics wires the supervisor's job outcomes into
// prometheus/client_golang: a counter labelled by outcome and a histogram of
// job durations across all outcomes (the histogram carries no labels).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels the terminal state of one supervisor Execute call.
type Outcome string

const (
	OutcomeSuccess       Outcome = "success"
	OutcomeWorkerError   Outcome = "worker_error"
	OutcomeInterrupted   Outcome = "interrupted"
	OutcomeNonZeroExit   Outcome = "non_zero_exit"
	OutcomeNoResult      Outcome = "no_result"
)

// Recorder is the subset of metrics the supervisor reports around every
// Execute call.
type Recorder interface {
	ObserveJob(outcome Outcome, duration time.Duration)
}

// Metrics implements Recorder over a prometheus counter vector and a
// duration histogram, registered against a caller-supplied registry so
// multiple ffmpego instances in one process don't collide on the default
// registry.
type Metrics struct {
	jobsTotal   *prometheus.CounterVec
	jobDuration prometheus.Histogram
}

// New registers ffmpego's collectors against reg and returns a Metrics
// ready to record job outcomes.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ffmpego_jobs_total",
			Help: "Total number of supervised ffmpeg jobs, by terminal outcome.",
		}, []string{"outcome"}),
		jobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ffmpego_job_duration_seconds",
			Help:    "Wall-clock duration of a supervised ffmpeg job's Execute call.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	reg.MustRegister(m.jobsTotal, m.jobDuration)
	return m
}

// ObserveJob increments the counter for outcome and records duration in
// the histogram.
func (m *Metrics) ObserveJob(outcome Outcome, duration time.Duration) {
	m.jobsTotal.WithLabelValues(string(outcome)).Inc()
	m.jobDuration.Observe(duration.Seconds())
}

// Noop is a Recorder that discards every observation, for callers that
// don't want a prometheus registry wired in.
type Noop struct{}

func (Noop) ObserveJob(Outcome, time.Duration) {}
