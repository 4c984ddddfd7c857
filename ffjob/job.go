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

// Package ffjob is the declarative builder for an ffmpeg invocation: Inputs,
// Outputs, global options and an optional filter graph, assembled into a
// position-sensitive argument vector. Socket-backed Inputs/Outputs publish
// their URL through a urlslot.Slot once their loopback helper has bound a
// port, rather than exposing a mutable URL field callers could write from
// anywhere.
package ffjob

import (
	"context"
	"fmt"
	"strings"

	"github.com/sabouaram/ffmpego/ffcore"
	"github.com/sabouaram/ffmpego/urlslot"
)

// Option is a single ffmpeg flag, optionally carrying one value.
type Option struct {
	Name  string // e.g. "-codec:v"
	Value string // empty if the flag takes no value
}

func (o Option) tokens() []string {
	if o.Value == "" {
		return []string{o.Name}
	}
	return []string{o.Name, o.Value}
}

// HelperFactory builds the loopback.Helper worker for a socket-backed
// Input/Output, given the urlslot.Slot it must Publish into from its
// port-sink. It returns nil when the Input/Output is not socket-backed.
type HelperFactory func(slot *urlslot.Slot) func(ctx context.Context) error

// Input is one ffmpeg input: an ordered option list culminating in
// "-i <url>". A file-backed Input has url set directly; a socket-backed
// Input instead carries a Helper and resolves its URL from the urlslot at
// argv build time.
type Input struct {
	Options []Option
	Helper  HelperFactory

	url  string
	slot *urlslot.Slot
}

// NewFileInput returns an Input whose URL is the given path, known up
// front — no helper, no urlslot involved.
func NewFileInput(url string, opts ...Option) *Input {
	return &Input{Options: opts, url: url}
}

// NewSocketInput returns an Input whose URL is only known once its helper
// has bound a loopback port and published the full
// "scheme://127.0.0.1:<port><suffix>" string. helper is handed the
// urlslot.Slot its worker must Publish into from the port-sink.
func NewSocketInput(helper HelperFactory, opts ...Option) *Input {
	return &Input{
		Options: opts,
		Helper:  helper,
		slot:    urlslot.New(),
	}
}

// Output is the output-side counterpart of Input: an ordered option list
// culminating in the output URL (or "-" for stdout).
type Output struct {
	Options []Option
	Helper  HelperFactory

	url  string
	slot *urlslot.Slot
}

// NewFileOutput returns an Output whose URL is the given path.
func NewFileOutput(url string, opts ...Option) *Output {
	return &Output{Options: opts, url: url}
}

// NewSocketOutput returns an Output whose URL is only known once its
// helper has bound and published a port.
func NewSocketOutput(helper HelperFactory, opts ...Option) *Output {
	return &Output{
		Options: opts,
		Helper:  helper,
		slot:    urlslot.New(),
	}
}

// Job is the declarative description of one ffmpeg invocation.
type Job struct {
	Inputs        []*Input
	Overwrite     bool
	GlobalOptions []Option
	FilterComplex string
	Outputs       []*Output
}

// Validate checks the invariants buildArgv depends on: at least one Output.
func (j *Job) Validate() error {
	if len(j.Outputs) == 0 {
		return ffcore.NewIllegalStateError("ffjob: a Job must have at least one Output")
	}
	return nil
}

// HelperWorkers returns one worker function per socket-backed Input/Output,
// paired with the urlslot.Slot each one publishes into. The supervisor
// submits these to the Executor under synthetic "Runnable-i" names before
// spawning the child and before calling BuildArgv.
func (j *Job) HelperWorkers() []func(ctx context.Context) error {
	var workers []func(ctx context.Context) error

	for _, in := range j.Inputs {
		if in.Helper != nil {
			workers = append(workers, in.Helper(in.slot))
		}
	}
	for _, out := range j.Outputs {
		if out.Helper != nil {
			workers = append(workers, out.Helper(out.slot))
		}
	}

	return workers
}

// BuildArgv materialises the job's options into ffmpeg's argument vector,
// in the fixed order the external contract pins: each Input's options in
// insertion order, then exactly one of -y/-n, then -filter_complex if set,
// then global options in insertion order, then each Output's options in
// insertion order.
//
// For a socket-backed Input/Output, BuildArgv blocks on its urlslot until
// the helper has published a port or ctx is done — callers must invoke
// BuildArgv only after submitting HelperWorkers to the Executor, or the
// wait never resolves.
func (j *Job) BuildArgv(ctx context.Context) ([]string, error) {
	if err := j.Validate(); err != nil {
		return nil, err
	}

	var argv []string

	for _, in := range j.Inputs {
		url, err := resolveURL(ctx, in.slot, in.url)
		if err != nil {
			return nil, err
		}
		for _, o := range in.Options {
			argv = append(argv, o.tokens()...)
		}
		argv = append(argv, "-i", url)
	}

	if j.Overwrite {
		argv = append(argv, "-y")
	} else {
		argv = append(argv, "-n")
	}

	if j.FilterComplex != "" {
		argv = append(argv, "-filter_complex", j.FilterComplex)
	}

	for _, o := range j.GlobalOptions {
		argv = append(argv, o.tokens()...)
	}

	for _, out := range j.Outputs {
		url, err := resolveURL(ctx, out.slot, out.url)
		if err != nil {
			return nil, err
		}
		for _, o := range out.Options {
			argv = append(argv, o.tokens()...)
		}
		argv = append(argv, url)
	}

	return argv, nil
}

func resolveURL(ctx context.Context, slot *urlslot.Slot, fallback string) (string, error) {
	if slot == nil {
		return fallback, nil
	}
	return slot.Wait(ctx)
}

// JoinedCommand renders argv as a single loggable command line: tokens
// containing whitespace are double-quoted, every other character is left
// as-is. This is a documented limitation, not general shell-escaping.
func JoinedCommand(argv []string) string {
	parts := make([]string, len(argv))
	for i, a := range argv {
		if strings.ContainsAny(a, " \t") {
			parts[i] = fmt.Sprintf("%q", a)
		} else {
			parts[i] = a
		}
	}
	return strings.Join(parts, " ")
}
