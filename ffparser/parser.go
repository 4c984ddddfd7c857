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

// Package ffparser scans ffmpeg's stdout a line at a time and classifies
// each line as a progress event, a final-result tally, or noise.
package ffparser

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/sabouaram/ffmpego/ffcore"
)

// Progress is one decoded progress line: a sequence of whitespace-separated
// key=value tokens. Fields absent from a given line keep their zero value.
type Progress struct {
	Frame       int64
	FPS         float64
	Bitrate     string
	TotalSize   int64
	OutTimeUs   int64
	OutTime     time.Duration
	DupFrames   int64
	DropFrames  int64
	Speed       float64
	StreamCount int
}

// Report is the final "video:/audio:/subtitle:/other streams:/global
// headers:/muxing overhead:" tally line ffmpeg prints once encoding ends.
type Report struct {
	VideoSizeKB           float64
	AudioSizeKB           float64
	SubtitleSizeKB        float64
	OtherStreamsSizeKB    float64
	GlobalHeadersSizeKB   float64
	MuxingOverheadPercent float64
}

// ProgressListener receives every successfully decoded Progress line, in
// order, as the stream is read.
type ProgressListener func(Progress)

// Parse reads r line by line until EOF. Each line is tried, in order, as a
// progress event, then as a final-result tally, then falls through as
// informational noise. listener (if non-nil) is called for every decoded
// Progress. Parse returns the last successfully decoded Report, or
// (Report{}, false) if none was ever seen. An I/O error reading r is
// returned wrapped as an ffcore IoError.
func Parse(r io.Reader, listener ProgressListener) (Report, bool, error) {
	var (
		last Report
		seen bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}

		if p, ok := parseProgress(line); ok {
			if listener != nil {
				listener(p)
			}
			continue
		}

		if rep, ok := parseReport(line); ok {
			last = rep
			seen = true
			continue
		}

		// informational noise; nothing to record.
	}

	if err := sc.Err(); err != nil {
		return Report{}, false, ffcore.NewIoError(err)
	}

	return last, seen, nil
}

func parseProgress(line string) (Progress, bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Progress{}, false
	}

	p := Progress{}
	matched := false

	for _, f := range fields {
		key, val, ok := cutKV(f)
		if !ok {
			return Progress{}, false
		}

		switch key {
		case "frame":
			p.Frame, ok = parseInt(val)
		case "fps":
			p.FPS, ok = parseFloat(val)
		case "bitrate":
			p.Bitrate, ok = val, true
		case "total_size":
			p.TotalSize, ok = parseInt(val)
		case "out_time_us":
			p.OutTimeUs, ok = parseInt(val)
			if ok {
				p.OutTime = time.Duration(p.OutTimeUs) * time.Microsecond
			}
		case "out_time":
			ok = true
		case "dup_frames":
			p.DupFrames, ok = parseInt(val)
		case "drop_frames":
			p.DropFrames, ok = parseInt(val)
		case "speed":
			p.Speed, ok = parseFloat(strings.TrimSuffix(val, "x"))
		case "stream_count":
			var n int64
			n, ok = parseInt(val)
			p.StreamCount = int(n)
		default:
			// unrecognised key=value token; still a well-formed token, so
			// the line is not automatically noise.
			ok = true
		}

		if !ok {
			return Progress{}, false
		}
		matched = true
	}

	return p, matched
}

func cutKV(tok string) (key, val string, ok bool) {
	i := strings.IndexByte(tok, '=')
	if i <= 0 || i == len(tok)-1 {
		return "", "", false
	}
	return tok[:i], tok[i+1:], true
}

func parseInt(s string) (int64, bool) {
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(s, 64)
	return f, err == nil
}

func parseReport(line string) (Report, bool) {
	var rep Report
	matched := false

	remaining := line
	for _, spec := range reportFields {
		idx := strings.Index(remaining, spec.label)
		if idx < 0 {
			continue
		}

		rest := strings.TrimSpace(remaining[idx+len(spec.label):])

		end := strings.IndexByte(rest, ' ')
		tok := rest
		if end >= 0 {
			tok = rest[:end]
		}
		tok = strings.TrimSuffix(tok, spec.unit)

		val, err := strconv.ParseFloat(strings.TrimSpace(tok), 64)
		if err != nil {
			continue
		}

		*spec.dst(&rep) = val
		matched = true
	}

	return rep, matched
}

type reportField struct {
	label string
	unit  string
	dst   func(*Report) *float64
}

var reportFields = []reportField{
	{"video:", "kB", func(r *Report) *float64 { return &r.VideoSizeKB }},
	{"audio:", "kB", func(r *Report) *float64 { return &r.AudioSizeKB }},
	{"subtitle:", "kB", func(r *Report) *float64 { return &r.SubtitleSizeKB }},
	{"other streams:", "kB", func(r *Report) *float64 { return &r.OtherStreamsSizeKB }},
	{"global headers:", "kB", func(r *Report) *float64 { return &r.GlobalHeadersSizeKB }},
	{"muxing overhead:", "%", func(r *Report) *float64 { return &r.MuxingOverheadPercent }},
}
