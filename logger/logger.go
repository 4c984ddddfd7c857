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

// Package logger is a small structured logger over logrus: a level type and
// a copy-on-write Fields map, trimmed to the one backend ffmpego needs
// instead of carrying hooks (syslog, file rotation, gorm, gin) with nothing
// in this repo to exercise them.
package logger

import (
	"github.com/sirupsen/logrus"
)

// Level orders logrus's severities from most to least severe, trimmed to
// the five levels ffmpego actually logs at.
type Level uint8

const (
	ErrorLevel Level = iota
	WarnLevel
	InfoLevel
	DebugLevel
	TraceLevel
)

func (l Level) logrus() logrus.Level {
	switch l {
	case ErrorLevel:
		return logrus.ErrorLevel
	case WarnLevel:
		return logrus.WarnLevel
	case InfoLevel:
		return logrus.InfoLevel
	case DebugLevel:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// Fields is a copy-on-write set of structured logging fields.
type Fields map[string]interface{}

// Add returns a new Fields with key/val added, leaving the receiver
// untouched.
func (f Fields) Add(key string, val interface{}) Fields {
	res := make(Fields, len(f)+1)
	for k, v := range f {
		res[k] = v
	}
	res[key] = val
	return res
}

// Logger is the level-gated, field-carrying logging contract the
// supervisor depends on (via Config.Logger).
type Logger interface {
	WithFields(f Fields) Logger
	Trace(msg string)
	Debug(msg string)
	Info(msg string)
	Warn(msg string)
	Error(msg string, err error)
}

type entry struct {
	log *logrus.Logger
	fld Fields
}

// New returns a Logger backed by a fresh logrus.Logger set to lvl.
func New(lvl Level) Logger {
	l := logrus.New()
	l.SetLevel(lvl.logrus())
	return &entry{log: l}
}

// NewFromLogrus wraps an already-configured *logrus.Logger, for callers
// that want ffmpego's log lines folded into their own logrus instance.
func NewFromLogrus(l *logrus.Logger) Logger {
	return &entry{log: l}
}

func (e *entry) WithFields(f Fields) Logger {
	merged := make(Fields, len(e.fld)+len(f))
	for k, v := range e.fld {
		merged[k] = v
	}
	for k, v := range f {
		merged[k] = v
	}
	return &entry{log: e.log, fld: merged}
}

func (e *entry) fields() logrus.Fields {
	lf := make(logrus.Fields, len(e.fld))
	for k, v := range e.fld {
		lf[k] = v
	}
	return lf
}

func (e *entry) Trace(msg string) { e.log.WithFields(e.fields()).Trace(msg) }
func (e *entry) Debug(msg string) { e.log.WithFields(e.fields()).Debug(msg) }
func (e *entry) Info(msg string)  { e.log.WithFields(e.fields()).Info(msg) }
func (e *entry) Warn(msg string)  { e.log.WithFields(e.fields()).Warn(msg) }
func (e *entry) Error(msg string, err error) {
	e.log.WithFields(e.fields()).WithError(err).Error(msg)
}
