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

package supervisor

import (
	"io"
	"os/exec"
	"sync"
	"time"
)

// Stopper is an out-of-band controller holding a handle to the live child:
// Graceful asks it to exit by writing "q\n" to its stdin; Forceful kills
// it outright. Attach binds it to one running child; Detach releases that
// handle in the supervisor's cleanup phase.
type Stopper struct {
	mu     sync.Mutex
	cmd    *exec.Cmd
	stdin  io.Writer
	exited <-chan struct{}
}

// NewStopper returns a Stopper with no child attached.
func NewStopper() *Stopper {
	return &Stopper{}
}

// Attach binds the Stopper to a freshly spawned child. exited must be a
// channel the caller closes once it has reaped the child via cmd.Wait —
// Stopper never calls cmd.Wait itself, since the supervisor's own exit
// wait already owns that call and a *os.Process must not be waited on
// twice concurrently.
func (s *Stopper) Attach(cmd *exec.Cmd, stdin io.Writer, exited <-chan struct{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmd = cmd
	s.stdin = stdin
	s.exited = exited
}

// Detach releases the Stopper's handle on its child.
func (s *Stopper) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cmd = nil
	s.stdin = nil
	s.exited = nil
}

// Graceful writes "q\n" to the child's stdin, ffmpeg's own interactive quit
// command. It is a no-op if no child is attached.
func (s *Stopper) Graceful() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stdin == nil {
		return nil
	}
	_, err := s.stdin.Write([]byte("q\n"))
	return err
}

// Forceful kills the attached child. As a safe strengthening over a bare
// kill, it first gives the child up to gracePeriod to have already exited
// (e.g. from a prior Graceful call still in flight) before sending the
// kill signal. It is a no-op if no child is attached.
func (s *Stopper) Forceful(gracePeriod time.Duration) error {
	s.mu.Lock()
	cmd := s.cmd
	exited := s.exited
	s.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}

	if gracePeriod > 0 && exited != nil {
		select {
		case <-exited:
			return nil
		case <-time.After(gracePeriod):
		}
	}

	return cmd.Process.Kill()
}
