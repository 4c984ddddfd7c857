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

// Package supervisor drives one ffmpeg child process end to end: it resolves
// the job's argv, spawns the child, wires its three standard streams to
// workers on a shared executor.Executor, and reports a single structured
// result once the child exits and every worker has quiesced.
package supervisor

import (
	"context"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sabouaram/ffmpego/executor"
	"github.com/sabouaram/ffmpego/ffcore"
	"github.com/sabouaram/ffmpego/ffjob"
	"github.com/sabouaram/ffmpego/logger"
	"github.com/sabouaram/ffmpego/metrics"
	"github.com/sabouaram/ffmpego/resultslot"
	"github.com/sabouaram/ffmpego/streamreader"
)

// defaultQuiesceTimeout is the sole timeout the design permits: the bounded
// wait for helper/stream workers to finish after the child has exited.
const defaultQuiesceTimeout = 10 * time.Second

// Config configures one Supervisor. The zero value is valid: ExecutablePath
// resolves to the OS's default ffmpeg name, QuiesceTimeout defaults to
// 10s, and MergeStderr defaults to true.
type Config struct {
	// ExecutablePath overrides the OS-resolved default ("ffmpeg" or
	// "ffmpeg.exe"). Leave empty to resolve from PATH.
	ExecutablePath string

	// WorkingDir is the child's working directory. Empty means inherit the
	// host process's.
	WorkingDir string

	// QuiesceTimeout bounds how long Execute waits, after the child exits,
	// for helper and stream workers to finish. Zero means 10s.
	QuiesceTimeout time.Duration

	// MergeStderr, when true (the default), redirects the child's stderr
	// into the same pipe as stdout, matching the operating mode the
	// library's own parsing assumes. When false, stderr gets its own
	// independent reader. Nil (the zero value) also means true; set it
	// explicitly via a *bool to override, since a plain bool field can't
	// distinguish "unset" from "false".
	MergeStderr *bool

	Logger  logger.Logger
	Metrics metrics.Recorder
}

func (c Config) executablePath() string {
	if c.ExecutablePath != "" {
		return c.ExecutablePath
	}
	if runtime.GOOS == "windows" {
		return "ffmpeg.exe"
	}
	return "ffmpeg"
}

func (c Config) quiesceTimeout() time.Duration {
	if c.QuiesceTimeout > 0 {
		return c.QuiesceTimeout
	}
	return defaultQuiesceTimeout
}

func (c Config) mergeStderr() bool {
	if c.MergeStderr == nil {
		return true
	}
	return *c.MergeStderr
}

func (c Config) logger() logger.Logger {
	if c.Logger != nil {
		return c.Logger
	}
	return logger.New(logger.InfoLevel)
}

func (c Config) metrics() metrics.Recorder {
	if c.Metrics != nil {
		return c.Metrics
	}
	return metrics.Noop{}
}

// Supervisor drives one Job's ffmpeg invocation and reports a single
// decoded T, read off whichever of stdout/stderr first produces one.
type Supervisor[T any] struct {
	Job          *ffjob.Job
	StdoutReader streamreader.Reader[T]
	StderrReader streamreader.Reader[T]
	Config       Config

	stopper *Stopper
}

// New returns a Supervisor ready to Execute job once. The Stopper it
// allocates is reachable via GetStopper for external cancellation.
func New[T any](job *ffjob.Job, stdout, stderr streamreader.Reader[T], cfg Config) *Supervisor[T] {
	return &Supervisor[T]{
		Job:          job,
		StdoutReader: stdout,
		StderrReader: stderr,
		Config:       cfg,
		stopper:      NewStopper(),
	}
}

// GetStopper returns the Stopper external callers use to cancel a running
// Execute call (graceful or forceful).
func (s *Supervisor[T]) GetStopper() *Stopper {
	return s.stopper
}

// Execute runs the eight obligations in order: start helper workers,
// resolve argv, spawn the child, start stream readers, block on exit, wait
// for quiesce, clean up, and report. Cleanup always runs, even when ctx is
// cancelled mid-wait or a worker fails. Reporting order is fixed: worker
// exception first, interruption second, non-zero exit third, empty result
// last.
func (s *Supervisor[T]) Execute(ctx context.Context) (T, error) {
	var zero T

	id := uuid.NewString()
	log := s.Config.logger().WithFields(logger.Fields{"job": id})
	start := time.Now()

	if err := s.Job.Validate(); err != nil {
		return zero, err
	}

	exc := executor.New(ctx)

	// Helper workers are submitted before argv is resolved: BuildArgv
	// blocks on each socket-backed Input/Output's urlslot, so it cannot
	// complete until the helper it waits on has bound and published its
	// port. Submitting the workers first and only then evaluating the
	// deferred argv closure is what makes that wait resolve.
	for i, w := range s.Job.HelperWorkers() {
		exc.Execute(fmt.Sprintf("Runnable-%d", i), w)
	}

	argv, err := s.Job.BuildArgv(ctx)
	if err != nil {
		exc.Stop()
		_ = exc.Wait(context.Background())
		log.Error("failed to resolve argv", err)
		return zero, err
	}
	log.WithFields(logger.Fields{"argv": ffjob.JoinedCommand(argv)}).Info("resolved ffmpeg command")

	cmd := exec.Command(s.Config.executablePath(), argv...)
	cmd.Dir = s.Config.WorkingDir

	stdin, err := cmd.StdinPipe()
	if err != nil {
		exc.Stop()
		_ = exc.Wait(context.Background())
		return zero, ffcore.NewIoError(err)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		exc.Stop()
		_ = exc.Wait(context.Background())
		return zero, ffcore.NewIoError(err)
	}

	var stderr io.ReadCloser
	if s.Config.mergeStderr() {
		cmd.Stderr = cmd.Stdout
	} else {
		stderr, err = cmd.StderrPipe()
		if err != nil {
			exc.Stop()
			_ = exc.Wait(context.Background())
			return zero, ffcore.NewIoError(err)
		}
	}

	if err = cmd.Start(); err != nil {
		exc.Stop()
		_ = exc.Wait(context.Background())
		return zero, ffcore.NewIoError(err)
	}

	log = log.WithFields(logger.Fields{"pid": cmd.Process.Pid})
	log.Info("spawned child")

	waitDone := make(chan struct{})
	var waitErr error
	go func() {
		waitErr = cmd.Wait()
		close(waitDone)
	}()

	s.stopper.Attach(cmd, stdin, waitDone)

	result := resultslot.New[T]()
	exc.Execute("StdOut", resultWorker(s.StdoutReader, stdout, result))
	if s.Config.mergeStderr() {
		exc.Execute("StdErr", resultWorker(streamreader.Gobbler[T], strings.NewReader(""), result))
	} else {
		exc.Execute("StdErr", resultWorker(s.StderrReader, stderr, result))
	}

	interrupted := false
	select {
	case <-waitDone:
	case <-ctx.Done():
		interrupted = true
	}

	// Cleanup phase: always runs, in fixed order — executor.Stop(), then
	// kill the child if it's still alive, then close the streams quietly.
	quiesceCtx, cancel := context.WithTimeout(context.Background(), s.Config.quiesceTimeout())
	if qErr := exc.Wait(quiesceCtx); qErr != nil {
		log.Warn("executor did not quiesce within budget; workers orphaned")
	}
	cancel()

	exc.Stop()

	select {
	case <-waitDone:
	default:
		_ = s.stopper.Forceful(0)
		<-waitDone
	}

	_ = stdin.Close()
	_ = stdout.Close()
	if stderr != nil {
		_ = stderr.Close()
	}
	s.stopper.Detach()

	duration := time.Since(start)

	if workerErr := exc.GetException(); workerErr != nil {
		s.Config.metrics().ObserveJob(metrics.OutcomeWorkerError, duration)
		log.Error("a worker failed", workerErr)
		return zero, ffcore.NewWorkerError(workerErr)
	}

	if interrupted {
		s.Config.metrics().ObserveJob(metrics.OutcomeInterrupted, duration)
		log.Warn("execute was cancelled while waiting on the child")
		return zero, ffcore.NewInterruptedError()
	}

	status := exitStatus(cmd, waitErr)
	if status != 0 {
		s.Config.metrics().ObserveJob(metrics.OutcomeNonZeroExit, duration)
		log.WithFields(logger.Fields{"status": status}).Warn("child exited non-zero")
		return zero, ffcore.NewNonZeroExitError(status)
	}

	val, ok := result.Get()
	if !ok {
		s.Config.metrics().ObserveJob(metrics.OutcomeNoResult, duration)
		log.Warn("child exited cleanly but produced no parseable result")
		return zero, ffcore.NewNoResultError()
	}

	s.Config.metrics().ObserveJob(metrics.OutcomeSuccess, duration)
	log.WithFields(logger.Fields{"duration_ms": duration.Milliseconds()}).Info("job completed")
	return val, nil
}

// resultWorker adapts a streamreader.Reader[T] into an executor.Worker that
// compare-and-sets its decoded value into slot. A losing or absent result is
// not an error — only a genuine read failure is propagated.
func resultWorker[T any](reader streamreader.Reader[T], r io.Reader, slot *resultslot.Slot[T]) executor.Worker {
	return func(ctx context.Context) error {
		val, ok, err := reader(r)
		if err != nil {
			return err
		}
		if ok {
			slot.Set(val)
		}
		return nil
	}
}

func exitStatus(cmd *exec.Cmd, waitErr error) int {
	if cmd.ProcessState != nil {
		return cmd.ProcessState.ExitCode()
	}
	if waitErr != nil {
		return -1
	}
	return 0
}
