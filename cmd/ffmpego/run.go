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

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sabouaram/ffmpego/ffjob"
	"github.com/sabouaram/ffmpego/ffparser"
	"github.com/sabouaram/ffmpego/logger"
	"github.com/sabouaram/ffmpego/metrics"
	"github.com/sabouaram/ffmpego/supervisor"
)

var runCmd = &cobra.Command{
	Use:   "run <input> <output>",
	Short: "Transcode input to output under supervision, printing the final report",
	Args:  cobra.ExactArgs(2),
	RunE:  runE,
}

func runE(cmd *cobra.Command, args []string) error {
	input, output := args[0], args[1]

	job := &ffjob.Job{
		Inputs:    []*ffjob.Input{ffjob.NewFileInput(input)},
		Overwrite: true,
		Outputs:   []*ffjob.Output{ffjob.NewFileOutput(output)},
	}

	reader := func(r io.Reader) (ffparser.Report, bool, error) {
		return ffparser.Parse(r, func(p ffparser.Progress) {
			if p.FPS > 0 {
				fmt.Fprintf(os.Stderr, "\rframe=%d fps=%.1f speed=%.2fx", p.Frame, p.FPS, p.Speed)
			}
		})
	}

	mergeStderr := vpr.GetBool("merge-stderr")

	sup := supervisor.New[ffparser.Report](job, reader, reader, supervisor.Config{
		ExecutablePath: vpr.GetString("ffmpeg-path"),
		WorkingDir:     vpr.GetString("working-dir"),
		QuiesceTimeout: vpr.GetDuration("quiesce-timeout"),
		MergeStderr:    &mergeStderr,
		Logger:         logger.New(logger.InfoLevel),
		Metrics:        metrics.Noop{},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		_ = sup.GetStopper().Graceful()
	}()

	report, err := sup.Execute(ctx)
	fmt.Println()
	if err != nil {
		return err
	}

	fmt.Printf("video=%.1fkB audio=%.1fkB overhead=%.2f%%\n",
		report.VideoSizeKB, report.AudioSizeKB, report.MuxingOverheadPercent)
	return nil
}
