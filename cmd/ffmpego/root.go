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

// Package main is ffmpego's CLI harness: a thin cobra/viper shell around the
// supervisor package, for driving one ffmpeg job from the command line or
// for smoke-testing a build against a real ffmpeg binary.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var vpr = viper.New()

// RootCmd is ffmpego's top-level command: persistent flags shared by every
// subcommand, with SilenceErrors/SilenceUsage set so run's own error
// reporting is the only thing printed on failure.
var RootCmd = &cobra.Command{
	Use:           "ffmpego",
	Short:         "ffmpego — a supervised ffmpeg job runner",
	Long:          "ffmpego drives a single ffmpeg invocation end to end: argv assembly, process supervision, progress/result parsing.",
	SilenceErrors: true,
	SilenceUsage:  true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := RootCmd.PersistentFlags()
	flags.String("ffmpeg-path", "", "path to the ffmpeg executable (default: resolved from PATH)")
	flags.String("working-dir", "", "working directory for the ffmpeg child process")
	flags.Duration("quiesce-timeout", 10*time.Second, "bounded wait for workers to quiesce after child exit")
	flags.Bool("merge-stderr", true, "merge the child's stderr into the stdout stream")
	flags.String("config", "", "path to an ffmpego.yaml config file")

	bindFlag("ffmpeg-path", flags.Lookup("ffmpeg-path"))
	bindFlag("working-dir", flags.Lookup("working-dir"))
	bindFlag("quiesce-timeout", flags.Lookup("quiesce-timeout"))
	bindFlag("merge-stderr", flags.Lookup("merge-stderr"))

	RootCmd.AddCommand(runCmd)
}

func bindFlag(key string, flag *pflag.Flag) {
	if flag == nil {
		return
	}
	_ = vpr.BindPFlag(key, flag)
}

func initConfig() {
	vpr.SetEnvPrefix("FFMPEGO")
	vpr.AutomaticEnv()

	if cfgFile, _ := RootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		vpr.SetConfigFile(cfgFile)
	} else {
		vpr.SetConfigName("ffmpego")
		vpr.SetConfigType("yaml")
		vpr.AddConfigPath(".")
	}

	_ = vpr.ReadInConfig()
}
