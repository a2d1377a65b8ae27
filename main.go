/*
 * LC3 - Main process.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
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
	"io"
	"log/slog"
	"os"

	getopt "github.com/pborman/getopt/v2"

	reader "github.com/rcornwell/LC3/command/reader"
	config "github.com/rcornwell/LC3/config/configparser"
	core "github.com/rcornwell/LC3/emu/core"
	cpu "github.com/rcornwell/LC3/emu/cpu"
	kernel "github.com/rcornwell/LC3/emu/kernel"
	debug "github.com/rcornwell/LC3/util/debug"
	logger "github.com/rcornwell/LC3/util/logger"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "Configuration file")
	optLogFile := getopt.StringLong("log", 'l', "", "Log file")
	optMonitor := getopt.BoolLong("monitor", 'm', "Start the interactive monitor")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.SetParameters("[code.obj heap.obj]")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	var logWriter io.Writer
	if *optLogFile != "" {
		file, err := os.Create(*optLogFile)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		logWriter = file
	}
	programLevel := new(slog.LevelVar)
	programLevel.Set(slog.LevelDebug)
	slog.SetDefault(slog.New(logger.NewHandler(logWriter, &slog.HandlerOptions{Level: programLevel}, false)))

	slog.Info("LC3 started")

	vm := core.New()

	if *optConfig != "" {
		cfg, err := config.LoadConfigFile(*optConfig)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		applyConfig(cfg)
	}

	// A code and heap image on the command line become one more
	// process, after any the configuration file declared.
	args := getopt.Args()
	switch len(args) {
	case 0:
	case 2:
		ok, err := kernel.CreateProc(args[0], args[1])
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	default:
		getopt.Usage()
		os.Exit(1)
	}

	if *optMonitor {
		reader.ConsoleReader(vm)
		os.Exit(0)
	}

	status := vm.Run()
	slog.Info("LC3 stopped", "status", status)
	os.Exit(status)
}

// Create the configured processes and turn on debug options.
func applyConfig(cfg *config.Config) {
	if cfg.LogFile != "" {
		file, err := os.Create(cfg.LogFile)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		debug.SetFile(file)
	}

	for module, opts := range cfg.Debug {
		if module != "CPU" {
			slog.Warn("Unknown debug module", "module", module)
			continue
		}
		for _, opt := range opts {
			if !cpu.Debug(opt) {
				slog.Warn("Unknown debug option", "option", opt)
			}
		}
	}

	for _, p := range cfg.Procs {
		ok, err := kernel.CreateProc(p.Code, p.Heap)
		if err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		if !ok {
			os.Exit(1)
		}
	}
}
