/*
   Core LC3 emulator loop.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   THE AUTHORS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.

*/

package core

import (
	"fmt"
	"log/slog"

	"github.com/rcornwell/LC3/emu/cpu"
	kern "github.com/rcornwell/LC3/emu/kernel"
)

// The machine is strictly sequential, one interpreter thread runs
// guest processes until every one of them has halted. A guest fault
// stops the whole machine with a diagnostic and a non zero status.
type Core struct {
	started bool
}

// Create a fresh machine: cleared memory, OS header initialized,
// no processes.
func New() *Core {
	kern.InitOS()
	cpu.InitializeCPU()
	return &Core{}
}

// Load the first live process and run until the last one halts.
// Returns the process exit status for the host.
func (vm *Core) Run() int {
	if !vm.start() {
		slog.Warn("No process to run")
		return 0
	}
	for {
		fault, running := cpu.Step()
		if fault != cpu.FaultNone {
			fmt.Fprintln(kern.Console, cpu.FaultMessage(fault))
			return 1
		}
		if !running {
			return 0
		}
	}
}

// Execute a single instruction for the monitor. The returned fault
// is FaultNone on a normal step; running turns false when the last
// process halts.
func (vm *Core) Step() (cpu.Fault, bool) {
	if !vm.start() {
		return cpu.FaultNone, false
	}
	return cpu.Step()
}

// Make sure some process is loaded before the first instruction.
func (vm *Core) start() bool {
	if vm.started {
		return true
	}
	total := kern.ProcessCount()
	for pid := uint16(0); pid < total; pid++ {
		if kern.ProcessPID(pid) != kern.InvalidPID {
			cpu.LoadProc(pid)
			vm.started = true
			return true
		}
	}
	return false
}
