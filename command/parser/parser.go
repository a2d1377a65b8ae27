/*
 * LC3 - Monitor command parser
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

package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	core "github.com/rcornwell/LC3/emu/core"
	"github.com/rcornwell/LC3/emu/cpu"
	dis "github.com/rcornwell/LC3/emu/disassemble"
	kern "github.com/rcornwell/LC3/emu/kernel"
	mem "github.com/rcornwell/LC3/emu/memory"
	hex "github.com/rcornwell/LC3/util/hex"
)

type cmd struct {
	name    string // Command name.
	min     int    // Minimum match size.
	process func([]string, *core.Core) (bool, error)
}

var cmdList = []cmd{
	{name: "bitmap", min: 1, process: bitmap},
	{name: "create", min: 1, process: create},
	{name: "help", min: 1, process: help},
	{name: "mem", min: 1, process: memDump},
	{name: "ps", min: 2, process: ps},
	{name: "quit", min: 1, process: quit},
	{name: "regs", min: 3, process: regs},
	{name: "run", min: 3, process: run},
	{name: "step", min: 1, process: step},
}

// Execute the command line given.
func ProcessCommand(commandLine string, vm *core.Core) (bool, error) {
	fields := strings.Fields(commandLine)
	if len(fields) == 0 {
		return false, nil
	}

	match := matchList(fields[0])
	if len(match) == 0 {
		return false, errors.New("command not found: " + fields[0])
	}
	if len(match) > 1 {
		return false, errors.New("unique command not found: " + fields[0])
	}
	return match[0].process(fields[1:], vm)
}

// Called to complete a command line, during line editing.
func CompleteCmd(commandLine string) []string {
	if strings.ContainsRune(strings.TrimSpace(commandLine), ' ') {
		return nil
	}
	var matches []string
	for _, m := range matchList(strings.TrimSpace(commandLine)) {
		matches = append(matches, m.name)
	}
	return matches
}

// Find commands matching an abbreviated name.
func matchList(name string) []cmd {
	name = strings.ToLower(name)
	var match []cmd
	for _, c := range cmdList {
		if c.name == name {
			return []cmd{c}
		}
		if len(name) >= c.min && strings.HasPrefix(c.name, name) {
			match = append(match, c)
		}
	}
	return match
}

// Numbers accept a leading x for hex.
func parseNumber(tok string) (uint16, error) {
	t := strings.ToLower(tok)
	if strings.HasPrefix(t, "x") {
		v, err := strconv.ParseUint(t[1:], 16, 16)
		return uint16(v), err
	}
	v, err := strconv.ParseUint(t, 10, 16)
	return uint16(v), err
}

func quit(_ []string, _ *core.Core) (bool, error) {
	return true, nil
}

func help(_ []string, _ *core.Core) (bool, error) {
	fmt.Println("bitmap               show the free frame bitmap")
	fmt.Println("create <code> <heap> create a process from two images")
	fmt.Println("mem <addr> [count]   dump physical memory")
	fmt.Println("ps                   list the PCB table")
	fmt.Println("quit                 leave the monitor")
	fmt.Println("regs                 show CPU registers")
	fmt.Println("run                  run until the last process halts")
	fmt.Println("step [count]         execute instructions one at a time")
	return false, nil
}

func run(_ []string, vm *core.Core) (bool, error) {
	status := vm.Run()
	fmt.Printf("Machine stopped, status %d\n", status)
	return false, nil
}

func step(args []string, vm *core.Core) (bool, error) {
	count := uint16(1)
	if len(args) > 0 {
		n, err := parseNumber(args[0])
		if err != nil {
			return false, err
		}
		count = n
	}
	for ; count > 0; count-- {
		pc := cpu.PC()
		word, fault := cpu.ReadVirtual(pc)
		if fault == cpu.FaultNone {
			fmt.Printf("%04x: %s\n", pc, dis.Disassemble(word))
		}
		fault, running := vm.Step()
		if fault != cpu.FaultNone {
			fmt.Println(cpu.FaultMessage(fault))
			return false, nil
		}
		if !running {
			fmt.Println("All processes halted")
			return false, nil
		}
	}
	return false, nil
}

func regs(_ []string, _ *core.Core) (bool, error) {
	for i := range 8 {
		fmt.Printf("R%d=%04x ", i, cpu.Register(i))
	}
	fmt.Printf("\nPC=%04x COND=%d PTBR=%04x pid=%04x\n",
		cpu.PC(), cpu.Cond(), cpu.PTBR(), kern.CurrentPID())
	return false, nil
}

func ps(_ []string, _ *core.Core) (bool, error) {
	total := kern.ProcessCount()
	fmt.Printf("%d process(es), %d frame(s) free\n", total, kern.FreeFrames())
	for pid := uint16(0); pid < total; pid++ {
		state := "live"
		if kern.ProcessPID(pid) == kern.InvalidPID {
			state = "halted"
		}
		fmt.Printf("%4d  pc=%04x ptbr=%04x %s\n", pid, kern.ProcessPC(pid), kern.ProcessPTBR(pid), state)
	}
	return false, nil
}

func bitmap(_ []string, _ *core.Core) (bool, error) {
	fmt.Printf("bitmap=%08x free=%d\n", kern.Bitmap(), kern.FreeFrames())
	return false, nil
}

func create(args []string, _ *core.Core) (bool, error) {
	if len(args) != 2 {
		return false, errors.New("create needs a code image and a heap image")
	}
	ok, err := kern.CreateProc(args[0], args[1])
	if err != nil {
		return false, err
	}
	if ok {
		fmt.Printf("Created process %d\n", kern.ProcessCount()-1)
	}
	return false, nil
}

func memDump(args []string, _ *core.Core) (bool, error) {
	if len(args) < 1 {
		return false, errors.New("mem needs an address")
	}
	addr, err := parseNumber(args[0])
	if err != nil {
		return false, err
	}
	count := uint16(8)
	if len(args) > 1 {
		if count, err = parseNumber(args[1]); err != nil {
			return false, err
		}
	}
	for count > 0 {
		n := min(count, 8)
		row := make([]uint16, n)
		for i := range row {
			row[i] = mem.GetMemory(addr + uint16(i))
		}
		var line strings.Builder
		hex.FormatAddr(&line, addr)
		line.WriteByte(' ')
		hex.FormatWords(&line, row)
		fmt.Println(line.String())
		addr += n
		count -= n
	}
	return false, nil
}
