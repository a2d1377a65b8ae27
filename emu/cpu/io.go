/*
 * LC3 - Trap dispatch and host I/O
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

package cpu

import (
	"bufio"
	"fmt"
	"os"

	"golang.org/x/term"

	kern "github.com/rcornwell/LC3/emu/kernel"
	mem "github.com/rcornwell/LC3/emu/memory"
	op "github.com/rcornwell/LC3/emu/opcodemap"
	"github.com/rcornwell/LC3/util/debug"
)

var hostIn = bufio.NewReader(os.Stdin)

// Dispatch an operating system request. Vectors outside the table
// are fatal, there is nothing at those addresses to run.
func (cpu *cpuState) opTRAP(instr uint16) Fault {
	vec := instr & 0xFF
	if vec < op.TrapGETC || vec > op.TrapBRK {
		return FaultBadTrap
	}
	debug.Debugf("CPU", debugMsk, debugTrap, "%s pid %d", op.TrapNames[vec-op.TrapGETC], kern.CurrentPID())

	switch vec {
	case op.TrapGETC:
		cpu.regs[0] = uint16(readKey())
	case op.TrapOUT:
		fmt.Fprintf(kern.Console, "%c", byte(cpu.regs[0]))
	case op.TrapPUTS:
		// Strings are written from physical memory, the pointer in
		// R0 is not translated.
		for p := cpu.regs[0]; mem.GetMemory(p) != 0; p++ {
			fmt.Fprintf(kern.Console, "%c", byte(mem.GetMemory(p)))
		}
	case op.TrapIN:
		cpu.regs[0] = uint16(readKey())
		fmt.Fprintf(kern.Console, "%c", byte(cpu.regs[0]))
	case op.TrapPUTSP:
		// Not implemented.
	case op.TrapHALT:
		cpu.thalt()
	case op.TrapINU16:
		var v uint16
		fmt.Fscanf(hostIn, "%d", &v)
		cpu.regs[0] = v
	case op.TrapOUTU16:
		fmt.Fprintf(kern.Console, "%d\n", cpu.regs[0])
	case op.TrapYIELD:
		cpu.tyld()
	case op.TrapBRK:
		kern.Brk(cpu.regs[0], cpu.ptbr)
	}
	return FaultNone
}

// Read one byte from the host keyboard. On a terminal the read is
// raw, a single keypress with no echo and no line buffering.
func readKey() byte {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		old, err := term.MakeRaw(fd)
		if err == nil {
			defer term.Restore(fd, old)
			var b [1]byte
			if _, err := os.Stdin.Read(b[:]); err == nil {
				return b[0]
			}
			return 0
		}
	}
	b, err := hostIn.ReadByte()
	if err != nil {
		return 0
	}
	return b
}

// Hand the CPU to the next runnable process.
func (cpu *cpuState) tyld() {
	pc, ptbr, switched := kern.Yield(cpu.PC)
	if switched {
		cpu.PC = pc
		cpu.ptbr = ptbr
	}
}

// Terminate the current process. When nothing is left to run the
// machine stops.
func (cpu *cpuState) thalt() {
	pc, ptbr, running := kern.Halt()
	if !running {
		cpu.halted = true
		return
	}
	cpu.PC = pc
	cpu.ptbr = ptbr
}
