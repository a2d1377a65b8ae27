/*
 * LC3 - CPU instruction execution
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
	dis "github.com/rcornwell/LC3/emu/disassemble"
	kern "github.com/rcornwell/LC3/emu/kernel"
	mem "github.com/rcornwell/LC3/emu/memory"
	op "github.com/rcornwell/LC3/emu/opcodemap"
	"github.com/rcornwell/LC3/util/debug"
)

/*
   The LC-3 is a 16 bit load/store machine. Every instruction is one
   word, opcode in the top 4 bits:

     BR    |0000|nzp|   PCoffset9    |
     ADD   |0001| DR|SR1|0|00|  SR2  |   or  |0001| DR|SR1|1| imm5 |
     LD    |0010| DR|   PCoffset9    |
     ST    |0011| SR|   PCoffset9    |
     JSR   |0100|1|     PCoffset11   |   or  |0100|0|00|BaseR|000000|
     AND   |0101| DR|SR1|0|00|  SR2  |   or  |0101| DR|SR1|1| imm5 |
     LDR   |0110| DR|BaseR| offset6  |
     STR   |0111| SR|BaseR| offset6  |
     NOT   |1001| DR|SR1|1 1 1 1 1 1 |
     LDI   |1010| DR|   PCoffset9    |
     STI   |1011| SR|   PCoffset9    |
     JMP   |1100|000|BaseR|000000    |
     LEA   |1110| DR|   PCoffset9    |
     TRAP  |1111|0000|   trapvect8   |

   All memory operands go through the page tables of the current
   process, so every fetch, load and store can fault.
*/

// Holds state of CPU.
var sysCPU cpuState

// Initialize CPU to basic state.
func InitializeCPU() {
	sysCPU.createTable()
	sysCPU.PC = 0
	sysCPU.cond = 0
	sysCPU.ptbr = 0
	sysCPU.halted = false
	for i := range sysCPU.regs {
		sysCPU.regs[i] = 0
	}
}

// Build the opcode dispatch table.
func (cpu *cpuState) createTable() {
	cpu.table = [16]func(uint16) Fault{
		op.OpBR:   cpu.opBR,
		op.OpADD:  cpu.opADD,
		op.OpLD:   cpu.opLD,
		op.OpST:   cpu.opST,
		op.OpJSR:  cpu.opJSR,
		op.OpAND:  cpu.opAND,
		op.OpLDR:  cpu.opLDR,
		op.OpSTR:  cpu.opSTR,
		op.OpRTI:  cpu.opNOP,
		op.OpNOT:  cpu.opNOT,
		op.OpLDI:  cpu.opLDI,
		op.OpSTI:  cpu.opSTI,
		op.OpJMP:  cpu.opJMP,
		op.OpRES:  cpu.opNOP,
		op.OpLEA:  cpu.opLEA,
		op.OpTRAP: cpu.opTRAP,
	}
}

// Set debug options.
func Debug(opt string) bool {
	d, ok := debugOption[opt]
	if !ok {
		return false
	}
	debugMsk |= d
	return true
}

// Register accessors for the monitor and tests.
func Register(n int) uint16 {
	return sysCPU.regs[n&7]
}

func SetRegister(n int, v uint16) {
	sysCPU.regs[n&7] = v
}

func PC() uint16 {
	return sysCPU.PC
}

func SetPC(pc uint16) {
	sysCPU.PC = pc
}

func PTBR() uint16 {
	return sysCPU.ptbr
}

func Cond() uint16 {
	return sysCPU.cond
}

// Translated read for the monitor, same checks as a guest load.
func ReadVirtual(addr uint16) (uint16, Fault) {
	return sysCPU.mr(addr)
}

// Make a process current and restore its context.
func LoadProc(pid uint16) {
	sysCPU.PC, sysCPU.ptbr = kern.LoadProc(pid)
}

// Sign extend the low b bits of n to 16 bits.
func sext(n uint16, b int) uint16 {
	if (n>>(b-1))&1 != 0 {
		return n | (0xFFFF << b)
	}
	return n
}

// Set the condition codes from a result register.
func (cpu *cpuState) setCC(r uint16) {
	switch {
	case cpu.regs[r] == 0:
		cpu.cond = flagZ
	case cpu.regs[r]>>15 != 0:
		cpu.cond = flagN
	default:
		cpu.cond = flagP
	}
}

// Translate a virtual address and read the word there. Every access
// below VPN 6 faults, as does a missing or read protected page.
func (cpu *cpuState) mr(addr uint16) (uint16, Fault) {
	vpn := addr >> vpnShift
	if vpn < reservedVPNs {
		return 0, FaultReserved
	}
	pte := mem.GetMemory(cpu.ptbr + vpn)
	if pte&pteValid == 0 {
		return 0, FaultUnmapped
	}
	if pte&pteRead == 0 {
		return 0, FaultNoRead
	}
	phys := ((pte>>pfnShift)&pfnMask)*mem.PageSize + (addr & offMask)
	debug.Debugf("CPU", debugMsk, debugMem, "rd %04x -> %04x", addr, phys)
	return mem.GetMemory(phys), FaultNone
}

// Translate a virtual address and write a word there.
func (cpu *cpuState) mw(addr, val uint16) Fault {
	vpn := addr >> vpnShift
	if vpn < reservedVPNs {
		return FaultReserved
	}
	pte := mem.GetMemory(cpu.ptbr + vpn)
	if pte&pteValid == 0 {
		return FaultUnmapped
	}
	if pte&pteWrite == 0 {
		return FaultNoWrite
	}
	phys := ((pte>>pfnShift)&pfnMask)*mem.PageSize + (addr & offMask)
	debug.Debugf("CPU", debugMsk, debugMem, "wr %04x -> %04x", addr, phys)
	mem.SetMemory(phys, val)
	return FaultNone
}

// Execute one instruction. The second result is false once the last
// process has halted.
func Step() (Fault, bool) {
	if sysCPU.halted {
		return FaultNone, false
	}
	instr, fault := sysCPU.mr(sysCPU.PC)
	if fault != FaultNone {
		return fault, true
	}
	if debugMsk&debugInst != 0 {
		debug.Debugf("CPU", debugMsk, debugInst, "%04x: %s", sysCPU.PC, dis.Disassemble(instr))
	}
	sysCPU.PC++
	fault = sysCPU.table[instr>>12](instr)
	return fault, !sysCPU.halted
}

func (cpu *cpuState) opBR(instr uint16) Fault {
	if cpu.cond&((instr>>9)&0x7) != 0 {
		cpu.PC += sext(instr&0x1FF, 9)
	}
	return FaultNone
}

func (cpu *cpuState) opADD(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	if instr&0x20 != 0 {
		cpu.regs[dr] = cpu.regs[sr1] + sext(instr&0x1F, 5)
	} else {
		cpu.regs[dr] = cpu.regs[sr1] + cpu.regs[instr&0x7]
	}
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opAND(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	if instr&0x20 != 0 {
		cpu.regs[dr] = cpu.regs[sr1] & sext(instr&0x1F, 5)
	} else {
		cpu.regs[dr] = cpu.regs[sr1] & cpu.regs[instr&0x7]
	}
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opNOT(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	cpu.regs[dr] = ^cpu.regs[(instr>>6)&0x7]
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opLD(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	v, fault := cpu.mr(cpu.PC + sext(instr&0x1FF, 9))
	if fault != FaultNone {
		return fault
	}
	cpu.regs[dr] = v
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opLDI(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	ptr, fault := cpu.mr(cpu.PC + sext(instr&0x1FF, 9))
	if fault != FaultNone {
		return fault
	}
	v, fault := cpu.mr(ptr)
	if fault != FaultNone {
		return fault
	}
	cpu.regs[dr] = v
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opLDR(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	base := (instr >> 6) & 0x7
	v, fault := cpu.mr(cpu.regs[base] + sext(instr&0x3F, 6))
	if fault != FaultNone {
		return fault
	}
	cpu.regs[dr] = v
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opLEA(instr uint16) Fault {
	dr := (instr >> 9) & 0x7
	cpu.regs[dr] = cpu.PC + sext(instr&0x1FF, 9)
	cpu.setCC(dr)
	return FaultNone
}

func (cpu *cpuState) opST(instr uint16) Fault {
	sr := (instr >> 9) & 0x7
	return cpu.mw(cpu.PC+sext(instr&0x1FF, 9), cpu.regs[sr])
}

func (cpu *cpuState) opSTI(instr uint16) Fault {
	sr := (instr >> 9) & 0x7
	ptr, fault := cpu.mr(cpu.PC + sext(instr&0x1FF, 9))
	if fault != FaultNone {
		return fault
	}
	return cpu.mw(ptr, cpu.regs[sr])
}

func (cpu *cpuState) opSTR(instr uint16) Fault {
	sr := (instr >> 9) & 0x7
	base := (instr >> 6) & 0x7
	return cpu.mw(cpu.regs[base]+sext(instr&0x3F, 6), cpu.regs[sr])
}

func (cpu *cpuState) opJSR(instr uint16) Fault {
	cpu.regs[7] = cpu.PC
	if instr&0x0800 != 0 {
		cpu.PC += sext(instr&0x7FF, 11)
	} else {
		cpu.PC = cpu.regs[(instr>>6)&0x7]
	}
	return FaultNone
}

func (cpu *cpuState) opJMP(instr uint16) Fault {
	cpu.PC = cpu.regs[(instr>>6)&0x7]
	return FaultNone
}

func (cpu *cpuState) opNOP(_ uint16) Fault {
	return FaultNone
}
