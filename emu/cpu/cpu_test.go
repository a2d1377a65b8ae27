/*
 * LC3 - CPU tests
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
	"bytes"
	"testing"

	kern "github.com/rcornwell/LC3/emu/kernel"
	mem "github.com/rcornwell/LC3/emu/memory"
)

// The tests run with a hand built page table at 0x1000:
// VPN 6 -> frame 3 read only (code), VPN 7 -> frame 4 read only,
// VPN 8 -> frame 5 read/write (heap), VPN 9 -> frame 6 write only.
func setup() {
	mem.Reset()
	InitializeCPU()
	sysCPU.ptbr = 0x1000
	mem.SetMemory(0x1000+6, 3<<pfnShift|pteRead|pteValid)
	mem.SetMemory(0x1000+7, 4<<pfnShift|pteRead|pteValid)
	mem.SetMemory(0x1000+8, 5<<pfnShift|pteRead|pteWrite|pteValid)
	mem.SetMemory(0x1000+9, 6<<pfnShift|pteWrite|pteValid)
	sysCPU.PC = 0x3000
}

// Physical location backing a test virtual address.
func phys(addr uint16) uint16 {
	frame := map[uint16]uint16{6: 3, 7: 4, 8: 5, 9: 6}[addr>>vpnShift]
	return frame*mem.PageSize + (addr & offMask)
}

// Place an instruction at the current PC.
func instr(w uint16) {
	mem.SetMemory(phys(sysCPU.PC), w)
}

// Run one instruction expecting no fault.
func step(t *testing.T) {
	t.Helper()
	fault, running := Step()
	if fault != FaultNone {
		t.Fatalf("unexpected fault %d: %s", fault, FaultMessage(fault))
	}
	if !running {
		t.Fatal("machine stopped")
	}
}

func TestADDRegister(t *testing.T) {
	setup()
	sysCPU.regs[2] = 5
	sysCPU.regs[3] = 7
	instr(0x1283) // ADD R1,R2,R3
	step(t)
	if r := sysCPU.regs[1]; r != 12 {
		t.Errorf("R1 got: %d expected: 12", r)
	}
	if sysCPU.cond != flagP {
		t.Errorf("cond got: %d expected: P", sysCPU.cond)
	}
}

func TestADDImmediate(t *testing.T) {
	setup()
	sysCPU.regs[2] = 1
	instr(0x12BF) // ADD R1,R2,#-1
	step(t)
	if r := sysCPU.regs[1]; r != 0 {
		t.Errorf("R1 got: %d expected: 0", r)
	}
	if sysCPU.cond != flagZ {
		t.Errorf("cond got: %d expected: Z", sysCPU.cond)
	}
}

func TestADDNegative(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0
	instr(0x12BF) // ADD R1,R2,#-1
	step(t)
	if r := sysCPU.regs[1]; r != 0xFFFF {
		t.Errorf("R1 got: %04x expected: ffff", r)
	}
	if sysCPU.cond != flagN {
		t.Errorf("cond got: %d expected: N", sysCPU.cond)
	}
}

func TestADDWraps(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0xFFFF
	sysCPU.regs[3] = 2
	instr(0x1283) // ADD R1,R2,R3
	step(t)
	if r := sysCPU.regs[1]; r != 1 {
		t.Errorf("R1 got: %04x expected: 1", r)
	}
}

func TestAND(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0xF0F0
	sysCPU.regs[3] = 0xFF00
	instr(0x5283) // AND R1,R2,R3
	step(t)
	if r := sysCPU.regs[1]; r != 0xF000 {
		t.Errorf("R1 got: %04x expected: f000", r)
	}
}

func TestNOT(t *testing.T) {
	setup()
	sysCPU.regs[5] = 0x00FF
	instr(0x997F) // NOT R4,R5
	step(t)
	if r := sysCPU.regs[4]; r != 0xFF00 {
		t.Errorf("R4 got: %04x expected: ff00", r)
	}
	if sysCPU.cond != flagN {
		t.Errorf("cond got: %d expected: N", sysCPU.cond)
	}
}

func TestBRTaken(t *testing.T) {
	setup()
	sysCPU.cond = flagZ
	instr(0x0405) // BRz #5
	step(t)
	if sysCPU.PC != 0x3006 {
		t.Errorf("PC got: %04x expected: 3006", sysCPU.PC)
	}
}

func TestBRNotTaken(t *testing.T) {
	setup()
	sysCPU.cond = flagP
	instr(0x0405) // BRz #5
	step(t)
	if sysCPU.PC != 0x3001 {
		t.Errorf("PC got: %04x expected: 3001", sysCPU.PC)
	}
}

func TestBRBackward(t *testing.T) {
	setup()
	sysCPU.PC = 0x3009
	sysCPU.cond = flagP
	instr(0x03FB) // BRp #-5
	step(t)
	if sysCPU.PC != 0x3005 {
		t.Errorf("PC got: %04x expected: 3005", sysCPU.PC)
	}
}

// Fresh machine has no condition codes set, so no branch is taken.
func TestBRInitial(t *testing.T) {
	setup()
	instr(0x0E05) // BRnzp #5
	step(t)
	if sysCPU.PC != 0x3001 {
		t.Errorf("PC got: %04x expected: 3001", sysCPU.PC)
	}
}

// Run code out of the heap page so the PC relative targets are
// writable.
func TestLDAndST(t *testing.T) {
	setup()
	sysCPU.PC = 0x4000
	sysCPU.regs[1] = 0xBEEF
	instr(0x327F) // ST R1,#127
	step(t)
	if r := mem.GetMemory(phys(0x4080)); r != 0xBEEF {
		t.Errorf("stored word got: %04x expected: beef", r)
	}
	instr(0x247E) // LD R2,#126
	step(t)
	if r := sysCPU.regs[2]; r != 0xBEEF {
		t.Errorf("R2 got: %04x expected: beef", r)
	}
	if sysCPU.cond != flagN {
		t.Errorf("cond got: %d expected: N", sysCPU.cond)
	}
}

// Store then load through a base register, and check the word lives
// at the translated physical address.
func TestLDRAndSTR(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x4100
	sysCPU.regs[1] = 0x1234
	instr(0x7282) // STR R1,R2,#2
	step(t)
	if r := mem.GetMemory(phys(0x4102)); r != 0x1234 {
		t.Errorf("physical word got: %04x expected: 1234", r)
	}
	instr(0x6682) // LDR R3,R2,#2
	step(t)
	if r := sysCPU.regs[3]; r != 0x1234 {
		t.Errorf("R3 got: %04x expected: 1234", r)
	}
}

func TestLDIAndSTI(t *testing.T) {
	setup()
	// Pointer at x4000 targets x4123.
	mem.SetMemory(phys(0x4000), 0x4123)
	sysCPU.regs[1] = 0xCAFE
	sysCPU.PC = 0x4080
	instr(0xB37F) // STI R1,#-129 -> pointer at x4000
	step(t)
	if r := mem.GetMemory(phys(0x4123)); r != 0xCAFE {
		t.Errorf("physical word got: %04x expected: cafe", r)
	}
	instr(0xA57E) // LDI R2,#-130 -> pointer at x4000
	step(t)
	if r := sysCPU.regs[2]; r != 0xCAFE {
		t.Errorf("R2 got: %04x expected: cafe", r)
	}
}

func TestLEA(t *testing.T) {
	setup()
	instr(0xE405) // LEA R2,#5
	step(t)
	if r := sysCPU.regs[2]; r != 0x3006 {
		t.Errorf("R2 got: %04x expected: 3006", r)
	}
}

func TestJSR(t *testing.T) {
	setup()
	instr(0x4805) // JSR #5
	step(t)
	if sysCPU.regs[7] != 0x3001 {
		t.Errorf("R7 got: %04x expected: 3001", sysCPU.regs[7])
	}
	if sysCPU.PC != 0x3006 {
		t.Errorf("PC got: %04x expected: 3006", sysCPU.PC)
	}
}

func TestJSRR(t *testing.T) {
	setup()
	sysCPU.regs[3] = 0x3100
	instr(0x40C0) // JSRR R3
	step(t)
	if sysCPU.regs[7] != 0x3001 {
		t.Errorf("R7 got: %04x expected: 3001", sysCPU.regs[7])
	}
	if sysCPU.PC != 0x3100 {
		t.Errorf("PC got: %04x expected: 3100", sysCPU.PC)
	}
}

func TestJMP(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x3456
	instr(0xC080) // JMP R2
	step(t)
	if sysCPU.PC != 0x3456 {
		t.Errorf("PC got: %04x expected: 3456", sysCPU.PC)
	}
}

// Reserved opcodes execute as no-ops.
func TestReserved(t *testing.T) {
	setup()
	instr(0x8000) // RTI
	step(t)
	if sysCPU.PC != 0x3001 {
		t.Errorf("PC got: %04x expected: 3001", sysCPU.PC)
	}
	instr(0xD000)
	step(t)
	if sysCPU.PC != 0x3002 {
		t.Errorf("PC got: %04x expected: 3002", sysCPU.PC)
	}
}

// Reads and writes below VPN 6 are reserved region faults.
func TestFaultReserved(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x2FFF
	instr(0x6680) // LDR R3,R2,#0
	fault, _ := Step()
	if fault != FaultReserved {
		t.Errorf("fault got: %d expected: FaultReserved", fault)
	}
	if FaultMessage(fault) != "Segmentation fault." {
		t.Errorf("message got: %q", FaultMessage(fault))
	}
}

// Access to a page with no valid PTE.
func TestFaultUnmapped(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x5800
	instr(0x6680) // LDR R3,R2,#0
	fault, _ := Step()
	if fault != FaultUnmapped {
		t.Errorf("fault got: %d expected: FaultUnmapped", fault)
	}
	if FaultMessage(fault) != "Segmentation fault inside free space." {
		t.Errorf("message got: %q", FaultMessage(fault))
	}
}

// Writing a read only page.
func TestFaultWriteCode(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x3000
	instr(0x7280) // STR R1,R2,#0
	fault, _ := Step()
	if fault != FaultNoWrite {
		t.Errorf("fault got: %d expected: FaultNoWrite", fault)
	}
	if FaultMessage(fault) != "Cannot write to a read-only page." {
		t.Errorf("message got: %q", FaultMessage(fault))
	}
}

// Reading a write only page.
func TestFaultReadWriteOnly(t *testing.T) {
	setup()
	sysCPU.regs[2] = 0x4800
	instr(0x6680) // LDR R3,R2,#0
	fault, _ := Step()
	if fault != FaultNoRead {
		t.Errorf("fault got: %d expected: FaultNoRead", fault)
	}
	if FaultMessage(fault) != "Cannot read from a write-only page." {
		t.Errorf("message got: %q", FaultMessage(fault))
	}
}

// Fetching from an unmapped page faults too.
func TestFaultFetch(t *testing.T) {
	setup()
	sysCPU.PC = 0x5800
	fault, _ := Step()
	if fault != FaultUnmapped {
		t.Errorf("fault got: %d expected: FaultUnmapped", fault)
	}
}

// A trap vector outside the table is fatal.
func TestFaultBadTrap(t *testing.T) {
	setup()
	instr(0xF000) // TRAP x00
	fault, _ := Step()
	if fault != FaultBadTrap {
		t.Errorf("fault got: %d expected: FaultBadTrap", fault)
	}
}

// OUT and OUTU16 write to the console.
func TestTrapOut(t *testing.T) {
	setup()
	buf := &bytes.Buffer{}
	old := kern.Console
	kern.Console = buf
	defer func() { kern.Console = old }()

	sysCPU.regs[0] = 'A'
	instr(0xF021) // OUT
	step(t)
	sysCPU.regs[0] = 1234
	instr(0xF027) // OUTU16
	step(t)
	if got := buf.String(); got != "A1234\n" {
		t.Errorf("console got: %q expected: %q", got, "A1234\n")
	}
}

// PUTS walks physical memory from R0 with no translation.
func TestTrapPuts(t *testing.T) {
	setup()
	buf := &bytes.Buffer{}
	old := kern.Console
	kern.Console = buf
	defer func() { kern.Console = old }()

	for i, c := range "Hello" {
		mem.SetMemory(0x0200+uint16(i), uint16(c))
	}
	sysCPU.regs[0] = 0x0200
	instr(0xF022) // PUTS
	step(t)
	if got := buf.String(); got != "Hello" {
		t.Errorf("console got: %q expected: %q", got, "Hello")
	}
}

// Sign extension widths used by the decoder.
func TestSext(t *testing.T) {
	cases := []struct {
		n    uint16
		b    int
		want uint16
	}{
		{0x1F, 5, 0xFFFF},
		{0x0F, 5, 0x000F},
		{0x1FF, 9, 0xFFFF},
		{0x0FF, 9, 0x00FF},
		{0x7FF, 11, 0xFFFF},
		{0x3FF, 11, 0x03FF},
		{0x20, 6, 0xFFE0},
	}
	for _, c := range cases {
		if r := sext(c.n, c.b); r != c.want {
			t.Errorf("sext(%04x,%d) got: %04x expected: %04x", c.n, c.b, r, c.want)
		}
	}
}
