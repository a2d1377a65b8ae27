/*
 * LC3 - Opcode and trap vector numbering
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

package opcodemap

// Opcode is the top 4 bits of each instruction word.
const (
	OpBR   = 0x0 // Conditional branch
	OpADD  = 0x1 // Add register or immediate
	OpLD   = 0x2 // Load PC relative
	OpST   = 0x3 // Store PC relative
	OpJSR  = 0x4 // Jump subroutine, JSRR when bit 11 clear
	OpAND  = 0x5 // And register or immediate
	OpLDR  = 0x6 // Load base plus offset
	OpSTR  = 0x7 // Store base plus offset
	OpRTI  = 0x8 // Unused on this machine
	OpNOT  = 0x9 // Complement register
	OpLDI  = 0xA // Load indirect
	OpSTI  = 0xB // Store indirect
	OpJMP  = 0xC // Jump to register, RET when base is R7
	OpRES  = 0xD // Reserved
	OpLEA  = 0xE // Load effective address
	OpTRAP = 0xF // Operating system request
)

// Trap vectors, low 8 bits of a TRAP instruction.
const (
	TrapGETC   = 0x20 // Read one character, no echo
	TrapOUT    = 0x21 // Write one character
	TrapPUTS   = 0x22 // Write NUL terminated string
	TrapIN     = 0x23 // Read one character with echo
	TrapPUTSP  = 0x24 // Write packed string, not implemented
	TrapHALT   = 0x25 // Terminate current process
	TrapINU16  = 0x26 // Read decimal number
	TrapOUTU16 = 0x27 // Write decimal number
	TrapYIELD  = 0x28 // Give up CPU to next process
	TrapBRK    = 0x29 // Map or unmap a heap page
)

// Names indexed by opcode, for tracing and the monitor.
var OpNames = [16]string{
	"BR", "ADD", "LD", "ST", "JSR", "AND", "LDR", "STR",
	"RTI", "NOT", "LDI", "STI", "JMP", "RES", "LEA", "TRAP",
}

// Trap names indexed by vector - TrapGETC.
var TrapNames = [10]string{
	"GETC", "OUT", "PUTS", "IN", "PUTSP", "HALT", "INU16", "OUTU16", "YIELD", "BRK",
}
