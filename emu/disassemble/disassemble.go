/*
 * LC3 - Instruction disassembler
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

package disassemble

import (
	"fmt"

	op "github.com/rcornwell/LC3/emu/opcodemap"
)

// Sign extend the low b bits of n.
func sext(n uint16, b int) int16 {
	if (n>>(b-1))&1 != 0 {
		return int16(n | (0xFFFF << b))
	}
	return int16(n)
}

// Disassemble one instruction word. Offsets are shown as signed
// decimals, the way the assembler accepts them.
func Disassemble(instr uint16) string {
	opc := instr >> 12
	dr := (instr >> 9) & 0x7
	sr1 := (instr >> 6) & 0x7
	off9 := sext(instr&0x1FF, 9)
	off6 := sext(instr&0x3F, 6)

	switch opc {
	case op.OpBR:
		cond := ""
		if instr&0x0800 != 0 {
			cond += "n"
		}
		if instr&0x0400 != 0 {
			cond += "z"
		}
		if instr&0x0200 != 0 {
			cond += "p"
		}
		return fmt.Sprintf("BR%s #%d", cond, off9)
	case op.OpADD, op.OpAND:
		if instr&0x20 != 0 {
			return fmt.Sprintf("%s R%d,R%d,#%d", op.OpNames[opc], dr, sr1, sext(instr&0x1F, 5))
		}
		return fmt.Sprintf("%s R%d,R%d,R%d", op.OpNames[opc], dr, sr1, instr&0x7)
	case op.OpNOT:
		return fmt.Sprintf("NOT R%d,R%d", dr, sr1)
	case op.OpLD, op.OpLDI, op.OpLEA, op.OpST, op.OpSTI:
		return fmt.Sprintf("%s R%d,#%d", op.OpNames[opc], dr, off9)
	case op.OpLDR, op.OpSTR:
		return fmt.Sprintf("%s R%d,R%d,#%d", op.OpNames[opc], dr, sr1, off6)
	case op.OpJSR:
		if instr&0x0800 != 0 {
			return fmt.Sprintf("JSR #%d", sext(instr&0x7FF, 11))
		}
		return fmt.Sprintf("JSRR R%d", sr1)
	case op.OpJMP:
		if sr1 == 7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", sr1)
	case op.OpRTI:
		return "RTI"
	case op.OpRES:
		return fmt.Sprintf(".FILL x%04X", instr)
	case op.OpTRAP:
		vec := instr & 0xFF
		if vec >= op.TrapGETC && vec <= op.TrapBRK {
			return op.TrapNames[vec-op.TrapGETC]
		}
		return fmt.Sprintf("TRAP x%02X", vec)
	}
	return fmt.Sprintf(".FILL x%04X", instr)
}
