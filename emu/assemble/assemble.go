/*
 * LC3 - Two pass assembler
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

package assemble

import (
	"fmt"
	"strconv"
	"strings"

	op "github.com/rcornwell/LC3/emu/opcodemap"
)

// Operand layouts.
const (
	tyReg = 1 + iota // DR,SR1,SR2 or DR,SR1,imm5
	tyNot            // DR,SR
	tyPC9            // DR,PCoffset9
	tyBase           // DR,BaseR,offset6
	tyBR             // nzp mask + PCoffset9
	tyJSR            // PCoffset11 or BaseR
	tyJMP            // BaseR
	tyTrap           // 8 bit vector
	tyNone           // No operands
)

type opcode struct {
	opCode uint16 // Base instruction word.
	opType int    // Operand layout.
}

var opMap = map[string]opcode{
	"ADD":  {uint16(op.OpADD) << 12, tyReg},
	"AND":  {uint16(op.OpAND) << 12, tyReg},
	"NOT":  {uint16(op.OpNOT)<<12 | 0x3F, tyNot},
	"LD":   {uint16(op.OpLD) << 12, tyPC9},
	"LDI":  {uint16(op.OpLDI) << 12, tyPC9},
	"LEA":  {uint16(op.OpLEA) << 12, tyPC9},
	"ST":   {uint16(op.OpST) << 12, tyPC9},
	"STI":  {uint16(op.OpSTI) << 12, tyPC9},
	"LDR":  {uint16(op.OpLDR) << 12, tyBase},
	"STR":  {uint16(op.OpSTR) << 12, tyBase},
	"JSR":  {uint16(op.OpJSR)<<12 | 0x0800, tyJSR},
	"JSRR": {uint16(op.OpJSR) << 12, tyJMP},
	"JMP":  {uint16(op.OpJMP) << 12, tyJMP},
	"RET":  {uint16(op.OpJMP)<<12 | 7<<6, tyNone},
	"RTI":  {uint16(op.OpRTI) << 12, tyNone},
	"TRAP": {uint16(op.OpTRAP) << 12, tyTrap},

	// Named traps.
	"GETC":   {uint16(op.OpTRAP)<<12 | op.TrapGETC, tyNone},
	"OUT":    {uint16(op.OpTRAP)<<12 | op.TrapOUT, tyNone},
	"PUTS":   {uint16(op.OpTRAP)<<12 | op.TrapPUTS, tyNone},
	"IN":     {uint16(op.OpTRAP)<<12 | op.TrapIN, tyNone},
	"PUTSP":  {uint16(op.OpTRAP)<<12 | op.TrapPUTSP, tyNone},
	"HALT":   {uint16(op.OpTRAP)<<12 | op.TrapHALT, tyNone},
	"INU16":  {uint16(op.OpTRAP)<<12 | op.TrapINU16, tyNone},
	"OUTU16": {uint16(op.OpTRAP)<<12 | op.TrapOUTU16, tyNone},
	"YIELD":  {uint16(op.OpTRAP)<<12 | op.TrapYIELD, tyNone},
	"BRK":    {uint16(op.OpTRAP)<<12 | op.TrapBRK, tyNone},
}

// One source statement after pass one.
type statement struct {
	lineNo int
	fields []string // Mnemonic or directive plus operands.
	addr   uint16
}

type assembler struct {
	origin  uint16
	pc      uint16
	symbols map[string]uint16
	stmts   []statement
}

// Assemble a complete source text. Returns the image words and the
// origin address.
func Assemble(src string) ([]uint16, uint16, error) {
	asm := assembler{origin: 0x3000, symbols: map[string]uint16{}}
	if err := asm.passOne(src); err != nil {
		return nil, 0, err
	}
	words, err := asm.passTwo()
	if err != nil {
		return nil, 0, err
	}
	return words, asm.origin, nil
}

// First pass, split lines into statements, assign addresses and
// collect label definitions.
func (asm *assembler) passOne(src string) error {
	sawOrig := false
	for lineNo, line := range strings.Split(src, "\n") {
		fields, err := tokenize(line)
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo+1, err)
		}
		if len(fields) == 0 {
			continue
		}

		// A leading token that is neither opcode nor directive is a
		// label definition.
		if _, ok := opMap[strings.ToUpper(fields[0])]; !ok && !strings.HasPrefix(fields[0], ".") && !isBranch(strings.ToUpper(fields[0])) {
			name := strings.ToUpper(fields[0])
			if _, dup := asm.symbols[name]; dup {
				return fmt.Errorf("line %d: duplicate label %s", lineNo+1, fields[0])
			}
			asm.symbols[name] = asm.pc
			fields = fields[1:]
			if len(fields) == 0 {
				continue
			}
		}

		key := strings.ToUpper(fields[0])
		switch key {
		case ".ORIG":
			if len(fields) != 2 {
				return fmt.Errorf("line %d: .ORIG needs an address", lineNo+1)
			}
			v, err := parseNumber(fields[1])
			if err != nil {
				return fmt.Errorf("line %d: %w", lineNo+1, err)
			}
			asm.origin = v
			asm.pc = v
			sawOrig = true
			continue
		case ".END":
			asm.stmts = append(asm.stmts, statement{lineNo: lineNo + 1, fields: fields, addr: asm.pc})
			return nil
		}
		if !sawOrig {
			return fmt.Errorf("line %d: statement before .ORIG", lineNo+1)
		}

		st := statement{lineNo: lineNo + 1, fields: fields, addr: asm.pc}
		asm.stmts = append(asm.stmts, st)
		asm.pc += statementSize(fields)
	}
	return nil
}

// Words a statement will occupy.
func statementSize(fields []string) uint16 {
	switch strings.ToUpper(fields[0]) {
	case ".FILL":
		return 1
	case ".BLKW":
		if len(fields) > 1 {
			if n, err := parseNumber(fields[1]); err == nil {
				return n
			}
		}
		return 0
	case ".STRINGZ":
		if len(fields) > 1 {
			return uint16(len(fields[1]) + 1)
		}
		return 0
	case ".END":
		return 0
	}
	return 1
}

// Second pass, encode every statement.
func (asm *assembler) passTwo() ([]uint16, error) {
	var words []uint16
	for _, st := range asm.stmts {
		key := strings.ToUpper(st.fields[0])
		switch key {
		case ".END":
			return words, nil
		case ".FILL", ".BLKW", ".STRINGZ":
			if len(st.fields) != 2 {
				return nil, fmt.Errorf("line %d: %s needs one operand", st.lineNo, key)
			}
			switch key {
			case ".FILL":
				v, err := asm.value(st.fields[1], st)
				if err != nil {
					return nil, err
				}
				words = append(words, v)
			case ".BLKW":
				n, err := parseNumber(st.fields[1])
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", st.lineNo, err)
				}
				words = append(words, make([]uint16, n)...)
			case ".STRINGZ":
				for _, c := range st.fields[1] {
					words = append(words, uint16(c))
				}
				words = append(words, 0)
			}
			continue
		}

		w, err := asm.encode(st)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// Encode one instruction.
func (asm *assembler) encode(st statement) (uint16, error) {
	key := strings.ToUpper(st.fields[0])
	args := st.fields[1:]

	// BR with optional condition suffix.
	if isBranch(key) {
		return asm.encodeBR(key, args, st)
	}

	opc, ok := opMap[key]
	if !ok {
		return 0, fmt.Errorf("line %d: unknown opcode %s", st.lineNo, st.fields[0])
	}

	switch opc.opType {
	case tyNone:
		return opc.opCode, nil

	case tyReg:
		if len(args) != 3 {
			return 0, fmt.Errorf("line %d: %s needs three operands", st.lineNo, key)
		}
		dr, err := register(args[0], st)
		if err != nil {
			return 0, err
		}
		sr1, err := register(args[1], st)
		if err != nil {
			return 0, err
		}
		if sr2, err := register(args[2], st); err == nil {
			return opc.opCode | dr<<9 | sr1<<6 | sr2, nil
		}
		imm, err := asm.immediate(args[2], 5, st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | dr<<9 | sr1<<6 | 0x20 | imm, nil

	case tyNot:
		if len(args) != 2 {
			return 0, fmt.Errorf("line %d: NOT needs two operands", st.lineNo)
		}
		dr, err := register(args[0], st)
		if err != nil {
			return 0, err
		}
		sr, err := register(args[1], st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | dr<<9 | sr<<6, nil

	case tyPC9:
		if len(args) != 2 {
			return 0, fmt.Errorf("line %d: %s needs two operands", st.lineNo, key)
		}
		dr, err := register(args[0], st)
		if err != nil {
			return 0, err
		}
		off, err := asm.pcOffset(args[1], 9, st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | dr<<9 | off, nil

	case tyBase:
		if len(args) != 3 {
			return 0, fmt.Errorf("line %d: %s needs three operands", st.lineNo, key)
		}
		dr, err := register(args[0], st)
		if err != nil {
			return 0, err
		}
		base, err := register(args[1], st)
		if err != nil {
			return 0, err
		}
		off, err := asm.immediate(args[2], 6, st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | dr<<9 | base<<6 | off, nil

	case tyJSR:
		if len(args) != 1 {
			return 0, fmt.Errorf("line %d: JSR needs one operand", st.lineNo)
		}
		off, err := asm.pcOffset(args[0], 11, st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | off, nil

	case tyJMP:
		if len(args) != 1 {
			return 0, fmt.Errorf("line %d: %s needs one operand", st.lineNo, key)
		}
		base, err := register(args[0], st)
		if err != nil {
			return 0, err
		}
		return opc.opCode | base<<6, nil

	case tyTrap:
		if len(args) != 1 {
			return 0, fmt.Errorf("line %d: TRAP needs a vector", st.lineNo)
		}
		vec, err := parseNumber(args[0])
		if err != nil {
			return 0, fmt.Errorf("line %d: %w", st.lineNo, err)
		}
		return opc.opCode | vec&0xFF, nil
	}
	return 0, fmt.Errorf("line %d: unknown opcode %s", st.lineNo, st.fields[0])
}

// True for BR and its condition suffixed forms, up to BRnzp.
func isBranch(key string) bool {
	if !strings.HasPrefix(key, "BR") || len(key) > 5 {
		return false
	}
	for _, c := range key[2:] {
		if c != 'N' && c != 'Z' && c != 'P' {
			return false
		}
	}
	return true
}

// BR, BRn, BRz, BRp and combinations. Bare BR branches always.
func (asm *assembler) encodeBR(key string, args []string, st statement) (uint16, error) {
	var mask uint16
	for _, c := range key[2:] {
		switch c {
		case 'N':
			mask |= 0x0800
		case 'Z':
			mask |= 0x0400
		case 'P':
			mask |= 0x0200
		}
	}
	if mask == 0 {
		mask = 0x0E00
	}
	if len(args) != 1 {
		return 0, fmt.Errorf("line %d: %s needs one operand", st.lineNo, key)
	}
	off, err := asm.pcOffset(args[0], 9, st)
	if err != nil {
		return 0, err
	}
	return uint16(op.OpBR)<<12 | mask | off, nil
}

// A register operand.
func register(tok string, st statement) (uint16, error) {
	t := strings.ToUpper(tok)
	if len(t) == 2 && t[0] == 'R' && t[1] >= '0' && t[1] <= '7' {
		return uint16(t[1] - '0'), nil
	}
	return 0, fmt.Errorf("line %d: not a register: %s", st.lineNo, tok)
}

// A literal immediate limited to b bits.
func (asm *assembler) immediate(tok string, b int, st statement) (uint16, error) {
	v, err := parseSigned(tok)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", st.lineNo, err)
	}
	if v < -(1<<(b-1)) || v >= 1<<(b-1) {
		return 0, fmt.Errorf("line %d: immediate %s does not fit in %d bits", st.lineNo, tok, b)
	}
	return uint16(v) & (1<<b - 1), nil
}

// A PC relative offset, a literal or a label.
func (asm *assembler) pcOffset(tok string, b int, st statement) (uint16, error) {
	if addr, ok := asm.symbols[strings.ToUpper(tok)]; ok {
		off := int(addr) - int(st.addr) - 1
		if off < -(1<<(b-1)) || off >= 1<<(b-1) {
			return 0, fmt.Errorf("line %d: %s is out of branch range", st.lineNo, tok)
		}
		return uint16(off) & (1<<b - 1), nil
	}
	return asm.immediate(tok, b, st)
}

// A .FILL value, a number or a label address.
func (asm *assembler) value(tok string, st statement) (uint16, error) {
	if addr, ok := asm.symbols[strings.ToUpper(tok)]; ok {
		return addr, nil
	}
	v, err := parseSigned(tok)
	if err != nil {
		return 0, fmt.Errorf("line %d: %w", st.lineNo, err)
	}
	return uint16(v), nil
}

// Numbers are #decimal, xHEX or bare decimal.
func parseSigned(tok string) (int, error) {
	t := strings.ToUpper(strings.TrimPrefix(tok, "#"))
	if strings.HasPrefix(t, "X") {
		v, err := strconv.ParseInt(t[1:], 16, 32)
		if err != nil {
			return 0, fmt.Errorf("bad number %s", tok)
		}
		return int(v), nil
	}
	v, err := strconv.ParseInt(t, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("bad number %s", tok)
	}
	return int(v), nil
}

func parseNumber(tok string) (uint16, error) {
	v, err := parseSigned(tok)
	if err != nil {
		return 0, err
	}
	return uint16(v), nil
}

// Split a source line into fields. Comments start with ';'. The
// argument of .STRINGZ keeps its spaces.
func tokenize(line string) ([]string, error) {
	if i := strings.IndexByte(line, ';'); i >= 0 {
		line = line[:i]
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return nil, nil
	}

	if i := strings.IndexByte(line, '"'); i >= 0 {
		j := strings.LastIndexByte(line, '"')
		if j == i {
			return nil, fmt.Errorf("unterminated string")
		}
		head := strings.FieldsFunc(line[:i], isSep)
		return append(head, line[i+1:j]), nil
	}
	return strings.FieldsFunc(line, isSep), nil
}

func isSep(r rune) bool {
	return r == ' ' || r == '\t' || r == ','
}
