package memory

/*
 * LC3 - Low level memory
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

import (
	"testing"
)

// Check get and set memory.
func TestGetSet(t *testing.T) {
	Reset()
	SetMemory(0x1234, 0xBEEF)
	if r := GetMemory(0x1234); r != 0xBEEF {
		t.Errorf("GetMemory not correct got: %04x expected: %04x", r, 0xBEEF)
	}
	if r := GetMemory(0x1235); r != 0 {
		t.Errorf("Neighbor word modified got: %04x expected: 0", r)
	}
	SetMemory(0xFFFF, 0x0001)
	if r := GetMemory(0xFFFF); r != 1 {
		t.Errorf("Top word not correct got: %04x expected: 1", r)
	}
}

// Reset should clear everything.
func TestReset(t *testing.T) {
	for i := uint32(0); i < 1<<16; i += 97 {
		SetMemory(uint16(i), uint16(i))
	}
	Reset()
	for i := uint32(0); i < 1<<16; i += 97 {
		if r := GetMemory(uint16(i)); r != 0 {
			t.Errorf("Reset left %04x at %04x", r, i)
		}
	}
}

// CopyIn fills a run of words.
func TestCopyIn(t *testing.T) {
	Reset()
	data := []uint16{1, 2, 3, 4, 5}
	CopyIn(FrameBase(3), data)
	for i, w := range data {
		if r := GetMemory(FrameBase(3) + uint16(i)); r != w {
			t.Errorf("CopyIn word %d got: %04x expected: %04x", i, r, w)
		}
	}
}

// Frame offsets are 2048 words apart.
func TestFrameBase(t *testing.T) {
	for pfn := uint16(0); pfn < NumFrames; pfn++ {
		if r := FrameBase(pfn); r != pfn*PageSize {
			t.Errorf("FrameBase %d got: %04x expected: %04x", pfn, r, pfn*PageSize)
		}
	}
}
