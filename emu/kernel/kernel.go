/*
 * LC3 - OS state and frame bitmap
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

package kernel

import (
	"fmt"
	"io"
	"math/bits"
	"os"

	mem "github.com/rcornwell/LC3/emu/memory"
)

// The OS keeps all of its state inside guest physical memory: the
// header words, the PCB list and the page tables. Nothing is cached
// on the host side, so the monitor always sees the truth.

// Console carries guest visible diagnostics. They are part of the
// machine's observable output, not host logging.
var Console io.Writer = os.Stdout

func diagf(format string, a ...interface{}) {
	fmt.Fprintf(Console, format+"\n", a...)
}

// Set up the OS header. Frames 0 to 2 are marked used from the start.
func InitOS() {
	mem.Reset()
	mem.SetMemory(curProcID, InvalidPID)
	mem.SetMemory(procCount, 0)
	mem.SetMemory(osStatus, 0)
	setBitmap(initialBitmap)
}

// The bitmap is packed big endian across two header words. All
// allocator logic works on this 32 bit view; the split layout is
// only an artifact of living in 16 bit memory.
func bitmap() uint32 {
	return uint32(mem.GetMemory(bitmapHi))<<16 | uint32(mem.GetMemory(bitmapLo))
}

func setBitmap(b uint32) {
	mem.SetMemory(bitmapHi, uint16(b>>16))
	mem.SetMemory(bitmapLo, uint16(b))
}

// True if at least n frames are free.
func HasFreeFrames(n int) bool {
	return bits.OnesCount32(bitmap()) >= n
}

// Number of free frames, used by the monitor and by tests.
func FreeFrames() int {
	return bits.OnesCount32(bitmap())
}

// The full bitmap, for the monitor and tests.
func Bitmap() uint32 {
	return bitmap()
}

// Pick the free frame with the highest bitmap bit and mark it used.
// Frames come out in ascending PFN order starting at 3, which keeps
// the observable allocation order deterministic. Returns false when
// no frame is free.
func allocFrame() (uint16, bool) {
	b := bitmap()
	if b == 0 {
		return 0, false
	}
	idx := 31 - bits.LeadingZeros32(b)
	setBitmap(b &^ (1 << idx))
	return uint16(31 - idx), true
}

// Mark a frame free again.
func releaseFrame(pfn uint16) {
	setBitmap(bitmap() | 1<<(31-pfn))
}

// Base address of the page table for a process.
func PageTableOf(pid uint16) uint16 {
	return pageTableBase + pid*pageTableSize
}

// Build a PTE for a frame with the given permissions.
func makePTE(pfn uint16, read, write bool) uint16 {
	pte := pfn<<pfnShift | pteValid
	if read {
		pte |= pteRead
	}
	if write {
		pte |= pteWrite
	}
	return pte
}

// Frame number stored in a PTE.
func ptePFN(pte uint16) uint16 {
	return (pte >> pfnShift) & pfnMask
}
