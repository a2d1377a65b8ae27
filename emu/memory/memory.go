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

// Physical memory is 2^16 16 bit words, split into 32 frames of
// 2048 words. The low frames hold the OS header, the PCB list and
// the page tables; everything else is handed out by the frame
// allocator in the kernel package.

type mem struct {
	mem [1 << 16]uint16
}

var memory mem

const (
	// Size of one page frame in words.
	PageSize uint16 = 2048

	// Number of page frames.
	NumFrames = 32
)

// Get memory value, addresses are physical words.
func GetMemory(addr uint16) uint16 {
	return memory.mem[addr]
}

// Set memory to a value.
func SetMemory(addr, data uint16) {
	memory.mem[addr] = data
}

// Clear all of physical memory.
func Reset() {
	for i := range memory.mem {
		memory.mem[i] = 0
	}
}

// Copy a block of words into memory starting at a physical address.
// Used by the image loader to fill one frame at a time.
func CopyIn(addr uint16, data []uint16) {
	for i, w := range data {
		memory.mem[addr+uint16(i)] = w
	}
}

// Return the word offset of a frame in physical memory.
func FrameBase(pfn uint16) uint16 {
	return pfn * PageSize
}
