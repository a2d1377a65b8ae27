/*
 * LC3 - Kernel definitions
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

const (
	// OS header, physical words 0 to 11.
	curProcID uint16 = 0 // Currently loaded process, 0xffff when none
	procCount uint16 = 1 // Total processes ever created
	osStatus  uint16 = 2 // Bit 0 set when the PCB list is full
	bitmapHi  uint16 = 3 // High 16 bits of the free frame bitmap
	bitmapLo  uint16 = 4 // Low 16 bits of the free frame bitmap

	// PCB list, 3 words per entry starting at word 12.
	pcbBase uint16 = 12
	pcbSize uint16 = 3
	pcbPID  uint16 = 0
	pcbPC   uint16 = 1
	pcbPTBR uint16 = 2

	// Page tables live in the third physical frame. Process i owns
	// the 32 entries starting at pageTableBase + 32*i.
	pageTableBase uint16 = 0x1000
	pageTableSize uint16 = 32

	// PTE fields.
	pteValid uint16 = 0x0001
	pteRead  uint16 = 0x0002
	pteWrite uint16 = 0x0004
	pfnShift        = 11
	pfnMask  uint16 = 0x1F

	// Status register bits.
	statusFull uint16 = 0x0001

	// Process layout. Code occupies two read-only pages from VPN 6,
	// the initial heap two read-write pages from VPN 8.
	codeVPN   uint16 = 6
	heapVPN   uint16 = 8
	CodePages        = 2
	HeapPages        = 2

	// First instruction of every process.
	PCStart uint16 = 0x3000

	// PID marking a tombstoned PCB.
	InvalidPID uint16 = 0xFFFF

	// The PCB list may not grow past the page table frame.
	MaxProcesses = (4096 - int(pcbBase)) / int(pcbSize)

	// Frames 0 and 1 hold the OS header and PCB list, frame 2 the
	// page tables. They are never handed out.
	initialBitmap uint32 = 0x1FFFFFFF
)
