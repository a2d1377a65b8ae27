/*
 * LC3 - Page frame allocation
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
	mem "github.com/rcornwell/LC3/emu/memory"
)

// Map a frame at the given VPN of a page table. Returns the word
// offset of the frame in physical memory, or 0 when no frame is free
// or the VPN is already mapped. The bitmap is updated before the PTE
// is written, so a trap handler never sees a frame that is both free
// and mapped.
func AllocMem(ptbr, vpn uint16, read, write bool) uint16 {
	if mem.GetMemory(ptbr+vpn)&pteValid != 0 {
		return 0
	}
	pfn, ok := allocFrame()
	if !ok {
		return 0
	}
	mem.SetMemory(ptbr+vpn, makePTE(pfn, read, write))
	return mem.FrameBase(pfn)
}

// Unmap the frame at the given VPN. A VPN with no valid mapping is
// left alone. The valid bit is cleared before the bitmap bit is set,
// the reverse order of AllocMem. Freeing a frame also clears the
// PCB-full latch in the status word.
func FreeMem(vpn, ptbr uint16) {
	pte := mem.GetMemory(ptbr + vpn)
	if pte&pteValid == 0 {
		return
	}
	mem.SetMemory(ptbr+vpn, pte&^pteValid)
	releaseFrame(ptePFN(pte))
	mem.SetMemory(osStatus, mem.GetMemory(osStatus)&^statusFull)
}

// True if the page at this VPN is currently mapped.
func Mapped(ptbr, vpn uint16) bool {
	return mem.GetMemory(ptbr+vpn)&pteValid != 0
}
