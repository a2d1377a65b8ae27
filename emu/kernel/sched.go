/*
 * LC3 - Cooperative scheduler and heap traps
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

// Scheduling is round robin over the PCB ring, skipping tombstones.
// A process only gives up the CPU at a YIELD or HALT trap.

// Give the CPU to the next runnable process. The caller passes the
// PC to save; the returned PC and PTBR belong to the new process.
// When no other process is runnable nothing is saved or changed and
// switched is false.
func Yield(pc uint16) (newPC, newPTBR uint16, switched bool) {
	cur := mem.GetMemory(curProcID)
	total := mem.GetMemory(procCount)

	next := (cur + 1) % total
	for next != cur {
		if ProcessPID(next) != InvalidPID {
			diagf("We are switching from process %d to %d.", cur, next)
			mem.SetMemory(pcbAddr(cur)+pcbPC, pc)
			newPC, newPTBR = LoadProc(next)
			return newPC, newPTBR, true
		}
		next = (next + 1) % total
	}
	return 0, 0, false
}

// Terminate the current process: free every page it maps, tombstone
// its PCB and pick the next runnable process. The halted process's
// PC is not saved. Returns running false when no process is left.
func Halt() (newPC, newPTBR uint16, running bool) {
	cur := mem.GetMemory(curProcID)
	ptbr := ProcessPTBR(cur)

	for vpn := uint16(0); vpn < pageTableSize; vpn++ {
		FreeMem(vpn, ptbr)
	}
	mem.SetMemory(pcbAddr(cur)+pcbPID, InvalidPID)

	total := mem.GetMemory(procCount)
	alive := false
	for pid := uint16(0); pid < total; pid++ {
		if ProcessPID(pid) != InvalidPID {
			alive = true
			break
		}
	}
	if !alive {
		return 0, 0, false
	}

	next := (cur + 1) % total
	for next != cur {
		if ProcessPID(next) != InvalidPID {
			newPC, newPTBR = LoadProc(next)
			return newPC, newPTBR, true
		}
		next = (next + 1) % total
	}
	return 0, 0, false
}

// Heap request word layout, bit 0 selects allocate over free, bits
// 1 and 2 request read and write access, bits 15..11 the VPN.
func Brk(request, ptbr uint16) {
	vpn := (request >> pfnShift) & pfnMask
	read := request&pteRead != 0
	write := request&pteWrite != 0
	cur := mem.GetMemory(curProcID)
	valid := mem.GetMemory(ptbr+vpn)&pteValid != 0

	if request&0x0001 != 0 {
		diagf("Heap increase requested by process %d.", cur)
		if valid {
			diagf("Cannot allocate memory for page %d of pid %d since it is already allocated.", vpn, cur)
			return
		}
		if !HasFreeFrames(1) {
			diagf("Cannot allocate more space for pid %d since there is no free page frames.", cur)
			return
		}
		AllocMem(ptbr, vpn, read, write)
		return
	}

	diagf("Heap decrease requested by process %d.", cur)
	if !valid {
		diagf("Cannot free memory of page %d of pid %d since it is not allocated.", vpn, cur)
		return
	}
	FreeMem(vpn, ptbr)
}
