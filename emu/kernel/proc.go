/*
 * LC3 - Process creation and PCB handling
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
	"log/slog"

	mem "github.com/rcornwell/LC3/emu/memory"
)

func pcbAddr(pid uint16) uint16 {
	return pcbBase + pid*pcbSize
}

// PCB field accessors for the monitor and tests.
func ProcessCount() uint16 {
	return mem.GetMemory(procCount)
}

func CurrentPID() uint16 {
	return mem.GetMemory(curProcID)
}

func ProcessPID(pid uint16) uint16 {
	return mem.GetMemory(pcbAddr(pid) + pcbPID)
}

func ProcessPC(pid uint16) uint16 {
	return mem.GetMemory(pcbAddr(pid) + pcbPC)
}

func ProcessPTBR(pid uint16) uint16 {
	return mem.GetMemory(pcbAddr(pid) + pcbPTBR)
}

// Create a new process from a code image and a heap image. Returns
// false when the OS is out of PCB slots or page frames; a file that
// cannot be read is a host error. A creation that fails during
// allocation releases the frames it took, but the PCB slot and pid
// stay consumed. That leak matches the machine this emulates.
func CreateProc(codeName, heapName string) (bool, error) {
	if mem.GetMemory(osStatus)&statusFull != 0 {
		diagf("The OS memory region is full. Cannot create a new PCB.")
		return false, nil
	}

	if !HasFreeFrames(CodePages) {
		diagf("Cannot create code segment.")
		return false, nil
	}

	if !HasFreeFrames(HeapPages) {
		diagf("Cannot create heap segment.")
		return false, nil
	}

	pid := mem.GetMemory(procCount)
	mem.SetMemory(procCount, pid+1)

	ptbr := PageTableOf(pid)
	pcb := pcbAddr(pid)
	mem.SetMemory(pcb+pcbPID, pid)
	mem.SetMemory(pcb+pcbPC, PCStart)
	mem.SetMemory(pcb+pcbPTBR, ptbr)

	// Two read-only pages of code.
	var codeFrames [CodePages]uint16
	codeFrames[0] = AllocMem(ptbr, codeVPN, true, false)
	codeFrames[1] = AllocMem(ptbr, codeVPN+1, true, false)
	if codeFrames[0] == 0 || codeFrames[1] == 0 {
		diagf("Cannot allocate memory for code segment.")
		releasePages(ptbr, codeVPN, codeVPN+1)
		return false, nil
	}
	if err := loadImage(codeName, codeFrames[:]); err != nil {
		releasePages(ptbr, codeVPN, codeVPN+1)
		return false, err
	}

	// Two read-write pages of initial heap.
	var heapFrames [HeapPages]uint16
	heapFrames[0] = AllocMem(ptbr, heapVPN, true, true)
	heapFrames[1] = AllocMem(ptbr, heapVPN+1, true, true)
	if heapFrames[0] == 0 || heapFrames[1] == 0 {
		diagf("Cannot allocate memory for heap segment.")
		releasePages(ptbr, codeVPN, codeVPN+1)
		releasePages(ptbr, heapVPN, heapVPN+1)
		return false, nil
	}
	if err := loadImage(heapName, heapFrames[:]); err != nil {
		releasePages(ptbr, codeVPN, codeVPN+1)
		releasePages(ptbr, heapVPN, heapVPN+1)
		return false, err
	}

	if int(mem.GetMemory(procCount)) == MaxProcesses {
		mem.SetMemory(osStatus, mem.GetMemory(osStatus)|statusFull)
	}

	slog.Info("Created process", "pid", pid, "code", codeName, "heap", heapName)
	return true, nil
}

// Release a range of pages after a failed creation.
func releasePages(ptbr, first, last uint16) {
	for vpn := first; vpn <= last; vpn++ {
		FreeMem(vpn, ptbr)
	}
}

// Make a process current. Returns the PC and PTBR to restore into
// the CPU. No validation, callers pick a live pid.
func LoadProc(pid uint16) (uint16, uint16) {
	mem.SetMemory(curProcID, pid)
	return ProcessPC(pid), ProcessPTBR(pid)
}
