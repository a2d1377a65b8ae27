/*
 * LC3 - CPU definitions
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

package cpu

type cpuState struct {
	regs    [8]uint16 // General registers R0 to R7
	PC      uint16    // Program counter
	cond    uint16    // Condition codes
	ptbr    uint16    // Page table base register
	halted bool      // Set when the last process halts
	table  [16]func(uint16) Fault
}

// A Fault is raised by address translation or trap dispatch. Any
// fault is fatal to the whole machine, there is no kernel mode to
// recover into.
type Fault uint16

const (
	FaultNone      Fault = iota
	FaultReserved        // Reserved region touched
	FaultUnmapped        // No valid PTE for the page
	FaultNoRead          // Read of a write only page
	FaultNoWrite         // Write of a read only page
	FaultBadTrap         // Trap vector outside 0x20..0x29
)

// Guest visible diagnostics for each fault.
var faultMessage = [...]string{
	FaultNone:     "",
	FaultReserved: "Segmentation fault.",
	FaultUnmapped: "Segmentation fault inside free space.",
	FaultNoRead:   "Cannot read from a write-only page.",
	FaultNoWrite:  "Cannot write to a read-only page.",
	FaultBadTrap:  "Undefined trap vector.",
}

// Return the diagnostic for a fault.
func FaultMessage(f Fault) string {
	return faultMessage[f]
}

const (
	// Condition code flags.
	flagP uint16 = 1 << 0
	flagZ uint16 = 1 << 1
	flagN uint16 = 1 << 2

	// Virtual address layout, 5 bit VPN over an 11 bit offset.
	vpnShift        = 11
	offMask  uint16 = 0x07FF

	// Pages below this VPN belong to the OS and are never visible
	// to guest code.
	reservedVPNs uint16 = 6

	// PTE fields, as the kernel writes them.
	pteValid uint16 = 0x0001
	pteRead  uint16 = 0x0002
	pteWrite uint16 = 0x0004
	pfnShift        = 11
	pfnMask  uint16 = 0x1F
)

const (
	// Debug options.
	debugInst = 1 << iota
	debugTrap
	debugMem
)

var debugOption = map[string]int{
	"INST": debugInst, // Trace instruction execution.
	"TRAP": debugTrap, // Trace trap dispatch.
	"MEM":  debugMem,  // Trace address translation.
}

var debugMsk int
