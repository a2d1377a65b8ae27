/*
 * LC3 - Program image loader
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
	"encoding/binary"
	"fmt"
	"io"
	"os"

	mem "github.com/rcornwell/LC3/emu/memory"
)

// An image file is a flat sequence of little endian 16 bit words.
// It is read one frame at a time into the listed frame offsets,
// which need not be physically contiguous. A short file leaves the
// rest of the segment zeroed.
func loadImage(name string, frames []uint16) error {
	file, err := os.Open(name)
	if err != nil {
		return fmt.Errorf("image %s: %w", name, err)
	}
	defer file.Close()

	buf := make([]byte, 2*int(mem.PageSize))
	for _, base := range frames {
		n, err := io.ReadFull(file, buf)
		if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
			return fmt.Errorf("image %s: %w", name, err)
		}
		words := make([]uint16, n/2)
		for i := range words {
			words[i] = binary.LittleEndian.Uint16(buf[2*i:])
		}
		mem.CopyIn(base, words)
		if n < len(buf) {
			break
		}
	}
	return nil
}
