/*
 * LC3 - Configuration parser tests
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

package configparser

import (
	"strings"
	"testing"
)

func TestParse(t *testing.T) {
	text := `
# two processes and some tracing
proc sum.obj sum-heap.obj
proc "my code.obj" "my heap.obj"
logfile "vm.log"
log CPU INST,TRAP
`
	cfg, err := Parse(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Procs) != 2 {
		t.Fatalf("Procs got: %d expected: 2", len(cfg.Procs))
	}
	if cfg.Procs[0].Code != "sum.obj" || cfg.Procs[0].Heap != "sum-heap.obj" {
		t.Errorf("Proc 0 got: %v", cfg.Procs[0])
	}
	if cfg.Procs[1].Code != "my code.obj" || cfg.Procs[1].Heap != "my heap.obj" {
		t.Errorf("Proc 1 got: %v", cfg.Procs[1])
	}
	if cfg.LogFile != "vm.log" {
		t.Errorf("LogFile got: %q expected: vm.log", cfg.LogFile)
	}
	opts := cfg.Debug["CPU"]
	if len(opts) != 2 || opts[0] != "INST" || opts[1] != "TRAP" {
		t.Errorf("Debug got: %v expected: [INST TRAP]", opts)
	}
}

func TestParseErrors(t *testing.T) {
	cases := []string{
		"proc only-one.obj\n",
		"frobnicate a b\n",
		"logfile\n",
		"log CPU\n",
		"proc \"unterminated a b\n",
	}
	for _, text := range cases {
		if _, err := Parse(strings.NewReader(text)); err == nil {
			t.Errorf("expected error for %q", text)
		}
	}
}

func TestComments(t *testing.T) {
	cfg, err := Parse(strings.NewReader("# nothing\n\n   # indented\n"))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if len(cfg.Procs) != 0 || cfg.LogFile != "" {
		t.Errorf("comment lines produced config: %+v", cfg)
	}
}
