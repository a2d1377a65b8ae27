/*
 * LC3 - Configuration file parser
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
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

/* Configuration file format:
 *
 * '#' indicates comment, rest of line is ignored.
 * <line> := 'proc' <file> <file> |
 *           'logfile' <quoteopt> |
 *           'log' <module> <opt> *(',' <opt>)
 * <file> ::= <string> | '"' *(<letter> | <whitespace>) '"'
 *
 * 'proc' declares a process to create at startup from a code image
 * and a heap image. 'log' turns on debug options for a module.
 */

// One process declaration.
type Proc struct {
	Code string // Code image file.
	Heap string // Heap image file.
}

// Parsed configuration.
type Config struct {
	Procs   []Proc              // Processes to create at startup.
	LogFile string              // Debug trace file, empty for stderr.
	Debug   map[string][]string // Module name to debug options.
}

var lineNumber int

// Load a configuration file.
func LoadConfigFile(name string) (*Config, error) {
	file, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return Parse(file)
}

// Parse a configuration text.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{Debug: map[string][]string{}}
	scanner := bufio.NewScanner(r)
	lineNumber = 0
	for scanner.Scan() {
		lineNumber++
		if err := parseLine(cfg, scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseLine(cfg *Config, line string) error {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	fields, err := splitQuoted(line)
	if err != nil {
		return fmt.Errorf("line %d: %w", lineNumber, err)
	}
	if len(fields) == 0 {
		return nil
	}

	switch strings.ToLower(fields[0]) {
	case "proc":
		if len(fields) != 3 {
			return fmt.Errorf("line %d: proc needs a code image and a heap image", lineNumber)
		}
		cfg.Procs = append(cfg.Procs, Proc{Code: fields[1], Heap: fields[2]})

	case "logfile":
		if len(fields) != 2 {
			return fmt.Errorf("line %d: logfile needs a file name", lineNumber)
		}
		cfg.LogFile = fields[1]

	case "log":
		if len(fields) != 3 {
			return fmt.Errorf("line %d: log needs a module and options", lineNumber)
		}
		module := strings.ToUpper(fields[1])
		for _, opt := range strings.Split(fields[2], ",") {
			opt = strings.TrimSpace(opt)
			if opt != "" {
				cfg.Debug[module] = append(cfg.Debug[module], strings.ToUpper(opt))
			}
		}

	default:
		return fmt.Errorf("line %d: unknown statement: %s", lineNumber, fields[0])
	}
	return nil
}

// Split on whitespace, honoring double quoted strings.
func splitQuoted(line string) ([]string, error) {
	var fields []string
	var cur strings.Builder
	inQuote := false
	inField := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
			inField = true
		case !inQuote && (r == ' ' || r == '\t'):
			if inField {
				fields = append(fields, cur.String())
				cur.Reset()
				inField = false
			}
		default:
			cur.WriteRune(r)
			inField = true
		}
	}
	if inQuote {
		return nil, fmt.Errorf("unterminated quote")
	}
	if inField {
		fields = append(fields, cur.String())
	}
	return fields, nil
}
