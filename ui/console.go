// SPDX-License-Identifier: MIT

// Package ui implements the terminal presentation layer: colorized
// output, JSON pretty printing, unified-diff rendering, prompting, and
// a spinner. Colors degrade automatically when stdout is not a
// terminal.
package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/fatih/color"
)

var (
	outMu sync.Mutex
	out   io.Writer = os.Stdout

	keyColor   = color.New(color.FgCyan)
	strColor   = color.New(color.FgGreen)
	punctColor = color.New(color.Faint)
)

// jsonKey matches an object key (including the trailing colon) at the
// start of a pretty-printed line.
var jsonKey = regexp.MustCompile(`^(\s*)("(?:[^"\\]|\\.)*")(\s*:)`)

// SetOutput redirects package output, mainly for tests.
func SetOutput(w io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	out = w
}

func output() io.Writer {
	outMu.Lock()
	defer outMu.Unlock()
	return out
}

// Print renders v for humans: plain strings pass through, unified diffs
// get diff coloring, and any other value is shown as indented JSON with
// colorized keys.
func Print(v any) {
	switch s := v.(type) {
	case string:
		if IsUnifiedDiff(s) {
			printDiff(output(), s)
			return
		}
		fmt.Fprintln(output(), s)
	case error:
		fmt.Fprintln(output(), s.Error())
	default:
		if err := PrintJSON(v); err != nil {
			fmt.Fprintf(output(), "%+v\n", v)
		}
	}
}

// PrintJSON renders v as indented JSON with colorized keys and string
// values.
func PrintJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal for display: %w", err)
	}

	w := output()
	for _, line := range strings.Split(string(data), "\n") {
		fmt.Fprintln(w, colorizeJSONLine(line))
	}
	return nil
}

// colorizeJSONLine highlights the key and leaves values readable. A
// lightweight stand-in for full syntax highlighting.
func colorizeJSONLine(line string) string {
	if m := jsonKey.FindStringSubmatch(line); m != nil {
		rest := line[len(m[0]):]
		return m[1] + keyColor.Sprint(m[2]) + punctColor.Sprint(m[3]) + colorizeJSONValue(rest)
	}
	return colorizeJSONValue(line)
}

func colorizeJSONValue(s string) string {
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, `"`) {
		return strColor.Sprint(s)
	}
	return s
}
