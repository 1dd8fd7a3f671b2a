// SPDX-License-Identifier: MIT

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

var (
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
	hunkColor   = color.New(color.FgCyan)
	headerColor = color.New(color.Bold)
)

// IsUnifiedDiff reports whether s looks like unified diff output: a
// "---" line followed by a "+++" line, plus at least one "@@" hunk
// header.
func IsUnifiedDiff(s string) bool {
	var sawOld, sawNew, sawHunk bool
	for _, line := range strings.Split(s, "\n") {
		switch {
		case strings.HasPrefix(line, "--- "):
			sawOld = true
		case strings.HasPrefix(line, "+++ "):
			sawNew = sawNew || sawOld
		case strings.HasPrefix(line, "@@"):
			sawHunk = true
		}
	}
	return sawOld && sawNew && sawHunk
}

// printDiff writes a unified diff with conventional coloring: additions
// green, deletions red, hunk headers cyan.
func printDiff(w io.Writer, diff string) {
	for _, line := range strings.Split(strings.TrimRight(diff, "\n"), "\n") {
		switch {
		case strings.HasPrefix(line, "--- "), strings.HasPrefix(line, "+++ "):
			fmt.Fprintln(w, headerColor.Sprint(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprintln(w, hunkColor.Sprint(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprintln(w, addColor.Sprint(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprintln(w, delColor.Sprint(line))
		default:
			fmt.Fprintln(w, line)
		}
	}
}
