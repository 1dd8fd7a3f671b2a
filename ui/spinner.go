// SPDX-License-Identifier: MIT

package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

var spinnerColor = color.New(color.FgCyan)

// Spinner displays an animated spinner next to message until the
// returned stop function is called. On non-terminal output it degrades
// to a single static line.
func Spinner(message string) (stop func()) {
	w := output()

	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd())
	}
	if !interactive {
		fmt.Fprintln(w, message)
		return func() {}
	}

	done := make(chan struct{})
	finished := make(chan struct{})

	go func() {
		defer close(finished)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		frame := 0
		for {
			select {
			case <-done:
				// Clear the spinner line.
				fmt.Fprintf(w, "\r%s\r", strings.Repeat(" ", len(message)+2))
				return
			case <-ticker.C:
				fmt.Fprintf(w, "\r%s %s", spinnerColor.Sprint(spinnerFrames[frame%len(spinnerFrames)]), message)
				frame++
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
