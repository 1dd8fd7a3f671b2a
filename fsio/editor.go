// SPDX-License-Identifier: MIT

package fsio

import (
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// editorCommand resolves the user's editor: $VISUAL, then $EDITOR, then vi.
func editorCommand() []string {
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			return strings.Fields(v)
		}
	}
	return []string{"vi"}
}

// OpenEditor launches the user's editor on a temp file seeded with
// initial and returns the edited content. The temp file is removed
// afterwards.
func OpenEditor(initial string) (string, error) {
	path := TempFilePath("txt")
	if err := os.WriteFile(path, []byte(initial), 0o600); err != nil {
		return "", fmt.Errorf("seed editor file: %w", err)
	}
	defer func() {
		_ = os.Remove(path)
	}()

	argv := editorCommand()
	cmd := exec.Command(argv[0], append(argv[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("run editor %s: %w", argv[0], err)
	}

	edited, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read edited file: %w", err)
	}
	return string(edited), nil
}
