// SPDX-License-Identifier: MIT

package fsio

import (
	"fmt"

	"github.com/google/renameio/v2"
)

// WriteFileAtomic writes data to path with atomic + durable semantics:
// the content lands in a temp file first, is fsynced, then renamed over
// the target. Readers never observe a partial file.
func WriteFileAtomic(path string, data []byte) error {
	// renameio handles: temp file creation, fsync, atomic rename, cleanup on error
	pendingFile, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		_ = pendingFile.Cleanup()
	}()

	if _, err := pendingFile.Write(data); err != nil {
		return fmt.Errorf("write pending file: %w", err)
	}

	// CloseAtomicallyReplace: fsync + rename (durable + atomic)
	if err := pendingFile.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}

	return nil
}
