// SPDX-License-Identifier: MIT

// Package fsio bundles the small filesystem helpers the rest of vrachos
// builds on: unique temp paths, atomic writes, and editor round-trips.
package fsio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// TempFilePath returns a unique path under the system temp directory.
// The suffix is appended as a file extension when given ("json" and
// ".json" are both accepted). The file itself is not created.
func TempFilePath(suffix string) string {
	name := "vrachos-" + uuid.NewString()
	if suffix != "" {
		name += "." + strings.TrimPrefix(suffix, ".")
	}
	return filepath.Join(os.TempDir(), name)
}

// EnsureDir creates the directory and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", path, err)
	}
	return nil
}

// IsRegularFile returns an error unless path exists and is a regular file.
func IsRegularFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return nil
}
