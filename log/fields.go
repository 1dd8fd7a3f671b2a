// SPDX-License-Identifier: MIT

package log

// Canonical field name constants for structured logging.
const (
	FieldComponent = "component"
	FieldEvent     = "event"
	FieldPath      = "path"

	// Config change fields
	FieldOldValue = "old"
	FieldNewValue = "new"
)
