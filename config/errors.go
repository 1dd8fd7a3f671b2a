// SPDX-License-Identifier: MIT

package config

import "errors"

var (
	// ErrInvalidJSON classifies config files that fail to parse.
	// Use errors.Is(err, ErrInvalidJSON) instead of string matching.
	ErrInvalidJSON = errors.New("invalid JSON in config file")

	// ErrNotObject is returned when the file parses but its top-level
	// value is not an object.
	ErrNotObject = errors.New("config file must contain a JSON object")

	// ErrUnsupportedFormat is returned by Save for non-.json paths.
	ErrUnsupportedFormat = errors.New("unsupported config format")

	// ErrValidation classifies configs rejected by their Validate hook.
	ErrValidation = errors.New("config validation failed")
)
