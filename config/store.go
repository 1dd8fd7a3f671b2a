// SPDX-License-Identifier: MIT

// Package config provides typed JSON configuration persistence with
// defaults merging, validation, atomic writes, and hot reload.
//
// A Store binds a config struct type to a file path. Loading follows a
// fixed precedence: ENV > file > defaults. Saving is always atomic and
// durable. The Holder wraps a Store for concurrent access and fsnotify
// driven reloads.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/ManuGH/vrachos/fsio"
	xlog "github.com/ManuGH/vrachos/log"
)

// Validator is implemented by config types that want semantic checks
// after loading. A non-nil error rejects the loaded config.
type Validator interface {
	Validate() error
}

// Store binds a config type to a file path and loading policy.
type Store[T any] struct {
	path        string
	defaults    T
	envOverride func(*T)
	logger      zerolog.Logger
}

// Option customises a Store.
type Option[T any] func(*Store[T])

// WithDefaults sets the baseline config used when the file is missing
// and as the merge base when it is present.
func WithDefaults[T any](defaults T) Option[T] {
	return func(s *Store[T]) {
		s.defaults = defaults
	}
}

// WithEnvOverride installs a hook that applies environment overrides
// after the file layer. ENV wins over file wins over defaults.
func WithEnvOverride[T any](fn func(*T)) Option[T] {
	return func(s *Store[T]) {
		s.envOverride = fn
	}
}

// WithLogger replaces the store's logger.
func WithLogger[T any](logger zerolog.Logger) Option[T] {
	return func(s *Store[T]) {
		s.logger = logger
	}
}

// NewStore creates a store for the given path.
func NewStore[T any](path string, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		path:   path,
		logger: xlog.WithComponent("config"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Path returns the backing file path.
func (s *Store[T]) Path() string {
	return s.path
}

// Defaults returns a copy of the configured defaults.
func (s *Store[T]) Defaults() T {
	return s.defaults
}

// Load reads the config file and returns the merged result.
//
// A missing file is not an error: the defaults are persisted and
// returned. Present files are merged over the defaults so keys absent
// from the file keep their default values. Unknown keys in the file are
// tolerated. After the env override hook runs, a Validate hook on the
// config type gets the final word.
func (s *Store[T]) Load() (T, error) {
	cfg := s.defaults

	if _, err := os.Stat(s.path); errors.Is(err, fs.ErrNotExist) {
		s.logger.Info().
			Str(xlog.FieldPath, s.path).
			Str(xlog.FieldEvent, "config.create_defaults").
			Msg("config file not found, creating with defaults")
		if err := s.Save(cfg); err != nil {
			return cfg, fmt.Errorf("create default config: %w", err)
		}
	} else {
		raw, err := os.ReadFile(s.path)
		if err != nil {
			return cfg, fmt.Errorf("read config file: %w", err)
		}

		switch ext := strings.ToLower(filepath.Ext(s.path)); ext {
		case ".yaml", ".yml":
			// Read-only tolerance for YAML files; Save stays JSON-only.
			raw, err = yamlToJSON(raw)
			if err != nil {
				return cfg, err
			}
		}
		if err := s.mergeJSON(raw, &cfg); err != nil {
			return cfg, err
		}
	}

	if s.envOverride != nil {
		s.envOverride(&cfg)
	}

	if err := validate(&cfg); err != nil {
		s.logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "config.validation_failed").
			Msg("loaded config failed validation")
		return cfg, err
	}

	s.logger.Info().
		Str(xlog.FieldPath, s.path).
		Str(xlog.FieldEvent, "config.loaded").
		Msg("configuration loaded")
	return cfg, nil
}

// mergeJSON unmarshals raw over cfg, so file values override defaults
// while missing keys keep them.
func (s *Store[T]) mergeJSON(raw []byte, cfg *T) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		// Distinguish "not an object" from "not JSON at all".
		var anyVal any
		if uerr := json.Unmarshal(raw, &anyVal); uerr != nil {
			return fmt.Errorf("%w: %v", ErrInvalidJSON, uerr)
		}
		return fmt.Errorf("%w, got %T", ErrNotObject, anyVal)
	}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	return nil
}

// Save writes cfg to the store path with atomic + durable semantics.
// Only .json targets are supported.
func (s *Store[T]) Save(cfg T) error {
	if ext := strings.ToLower(filepath.Ext(s.path)); ext != ".json" {
		return fmt.Errorf("%w: %q (only .json files are supported)", ErrUnsupportedFormat, ext)
	}

	if err := fsio.EnsureDir(filepath.Dir(s.path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "    ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	data = append(data, '\n')

	if err := fsio.WriteFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	s.logger.Info().
		Str(xlog.FieldPath, s.path).
		Str(xlog.FieldEvent, "config.saved").
		Msg("configuration saved")
	return nil
}

// validate runs the Validate hook if the config type provides one,
// through either a value or pointer receiver.
func validate[T any](cfg *T) error {
	var v Validator
	switch impl := any(cfg).(type) {
	case Validator:
		v = impl
	default:
		if impl, ok := any(*cfg).(Validator); ok {
			v = impl
		}
	}
	if v == nil {
		return nil
	}
	if err := v.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// yamlToJSON converts a YAML document to JSON bytes so the regular
// merge path can consume it.
func yamlToJSON(raw []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	switch m := doc.(type) {
	case nil:
		return []byte("{}"), nil
	case map[string]any:
		out, err := json.Marshal(m)
		if err != nil {
			return nil, fmt.Errorf("convert YAML config: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w, got %T", ErrNotObject, doc)
	}
}
