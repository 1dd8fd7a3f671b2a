// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"

	xlog "github.com/ManuGH/vrachos/log"
)

// debounceDuration collapses editor write bursts into one reload.
const debounceDuration = 500 * time.Millisecond

// Holder holds a config value with atomic reloading capability. It
// provides thread-safe access and supports hot reloading from file,
// either on demand or via a file watcher.
type Holder[T any] struct {
	mu      sync.RWMutex
	current T
	store   *Store[T]
	watcher *fsnotify.Watcher
	done    chan struct{}
	logger  zerolog.Logger

	subMu sync.RWMutex
	subs  []chan<- T
}

// NewHolder creates a holder with the given initial config.
func NewHolder[T any](initial T, store *Store[T]) *Holder[T] {
	return &Holder[T]{
		current: initial,
		store:   store,
		logger:  xlog.WithComponent("config"),
	}
}

// Get returns the current configuration (thread-safe read).
func (h *Holder[T]) Get() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.current
}

// Reload reloads configuration from file. If loading or validation
// fails, the old configuration is kept and the error is returned, so
// updates are all-or-nothing.
func (h *Holder[T]) Reload(_ context.Context) error {
	h.logger.Info().Str(xlog.FieldEvent, "config.reload_start").Msg("reloading configuration")

	newCfg, err := h.store.Load()
	if err != nil {
		h.logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "config.reload_failed").
			Msg("failed to load new configuration")
		return fmt.Errorf("load config: %w", err)
	}

	h.mu.Lock()
	oldCfg := h.current
	h.current = newCfg
	h.mu.Unlock()

	h.notify(newCfg)
	h.logChanges(oldCfg, newCfg)

	h.logger.Info().
		Str(xlog.FieldEvent, "config.reload_success").
		Msg("configuration reloaded")
	return nil
}

// Watch starts watching the store's file for changes. An empty path is
// a no-op. The watcher stops when ctx is cancelled or Close is called.
func (h *Holder[T]) Watch(ctx context.Context) error {
	if h.store.Path() == "" {
		h.logger.Info().
			Str(xlog.FieldEvent, "config.watcher_disabled").
			Msg("config file watcher disabled (no file path)")
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	h.watcher = watcher

	// Watch the parent directory, not the file itself: atomic saves
	// replace the file's inode via rename, which would orphan a direct
	// file watch after the first reload.
	if err := watcher.Add(filepath.Dir(h.store.Path())); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}

	h.logger.Info().
		Str(xlog.FieldEvent, "config.watcher_started").
		Str(xlog.FieldPath, h.store.Path()).
		Msg("watching config file for changes")

	h.done = make(chan struct{})
	go h.watchLoop(ctx)
	return nil
}

// watchLoop is the main file watcher loop.
func (h *Holder[T]) watchLoop(ctx context.Context) {
	defer close(h.done)

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info().Str(xlog.FieldEvent, "config.watcher_stopped").Msg("config watcher stopped")
			_ = h.watcher.Close()
			return

		case event, ok := <-h.watcher.Events:
			if !ok {
				return
			}

			// Write covers in-place edits, Create covers atomic
			// rename-into-place and editors that replace the file.
			// Events for sibling files (editor temp files, pending
			// atomic writes) are ignored.
			if !sameConfigFile(event.Name, h.store.Path()) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				h.logger.Debug().
					Str(xlog.FieldEvent, "config.file_changed").
					Str("op", event.Op.String()).
					Msg("config file changed")

				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(debounceDuration, func() {
					if err := h.Reload(ctx); err != nil {
						h.logger.Error().
							Err(err).
							Str(xlog.FieldEvent, "config.auto_reload_failed").
							Msg("automatic config reload failed")
					}
				})
			}

		case err, ok := <-h.watcher.Errors:
			if !ok {
				return
			}
			h.logger.Error().
				Err(err).
				Str(xlog.FieldEvent, "config.watcher_error").
				Msg("config watcher error")
		}
	}
}

// sameConfigFile reports whether an event path refers to the watched
// config file.
func sameConfigFile(eventPath, configPath string) bool {
	return filepath.Clean(eventPath) == filepath.Clean(configPath)
}

// Close stops the watcher (if running).
func (h *Holder[T]) Close() {
	if h.watcher != nil {
		_ = h.watcher.Close()
	}
}

// Subscribe registers a channel that receives the new config whenever a
// reload succeeds. Sends are non-blocking; a full channel is skipped.
// The caller owns the channel.
func (h *Holder[T]) Subscribe(ch chan<- T) {
	h.subMu.Lock()
	defer h.subMu.Unlock()
	h.subs = append(h.subs, ch)
}

func (h *Holder[T]) notify(newCfg T) {
	h.subMu.RLock()
	defer h.subMu.RUnlock()

	for _, ch := range h.subs {
		select {
		case ch <- newCfg:
		default:
			h.logger.Warn().
				Str(xlog.FieldEvent, "config.subscriber_skip").
				Msg("skipped notifying subscriber (channel full)")
		}
	}
}

// logChanges logs the field paths that differ between old and new.
func (h *Holder[T]) logChanges(oldCfg, newCfg T) {
	for _, path := range Diff(oldCfg, newCfg) {
		h.logger.Info().
			Str("field", path).
			Msg("config changed")
	}
}
