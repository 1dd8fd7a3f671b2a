// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHolder(t *testing.T) (*Holder[testConfig], *Store[testConfig]) {
	t.Helper()
	store := newTestStore(t)
	initial, err := store.Load() // creates the file with defaults
	require.NoError(t, err)
	return NewHolder(initial, store), store
}

func TestHolderReloadSwapsOnSuccess(t *testing.T) {
	holder, store := newTestHolder(t)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"timeout": 120}`), 0o600))
	require.NoError(t, holder.Reload(context.Background()))

	assert.Equal(t, 120, holder.Get().Timeout)
}

func TestHolderReloadKeepsOldOnFailure(t *testing.T) {
	holder, store := newTestHolder(t)
	before := holder.Get()

	require.NoError(t, os.WriteFile(store.Path(), []byte("{broken"), 0o600))
	err := holder.Reload(context.Background())

	require.Error(t, err)
	assert.Equal(t, before, holder.Get(), "failed reload must not corrupt the held config")
}

func TestHolderSubscribe(t *testing.T) {
	holder, store := newTestHolder(t)

	ch := make(chan testConfig, 1)
	holder.Subscribe(ch)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"debug": true}`), 0o600))
	require.NoError(t, holder.Reload(context.Background()))

	select {
	case got := <-ch:
		assert.True(t, got.Debug)
	default:
		t.Fatal("expected subscriber notification")
	}
}

func TestHolderSubscribeFullChannelSkipped(t *testing.T) {
	holder, store := newTestHolder(t)

	ch := make(chan testConfig) // unbuffered, nobody reading
	holder.Subscribe(ch)

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"debug": true}`), 0o600))
	// Must not block.
	require.NoError(t, holder.Reload(context.Background()))
}

func TestHolderWatchReloadsOnWrite(t *testing.T) {
	holder, store := newTestHolder(t)

	ch := make(chan testConfig, 1)
	holder.Subscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, holder.Watch(ctx))
	defer func() {
		cancel()
		select {
		case <-holder.done:
		case <-time.After(2 * time.Second):
			t.Fatal("watch loop did not stop")
		}
	}()

	require.NoError(t, os.WriteFile(store.Path(), []byte(`{"timeout": 77}`), 0o600))

	select {
	case got := <-ch:
		assert.Equal(t, 77, got.Timeout)
	case <-time.After(5 * time.Second):
		t.Fatal("expected a debounced reload after file write")
	}
}

func TestHolderWatchSurvivesAtomicReplace(t *testing.T) {
	holder, store := newTestHolder(t)

	ch := make(chan testConfig, 1)
	holder.Subscribe(ch)

	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, holder.Watch(ctx))
	defer func() {
		cancel()
		select {
		case <-holder.done:
		case <-time.After(2 * time.Second):
			t.Fatal("watch loop did not stop")
		}
	}()

	// Atomic saves rename a new inode over the config file. The watch
	// must keep delivering reloads across replacements.
	for i, timeout := range []int{101, 202} {
		cfg := testDefaults()
		cfg.Timeout = timeout
		require.NoError(t, store.Save(cfg))

		select {
		case got := <-ch:
			assert.Equal(t, timeout, got.Timeout, "replace #%d", i+1)
		case <-time.After(5 * time.Second):
			t.Fatalf("no reload after atomic replace #%d", i+1)
		}
	}
}

func TestHolderWatchEmptyPathIsNoop(t *testing.T) {
	store := NewStore("", WithDefaults(testDefaults()))
	holder := NewHolder(testDefaults(), store)

	require.NoError(t, holder.Watch(context.Background()))
	assert.Nil(t, holder.watcher)
}
