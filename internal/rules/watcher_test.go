package rules

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_TriggersReloadOnYAMLWrite(t *testing.T) {
	dir := t.TempDir()

	var reloads atomic.Int32
	w, err := NewWatcher(dir, func(ctx context.Context, d string) error {
		assert.Equal(t, dir, d)
		reloads.Add(1)
		return nil
	})
	require.NoError(t, err)
	w.window = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ca.yaml"), []byte("rules: []"), 0o644))

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()

	var reloads atomic.Int32
	w, err := NewWatcher(dir, func(context.Context, string) error { reloads.Add(1); return nil })
	require.NoError(t, err)
	w.window = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rules.yaml.swp"), []byte("x"), 0o644))

	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, reloads.Load())
}

func TestWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()

	var reloads atomic.Int32
	w, err := NewWatcher(dir, func(context.Context, string) error { reloads.Add(1); return nil })
	require.NoError(t, err)
	w.window = 200 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	path := filepath.Join(dir, "burst.yaml")
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("rules: []"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return reloads.Load() >= 1
	}, 3*time.Second, 20*time.Millisecond)

	// The burst collapses into a single reload.
	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, int32(1), reloads.Load())
}

func TestWatcher_CloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir, func(context.Context, string) error { return nil })
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
