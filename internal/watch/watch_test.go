package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, fn Func) (cancel func(), done <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errc := make(chan error, 1)
	w := &Watcher{Path: path, Debounce: 50 * time.Millisecond, Ready: make(chan struct{})}
	go func() { errc <- w.Run(ctx, fn) }()

	select {
	case <-w.Ready:
	case err := <-errc:
		cancel()
		t.Fatalf("watcher failed to start: %v", err)
	case <-time.After(5 * time.Second):
		cancel()
		t.Fatal("watcher did not start")
	}
	return cancel, errc
}

func TestWatch_DebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.ts")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	var calls atomic.Int32
	cancel, done := startWatcher(t, path, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})

	for i := 1; i <= 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte(fmt.Sprintf("v%d", i)), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
	// the burst collapses; allow one extra call for slow event delivery
	time.Sleep(200 * time.Millisecond)
	assert.LessOrEqual(t, calls.Load(), int32(2))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatch_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.ts")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	var calls atomic.Int32
	cancel, _ := startWatcher(t, path, func(ctx context.Context) error {
		calls.Add(1)
		return nil
	})
	defer cancel()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.ts"), []byte("x"), 0o644))
	time.Sleep(300 * time.Millisecond)
	assert.Zero(t, calls.Load())
}

func TestWatch_HandlerErrorKeepsWatching(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sessions.ts")
	require.NoError(t, os.WriteFile(path, []byte("v0"), 0o644))

	var calls atomic.Int32
	cancel, _ := startWatcher(t, path, func(ctx context.Context) error {
		calls.Add(1)
		return fmt.Errorf("render failed")
	})
	defer cancel()

	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))
	require.Eventually(t, func() bool { return calls.Load() == 1 }, 5*time.Second, 10*time.Millisecond)

	time.Sleep(150 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)
}

func TestWatch_MissingDirectory(t *testing.T) {
	err := Watch(context.Background(), filepath.Join(t.TempDir(), "nope", "sessions.ts"), 0, func(context.Context) error {
		return nil
	})
	assert.Error(t, err)
}
