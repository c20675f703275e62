package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerCoalescesBursts(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()

	for i := 0; i < 10; i++ {
		d.bump()
		time.Sleep(5 * time.Millisecond)
	}

	select {
	case <-d.C:
	case <-time.After(time.Second):
		t.Fatal("expected a signal after the burst settled")
	}

	// The whole burst produced exactly one signal.
	select {
	case <-d.C:
		t.Fatal("unexpected second signal")
	case <-time.After(150 * time.Millisecond):
	}
}

func TestDebouncerSignalsPerBurst(t *testing.T) {
	d := newDebouncer(20 * time.Millisecond)
	defer d.stop()

	d.bump()
	select {
	case <-d.C:
	case <-time.After(time.Second):
		t.Fatal("expected first signal")
	}

	d.bump()
	select {
	case <-d.C:
	case <-time.After(time.Second):
		t.Fatal("expected second signal")
	}
}

func TestDebouncerStopSilences(t *testing.T) {
	d := newDebouncer(10 * time.Millisecond)
	d.bump()
	d.stop()

	select {
	case <-d.C:
		t.Fatal("signal after stop")
	case <-time.After(50 * time.Millisecond):
	}

	// Idempotent.
	d.stop()
}

func TestWatcherSignalsOnFileChange(t *testing.T) {
	dir := t.TempDir()

	w, err := New(30 * time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- w.Start(ctx, dir) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html></html>"), 0o644))

	select {
	case <-w.Signals():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a rebuild signal after file write")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherPicksUpNewDirectories(t *testing.T) {
	dir := t.TempDir()

	w, err := New(30 * time.Millisecond)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = w.Start(ctx, dir) }()
	time.Sleep(100 * time.Millisecond)

	sub := filepath.Join(dir, "about")
	require.NoError(t, os.MkdirAll(sub, 0o755))

	select {
	case <-w.Signals():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a signal for new directory")
	}

	// Writes inside the new directory are observed too.
	require.NoError(t, os.WriteFile(filepath.Join(sub, "index.html"), []byte("x"), 0o644))

	select {
	case <-w.Signals():
	case <-time.After(3 * time.Second):
		t.Fatal("expected a signal for file in new directory")
	}
}
