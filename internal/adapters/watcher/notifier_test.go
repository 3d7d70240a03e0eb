package watcher_test

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/watcher"
	"go.trai.ch/kiln/internal/core/ports"
)

type fakeWatcher struct {
	events chan ports.WatchEvent
	once   sync.Once
}

func newFakeWatcher() *fakeWatcher {
	return &fakeWatcher{events: make(chan ports.WatchEvent, 16)}
}

func (f *fakeWatcher) Start(context.Context, string) error { return nil }

func (f *fakeWatcher) Stop() error {
	f.once.Do(func() { close(f.events) })
	return nil
}

func (f *fakeWatcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for e := range f.events {
			if !yield(e) {
				return
			}
		}
	}
}

func TestNotifier_Watch(t *testing.T) {
	root := t.TempDir()
	changed := filepath.Join(root, "A.java")
	untouched := filepath.Join(root, "B.java")
	require.NoError(t, os.WriteFile(changed, []byte("class A {}"), 0o600))
	require.NoError(t, os.WriteFile(untouched, []byte("class B {}"), 0o600))

	synctest.Test(t, func(t *testing.T) {
		fw := newFakeWatcher()
		n := watcher.NewNotifier(func() (ports.Watcher, error) { return fw, nil }, 100*time.Millisecond)

		ctx, cancel := context.WithCancel(t.Context())
		var batches [][]string
		done := make(chan error, 1)
		go func() {
			done <- n.Watch(ctx, root, func(_ context.Context, paths []string) {
				batches = append(batches, paths)
			})
		}()
		synctest.Wait()

		require.NoError(t, os.WriteFile(changed, []byte("class A { int x; }"), 0o600))
		fw.events <- ports.WatchEvent{Path: changed, Operation: ports.OpWrite}
		fw.events <- ports.WatchEvent{Path: untouched, Operation: ports.OpWrite}
		fw.events <- ports.WatchEvent{Path: root, Operation: ports.OpWrite}

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, batches, 1)
		assert.Equal(t, []string{changed}, batches[0])

		cancel()
		require.NoError(t, <-done)
	})
}

func TestNotifier_Watch_NoContentChange(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "A.java")
	require.NoError(t, os.WriteFile(file, []byte("class A {}"), 0o600))

	synctest.Test(t, func(t *testing.T) {
		fw := newFakeWatcher()
		n := watcher.NewNotifier(func() (ports.Watcher, error) { return fw, nil }, 50*time.Millisecond)

		ctx, cancel := context.WithCancel(t.Context())
		called := false
		done := make(chan error, 1)
		go func() {
			done <- n.Watch(ctx, root, func(context.Context, []string) { called = true })
		}()
		synctest.Wait()

		fw.events <- ports.WatchEvent{Path: file, Operation: ports.OpWrite}
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.False(t, called)

		cancel()
		require.NoError(t, <-done)
	})
}

func TestWatcher_DeliversEvents(t *testing.T) {
	root := t.TempDir()
	w, err := watcher.NewWatcher(nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	require.NoError(t, w.Start(ctx, root))
	defer func() { _ = w.Stop() }()

	file := filepath.Join(root, "Main.java")
	require.NoError(t, os.WriteFile(file, []byte("class Main {}"), 0o600))

	timeout := time.After(5 * time.Second)
	events := make(chan ports.WatchEvent, 64)
	go func() {
		for e := range w.Events() {
			events <- e
		}
		close(events)
	}()

	for {
		select {
		case e := <-events:
			if e.Path == file {
				return
			}
		case <-timeout:
			t.Fatal("no event for written file")
		}
	}
}
