package watcher_test

import (
	"sync"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/adapters/watcher"
)

func TestDebouncer_Add_SinglePath(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/project/src/Main.java")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/project/src/Main.java"}, calls[0])
	})
}

func TestDebouncer_Add_Coalesces(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var calls [][]string
		d := watcher.NewDebouncer(100*time.Millisecond, func(paths []string) {
			calls = append(calls, paths)
		})

		d.Add("/src/b.java")
		time.Sleep(60 * time.Millisecond)
		d.Add("/src/a.java")
		time.Sleep(60 * time.Millisecond)
		d.Add("/src/b.java")

		synctest.Wait()
		assert.Empty(t, calls, "quiet period restarts on every add")

		time.Sleep(150 * time.Millisecond)
		synctest.Wait()

		require.Len(t, calls, 1)
		assert.Equal(t, []string{"/src/a.java", "/src/b.java"}, calls[0])
	})
}

func TestDebouncer_SeparateBatches(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		var mu sync.Mutex
		var calls [][]string
		d := watcher.NewDebouncer(50*time.Millisecond, func(paths []string) {
			mu.Lock()
			defer mu.Unlock()
			calls = append(calls, paths)
		})

		d.Add("/src/a.java")
		time.Sleep(100 * time.Millisecond)
		d.Add("/src/b.java")
		time.Sleep(100 * time.Millisecond)
		synctest.Wait()

		mu.Lock()
		defer mu.Unlock()
		assert.Equal(t, [][]string{{"/src/a.java"}, {"/src/b.java"}}, calls)
	})
}

func TestDebouncer_Stop(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		called := false
		d := watcher.NewDebouncer(50*time.Millisecond, func([]string) { called = true })

		d.Add("/src/a.java")
		d.Stop()

		time.Sleep(100 * time.Millisecond)
		synctest.Wait()
		assert.False(t, called)
	})
}

func TestDebouncer_NilCallback(t *testing.T) {
	synctest.Test(t, func(_ *testing.T) {
		d := watcher.NewDebouncer(10*time.Millisecond, nil)
		d.Add("/src/a.java")
		time.Sleep(20 * time.Millisecond)
		synctest.Wait()
	})
}
