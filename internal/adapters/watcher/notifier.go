package watcher

import (
	"context"
	"sync"
	"time"

	"go.trai.ch/kiln/internal/core/ports"
)

// DefaultDebounceWindow is the quiet period before a batch of changes is delivered.
const DefaultDebounceWindow = 200 * time.Millisecond

// Notifier implements ports.ChangeNotifier on top of a Watcher, a ContentFilter and a Debouncer.
type Notifier struct {
	newWatcher func() (ports.Watcher, error)
	window     time.Duration
}

var _ ports.ChangeNotifier = (*Notifier)(nil)

// NewNotifier creates a Notifier. newWatcher is called once per Watch.
func NewNotifier(newWatcher func() (ports.Watcher, error), window time.Duration) *Notifier {
	return &Notifier{newWatcher: newWatcher, window: window}
}

// Watch calls onChange with each batch of changed files until ctx is done.
// Calls never overlap.
func (n *Notifier) Watch(ctx context.Context, root string, onChange func(ctx context.Context, paths []string)) error {
	w, err := n.newWatcher()
	if err != nil {
		return err
	}
	if err := w.Start(ctx, root); err != nil {
		_ = w.Stop()
		return err
	}

	filter := NewContentFilter()
	filter.Seed(root)

	var mu sync.Mutex
	d := NewDebouncer(n.window, func(paths []string) {
		mu.Lock()
		defer mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		onChange(ctx, paths)
	})

	stop := context.AfterFunc(ctx, func() { _ = w.Stop() })
	defer stop()

	for event := range w.Events() {
		if filter.Changed(event.Path) {
			d.Add(event.Path)
		}
	}

	d.Stop()
	mu.Lock()
	defer mu.Unlock()
	return nil
}
