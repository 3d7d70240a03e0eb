// Package hotreload recompiles the project whenever its sources change during a dev session.
package hotreload

import (
	"context"
	"strconv"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/lifecycle"
)

// Name is the plugin name.
const Name = "hotreload"

// Reloader is the plugin state for one dev session.
type Reloader struct {
	notifier  ports.ChangeNotifier
	logger    ports.Logger
	recompile func(ctx context.Context) error

	wg sync.WaitGroup
}

// New creates a Reloader. recompile is called after each batch of changes.
func New(notifier ports.ChangeNotifier, logger ports.Logger, recompile func(ctx context.Context) error) *Reloader {
	return &Reloader{notifier: notifier, logger: logger, recompile: recompile}
}

// Plugin returns the lifecycle plugin backed by r.
func (r *Reloader) Plugin() *lifecycle.Plugin {
	return &lifecycle.Plugin{
		Name: Name,
		Hooks: map[lifecycle.Phase]lifecycle.Hook{
			lifecycle.DevServerStart: r.start,
			lifecycle.Cleanup:        r.cleanup,
		},
	}
}

// start watches the source root until ctx is done.
func (r *Reloader) start(ctx context.Context, cfg domain.BuildConfig) error {
	r.wg.Go(func() {
		err := r.notifier.Watch(ctx, cfg.SourceRoot, func(ctx context.Context, paths []string) {
			r.logger.Info(strconv.Itoa(len(paths)) + " changed file(s), recompiling")
			if err := r.recompile(ctx); err != nil {
				r.logger.Error(err)
			}
		})
		if err != nil {
			r.logger.Error(err)
		}
	})
	r.logger.Info("watching " + cfg.SourceRoot)
	return nil
}

// cleanup waits for the watcher, which stops with the session context.
func (r *Reloader) cleanup(_ context.Context, _ domain.BuildConfig) error {
	r.wg.Wait()
	return nil
}
