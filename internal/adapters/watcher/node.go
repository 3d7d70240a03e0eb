package watcher

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the change notifier Graft node.
const NodeID graft.ID = "adapter.change_notifier"

func init() {
	graft.Register(graft.Node[ports.ChangeNotifier]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ChangeNotifier, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewNotifier(func() (ports.Watcher, error) {
				return NewWatcher(log)
			}, DefaultDebounceWindow), nil
		},
	})
}
