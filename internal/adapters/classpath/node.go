package classpath

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/core/ports"
)

// NodeID is the unique identifier for the classpath cache Graft node.
const NodeID graft.ID = "adapter.classpath_cache"

func init() {
	graft.Register(graft.Node[ports.ClasspathCache]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.ClasspathCache, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewCache(log), nil
		},
	})
}
