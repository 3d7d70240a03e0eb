package remote

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/kiln/internal/adapters/logger"
	"go.trai.ch/kiln/internal/adapters/store"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
)

const (
	// FetcherNodeID is the unique identifier for the resolver tool Graft node.
	FetcherNodeID graft.ID = "adapter.remote.fetcher"
	// NodeID is the unique identifier for the remote resolver Graft node.
	NodeID graft.ID = "adapter.remote.resolver"
)

func init() {
	graft.Register(graft.Node[ports.Fetcher]{
		ID:        FetcherNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID},
		Run: func(ctx context.Context) (ports.Fetcher, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewFetcher(domain.DefaultResolverSettings(), log), nil
		},
	})

	graft.Register(graft.Node[ports.RemoteResolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{FetcherNodeID, store.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (ports.RemoteResolver, error) {
			fetcher, err := graft.Dep[ports.Fetcher](ctx)
			if err != nil {
				return nil, err
			}
			artifacts, err := graft.Dep[ports.ArtifactStore](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewResolver(fetcher, artifacts, log, domain.DefaultResolverSettings().Parallelism), nil
		},
	})
}
