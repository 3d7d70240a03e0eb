package remote

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Resolver implements ports.RemoteResolver.
type Resolver struct {
	fetcher     ports.Fetcher
	store       ports.ArtifactStore
	logger      ports.Logger
	parallelism int
}

var _ ports.RemoteResolver = (*Resolver)(nil)

// NewResolver creates a Resolver. parallelism bounds concurrent store copies.
func NewResolver(fetcher ports.Fetcher, store ports.ArtifactStore, logger ports.Logger, parallelism int) *Resolver {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Resolver{fetcher: fetcher, store: store, logger: logger, parallelism: parallelism}
}

// Resolve fetches deps and returns their canonical store paths in the order the tool reported them.
// Paths outside any repository layout are kept as reported. Group links are best effort.
func (r *Resolver) Resolve(ctx context.Context, project *domain.Project, deps []domain.Dependency) (domain.Classpath, error) {
	if len(deps) == 0 {
		return nil, nil
	}

	coords := make([]string, 0, len(deps))
	for _, dep := range deps {
		coords = append(coords, domain.ToRegistry(dep.Name, dep.Version))
	}

	paths, err := r.fetcher.Fetch(ctx, coords, project.Repositories)
	if err != nil {
		return nil, err
	}

	entries := make(domain.Classpath, len(paths))
	artifacts := make([]domain.Artifact, len(paths))
	parsed := make([]bool, len(paths))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(r.parallelism)

	for i, p := range paths {
		a, ok := r.store.Parse(p, project.Repositories)
		if !ok {
			entries[i] = p
			continue
		}
		g.Go(func() error {
			dst, err := r.store.EnsureCopy(a, p)
			if err != nil {
				return err
			}
			a.Path = dst
			entries[i] = dst
			artifacts[i] = a
			parsed[i] = true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	linked := make(map[string]struct{})
	for i, a := range artifacts {
		if !parsed[i] {
			continue
		}
		if _, ok := linked[a.Group]; ok {
			continue
		}
		linked[a.Group] = struct{}{}
		if err := r.store.EnsureLink(project.Dir, a); err != nil {
			r.logger.Warn("could not link " + a.Group + ": " + err.Error())
		}
	}

	return entries, nil
}
