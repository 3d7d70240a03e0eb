package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=remote.go -destination=mocks/mock_remote.go -package=mocks

// Fetcher runs the external resolution tool.
type Fetcher interface {
	// Fetch resolves coordinates in registry syntax and returns the downloaded file paths.
	Fetch(ctx context.Context, coords, repositories []string) ([]string, error)
}

// ArtifactStore is the global deduplicated artifact store.
type ArtifactStore interface {
	// Parse maps a downloaded path onto an artifact. It reports false for
	// paths that do not follow a repository layout.
	Parse(path string, repositories []string) (domain.Artifact, bool)
	// EnsureCopy copies src into the store unless the artifact is already there
	// and returns the canonical path.
	EnsureCopy(artifact domain.Artifact, src string) (string, error)
	// EnsureLink links the artifact's group directory into the project.
	EnsureLink(projectDir string, artifact domain.Artifact) error
}

// RemoteResolver resolves dependencies that no local project satisfies.
type RemoteResolver interface {
	// Resolve returns the classpath fragment of deps, as canonical store paths.
	Resolve(ctx context.Context, project *domain.Project, deps []domain.Dependency) (domain.Classpath, error)
}
