package ports

import "go.trai.ch/kiln/internal/core/domain"

// ManifestLoader reads project manifests.
//
//go:generate mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestLoader interface {
	// Find returns the manifest path in dir, or "" if dir has none.
	Find(dir string) string
	// Load parses the manifest in dir. A manifest without a name is an error.
	Load(dir string) (*domain.Project, error)
}
