package ports

import "go.trai.ch/kiln/internal/core/domain"

// ClasspathCache persists resolved classpaths per project.
//
//go:generate mockgen -source=classpath.go -destination=mocks/mock_classpath.go -package=mocks
type ClasspathCache interface {
	// Lookup returns the cached classpath when it is still valid.
	Lookup(project *domain.Project) (domain.Classpath, bool)
	// Save orders entries by the project's declared dependencies, persists them
	// and returns the stored order.
	Save(project *domain.Project, entries domain.Classpath) (domain.Classpath, error)
	// Invalidate removes the cache.
	Invalidate(project *domain.Project) error
}
