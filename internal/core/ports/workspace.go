package ports

import "go.trai.ch/kiln/internal/core/domain"

// WorkspaceResolver discovers the local projects visible from a directory.
//
//go:generate mockgen -source=workspace.go -destination=mocks/mock_workspace.go -package=mocks
type WorkspaceResolver interface {
	// Discover returns the workspace seen from cwd. The nearest manifest at or
	// above cwd is the current project; nearer projects shadow farther ones.
	Discover(cwd string) (*domain.Workspace, error)
}
