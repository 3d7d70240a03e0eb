package ports

import (
	"context"
	"io"

	"go.trai.ch/kiln/internal/core/domain"
)

// GraphRenderer writes a dependency graph in a presentation format.
//
//go:generate mockgen -source=renderer.go -destination=mocks/mock_renderer.go -package=mocks
type GraphRenderer interface {
	// Render writes g to w. format is "order", "dot" or "svg".
	Render(ctx context.Context, g *domain.Graph, format string, w io.Writer) error
}
