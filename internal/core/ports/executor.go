// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

//go:generate mockgen -source=executor.go -destination=mocks/mock_executor.go -package=mocks

// Executor runs external tools: the compiler, the archiver and the launcher.
type Executor interface {
	// Execute runs cmd to completion, streaming its output to the logger.
	// A non-zero exit is returned as an error carrying the exit code.
	Execute(ctx context.Context, cmd *domain.Command) error
	// Start launches a long-running cmd and returns without waiting.
	Start(ctx context.Context, cmd *domain.Command) (Process, error)
}

// Process is a started command.
type Process interface {
	// Wait blocks until the process exits.
	Wait() error
	// Stop terminates the process and waits for it.
	Stop() error
}
