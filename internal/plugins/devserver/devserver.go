// Package devserver supervises the auxiliary development server declared in
// the manifest, typically a front-end bundler, during dev sessions.
package devserver

import (
	"context"
	"net"
	"path/filepath"
	"strconv"
	"sync"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// Name is the plugin name.
const Name = "devserver"

// PortEnvVar carries the reserved port to the dev server and the program.
const PortEnvVar = "PORT"

// Server is the plugin state for one dev session.
type Server struct {
	executor ports.Executor
	logger   ports.Logger
	freePort func() (int, error)

	mu   sync.Mutex
	proc ports.Process
	done chan struct{}
}

// New creates a Server. freePort reserves a TCP port; nil uses FreePort.
func New(executor ports.Executor, logger ports.Logger, freePort func() (int, error)) *Server {
	if freePort == nil {
		freePort = FreePort
	}
	return &Server{executor: executor, logger: logger, freePort: freePort}
}

// Plugin returns the lifecycle plugin backed by s.
func (s *Server) Plugin() *lifecycle.Plugin {
	return &lifecycle.Plugin{
		Name:            Name,
		TransformConfig: s.transform,
		Hooks: map[lifecycle.Phase]lifecycle.Hook{
			lifecycle.DevServerStart: s.start,
			lifecycle.Cleanup:        s.cleanup,
		},
	}
}

// FreePort asks the kernel for an unused loopback port.
func FreePort() (int, error) {
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return 0, err
	}
	defer func() { _ = l.Close() }()
	return l.Addr().(*net.TCPAddr).Port, nil
}

func (s *Server) transform(_ context.Context, cfg domain.BuildConfig) (domain.BuildConfig, error) {
	if len(cfg.DevServer.Command) == 0 || cfg.DevServerPort != 0 {
		return cfg, nil
	}
	port, err := s.freePort()
	if err != nil {
		return cfg, zerr.Wrap(err, "failed to reserve dev server port")
	}
	return cfg.WithDevServerPort(port).WithEnv(PortEnvVar, strconv.Itoa(port)), nil
}

func (s *Server) start(ctx context.Context, cfg domain.BuildConfig) error {
	if len(cfg.DevServer.Command) == 0 {
		return zerr.With(domain.ErrNoDevServer, "project", cfg.ProjectName)
	}

	dir := cfg.DevServer.Dir
	if dir == "" {
		dir = cfg.ProjectDir
	} else if !filepath.IsAbs(dir) {
		dir = filepath.Join(cfg.ProjectDir, dir)
	}

	proc, err := s.executor.Start(ctx, &domain.Command{
		Name: "dev-server",
		Args: cfg.DevServer.Command,
		Dir:  dir,
		Env:  cfg.Environ(),
	})
	if err != nil {
		return err
	}

	done := make(chan struct{})
	s.mu.Lock()
	s.proc = proc
	s.done = done
	s.mu.Unlock()

	s.logger.Info("dev server started on port " + strconv.Itoa(cfg.DevServerPort))

	go func() {
		defer close(done)
		if err := proc.Wait(); err != nil && ctx.Err() == nil {
			s.logger.Warn("dev server exited: " + err.Error())
		}
	}()
	return nil
}

func (s *Server) cleanup(_ context.Context, _ domain.BuildConfig) error {
	s.mu.Lock()
	proc, done := s.proc, s.done
	s.proc, s.done = nil, nil
	s.mu.Unlock()

	if proc == nil {
		return nil
	}
	err := proc.Stop()
	<-done
	return err
}
