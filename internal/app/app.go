// Package app implements the application layer for kiln.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.trai.ch/kiln/internal/adapters/classpath" //nolint:depguard // Wired in app layer
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/zerr"
)

// App represents the main application logic.
type App struct {
	workspace ports.WorkspaceResolver
	remote    ports.RemoteResolver
	cache     ports.ClasspathCache
	staleness ports.StalenessChecker
	executor  ports.Executor
	notifier  ports.ChangeNotifier
	renderer  ports.GraphRenderer
	tracer    ports.Tracer
	scheduler *scheduler.Scheduler
	logger    ports.Logger

	newBuildID func() string
	now        func() time.Time
	freePort   func() (int, error)
	storeDir   string
}

// New creates a new App instance.
func New(
	workspace ports.WorkspaceResolver,
	remote ports.RemoteResolver,
	cache ports.ClasspathCache,
	staleness ports.StalenessChecker,
	executor ports.Executor,
	notifier ports.ChangeNotifier,
	renderer ports.GraphRenderer,
	tracer ports.Tracer,
	sched *scheduler.Scheduler,
	log ports.Logger,
) *App {
	return &App{
		workspace:  workspace,
		remote:     remote,
		cache:      cache,
		staleness:  staleness,
		executor:   executor,
		notifier:   notifier,
		renderer:   renderer,
		tracer:     tracer,
		scheduler:  sched,
		logger:     log,
		newBuildID: uuid.NewString,
		now:        time.Now,
		storeDir:   domain.DefaultResolverSettings().StoreDir,
	}
}

// WithBuildIDs replaces the build ID generator. Used for testing.
func (a *App) WithBuildIDs(next func() string) *App {
	a.newBuildID = next
	return a
}

// WithClock replaces the clock stamped into generated build info. Used for testing.
func (a *App) WithClock(now func() time.Time) *App {
	a.now = now
	return a
}

// WithFreePort replaces the dev server port allocator. Used for testing.
func (a *App) WithFreePort(freePort func() (int, error)) *App {
	a.freePort = freePort
	return a
}

// WithStoreDir replaces the global artifact store removed by Clean. Used for testing.
func (a *App) WithStoreDir(dir string) *App {
	a.storeDir = dir
	return a
}

// attrSetter is implemented by loggers that tag every record.
type attrSetter interface {
	SetAttrs(args ...any)
}

// session is one discovery pass over the local workspace.
type session struct {
	ws      *domain.Workspace
	buildID string
}

func (a *App) open(dir string) (*session, error) {
	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, "failed to resolve working directory")
	}
	ws, err := a.workspace.Discover(abs)
	if err != nil {
		return nil, err
	}
	id := a.newBuildID()
	if l, ok := a.logger.(attrSetter); ok {
		l.SetAttrs("build_id", id)
	}
	return &session{ws: ws, buildID: id}, nil
}

func (s *session) graph() (*domain.Graph, error) {
	g, err := s.ws.BuildGraph(s.ws.Current)
	if err != nil {
		return nil, err
	}
	if _, err := g.TopologicalOrder(); err != nil {
		return nil, err
	}
	return g, nil
}

// ResolveOptions configuration for the Resolve method.
type ResolveOptions struct {
	Dir     string
	Refresh bool
}

// Resolve returns the full classpath of the project in opts.Dir.
func (a *App) Resolve(ctx context.Context, opts ResolveOptions) (domain.Classpath, error) {
	s, err := a.open(opts.Dir)
	if err != nil {
		return nil, err
	}
	return a.resolveProject(ctx, s, s.ws.Current, opts.Refresh)
}

// resolveProject serves the classpath from the cache when it is still valid and
// otherwise resolves local then remote dependencies and persists the result.
func (a *App) resolveProject(
	ctx context.Context,
	s *session,
	p *domain.Project,
	refresh bool,
) (_ domain.Classpath, err error) {
	if !refresh {
		if saved, ok := a.cache.Lookup(p); ok {
			return classpath.Assemble(p.OutputRoot(), saved, nil), nil
		}
	}

	ctx, span := a.tracer.Start(ctx, "resolve", ports.WithAttribute("project", p.Name.String()))
	defer func() {
		if err != nil {
			span.RecordError(err)
		}
		span.End()
	}()

	g, err := s.ws.BuildGraph(p)
	if err != nil {
		return nil, err
	}
	transitive, err := g.DependenciesOf(p.Name)
	if err != nil {
		return nil, err
	}

	local, err := s.ws.ResolveDependencies(p.Dependencies)
	if err != nil {
		return nil, err
	}

	projects := []*domain.Project{p}
	entries := slices.Clone(local.LocalEntries)
	for _, name := range transitive {
		dep, _ := s.ws.Lookup(name.String())
		projects = append(projects, dep)
		if !slices.Contains(local.Projects, dep) {
			entries = append(entries, absPath(dep.OutputRoot()))
		}
	}

	remote, err := a.remote.Resolve(ctx, withRepositories(p, projects), s.ws.RemoteDependencies(projects))
	if err != nil {
		return nil, err
	}

	saved, err := a.cache.Save(p, classpath.Assemble("", entries, remote))
	if err != nil {
		return nil, err
	}
	span.SetAttribute("entries", len(saved))
	return classpath.Assemble(p.OutputRoot(), saved, nil), nil
}

// withRepositories returns a copy of p that searches the repositories of every project.
func withRepositories(p *domain.Project, projects []*domain.Project) *domain.Project {
	merged := *p
	merged.Repositories = nil
	for _, q := range projects {
		for _, repo := range q.Repositories {
			if !slices.Contains(merged.Repositories, repo) {
				merged.Repositories = append(merged.Repositories, repo)
			}
		}
	}
	return &merged
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// GraphOptions configuration for the Graph method.
type GraphOptions struct {
	Dir    string
	Format string
}

// Graph writes the local dependency graph of the project in opts.Dir to w.
func (a *App) Graph(ctx context.Context, opts GraphOptions, w io.Writer) error {
	s, err := a.open(opts.Dir)
	if err != nil {
		return err
	}
	g, err := s.graph()
	if err != nil {
		return err
	}
	return a.renderer.Render(ctx, g, opts.Format, w)
}

// CleanOptions configuration for the Clean method.
type CleanOptions struct {
	Dir string
	// All cleans every local project the current one depends on as well.
	All bool
	// Store removes the global artifact store.
	Store bool
}

// Clean removes build outputs, classpath caches and dependency links.
func (a *App) Clean(_ context.Context, opts CleanOptions) error {
	s, err := a.open(opts.Dir)
	if err != nil {
		return err
	}

	projects := []*domain.Project{s.ws.Current}
	if opts.All {
		g, err := s.graph()
		if err != nil {
			return err
		}
		deps, err := g.DependenciesOf(s.ws.Current.Name)
		if err != nil {
			return err
		}
		for _, name := range deps {
			p, _ := s.ws.Lookup(name.String())
			projects = append(projects, p)
		}
	}

	var errs error
	remove := func(path string) {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return
		}
		a.logger.Info(fmt.Sprintf("removing %s", path))
		if err := os.RemoveAll(path); err != nil {
			errs = errors.Join(errs, zerr.With(zerr.Wrap(err, domain.ErrCleanFailed.Error()), "path", path))
		}
	}

	for _, p := range projects {
		remove(p.OutputRoot())
		remove(p.DistRoot())
		remove(domain.DepsLinkDir(p.Dir))
		if err := a.cache.Invalidate(p); err != nil {
			errs = errors.Join(errs, zerr.Wrap(err, domain.ErrCleanFailed.Error()))
		}
	}
	if opts.Store {
		remove(a.storeDir)
	}
	return errs
}
