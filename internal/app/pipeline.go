package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/kiln/internal/plugins/catalog"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Options configuration shared by the compile, run, test, build and dev commands.
type Options struct {
	// Dir is where project discovery starts. Empty means the working directory.
	Dir string
	// Jobs bounds how many independent projects compile at once.
	Jobs int
}

// target is one project prepared for a lifecycle phase.
type target struct {
	plugins  *lifecycle.Manager
	config   domain.BuildConfig
	language lifecycle.Language
}

// Compile compiles the project in opts.Dir and every local project it depends on.
func (a *App) Compile(ctx context.Context, opts Options) error {
	s, err := a.open(opts.Dir)
	if err != nil {
		return err
	}
	return a.compileWorkspace(ctx, s, opts.Jobs)
}

// Run compiles the workspace and runs the main class of the current project.
func (a *App) Run(ctx context.Context, opts Options) (err error) {
	t, err := a.current(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.cleanup(ctx, t)) }()

	if err := t.plugins.RunHook(ctx, lifecycle.BeforeRun, t.config); err != nil {
		return err
	}
	if err := t.language.Run(ctx, t.config); err != nil {
		return err
	}
	return t.plugins.RunHook(ctx, lifecycle.AfterRun, t.config)
}

// Test compiles the workspace and runs the tests of the current project.
func (a *App) Test(ctx context.Context, opts Options) (err error) {
	t, err := a.current(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { err = errors.Join(err, a.cleanup(ctx, t)) }()

	return t.language.Test(ctx, t.config)
}

// Build compiles the workspace, packages the current project and returns the archive path.
func (a *App) Build(ctx context.Context, opts Options) (_ string, err error) {
	t, err := a.current(ctx, opts)
	if err != nil {
		return "", err
	}
	defer func() { err = errors.Join(err, a.cleanup(ctx, t)) }()

	if err := t.plugins.RunHook(ctx, lifecycle.BeforeBuild, t.config); err != nil {
		return "", err
	}
	archive, err := t.language.Build(ctx, t.config)
	if err != nil {
		return "", err
	}
	if err := t.plugins.RunHook(ctx, lifecycle.AfterBuild, t.config); err != nil {
		return "", err
	}
	a.logger.Info("built " + archive)
	return archive, nil
}

// Dev compiles the workspace, starts the dev server hooks and keeps the program
// running, restarting it after every successful recompile, until ctx is done.
func (a *App) Dev(ctx context.Context, opts Options) error {
	s, err := a.open(opts.Dir)
	if err != nil {
		return err
	}
	if err := a.compileWorkspace(ctx, s, opts.Jobs); err != nil {
		return err
	}

	devCtx, stop := context.WithCancel(ctx)
	defer stop()

	restart := make(chan struct{}, 1)
	var t *target
	recompile := func(ctx context.Context) error {
		if err := a.compileTarget(ctx, t); err != nil {
			return err
		}
		select {
		case restart <- struct{}{}:
		default:
		}
		return nil
	}

	t, err = a.prepare(devCtx, s, s.ws.Current, recompile)
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(devCtx)
	if err := t.plugins.RunHook(gctx, lifecycle.DevServerStart, t.config); err != nil {
		stop()
		return errors.Join(err, a.cleanup(ctx, t))
	}
	g.Go(func() error {
		return a.supervise(gctx, t, restart)
	})

	err = g.Wait()
	stop()
	return errors.Join(err, a.cleanup(ctx, t))
}

// supervise runs the program until ctx is done. A restart signal stops the
// running program and starts it again; a failed program waits for the next one.
func (a *App) supervise(ctx context.Context, t *target, restart <-chan struct{}) error {
	if t.config.MainClass == "" {
		a.logger.Info("no main class configured, serving dev hooks only")
		<-ctx.Done()
		return nil
	}

	for {
		runCtx, cancel := context.WithCancel(ctx)
		done := make(chan error, 1)
		go func() {
			done <- t.language.Run(runCtx, t.config)
		}()

		select {
		case <-ctx.Done():
			cancel()
			<-done
			return nil
		case <-restart:
			cancel()
			<-done
			a.logger.Info("restarting " + t.config.ProjectName)
			continue
		case err := <-done:
			cancel()
			if err != nil {
				a.logger.Error(err)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		case <-restart:
			a.logger.Info("restarting " + t.config.ProjectName)
		}
	}
}

func (a *App) cleanup(ctx context.Context, t *target) error {
	return t.plugins.RunHook(context.WithoutCancel(ctx), lifecycle.Cleanup, t.config)
}

// current compiles the workspace and prepares the current project.
func (a *App) current(ctx context.Context, opts Options) (*target, error) {
	s, err := a.open(opts.Dir)
	if err != nil {
		return nil, err
	}
	if err := a.compileWorkspace(ctx, s, opts.Jobs); err != nil {
		return nil, err
	}
	return a.prepare(ctx, s, s.ws.Current, nil)
}

// compileWorkspace compiles the current project's local graph in build order.
func (a *App) compileWorkspace(ctx context.Context, s *session, jobs int) error {
	g, err := s.graph()
	if err != nil {
		return err
	}
	a.logger.Info("build " + s.buildID)
	return a.scheduler.Run(ctx, g, jobs, func(ctx context.Context, name domain.InternedString) error {
		p, ok := s.ws.Lookup(name.String())
		if !ok {
			return zerr.With(domain.ErrProjectNotFound, "project", name.String())
		}
		t, err := a.prepare(ctx, s, p, nil)
		if err != nil {
			return err
		}
		return a.compileTarget(ctx, t)
	})
}

// prepare resolves the classpath, instantiates the enabled plugins and threads
// the build config through them.
func (a *App) prepare(
	ctx context.Context,
	s *session,
	p *domain.Project,
	recompile func(context.Context) error,
) (*target, error) {
	cp, err := a.resolveProject(ctx, s, p, false)
	if err != nil {
		return nil, err
	}

	plugins, err := catalog.Build(p.Plugins, catalog.Deps{
		Executor:  a.executor,
		Notifier:  a.notifier,
		Logger:    a.logger,
		Recompile: recompile,
		Now:       a.now,
		FreePort:  a.freePort,
	})
	if err != nil {
		return nil, zerr.With(err, "project", p.Name.String())
	}
	manager := lifecycle.NewManager(plugins...)

	cfg, err := manager.ResolveConfig(ctx, domain.NewBuildConfig(p, s.buildID).WithClasspath(cp))
	if err != nil {
		return nil, err
	}

	lang, err := language(manager, cfg)
	if err != nil {
		return nil, err
	}
	return &target{plugins: manager, config: cfg, language: lang}, nil
}

// compileTarget recompiles the stale sources of t, skipping the whole module
// when no source is newer than its oldest output.
func (a *App) compileTarget(ctx context.Context, t *target) error {
	cfg := t.config
	needed, err := a.staleness.ModuleNeedsCompile(cfg.SourceRoot, cfg.OutputRoot)
	if err != nil {
		return err
	}
	if !needed {
		a.logger.Info(cfg.ProjectName + " is up to date")
		return nil
	}

	if err := t.plugins.RunHook(ctx, lifecycle.BeforeCompile, cfg); err != nil {
		return err
	}

	stale, err := a.staleness.StaleSources(cfg.SourceRoot, cfg.OutputRoot, t.plugins.OutputExtensions())
	if err != nil {
		return err
	}
	byExt := make(map[string][]string)
	for _, src := range stale {
		ext := filepath.Ext(src)
		byExt[ext] = append(byExt[ext], src)
	}
	for _, ext := range t.plugins.Extensions() {
		sources := byExt[ext]
		if len(sources) == 0 {
			continue
		}
		lang, _ := t.plugins.Language(ext)
		a.logger.Info(fmt.Sprintf("compiling %s (%d %s sources)", cfg.ProjectName, len(sources), ext))
		if err := lang.Compile(ctx, cfg, sources); err != nil {
			return err
		}
	}

	return t.plugins.RunHook(ctx, lifecycle.AfterCompile, cfg)
}

// language picks the language of the first source file found under the source
// root, falling back to the first registered extension.
func language(m *lifecycle.Manager, cfg domain.BuildConfig) (lifecycle.Language, error) {
	exts := m.Extensions()
	if len(exts) == 0 {
		return lifecycle.Language{}, zerr.With(domain.ErrNoLanguageSupport, "project", cfg.ProjectName)
	}

	found := ""
	_ = filepath.WalkDir(cfg.SourceRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		if _, ok := m.Language(filepath.Ext(path)); ok {
			found = filepath.Ext(path)
			return filepath.SkipAll
		}
		return nil
	})
	if found == "" {
		found = exts[0]
	}
	lang, _ := m.Language(found)
	return lang, nil
}
