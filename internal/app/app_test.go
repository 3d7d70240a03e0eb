package app_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/app"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/core/ports/mocks"
	"go.trai.ch/kiln/internal/engine/scheduler"
	"go.trai.ch/kiln/internal/plugins/buildinfo"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

var javaExts = map[string]string{".java": ".class"}

type harness struct {
	ws        *mocks.MockWorkspaceResolver
	remote    *mocks.MockRemoteResolver
	cache     *mocks.MockClasspathCache
	staleness *mocks.MockStalenessChecker
	executor  *mocks.MockExecutor
	notifier  *mocks.MockChangeNotifier
	renderer  *mocks.MockGraphRenderer
	logger    *mocks.MockLogger
	storeDir  string
	app       *app.App
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	ctrl := gomock.NewController(t)

	tracer := mocks.NewMockTracer(ctrl)
	span := mocks.NewMockSpan(ctrl)
	tracer.EXPECT().EmitPlan(gomock.Any(), gomock.Any()).AnyTimes()
	tracer.EXPECT().Start(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, _ ...any) (context.Context, *mocks.MockSpan) {
			return ctx, span
		}).AnyTimes()
	span.EXPECT().End().AnyTimes()
	span.EXPECT().RecordError(gomock.Any()).AnyTimes()
	span.EXPECT().SetAttribute(gomock.Any(), gomock.Any()).AnyTimes()

	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Info("build build-1").AnyTimes()

	h := &harness{
		ws:        mocks.NewMockWorkspaceResolver(ctrl),
		remote:    mocks.NewMockRemoteResolver(ctrl),
		cache:     mocks.NewMockClasspathCache(ctrl),
		staleness: mocks.NewMockStalenessChecker(ctrl),
		executor:  mocks.NewMockExecutor(ctrl),
		notifier:  mocks.NewMockChangeNotifier(ctrl),
		renderer:  mocks.NewMockGraphRenderer(ctrl),
		logger:    logger,
		storeDir:  filepath.Join(t.TempDir(), "artifacts"),
	}
	h.app = app.New(
		h.ws, h.remote, h.cache, h.staleness, h.executor,
		h.notifier, h.renderer, tracer, scheduler.NewScheduler(tracer), h.logger,
	).
		WithBuildIDs(func() string { return "build-1" }).
		WithClock(func() time.Time { return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC) }).
		WithFreePort(func() (int, error) { return 4000, nil }).
		WithStoreDir(h.storeDir)
	return h
}

// workspace makes every discovery return ws.
func (h *harness) workspace(ws *domain.Workspace) {
	h.ws.EXPECT().Discover(gomock.Any()).Return(ws, nil).AnyTimes()
}

func (h *harness) cached(p *domain.Project, cp domain.Classpath) {
	h.cache.EXPECT().Lookup(p).Return(cp, true).AnyTimes()
}

func (h *harness) upToDate(p *domain.Project) {
	h.staleness.EXPECT().ModuleNeedsCompile(p.SourceRoot(), p.OutputRoot()).Return(false, nil).AnyTimes()
	h.logger.EXPECT().Info(p.Name.String() + " is up to date").AnyTimes()
}

func project(t *testing.T, name, version string, deps ...domain.Dependency) *domain.Project {
	t.Helper()
	return &domain.Project{
		Name:         domain.NewInternedString(name),
		Version:      version,
		Dir:          t.TempDir(),
		Dependencies: deps,
	}
}

func dep(name, version string) domain.Dependency {
	return domain.Dependency{Name: name, Version: version}
}

func TestApp_Resolve_CacheHit(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, domain.Classpath{"/store/slf4j.jar"})

	cp, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: p.Dir})
	require.NoError(t, err)
	assert.Equal(t, domain.Classpath{"/store/slf4j.jar"}, cp)
}

func TestApp_Resolve_OwnOutputFirst(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	require.NoError(t, os.MkdirAll(p.OutputRoot(), 0o750))
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, domain.Classpath{"/store/slf4j.jar"})

	cp, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: p.Dir})
	require.NoError(t, err)
	assert.Equal(t, domain.Classpath{p.OutputRoot(), "/store/slf4j.jar"}, cp)
}

func TestApp_Resolve_LocalThenRemote(t *testing.T) {
	h := newHarness(t)

	slf4j := dep("org.slf4j@slf4j-api", "2.0.9")
	guava := dep("com.google.guava@guava", "33.0.0")
	util := project(t, "com.acme@util", "0.2.0")
	core := project(t, "com.acme@core", "1.4.0", dep("com.acme@util", "*"), guava)
	core.Repositories = []string{"https://repo.acme.dev/maven", "https://repo1.maven.org/maven2"}
	appProject := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "^1.0.0"), slf4j)
	appProject.Repositories = []string{"https://repo1.maven.org/maven2"}

	ws := domain.NewWorkspace(appProject)
	ws.Register(core)
	ws.Register(util)
	h.workspace(ws)

	h.cache.EXPECT().Lookup(appProject).Return(nil, false)
	h.remote.EXPECT().Resolve(gomock.Any(), gomock.Any(), []domain.Dependency{slf4j, guava}).
		DoAndReturn(func(_ context.Context, p *domain.Project, _ []domain.Dependency) (domain.Classpath, error) {
			assert.Equal(t, appProject.Name, p.Name)
			assert.Equal(t, []string{"https://repo1.maven.org/maven2", "https://repo.acme.dev/maven"}, p.Repositories)
			return domain.Classpath{"/store/slf4j.jar", "/store/guava.jar"}, nil
		})

	want := domain.Classpath{core.OutputRoot(), util.OutputRoot(), "/store/slf4j.jar", "/store/guava.jar"}
	h.cache.EXPECT().Save(appProject, want).Return(want, nil)

	cp, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: appProject.Dir})
	require.NoError(t, err)
	assert.Equal(t, want, cp)
	assert.Equal(t, []string{"https://repo1.maven.org/maven2"}, appProject.Repositories)
}

func TestApp_Resolve_Refresh(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))

	h.remote.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Nil()).Return(nil, nil)
	h.cache.EXPECT().Save(p, domain.Classpath{}).Return(domain.Classpath{}, nil)

	cp, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: p.Dir, Refresh: true})
	require.NoError(t, err)
	assert.Empty(t, cp)
}

func TestApp_Resolve_VersionMismatch(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.4.0")
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "^2.0.0"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)
	h.cache.EXPECT().Lookup(p).Return(nil, false)

	_, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrVersionMismatch.Error())
}

func TestApp_Resolve_RemoteFailure(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0", dep("org.slf4j@slf4j-api", "2.0.9"))
	h.workspace(domain.NewWorkspace(p))
	h.cache.EXPECT().Lookup(p).Return(nil, false)
	h.remote.EXPECT().Resolve(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, domain.ErrRemoteResolutionFailed)

	_, err := h.app.Resolve(t.Context(), app.ResolveOptions{Dir: p.Dir})
	require.ErrorIs(t, err, domain.ErrRemoteResolutionFailed)
}

func TestApp_Compile_StaleSources(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, domain.Classpath{"/store/slf4j.jar"})

	main := filepath.Join(p.SourceRoot(), "com", "acme", "Main.java")
	h.staleness.EXPECT().ModuleNeedsCompile(p.SourceRoot(), p.OutputRoot()).Return(true, nil)
	h.staleness.EXPECT().StaleSources(p.SourceRoot(), p.OutputRoot(), javaExts).Return([]string{main}, nil)
	h.logger.EXPECT().Info("compiling com.acme@app (1 .java sources)")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, "javac", cmd.Name)
			assert.Equal(t, p.Dir, cmd.Dir)
			assert.Contains(t, cmd.Args, "/store/slf4j.jar")
			assert.Equal(t, main, cmd.Args[len(cmd.Args)-1])
			return nil
		})

	require.NoError(t, h.app.Compile(t.Context(), app.Options{Dir: p.Dir}))
}

func TestApp_Compile_NothingStale(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)

	h.staleness.EXPECT().ModuleNeedsCompile(p.SourceRoot(), p.OutputRoot()).Return(true, nil)
	h.staleness.EXPECT().StaleSources(p.SourceRoot(), p.OutputRoot(), javaExts).Return(nil, nil)

	require.NoError(t, h.app.Compile(t.Context(), app.Options{Dir: p.Dir}))
}

func TestApp_Compile_BuildOrder(t *testing.T) {
	h := newHarness(t)
	util := project(t, "com.acme@util", "0.2.0")
	core := project(t, "com.acme@core", "1.4.0", dep("com.acme@util", "*"))
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "1.4.0"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	ws.Register(util)
	h.workspace(ws)

	var order []string
	for _, q := range []*domain.Project{p, core, util} {
		h.cached(q, nil)
		h.staleness.EXPECT().ModuleNeedsCompile(q.SourceRoot(), q.OutputRoot()).Return(false, nil)
		h.logger.EXPECT().Info(q.Name.String() + " is up to date").Do(func(string) {
			order = append(order, q.Name.String())
		})
	}

	require.NoError(t, h.app.Compile(t.Context(), app.Options{Dir: p.Dir, Jobs: 1}))
	assert.Equal(t, []string{"com.acme@util", "com.acme@core", "com.acme@app"}, order)
}

func TestApp_Compile_Cycle(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.0.0", dep("com.acme@app", "*"))
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "*"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)

	err := h.app.Compile(t.Context(), app.Options{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCircularDependency.Error())
}

func TestApp_Compile_FailureStopsDependents(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.0.0")
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "*"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)
	h.cached(core, nil)

	h.staleness.EXPECT().ModuleNeedsCompile(core.SourceRoot(), core.OutputRoot()).Return(true, nil)
	h.staleness.EXPECT().StaleSources(core.SourceRoot(), core.OutputRoot(), javaExts).
		Return([]string{filepath.Join(core.SourceRoot(), "Core.java")}, nil)
	h.logger.EXPECT().Info("compiling com.acme@core (1 .java sources)")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).Return(errors.New("exit status 1"))

	err := h.app.Compile(t.Context(), app.Options{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrCompileFailed.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	assert.Equal(t, "com.acme@core", zErr.Metadata()["project"])
}

func TestApp_Compile_UnknownPlugin(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	p.Plugins = []string{"kotlin"}
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)

	err := h.app.Compile(t.Context(), app.Options{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrUnknownPlugin.Error())
}

func TestApp_Run(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	p.Main = "com.acme.Main"
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, domain.Classpath{"/store/slf4j.jar"})
	h.upToDate(p)

	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, "com.acme.Main", cmd.Name)
			assert.Equal(t, "com.acme.Main", cmd.Args[len(cmd.Args)-1])
			return nil
		})

	require.NoError(t, h.app.Run(t.Context(), app.Options{Dir: p.Dir}))
}

func TestApp_Run_NoMainClass(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)
	h.upToDate(p)

	err := h.app.Run(t.Context(), app.Options{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrNoMainClass.Error())
}

func TestApp_Test_Failure(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)
	h.upToDate(p)

	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, "junit", cmd.Name)
			return errors.New("exit status 1")
		})

	err := h.app.Test(t.Context(), app.Options{Dir: p.Dir})
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrTestFailed.Error())
}

func TestApp_Build_WithBuildInfo(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	p.Plugins = []string{"buildinfo"}
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)

	h.staleness.EXPECT().ModuleNeedsCompile(p.SourceRoot(), p.OutputRoot()).Return(true, nil)
	h.staleness.EXPECT().StaleSources(p.SourceRoot(), p.OutputRoot(), javaExts).Return(nil, nil)

	archive := filepath.Join(p.DistRoot(), "app-1.0.0.jar")
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command) error {
			assert.Equal(t, "jar", cmd.Name)
			assert.Contains(t, cmd.Args, archive)
			return nil
		})
	h.logger.EXPECT().Info("built " + archive)

	got, err := h.app.Build(t.Context(), app.Options{Dir: p.Dir})
	require.NoError(t, err)
	assert.Equal(t, archive, got)

	props, err := os.ReadFile(filepath.Join(p.OutputRoot(), domain.BuildInfoFileName))
	require.NoError(t, err)
	assert.Contains(t, string(props), buildinfo.KeyBuildID+"=build-1\n")
	assert.Contains(t, string(props), buildinfo.KeyTime+"=2025-01-02T03:04:05Z\n")
}

func TestApp_Graph(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.0.0")
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "*"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)

	var buf bytes.Buffer
	h.renderer.EXPECT().Render(gomock.Any(), gomock.Any(), "dot", &buf).
		DoAndReturn(func(_ context.Context, g *domain.Graph, _ string, w io.Writer) error {
			assert.Equal(t, 2, g.Len())
			_, err := io.WriteString(w, "digraph kiln {}\n")
			return err
		})

	require.NoError(t, h.app.Graph(t.Context(), app.GraphOptions{Dir: p.Dir, Format: "dot"}, &buf))
	assert.Equal(t, "digraph kiln {}\n", buf.String())
}

func TestApp_Clean(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.0.0")
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "*"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)

	for _, dir := range []string{p.OutputRoot(), p.DistRoot(), domain.DepsLinkDir(p.Dir), core.OutputRoot(), h.storeDir} {
		require.NoError(t, os.MkdirAll(dir, 0o750))
	}
	for _, dir := range []string{p.OutputRoot(), p.DistRoot(), domain.DepsLinkDir(p.Dir), core.OutputRoot(), h.storeDir} {
		h.logger.EXPECT().Info("removing " + dir)
	}
	h.cache.EXPECT().Invalidate(p).Return(nil)
	h.cache.EXPECT().Invalidate(core).Return(nil)

	require.NoError(t, h.app.Clean(t.Context(), app.CleanOptions{Dir: p.Dir, All: true, Store: true}))

	for _, dir := range []string{p.OutputRoot(), p.DistRoot(), core.OutputRoot(), h.storeDir} {
		assert.NoDirExists(t, dir)
	}
}

func TestApp_Clean_CurrentOnly(t *testing.T) {
	h := newHarness(t)
	core := project(t, "com.acme@core", "1.0.0")
	p := project(t, "com.acme@app", "1.0.0", dep("com.acme@core", "*"))
	ws := domain.NewWorkspace(p)
	ws.Register(core)
	h.workspace(ws)

	require.NoError(t, os.MkdirAll(core.OutputRoot(), 0o750))
	h.cache.EXPECT().Invalidate(p).Return(nil)

	require.NoError(t, h.app.Clean(t.Context(), app.CleanOptions{Dir: p.Dir}))
	assert.DirExists(t, core.OutputRoot())
}

type fakeProcess struct {
	once    sync.Once
	stopped chan struct{}
}

func (p *fakeProcess) Wait() error {
	<-p.stopped
	return nil
}

func (p *fakeProcess) Stop() error {
	p.once.Do(func() { close(p.stopped) })
	return nil
}

func TestApp_Dev_RestartsAfterRecompile(t *testing.T) {
	h := newHarness(t)
	p := project(t, "com.acme@app", "1.0.0")
	p.Main = "com.acme.Main"
	p.Plugins = []string{"web"}
	p.DevServer.Command = []string{"npm", "run", "dev"}
	h.workspace(domain.NewWorkspace(p))
	h.cached(p, nil)
	h.upToDate(p)
	h.logger.EXPECT().Info(gomock.Any()).AnyTimes()

	proc := &fakeProcess{stopped: make(chan struct{})}
	h.executor.EXPECT().Start(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, cmd *domain.Command) (ports.Process, error) {
			assert.Equal(t, "dev-server", cmd.Name)
			assert.Contains(t, cmd.Env, "PORT=4000")
			return proc, nil
		})

	changed := make(chan func(context.Context, []string), 1)
	h.notifier.EXPECT().Watch(gomock.Any(), p.SourceRoot(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, _ string, onChange func(context.Context, []string)) error {
			changed <- onChange
			<-ctx.Done()
			return nil
		})

	runs := make(chan struct{}, 2)
	h.executor.EXPECT().Execute(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, cmd *domain.Command) error {
			assert.Equal(t, "com.acme.Main", cmd.Name)
			assert.Contains(t, cmd.Env, "PORT=4000")
			runs <- struct{}{}
			<-ctx.Done()
			return ctx.Err()
		}).Times(2)

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- h.app.Dev(ctx, app.Options{Dir: p.Dir}) }()

	onChange := receive(t, changed)
	receive(t, runs)
	onChange(ctx, []string{filepath.Join(p.SourceRoot(), "Main.java")})
	receive(t, runs)

	cancel()
	require.NoError(t, receive(t, done))
	assert.True(t, isClosed(proc.stopped))
}

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting")
		var zero T
		return zero
	}
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	default:
		return false
	}
}
