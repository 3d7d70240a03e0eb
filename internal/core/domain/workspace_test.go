package domain_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

func project(name, version, dir string, deps ...domain.Dependency) *domain.Project {
	return &domain.Project{
		Name:         domain.NewInternedString(name),
		Version:      version,
		Dir:          filepath.FromSlash(dir),
		Dependencies: deps,
	}
}

func dep(name, version string) domain.Dependency {
	return domain.Dependency{Name: name, Version: version}
}

func TestWorkspace_Register_FirstWins(t *testing.T) {
	near := project("com.acme@core", "2.0.0", "/w/near/core")
	far := project("com.acme@core", "1.0.0", "/w/core")

	ws := domain.NewWorkspace(nil)
	assert.True(t, ws.Register(near))
	assert.False(t, ws.Register(far))

	got, ok := ws.Lookup("com.acme@core")
	require.True(t, ok)
	assert.Same(t, near, got)
	assert.Equal(t, 1, ws.Len())
}

func TestWorkspace_ResolveDependencies_NoLocalMatches(t *testing.T) {
	ws := domain.NewWorkspace(project("com.acme@app", "1.0.0", "/w/app"))
	requested := []domain.Dependency{dep("org.slf4j@slf4j-api", "2.0.9"), dep("com.google@guava", "33.0")}

	res, err := ws.ResolveDependencies(requested)
	require.NoError(t, err)
	assert.Empty(t, res.LocalEntries)
	assert.Equal(t, requested, res.Remainder)
}

func TestWorkspace_ResolveDependencies_Splits(t *testing.T) {
	ws := domain.NewWorkspace(project("com.acme@app", "1.0.0", "/w/app"))
	ws.Register(project("com.acme@core", "1.4.0", "/w/core"))
	ws.Register(project("com.acme@util", "0.2.0", "/w/util"))

	requested := []domain.Dependency{
		dep("com.acme@util", "*"),
		dep("org.slf4j@slf4j-api", "2.0.9"),
		dep("com.acme@core", "^1.0.0"),
	}

	res, err := ws.ResolveDependencies(requested)
	require.NoError(t, err)
	assert.Equal(t, domain.Classpath{
		filepath.FromSlash("/w/util/build/classes"),
		filepath.FromSlash("/w/core/build/classes"),
	}, res.LocalEntries)
	assert.Equal(t, []domain.Dependency{dep("org.slf4j@slf4j-api", "2.0.9")}, res.Remainder)

	again, err := ws.ResolveDependencies(requested)
	require.NoError(t, err)
	assert.Equal(t, res, again)
}

func TestWorkspace_ResolveDependencies_VersionMismatch(t *testing.T) {
	ws := domain.NewWorkspace(project("com.acme@app", "1.0.0", "/w/app"))
	ws.Register(project("com.acme@core", "2.0.0", "/w/core"))

	_, err := ws.ResolveDependencies([]domain.Dependency{dep("com.acme@core", "^1.0.0")})
	require.ErrorContains(t, err, domain.ErrVersionMismatch.Error())

	var zErr *zerr.Error
	require.ErrorAs(t, err, &zErr)
	meta := zErr.Metadata()
	assert.Equal(t, "com.acme@core", meta["coordinate"])
	assert.Equal(t, "^1.0.0", meta["required"])
	assert.Equal(t, "2.0.0", meta["actual"])
}

func TestWorkspace_BuildGraph(t *testing.T) {
	a := project("A", "1", "/w/a", dep("B", "*"), dep("remote@lib", "1.0"))
	b := project("B", "1", "/w/b", dep("C", "*"))
	c := project("C", "1", "/w/c")
	unrelated := project("D", "1", "/w/d")

	ws := domain.NewWorkspace(a)
	ws.Register(b)
	ws.Register(c)
	ws.Register(unrelated)

	g, err := ws.BuildGraph(a)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Len())
	assert.False(t, g.Has(domain.NewInternedString("D")))

	order, err := g.TopologicalOrder()
	require.NoError(t, err)
	assert.Equal(t, []string{"C", "B", "A"}, names(order))
}

func TestWorkspace_BuildGraph_Cycle(t *testing.T) {
	a := project("A", "1", "/w/a", dep("B", "*"))
	b := project("B", "1", "/w/b", dep("A", "*"))

	ws := domain.NewWorkspace(a)
	ws.Register(b)

	g, err := ws.BuildGraph(a)
	require.NoError(t, err)

	_, err = g.TopologicalOrder()
	assert.ErrorContains(t, err, domain.ErrCircularDependency.Error())
}

func TestWorkspace_RemoteDependencies(t *testing.T) {
	a := project("A", "1", "/w/a", dep("B", "*"), dep("x@lib", "1.0"))
	b := project("B", "1", "/w/b", dep("x@lib", "2.0"), dep("y@other", "3.0"))

	ws := domain.NewWorkspace(a)
	ws.Register(b)

	assert.Equal(t,
		[]domain.Dependency{dep("x@lib", "1.0"), dep("y@other", "3.0")},
		ws.RemoteDependencies([]*domain.Project{a, b}),
	)
}
