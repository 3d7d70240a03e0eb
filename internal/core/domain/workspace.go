package domain

import (
	"iter"
	"path/filepath"

	"go.trai.ch/zerr"
)

// Workspace is the set of local projects discovered for one resolution pass.
// A coordinate name maps to at most one project; the first registration wins.
type Workspace struct {
	Current  *Project
	projects map[InternedString]*Project
	order    []InternedString
}

// LocalResolution splits a dependency list into locally satisfied and remote parts.
type LocalResolution struct {
	// LocalEntries holds the absolute output directories of satisfied local projects, in request order.
	LocalEntries Classpath
	// Projects holds the satisfied local projects, in request order.
	Projects []*Project
	// Remainder holds the dependencies that must be resolved remotely, in request order.
	Remainder []Dependency
}

// NewWorkspace creates a workspace rooted at the current project.
func NewWorkspace(current *Project) *Workspace {
	w := &Workspace{projects: make(map[InternedString]*Project)}
	if current != nil {
		w.Current = current
		w.Register(current)
	}
	return w
}

// Register adds p unless its name is already taken. It reports whether p was added.
func (w *Workspace) Register(p *Project) bool {
	if _, exists := w.projects[p.Name]; exists {
		return false
	}
	w.projects[p.Name] = p
	w.order = append(w.order, p.Name)
	return true
}

// Lookup returns the local project registered under name.
func (w *Workspace) Lookup(name string) (*Project, bool) {
	p, ok := w.projects[NewInternedString(name)]
	return p, ok
}

// Len returns the number of registered projects.
func (w *Workspace) Len() int {
	return len(w.order)
}

// Projects yields projects in registration order.
func (w *Workspace) Projects() iter.Seq[*Project] {
	return func(yield func(*Project) bool) {
		for _, name := range w.order {
			if !yield(w.projects[name]) {
				return
			}
		}
	}
}

// ResolveDependencies satisfies what it can from local projects.
// A local project whose version does not satisfy the requested spec is a fatal error.
func (w *Workspace) ResolveDependencies(requested []Dependency) (LocalResolution, error) {
	var res LocalResolution
	for _, dep := range requested {
		p, ok := w.Lookup(dep.Name)
		if !ok {
			res.Remainder = append(res.Remainder, dep)
			continue
		}
		if err := checkVersion(dep, p); err != nil {
			return LocalResolution{}, err
		}
		out, err := filepath.Abs(p.OutputRoot())
		if err != nil {
			out = p.OutputRoot()
		}
		res.LocalEntries = append(res.LocalEntries, out)
		res.Projects = append(res.Projects, p)
	}
	return res, nil
}

// BuildGraph builds the graph of local projects reachable from root.
// Only dependencies that resolve to other local projects become edges.
func (w *Workspace) BuildGraph(root *Project) (*Graph, error) {
	g := NewGraph()

	var visit func(p *Project) error
	visit = func(p *Project) error {
		if g.Has(p.Name) {
			return nil
		}
		if err := g.AddNode(GraphNode{Name: p.Name, Dir: p.Dir}); err != nil {
			return err
		}
		for _, dep := range p.Dependencies {
			local, ok := w.Lookup(dep.Name)
			if !ok {
				continue
			}
			if err := checkVersion(dep, local); err != nil {
				return zerr.With(err, "dependent", p.Name.String())
			}
			if err := visit(local); err != nil {
				return err
			}
			if err := g.AddEdge(p.Name, local.Name); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(root); err != nil {
		return nil, err
	}
	return g, nil
}

// RemoteDependencies returns every dependency of the given projects that is not
// satisfied locally, first occurrence wins.
func (w *Workspace) RemoteDependencies(projects []*Project) []Dependency {
	seen := make(map[string]bool)
	var deps []Dependency
	for _, p := range projects {
		for _, dep := range p.Dependencies {
			if _, local := w.Lookup(dep.Name); local || seen[dep.Name] {
				continue
			}
			seen[dep.Name] = true
			deps = append(deps, dep)
		}
	}
	return deps
}

func checkVersion(dep Dependency, p *Project) error {
	if VersionSatisfies(dep.Version, p.Version) {
		return nil
	}
	err := zerr.With(ErrVersionMismatch, "coordinate", dep.Name)
	err = zerr.With(err, "required", dep.Version)
	return zerr.With(err, "actual", p.Version)
}
