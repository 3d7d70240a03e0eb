// Package workspace discovers the local projects visible from a directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// skipDirs are never scanned for sibling projects.
var skipDirs = map[string]bool{
	"build":        true,
	"out":          true,
	"target":       true,
	"dist":         true,
	"node_modules": true,
	"vendor":       true,
}

// Resolver implements ports.WorkspaceResolver by walking the filesystem.
type Resolver struct {
	loader ports.ManifestLoader
	logger ports.Logger
}

var _ ports.WorkspaceResolver = (*Resolver)(nil)

// NewResolver creates a Resolver.
func NewResolver(loader ports.ManifestLoader, logger ports.Logger) *Resolver {
	return &Resolver{loader: loader, logger: logger}
}

// Discover collects the manifests at and above cwd (the project roots, nearest
// first). Each root is registered, then the siblings next to it. Because the
// workspace keeps the first registration of a name, nearer projects shadow
// farther ones.
func (r *Resolver) Discover(cwd string) (*domain.Workspace, error) {
	abs, err := filepath.Abs(cwd)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	roots := r.projectRoots(abs)
	if len(roots) == 0 {
		return nil, zerr.With(domain.ErrManifestNotFound, "dir", abs)
	}

	current, err := r.loader.Load(roots[0])
	if err != nil {
		return nil, err
	}
	ws := domain.NewWorkspace(current)

	for i, root := range roots {
		if i > 0 {
			p, err := r.loader.Load(root)
			if err != nil {
				r.warnSkipped(root, err)
				continue
			}
			ws.Register(p)
		}
		r.scanSiblings(ws, root)
	}

	return ws, nil
}

// projectRoots returns every directory from dir upward that holds a manifest.
func (r *Resolver) projectRoots(dir string) []string {
	var roots []string
	for {
		if r.loader.Find(dir) != "" {
			roots = append(roots, dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return roots
		}
		dir = parent
	}
}

// scanSiblings registers the projects in the directories next to root.
func (r *Resolver) scanSiblings(ws *domain.Workspace, root string) {
	parent := filepath.Dir(root)
	if parent == root {
		return
	}

	entries, err := os.ReadDir(parent)
	if err != nil {
		r.logger.Warn(fmt.Sprintf("cannot scan %s for sibling projects: %v", parent, err))
		return
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() && !skipSibling(e.Name()) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	for _, name := range names {
		dir := filepath.Join(parent, name)
		if dir == root || r.loader.Find(dir) == "" {
			continue
		}
		p, err := r.loader.Load(dir)
		if err != nil {
			r.warnSkipped(dir, err)
			continue
		}
		ws.Register(p)
	}
}

func (r *Resolver) warnSkipped(dir string, err error) {
	r.logger.Warn(fmt.Sprintf("skipping project in %s: %v", dir, err))
}

func skipSibling(name string) bool {
	return strings.HasPrefix(name, ".") || skipDirs[name]
}
