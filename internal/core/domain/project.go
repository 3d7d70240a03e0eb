// Package domain contains the core models of kiln: projects, coordinates, the local dependency graph and classpaths.
package domain

import "path/filepath"

// Dependency is a declared dependency: a manifest coordinate and a version spec.
type Dependency struct {
	Name    string
	Version string
}

// DevServer describes an auxiliary development server supervised in dev mode.
type DevServer struct {
	Command []string
	Dir     string
}

// Project is a parsed manifest. It is re-read on every resolution pass.
type Project struct {
	Name         InternedString
	Version      string
	Dir          string
	ManifestPath string
	Main         string
	SourceDir    string
	OutputDir    string
	Dependencies []Dependency
	Repositories []string
	Plugins      []string
	DevServer    DevServer
}

// SourceRoot returns the absolute source directory.
func (p *Project) SourceRoot() string {
	return p.resolve(p.SourceDir, DefaultSourceDir)
}

// OutputRoot returns the absolute directory compiled classes are written to.
func (p *Project) OutputRoot() string {
	return p.resolve(p.OutputDir, DefaultOutputDir)
}

// DistRoot returns the absolute directory archives are written to.
func (p *Project) DistRoot() string {
	return filepath.Join(p.Dir, DefaultDistDir)
}

// DependencyIndex maps each declared dependency name to its declared position.
func (p *Project) DependencyIndex() map[string]int {
	idx := make(map[string]int, len(p.Dependencies))
	for i, d := range p.Dependencies {
		if _, ok := idx[d.Name]; !ok {
			idx[d.Name] = i
		}
	}
	return idx
}

func (p *Project) resolve(dir, fallback string) string {
	if dir == "" {
		dir = fallback
	}
	if filepath.IsAbs(dir) {
		return dir
	}
	return filepath.Join(p.Dir, dir)
}
