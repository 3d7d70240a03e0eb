// Package config loads kiln project manifests.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.ManifestLoader for kiln.yaml and kiln.toml.
type Loader struct {
	Logger ports.Logger

	// warned holds the directories already reported as having both manifests.
	warned sync.Map
}

var _ ports.ManifestLoader = (*Loader)(nil)

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Find returns the manifest path in dir, preferring kiln.yaml. A directory
// holding both manifests is reported once per Loader.
func (l *Loader) Find(dir string) string {
	var found []string
	for _, name := range domain.ManifestFileNames() {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			found = append(found, path)
		}
	}
	if len(found) == 0 {
		return ""
	}
	if len(found) > 1 && l.Logger != nil {
		if _, seen := l.warned.LoadOrStore(dir, struct{}{}); seen {
			return found[0]
		}
		l.Logger.Warn(fmt.Sprintf("%s and %s both present in %s, using %s",
			domain.ManifestFileName, domain.ManifestTOMLFileName, dir, domain.ManifestFileName))
	}
	return found[0]
}

// Load parses the manifest in dir into a project.
func (l *Loader) Load(dir string) (*domain.Project, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	path := l.Find(absDir)
	if path == "" {
		return nil, zerr.With(domain.ErrManifestNotFound, "dir", absDir)
	}

	m, err := decode(path)
	if err != nil {
		return nil, zerr.With(err, "manifest", path)
	}

	if strings.TrimSpace(m.Name) == "" {
		return nil, zerr.With(domain.ErrMissingProjectName, "manifest", path)
	}

	return &domain.Project{
		Name:         domain.NewInternedString(m.Name),
		Version:      m.Version,
		Dir:          absDir,
		ManifestPath: path,
		Main:         m.Main,
		SourceDir:    defaultString(m.SourceDir, domain.DefaultSourceDir),
		OutputDir:    defaultString(m.OutputDir, domain.DefaultOutputDir),
		Dependencies: m.Dependencies,
		Repositories: m.Repositories,
		Plugins:      m.Plugins,
		DevServer: domain.DevServer{
			Command: m.DevServer.Cmd,
			Dir:     m.DevServer.Dir,
		},
	}, nil
}

func decode(path string) (*Manifest, error) {
	// #nosec G304 -- path comes from Find
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestReadFailed.Error())
	}

	if filepath.Ext(path) == ".toml" {
		return decodeTOML(data)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}
	return &m, nil
}

func decodeTOML(data []byte) (*Manifest, error) {
	var tm tomlManifest
	md, err := toml.Decode(string(data), &tm)
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrManifestParseFailed.Error())
	}

	m := tm.Manifest
	for _, key := range md.Keys() {
		if len(key) != 2 || key[0] != "dependencies" {
			continue
		}
		m.Dependencies = append(m.Dependencies, domain.Dependency{
			Name:    key[1],
			Version: tm.Deps[key[1]],
		})
	}
	return &m, nil
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
