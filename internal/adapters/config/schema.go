package config

import (
	"gopkg.in/yaml.v3"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manifest is the on-disk shape of kiln.yaml and kiln.toml.
type Manifest struct {
	Name         string       `yaml:"name" toml:"name"`
	Version      string       `yaml:"version" toml:"version"`
	Main         string       `yaml:"main" toml:"main"`
	SourceDir    string       `yaml:"sourceDir" toml:"sourceDir"`
	OutputDir    string       `yaml:"outputDir" toml:"outputDir"`
	Repositories []string     `yaml:"repositories" toml:"repositories"`
	Plugins      []string     `yaml:"plugins" toml:"plugins"`
	DevServer    DevServerDTO `yaml:"devServer" toml:"devServer"`
	Dependencies Dependencies `yaml:"dependencies" toml:"-"`
}

// DevServerDTO configures the supervised development server.
type DevServerDTO struct {
	Cmd []string `yaml:"cmd" toml:"cmd"`
	Dir string   `yaml:"dir" toml:"dir"`
}

// Dependencies is a dependency mapping that keeps declaration order.
type Dependencies []domain.Dependency

// UnmarshalYAML reads a coordinate-to-version mapping in document order.
func (d *Dependencies) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return zerr.With(domain.ErrManifestParseFailed, "dependencies", "expected a mapping of coordinate to version")
	}

	seen := make(map[string]bool, len(node.Content)/2)
	deps := make(Dependencies, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind != yaml.ScalarNode {
			err := zerr.With(domain.ErrManifestParseFailed, "dependency", key.Value)
			return zerr.With(err, "line", value.Line)
		}
		if seen[key.Value] {
			err := zerr.With(domain.ErrManifestParseFailed, "duplicate_dependency", key.Value)
			return zerr.With(err, "line", key.Line)
		}
		seen[key.Value] = true
		deps = append(deps, domain.Dependency{Name: key.Value, Version: value.Value})
	}

	*d = deps
	return nil
}

// tomlManifest decodes dependencies as a table; their order comes from toml.MetaData.
type tomlManifest struct {
	Manifest
	Deps map[string]string `toml:"dependencies"`
}
