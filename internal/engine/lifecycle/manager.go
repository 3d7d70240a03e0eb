package lifecycle

import (
	"context"
	"maps"
	"slices"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/zerr"
)

// Manager holds the flattened plugin list and the language table.
type Manager struct {
	plugins   []*Plugin
	languages map[string]Language
}

// NewManager flattens plugins and keeps the last registration of each name.
func NewManager(plugins ...*Plugin) *Manager {
	m := &Manager{
		plugins:   Fold(Flatten(plugins)),
		languages: make(map[string]Language),
	}
	for _, p := range m.plugins {
		for _, lang := range p.Languages {
			m.languages[lang.Extension] = lang
		}
	}
	return m
}

// Flatten expands nested plugins depth first. A container precedes its children.
func Flatten(plugins []*Plugin) []*Plugin {
	var out []*Plugin
	var walk func([]*Plugin)
	walk = func(ps []*Plugin) {
		for _, p := range ps {
			if p == nil {
				continue
			}
			out = append(out, p)
			walk(p.Plugins)
		}
	}
	walk(plugins)
	return out
}

// Fold removes earlier registrations of a name, keeping the last one at its position.
func Fold(plugins []*Plugin) []*Plugin {
	last := make(map[string]int, len(plugins))
	for i, p := range plugins {
		last[p.Name] = i
	}
	out := make([]*Plugin, 0, len(last))
	for i, p := range plugins {
		if last[p.Name] == i {
			out = append(out, p)
		}
	}
	return out
}

// Names returns the registered plugin names in hook order.
func (m *Manager) Names() []string {
	names := make([]string, len(m.plugins))
	for i, p := range m.plugins {
		names[i] = p.Name
	}
	return names
}

// ResolveConfig threads cfg through every TransformConfig in order, then
// hands the result to every ConfigResolved.
func (m *Manager) ResolveConfig(ctx context.Context, cfg domain.BuildConfig) (domain.BuildConfig, error) {
	for _, p := range m.plugins {
		if p.TransformConfig == nil {
			continue
		}
		next, err := p.TransformConfig(ctx, cfg.Clone())
		if err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrConfigTransformFailed.Error()), "plugin", p.Name)
		}
		cfg = next
	}

	for _, p := range m.plugins {
		if p.ConfigResolved == nil {
			continue
		}
		if err := p.ConfigResolved(ctx, cfg.Clone()); err != nil {
			return cfg, zerr.With(zerr.Wrap(err, domain.ErrConfigTransformFailed.Error()), "plugin", p.Name)
		}
	}
	return cfg, nil
}

// RunHook calls every plugin's hook for phase in order and stops at the first error.
func (m *Manager) RunHook(ctx context.Context, phase Phase, cfg domain.BuildConfig) error {
	for _, p := range m.plugins {
		hook := p.Hooks[phase]
		if hook == nil {
			continue
		}
		if err := hook(ctx, cfg.Clone()); err != nil {
			wrapped := zerr.With(zerr.Wrap(err, domain.ErrHookFailed.Error()), "plugin", p.Name)
			return zerr.With(wrapped, "phase", string(phase))
		}
	}
	return nil
}

// Language returns the language registered for ext.
func (m *Manager) Language(ext string) (Language, bool) {
	lang, ok := m.languages[ext]
	return lang, ok
}

// OutputExtensions maps every source extension to its compiled extension.
func (m *Manager) OutputExtensions() map[string]string {
	exts := make(map[string]string, len(m.languages))
	for ext, lang := range m.languages {
		exts[ext] = lang.OutputExtension
	}
	return exts
}

// Extensions returns the registered source extensions, sorted.
func (m *Manager) Extensions() []string {
	return slices.Sorted(maps.Keys(m.languages))
}
