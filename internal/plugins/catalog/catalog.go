// Package catalog maps the plugin names a manifest may enable onto plugin instances.
package catalog

import (
	"context"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/kiln/internal/plugins/buildinfo"
	"go.trai.ch/kiln/internal/plugins/devserver"
	"go.trai.ch/kiln/internal/plugins/hotreload"
	"go.trai.ch/kiln/internal/plugins/java"
	"go.trai.ch/kiln/internal/plugins/web"
	"go.trai.ch/zerr"
)

// Deps are the collaborators plugins are built from.
type Deps struct {
	Executor ports.Executor
	Notifier ports.ChangeNotifier
	Logger   ports.Logger
	// Recompile rebuilds the current project; hot reload calls it.
	Recompile func(ctx context.Context) error
	// Now stamps generated build info. Nil uses time.Now.
	Now func() time.Time
	// FreePort reserves the dev server port. Nil asks the kernel.
	FreePort func() (int, error)
}

// Names lists every plugin a manifest may enable, sorted.
func Names() []string {
	return []string{buildinfo.Name, devserver.Name, hotreload.Name, web.Name}
}

// Build returns the java plugin followed by the enabled plugins in manifest order.
func Build(enabled []string, deps Deps) ([]*lifecycle.Plugin, error) {
	plugins := []*lifecycle.Plugin{java.New(deps.Executor, java.DefaultTools())}
	for _, name := range enabled {
		p, err := build(name, deps)
		if err != nil {
			return nil, err
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func build(name string, deps Deps) (*lifecycle.Plugin, error) {
	switch name {
	case buildinfo.Name:
		return buildinfo.New(deps.Now), nil
	case devserver.Name:
		return devserver.New(deps.Executor, deps.Logger, deps.FreePort).Plugin(), nil
	case hotreload.Name:
		return hotreload.New(deps.Notifier, deps.Logger, deps.Recompile).Plugin(), nil
	case web.Name:
		return web.New(
			devserver.New(deps.Executor, deps.Logger, deps.FreePort).Plugin(),
			hotreload.New(deps.Notifier, deps.Logger, deps.Recompile).Plugin(),
		), nil
	default:
		err := zerr.With(domain.ErrUnknownPlugin, "plugin", name)
		return nil, zerr.With(err, "available", strings.Join(Names(), ", "))
	}
}
