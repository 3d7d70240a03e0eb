// Package web bundles the plugins of a full-stack dev session: a supervised
// front-end dev server and hot reload of the back end.
package web

import (
	"go.trai.ch/kiln/internal/engine/lifecycle"
)

// Name is the plugin name.
const Name = "web"

// New returns the web preset wrapping its sub-plugins.
func New(devServer, hotReload *lifecycle.Plugin) *lifecycle.Plugin {
	return &lifecycle.Plugin{
		Name:    Name,
		Plugins: []*lifecycle.Plugin{devServer, hotReload},
	}
}
