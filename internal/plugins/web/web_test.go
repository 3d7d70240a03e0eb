package web_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/kiln/internal/plugins/web"
)

func TestWeb_ExpandsToSubPlugins(t *testing.T) {
	t.Parallel()

	p := web.New(&lifecycle.Plugin{Name: "devserver"}, &lifecycle.Plugin{Name: "hotreload"})
	m := lifecycle.NewManager(p)

	assert.Equal(t, []string{"web", "devserver", "hotreload"}, m.Names())
}
