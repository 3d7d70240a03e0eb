package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/rogpeppe/go-internal/testscript"
	"go.trai.ch/kiln/internal/app"
)

func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"kiln": func() int {
			return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr,
				func(ctx context.Context) (*app.Components, func(), error) {
					c, _, err := graft.ExecuteFor[*app.Components](ctx)
					return c, func() {}, err
				})
		},
	}))
}

func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   filepath.Join("testdata", "script"),
		Setup: setupScript,
	})
}

func setupScript(env *testscript.Env) error {
	env.Setenv("NO_COLOR", "1")
	env.Setenv("CI", "")

	homeDir := filepath.Join(env.WorkDir, ".home")
	if err := os.MkdirAll(homeDir, 0o750); err != nil {
		return err
	}
	env.Setenv("HOME", homeDir)
	env.Setenv("KILN_HOME", filepath.Join(env.WorkDir, ".kiln-home"))
	env.Setenv("JAVA_HOME", filepath.Join(env.WorkDir, "jdk"))

	return nil
}
