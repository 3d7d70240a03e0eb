// Package lifecycle registers plugins and drives their hooks through the
// compile, run and build phases.
package lifecycle

import (
	"context"

	"go.trai.ch/kiln/internal/core/domain"
)

// Phase names a lifecycle point at which plugin hooks run.
type Phase string

// Phases in the order a dev session passes through them.
const (
	BeforeCompile  Phase = "beforeCompile"
	AfterCompile   Phase = "afterCompile"
	BeforeRun      Phase = "beforeRun"
	AfterRun       Phase = "afterRun"
	BeforeBuild    Phase = "beforeBuild"
	AfterBuild     Phase = "afterBuild"
	DevServerStart Phase = "devServerStart"
	Cleanup        Phase = "cleanup"
)

// Hook runs at a phase with the resolved build config.
type Hook func(ctx context.Context, cfg domain.BuildConfig) error

// Language compiles, runs, tests and packages sources with one file extension.
type Language struct {
	// Extension is the source extension, including the dot.
	Extension string
	// OutputExtension is the extension of compiled units, used for staleness checks.
	OutputExtension string

	// Compile compiles sources into cfg.OutputRoot.
	Compile func(ctx context.Context, cfg domain.BuildConfig, sources []string) error
	// Run launches cfg.MainClass.
	Run func(ctx context.Context, cfg domain.BuildConfig) error
	// Test runs the project's tests.
	Test func(ctx context.Context, cfg domain.BuildConfig) error
	// Build packages the compiled output and returns the archive path.
	Build func(ctx context.Context, cfg domain.BuildConfig) (string, error)
}

// Plugin is a named bundle of optional behaviour. Nested plugins are expanded
// right after the plugin that contains them.
type Plugin struct {
	Name      string
	Plugins   []*Plugin
	Languages []Language

	// TransformConfig derives a new config from the one it is given.
	TransformConfig func(ctx context.Context, cfg domain.BuildConfig) (domain.BuildConfig, error)
	// ConfigResolved observes the final config.
	ConfigResolved func(ctx context.Context, cfg domain.BuildConfig) error

	Hooks map[Phase]Hook
}
