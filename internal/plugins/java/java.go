// Package java provides language support for .java sources through the JDK
// command line tools.
package java

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// Name is the plugin name.
const Name = "java"

// JUnitLauncher is the main class of the JUnit platform console launcher.
// It must be on the classpath, typically as org.junit.platform@junit-platform-console-standalone.
const JUnitLauncher = "org.junit.platform.console.ConsoleLauncher"

// Tools locates the JDK binaries.
type Tools struct {
	Javac string
	Java  string
	Jar   string
}

// DefaultTools uses $JAVA_HOME/bin when JAVA_HOME is set, otherwise PATH.
func DefaultTools() Tools {
	bin := func(name string) string {
		if home := os.Getenv("JAVA_HOME"); home != "" {
			return filepath.Join(home, "bin", name)
		}
		return name
	}
	return Tools{Javac: bin("javac"), Java: bin("java"), Jar: bin("jar")}
}

// New returns the java plugin.
func New(executor ports.Executor, tools Tools) *lifecycle.Plugin {
	j := &javaSupport{executor: executor, tools: tools}
	return &lifecycle.Plugin{
		Name: Name,
		Languages: []lifecycle.Language{{
			Extension:       ".java",
			OutputExtension: ".class",
			Compile:         j.compile,
			Run:             j.run,
			Test:            j.test,
			Build:           j.build,
		}},
	}
}

type javaSupport struct {
	executor ports.Executor
	tools    Tools
}

func (j *javaSupport) compile(ctx context.Context, cfg domain.BuildConfig, sources []string) error {
	if len(sources) == 0 {
		return nil
	}
	if err := os.MkdirAll(cfg.OutputRoot, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "project", cfg.ProjectName)
	}

	args := []string{j.tools.Javac, "-d", cfg.OutputRoot}
	if len(cfg.Classpath) > 0 {
		args = append(args, "-cp", cfg.Classpath.String())
	}
	args = append(args, "-sourcepath", cfg.SourceRoot)
	args = append(args, sources...)

	err := j.executor.Execute(ctx, &domain.Command{
		Name: "javac",
		Args: args,
		Dir:  cfg.ProjectDir,
		Env:  cfg.Environ(),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCompileFailed.Error()), "project", cfg.ProjectName)
	}
	return nil
}

func (j *javaSupport) run(ctx context.Context, cfg domain.BuildConfig) error {
	if cfg.MainClass == "" {
		return zerr.With(domain.ErrNoMainClass, "project", cfg.ProjectName)
	}
	err := j.executor.Execute(ctx, &domain.Command{
		Name: cfg.MainClass,
		Args: []string{j.tools.Java, "-cp", cfg.Classpath.String(), cfg.MainClass},
		Dir:  cfg.ProjectDir,
		Env:  cfg.Environ(),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrRunFailed.Error()), "project", cfg.ProjectName)
	}
	return nil
}

func (j *javaSupport) test(ctx context.Context, cfg domain.BuildConfig) error {
	err := j.executor.Execute(ctx, &domain.Command{
		Name: "junit",
		Args: []string{
			j.tools.Java, "-cp", cfg.Classpath.String(), JUnitLauncher,
			"execute", "--disable-banner", "--scan-classpath", cfg.OutputRoot,
		},
		Dir: cfg.ProjectDir,
		Env: cfg.Environ(),
	})
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrTestFailed.Error()), "project", cfg.ProjectName)
	}
	return nil
}

func (j *javaSupport) build(ctx context.Context, cfg domain.BuildConfig) (string, error) {
	if err := os.MkdirAll(cfg.DistRoot, domain.DirPerm); err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackageFailed.Error()), "project", cfg.ProjectName)
	}

	archive := filepath.Join(cfg.DistRoot, ArchiveName(cfg))
	args := []string{j.tools.Jar, "--create", "--file", archive}
	if cfg.MainClass != "" {
		args = append(args, "--main-class", cfg.MainClass)
	}
	args = append(args, "-C", cfg.OutputRoot, ".")

	err := j.executor.Execute(ctx, &domain.Command{
		Name: "jar",
		Args: args,
		Dir:  cfg.ProjectDir,
		Env:  cfg.Environ(),
	})
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrPackageFailed.Error()), "project", cfg.ProjectName)
	}
	return archive, nil
}

// ArchiveName is "<artifact>-<version>.jar", or "<artifact>.jar" without a version.
func ArchiveName(cfg domain.BuildConfig) string {
	name := cfg.ProjectName
	if coord, err := domain.ParseCoordinate(name); err == nil {
		name = coord.Artifact
	}
	name = strings.ReplaceAll(name, string(filepath.Separator), "_")
	if cfg.Version != "" {
		name += "-" + cfg.Version
	}
	return name + ".jar"
}
