// Package buildinfo writes a properties file describing the build next to the
// compiled classes, so programs can report their own version at runtime.
package buildinfo

import (
	"context"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/engine/lifecycle"
	"go.trai.ch/zerr"
)

// Name is the plugin name.
const Name = "buildinfo"

// Property keys.
const (
	KeyProject = "kiln.project"
	KeyVersion = "kiln.version"
	KeyBuildID = "kiln.build.id"
	KeyTime    = "kiln.build.time"
)

// New returns the buildinfo plugin. now stamps the build time.
func New(now func() time.Time) *lifecycle.Plugin {
	if now == nil {
		now = time.Now
	}
	return &lifecycle.Plugin{
		Name: Name,
		TransformConfig: func(_ context.Context, cfg domain.BuildConfig) (domain.BuildConfig, error) {
			return cfg.
				WithProperty(KeyProject, cfg.ProjectName).
				WithProperty(KeyVersion, cfg.Version).
				WithProperty(KeyBuildID, cfg.BuildID), nil
		},
		Hooks: map[lifecycle.Phase]lifecycle.Hook{
			lifecycle.AfterCompile: func(_ context.Context, cfg domain.BuildConfig) error {
				return Write(cfg.WithProperty(KeyTime, now().UTC().Format(time.RFC3339)))
			},
		},
	}
}

// Path returns where the properties file of cfg is written.
func Path(cfg domain.BuildConfig) string {
	return filepath.Join(cfg.OutputRoot, domain.BuildInfoFileName)
}

// Write renders cfg.Properties, sorted by key, into the output directory.
func Write(cfg domain.BuildConfig) error {
	var b strings.Builder
	b.WriteString("# Generated by kiln\n")
	for _, k := range slices.Sorted(maps.Keys(cfg.Properties)) {
		b.WriteString(escape(k, true))
		b.WriteByte('=')
		b.WriteString(escape(cfg.Properties[k], false))
		b.WriteByte('\n')
	}

	if err := writeFile(Path(cfg), []byte(b.String())); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to write build info"), "path", Path(cfg))
	}
	return nil
}

var (
	keyEscaper   = strings.NewReplacer(`\`, `\\`, "\n", `\n`, "=", `\=`, ":", `\:`, " ", `\ `)
	valueEscaper = strings.NewReplacer(`\`, `\\`, "\n", `\n`)
)

func escape(s string, key bool) string {
	if key {
		return keyEscaper.Replace(s)
	}
	return valueEscaper.Replace(s)
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), domain.DirPerm); err != nil {
		return err
	}
	return os.WriteFile(path, data, domain.FilePerm)
}
