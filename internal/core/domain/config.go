package domain

import (
	"maps"
	"slices"
)

// BuildConfig is the resolved configuration handed through the plugin pipeline.
// It is treated as a value: plugins derive new configs with the With methods
// rather than mutating the one they were given.
type BuildConfig struct {
	ProjectName   string
	ProjectDir    string
	Version       string
	SourceRoot    string
	OutputRoot    string
	DistRoot      string
	MainClass     string
	BuildID       string
	Classpath     Classpath
	DevServer     DevServer
	DevServerPort int
	Env           map[string]string
	Properties    map[string]string
}

// NewBuildConfig derives the initial config of a project.
func NewBuildConfig(p *Project, buildID string) BuildConfig {
	return BuildConfig{
		ProjectName: p.Name.String(),
		ProjectDir:  p.Dir,
		Version:     p.Version,
		SourceRoot:  p.SourceRoot(),
		OutputRoot:  p.OutputRoot(),
		DistRoot:    p.DistRoot(),
		MainClass:   p.Main,
		BuildID:     buildID,
		DevServer: DevServer{
			Command: slices.Clone(p.DevServer.Command),
			Dir:     p.DevServer.Dir,
		},
	}
}

// Clone returns a deep copy.
func (c BuildConfig) Clone() BuildConfig {
	c.Classpath = slices.Clone(c.Classpath)
	c.DevServer.Command = slices.Clone(c.DevServer.Command)
	c.Env = maps.Clone(c.Env)
	c.Properties = maps.Clone(c.Properties)
	return c
}

// WithClasspath returns a copy using cp.
func (c BuildConfig) WithClasspath(cp Classpath) BuildConfig {
	out := c.Clone()
	out.Classpath = slices.Clone(cp)
	return out
}

// WithDevServerPort returns a copy using port.
func (c BuildConfig) WithDevServerPort(port int) BuildConfig {
	out := c.Clone()
	out.DevServerPort = port
	return out
}

// WithEnv returns a copy with key set in the process environment overlay.
func (c BuildConfig) WithEnv(key, value string) BuildConfig {
	out := c.Clone()
	if out.Env == nil {
		out.Env = make(map[string]string)
	}
	out.Env[key] = value
	return out
}

// WithProperty returns a copy with a generated build property set.
func (c BuildConfig) WithProperty(key, value string) BuildConfig {
	out := c.Clone()
	if out.Properties == nil {
		out.Properties = make(map[string]string)
	}
	out.Properties[key] = value
	return out
}

// Environ renders Env as sorted KEY=VALUE pairs.
func (c BuildConfig) Environ() []string {
	keys := slices.Sorted(maps.Keys(c.Env))
	env := make([]string, 0, len(keys))
	for _, k := range keys {
		env = append(env, k+"="+c.Env[k])
	}
	return env
}
