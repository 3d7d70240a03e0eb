package domain

import (
	"os"
	"strconv"
)

// Environment variables overriding ResolverSettings.
const (
	ResolverEnvVar            = "KILN_RESOLVER"
	ResolverParallelismEnvVar = "KILN_RESOLVER_PARALLELISM"
	ResolverTTLEnvVar         = "KILN_RESOLVER_TTL"
)

// ResolverSettings configures the external remote resolution tool and the global store.
type ResolverSettings struct {
	Binary      string
	Parallelism int
	TTL         string
	CacheDir    string
	StoreDir    string
}

// DefaultResolverSettings returns the defaults with environment overrides applied.
func DefaultResolverSettings() ResolverSettings {
	s := ResolverSettings{
		Binary:      DefaultResolverBinary,
		Parallelism: DefaultResolverParallelism,
		TTL:         DefaultResolverTTL,
		CacheDir:    DefaultResolverCachePath(),
		StoreDir:    DefaultArtifactStorePath(),
	}
	if v := os.Getenv(ResolverEnvVar); v != "" {
		s.Binary = v
	}
	if v := os.Getenv(ResolverParallelismEnvVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			s.Parallelism = n
		}
	}
	if v := os.Getenv(ResolverTTLEnvVar); v != "" {
		s.TTL = v
	}
	return s
}
