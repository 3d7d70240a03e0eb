package domain

import (
	"os"
	"path/filepath"
)

const (
	// KilnDirName is the name of the per-project metadata directory.
	KilnDirName = ".kiln"

	// ManifestFileName is the name of the YAML project manifest.
	ManifestFileName = "kiln.yaml"

	// ManifestTOMLFileName is the name of the TOML project manifest.
	ManifestTOMLFileName = "kiln.toml"

	// ClasspathCacheFileName is the name of the persisted classpath cache inside .kiln.
	ClasspathCacheFileName = "classpath.json"

	// DepsDirName is the name of the directory holding convenience links into the artifact store.
	DepsDirName = "deps"

	// ArtifactsDirName is the name of the global artifact store directory.
	ArtifactsDirName = "artifacts"

	// CacheDirName is the name of the resolver download cache directory.
	CacheDirName = "cache"

	// BuildInfoFileName is the name of the generated build properties file.
	BuildInfoFileName = "kiln-build.properties"

	// DefaultSourceDir is the source root used when a manifest does not set one.
	DefaultSourceDir = "src"

	// DefaultOutputDir is the output root used when a manifest does not set one.
	DefaultOutputDir = "build/classes"

	// DefaultDistDir is where archives are written.
	DefaultDistDir = "build/dist"

	// DefaultResolverBinary is the external remote resolution tool.
	DefaultResolverBinary = "cs"

	// DefaultResolverParallelism is the download parallelism passed to the resolver.
	DefaultResolverParallelism = 4

	// DefaultResolverTTL is the cache freshness window passed to the resolver.
	DefaultResolverTTL = "24h"

	// HomeEnvVar overrides the global kiln home directory.
	HomeEnvVar = "KILN_HOME"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// ManifestFileNames lists the recognised manifest names in lookup order.
func ManifestFileNames() []string {
	return []string{ManifestFileName, ManifestTOMLFileName}
}

// DefaultHomePath returns the global kiln directory.
// KILN_HOME wins, otherwise it is ~/.kiln, falling back to .kiln in the working directory.
func DefaultHomePath() string {
	if home := os.Getenv(HomeEnvVar); home != "" {
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return KilnDirName
	}
	return filepath.Join(userHome, KilnDirName)
}

// DefaultArtifactStorePath returns the global deduplicated artifact store.
func DefaultArtifactStorePath() string {
	return filepath.Join(DefaultHomePath(), ArtifactsDirName)
}

// DefaultResolverCachePath returns the download cache handed to the resolver tool.
func DefaultResolverCachePath() string {
	return filepath.Join(DefaultHomePath(), CacheDirName, "coursier")
}

// ClasspathCachePath returns the classpath cache file of the project in dir.
func ClasspathCachePath(dir string) string {
	return filepath.Join(dir, KilnDirName, ClasspathCacheFileName)
}

// DepsLinkDir returns the directory holding convenience links for the project in dir.
func DepsLinkDir(dir string) string {
	return filepath.Join(dir, KilnDirName, DepsDirName)
}
