package domain

import "go.trai.ch/zerr"

var (
	// ErrManifestNotFound is returned when no manifest exists in the directory or any of its ancestors.
	ErrManifestNotFound = zerr.New("no kiln manifest found")

	// ErrManifestReadFailed is returned when a manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrManifestParseFailed is returned when a manifest file cannot be parsed.
	ErrManifestParseFailed = zerr.New("failed to parse manifest")

	// ErrMissingProjectName is returned when a manifest does not declare a project name.
	ErrMissingProjectName = zerr.New("missing project name")

	// ErrInvalidCoordinate is returned when a coordinate cannot be translated between syntaxes.
	ErrInvalidCoordinate = zerr.New("invalid coordinate")

	// ErrVersionMismatch is returned when a local project does not satisfy a declared version spec.
	ErrVersionMismatch = zerr.New("local project version does not satisfy requirement")

	// ErrCircularDependency is returned when the local project graph contains a cycle.
	ErrCircularDependency = zerr.New("circular dependency between local projects")

	// ErrProjectAlreadyExists is returned when a graph node is added twice.
	ErrProjectAlreadyExists = zerr.New("project already exists in graph")

	// ErrProjectNotFound is returned when a coordinate is not a discovered local project.
	ErrProjectNotFound = zerr.New("project not found")

	// ErrRemoteResolutionFailed is returned when the external resolver tool exits unsuccessfully.
	ErrRemoteResolutionFailed = zerr.New("remote dependency resolution failed")

	// ErrResolverNotFound is returned when the external resolver tool cannot be located.
	ErrResolverNotFound = zerr.New("dependency resolver tool not found")

	// ErrStoreCopyFailed is returned when an artifact cannot be copied into the global store.
	ErrStoreCopyFailed = zerr.New("failed to copy artifact into store")

	// ErrStoreLinkFailed is returned when a project convenience link cannot be created.
	ErrStoreLinkFailed = zerr.New("failed to link artifact group")

	// ErrClasspathCacheReadFailed is returned when the classpath cache cannot be read.
	ErrClasspathCacheReadFailed = zerr.New("failed to read classpath cache")

	// ErrClasspathCacheWriteFailed is returned when the classpath cache cannot be written.
	ErrClasspathCacheWriteFailed = zerr.New("failed to write classpath cache")

	// ErrCompileFailed is returned when the compiler exits unsuccessfully.
	ErrCompileFailed = zerr.New("compilation failed")

	// ErrRunFailed is returned when the program exits unsuccessfully.
	ErrRunFailed = zerr.New("program failed")

	// ErrTestFailed is returned when the test launcher reports failures.
	ErrTestFailed = zerr.New("tests failed")

	// ErrPackageFailed is returned when the archiver exits unsuccessfully.
	ErrPackageFailed = zerr.New("packaging failed")

	// ErrNoMainClass is returned when run is requested for a project without a main class.
	ErrNoMainClass = zerr.New("no main class configured")

	// ErrNoLanguageSupport is returned when no plugin handles the project's source language.
	ErrNoLanguageSupport = zerr.New("no plugin supports language")

	// ErrHookFailed is returned when a plugin lifecycle hook returns an error.
	ErrHookFailed = zerr.New("plugin hook failed")

	// ErrConfigTransformFailed is returned when a plugin fails to transform the build config.
	ErrConfigTransformFailed = zerr.New("plugin config transform failed")

	// ErrUnknownPlugin is returned when a manifest enables a plugin that is not in the catalog.
	ErrUnknownPlugin = zerr.New("unknown plugin")

	// ErrNoDevServer is returned when dev mode is requested without a dev server command.
	ErrNoDevServer = zerr.New("no dev server command configured")

	// ErrWalkFailed is returned when a source tree cannot be walked.
	ErrWalkFailed = zerr.New("failed to walk source tree")

	// ErrCleanFailed is returned when build outputs cannot be removed.
	ErrCleanFailed = zerr.New("failed to clean build outputs")

	// ErrRenderFailed is returned when the dependency graph cannot be rendered.
	ErrRenderFailed = zerr.New("failed to render graph")

	// ErrUnknownGraphFormat is returned when an unsupported graph output format is requested.
	ErrUnknownGraphFormat = zerr.New("unknown graph format, expected 'order', 'dot' or 'svg'")
	// ErrUnknownOutput is returned when an unsupported classpath output is requested.
	ErrUnknownOutput = zerr.New("unknown classpath output, expected 'path', 'lines' or 'json'")
)
