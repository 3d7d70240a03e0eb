package ports

//go:generate mockgen -source=staleness.go -destination=mocks/mock_staleness.go -package=mocks

// StalenessChecker decides which sources need recompiling from file mtimes.
type StalenessChecker interface {
	// StaleSources returns the sources under sourceRoot whose compiled output
	// is missing or older. exts maps source extensions to output extensions.
	StaleSources(sourceRoot, outputRoot string, exts map[string]string) ([]string, error)
	// ModuleNeedsCompile reports whether the output tree is empty or any
	// source is newer than its oldest compiled artifact.
	ModuleNeedsCompile(sourceRoot, outputRoot string) (bool, error)
}
