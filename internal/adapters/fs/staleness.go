package fs

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// StalenessChecker implements ports.StalenessChecker on file modification times.
type StalenessChecker struct {
	walker *Walker
}

var _ ports.StalenessChecker = (*StalenessChecker)(nil)

// NewStalenessChecker creates a StalenessChecker.
func NewStalenessChecker(walker *Walker) *StalenessChecker {
	return &StalenessChecker{walker: walker}
}

// ExpectedOutput maps a source onto its compiled output: the path relative to
// sourceRoot is placed under outputRoot with the extension replaced.
func ExpectedOutput(source, sourceRoot, outputRoot, outputExt string) (string, error) {
	rel, err := filepath.Rel(sourceRoot, source)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "source", source)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + outputExt
	return filepath.Join(outputRoot, rel), nil
}

// NeedsRecompile reports whether source has no compiled output or is strictly
// newer than it.
func NeedsRecompile(source, sourceRoot, outputRoot, outputExt string) (bool, error) {
	src, err := os.Stat(source)
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "source", source)
	}
	out, err := ExpectedOutput(source, sourceRoot, outputRoot, outputExt)
	if err != nil {
		return false, err
	}
	return isStale(src.ModTime(), out)
}

// StaleSources returns the stale sources whose extension is a key of exts.
func (c *StalenessChecker) StaleSources(sourceRoot, outputRoot string, exts map[string]string) ([]string, error) {
	var stale []string
	for path, info := range c.walker.WalkFiles(sourceRoot, nil) {
		outExt, ok := exts[filepath.Ext(path)]
		if !ok {
			continue
		}
		out, err := ExpectedOutput(path, sourceRoot, outputRoot, outExt)
		if err != nil {
			return nil, err
		}
		ok, err = isStale(info.ModTime(), out)
		if err != nil {
			return nil, err
		}
		if ok {
			stale = append(stale, path)
		}
	}
	return stale, nil
}

// ModuleNeedsCompile reports whether outputRoot is empty or any file under
// sourceRoot is newer than the oldest file under outputRoot.
func (c *StalenessChecker) ModuleNeedsCompile(sourceRoot, outputRoot string) (bool, error) {
	var oldest time.Time
	for _, info := range c.walker.WalkFiles(outputRoot, nil) {
		if oldest.IsZero() || info.ModTime().Before(oldest) {
			oldest = info.ModTime()
		}
	}
	if oldest.IsZero() {
		return true, nil
	}

	for _, info := range c.walker.WalkFiles(sourceRoot, nil) {
		if info.ModTime().After(oldest) {
			return true, nil
		}
	}
	return false, nil
}

func isStale(srcTime time.Time, output string) (bool, error) {
	out, err := os.Stat(output)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrWalkFailed.Error()), "output", output)
	}
	return srcTime.After(out.ModTime()), nil
}
