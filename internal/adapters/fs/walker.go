// Package fs provides file system adapters for walking source trees and
// checking compiled outputs against their sources.
package fs

import (
	"errors"
	"io/fs"
	"iter"
	"path/filepath"
)

// Walker walks source and output trees.
type Walker struct{}

// NewWalker creates a new Walker.
func NewWalker() *Walker {
	return &Walker{}
}

// WalkFiles yields every regular file under root with its info, skipping VCS
// directories and directories matching ignores. A missing root yields nothing.
func (w *Walker) WalkFiles(root string, ignores []string) iter.Seq2[string, fs.FileInfo] {
	return func(yield func(string, fs.FileInfo) bool) {
		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if d.IsDir() {
				if path != root && skipDir(d.Name(), ignores) {
					return filepath.SkipDir
				}
				return nil
			}
			info, err := d.Info()
			if err != nil {
				return nil //nolint:nilerr // vanished between readdir and stat
			}
			if !yield(path, info) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

func skipDir(name string, ignores []string) bool {
	if name == ".git" || name == ".jj" {
		return true
	}
	for _, ignore := range ignores {
		if matched, _ := filepath.Match(ignore, name); matched {
			return true
		}
	}
	return false
}
