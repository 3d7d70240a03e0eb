package watcher

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/cespare/xxhash/v2"
)

// ContentFilter remembers a content hash per file so that saves without a
// content change do not trigger work.
type ContentFilter struct {
	mu     sync.Mutex
	hashes map[string]uint64
}

// NewContentFilter creates an empty filter.
func NewContentFilter() *ContentFilter {
	return &ContentFilter{hashes: make(map[string]uint64)}
}

// Seed records the current content of every regular file below root.
func (f *ContentFilter) Seed(root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // unreadable entries are hashed on first change
		}
		if d.IsDir() {
			if path != root && skipDirectories[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if sum, ok := hashFile(path); ok {
			f.mu.Lock()
			f.hashes[path] = sum
			f.mu.Unlock()
		}
		return nil
	})
}

// Changed reports whether path differs from the last content seen.
// Directories never count; a file that disappeared always does.
func (f *ContentFilter) Changed(path string) bool {
	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	sum, ok := hashFile(path)
	if !ok {
		_, known := f.hashes[path]
		delete(f.hashes, path)
		return known
	}

	prev, known := f.hashes[path]
	f.hashes[path] = sum
	return !known || prev != sum
}

func hashFile(path string) (uint64, bool) {
	// #nosec G304 -- path comes from the watched source tree
	file, err := os.Open(path)
	if err != nil {
		return 0, false
	}
	defer func() { _ = file.Close() }()

	h := xxhash.New()
	if _, err := io.Copy(h, file); err != nil {
		return 0, false
	}
	return h.Sum64(), true
}
