package classpath

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
)

// Cache implements ports.ClasspathCache as <project>/.kiln/classpath.json.
type Cache struct {
	logger ports.Logger
	now    func() time.Time
}

var _ ports.ClasspathCache = (*Cache)(nil)

// NewCache creates a Cache.
func NewCache(logger ports.Logger) *Cache {
	return &Cache{logger: logger, now: time.Now}
}

// Lookup returns the cached entries if the cache file is strictly newer than
// the manifest and every entry still exists.
func (c *Cache) Lookup(project *domain.Project) (domain.Classpath, bool) {
	path := domain.ClasspathCachePath(project.Dir)

	cacheInfo, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	manifestInfo, err := os.Stat(project.ManifestPath)
	if err != nil || !cacheInfo.ModTime().After(manifestInfo.ModTime()) {
		return nil, false
	}

	record, err := read(path)
	if err != nil {
		c.logger.Warn(err.Error())
		return nil, false
	}

	for _, entry := range record.Entries {
		if _, err := os.Stat(entry); err != nil {
			return nil, false
		}
	}
	return domain.Classpath(record.Entries), true
}

// Save orders entries by the project's declared dependencies and writes the cache.
func (c *Cache) Save(project *domain.Project, entries domain.Classpath) (domain.Classpath, error) {
	ordered := Order(project, entries)
	record := domain.ClasspathRecord{
		Entries:    ordered,
		ResolvedAt: c.now().UTC(),
	}
	if record.Entries == nil {
		record.Entries = []string{}
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return nil, c.writeError(err, project)
	}
	if err := atomicWriteFile(domain.ClasspathCachePath(project.Dir), append(data, '\n')); err != nil {
		return nil, c.writeError(err, project)
	}
	return ordered, nil
}

// Invalidate removes the cache file. A missing file is not an error.
func (c *Cache) Invalidate(project *domain.Project) error {
	err := os.Remove(domain.ClasspathCachePath(project.Dir))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return c.writeError(err, project)
	}
	return nil
}

func (c *Cache) writeError(err error, project *domain.Project) error {
	return zerr.With(zerr.Wrap(err, domain.ErrClasspathCacheWriteFailed.Error()), "path", domain.ClasspathCachePath(project.Dir))
}

func read(path string) (domain.ClasspathRecord, error) {
	var record domain.ClasspathRecord
	// #nosec G304 -- path is derived from the project directory
	data, err := os.ReadFile(path)
	if err != nil {
		return record, zerr.With(zerr.Wrap(err, domain.ErrClasspathCacheReadFailed.Error()), "path", path)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, zerr.With(zerr.Wrap(err, domain.ErrClasspathCacheReadFailed.Error()), "path", path)
	}
	return record, nil
}

// Order sorts entries by the position of the dependency each one belongs to.
// Entries that match no declared dependency follow in lexicographic order.
func Order(project *domain.Project, entries domain.Classpath) domain.Classpath {
	index := project.DependencyIndex()

	type ranked struct {
		path string
		pos  int
	}
	ranks := make([]ranked, 0, len(entries))
	for _, entry := range entries {
		ranks = append(ranks, ranked{path: entry, pos: position(entry, index)})
	}

	slices.SortStableFunc(ranks, func(a, b ranked) int {
		switch {
		case a.pos >= 0 && b.pos >= 0:
			return a.pos - b.pos
		case a.pos >= 0:
			return -1
		case b.pos >= 0:
			return 1
		default:
			return strings.Compare(a.path, b.path)
		}
	})

	out := make(domain.Classpath, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, r.path)
	}
	return out
}

// position finds the declared index for entry, or -1. Only store paths,
// <group>/<artifact>/<version>/<artifact>-<version>[-classifier].<ext>, match.
func position(entry string, index map[string]int) int {
	segments := strings.Split(filepath.ToSlash(filepath.Clean(entry)), "/")
	n := len(segments)
	if n < 4 {
		return -1
	}

	group, artifact, version, file := segments[n-4], segments[n-3], segments[n-2], segments[n-1]
	if !strings.HasPrefix(file, artifact+"-"+version) {
		return -1
	}
	if pos, ok := index[domain.Coordinate{Group: group, Artifact: artifact}.String()]; ok {
		return pos
	}
	return -1
}

func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".classpath-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
