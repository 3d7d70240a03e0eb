// Package store implements the global artifact store shared by every project
// on the machine. Artifacts are keyed by group, artifact and version and are
// copied in at most once.
package store

import (
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/kiln/internal/core/domain"
	"go.trai.ch/kiln/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/singleflight"
)

// layoutMarkers are path segments that precede a repository layout in common caches.
var layoutMarkers = []string{"/maven2/", "/repository/", "/m2/"}

// Store implements ports.ArtifactStore rooted at a directory.
type Store struct {
	root  string
	group singleflight.Group
}

var _ ports.ArtifactStore = (*Store)(nil)

// NewStore creates a store rooted at root.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Parse reads "<group path>/<artifact>/<version>/<artifact>-<version>[-classifier].<ext>"
// from the part of p following a repository root.
func (s *Store) Parse(p string, repositories []string) (domain.Artifact, bool) {
	slashed := filepath.ToSlash(p)

	for _, marker := range markers(repositories) {
		i := strings.LastIndex(slashed, marker)
		if i < 0 {
			continue
		}
		if a, ok := parseLayout(slashed[i+len(marker):]); ok {
			return a, true
		}
	}
	return domain.Artifact{}, false
}

// markers derives "/host/path/" segments from repository URLs and appends the
// generic ones. The resolver cache mirrors URLs as directories.
func markers(repositories []string) []string {
	out := make([]string, 0, len(repositories)+len(layoutMarkers))
	for _, repo := range repositories {
		u, err := url.Parse(repo)
		if err != nil || u.Host == "" {
			continue
		}
		out = append(out, "/"+strings.Trim(path.Join(u.Host, u.Path), "/")+"/")
	}
	return append(out, layoutMarkers...)
}

func parseLayout(rel string) (domain.Artifact, bool) {
	segments := strings.Split(strings.Trim(rel, "/"), "/")
	if len(segments) < 4 {
		return domain.Artifact{}, false
	}

	n := len(segments)
	file, version, artifact := segments[n-1], segments[n-2], segments[n-3]
	if !strings.HasPrefix(file, artifact+"-"+version) {
		return domain.Artifact{}, false
	}

	return domain.Artifact{
		Group:    strings.Join(segments[:n-3], "."),
		Name:     artifact,
		Version:  version,
		FileName: file,
	}, true
}

// EnsureCopy copies src to the artifact's canonical path unless it exists.
func (s *Store) EnsureCopy(a domain.Artifact, src string) (string, error) {
	dst := filepath.Join(s.root, a.StoreRelPath())
	if _, err := os.Stat(dst); err == nil {
		return dst, nil
	}

	_, err, _ := s.group.Do(dst, func() (any, error) {
		if _, err := os.Stat(dst); err == nil {
			return nil, nil
		}
		return nil, copyAtomic(src, dst)
	})
	if err != nil {
		wrapped := zerr.With(zerr.Wrap(err, domain.ErrStoreCopyFailed.Error()), "artifact", domain.ToRegistry(a.Coordinate().String(), a.Version))
		return "", zerr.With(wrapped, "source", src)
	}
	return dst, nil
}

// EnsureLink points <project>/.kiln/deps/<group> at the group's directory in the store.
// An existing link to the same target is left alone; a stale one is replaced.
func (s *Store) EnsureLink(projectDir string, a domain.Artifact) error {
	linkDir := domain.DepsLinkDir(projectDir)
	link := filepath.Join(linkDir, a.Group)
	target := filepath.Join(s.root, a.Group)

	if current, err := os.Readlink(link); err == nil {
		if current == target {
			return nil
		}
		if err := os.Remove(link); err != nil {
			return linkError(err, link)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return linkError(err, link)
	}

	if err := os.MkdirAll(linkDir, domain.DirPerm); err != nil {
		return linkError(err, link)
	}
	if err := os.Symlink(target, link); err != nil {
		return linkError(err, link)
	}
	return nil
}

func linkError(err error, link string) error {
	return zerr.With(zerr.Wrap(err, domain.ErrStoreLinkFailed.Error()), "link", link)
}

func copyAtomic(src, dst string) error {
	dir := filepath.Dir(dst)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return err
	}

	// #nosec G304 -- src is a path reported by the resolver tool
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()

	tmp, err := os.CreateTemp(dir, ".artifact-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if _, statErr := os.Stat(tmpName); statErr == nil {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, domain.FilePerm); err != nil {
		return err
	}
	return os.Rename(tmpName, dst)
}
