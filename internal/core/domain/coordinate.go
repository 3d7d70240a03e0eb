package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

const (
	// ManifestSeparator separates group and artifact in manifest coordinates ("group@artifact").
	ManifestSeparator = "@"

	// RegistrySeparator separates the parts of registry coordinates ("group:artifact:version").
	RegistrySeparator = ":"
)

// Coordinate identifies a project or artifact by group and artifact name.
type Coordinate struct {
	Group    string
	Artifact string
}

// ParseCoordinate splits a manifest coordinate "group@artifact".
func ParseCoordinate(name string) (Coordinate, error) {
	group, artifact, ok := strings.Cut(name, ManifestSeparator)
	if !ok || group == "" || artifact == "" {
		return Coordinate{}, zerr.With(ErrInvalidCoordinate, "coordinate", name)
	}
	return Coordinate{Group: group, Artifact: artifact}, nil
}

// String returns the manifest form of the coordinate.
func (c Coordinate) String() string {
	return c.Group + ManifestSeparator + c.Artifact
}

// ToRegistry translates a manifest coordinate and version into registry syntax.
// Every "@" becomes ":", so an artifact name containing "@" does not translate back.
func ToRegistry(name, version string) string {
	return strings.ReplaceAll(name, ManifestSeparator, RegistrySeparator) + RegistrySeparator + version
}

// FromRegistry translates a registry coordinate "group:artifact:version" into
// its manifest name and version.
func FromRegistry(coord string) (name, version string, err error) {
	parts := strings.Split(coord, RegistrySeparator)
	if len(parts) != 3 {
		return "", "", zerr.With(ErrInvalidCoordinate, "coordinate", coord)
	}
	for _, p := range parts {
		if p == "" {
			return "", "", zerr.With(ErrInvalidCoordinate, "coordinate", coord)
		}
	}
	return parts[0] + ManifestSeparator + parts[1], parts[2], nil
}
