package domain

import "path/filepath"

// Artifact is a remote artifact held in the global store.
type Artifact struct {
	Group    string
	Name     string
	Version  string
	FileName string
	// Path is the canonical location inside the global store.
	Path string
}

// Coordinate returns the manifest coordinate of the artifact.
func (a Artifact) Coordinate() Coordinate {
	return Coordinate{Group: a.Group, Artifact: a.Name}
}

// StoreRelPath is the artifact's location relative to the store root.
func (a Artifact) StoreRelPath() string {
	return filepath.Join(a.Group, a.Name, a.Version, a.FileName)
}
