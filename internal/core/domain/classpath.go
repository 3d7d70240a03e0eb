package domain

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Classpath is an ordered list of absolute paths searched for compiled units.
type Classpath []string

// String joins the entries with the platform path-list separator.
func (c Classpath) String() string {
	return strings.Join(c, string(os.PathListSeparator))
}

// ParseClasspath splits a path-list string, dropping empty entries.
func ParseClasspath(s string) Classpath {
	var cp Classpath
	for _, p := range filepath.SplitList(s) {
		if p = strings.TrimSpace(p); p != "" {
			cp = append(cp, p)
		}
	}
	return cp
}

// ClasspathRecord is the persisted classpath cache of a project.
type ClasspathRecord struct {
	Entries    []string  `json:"entries"`
	ResolvedAt time.Time `json:"resolvedAt"`
}
