// Package classpath assembles a project's classpath and persists it between runs.
package classpath

import (
	"os"

	"go.trai.ch/kiln/internal/core/domain"
)

// Assemble builds the classpath in its fixed order: the project's own output
// directory when it exists, then the local fragment, then the remote fragment.
func Assemble(ownOutput string, local, remote domain.Classpath) domain.Classpath {
	cp := make(domain.Classpath, 0, 1+len(local)+len(remote))
	if ownOutput != "" {
		if info, err := os.Stat(ownOutput); err == nil && info.IsDir() {
			cp = append(cp, ownOutput)
		}
	}
	cp = append(cp, local...)
	return append(cp, remote...)
}
