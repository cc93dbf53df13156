// Package selfexe locates the running binary's backing file. The
// archive footer must be read from the real file, so symlinks are
// resolved away.
package selfexe

import (
	"fmt"
	"os"
	"path/filepath"
)

// Path returns the absolute, symlink-free path of the current
// executable.
func Path() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to locate executable: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(exe)
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable path: %w", err)
	}

	return resolved, nil
}

// Dir returns the directory holding the current executable. Relative
// extraction paths anchor here, never at the working directory.
func Dir() (string, error) {
	exe, err := Path()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}
