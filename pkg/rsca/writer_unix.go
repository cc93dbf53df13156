//go:build !windows

package rsca

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
)

// atomicReplace replaces destPath with sourcePath. On Unix, os.Rename
// is already atomic within a filesystem.
func atomicReplace(sourcePath, destPath string, logger hclog.Logger) error {
	logger.Debug("Replacing output atomically", "source", sourcePath, "dest", destPath)

	if err := os.Rename(sourcePath, destPath); err != nil {
		return fmt.Errorf("failed to rename file: %w", err)
	}

	return nil
}
