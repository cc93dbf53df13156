package rsca

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EntryFailure records one entry that could not be extracted.
type EntryFailure struct {
	Name string
	Err  error
}

// ExtractResult reports what ExtractAll actually did. With a partial
// failure the result is still populated: extraction is best-effort and
// files already written stay written.
type ExtractResult struct {
	// Dir is the absolute extraction directory.
	Dir string
	// Extracted holds the absolute paths of the files written, in
	// table order.
	Extracted []string
	// MainPath is the absolute path of the extracted main entry, or
	// "" when the archive has none or the main entry failed.
	MainPath string
	Failed   []EntryFailure
}

// ExtractAll writes every entry into destDir. A failing entry is
// recorded and extraction continues; the returned error enumerates the
// failures and wraps ErrExtraction, alongside the partial result.
func (r *Reader) ExtractAll(destDir string) (*ExtractResult, error) {
	table, err := r.ReadTable()
	if err != nil {
		return nil, err
	}

	destDir, err = filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionDir, err)
	}

	r.logger.Info("📂 Extracting resources", "dir", destDir, "count", len(table.Resources))
	if err := os.MkdirAll(destDir, os.FileMode(DirPerms)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionDir, err)
	}

	needed := table.TotalOriginalSize()
	free, err := diskFree(destDir)
	if err != nil {
		r.logger.Warn("⚠️ Could not determine free disk space", "dir", destDir, "error", err)
	} else if free < needed {
		return nil, fmt.Errorf("%w: need %d bytes in %s, %d available",
			ErrExtractionDir, needed, destDir, free)
	}

	result := &ExtractResult{Dir: destDir}
	for i := range table.Resources {
		entry := &table.Resources[i]
		target := filepath.Join(destDir, entry.Name)

		data, err := r.ReadResource(i)
		if err != nil {
			r.logger.Error("❌ Failed to read resource", "name", entry.Name, "error", err)
			result.Failed = append(result.Failed, EntryFailure{Name: entry.Name, Err: err})
			continue
		}

		perms := os.FileMode(FilePerms)
		if entry.Main {
			perms = os.FileMode(ExecutablePerms)
		}

		if err := os.WriteFile(target, data, perms); err != nil {
			r.logger.Error("❌ Failed to write resource", "name", entry.Name, "error", err)
			result.Failed = append(result.Failed, EntryFailure{Name: entry.Name, Err: err})
			continue
		}
		// WriteFile only applies the mode on create; an overwritten
		// main entry still has to end up spawnable.
		if err := os.Chmod(target, perms); err != nil {
			r.logger.Warn("⚠️ Could not set permissions", "path", target, "error", err)
		}

		result.Extracted = append(result.Extracted, target)
		if entry.Main {
			result.MainPath = target
		}
		r.logger.Info("📂 Extracted", "name", entry.Name, "size", len(data))
	}

	if len(result.Failed) > 0 {
		names := make([]string, len(result.Failed))
		for i, f := range result.Failed {
			names[i] = f.Name
		}
		return result, fmt.Errorf("%w: %d of %d entries failed (%s)",
			ErrExtraction, len(result.Failed), len(table.Resources), strings.Join(names, ", "))
	}

	return result, nil
}
