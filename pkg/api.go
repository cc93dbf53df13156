package pkg

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/respack/respack/pkg/logging"
	"github.com/respack/respack/pkg/project"
	"github.com/respack/respack/pkg/rsca"
)

// Version of the tool set.
const Version = rsca.Version

// Build packages a project manifest into a self-extracting executable.
// stubBin and outputPath override the manifest when non-empty; logLevel
// overrides the environment cascade.
func Build(manifestPath, outputPath, stubBin, logLevel string) error {
	level, source := logging.ResolveLevel(logLevel, []string{logging.EnvLogLevel}, "info")
	logger := logging.NewLogger("respack-builder", level)

	logger.Info("📦 respack builder starting", "version", Version)
	logger.Debug("Log level", "level", level, "source", source)

	manifest, err := project.Load(manifestPath)
	if err != nil {
		logger.Error("❌ Failed to load project", "error", err, "path", manifestPath)
		return err
	}

	opts, err := manifest.ToWriteOptions(stubBin, outputPath)
	if err != nil {
		logger.Error("❌ Invalid project", "error", err)
		return err
	}

	probeTemplateVersion(opts.TemplatePath, logger)

	if err := rsca.WriteArchive(logger, opts); err != nil {
		logger.Error("❌ Build failed", "error", err)
		return err
	}

	logger.Info("✅ Build complete", "project", manifest.Name, "output", opts.OutputPath)
	return nil
}

// probeTemplateVersion asks the template binary for its version. A
// template that cannot answer is suspicious but not fatal; version
// skew between builder and stub is worth a warning either way.
func probeTemplateVersion(templatePath string, logger hclog.Logger) {
	cmd := exec.Command(templatePath, "--version")
	cmd.Env = append(os.Environ(), rsca.EnvStubCLI+"=1")
	out, err := cmd.CombinedOutput()
	if err != nil {
		logger.Warn("⚠️ Could not get template version", "error", err)
		return
	}

	version := strings.TrimSpace(string(out))
	logger.Info("🔍 Template version", "version", version)
	if !strings.Contains(version, Version) {
		logger.Warn("⚠️ Template version differs from builder", "builder", Version)
	}
}

// Inspect parses the archive attached to a packaged executable and
// returns its table.
func Inspect(archivePath string) (*rsca.Table, error) {
	reader := rsca.NewReader(archivePath)
	defer reader.Close()
	return reader.ReadTable()
}

// Verify checks the footer, the table, and every payload checksum of a
// packaged executable without writing anything. The returned error
// joins all per-resource failures.
func Verify(archivePath string) error {
	reader := rsca.NewReader(archivePath)
	defer reader.Close()

	table, err := reader.ReadTable()
	if err != nil {
		return err
	}

	var errs []error
	for i := range table.Resources {
		if _, err := reader.ReadResource(i); err != nil {
			errs = append(errs, fmt.Errorf("resource %q: %w", table.Resources[i].Name, err))
		}
	}
	return errors.Join(errs...)
}
