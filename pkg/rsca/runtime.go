package rsca

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/shlex"
	"github.com/hashicorp/go-hclog"

	"github.com/respack/respack/internal/selfexe"
	"github.com/respack/respack/pkg/launch"
	"github.com/respack/respack/pkg/logging"
)

// Run is the whole life of a packaged executable: open the backing
// file, extract everything, launch the main entry. It returns the
// process exit code. With EnvStubCLI set it dispatches to the
// inspection commands instead.
func Run(args []string) int {
	level, source := logging.ResolveLevel("",
		[]string{logging.EnvStubLogLevel, logging.EnvLogLevel}, "warn")
	logger := logging.NewLogger("respack-stub", level)
	logger.Debug("Log level", "level", level, "source", source)

	exePath, err := selfexe.Path()
	if err != nil {
		logger.Error("❌ Could not locate own executable", "error", err)
		return ExitIOError
	}
	logger.Debug("📖 Reading own backing file", "path", exePath)

	if isEnvTrue(EnvStubCLI) {
		return runCLI(exePath, args, logger)
	}

	return runArchive(exePath, logger)
}

// runArchive is the normal, non-CLI flow.
func runArchive(exePath string, logger hclog.Logger) int {
	reader := NewReaderWithLogger(exePath, logger)
	defer reader.Close()

	table, err := reader.ReadTable()
	if err != nil {
		if errors.Is(err, ErrNoArchive) {
			logger.Info("📦 No archive attached, nothing to do", "path", exePath)
			fmt.Println("This binary is an unpackaged respack stub. Package it with respack-builder.")
			return 0
		}
		logger.Error("❌ Failed to read archive", "error", err)
		return ExitCodeFor(err)
	}

	destDir, err := resolveArchiveDir(table)
	if err != nil {
		logger.Error("❌ Failed to resolve extraction path", "error", err,
			"spec", table.Config.ExtractionPath)
		return ExitCodeFor(err)
	}

	result, extractErr := reader.ExtractAll(destDir)
	if result == nil {
		logger.Error("❌ Extraction failed", "error", extractErr)
		return ExitCodeFor(extractErr)
	}
	if extractErr != nil {
		logger.Error("⚠️ Extraction finished with failures", "error", extractErr)
	}

	// The main entry is launched only when it extracted cleanly, but
	// a sibling failure still makes the stub exit non-zero.
	var launchErr error
	if result.MainPath != "" {
		launchErr = launchMain(table, result.MainPath, logger)
		if launchErr != nil {
			logger.Error("❌ Failed to launch main resource", "error", launchErr)
		}
	}

	switch {
	case extractErr != nil:
		return ExitCodeFor(extractErr)
	case launchErr != nil:
		return ExitCodeFor(launchErr)
	}
	return 0
}

// resolveArchiveDir resolves the archive's extraction path spec
// against the stub binary's directory.
func resolveArchiveDir(table *Table) (string, error) {
	exeDir, err := selfexe.Dir()
	if err != nil {
		return "", err
	}
	return ResolveExtractionDir(table.Config.ExtractionPath, exeDir)
}

func launchMain(table *Table, mainPath string, logger hclog.Logger) error {
	args, err := shlex.Split(table.Config.MainArgs)
	if err != nil {
		return fmt.Errorf("%w: bad main arguments %q: %v", launch.ErrLaunch, table.Config.MainArgs, err)
	}

	spec := launch.Spec{
		Path:    mainPath,
		Args:    args,
		Dir:     filepath.Dir(mainPath),
		Window:  table.Config.WindowState,
		Elevate: table.Config.RequestElevation,
	}

	logger.Info("🚀 Launching main resource", "path", mainPath,
		"window", spec.Window.String(), "elevate", spec.Elevate)
	return launch.Start(spec, logger)
}
