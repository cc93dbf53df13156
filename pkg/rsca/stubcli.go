package rsca

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"
)

// runCLI dispatches the inspection commands available when EnvStubCLI
// is set. With no command it defaults to info.
func runCLI(exePath string, args []string, logger hclog.Logger) int {
	logger.Debug("💻 Running in CLI mode", "args", args)

	if len(args) == 0 {
		return showInfo(exePath, logger)
	}

	switch args[0] {
	case "info":
		return showInfo(exePath, logger)
	case "list":
		return listResources(exePath, logger)
	case "verify":
		return verifyArchive(exePath, logger)
	case "extract":
		return extractArchive(exePath, args[1:], logger)
	case "run":
		return runArchive(exePath, logger)
	case "version", "--version":
		fmt.Printf("respack-stub %s (format v%d)\n", Version, FormatVersion)
		return 0
	case "help", "--help":
		printCLIHelp()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n", args[0])
		fmt.Fprintf(os.Stderr, "Available commands: info, list, extract, verify, run, version, help\n")
		return ExitInvalidArgs
	}
}

// showInfo prints a human-readable archive summary.
func showInfo(exePath string, logger hclog.Logger) int {
	reader := NewReaderWithLogger(exePath, logger)
	defer reader.Close()

	footer, err := reader.ReadFooter()
	if err != nil {
		if errors.Is(err, ErrNoArchive) {
			fmt.Printf("%s: unpackaged respack stub v%s\n", filepath.Base(exePath), Version)
			fmt.Println("No archive attached. Package it with respack-builder.")
			return 0
		}
		logger.Error("❌ Failed to read footer", "error", err)
		return ExitCodeFor(err)
	}

	table, err := reader.ReadTable()
	if err != nil {
		logger.Error("❌ Failed to read resource table", "error", err)
		return ExitCodeFor(err)
	}

	var stored uint64
	for i := range table.Resources {
		stored += table.Resources[i].PayloadLength
	}

	fmt.Printf("%s [RSCA v%d]\n", filepath.Base(exePath), footer.Version)
	fmt.Printf("Resources: %d | Transform: %s | Original: %s | Stored: %s\n",
		len(table.Resources), table.Config.Transform,
		formatSize(table.TotalOriginalSize()), formatSize(stored))
	fmt.Printf("Extraction path: %s | Window: %s | Elevation: %v\n",
		table.Config.ExtractionPath, table.Config.WindowState, table.Config.RequestElevation)

	if i := table.MainIndex(); i >= 0 {
		if table.Config.MainArgs != "" {
			fmt.Printf("Main: %s %s\n", table.Resources[i].Name, table.Config.MainArgs)
		} else {
			fmt.Printf("Main: %s\n", table.Resources[i].Name)
		}
	} else {
		fmt.Println("Main: (none)")
	}

	fmt.Println()
	fmt.Println("CLI mode: 'run' to extract and launch, 'extract' to unpack, 'verify' to check integrity")
	return 0
}

// listResources prints one line per packaged resource.
func listResources(exePath string, logger hclog.Logger) int {
	reader := NewReaderWithLogger(exePath, logger)
	defer reader.Close()

	table, err := reader.ReadTable()
	if err != nil {
		if errors.Is(err, ErrNoArchive) {
			fmt.Println("No archive attached to this stub.")
			return 0
		}
		logger.Error("❌ Failed to read resource table", "error", err)
		return ExitCodeFor(err)
	}

	fmt.Printf("%-32s %12s %12s %-10s\n", "NAME", "STORED", "ORIGINAL", "TRANSFORM")
	for i := range table.Resources {
		entry := &table.Resources[i]
		mode := "raw"
		if entry.Transformed {
			mode = table.Config.Transform
		}
		mark := ""
		if entry.Main {
			mark = " (main)"
		}
		fmt.Printf("%-32s %12d %12d %-10s%s\n",
			entry.Name, entry.PayloadLength, entry.OriginalLength, mode, mark)
	}
	return 0
}

// verifyArchive walks footer, table, and every payload checksum
// without writing anything to disk.
func verifyArchive(exePath string, logger hclog.Logger) int {
	reader := NewReaderWithLogger(exePath, logger)
	defer reader.Close()

	if _, err := reader.ReadFooter(); err != nil && errors.Is(err, ErrNoArchive) {
		fmt.Println("No archive attached to this stub.")
		return 0
	}

	fmt.Println("Verifying archive integrity...")

	var problems []string

	if _, err := reader.ReadFooter(); err != nil {
		problems = append(problems, fmt.Sprintf("footer: %v", err))
	} else {
		fmt.Println("✓ Footer valid")
	}

	table, err := reader.ReadTable()
	if err != nil {
		problems = append(problems, fmt.Sprintf("table: %v", err))
	} else {
		fmt.Println("✓ Resource table valid")
		for i := range table.Resources {
			name := table.Resources[i].Name
			if _, err := reader.ReadResource(i); err != nil {
				problems = append(problems, fmt.Sprintf("resource %q: %v", name, err))
			} else {
				fmt.Printf("✓ Resource %q checksum valid\n", name)
			}
		}
	}

	if len(problems) == 0 {
		fmt.Println()
		fmt.Println("✓ Archive verification passed")
		return 0
	}

	fmt.Println()
	fmt.Println("✗ Archive verification failed:")
	for _, p := range problems {
		fmt.Printf("  - %s\n", p)
	}
	return ExitFormatError
}

// extractArchive extracts everything without launching. -dir overrides
// the archive's extraction path.
func extractArchive(exePath string, args []string, logger hclog.Logger) int {
	var dirOverride string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-dir", "--dir":
			if i+1 >= len(args) {
				fmt.Fprintf(os.Stderr, "Error: %s requires a directory argument\n", args[i])
				fmt.Fprintf(os.Stderr, "Usage: extract [-dir DIR]\n")
				return ExitInvalidArgs
			}
			i++
			dirOverride = args[i]
		default:
			fmt.Fprintf(os.Stderr, "Error: unknown extract argument %q\n", args[i])
			fmt.Fprintf(os.Stderr, "Usage: extract [-dir DIR]\n")
			return ExitInvalidArgs
		}
	}

	reader := NewReaderWithLogger(exePath, logger)
	defer reader.Close()

	table, err := reader.ReadTable()
	if err != nil {
		if errors.Is(err, ErrNoArchive) {
			fmt.Println("No archive attached to this stub.")
			return 0
		}
		logger.Error("❌ Failed to read resource table", "error", err)
		return ExitCodeFor(err)
	}

	destDir := dirOverride
	if destDir == "" {
		destDir, err = resolveArchiveDir(table)
		if err != nil {
			logger.Error("❌ Failed to resolve extraction path", "error", err)
			return ExitCodeFor(err)
		}
	}

	result, extractErr := reader.ExtractAll(destDir)
	if result == nil {
		logger.Error("❌ Extraction failed", "error", extractErr)
		return ExitCodeFor(extractErr)
	}

	for _, path := range result.Extracted {
		fmt.Printf("Extracted %s\n", path)
	}
	for _, failure := range result.Failed {
		fmt.Fprintf(os.Stderr, "Failed: %s: %v\n", failure.Name, failure.Err)
	}
	fmt.Printf("%d of %d resources extracted to %s\n",
		len(result.Extracted), len(table.Resources), result.Dir)

	return ExitCodeFor(extractErr)
}

func printCLIHelp() {
	fmt.Println("respack stub - CLI mode")
	fmt.Println()
	fmt.Println("Available commands:")
	fmt.Println("  info             Show archive summary (default)")
	fmt.Println("  list             List packaged resources")
	fmt.Println("  extract [-dir D] Extract resources without launching")
	fmt.Println("  verify           Verify footer, table, and checksums")
	fmt.Println("  run              Extract and launch (the normal flow)")
	fmt.Println("  version          Show stub version")
	fmt.Println("  help             Show this help message")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  RESPACK_STUB_CLI=1 ./packed.exe <command>")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  RESPACK_STUB_CLI=1 ./packed.exe info")
	fmt.Println("  RESPACK_STUB_CLI=1 ./packed.exe extract -dir /tmp/out")
}

func formatSize(n uint64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%d B", n)
}
