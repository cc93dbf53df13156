package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"time"

	"github.com/spf13/cobra"

	"github.com/respack/respack/pkg"
)

var (
	projectPath string
	outputPath  string
	stubBin     string
	logLevel    string
	rootCmd     *cobra.Command
	versionFlag bool
)

func getBuildTimestamp() string {
	// Try to get vcs.time from build info
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == "vcs.time" {
				if t, err := time.Parse(time.RFC3339, setting.Value); err == nil {
					return t.UTC().Format(time.RFC3339)
				}
			}
		}
	}
	// Fallback to binary modification time
	if exePath, err := os.Executable(); err == nil {
		if stat, err := os.Stat(exePath); err == nil {
			return stat.ModTime().UTC().Format(time.RFC3339)
		}
	}
	return time.Now().UTC().Format(time.RFC3339)
}

func init() {
	rootCmd = &cobra.Command{
		Use:   "respack-builder",
		Short: "Package resources into a self-extracting executable",
		Long:  `Package resources into a self-extracting executable`,
		Run:   buildArchive,
	}

	rootCmd.Flags().StringVarP(&projectPath, "project", "p", "", "Path to the project manifest (required)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output path (overrides the manifest)")
	rootCmd.Flags().StringVar(&stubBin, "stub-bin", "", "Path to the stub template binary")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVarP(&versionFlag, "version", "V", false, "Show version information")

	if err := rootCmd.MarkFlagRequired("project"); err != nil {
		panic(err)
	}
}

func main() {
	// Handle --version or -V before cobra insists on --project
	if len(os.Args) > 1 && (os.Args[1] == "--version" || os.Args[1] == "-V") {
		printVersion()
		os.Exit(0)
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func printVersion() {
	fmt.Printf("respack-builder %s\n", pkg.Version)
	fmt.Printf("Built: %s\n", getBuildTimestamp())
}

func buildArchive(cmd *cobra.Command, args []string) {
	if versionFlag {
		printVersion()
		return
	}

	if err := pkg.Build(projectPath, outputPath, stubBin, logLevel); err != nil {
		os.Exit(1)
	}
}
