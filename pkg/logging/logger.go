// Package logging builds the process loggers. Both binaries log
// through hclog with UTC timestamps; plain-text output is prefixed per
// line so it cannot be mistaken for output of the launched program.
package logging

import (
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-hclog"
)

// Environment variables honored by both binaries.
const (
	// EnvLogLevel sets the level for builder and stub alike.
	EnvLogLevel = "RESPACK_LOG_LEVEL"
	// EnvStubLogLevel overrides EnvLogLevel for the stub only, so a
	// packaged app can stay quiet while the build pipeline around it
	// runs verbose.
	EnvStubLogLevel = "RESPACK_STUB_LOG_LEVEL"
	// EnvLogPath redirects log output to an append-only file.
	EnvLogPath = "RESPACK_LOG_PATH"
)

// ResolveLevel resolves the effective log level: the explicit value
// first, then each environment variable in order, then the fallback.
// The second return names where the level came from.
func ResolveLevel(explicit string, envKeys []string, fallback string) (string, string) {
	if explicit != "" {
		return explicit, "flag"
	}
	for _, key := range envKeys {
		if v := os.Getenv(key); v != "" {
			return v, key
		}
	}
	return fallback, "default"
}

// NewLogger builds a logger named name at the given level. A level of
// the form "json:<level>" switches to JSON output. EnvLogPath sends
// everything to a file instead of stderr.
func NewLogger(name string, level string) hclog.Logger {
	jsonFormat := false
	actualLevel := level
	if strings.HasPrefix(level, "json") {
		jsonFormat = true
		actualLevel = "info"
		if parts := strings.SplitN(level, ":", 2); len(parts) == 2 && parts[1] != "" {
			actualLevel = parts[1]
		}
	}

	var output io.Writer = os.Stderr
	if logPath := os.Getenv(EnvLogPath); logPath != "" {
		if file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err == nil {
			output = file
		}
	}

	if !jsonFormat {
		output = NewPrefixWriter(logPrefix(), output)
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:       name,
		Level:      hclog.LevelFromString(actualLevel),
		JSONFormat: jsonFormat,
		Output:     output,
		TimeFormat: "2006-01-02T15:04:05Z",
		TimeFn: func() time.Time {
			return time.Now().UTC()
		},
	})
}

// logPrefix is the per-line marker for plain output. Windows consoles
// still garble emoji under some code pages, so they get an ASCII tag.
func logPrefix() string {
	if runtime.GOOS == "windows" {
		return "[respack] "
	}
	return "📦 "
}
