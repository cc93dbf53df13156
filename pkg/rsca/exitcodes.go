package rsca

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/respack/respack/pkg/launch"
)

// Exit codes reported by a packaged executable.
const (
	ExitPanic           = 101
	ExitFormatError     = 102
	ExitExtractionError = 103
	ExitLaunchError     = 104
	ExitInvalidArgs     = 105
	ExitIOError         = 106
	ExitPathError       = 107
	ExitLaunchDeclined  = 108
)

// ExitCodeFor maps an error to the stub's exit code taxonomy. Errors
// outside the taxonomy count as I/O failures.
func ExitCodeFor(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUnsupportedFormat),
		errors.Is(err, ErrCorruptArchive):
		return ExitFormatError
	case errors.Is(err, ErrExtraction),
		errors.Is(err, ErrExtractionDir):
		return ExitExtractionError
	case errors.Is(err, ErrPathResolution):
		return ExitPathError
	case errors.Is(err, launch.ErrLaunchDeclined):
		return ExitLaunchDeclined
	case errors.Is(err, launch.ErrLaunch):
		return ExitLaunchError
	default:
		return ExitIOError
	}
}

// isEnvTrue reports whether an environment variable holds a truthy
// value. "on" and "yes" count alongside what strconv.ParseBool takes.
func isEnvTrue(key string) bool {
	val := os.Getenv(key)
	if val == "" {
		return false
	}

	valLower := strings.ToLower(val)
	if valLower == "on" || valLower == "yes" {
		return true
	}

	result, err := strconv.ParseBool(val)
	return err == nil && result
}
