// Package launch starts an extracted main entry as a child process.
// Window visibility and the elevation request are resolved here, behind
// one per-OS boundary, so nothing else in the codebase touches
// platform launch flags.
package launch

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

var (
	ErrLaunch         = errors.New("launch failed")
	ErrLaunchDeclined = errors.New("elevation declined")
)

// WindowState controls the visibility of the launched process's window.
type WindowState uint8

const (
	WindowNormal WindowState = iota
	WindowMaximized
	WindowMinimized
	// WindowHidden creates no window at all, not a minimized one.
	WindowHidden
)

func (s WindowState) String() string {
	switch s {
	case WindowNormal:
		return "normal"
	case WindowMaximized:
		return "maximized"
	case WindowMinimized:
		return "minimized"
	case WindowHidden:
		return "hidden"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(s))
	}
}

// ParseWindowState parses a window state from its string form.
func ParseWindowState(name string) (WindowState, error) {
	switch strings.ToLower(name) {
	case "normal", "":
		return WindowNormal, nil
	case "maximized":
		return WindowMaximized, nil
	case "minimized":
		return WindowMinimized, nil
	case "hidden":
		return WindowHidden, nil
	default:
		return 0, fmt.Errorf("unknown window state: %q", name)
	}
}

// MarshalJSON stores the state as its lowercase name.
func (s WindowState) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *WindowState) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseWindowState(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Spec describes one launch.
type Spec struct {
	// Path is the absolute path of the program to run.
	Path string
	// Args are the program arguments, already split.
	Args []string
	// Dir is the child's working directory.
	Dir string

	Window  WindowState
	Elevate bool
}

// isBatchFile reports whether the target must be run through the
// command interpreter rather than executed directly.
func isBatchFile(path string) bool {
	ext := filepath.Ext(path)
	return strings.EqualFold(ext, ".bat") || strings.EqualFold(ext, ".cmd")
}
