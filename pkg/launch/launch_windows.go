//go:build windows

package launch

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"golang.org/x/sys/windows"
)

// showCommand maps a window state to the ShellExecute show command.
func showCommand(state WindowState) int32 {
	switch state {
	case WindowMaximized:
		return windows.SW_MAXIMIZE
	case WindowMinimized:
		return windows.SW_SHOWMINIMIZED
	case WindowHidden:
		return windows.SW_HIDE
	default:
		return windows.SW_NORMAL
	}
}

// Start launches the target via ShellExecuteW and does not wait for it.
// An elevation request uses the "runas" verb; the UAC refusal surfaces
// as ErrLaunchDeclined.
func Start(spec Spec, logger hclog.Logger) error {
	file := spec.Path
	args := spec.Args

	// Batch scripts go through the command interpreter, the way the
	// shell itself would run them.
	if isBatchFile(spec.Path) {
		comspec := os.Getenv("COMSPEC")
		if comspec == "" {
			comspec = "cmd.exe"
		}
		file = comspec
		args = append([]string{"/C", spec.Path}, spec.Args...)
		logger.Debug("🖥️ Routing batch script through interpreter", "comspec", comspec)
	}

	verb := "open"
	if spec.Elevate && !windows.GetCurrentProcessToken().IsElevated() {
		verb = "runas"
		logger.Info("🛡️ Requesting elevation", "path", spec.Path)
	}

	verbPtr, err := windows.UTF16PtrFromString(verb)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLaunch, err)
	}
	filePtr, err := windows.UTF16PtrFromString(file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLaunch, err)
	}

	var argsPtr *uint16
	if len(args) > 0 {
		argsPtr, err = windows.UTF16PtrFromString(windows.ComposeCommandLine(args))
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLaunch, err)
		}
	}

	var dirPtr *uint16
	if spec.Dir != "" {
		dirPtr, err = windows.UTF16PtrFromString(spec.Dir)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrLaunch, err)
		}
	}

	logger.Info("🚀 Launching", "path", spec.Path, "window", spec.Window.String(), "verb", verb)

	if err := windows.ShellExecute(0, verbPtr, filePtr, argsPtr, dirPtr, showCommand(spec.Window)); err != nil {
		if errors.Is(err, windows.ERROR_CANCELLED) {
			return fmt.Errorf("%w: %s", ErrLaunchDeclined, spec.Path)
		}
		return fmt.Errorf("%w: %s: %v", ErrLaunch, spec.Path, err)
	}

	return nil
}
