//go:build !windows

package launch

import (
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/hashicorp/go-hclog"
)

// pkexec exit codes for an authentication dialog that was dismissed or
// refused. Anything the broker's child returns passes through
// unchanged, so these are only meaningful for the broker itself.
const (
	pkexecDismissed = 126
	pkexecNotAuthed = 127
)

// Start launches the target. There is no window system to drive here:
// WindowHidden detaches the child into its own session with no
// inherited stdio, the other states inherit the parent's stdio.
//
// Non-elevated launches are started and released, matching the
// fire-and-forget launch on Windows. An elevated launch runs through a
// privilege broker (pkexec, falling back to sudo); broker and child are
// one process, so the launch is waited on. That wait is the only way
// to observe a declined authentication.
func Start(spec Spec, logger hclog.Logger) error {
	argv := append([]string{spec.Path}, spec.Args...)

	elevate := spec.Elevate && os.Geteuid() != 0
	broker := ""
	if elevate {
		var err error
		broker, err = exec.LookPath("pkexec")
		if err != nil {
			broker, err = exec.LookPath("sudo")
			if err != nil {
				return fmt.Errorf("%w: no privilege broker available (pkexec, sudo)", ErrLaunch)
			}
		}
		argv = append([]string{broker}, argv...)
		logger.Info("🛡️ Requesting elevation", "broker", broker, "path", spec.Path)
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	cmd.Dir = spec.Dir
	cmd.Env = os.Environ()

	if spec.Window == WindowHidden {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	} else {
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}

	logger.Info("🚀 Launching", "path", spec.Path, "window", spec.Window.String(), "elevated", elevate)

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrLaunch, spec.Path, err)
	}

	if !elevate {
		// Detach; the child outlives this process.
		if err := cmd.Process.Release(); err != nil {
			logger.Debug("Process release failed", "error", err)
		}
		return nil
	}

	if err := cmd.Wait(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := exitErr.ExitCode()
			if broker != "" && isPkexec(broker) && (code == pkexecDismissed || code == pkexecNotAuthed) {
				return fmt.Errorf("%w: %s", ErrLaunchDeclined, spec.Path)
			}
			logger.Info("⏹️ Process exited", "code", code)
			return fmt.Errorf("%w: %s: exit code %d", ErrLaunch, spec.Path, code)
		}
		return fmt.Errorf("%w: %s: %v", ErrLaunch, spec.Path, err)
	}

	return nil
}

func isPkexec(broker string) bool {
	return filepath.Base(broker) == "pkexec"
}
