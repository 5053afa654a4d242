//go:build windows

package platform

import (
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/windows"

	"github.com/oshokin/thorium-updater/internal/logger"
)

// Prepare ensures the process runs elevated. Installer and registry writes
// need administrative rights, so a non-elevated process relaunches itself
// through UAC and reports ErrElevationRequested, which callers treat as a
// successful exit.
func (h *windowsHandler) Prepare(ctx context.Context) error {
	if windows.GetCurrentProcessToken().IsElevated() {
		logger.Debug(ctx, "Process is already elevated")
		return nil
	}

	logger.Info(ctx, "Requesting elevation, a UAC prompt will appear")

	if err := relaunchElevated(); err != nil {
		return fmt.Errorf("relaunch elevated: %w", err)
	}

	return ErrElevationRequested
}

// relaunchElevated starts a copy of the current process with the "runas"
// verb, preserving command-line arguments.
func relaunchElevated() error {
	executable, err := os.Executable()
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	verbPtr, err := windows.UTF16PtrFromString("runas")
	if err != nil {
		return err
	}

	exePtr, err := windows.UTF16PtrFromString(executable)
	if err != nil {
		return err
	}

	argsPtr, err := windows.UTF16PtrFromString(strings.Join(os.Args[1:], " "))
	if err != nil {
		return err
	}

	cwdPtr, err := windows.UTF16PtrFromString(cwd)
	if err != nil {
		return err
	}

	return windows.ShellExecute(0, verbPtr, exePtr, argsPtr, cwdPtr, windows.SW_NORMAL)
}
