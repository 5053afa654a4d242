package updater

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/oshokin/thorium-updater/internal/logger"
)

const (
	// markerFilename marks that the updater is running right now to avoid
	// parallel execution.
	markerFilename = "thorium-updater-marker.bin"

	// markerLifetime is the period after which a stale marker is ignored.
	markerLifetime = 30 * time.Minute

	// baseUpdaterExecutable is this binary's name without extension.
	baseUpdaterExecutable = "thorium-updater"
)

// errUpdaterAlreadyRunning guards against two concurrent runs racing the
// same installation.
var errUpdaterAlreadyRunning = errors.New("the updater is already running")

// markerPath returns the marker location in the system temp directory.
func markerPath() string {
	return filepath.Join(os.TempDir(), markerFilename)
}

// isUpdaterRunningNow checks presence of a marker file and attempts recovery
// if it looks stale.
func isUpdaterRunningNow(ctx context.Context) bool {
	fileInfo, err := os.Stat(markerPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false
		}

		logger.Infof(ctx, "Unable to read update marker: %v", err)

		return false
	}

	if time.Since(fileInfo.ModTime()) <= markerLifetime {
		return true
	}

	logger.Info(ctx, "The update marker is too old, attempting cleanup")

	if err = terminateProcessByName(updaterExecutable()); err != nil {
		return true
	}

	if err = os.Remove(markerPath()); err != nil {
		return true
	}

	return false
}

// terminateProcessByName kills processes with the provided executable name.
// Used only for stale-marker recovery; regular browser termination goes
// through the prober.
func terminateProcessByName(processName string) error {
	processList, err := ps.Processes()
	if err != nil {
		return err
	}

	thisProcessID := os.Getpid()

	for _, proc := range processList {
		if proc.Pid() == thisProcessID {
			continue
		}

		if proc.Executable() != processName {
			continue
		}

		var runningProcess *os.Process

		runningProcess, err = os.FindProcess(proc.Pid())
		if err != nil {
			return err
		}

		if err = runningProcess.Kill(); err != nil {
			return err
		}
	}

	return nil
}

// updaterExecutable returns this binary's platform-specific name.
func updaterExecutable() string {
	if strings.Contains(strings.ToLower(runtime.GOOS), "windows") {
		return baseUpdaterExecutable + ".exe"
	}

	return baseUpdaterExecutable
}
