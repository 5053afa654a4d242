package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/cputier"
	"github.com/oshokin/thorium-updater/internal/locate"
	"github.com/oshokin/thorium-updater/internal/release"
)

// Kind enumerates the supported platform handlers. The handler is selected
// exactly once at startup; no call site branches on OS strings afterwards.
type Kind int

// Supported platforms.
const (
	KindUnknown Kind = iota
	KindWindows
	KindLinux
)

var (
	// ErrUnsupportedPlatform means no handler exists for the host OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")

	// ErrElevationRequested means the updater relaunched itself with
	// elevated rights; the current process should exit successfully.
	ErrElevationRequested = errors.New("elevated instance launched")

	// errVersionDirNotFound means no version-named directory sits next to
	// the executable.
	errVersionDirNotFound = errors.New("no version directory next to executable")
)

// String returns a human-readable platform name.
func (k Kind) String() string {
	switch k {
	case KindWindows:
		return "windows"
	case KindLinux:
		return "linux"
	default:
		return "unknown"
	}
}

// InstallRequest carries everything a handler needs for one install or
// update.
type InstallRequest struct {
	// Release is the resolved newest release.
	Release *release.Release
	// Tier is the capability tier to install for.
	Tier cputier.Tier
	// WorkDir is the per-run temporary directory for downloads and builds.
	WorkDir string
	// Current is the installation being replaced, nil on fresh installs.
	Current *locate.Record
}

// Handler is the closed capability set each platform implements. One
// implementation is chosen by ForHost at startup.
type Handler interface {
	// Kind identifies the handler.
	Kind() Kind
	// Prepare verifies the execution context up front: elevation on
	// Windows (returning ErrElevationRequested after relaunching),
	// required command-line tools on Linux.
	Prepare(ctx context.Context) error
	// Locate finds an existing installation, or locate.ErrNotFound.
	Locate(ctx context.Context, cfg *config.Config) (*locate.Record, error)
	// Install downloads the matching asset (or source archive) and
	// produces an installation reachable via Locate. It removes a prior
	// installation first where the platform installer expects that.
	Install(ctx context.Context, cfg *config.Config, req *InstallRequest) error
	// Uninstall removes an existing installation. A missing installation
	// is not an error.
	Uninstall(ctx context.Context, cfg *config.Config) error
}

// versionDirPattern matches Chromium-style version-named directories that
// installers place next to the browser executable.
var versionDirPattern = regexp.MustCompile(`^(\d+\.){2,}\d+$`)

// versionFromSiblingDir reads the installed version from a version-named
// directory next to the executable, the layout Chromium-family installers
// produce on platforms where the binary cannot be asked directly.
func versionFromSiblingDir(executablePath string) (string, error) {
	entries, err := os.ReadDir(filepath.Dir(executablePath))
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() && versionDirPattern.MatchString(entry.Name()) {
			return entry.Name(), nil
		}
	}

	return "", errVersionDirNotFound
}

// sourceArchiveURL builds the source tarball URL for an exact version tag.
func sourceArchiveURL(tag string) string {
	return fmt.Sprintf("https://github.com/Alex313031/thorium/archive/refs/tags/%s.tar.gz", tag)
}

// containsFold reports whether s contains substr, ignoring case.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
