//go:build linux

package platform

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/installer"
	"github.com/oshokin/thorium-updater/internal/locate"
	"github.com/oshokin/thorium-updater/internal/logger"
	"github.com/oshokin/thorium-updater/internal/release"
)

const (
	// defaultInstallRoot is where built or placed browser files live.
	defaultInstallRoot = "/opt/thorium"

	// linkPath is the system-wide binary symlink.
	linkPath = "/usr/local/bin/thorium-browser"

	// desktopEntryPath is the desktop-integration manifest location.
	desktopEntryPath = "/usr/share/applications/thorium-browser.desktop"

	// appImageName is the placed self-contained binary's file name.
	appImageName = "thorium.AppImage"
)

// executableNames are the file names that count as the browser binary.
//
//nolint:gochecknoglobals // Fixed probe list, effectively a constant.
var executableNames = []string{"thorium", "thorium-browser", appImageName}

// requiredTools must be present before any install path is attempted.
//
//nolint:gochecknoglobals // Fixed probe list, effectively a constant.
var requiredTools = []string{"tar", "make", "cp"}

// errMissingTool is returned when a required command-line tool is absent.
var errMissingTool = errors.New("required tool not found")

// linuxHandler installs either a published AppImage asset or, when the
// release ships none for the tier, a from-source build.
type linuxHandler struct{}

// Kind identifies the handler.
func (h *linuxHandler) Kind() Kind {
	return KindLinux
}

// Prepare checks the external command-line tools the install paths rely on.
func (h *linuxHandler) Prepare(ctx context.Context) error {
	for _, tool := range requiredTools {
		if _, err := exec.LookPath(tool); err != nil {
			return fmt.Errorf("%w: %s", errMissingTool, tool)
		}
	}

	logger.Debug(ctx, "All required tools are present")

	return nil
}

// Locate probes PATH first (the package-database equivalent on this
// platform), then the well-known directories, then a bounded walk of /opt.
func (h *linuxHandler) Locate(ctx context.Context, cfg *config.Config) (*locate.Record, error) {
	record, err := locate.Search(ctx, locate.Options{
		ExecutableNames: executableNames,
		CandidateDirs:   []string{h.installRoot(cfg), "/usr/local/bin", "/usr/bin"},
		WalkRoots:       []string{"/opt"},
		WalkDepth:       3,
		StructuredLookup: func(context.Context) ([]string, error) {
			var found []string

			for _, name := range executableNames {
				if path, err := exec.LookPath(name); err == nil {
					found = append(found, path)
				}
			}

			return found, nil
		},
		ProbeVersion: locate.VersionFromCommand,
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// Install prefers a published self-contained binary for the tier and falls
// back to the source build when the release ships none.
func (h *linuxHandler) Install(ctx context.Context, cfg *config.Config, req *InstallRequest) error {
	asset, err := release.AssetForTier(req.Release, req.Tier, ".appimage")

	switch {
	case err == nil:
		return h.installAppImage(ctx, cfg, req, asset)
	case errors.Is(err, release.ErrNoMatchingAsset):
		logger.InfoKV(ctx, "No packaged asset for tier, building from source",
			"tier", req.Tier.String())

		return h.installFromSource(ctx, cfg, req)
	default:
		return err
	}
}

// installAppImage downloads the packaged binary and places it atomically.
func (h *linuxHandler) installAppImage(
	ctx context.Context,
	cfg *config.Config,
	req *InstallRequest,
	asset *release.Asset,
) error {
	downloaded, err := installer.DownloadFile(ctx, asset.BrowserDownloadURL, req.WorkDir, asset.Name)
	if err != nil {
		return fmt.Errorf("download asset: %w", err)
	}

	target := filepath.Join(h.installRoot(cfg), appImageName)
	if err := installer.PlaceBinary(downloaded, target); err != nil {
		return fmt.Errorf("place binary: %w", err)
	}

	if err := installer.Symlink(target, linkPath); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}

	entry := installer.DesktopEntry(cfg.ProductName, "Chromium fork for speed-optimized builds", linkPath)
	if err := installer.WriteDesktopEntry(desktopEntryPath, entry); err != nil {
		return fmt.Errorf("write desktop entry: %w", err)
	}

	logger.InfoKV(ctx, "Installed packaged binary", "path", target)

	return nil
}

// installFromSource compiles the exact release tag for the tier.
func (h *linuxHandler) installFromSource(ctx context.Context, cfg *config.Config, req *InstallRequest) error {
	pm, err := installer.DetectPackageManager(nil)
	if err != nil {
		return err
	}

	installedPath, err := installer.BuildFromSource(ctx, pm, installer.BuildOptions{
		SourceURL:        sourceArchiveURL(req.Release.TagName),
		Tier:             req.Tier,
		WorkDir:          req.WorkDir,
		InstallRoot:      h.installRoot(cfg),
		BinaryName:       "thorium",
		LinkPath:         linkPath,
		DesktopEntryPath: desktopEntryPath,
		ProductName:      cfg.ProductName,
		Comment:          "Chromium fork for speed-optimized builds",
	})
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Installed from source", "path", installedPath)

	return nil
}

// Uninstall removes the install root, the symlink and the desktop manifest.
// A missing installation is not an error.
func (h *linuxHandler) Uninstall(ctx context.Context, cfg *config.Config) error {
	for _, path := range []string{linkPath, desktopEntryPath} {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	root := h.installRoot(cfg)
	if err := os.RemoveAll(root); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Removed previous installation", "install_root", root)

	return nil
}

// installRoot honors the configured override.
func (h *linuxHandler) installRoot(cfg *config.Config) string {
	if cfg.InstallRoot != "" {
		return cfg.InstallRoot
	}

	return defaultInstallRoot
}
