//go:build windows

package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/windows/registry"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/installer"
	"github.com/oshokin/thorium-updater/internal/locate"
	"github.com/oshokin/thorium-updater/internal/logger"
	"github.com/oshokin/thorium-updater/internal/release"
)

// executableName is the browser binary on this platform.
const executableName = "thorium.exe"

// uninstallEntry is one matching row from the uninstall registry view.
type uninstallEntry struct {
	displayName     string
	installLocation string
	uninstallString string
}

// uninstallRoot is one registry view the uninstall database lives under.
type uninstallRoot struct {
	key  registry.Key
	path string
}

// uninstallRoots covers the 64-bit, 32-bit and per-user uninstall views.
//
//nolint:gochecknoglobals // Fixed probe list, effectively a constant.
var uninstallRoots = []uninstallRoot{
	{registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.LOCAL_MACHINE, `SOFTWARE\WOW6432Node\Microsoft\Windows\CurrentVersion\Uninstall`},
	{registry.CURRENT_USER, `SOFTWARE\Microsoft\Windows\CurrentVersion\Uninstall`},
}

// windowsHandler installs the per-tier self-contained installer executable.
type windowsHandler struct {
	// removePrior and runInstaller are swapped in tests; nil means the real
	// registry-backed uninstall and synchronous installer run.
	removePrior  func(ctx context.Context, cfg *config.Config) error
	runInstaller func(ctx context.Context, path string) error
}

// Kind identifies the handler.
func (h *windowsHandler) Kind() Kind {
	return KindWindows
}

// Locate checks the registry first (App Paths and uninstall entries), then
// the well-known Chromium-style install directories, then a bounded walk.
func (h *windowsHandler) Locate(ctx context.Context, cfg *config.Config) (*locate.Record, error) {
	record, err := locate.Search(ctx, locate.Options{
		ExecutableNames: []string{executableName},
		CandidateDirs:   h.candidateDirs(cfg),
		WalkRoots: []string{
			os.Getenv("ProgramFiles"),
			filepath.Join(os.Getenv("LOCALAPPDATA"), "Thorium"),
		},
		WalkDepth: 4,
		StructuredLookup: func(_ context.Context) ([]string, error) {
			return h.registryCandidates(cfg), nil
		},
		ProbeVersion: func(_ context.Context, path string) (string, error) {
			// Chromium-family binaries do not answer --version here;
			// the installer leaves a version-named directory instead.
			return versionFromSiblingDir(path)
		},
	})
	if err != nil {
		return nil, err
	}

	return record, nil
}

// candidateDirs lists the well-known install directories.
func (h *windowsHandler) candidateDirs(cfg *config.Config) []string {
	dirs := []string{
		filepath.Join(os.Getenv("LOCALAPPDATA"), "Thorium", "Application"),
		filepath.Join(os.Getenv("ProgramFiles"), "Thorium", "Application"),
		filepath.Join(os.Getenv("ProgramFiles(x86)"), "Thorium", "Application"),
	}

	if cfg.InstallRoot != "" {
		dirs = append([]string{cfg.InstallRoot}, dirs...)
	}

	return dirs
}

// registryCandidates collects executable paths from the App Paths key and
// the uninstall database. Absence of any key is a normal outcome.
func (h *windowsHandler) registryCandidates(cfg *config.Config) []string {
	var candidates []string

	appPathsKey := `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\` + executableName
	if k, err := registry.OpenKey(registry.LOCAL_MACHINE, appPathsKey, registry.READ); err == nil {
		if value, _, err := k.GetStringValue(""); err == nil && value != "" {
			candidates = append(candidates, value)
		}

		_ = k.Close()
	}

	for _, entry := range h.uninstallEntries(cfg.ProductName) {
		if entry.installLocation != "" {
			candidates = append(candidates, filepath.Join(entry.installLocation, executableName))
		}
	}

	return candidates
}

// uninstallEntries enumerates uninstall database rows whose display name
// contains the product name.
func (h *windowsHandler) uninstallEntries(productName string) []uninstallEntry {
	var entries []uninstallEntry

	for _, root := range uninstallRoots {
		k, err := registry.OpenKey(root.key, root.path, registry.READ|registry.ENUMERATE_SUB_KEYS)
		if err != nil {
			continue
		}

		names, err := k.ReadSubKeyNames(-1)
		if err != nil {
			_ = k.Close()
			continue
		}

		for _, name := range names {
			sub, err := registry.OpenKey(root.key, root.path+`\`+name, registry.READ)
			if err != nil {
				continue
			}

			displayName, _, err := sub.GetStringValue("DisplayName")
			if err == nil && containsFold(displayName, productName) {
				entry := uninstallEntry{displayName: displayName}
				entry.installLocation, _, _ = sub.GetStringValue("InstallLocation")

				if quiet, _, err := sub.GetStringValue("QuietUninstallString"); err == nil && quiet != "" {
					entry.uninstallString = quiet
				} else {
					entry.uninstallString, _, _ = sub.GetStringValue("UninstallString")
				}

				entries = append(entries, entry)
			}

			_ = sub.Close()
		}

		_ = k.Close()
	}

	return entries
}

// Install downloads the per-tier installer first, removes any prior
// installation the uninstall database knows about, then runs the installer
// synchronously. The download comes first so a failed transfer leaves the
// existing browser untouched.
func (h *windowsHandler) Install(ctx context.Context, cfg *config.Config, req *InstallRequest) error {
	asset, err := release.AssetForTier(req.Release, req.Tier, ".exe")
	if err != nil {
		return err
	}

	downloaded, err := installer.DownloadFile(ctx, asset.BrowserDownloadURL, req.WorkDir, asset.Name)
	if err != nil {
		return fmt.Errorf("download installer: %w", err)
	}

	// A missing prior installation is not an error.
	if err := h.uninstallPrior(ctx, cfg); err != nil {
		return fmt.Errorf("uninstall previous version: %w", err)
	}

	logger.InfoKV(ctx, "Running installer", "path", downloaded)

	if err := h.launchInstaller(ctx, downloaded); err != nil {
		return fmt.Errorf("run installer: %w", err)
	}

	return nil
}

// uninstallPrior dispatches to the test override when set.
func (h *windowsHandler) uninstallPrior(ctx context.Context, cfg *config.Config) error {
	if h.removePrior != nil {
		return h.removePrior(ctx, cfg)
	}

	return h.Uninstall(ctx, cfg)
}

// launchInstaller dispatches to the test override when set.
func (h *windowsHandler) launchInstaller(ctx context.Context, path string) error {
	if h.runInstaller != nil {
		return h.runInstaller(ctx, path)
	}

	return installer.RunCommand(ctx, "", path)
}

// Uninstall runs the registered uninstaller for every uninstall entry whose
// display name matches the product. No matching entry means nothing to do.
func (h *windowsHandler) Uninstall(ctx context.Context, cfg *config.Config) error {
	entries := h.uninstallEntries(cfg.ProductName)
	if len(entries) == 0 {
		logger.Debug(ctx, "No uninstall entries found")
		return nil
	}

	for _, entry := range entries {
		if entry.uninstallString == "" {
			continue
		}

		logger.InfoKV(ctx, "Uninstalling previous version", "display_name", entry.displayName)

		if err := installer.RunCommand(ctx, "", "cmd.exe", "/C", entry.uninstallString); err != nil {
			return err
		}
	}

	return nil
}
