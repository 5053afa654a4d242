package installer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/oshokin/thorium-updater/internal/cputier"
	"github.com/oshokin/thorium-updater/internal/logger"
)

// errNoSourceTree is returned when the extracted archive contains no
// directory to build in.
var errNoSourceTree = errors.New("extracted archive contains no source tree")

// BuildOptions drives one source-build installation.
type BuildOptions struct {
	// SourceURL is the source archive for the exact version tag.
	SourceURL string
	// Tier selects the capability-specific configure flag.
	Tier cputier.Tier
	// WorkDir is the per-run temporary directory. Download, extraction and
	// compilation all happen underneath it.
	WorkDir string
	// InstallRoot is the fixed system location the build output is copied
	// to, e.g. /opt/thorium.
	InstallRoot string
	// BinaryName is the executable name inside the build output.
	BinaryName string
	// LinkPath is the system-wide binary symlink, e.g.
	// /usr/local/bin/thorium-browser.
	LinkPath string
	// DesktopEntryPath is the desktop-integration manifest location.
	DesktopEntryPath string
	// ProductName and Comment feed the desktop manifest.
	ProductName string
	Comment     string
}

// BuildFromSource compiles the browser from a source archive and installs
// the result: install build dependencies, download and extract the archive,
// configure with the tier flag, build, copy the output into the install
// root, then wire up the symlink and desktop manifest.
//
// Every step failure aborts immediately. Partial build artifacts stay inside
// WorkDir, which the caller removes on exit; nothing else is rolled back.
func BuildFromSource(ctx context.Context, pm *PackageManager, opts BuildOptions) (string, error) {
	logger.InfoKV(ctx, "Installing build dependencies", "package_manager", pm.Family.String())

	installCmd := pm.InstallArgs(pm.BuildDependencies()...)
	if err := RunCommand(ctx, "", installCmd[0], installCmd[1:]...); err != nil {
		return "", fmt.Errorf("install build dependencies: %w", err)
	}

	logger.InfoKV(ctx, "Downloading source archive", "url", opts.SourceURL)

	archivePath, err := DownloadFile(ctx, opts.SourceURL, opts.WorkDir, "thorium-src.tar.gz")
	if err != nil {
		return "", fmt.Errorf("download source archive: %w", err)
	}

	srcDir := filepath.Join(opts.WorkDir, "src")
	if err := os.MkdirAll(srcDir, DefaultBinaryMode); err != nil {
		return "", err
	}

	if err := RunCommand(ctx, "", "tar", "-xzf", archivePath, "-C", srcDir); err != nil {
		return "", fmt.Errorf("extract source archive: %w", err)
	}

	treeDir, err := findSourceTree(srcDir)
	if err != nil {
		return "", err
	}

	logger.InfoKV(ctx, "Configuring build", "tier", opts.Tier.String())

	tierFlag := "--with-cpu-tier=" + opts.Tier.String()
	if err := RunCommand(ctx, treeDir, "./configure", tierFlag); err != nil {
		return "", fmt.Errorf("configure: %w", err)
	}

	// This is the long-running part; expect hours on modest hardware.
	logger.Info(ctx, "Building from source, this can take a very long time")

	jobs := strconv.Itoa(runtime.NumCPU())
	if err := RunCommand(ctx, treeDir, "make", "-j", jobs); err != nil {
		return "", fmt.Errorf("build: %w", err)
	}

	logger.InfoKV(ctx, "Copying build output", "install_root", opts.InstallRoot)

	if err := os.MkdirAll(opts.InstallRoot, DefaultBinaryMode); err != nil {
		return "", err
	}

	outDir := filepath.Join(treeDir, "out", "Release")
	if err := RunCommand(ctx, "", "cp", "-a", outDir+string(filepath.Separator)+".", opts.InstallRoot); err != nil {
		return "", fmt.Errorf("copy build output: %w", err)
	}

	installedPath := filepath.Join(opts.InstallRoot, opts.BinaryName)

	if err := Symlink(installedPath, opts.LinkPath); err != nil {
		return "", fmt.Errorf("create symlink: %w", err)
	}

	entry := DesktopEntry(opts.ProductName, opts.Comment, opts.LinkPath)
	if err := WriteDesktopEntry(opts.DesktopEntryPath, entry); err != nil {
		return "", fmt.Errorf("write desktop entry: %w", err)
	}

	return installedPath, nil
}

// findSourceTree returns the single top-level directory the archive
// extracted to.
func findSourceTree(srcDir string) (string, error) {
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		return "", err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			return filepath.Join(srcDir, entry.Name()), nil
		}
	}

	return "", errNoSourceTree
}
