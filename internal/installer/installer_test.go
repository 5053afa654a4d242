package installer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestDownloadFile fetches a file into the destination directory.
func TestDownloadFile(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("installer payload"))
	}))
	defer srv.Close()

	dir := t.TempDir()

	path, err := DownloadFile(context.Background(), srv.URL, dir, "thorium-avx2-installer.exe")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "thorium-avx2-installer.exe"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "installer payload", string(data))
}

// TestDownloadFileBadStatus treats non-200 responses as errors.
func TestDownloadFileBadStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := DownloadFile(context.Background(), srv.URL, t.TempDir(), "x")
	require.ErrorIs(t, err, errBadHTTPStatus)
}

// TestPlaceBinary replaces the target in place and clears the .old leftover.
func TestPlaceBinary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	src := filepath.Join(dir, "new-binary")
	require.NoError(t, os.WriteFile(src, []byte("new build"), 0o644))

	target := filepath.Join(dir, "bin", "thorium")
	require.NoError(t, os.MkdirAll(filepath.Dir(target), 0o755))
	require.NoError(t, os.WriteFile(target, []byte("old build"), 0o755))

	require.NoError(t, PlaceBinary(src, target))

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	require.Equal(t, "new build", string(data))

	_, err = os.Stat(target + ".old")
	require.True(t, os.IsNotExist(err))
}

// TestSymlink replaces an existing link target.
func TestSymlink(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")
	require.NoError(t, os.WriteFile(first, []byte("1"), 0o755))
	require.NoError(t, os.WriteFile(second, []byte("2"), 0o755))

	link := filepath.Join(dir, "bin", "thorium-browser")

	require.NoError(t, Symlink(first, link))
	require.NoError(t, Symlink(second, link))

	resolved, err := os.Readlink(link)
	require.NoError(t, err)
	require.Equal(t, second, resolved)
}

// TestDesktopEntry checks manifest rendering and writing.
func TestDesktopEntry(t *testing.T) {
	t.Parallel()

	entry := DesktopEntry("Thorium", "Chromium fork", "/usr/local/bin/thorium-browser")
	require.Contains(t, entry, "Name=Thorium")
	require.Contains(t, entry, "Exec=/usr/local/bin/thorium-browser %U")
	require.Contains(t, entry, "Categories=Network;WebBrowser;")

	path := filepath.Join(t.TempDir(), "applications", "thorium-browser.desktop")
	require.NoError(t, WriteDesktopEntry(path, entry))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, entry, string(data))
}

// TestDetectPackageManager checks the fixed priority order.
func TestDetectPackageManager(t *testing.T) {
	t.Parallel()

	lookPathFor := func(present ...string) func(string) (string, error) {
		set := make(map[string]struct{}, len(present))
		for _, p := range present {
			set[p] = struct{}{}
		}

		return func(name string) (string, error) {
			if _, ok := set[name]; ok {
				return "/usr/bin/" + name, nil
			}

			return "", errors.New("not found")
		}
	}

	// apt-get beats dnf when both are present.
	pm, err := DetectPackageManager(lookPathFor("dnf", "apt-get"))
	require.NoError(t, err)
	require.Equal(t, FamilyAPT, pm.Family)

	pm, err = DetectPackageManager(lookPathFor("pacman"))
	require.NoError(t, err)
	require.Equal(t, FamilyPacman, pm.Family)
	require.Equal(t, []string{"/usr/bin/pacman", "-S", "--noconfirm", "git"}, pm.InstallArgs("git"))

	_, err = DetectPackageManager(lookPathFor())
	require.ErrorIs(t, err, ErrNoPackageManager)
}
