package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/cputier"
	"github.com/oshokin/thorium-updater/internal/locate"
	"github.com/oshokin/thorium-updater/internal/platform"
	"github.com/oshokin/thorium-updater/internal/process"
	"github.com/oshokin/thorium-updater/internal/release"
)

// fakeHandler satisfies platform.Handler and records install calls.
type fakeHandler struct {
	record      *locate.Record
	locateErr   error
	installed   []*platform.InstallRequest
	uninstalled int
}

func (f *fakeHandler) Kind() platform.Kind { return platform.KindLinux }

func (f *fakeHandler) Prepare(context.Context) error { return nil }

func (f *fakeHandler) Locate(context.Context, *config.Config) (*locate.Record, error) {
	if f.locateErr != nil {
		return nil, f.locateErr
	}

	return f.record, nil
}

func (f *fakeHandler) Install(_ context.Context, _ *config.Config, req *platform.InstallRequest) error {
	f.installed = append(f.installed, req)
	return nil
}

func (f *fakeHandler) Uninstall(context.Context, *config.Config) error {
	f.uninstalled++
	return nil
}

// feedServer serves a single-release feed with the given tag.
func feedServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[{"tag_name":"` + tag + `","published_at":"2024-10-01T00:00:00Z",
			"assets":[{"name":"thorium-avx2-installer.exe","browser_download_url":"https://dl.local/a"}]}]`))
	}))

	t.Cleanup(srv.Close)

	return srv
}

// testRunner wires a runner with short timings and no real prompts.
func testRunner(t *testing.T, handler *fakeHandler, feedURL string) *runner {
	t.Helper()

	cfg := config.Default()
	// A name that matches no real process keeps the prober instant.
	cfg.ProductName = "no-such-product-zzz"

	return &runner{
		cfg:     cfg,
		handler: handler,
		prober:  process.NewProber(1, time.Millisecond, time.Millisecond),
		feed:    release.NewClient(feedURL, time.Second, 1, time.Millisecond),
		confirm: func(string) (bool, error) { return true, nil },
		detectHostTier: func(context.Context) (cputier.Tier, error) {
			return cputier.AVX2, nil
		},
	}
}

// TestRunFreshInstall goes straight to the fresh-install branch when nothing
// is found, using the host tier.
func TestRunFreshInstall(t *testing.T) {
	srv := feedServer(t, "M130.0.6723.0")
	handler := &fakeHandler{locateErr: locate.ErrNotFound}

	r := testRunner(t, handler, srv.URL)
	r.assumeYes = true

	require.NoError(t, r.run(context.Background()))
	require.Len(t, handler.installed, 1)
	require.Equal(t, cputier.AVX2, handler.installed[0].Tier)
	require.Nil(t, handler.installed[0].Current)

	workDir := r.workDir
	require.DirExists(t, workDir)

	r.cleanup(context.Background())

	_, err := os.Stat(workDir)
	require.True(t, os.IsNotExist(err))
}

// TestRunUpToDate suppresses the update when the installed version is at
// least as new as the feed's.
func TestRunUpToDate(t *testing.T) {
	srv := feedServer(t, "M130.0.6723.0")
	handler := &fakeHandler{record: &locate.Record{
		ExecutablePath: "/opt/thorium/thorium",
		Version:        "130.0.6723.0",
	}}

	r := testRunner(t, handler, srv.URL)
	defer r.cleanup(context.Background())

	require.NoError(t, r.run(context.Background()))
	require.Empty(t, handler.installed)
}

// TestRunUpdate installs the newer release, deriving the tier from the
// installed binary.
func TestRunUpdate(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "thorium")
	require.NoError(t, os.WriteFile(exe, []byte("built for sse4 hosts"), 0o755))

	srv := feedServer(t, "M130.0.6723.0")
	handler := &fakeHandler{record: &locate.Record{
		ExecutablePath: exe,
		Version:        "129.0.6668.0",
	}}

	r := testRunner(t, handler, srv.URL)
	defer r.cleanup(context.Background())

	require.NoError(t, r.run(context.Background()))
	require.Len(t, handler.installed, 1)
	require.Equal(t, cputier.SSE4, handler.installed[0].Tier)
	require.NotNil(t, handler.installed[0].Current)
}

// TestRunDecline treats an explicit "no" as a normal, successful outcome.
func TestRunDecline(t *testing.T) {
	srv := feedServer(t, "M130.0.6723.0")
	handler := &fakeHandler{record: &locate.Record{
		ExecutablePath: "/opt/thorium/thorium",
		Version:        "129.0.6668.0",
	}}

	r := testRunner(t, handler, srv.URL)
	r.confirm = func(string) (bool, error) { return false, nil }

	defer r.cleanup(context.Background())

	require.NoError(t, r.run(context.Background()))
	require.Empty(t, handler.installed)
}

// TestRunFeedFailure surfaces an exhausted retry budget as a fatal error and
// still cleans up the work directory.
func TestRunFeedFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)

	handler := &fakeHandler{locateErr: locate.ErrNotFound}

	r := testRunner(t, handler, srv.URL)
	r.assumeYes = true

	err := r.run(context.Background())
	require.Error(t, err)
	require.Empty(t, handler.installed)

	workDir := r.workDir
	r.cleanup(context.Background())

	_, statErr := os.Stat(workDir)
	require.True(t, os.IsNotExist(statErr))
}
