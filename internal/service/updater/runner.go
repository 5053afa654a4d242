package updater

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oshokin/thorium-updater/internal/config"
	"github.com/oshokin/thorium-updater/internal/cputier"
	"github.com/oshokin/thorium-updater/internal/locate"
	"github.com/oshokin/thorium-updater/internal/logger"
	"github.com/oshokin/thorium-updater/internal/platform"
	"github.com/oshokin/thorium-updater/internal/process"
	"github.com/oshokin/thorium-updater/internal/release"
)

// Options are inputs accepted by the updater entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// AssumeYes skips the confirmation prompt.
	AssumeYes bool
}

// runner holds the collaborators for a single update execution.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg     *config.Config
	handler platform.Handler
	prober  *process.Prober
	feed    *release.Client

	// workDir is the per-run temporary directory, removed unconditionally.
	workDir string

	assumeYes bool
	confirm   func(question string) (bool, error)
	// detectHostTier classifies the host CPU; injectable for tests.
	detectHostTier func(ctx context.Context) (cputier.Tier, error)
}

// Run executes one install-or-update flow and is the public entry point for
// the CLI. A user decline is a normal, successful outcome.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "thorium-updater")

	if isUpdaterRunningNow(ctx) {
		return errUpdaterAlreadyRunning
	}

	r, err := newRunner(opts)
	if err != nil {
		return err
	}

	// Prepare runs before the marker is written: on Windows it may relaunch
	// this binary elevated, and the child must not find a live marker.
	if err = r.handler.Prepare(ctx); err != nil {
		if errors.Is(err, platform.ErrElevationRequested) {
			logger.Info(ctx, "Handed over to the elevated instance")
			return nil
		}

		return err
	}

	updateMarker, err := os.Create(markerPath())
	if err != nil {
		return err
	}

	if err = updateMarker.Close(); err != nil {
		return err
	}

	defer r.cleanup(ctx)

	if err = r.run(ctx); err != nil {
		return err
	}

	logger.Info(ctx, "Updater completed")

	return nil
}

// newRunner loads configuration and wires the collaborators.
func newRunner(opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	handler, err := platform.ForHost()
	if err != nil {
		return nil, err
	}

	return &runner{
		cfg:            cfg,
		handler:        handler,
		prober:         process.NewProber(cfg.TerminatePolls, cfg.TerminatePollDelay, cfg.KillGrace),
		feed:           release.NewClient(cfg.FeedURL, cfg.Timeout, cfg.RetryAttempts, cfg.RetryDelay),
		assumeYes:      opts.AssumeYes,
		confirm:        confirmOnStdin,
		detectHostTier: cputier.DetectHost,
	}, nil
}

// run executes the fixed flow:
//  1. Locate an existing installation.
//  2. Fetch the newest release.
//  3. Fresh install or update, each gated by one confirmation.
func (r *runner) run(ctx context.Context) error {
	workDir, err := os.MkdirTemp("", "thorium-updater-")
	if err != nil {
		return fmt.Errorf("create temporary directory: %w", err)
	}

	r.workDir = workDir

	logger.InfoKV(ctx, "Looking for an existing installation",
		"product", r.cfg.ProductName)

	current, err := r.handler.Locate(ctx, r.cfg)

	switch {
	case err == nil:
		return r.update(ctx, current)
	case errors.Is(err, locate.ErrNotFound):
		logger.Info(ctx, "No installation found, performing a fresh install")
		return r.freshInstall(ctx)
	default:
		return fmt.Errorf("locate installation: %w", err)
	}
}

// freshInstall selects the highest tier the host supports and installs the
// newest release. No processes are terminated: nothing is running yet.
func (r *runner) freshInstall(ctx context.Context) error {
	tier, err := r.detectHostTier(ctx)
	if err != nil {
		return fmt.Errorf("detect CPU capability: %w", err)
	}

	logger.InfoKV(ctx, "Detected CPU capability tier", "tier", tier.String())

	latest, err := r.feed.Latest(ctx)
	if err != nil {
		return err
	}

	ok, err := r.confirmAction(fmt.Sprintf("Install %s %s (%s build)?",
		r.cfg.ProductName, latest.TagName, tier))
	if err != nil {
		return err
	}

	if !ok {
		logger.Info(ctx, "Installation declined")
		return nil
	}

	return r.install(ctx, latest, tier, nil)
}

// update compares the found installation against the newest release and
// installs it if the local version is older.
func (r *runner) update(ctx context.Context, current *locate.Record) error {
	latest, err := r.feed.Latest(ctx)
	if err != nil {
		return err
	}

	if release.AtLeast(current.Version, latest.TagName) {
		logger.InfoKV(ctx, "Installation is up to date",
			"version", current.Version, "latest", latest.TagName)

		return nil
	}

	logger.InfoKV(ctx, "Update available",
		"installed", current.Version, "latest", latest.TagName)

	tier := r.tierForUpdate(ctx, current)

	ok, err := r.confirmAction(fmt.Sprintf("Update %s %s -> %s (%s build)?",
		r.cfg.ProductName, current.Version, latest.TagName, tier))
	if err != nil {
		return err
	}

	if !ok {
		logger.Info(ctx, "Update declined")
		return nil
	}

	logger.InfoKV(ctx, "Closing running browser processes", "product", r.cfg.ProductName)

	// Best effort: the installer proceeds even if something survived.
	if err := r.prober.TerminateByName(ctx, r.cfg.ProductName); err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}

		logger.WarnKV(ctx, "Process termination incomplete", "error", err)
	}

	return r.install(ctx, latest, tier, current)
}

// tierForUpdate keeps the installed build's tier when it can be derived from
// the binary itself, falling back to host detection. Sticking to the
// installed tier avoids surprising a user who deliberately runs a lower
// tier.
func (r *runner) tierForUpdate(ctx context.Context, current *locate.Record) cputier.Tier {
	if current.Tier != cputier.Unknown {
		return current.Tier
	}

	if tier, err := cputier.DetectFromBinary(current.ExecutablePath); err == nil {
		logger.DebugKV(ctx, "Derived tier from installed binary", "tier", tier.String())
		return tier
	}

	if tier, err := r.detectHostTier(ctx); err == nil {
		return tier
	}

	// The update path has a working installation, so the lowest tier is a
	// safe final fallback.
	return cputier.SSE3
}

// install hands over to the platform handler.
func (r *runner) install(
	ctx context.Context,
	latest *release.Release,
	tier cputier.Tier,
	current *locate.Record,
) error {
	req := &platform.InstallRequest{
		Release: latest,
		Tier:    tier,
		WorkDir: r.workDir,
		Current: current,
	}

	if err := r.handler.Install(ctx, r.cfg, req); err != nil {
		return fmt.Errorf("install %s: %w", latest.TagName, err)
	}

	logger.InfoKV(ctx, "Installation finished", "version", latest.TagName)

	return nil
}

// confirmAction applies the --yes override before prompting.
func (r *runner) confirmAction(question string) (bool, error) {
	if r.assumeYes {
		return true, nil
	}

	return r.confirm(question)
}

// cleanup removes the temporary directory and the running marker. It runs
// on every terminal outcome: success, decline, fatal error or interrupt.
func (r *runner) cleanup(ctx context.Context) {
	if r.workDir != "" {
		if _, err := os.Stat(r.workDir); err == nil {
			_ = os.RemoveAll(r.workDir)
		}
	}

	removeMarker(ctx)

	logger.Info(ctx, "The updater has been stopped")
}

// removeMarker deletes the single-instance marker if present.
func removeMarker(_ context.Context) {
	if _, err := os.Stat(markerPath()); err == nil {
		_ = os.Remove(markerPath())
	}
}
