package process

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/oshokin/thorium-updater/internal/logger"
)

// Prober finds and terminates running browser processes before an update.
//
// Escalation is fixed: a graceful termination request to every match, a
// bounded poll for the list to clear, a forced kill for survivors, then a
// short grace period. A process that survives the forced kill is not
// specially handled; the install proceeds regardless.
type Prober struct {
	polls     int
	pollDelay time.Duration
	killGrace time.Duration
}

// NewProber returns a prober with the given poll bound, poll interval and
// post-kill grace period.
func NewProber(polls int, pollDelay, killGrace time.Duration) *Prober {
	return &Prober{
		polls:     polls,
		pollDelay: pollDelay,
		killGrace: killGrace,
	}
}

// TerminateByName asks every process whose name contains the target (case
// insensitively) to exit, escalating to a forced kill after the poll budget.
func (p *Prober) TerminateByName(ctx context.Context, target string) error {
	matches, err := findByName(ctx, target)
	if err != nil {
		return fmt.Errorf("list processes: %w", err)
	}

	if len(matches) == 0 {
		logger.InfoKV(ctx, "No running processes to terminate", "target", target)
		return nil
	}

	logger.InfoKV(ctx, "Requesting graceful termination",
		"target", target, "count", len(matches))

	for _, proc := range matches {
		if err := proc.TerminateWithContext(ctx); err != nil {
			logger.DebugKV(ctx, "Graceful termination request failed",
				"pid", proc.Pid, "error", err)
		}
	}

	// Poll for the process list to clear.
	for i := 0; i < p.polls; i++ {
		if err := sleepCtx(ctx, p.pollDelay); err != nil {
			return err
		}

		matches, err = findByName(ctx, target)
		if err != nil {
			return fmt.Errorf("list processes: %w", err)
		}

		if len(matches) == 0 {
			logger.Info(ctx, "All processes exited gracefully")
			return nil
		}
	}

	logger.WarnKV(ctx, "Forcing termination of remaining processes", "count", len(matches))

	for _, proc := range matches {
		if err := proc.KillWithContext(ctx); err != nil {
			logger.DebugKV(ctx, "Forced kill failed", "pid", proc.Pid, "error", err)
		}
	}

	return sleepCtx(ctx, p.killGrace)
}

// findByName lists processes whose executable name matches the target,
// excluding the updater itself.
func findByName(ctx context.Context, target string) ([]*process.Process, error) {
	all, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	self := int32(os.Getpid())

	var matches []*process.Process

	for _, proc := range all {
		if proc.Pid == self {
			continue
		}

		name, err := proc.NameWithContext(ctx)
		if err != nil {
			// Processes can vanish or deny access mid-scan.
			continue
		}

		if matchesTarget(name, target) {
			matches = append(matches, proc)
		}
	}

	return matches, nil
}

// matchesTarget reports whether a process name refers to the target product.
func matchesTarget(name, target string) bool {
	return strings.Contains(strings.ToLower(name), strings.ToLower(target))
}

// sleepCtx pauses for d unless the context is canceled first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
