package installer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/oshokin/thorium-updater/internal/logger"
)

// RunCommand executes an external command in dir (empty means inherited),
// logging the invocation and surfacing captured output on failure. Any step
// failure on the build chain is fatal and aborts the run.
func RunCommand(ctx context.Context, dir string, name string, args ...string) error {
	logger.InfoKV(ctx, "Running command",
		"command", name, "args", strings.Join(args, " "), "dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s",
			name, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	logger.Debugf(ctx, "Command output: %s", strings.TrimSpace(string(output)))

	return nil
}
