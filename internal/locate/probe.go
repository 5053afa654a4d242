package locate

import (
	"context"
	"errors"
	"os/exec"
	"regexp"
	"time"
)

// versionPattern extracts a dotted numeric version from arbitrary output,
// e.g. "Thorium 130.0.6723.0" -> "130.0.6723.0".
var versionPattern = regexp.MustCompile(`(\d+\.){2,}\d+`)

// errNoVersionInOutput means the executable ran but printed nothing that
// looks like a version.
var errNoVersionInOutput = errors.New("no version in output")

// probeTimeout bounds a single --version invocation.
const probeTimeout = 10 * time.Second

// VersionFromCommand runs `path --version` and extracts a dotted version
// string from its output. This is the default probe on platforms where the
// browser binary reports its own version.
func VersionFromCommand(ctx context.Context, path string) (string, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	output, err := exec.CommandContext(cmdCtx, path, "--version").Output()
	if err != nil {
		return "", err
	}

	ver := versionPattern.FindString(string(output))
	if ver == "" {
		return "", errNoVersionInOutput
	}

	return ver, nil
}
