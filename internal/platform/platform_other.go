//go:build !windows && !linux

package platform

import (
	"fmt"
	"runtime"
)

// ForHost selects the platform handler exactly once at startup.
func ForHost() (Handler, error) {
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedPlatform, runtime.GOOS)
}
