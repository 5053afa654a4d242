package locate

import "github.com/oshokin/thorium-updater/internal/cputier"

// Record describes the one installation considered current for this run.
// It is produced by Search, threaded explicitly through the update flow and
// never retained across runs.
type Record struct {
	// ExecutablePath is the filesystem path to the installed browser binary.
	ExecutablePath string
	// Version is the version string read from the installation.
	Version string
	// Tier is the capability tier the installed build was made for, when it
	// could be derived. Unknown is a valid value.
	Tier cputier.Tier
}
