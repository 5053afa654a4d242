// Package installer turns a resolved release asset into an installed
// browser: downloading into the per-run temporary directory, running a
// platform installer or placing a self-contained binary atomically, and, on
// the source-build path, driving the dependency-install / configure / build
// / copy chain plus symlink and desktop-manifest integration.
package installer
