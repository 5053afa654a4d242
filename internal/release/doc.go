// Package release talks to the release feed and decides what to install.
//
// It fetches the newest published release with a bounded retry policy,
// selects the asset matching a detected CPU capability tier, and compares
// version strings after normalizing distribution-specific tag markers.
package release
