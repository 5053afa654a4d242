// Package platform selects and implements the per-OS install strategy.
//
// Platform variance is a closed tagged-variant dispatch: ForHost picks one
// Handler at startup, and every handler implements the same capability set
// (Prepare, Locate, Install, Uninstall). Windows runs the published per-tier
// installer executable and consults the registry; Linux places a packaged
// self-contained binary or falls back to building the exact release tag from
// source.
package platform
