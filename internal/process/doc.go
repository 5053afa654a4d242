// Package process terminates running browser instances ahead of an update:
// graceful first, then a bounded poll, then a forced kill with a short grace
// period. Termination is best-effort; the update flow continues even when a
// process refuses to die.
//
// Matching is by executable name only, case insensitively. Window titles are
// not consulted: the process list exposes no portable title metadata, and a
// browser whose windows are renamed by page titles would not match reliably
// anyway. A renamed binary therefore escapes termination; the installer
// still proceeds.
package process
