// Package updater orchestrates one install-or-update run: single-instance
// guard, platform preparation, installation discovery, release resolution,
// version comparison, the confirmation prompt, browser process termination
// and the platform install, with an unconditional temporary-directory
// cleanup at the end.
package updater
