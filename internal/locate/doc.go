// Package locate finds an existing browser installation on the host.
//
// The search is best-effort, first-match-wins: a structured lookup (registry
// or package database) is tried before a fixed list of well-known
// directories, which is tried before a bounded recursive filesystem walk.
// A candidate that exists but yields no readable version string is skipped,
// not fatal. Not finding anything is a normal outcome that maps to a fresh
// install.
package locate
