package locate

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/oshokin/thorium-updater/internal/logger"
)

// ErrNotFound means no usable installation exists anywhere we looked.
// It is a normal outcome, interpreted as "perform fresh install".
var ErrNotFound = errors.New("no installation found")

// Options drives one best-effort installation search.
//
// Candidates are probed in a fixed precedence order: the structured lookup
// (registry or package database) first, then the well-known directories,
// then a bounded recursive walk. The first candidate that exists and yields
// a readable version string wins.
type Options struct {
	// ExecutableNames are the exact file names that count as the browser
	// binary, e.g. {"thorium.exe"} or {"thorium", "thorium-browser"}.
	ExecutableNames []string
	// CandidateDirs are well-known install directories probed directly.
	CandidateDirs []string
	// WalkRoots are starting points for the recursive filesystem walk.
	WalkRoots []string
	// WalkDepth bounds the walk below each root; 0 means unlimited.
	WalkDepth int
	// StructuredLookup queries a registry-equivalent store for candidate
	// executable paths. It runs before any filesystem probing. May be nil.
	StructuredLookup func(ctx context.Context) ([]string, error)
	// ProbeVersion reads version metadata from a found executable.
	// A probe failure marks the candidate "not usable" and the search
	// continues; it never fails the whole lookup.
	ProbeVersion func(ctx context.Context, path string) (string, error)
}

// Search returns the first installation whose executable exists and yields a
// readable version string, or ErrNotFound.
func Search(ctx context.Context, opts Options) (*Record, error) {
	candidates := gatherCandidates(ctx, opts)

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err != nil || info.IsDir() {
			continue
		}

		ver, err := opts.ProbeVersion(ctx, candidate)
		if err != nil {
			// Not usable, keep looking.
			logger.DebugKV(ctx, "Candidate has no readable version",
				"path", candidate, "error", err)

			continue
		}

		logger.InfoKV(ctx, "Found installation", "path", candidate, "version", ver)

		return &Record{ExecutablePath: candidate, Version: ver}, nil
	}

	return nil, ErrNotFound
}

// gatherCandidates collects candidate paths in precedence order and
// deduplicates them before probing.
func gatherCandidates(ctx context.Context, opts Options) []string {
	var candidates []string

	if opts.StructuredLookup != nil {
		found, err := opts.StructuredLookup(ctx)
		if err != nil {
			// Absence of a structured record is normal.
			logger.DebugKV(ctx, "Structured lookup yielded nothing", "error", err)
		} else {
			candidates = append(candidates, found...)
		}
	}

	for _, dir := range opts.CandidateDirs {
		for _, name := range opts.ExecutableNames {
			candidates = append(candidates, filepath.Join(dir, name))
		}
	}

	for _, root := range opts.WalkRoots {
		candidates = append(candidates, walkForNames(ctx, root, opts.ExecutableNames, opts.WalkDepth)...)
	}

	return dedupe(candidates)
}

// walkForNames walks root collecting files whose base name matches exactly,
// optionally bounded by depth. Unreadable directories are skipped, never
// fatal.
func walkForNames(ctx context.Context, root string, names []string, maxDepth int) []string {
	wanted := make(map[string]struct{}, len(names))
	for _, n := range names {
		wanted[n] = struct{}{}
	}

	var matches []string

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // Unreadable entries are skipped, not fatal.
		}

		if ctx.Err() != nil {
			return filepath.SkipAll
		}

		if entry.IsDir() {
			if maxDepth > 0 && depthBelow(root, path) >= maxDepth {
				return filepath.SkipDir
			}

			return nil
		}

		if _, ok := wanted[entry.Name()]; ok {
			matches = append(matches, path)
		}

		return nil
	})

	return matches
}

// depthBelow counts directory levels of path below root.
func depthBelow(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}

	return strings.Count(rel, string(filepath.Separator)) + 1
}

// dedupe removes duplicate candidate paths, keeping first occurrence order.
func dedupe(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	result := make([]string, 0, len(paths))

	for _, p := range paths {
		cleaned := filepath.Clean(p)
		if _, ok := seen[cleaned]; ok {
			continue
		}

		seen[cleaned] = struct{}{}
		result = append(result, cleaned)
	}

	return result
}
