package cputier

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
)

// detectChunkSize is the read granularity for binary scans. Browser binaries
// run to hundreds of megabytes, so the scan streams in chunks instead of
// slurping the file. Consecutive chunks overlap by one byte less than the
// longest marker so a marker straddling a boundary still matches.
const detectChunkSize = 64 * 1024

// DetectHost classifies the host CPU by scanning its reported feature flags
// and model strings for tier markers, highest tier first.
//
// This is a heuristic pattern match, not an authoritative instruction-set
// query: a host advertising a marker it cannot execute will be misclassified.
func DetectHost(ctx context.Context) (Tier, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return Unknown, fmt.Errorf("query CPU info: %w", err)
	}

	descriptors := make([]string, 0, len(infos)*2)
	for _, info := range infos {
		descriptors = append(descriptors, info.ModelName)
		descriptors = append(descriptors, info.Flags...)
	}

	tier, ok := fromDescriptors(descriptors)
	if !ok {
		return Unknown, ErrUnsupportedArchitecture
	}

	return tier, nil
}

// DetectFromBinary scans a binary's raw contents, interpreted as text, for a
// tier marker and returns the highest one found anywhere in the file. Used
// when an installation reports no usable version metadata. False positives
// from unrelated strings are an accepted limitation.
func DetectFromBinary(path string) (Tier, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return Unknown, fmt.Errorf("open binary: %w", err)
	}

	defer func() {
		_ = f.Close()
	}()

	overlap := 0
	for _, tier := range descending {
		if n := len(tier.String()); n > overlap {
			overlap = n
		}
	}
	overlap--

	buf := make([]byte, detectChunkSize+overlap)
	kept := 0
	best := Unknown

	for {
		n, readErr := f.Read(buf[kept:])
		if n > 0 {
			window := bytes.ToLower(buf[:kept+n])

			for _, tier := range descending {
				if tier > best && bytes.Contains(window, []byte(tier.String())) {
					best = tier
				}
			}

			// Nothing outranks the top tier, stop reading.
			if best == descending[0] {
				break
			}

			total := kept + n

			tail := overlap
			if total < tail {
				tail = total
			}

			copy(buf, buf[total-tail:total])
			kept = tail
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}

			return Unknown, fmt.Errorf("read binary: %w", readErr)
		}
	}

	if best == Unknown {
		return Unknown, ErrUnsupportedArchitecture
	}

	return best, nil
}

// fromDescriptors scans descriptor strings for tier markers in strictly
// descending tier order. The first match wins, so repeated runs over the
// same input always produce the same tier.
func fromDescriptors(descriptors []string) (Tier, bool) {
	lowered := make([]string, len(descriptors))
	for i, d := range descriptors {
		lowered[i] = strings.ToLower(d)
	}

	for _, tier := range descending {
		marker := tier.String()
		for _, d := range lowered {
			if strings.Contains(d, marker) {
				return tier, true
			}
		}
	}

	return Unknown, false
}
