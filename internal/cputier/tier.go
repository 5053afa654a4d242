package cputier

import (
	"errors"
	"strings"
)

// Tier classifies CPU instruction-set support into the ordered levels the
// browser is built for. Higher values mean "at least as capable"; the order
// is used only for matching, never for arithmetic.
type Tier int

// Capability tiers, lowest to highest.
const (
	Unknown Tier = iota
	SSE3
	SSE4
	AVX
	AVX2
)

// ErrUnsupportedArchitecture means no tier marker matched the host.
// Fatal for fresh installs: no compatible asset can be selected.
var ErrUnsupportedArchitecture = errors.New("unsupported CPU architecture")

// descending lists tiers from most to least capable; detection checks them
// in this order and the first match wins.
//
//nolint:gochecknoglobals // Fixed detection order, effectively a constant.
var descending = []Tier{AVX2, AVX, SSE4, SSE3}

// String returns the lowercase tier marker used in asset names and flag lists.
func (t Tier) String() string {
	switch t {
	case SSE3:
		return "sse3"
	case SSE4:
		return "sse4"
	case AVX:
		return "avx"
	case AVX2:
		return "avx2"
	default:
		return "unknown"
	}
}

// AtLeast reports whether the tier is at least as capable as the other.
func (t Tier) AtLeast(other Tier) bool {
	return t >= other
}

// Parse maps a tier marker string back to a Tier.
func Parse(s string) (Tier, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "sse3":
		return SSE3, true
	case "sse4":
		return SSE4, true
	case "avx":
		return AVX, true
	case "avx2":
		return AVX2, true
	default:
		return Unknown, false
	}
}
