// Package cputier classifies CPU instruction-set support into the ordered
// capability tiers the browser distribution is built for (SSE3 < SSE4 < AVX
// < AVX2) and detects the highest tier a host supports, either from reported
// CPU feature flags or by scanning an installed binary for a tier marker.
//
// Both strategies are deliberate heuristics: they pattern-match descriptor
// strings rather than executing instruction probes.
package cputier
