package process

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestMatchesTarget checks case-insensitive substring matching of process names.
func TestMatchesTarget(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		target string
		want   bool
	}{
		{"thorium.exe", "Thorium", true},
		{"Thorium_Browser.AppImage", "thorium", true},
		{"thorium-browser", "Thorium", true},
		{"chrome.exe", "Thorium", false},
		{"", "Thorium", false},
	}

	for _, tc := range cases {
		require.Equal(t, tc.want, matchesTarget(tc.name, tc.target),
			"name %q target %q", tc.name, tc.target)
	}
}
