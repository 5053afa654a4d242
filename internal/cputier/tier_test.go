package cputier

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFromDescriptors checks that the highest advertised tier wins.
func TestFromDescriptors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name        string
		descriptors []string
		want        Tier
		ok          bool
	}{
		{
			name:        "avx2 beats avx",
			descriptors: []string{"fpu", "sse3", "avx", "avx2"},
			want:        AVX2,
			ok:          true,
		},
		{
			name:        "avx without avx2",
			descriptors: []string{"sse4_1", "sse4_2", "avx"},
			want:        AVX,
			ok:          true,
		},
		{
			name:        "sse4 from split flags",
			descriptors: []string{"sse4_1", "sse4_2"},
			want:        SSE4,
			ok:          true,
		},
		{
			name:        "ssse3 counts as sse3",
			descriptors: []string{"fpu", "ssse3"},
			want:        SSE3,
			ok:          true,
		},
		{
			name:        "model name match",
			descriptors: []string{"Intel(R) Core(TM) AVX2 engineering sample"},
			want:        AVX2,
			ok:          true,
		},
		{
			name:        "nothing matches",
			descriptors: []string{"fpu", "vme", "de"},
			want:        Unknown,
			ok:          false,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, ok := fromDescriptors(tc.descriptors)
			require.Equal(t, tc.ok, ok)
			require.Equal(t, tc.want, got)

			// Detection is idempotent on static input.
			again, _ := fromDescriptors(tc.descriptors)
			require.Equal(t, got, again)
		})
	}
}

// TestDetectFromBinary scans file contents for tier markers.
func TestDetectFromBinary(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	path := filepath.Join(dir, "thorium.exe")
	require.NoError(t, os.WriteFile(path, []byte("\x00\x01compiled for AVX2 hosts\x00"), 0o600))

	tier, err := DetectFromBinary(path)
	require.NoError(t, err)
	require.Equal(t, AVX2, tier)

	// No marker at all.
	blank := filepath.Join(dir, "blank.bin")
	require.NoError(t, os.WriteFile(blank, []byte{0, 1, 2, 3}, 0o600))

	_, err = DetectFromBinary(blank)
	require.ErrorIs(t, err, ErrUnsupportedArchitecture)
}

// TestDetectFromBinaryLargeFile checks the streaming scan: a marker split
// across a read boundary still matches, and a higher tier late in the file
// outranks a lower one near the start.
func TestDetectFromBinaryLargeFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// "avx2" starts two bytes before the first chunk ends.
	split := filepath.Join(dir, "split.bin")
	contents := append(bytes.Repeat([]byte{'x'}, detectChunkSize-2), []byte("avx2")...)
	require.NoError(t, os.WriteFile(split, contents, 0o600))

	tier, err := DetectFromBinary(split)
	require.NoError(t, err)
	require.Equal(t, AVX2, tier)

	// "sse3" in the first chunk, "avx" two chunks later.
	late := filepath.Join(dir, "late.bin")
	contents = []byte("sse3")
	contents = append(contents, bytes.Repeat([]byte{'y'}, 2*detectChunkSize)...)
	contents = append(contents, []byte("built for avx hosts")...)
	require.NoError(t, os.WriteFile(late, contents, 0o600))

	tier, err = DetectFromBinary(late)
	require.NoError(t, err)
	require.Equal(t, AVX, tier)
}

// TestTierOrdering checks the monotonic "at least as capable" ordering.
func TestTierOrdering(t *testing.T) {
	t.Parallel()

	require.True(t, AVX2.AtLeast(SSE3))
	require.True(t, AVX.AtLeast(AVX))
	require.False(t, SSE3.AtLeast(SSE4))
}

// TestParse maps marker strings back to tiers.
func TestParse(t *testing.T) {
	t.Parallel()

	tier, ok := Parse("AVX2")
	require.True(t, ok)
	require.Equal(t, AVX2, tier)

	_, ok = Parse("mmx")
	require.False(t, ok)
}
