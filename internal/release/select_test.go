package release

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oshokin/thorium-updater/internal/cputier"
)

// TestAssetForTier checks tier-to-asset matching.
func TestAssetForTier(t *testing.T) {
	t.Parallel()

	rel := &Release{
		TagName: "M130.0.6723.0",
		Assets: []Asset{
			{Name: "thorium-avx2-installer.exe", BrowserDownloadURL: "https://dl.local/avx2"},
			{Name: "thorium-sse4-installer.exe", BrowserDownloadURL: "https://dl.local/sse4"},
			{Name: "thorium-sse3-installer.exe", BrowserDownloadURL: "https://dl.local/sse3"},
		},
	}

	// SSE4 host gets exactly the SSE4 asset.
	asset, err := AssetForTier(rel, cputier.SSE4, "")
	require.NoError(t, err)
	require.Equal(t, "thorium-sse4-installer.exe", asset.Name)

	// An AVX host must not grab the AVX2 build.
	_, err = AssetForTier(rel, cputier.AVX, "")
	require.ErrorIs(t, err, ErrNoMatchingAsset)

	// Matching is case-insensitive.
	rel.Assets[0].Name = "Thorium-AVX2-Installer.exe"

	asset, err = AssetForTier(rel, cputier.AVX2, "")
	require.NoError(t, err)
	require.Equal(t, "Thorium-AVX2-Installer.exe", asset.Name)
}

// TestAssetForTierFilter checks the platform name filter.
func TestAssetForTierFilter(t *testing.T) {
	t.Parallel()

	rel := &Release{
		TagName: "M130.0.6723.0",
		Assets: []Asset{
			{Name: "thorium-avx2-installer.exe"},
			{Name: "Thorium_Browser_130.0.6723.0_AVX2.AppImage"},
		},
	}

	asset, err := AssetForTier(rel, cputier.AVX2, ".appimage")
	require.NoError(t, err)
	require.Equal(t, "Thorium_Browser_130.0.6723.0_AVX2.AppImage", asset.Name)

	_, err = AssetForTier(rel, cputier.AVX2, ".dmg")
	require.ErrorIs(t, err, ErrNoMatchingAsset)
}
