package release

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/oshokin/thorium-updater/internal/cputier"
)

// ErrNoMatchingAsset is returned when no asset name matches the detected
// capability tier. Fatal: there is nothing compatible to install.
var ErrNoMatchingAsset = errors.New("no compatible installer asset found")

// AssetForTier selects the first asset whose name contains the tier marker.
// The optional nameFilter further restricts candidates by a case-insensitive
// substring (platform handlers use it to pick installer vs. AppImage assets).
//
// The tier marker must not be followed by a digit, so an AVX host never
// grabs an AVX2 build.
func AssetForTier(rel *Release, tier cputier.Tier, nameFilter string) (*Asset, error) {
	pattern, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(tier.String()) + `([^0-9]|$)`)
	if err != nil {
		return nil, fmt.Errorf("build asset pattern: %w", err)
	}

	filter := strings.ToLower(nameFilter)

	for i := range rel.Assets {
		asset := &rel.Assets[i]

		if filter != "" && !strings.Contains(strings.ToLower(asset.Name), filter) {
			continue
		}

		if pattern.MatchString(asset.Name) {
			return asset, nil
		}
	}

	return nil, fmt.Errorf("tier %s in release %s: %w", tier, rel.TagName, ErrNoMatchingAsset)
}
