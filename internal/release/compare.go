package release

import (
	"strings"
	"unicode"

	goversion "github.com/hashicorp/go-version"
)

// Normalize prepares a version string for structured comparison: a single
// leading non-numeric release-tag marker is dropped (Thorium tags are
// prefixed with "M"), then every character that is not a digit or a dot is
// removed.
func Normalize(s string) string {
	s = strings.TrimSpace(s)

	// One leading tag marker, e.g. "M130.0.6723.0" -> "130.0.6723.0".
	if s != "" && !unicode.IsDigit(rune(s[0])) {
		s = s[1:]
	}

	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) || r == '.' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Equal reports whether two version strings denote the same release after
// normalization. If structured parsing fails for either side, it falls back
// to raw string equality between the original inputs.
func Equal(a, b string) bool {
	va, errA := goversion.NewVersion(Normalize(a))
	vb, errB := goversion.NewVersion(Normalize(b))

	if errA != nil || errB != nil {
		return a == b
	}

	return va.Equal(vb)
}

// AtLeast reports whether the current version is at least as new as the
// latest one, i.e. whether the installation is up to date. A locally built
// version ahead of the feed therefore suppresses the update path. The same
// raw-equality fallback as Equal applies when parsing fails.
func AtLeast(current, latest string) bool {
	vc, errC := goversion.NewVersion(Normalize(current))
	vl, errL := goversion.NewVersion(Normalize(latest))

	if errC != nil || errL != nil {
		return current == latest
	}

	return vc.GreaterThanOrEqual(vl)
}
