package installer

import (
	"errors"
	"os/exec"
)

// Family identifies the host's package manager family. Exactly three
// mutually exclusive families are supported, detected by binary presence in
// a fixed priority order.
type Family int

// Supported package manager families.
const (
	FamilyUnknown Family = iota
	FamilyAPT
	FamilyDNF
	FamilyPacman
)

// ErrNoPackageManager means none of the supported families is present.
// Fatal on the source-build path: build dependencies cannot be installed.
var ErrNoPackageManager = errors.New("no supported package manager found")

// String returns the family's canonical binary name.
func (f Family) String() string {
	switch f {
	case FamilyAPT:
		return "apt-get"
	case FamilyDNF:
		return "dnf"
	case FamilyPacman:
		return "pacman"
	default:
		return "unknown"
	}
}

// PackageManager wraps the detected family with its resolved binary path.
type PackageManager struct {
	Family Family
	Path   string
}

// DetectPackageManager probes for each supported family's binary in priority
// order (apt-get, dnf, pacman) and returns the first present. The lookPath
// argument exists for tests; pass exec.LookPath in production code.
func DetectPackageManager(lookPath func(string) (string, error)) (*PackageManager, error) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, family := range []Family{FamilyAPT, FamilyDNF, FamilyPacman} {
		if path, err := lookPath(family.String()); err == nil {
			return &PackageManager{Family: family, Path: path}, nil
		}
	}

	return nil, ErrNoPackageManager
}

// InstallArgs returns the non-interactive install invocation for the given
// packages.
func (pm *PackageManager) InstallArgs(packages ...string) []string {
	switch pm.Family {
	case FamilyAPT:
		return append([]string{pm.Path, "install", "-y"}, packages...)
	case FamilyDNF:
		return append([]string{pm.Path, "install", "-y"}, packages...)
	case FamilyPacman:
		return append([]string{pm.Path, "-S", "--noconfirm"}, packages...)
	default:
		return nil
	}
}

// BuildDependencies lists the packages the source build needs, named per
// family.
func (pm *PackageManager) BuildDependencies() []string {
	switch pm.Family {
	case FamilyAPT:
		return []string{"build-essential", "git", "python3", "ninja-build", "pkg-config"}
	case FamilyDNF:
		return []string{"gcc", "gcc-c++", "make", "git", "python3", "ninja-build", "pkgconf-pkg-config"}
	case FamilyPacman:
		return []string{"base-devel", "git", "python", "ninja", "pkgconf"}
	default:
		return nil
	}
}
