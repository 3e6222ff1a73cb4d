// Package version provides semantic-version ordering for package versions
// as they appear on NuGet-style registries.
//
// Registry version strings are mostly SemVer 2.0.0, but legacy packages use
// four-segment versions like "1.0.0.0". Parse normalizes those by folding
// the fourth segment into a revision number compared after the patch level.
// Comparison must be total so version lists can always be sorted: strings
// that fail to parse order below every parseable version and among
// themselves case-insensitively.
package version

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Version is a parsed registry version.
type Version struct {
	sv       *semver.Version
	revision int
	raw      string
}

// Parse parses a version string, tolerating legacy four-segment versions.
func Parse(s string) (*Version, error) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return nil, fmt.Errorf("version cannot be empty")
	}

	core := raw
	var rest string
	if idx := strings.IndexAny(core, "-+"); idx != -1 {
		rest = core[idx:]
		core = core[:idx]
	}

	revision := 0
	if parts := strings.Split(core, "."); len(parts) == 4 {
		rev, err := strconv.Atoi(parts[3])
		if err != nil || rev < 0 {
			return nil, fmt.Errorf("invalid revision segment: %s", parts[3])
		}
		revision = rev
		core = strings.Join(parts[:3], ".")
	}

	sv, err := semver.NewVersion(core + rest)
	if err != nil {
		return nil, fmt.Errorf("invalid version %q: %w", s, err)
	}

	return &Version{sv: sv, revision: revision, raw: raw}, nil
}

// String returns the original version string.
func (v *Version) String() string { return v.raw }

// IsPrerelease reports whether the version carries a pre-release suffix.
func (v *Version) IsPrerelease() bool { return v.sv.Prerelease() != "" }

// Compare returns -1, 0 or 1 as v is less than, equal to or greater than
// other. The legacy revision segment breaks ties after the release
// comparison; build metadata is ignored, matching SemVer precedence.
func (v *Version) Compare(other *Version) int {
	if c := v.sv.Compare(other.sv); c != 0 {
		return c
	}
	switch {
	case v.revision > other.revision:
		return 1
	case v.revision < other.revision:
		return -1
	}
	return 0
}

// CompareStrings imposes a total order on arbitrary version strings.
// Parseable versions order above unparseable ones; two unparseable
// strings compare case-insensitively.
func CompareStrings(a, b string) int {
	va, errA := Parse(a)
	vb, errB := Parse(b)

	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return 1
	case errB == nil:
		return -1
	}

	la, lb := strings.ToLower(a), strings.ToLower(b)
	switch {
	case la > lb:
		return 1
	case la < lb:
		return -1
	}
	return 0
}

// IsValid reports whether s parses as a registry version.
func IsValid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// Max returns the greater of two version strings under CompareStrings.
func Max(a, b string) string {
	if CompareStrings(a, b) >= 0 {
		return a
	}
	return b
}
