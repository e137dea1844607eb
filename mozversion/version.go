// Package mozversion determines which Firefox version a binary is.
//
// Versions are read from the application.ini shipped next to the binary
// when possible and from `firefox --version` otherwise. Results are cached
// per binary path for the lifetime of a Cache; see Resolver.
package mozversion

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/teranos/geckocaps/errors"
)

var versionPattern = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?(?:([a-z]+)(\d*))?$`)

// Version is a Firefox product version such as 115.0, 115.0.2, 116.0a1 or 115.0esr.
type Version struct {
	Major uint64
	Minor uint64
	Patch uint64
	// Pre is the alphabetic suffix ("a", "b", "esr"), empty for plain releases
	Pre string
	// PreNumber is the number following Pre, 0 if absent
	PreNumber uint64
}

// Parse parses a Firefox version string.
func Parse(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, errors.Newf("invalid Firefox version %q", s)
	}

	var v Version
	var err error
	if v.Major, err = strconv.ParseUint(m[1], 10, 64); err != nil {
		return Version{}, errors.Wrapf(err, "invalid major version in %q", s)
	}
	if v.Minor, err = strconv.ParseUint(m[2], 10, 64); err != nil {
		return Version{}, errors.Wrapf(err, "invalid minor version in %q", s)
	}
	if m[3] != "" {
		if v.Patch, err = strconv.ParseUint(m[3], 10, 64); err != nil {
			return Version{}, errors.Wrapf(err, "invalid patch version in %q", s)
		}
	}
	v.Pre = m[4]
	if m[5] != "" {
		if v.PreNumber, err = strconv.ParseUint(m[5], 10, 64); err != nil {
			return Version{}, errors.Wrapf(err, "invalid pre-release number in %q", s)
		}
	}
	return v, nil
}

// String renders the version the way Firefox reports it.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d", v.Major, v.Minor)
	if v.Patch != 0 {
		fmt.Fprintf(&b, ".%d", v.Patch)
	}
	b.WriteString(v.Pre)
	if v.PreNumber != 0 {
		b.WriteString(strconv.FormatUint(v.PreNumber, 10))
	}
	return b.String()
}

// IsPrerelease reports whether this is a nightly/alpha or beta build.
// ESR builds are releases.
func (v Version) IsPrerelease() bool {
	return v.Pre != "" && v.Pre != "esr"
}

// Semver converts the version for constraint checks.
// Alpha and beta suffixes become pre-release identifiers ("a.1") so that
// a10 sorts after a9; the esr suffix is dropped.
func (v Version) Semver() *semver.Version {
	pre := ""
	if v.IsPrerelease() {
		pre = v.Pre
		if v.PreNumber != 0 {
			pre = fmt.Sprintf("%s.%d", v.Pre, v.PreNumber)
		}
	}
	return semver.New(v.Major, v.Minor, v.Patch, pre, "")
}

// Matches reports whether the version satisfies a constraint such as
// ">=115" or ">=110, <120".
func (v Version) Matches(constraint string) (bool, error) {
	c, err := semver.NewConstraint(constraint)
	if err != nil {
		return false, errors.Wrapf(err, "invalid version comparison %q", constraint)
	}
	return c.Check(v.Semver()), nil
}
