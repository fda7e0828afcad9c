// Package versions interprets npm version specifiers and picks upgrade
// targets. Comparisons go through golang.org/x/mod/semver, which expects a
// leading "v"; Canonical adds it.
package versions

import (
	"strings"

	"golang.org/x/mod/semver"
)

var operators = []string{">=", "<=", "^", "~", ">", "<", "="}

var nonRegistryPrefixes = []string{
	"workspace:", "npm:", "file:", "link:", "portal:", "patch:", "catalog:",
	"git+", "git:", "github:", "http:", "https:",
}

// SplitSpecifier separates a specifier into its range operator and bare
// version. ok is false for anything that does not name a single registry
// version: workspace and alias protocols, paths, URLs, tags, wildcards and
// compound ranges.
func SplitSpecifier(spec string) (prefix, version string, ok bool) {
	s := strings.TrimSpace(spec)
	if s == "" {
		return "", "", false
	}
	for _, p := range nonRegistryPrefixes {
		if strings.HasPrefix(s, p) {
			return "", "", false
		}
	}
	if strings.ContainsAny(s, " |/") {
		return "", "", false
	}

	for _, op := range operators {
		if strings.HasPrefix(s, op) {
			prefix, s = op, strings.TrimSpace(s[len(op):])
			break
		}
	}
	s = strings.TrimPrefix(s, "v")
	if !IsValid(s) {
		return "", "", false
	}
	return prefix, s, true
}

// Canonical returns v in the form x/mod/semver understands.
func Canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}

// IsValid reports whether v is a full major.minor.patch version.
func IsValid(v string) bool {
	if v == "" || strings.Count(strings.SplitN(strings.SplitN(v, "-", 2)[0], "+", 2)[0], ".") != 2 {
		return false
	}
	return semver.IsValid(Canonical(v))
}

// Compare returns -1, 0 or 1 like strings.Compare.
func Compare(a, b string) int {
	return semver.Compare(Canonical(a), Canonical(b))
}

// Major returns the major component, e.g. "4" for 4.1.0.
func Major(v string) string {
	return strings.TrimPrefix(semver.Major(Canonical(v)), "v")
}

// IsPrerelease reports whether v carries a prerelease suffix.
func IsPrerelease(v string) bool {
	return semver.Prerelease(Canonical(v)) != ""
}

// UpdateType classifies the step from current to target as
// "major", "minor", "patch" or "none".
func UpdateType(current, target string) string {
	if Compare(current, target) >= 0 {
		return "none"
	}
	c, t := Canonical(current), Canonical(target)
	if semver.Major(c) != semver.Major(t) {
		return "major"
	}
	if semver.MajorMinor(c) != semver.MajorMinor(t) {
		return "minor"
	}
	return "patch"
}

// Resolution is the upgrade picture for one specifier.
type Resolution struct {
	Prefix   string
	Current  string
	Range    string
	Latest   string
	HasRange bool
	HasMajor bool
}

// Resolve computes the in-range and latest targets for spec from the
// published versions and the registry's latest tag. Prereleases are only
// considered when the latest tag itself is one. Versions above the latest tag
// are ignored.
func Resolve(spec string, available []string, latestTag string) (Resolution, bool) {
	prefix, current, ok := SplitSpecifier(spec)
	if !ok {
		return Resolution{}, false
	}
	r := Resolution{Prefix: prefix, Current: current}

	latestTag = strings.TrimPrefix(latestTag, "v")
	allowPre := latestTag != "" && IsValid(latestTag) && IsPrerelease(latestTag)

	var highest string
	for _, v := range available {
		v = strings.TrimPrefix(strings.TrimSpace(v), "v")
		if !IsValid(v) || (IsPrerelease(v) && !allowPre) {
			continue
		}
		if latestTag != "" && IsValid(latestTag) && Compare(v, latestTag) > 0 {
			continue
		}
		if highest == "" || Compare(v, highest) > 0 {
			highest = v
		}
		if Major(v) == Major(current) && Compare(v, current) > 0 {
			if r.Range == "" || Compare(v, r.Range) > 0 {
				r.Range = v
			}
		}
	}

	r.Latest = highest
	if latestTag != "" && IsValid(latestTag) {
		r.Latest = latestTag
	}
	if r.Latest == "" {
		r.Latest = current
	}

	r.HasRange = r.Range != "" && Compare(r.Range, current) > 0
	r.HasMajor = majorNumber(r.Latest) > majorNumber(current)
	return r, true
}

func majorNumber(v string) int {
	n := 0
	for _, c := range Major(v) {
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
