package entity

import (
	"fmt"
	"strconv"
	"strings"
)

// Default broken range: every 2.3.x runtime.
const (
	DefaultBrokenMin = "2.3"
	DefaultBrokenMax = "2.4"
)

// VersionRange is the half-open range [Min, Max) of runtime versions whose
// native binding is known to be broken. An empty Max means unbounded.
type VersionRange struct {
	Min string
	Max string
}

// DefaultBrokenRange returns the range probed when nothing is configured.
func DefaultBrokenRange() VersionRange {
	return VersionRange{Min: DefaultBrokenMin, Max: DefaultBrokenMax}
}

// Validate checks that the bounds parse and are ordered.
func (r VersionRange) Validate() error {
	if strings.TrimSpace(r.Min) == "" {
		return fmt.Errorf("broken range: min version is required")
	}
	if _, ok := parseVersion(r.Min); !ok {
		return fmt.Errorf("broken range: invalid min version %q", r.Min)
	}
	if r.Max == "" {
		return nil
	}
	if _, ok := parseVersion(r.Max); !ok {
		return fmt.Errorf("broken range: invalid max version %q", r.Max)
	}
	if CompareVersions(r.Min, r.Max) >= 0 {
		return fmt.Errorf("broken range: min %q must be below max %q", r.Min, r.Max)
	}
	return nil
}

// Contains reports whether version falls inside the range.
// Unparseable versions are never inside.
func (r VersionRange) Contains(version string) bool {
	if _, ok := parseVersion(version); !ok {
		return false
	}
	if CompareVersions(version, r.Min) < 0 {
		return false
	}
	return r.Max == "" || CompareVersions(version, r.Max) < 0
}

func (r VersionRange) String() string {
	if r.Max == "" {
		return fmt.Sprintf("[%s, ∞)", r.Min)
	}
	return fmt.Sprintf("[%s, %s)", r.Min, r.Max)
}

// CompareVersions compares two dotted versions.
// Returns -1 if v1 < v2, 0 if v1 == v2, 1 if v1 > v2.
// Pre-release and build suffixes are ignored and missing parts count as zero,
// so "2.3" == "2.3.0" and "2.3.7-update1" == "2.3.7".
func CompareVersions(v1, v2 string) int {
	p1, _ := parseVersion(v1)
	p2, _ := parseVersion(v2)

	n := max(len(p1), len(p2))
	for i := 0; i < n; i++ {
		var a, b int
		if i < len(p1) {
			a = p1[i]
		}
		if i < len(p2) {
			b = p2[i]
		}
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

func parseVersion(v string) ([]int, bool) {
	v = strings.TrimSpace(v)
	v = strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	if i := strings.IndexAny(v, "-+ _"); i >= 0 {
		v = v[:i]
	}
	if v == "" {
		return nil, false
	}

	parts := strings.Split(v, ".")
	out := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return nil, false
		}
		out = append(out, n)
	}
	return out, true
}
