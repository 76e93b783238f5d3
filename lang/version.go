package lang

import (
	"strconv"
	"strings"
)

// versionAbsent marks a version component that was not written.
// An absent component is distinct from zero: 1.2.3 and 1.2.3.0 are not
// equal, and the absent component orders below every written one.
const versionAbsent = -1

// Version is an ordered tuple of two to four non-negative 32-bit integer
// components. Build and Revision are versionAbsent when not written.
type Version struct {
	Major    int32
	Minor    int32
	Build    int32
	Revision int32
}

// MakeVersion constructs a two-component version.
func MakeVersion(major, minor int32) Version {
	return Version{
		Major:    major,
		Minor:    minor,
		Build:    versionAbsent,
		Revision: versionAbsent,
	}
}

// ParseVersion parses a dotted version with 2-4 components, each a
// non-negative decimal integer fitting in 32 bits. It does not trim
// whitespace; callers coercing from strings trim first.
func ParseVersion(s string) (Version, bool) {
	parts := strings.Split(s, ".")
	if len(parts) < 2 || len(parts) > 4 {
		return Version{}, false
	}

	comp := [4]int32{0, 0, versionAbsent, versionAbsent}

	for i, part := range parts {
		n, ok := parseVersionComponent(part)
		if !ok {
			return Version{}, false
		}

		comp[i] = n
	}

	return Version{
		Major:    comp[0],
		Minor:    comp[1],
		Build:    comp[2],
		Revision: comp[3],
	}, true
}

// parseVersionComponent parses a single non-negative 32-bit component.
// Signs, spaces, and empty components are rejected.
func parseVersionComponent(s string) (int32, bool) {
	if s == "" {
		return 0, false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}

	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, false
	}

	return int32(n), true
}

// String returns the canonical dotted form, omitting absent components.
func (v Version) String() string {
	var sb strings.Builder

	sb.WriteString(strconv.FormatInt(int64(v.Major), 10))
	sb.WriteByte('.')
	sb.WriteString(strconv.FormatInt(int64(v.Minor), 10))

	if v.Build != versionAbsent {
		sb.WriteByte('.')
		sb.WriteString(strconv.FormatInt(int64(v.Build), 10))

		if v.Revision != versionAbsent {
			sb.WriteByte('.')
			sb.WriteString(strconv.FormatInt(int64(v.Revision), 10))
		}
	}

	return sb.String()
}

// Compare orders two versions componentwise. Absent components order below
// written ones, so 1.2.3 sorts before 1.2.3.0 and the two are not equal.
func (v Version) Compare(o Version) int {
	pairs := [4][2]int32{
		{v.Major, o.Major},
		{v.Minor, o.Minor},
		{v.Build, o.Build},
		{v.Revision, o.Revision},
	}

	for _, p := range pairs {
		if p[0] != p[1] {
			if p[0] < p[1] {
				return -1
			}

			return 1
		}
	}

	return 0
}

// Equal reports componentwise equality, including absence.
func (v Version) Equal(o Version) bool {
	return v.Compare(o) == 0
}
