package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a host format version such as 4.2 or 3.6.5.
type Version struct {
	Major, Minor, Patch int
}

// ParseVersion parses "major.minor" or "major.minor.patch".
func ParseVersion(s string) (Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) < 2 || len(parts) > 3 {
		return Version{}, fmt.Errorf("schema: invalid version %q", s)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("schema: invalid version %q", s)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParseVersion is like ParseVersion but panics on error.
func MustParseVersion(s string) Version {
	v, err := ParseVersion(s)
	if err != nil {
		panic(err)
	}
	return v
}

// IsZero reports whether v is the zero version.
func (v Version) IsZero() bool { return v == Version{} }

// Compare returns -1, 0 or +1 depending on whether v is lower than, equal
// to or greater than o.
func (v Version) Compare(o Version) int {
	for _, d := range [3]int{v.Major - o.Major, v.Minor - o.Minor, v.Patch - o.Patch} {
		switch {
		case d < 0:
			return -1
		case d > 0:
			return 1
		}
	}
	return 0
}

// String implements fmt.Stringer.
func (v Version) String() string {
	if v.Patch == 0 {
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// Range is a half-open version interval [Min, Max). A zero Max leaves the
// range open upwards.
type Range struct {
	Min Version
	Max Version
}

// Contains reports whether v falls inside r.
func (r Range) Contains(v Version) bool {
	if v.Compare(r.Min) < 0 {
		return false
	}
	return r.Max.IsZero() || v.Compare(r.Max) < 0
}

// Intersect returns the intersection of r and o.
func (r Range) Intersect(o Range) Range {
	out := r
	if o.Min.Compare(out.Min) > 0 {
		out.Min = o.Min
	}
	switch {
	case out.Max.IsZero():
		out.Max = o.Max
	case !o.Max.IsZero() && o.Max.Compare(out.Max) < 0:
		out.Max = o.Max
	}
	return out
}

// String implements fmt.Stringer.
func (r Range) String() string {
	if r.Max.IsZero() {
		return fmt.Sprintf("[%s, ∞)", r.Min)
	}
	return fmt.Sprintf("[%s, %s)", r.Min, r.Max)
}
