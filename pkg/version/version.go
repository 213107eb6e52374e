// Package version compares Maven versions and matches Maven version ranges.
//
// Versions are parsed leniently with Masterminds/semver, so "1", "1.0" and
// "1.0.0" compare equal and "1-SNAPSHOT" sorts before "1". Versions semver
// cannot parse, such as "1.0.Final", sort after every version it can parse
// and lexically among themselves, so Compare is a total order.
//
// Supported range syntax:
//
//	1.0          soft requirement, matches 1.0 only
//	[1.0]        exactly 1.0
//	[1.0,2.0)    1.0 <= v < 2.0
//	(,1.0]       v <= 1.0
//	[1.5,)       v >= 1.5
//	[1,2),[3,4)  union of ranges
package version

import (
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/matzehuels/mvnkit/pkg/errors"
)

// Compare returns -1, 0 or 1 comparing a and b.
func Compare(a, b string) int {
	va, errA := semver.NewVersion(a)
	vb, errB := semver.NewVersion(b)
	switch {
	case errA == nil && errB == nil:
		return va.Compare(vb)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// Sort sorts versions ascending in place.
func Sort(versions []string) {
	slices.SortStableFunc(versions, Compare)
}

// Range is a union of version intervals.
type Range struct {
	spec      string
	intervals []interval
}

type interval struct {
	lower, upper       string // empty means unbounded
	lowerInc, upperInc bool
}

// ParseRange parses a Maven version range or a plain version.
func ParseRange(s string) (*Range, error) {
	spec := strings.TrimSpace(s)
	if spec == "" {
		return nil, errors.New(errors.ErrCodeInvalidVersion, "empty version range")
	}
	r := &Range{spec: spec}
	if !strings.ContainsAny(spec, "[(") {
		if strings.ContainsAny(spec, ",)]") {
			return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version range %q", s)
		}
		r.intervals = []interval{{lower: spec, upper: spec, lowerInc: true, upperInc: true}}
		return r, nil
	}

	rest := spec
	for rest != "" {
		if rest[0] != '[' && rest[0] != '(' {
			return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version range %q: expected '[' or '('", s)
		}
		end := strings.IndexAny(rest, "])")
		if end < 0 {
			return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version range %q: unbounded interval", s)
		}
		iv, err := parseInterval(rest[:end+1])
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidVersion, err, "invalid version range %q", s)
		}
		r.intervals = append(r.intervals, iv)
		rest = strings.TrimSpace(rest[end+1:])
		if rest != "" {
			if rest[0] != ',' {
				return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version range %q: expected ','", s)
			}
			rest = strings.TrimSpace(rest[1:])
			if rest == "" {
				return nil, errors.New(errors.ErrCodeInvalidVersion, "invalid version range %q: trailing ','", s)
			}
		}
	}
	return r, nil
}

func parseInterval(s string) (interval, error) {
	iv := interval{lowerInc: s[0] == '[', upperInc: s[len(s)-1] == ']'}
	body := s[1 : len(s)-1]
	lower, upper, hasComma := strings.Cut(body, ",")
	lower, upper = strings.TrimSpace(lower), strings.TrimSpace(upper)

	if !hasComma {
		if !iv.lowerInc || !iv.upperInc || lower == "" {
			return iv, errors.New(errors.ErrCodeInvalidVersion, "single version %q must be enclosed in []", s)
		}
		iv.lower, iv.upper = lower, lower
		return iv, nil
	}
	if strings.Contains(upper, ",") {
		return iv, errors.New(errors.ErrCodeInvalidVersion, "interval %q has more than two bounds", s)
	}
	if lower == "" && iv.lowerInc || upper == "" && iv.upperInc {
		return iv, errors.New(errors.ErrCodeInvalidVersion, "unbounded side of %q must be exclusive", s)
	}
	if lower != "" && upper != "" && Compare(lower, upper) > 0 {
		return iv, errors.New(errors.ErrCodeInvalidVersion, "lower bound of %q exceeds upper bound", s)
	}
	iv.lower, iv.upper = lower, upper
	return iv, nil
}

// String returns the range as written.
func (r *Range) String() string { return r.spec }

// Contains reports whether v lies in any interval of r.
func (r *Range) Contains(v string) bool {
	for _, iv := range r.intervals {
		if iv.contains(v) {
			return true
		}
	}
	return false
}

// Filter returns the versions contained in r, preserving order.
func (r *Range) Filter(versions []string) []string {
	var out []string
	for _, v := range versions {
		if r.Contains(v) {
			out = append(out, v)
		}
	}
	return out
}

func (iv interval) contains(v string) bool {
	if iv.lower != "" {
		c := Compare(v, iv.lower)
		if c < 0 || c == 0 && !iv.lowerInc {
			return false
		}
	}
	if iv.upper != "" {
		c := Compare(v, iv.upper)
		if c > 0 || c == 0 && !iv.upperInc {
			return false
		}
	}
	return true
}
