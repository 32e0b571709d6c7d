// Package topic implements the Topic Name / Topic Filter data model: parsing,
// wildcard validation, and shared-subscription prefix handling (MQTT 5
// sections 4.7 and 4.8.2).
package topic

import (
	"strings"
	"unicode/utf8"

	"github.com/cockroachdb/errors"
)

const maxLength = 65535

const sharePrefix = "$share/"

// ValidationError reports why a Topic Name or Topic Filter was rejected.
type ValidationError struct {
	message string
}

func (e *ValidationError) Error() string {
	return e.message
}

func invalid(format string, args ...interface{}) error {
	return &ValidationError{errors.Wrapf(errors.New("topic"), format, args...).Error()}
}

// Name is a validated Topic Name: the destination a PUBLISH addresses. A
// Name never contains wildcard characters.
type Name struct {
	raw    string
	levels []string
}

// ParseName validates s as a Topic Name and returns its parsed form.
func ParseName(s string) (Name, error) {
	if err := checkCommon(s); err != nil {
		return Name{}, err
	}
	for i := 0; i < len(s); i++ {
		if s[i] == '+' || s[i] == '#' {
			return Name{}, invalid("topic name: %q contains a wildcard character", s)
		}
	}
	return Name{raw: s, levels: splitLevels(s)}, nil
}

// String returns the Topic Name exactly as supplied to ParseName.
func (n Name) String() string {
	return n.raw
}

// Levels returns the '/'-separated segments of the name.
func (n Name) Levels() []string {
	return n.levels
}

// segmentKind classifies one Topic Filter level.
type segmentKind byte

const (
	segmentLiteral segmentKind = iota
	segmentPlus
	segmentHash
)

type segment struct {
	kind segmentKind
	text string
}

// Filter is a validated Topic Filter: the pattern a SUBSCRIBE/UNSUBSCRIBE
// names, possibly containing '+' and '#' wildcards and an optional
// "$share/<group>/" shared-subscription prefix.
type Filter struct {
	raw      string
	segments []segment

	shared    bool
	shareName string
	// filterPart is the filter text following the $share/<group>/ prefix,
	// or the whole raw filter when not shared.
	filterPart string
}

// ParseFilter validates s as a Topic Filter — stripping and validating a
// "$share/<group>/" prefix if present — and checks wildcard placement:
// '#' may only occupy the final level, and '+' must occupy a whole level.
func ParseFilter(s string) (Filter, error) {
	if err := checkCommon(s); err != nil {
		return Filter{}, err
	}

	f := Filter{raw: s, filterPart: s}

	if strings.HasPrefix(s, sharePrefix) {
		remainder := s[len(sharePrefix):]
		slash := strings.IndexByte(remainder, '/')
		if slash <= 0 {
			return Filter{}, invalid("shared subscription filter %q missing group name", s)
		}
		shareName := remainder[:slash]
		if strings.ContainsAny(shareName, "+#") {
			return Filter{}, invalid("shared subscription group name %q must not contain wildcards", shareName)
		}
		filterPart := remainder[slash+1:]
		if filterPart == "" {
			return Filter{}, invalid("shared subscription filter %q missing topic filter", s)
		}
		f.shared = true
		f.shareName = shareName
		f.filterPart = filterPart
	}

	levels := splitLevels(f.filterPart)
	segments := make([]segment, 0, len(levels))
	for i, level := range levels {
		switch {
		case level == "#":
			if i != len(levels)-1 {
				return Filter{}, invalid("topic filter %q: '#' must be the final level", s)
			}
			segments = append(segments, segment{kind: segmentHash})
		case strings.ContainsRune(level, '#'):
			return Filter{}, invalid("topic filter %q: '#' must occupy an entire level", s)
		case level == "+":
			segments = append(segments, segment{kind: segmentPlus})
		case strings.ContainsRune(level, '+'):
			return Filter{}, invalid("topic filter %q: '+' must occupy an entire level", s)
		default:
			segments = append(segments, segment{kind: segmentLiteral, text: level})
		}
	}
	f.segments = segments

	return f, nil
}

// String returns the Topic Filter exactly as supplied to ParseFilter,
// including any shared-subscription prefix.
func (f Filter) String() string {
	return f.raw
}

// HasWildcards reports whether the filter contains '+' or '#'.
func (f Filter) HasWildcards() bool {
	for _, s := range f.segments {
		if s.kind != segmentLiteral {
			return true
		}
	}
	return false
}

// Shared reports whether this is a "$share/<group>/..." filter, and if so
// returns the group name and the filter text following the prefix.
func (f Filter) Shared() (group string, plainFilter string, ok bool) {
	return f.shareName, f.filterPart, f.shared
}

// Matches reports whether name satisfies this filter, per the wildcard
// matching rules of MQTT 5 section 4.7. A name beginning with '$' is never
// matched by a filter whose first level is a wildcard ('+' or '#'); only a
// filter whose first level is literally equal to the name's first level can
// match it (section 4.7.2).
func (f Filter) Matches(name Name) bool {
	nameLevels := name.levels
	if len(nameLevels) > 0 && len(nameLevels[0]) > 0 && nameLevels[0][0] == '$' {
		if len(f.segments) == 0 || f.segments[0].kind != segmentLiteral {
			return false
		}
	}
	return matchSegments(f.segments, nameLevels)
}

func matchSegments(segs []segment, levels []string) bool {
	for i, seg := range segs {
		switch seg.kind {
		case segmentHash:
			return true
		case segmentPlus:
			if i >= len(levels) {
				return false
			}
		default:
			if i >= len(levels) || levels[i] != seg.text {
				return false
			}
		}
	}
	return len(segs) == len(levels)
}

func checkCommon(s string) error {
	if len(s) == 0 {
		return invalid("topic must not be empty")
	}
	if len(s) > maxLength {
		return invalid("topic exceeds maximum length %d", maxLength)
	}
	if !utf8.ValidString(s) {
		return invalid("topic contains invalid UTF-8")
	}
	for i := 0; i < len(s); i++ {
		if s[i] == 0 {
			return invalid("topic contains a null character")
		}
	}
	return nil
}

func splitLevels(s string) []string {
	return strings.Split(s, "/")
}
