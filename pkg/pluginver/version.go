// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"strconv"
	"strings"
)

// FallbackVersionText is the version string used when no descriptor exists or
// it carries no usable VersionName.
const FallbackVersionText = "0.0.0"

// segmentCount is the number of dot-separated components that carry meaning.
const segmentCount = 3

// SemanticVersion is the (major, minor, patch) triple of a plugin together with
// the text it was parsed from. Components are never negative.
type SemanticVersion struct {
	Major int
	Minor int
	Patch int
	// Text is the matched VersionName value, or FallbackVersionText.
	Text string
}

// FallbackVersion returns the 0.0.0 version used when nothing could be extracted.
func FallbackVersion() SemanticVersion {
	return SemanticVersion{Text: FallbackVersionText}
}

// ParseVersion splits text on '.' and parses the first three segments
// independently. A segment that is missing, non-numeric, negative or out of
// range becomes 0 without affecting the others; segments past the third are
// ignored. ParseVersion never fails.
func ParseVersion(text string) SemanticVersion {
	var parts [segmentCount]int
	for i, segment := range strings.Split(text, ".") {
		if i == segmentCount {
			break
		}
		parts[i] = parseSegment(segment)
	}
	return SemanticVersion{
		Major: parts[0],
		Minor: parts[1],
		Patch: parts[2],
		Text:  text,
	}
}

// parseSegment is the parse-or-default step for a single component. Values
// outside the 32-bit signed range are out of range on every host.
func parseSegment(segment string) int {
	n, err := strconv.ParseInt(strings.TrimSpace(segment), 10, 32)
	if err != nil || n < 0 {
		return 0
	}
	return int(n)
}

// AtLeast reports whether the version is at least major.minor. Patch is not
// considered.
func (v SemanticVersion) AtLeast(major, minor int) bool {
	return v.Major > major || (v.Major == major && v.Minor >= minor)
}

// String returns the text the version was parsed from.
func (v SemanticVersion) String() string { return v.Text }

// Triple formats the numeric components as "major.minor.patch".
func (v SemanticVersion) Triple() string {
	return strconv.Itoa(v.Major) + "." + strconv.Itoa(v.Minor) + "." + strconv.Itoa(v.Patch)
}
