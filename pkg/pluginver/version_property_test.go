// SPDX-License-Identifier: MPL-2.0

package pluginver

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// segmentGen produces either a decimal number or a junk segment.
func segmentGen() *rapid.Generator[string] {
	return rapid.OneOf(
		rapid.Map(rapid.IntRange(0, 1_000_000), strconv.Itoa),
		rapid.StringMatching(`[a-z\-+ ]{0,4}`),
	)
}

// TestParseVersion_SegmentsAreIndependent checks that each component depends
// only on its own segment.
func TestParseVersion_SegmentsAreIndependent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		segments := rapid.SliceOfN(segmentGen(), 0, 6).Draw(t, "segments")
		text := strings.Join(segments, ".")

		v := ParseVersion(text)
		got := []int{v.Major, v.Minor, v.Patch}

		for i := range segmentCount {
			want := 0
			if i < len(segments) {
				want = parseSegment(segments[i])
			}
			assert.Equal(t, want, got[i], "component %d of %q", i, text)
		}
		assert.Equal(t, text, v.Text)
	})
}

// TestParseVersion_NeverNegative checks the non-negative invariant for arbitrary input.
func TestParseVersion_NeverNegative(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		text := rapid.String().Draw(t, "text")

		v := ParseVersion(text)
		assert.GreaterOrEqual(t, v.Major, 0)
		assert.GreaterOrEqual(t, v.Minor, 0)
		assert.GreaterOrEqual(t, v.Patch, 0)
	})
}

// TestParseVersion_RoundTripsWellFormed checks that a well-formed triple
// survives extraction from a descriptor unchanged.
func TestParseVersion_RoundTripsWellFormed(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		major := rapid.IntRange(0, 999).Draw(t, "major")
		minor := rapid.IntRange(0, 999).Draw(t, "minor")
		patch := rapid.IntRange(0, 999).Draw(t, "patch")
		text := strconv.Itoa(major) + "." + strconv.Itoa(minor) + "." + strconv.Itoa(patch)

		desc := &Descriptor{Path: "Charon.uplugin", Content: []byte(`{"VersionName": "` + text + `"}`)}
		v := VersionFromDescriptor(desc)

		require.Equal(t, text, v.Text)
		assert.Equal(t, major, v.Major)
		assert.Equal(t, minor, v.Minor)
		assert.Equal(t, patch, v.Patch)
	})
}

// TestAtLeast_MatchesLexicographicOrder checks the macro predicate against
// (major, minor) tuple ordering.
func TestAtLeast_MatchesLexicographicOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := SemanticVersion{
			Major: rapid.IntRange(0, 20).Draw(t, "major"),
			Minor: rapid.IntRange(0, 20).Draw(t, "minor"),
			Patch: rapid.IntRange(0, 20).Draw(t, "patch"),
		}
		targetMajor := rapid.IntRange(0, 20).Draw(t, "targetMajor")
		targetMinor := rapid.IntRange(0, 20).Draw(t, "targetMinor")

		want := v.Major*1000+v.Minor >= targetMajor*1000+targetMinor
		assert.Equal(t, want, v.AtLeast(targetMajor, targetMinor))
	})
}
