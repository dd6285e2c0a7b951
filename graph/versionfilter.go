package graph

import (
	"sort"

	hcversion "github.com/hashicorp/go-version"

	"github.com/gruntwork-io/artifact-resolver/coordinate"
)

// SemanticVersionFilter is a VersionFilter that drops any candidate that
// doesn't parse as a semantic version and returns the rest sorted newest
// first, so a VersionSelector seeing the filtered list can just take index 0
// for "highest version in range" range semantics. Unparsable candidates
// (qualifiers a plain semver parser rejects) are silently excluded rather
// than erroring, since a version range commonly mixes well-formed releases
// with one-off snapshot or vendor-qualified strings.
func SemanticVersionFilter(_ coordinate.Coordinate, candidates []string) []string {
	parsed := make([]*hcversion.Version, 0, len(candidates))
	for _, c := range candidates {
		v, err := hcversion.NewVersion(c)
		if err != nil {
			continue
		}
		parsed = append(parsed, v)
	}

	sort.Sort(sort.Reverse(hcversion.Collection(parsed)))

	out := make([]string, len(parsed))
	for i, v := range parsed {
		out[i] = v.Original()
	}
	return out
}
