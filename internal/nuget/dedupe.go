package nuget

import (
	"strings"

	"nugo/internal/version"
)

// dedupeResults merges per-source result sets into one list with a single
// entry per package identity. Identity is the package ID, case-insensitive.
// When two sources report the same package, the higher semantic version
// wins; on exact version equality the earlier-configured source wins, which
// falls out of replacing an entry only on a strictly greater version.
// The per-source tags exist only to drive this merge and are cleared from
// the returned results.
func dedupeResults(groups [][]SearchResult) []SearchResult {
	var out []SearchResult
	index := make(map[string]int)

	for _, group := range groups {
		for _, r := range group {
			key := strings.ToLower(r.ID)
			at, seen := index[key]
			if !seen {
				index[key] = len(out)
				out = append(out, r)
				continue
			}
			if version.CompareStrings(r.Version, out[at].Version) > 0 {
				out[at] = r
			}
		}
	}

	for i := range out {
		out[i].SourceID = ""
		out[i].SourceName = ""
	}
	return out
}
