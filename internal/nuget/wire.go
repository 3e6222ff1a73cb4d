package nuget

import (
	"encoding/json"
	"strings"
	"time"
)

// Wire schemas for the registry's v3 JSON documents. Fields beyond what the
// client consumes are ignored, so additive schema changes are tolerated.

// serviceIndex is the root discovery document.
type serviceIndex struct {
	Version   string            `json:"version"`
	Resources []serviceResource `json:"resources"`
}

// serviceResource is one capability-typed endpoint in the service index.
type serviceResource struct {
	ID   string `json:"@id"`
	Type string `json:"@type"`
}

// stringList tolerates the registry's two encodings of list-valued fields:
// a JSON array of strings or a single comma-delimited string. Entries keep
// their internal spaces, so author names survive intact.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = normalizeList(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	*l = normalizeList(strings.Split(single, ","))
	return nil
}

// tagList is like stringList but also splits on spaces, matching how the
// registry delimits tag strings.
type tagList []string

func (l *tagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = normalizeList(list)
		return nil
	}

	var single string
	if err := json.Unmarshal(data, &single); err != nil {
		return err
	}
	fields := strings.FieldsFunc(single, func(r rune) bool {
		return r == ',' || r == ' '
	})
	*l = normalizeList(fields)
	return nil
}

func normalizeList(fields []string) []string {
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// searchResponse is the search endpoint's payload.
type searchResponse struct {
	TotalHits int64              `json:"totalHits"`
	Data      []searchResultWire `json:"data"`
}

// searchResultWire is one package summary in a search response.
type searchResultWire struct {
	ID             string     `json:"id"`
	Version        string     `json:"version"`
	Description    string     `json:"description"`
	Authors        stringList `json:"authors"`
	TotalDownloads int64      `json:"totalDownloads"`
	IconURL        string     `json:"iconUrl"`
	Verified       bool       `json:"verified"`
	Tags           tagList    `json:"tags"`
}

// defaultIconURL stands in when a package summary carries no icon.
const defaultIconURL = "https://www.nuget.org/Content/gallery/img/default-package-icon-256x256.png"

func (w searchResultWire) toDomain() SearchResult {
	icon := w.IconURL
	if icon == "" {
		icon = defaultIconURL
	}
	return SearchResult{
		ID:             w.ID,
		Version:        w.Version,
		Description:    w.Description,
		Authors:        w.Authors,
		TotalDownloads: w.TotalDownloads,
		IconURL:        icon,
		Verified:       w.Verified,
		Tags:           w.Tags,
	}
}

// registrationIndex is a package's paged registration document.
type registrationIndex struct {
	Count int                `json:"count"`
	Items []registrationPage `json:"items"`
}

// registrationPage is one page of registration leaves. Pages holding more
// than 64 entries are not inlined; Items is empty and the page document
// must be fetched from ID.
type registrationPage struct {
	ID    string             `json:"@id"`
	Count int                `json:"count"`
	Lower string             `json:"lower"`
	Upper string             `json:"upper"`
	Items []registrationLeaf `json:"items"`
}

// registrationLeaf describes one version. CatalogEntry is either an
// inlined catalogEntry object or a URL string referencing one.
type registrationLeaf struct {
	ID             string          `json:"@id"`
	CatalogEntry   json.RawMessage `json:"catalogEntry"`
	PackageContent string          `json:"packageContent"`
	Listed         *bool           `json:"listed"`
}

// catalogEntry is the full metadata record for one version.
type catalogEntry struct {
	ID                string                `json:"id"`
	Version           string                `json:"version"`
	Description       string                `json:"description"`
	Authors           stringList            `json:"authors"`
	Published         time.Time             `json:"published"`
	ProjectURL        string                `json:"projectUrl"`
	LicenseExpression string                `json:"licenseExpression"`
	IconURL           string                `json:"iconUrl"`
	Tags              tagList               `json:"tags"`
	Listed            *bool                 `json:"listed"`
	DependencyGroups  []dependencyGroupWire `json:"dependencyGroups"`
}

type dependencyGroupWire struct {
	TargetFramework string           `json:"targetFramework"`
	Dependencies    []dependencyWire `json:"dependencies"`
}

type dependencyWire struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

// toDomain merges a catalog entry with its owning leaf. The leaf's listed
// flag wins when the entry omits one; both absent means listed.
func (e catalogEntry) toDomain(leaf *registrationLeaf) VersionDetails {
	listed := true
	if e.Listed != nil {
		listed = *e.Listed
	} else if leaf != nil && leaf.Listed != nil {
		listed = *leaf.Listed
	}

	groups := make([]DependencyGroup, 0, len(e.DependencyGroups))
	for _, g := range e.DependencyGroups {
		deps := make([]Dependency, 0, len(g.Dependencies))
		for _, d := range g.Dependencies {
			deps = append(deps, Dependency{ID: d.ID, Range: d.Range})
		}
		groups = append(groups, DependencyGroup{
			TargetFramework: g.TargetFramework,
			Dependencies:    deps,
		})
	}

	return VersionDetails{
		ID:                e.ID,
		Version:           e.Version,
		Description:       e.Description,
		Authors:           e.Authors,
		Published:         e.Published,
		ProjectURL:        e.ProjectURL,
		LicenseExpression: e.LicenseExpression,
		IconURL:           e.IconURL,
		Tags:              e.Tags,
		Listed:            listed,
		DependencyGroups:  groups,
	}
}
