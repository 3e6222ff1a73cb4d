package nuget

import "time"

// AuthType selects how credentials are presented to a source.
type AuthType string

const (
	AuthNone   AuthType = "none"
	AuthBasic  AuthType = "basic"
	AuthBearer AuthType = "bearer"
	AuthAPIKey AuthType = "api-key"
)

// AuthConfig holds the credentials for one source.
type AuthConfig struct {
	Type       AuthType
	Username   string
	Secret     string
	HeaderName string // header to set for api-key auth
}

// Source is one configured registry. Immutable once constructed.
type Source struct {
	ID       string
	Name     string
	Kind     string // provider kind, e.g. "nuget", "github", "azure"
	IndexURL string // service index URL
	Enabled  bool
	Auth     *AuthConfig
}

// AllSources is the sentinel source identifier selecting every enabled
// source for a search.
const AllSources = "all"

// SearchOptions contains parameters for a package search.
type SearchOptions struct {
	Query             string // free text; empty browses all packages
	IncludePrerelease bool
	Skip              int
	Take              int
	SemVerLevel       string // defaults from client configuration
}

// SearchResult is one package summary from a search response.
// SourceID and SourceName are populated only while a multi-source search
// merges results and are cleared before results are returned.
type SearchResult struct {
	ID             string   `json:"id"`
	Version        string   `json:"version"`
	Description    string   `json:"description"`
	Authors        []string `json:"authors"`
	TotalDownloads int64    `json:"totalDownloads"`
	IconURL        string   `json:"iconUrl"`
	Verified       bool     `json:"verified"`
	Tags           []string `json:"tags"`
	SourceID       string   `json:"-"`
	SourceName     string   `json:"-"`
}

// DependencyGroup is the set of dependencies for one target framework.
type DependencyGroup struct {
	TargetFramework string       `json:"targetFramework"`
	Dependencies    []Dependency `json:"dependencies"`
}

// Dependency names one package dependency and its version range.
type Dependency struct {
	ID    string `json:"id"`
	Range string `json:"range"`
}

// VersionDetails is the full metadata for one package version.
type VersionDetails struct {
	ID                string            `json:"id"`
	Version           string            `json:"version"`
	Description       string            `json:"description"`
	Authors           []string          `json:"authors"`
	Published         time.Time         `json:"published"`
	ProjectURL        string            `json:"projectUrl"`
	LicenseExpression string            `json:"licenseExpression"`
	IconURL           string            `json:"iconUrl"`
	Tags              []string          `json:"tags"`
	Listed            bool              `json:"listed"`
	DependencyGroups  []DependencyGroup `json:"dependencyGroups"`
}

// PackageIndex is the merged version list for one package, sorted
// newest to oldest by semantic version.
type PackageIndex struct {
	ID       string           `json:"id"`
	Versions []VersionDetails `json:"versions"`
}
